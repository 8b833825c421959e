package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"
)

// GetSimplePrice retrieves current prices for the given coin ids quoted in the
// given currencies. The response maps coin id -> currency code -> price; coins
// unknown to the API are absent from the map rather than an error.
func (c *CoinGeckoAPIClient) GetSimplePrice(ctx context.Context, ids, vsCurrencies []string, opts ...CoinGeckoAPIClientOption) (map[string]map[string]float64, error) {
	var override = &CoinGeckoAPIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}

	query := maps.Clone(override.query)
	query.Add("ids", strings.Join(ids, ","))
	query.Add("vs_currencies", strings.Join(vsCurrencies, ","))

	url := fmt.Sprintf("%s/simple/price?%s", override.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusBadRequest:
		return nil, fmt.Errorf("bad request with ids=%s", strings.Join(ids, ","))

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("unauthorized")

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")

	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	var prices map[string]map[string]float64
	dec := json.NewDecoder(res.Body)
	if err := dec.Decode(&prices); err != nil {
		return nil, fmt.Errorf("decoding prices response: %w", err)
	}

	return prices, nil
}
