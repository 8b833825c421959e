package coingecko

import (
	"net/http"
	"net/url"
)

// baseURL is the default base URL for the CoinGecko API.
const baseURL = "https://api.coingecko.com/api/v3"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=coingecko_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CoinGeckoAPIClient is a client for the CoinGecko API.
type CoinGeckoAPIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
}

// CoinGeckoAPIClientOption is a configuration option for the CoinGecko API client.
type CoinGeckoAPIClientOption func(*CoinGeckoAPIClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) CoinGeckoAPIClientOption {
	return func(c *CoinGeckoAPIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) CoinGeckoAPIClientOption {
	return func(c *CoinGeckoAPIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) CoinGeckoAPIClientOption {
	return func(c *CoinGeckoAPIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewCoinGeckoAPIClient creates a new CoinGecko API client.
// The key is optional; the public endpoint answers without one at a lower rate limit.
func NewCoinGeckoAPIClient(key string, options ...CoinGeckoAPIClientOption) (*CoinGeckoAPIClient, error) {
	var coinGeckoAPIClient = &CoinGeckoAPIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	if key != "" {
		// This is the query parameter used to authenticate demo keys.
		// https://docs.coingecko.com/reference/authentication
		coinGeckoAPIClient.query.Add("x_cg_demo_api_key", key)
	}
	for _, option := range options {
		option(coinGeckoAPIClient)
	}
	return coinGeckoAPIClient, nil
}
