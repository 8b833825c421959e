package coingecko_test

import (
	"context"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	coingecko "pricetrend/internal/provider/coingecko"
)

var mockPricesResponse = map[string]map[string]float64{
	"bitcoin":  {"usd": 64250.12, "inr": 5361000.5},
	"ethereum": {"usd": 3150.44, "inr": 262900.1},
}

func TestGetSimplePrice(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "test-key", req.URL.Query().Get("x_cg_demo_api_key"))
			require.Contains(t, req.URL.Path, "/simple/price")
			require.Equal(t, "bitcoin,ethereum", req.URL.Query().Get("ids"))
			require.Equal(t, "usd,inr", req.URL.Query().Get("vs_currencies"))

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(mockPricesResponse))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new CoinGecko API client
	client, err := coingecko.NewCoinGeckoAPIClient("test-key", coingecko.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetSimplePrice
	prices, err := client.GetSimplePrice(context.Background(), []string{"bitcoin", "ethereum"}, []string{"usd", "inr"})
	require.NoError(t, err)
	require.NotNil(t, prices)

	// Assert: prices should be unmarshalled from the mock response
	require.Len(t, prices, 2)
	require.InEpsilon(t, mockPricesResponse["bitcoin"]["usd"], prices["bitcoin"]["usd"], 0.0001)
	require.InEpsilon(t, mockPricesResponse["ethereum"]["inr"], prices["ethereum"]["inr"], 0.0001)
}

func TestGetSimplePrice_PartialResponse(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client that only knows bitcoin
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]map[string]float64{
				"bitcoin": {"usd": 64000},
			}))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new CoinGecko API client
	client, err := coingecko.NewCoinGeckoAPIClient("", coingecko.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: ask for a coin the API does not know
	prices, err := client.GetSimplePrice(context.Background(), []string{"bitcoin", "no-such-coin"}, []string{"usd"})

	// Assert: missing coins are absent, not an error
	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.Contains(t, prices, "bitcoin")
	require.NotContains(t, prices, "no-such-coin")
}

func TestGetSimplePrice_ErrCreatingRequest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the Do method is never reached
	httpClient.EXPECT().
		Do(gomock.Any()).
		Times(0)

	// Arrange: setup a new CoinGecko API client
	client, err := coingecko.NewCoinGeckoAPIClient("", coingecko.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call GetSimplePrice with an unparsable base URL
	prices, err := client.GetSimplePrice(context.Background(), []string{"bitcoin"}, []string{"usd"}, coingecko.WithBaseURL(string([]rune{0x7f})))
	require.Error(t, err)
	require.Nil(t, prices)
}

func TestGetSimplePrice_StatusErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		want   string
	}{
		{name: "bad request", status: http.StatusBadRequest, want: "bad request"},
		{name: "unauthorized", status: http.StatusUnauthorized, want: "unauthorized"},
		{name: "rate limited", status: http.StatusTooManyRequests, want: "rate limited"},
		{name: "server error", status: http.StatusInternalServerError, want: "unexpected status code"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Arrange: a mock HTTP client answering with the status under test
			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().
				Do(gomock.Any()).
				DoAndReturn(func(req *http.Request) (*http.Response, error) {
					return &http.Response{
						StatusCode: tc.status,
						Body:       io.NopCloser(strings.NewReader("{}")),
					}, nil
				}).
				Times(1)

			client, err := coingecko.NewCoinGeckoAPIClient("", coingecko.WithHTTPClient(httpClient))
			require.NoError(t, err)

			// Act + Assert
			prices, err := client.GetSimplePrice(context.Background(), []string{"bitcoin"}, []string{"usd"})
			require.Error(t, err)
			require.Nil(t, prices)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestGetSimplePrice_ErrDecodingResponse(t *testing.T) {
	t.Parallel()

	// Arrange: a mock HTTP client answering with a malformed body
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader("not json")),
			}, nil
		}).
		Times(1)

	client, err := coingecko.NewCoinGeckoAPIClient("", coingecko.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act + Assert
	prices, err := client.GetSimplePrice(context.Background(), []string{"bitcoin"}, []string{"usd"})
	require.Error(t, err)
	require.Nil(t, prices)
}
