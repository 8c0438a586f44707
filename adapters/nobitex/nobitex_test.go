package nobitex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifex/config"
	"unifex/exchange"
)

func clientConfig() config.ClientConfig {
	return config.ClientConfig{
		Timeout: 5 * time.Second,
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 1000,
			BurstSize:         100,
		},
		Retry: config.RetryConfig{
			MaxAttempts:       1,
			BaseDelay:         time.Millisecond,
			MaxDelay:          time.Millisecond,
			BackoffMultiplier: 2,
		},
	}
}

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body, ok := routes[r.URL.Path]; ok {
			_, _ = w.Write([]byte(body))
			return
		}
		t.Errorf("unexpected request path %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const currenciesResponse = `{"status": "ok", "currencies": ["btc", "eth", "usdt", "rls"]}`

func newTestExchange(t *testing.T, routes map[string]string, apiKey string) *Nobitex {
	t.Helper()
	srv := newTestServer(t, routes)
	return New(config.ExchangeConfig{BaseURL: srv.URL, APIKey: apiKey}, clientConfig())
}

func TestFetchMarkets(t *testing.T) {
	n := newTestExchange(t, map[string]string{
		"/market/currencies": currenciesResponse,
	}, "")

	markets, err := n.FetchMarkets(context.Background())
	require.NoError(t, err)

	bySymbol := map[string]string{}
	for _, m := range markets {
		bySymbol[m.Symbol] = m.ID
	}
	// Every asset trades against both quotes, the rial is never a base and
	// usdt does not trade against itself.
	assert.Equal(t, "btc-rls", bySymbol["BTC/IRT"])
	assert.Equal(t, "btc-usdt", bySymbol["BTC/USDT"])
	assert.Equal(t, "usdt-rls", bySymbol["USDT/IRT"])
	assert.NotContains(t, bySymbol, "USDT/USDT")
	assert.NotContains(t, bySymbol, "IRT/USDT")
	assert.Len(t, markets, 5)
}

func TestFetchCurrencies(t *testing.T) {
	n := newTestExchange(t, map[string]string{
		"/market/currencies": currenciesResponse,
	}, "")

	currencies, err := n.FetchCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, currencies, 4)
	assert.Equal(t, "btc", currencies["BTC"].ID)
	// The rial maps onto the unified IRT code.
	assert.Equal(t, "rls", currencies["IRT"].ID)
}

func TestFetchTickerRescalesRials(t *testing.T) {
	n := newTestExchange(t, map[string]string{
		"/market/currencies": currenciesResponse,
		"/market/stats": `{"status": "ok", "stats": {"btc-rls": {
			"bestSell": "65000000000",
			"bestBuy": "64990000000",
			"latest": "65000000000",
			"dayHigh": "66000000000",
			"dayLow": "64000000000",
			"dayOpen": "64500000000",
			"dayClose": "65000000000",
			"dayChange": "0.78",
			"volumeSrc": "12.5",
			"volumeDst": "810000000000"
		}}}`,
	}, "")

	ticker, err := n.FetchTicker(context.Background(), "BTC/IRT")
	require.NoError(t, err)

	assert.Equal(t, "BTC/IRT", ticker.Symbol)
	assert.Equal(t, "6500000000", ticker.Last.String())
	assert.Equal(t, "6499000000", ticker.Bid.String())
	assert.Equal(t, "6500000000", ticker.Ask.String())
	assert.Equal(t, "6600000000", ticker.High.String())
	// dayChange is a percentage and must not be rescaled.
	assert.Equal(t, "0.78", ticker.Percentage.String())
	// Base volume is in BTC, quote volume in rials.
	assert.Equal(t, "12.5", ticker.BaseVolume.String())
	assert.Equal(t, "81000000000", ticker.QuoteVolume.String())
	assert.NotEmpty(t, ticker.Datetime)
}

func TestFetchTickerUSDTNotRescaled(t *testing.T) {
	n := newTestExchange(t, map[string]string{
		"/market/currencies": currenciesResponse,
		"/market/stats":      `{"status": "ok", "stats": {"btc-usdt": {"latest": "65000", "bestBuy": "64990", "bestSell": "65010"}}}`,
	}, "")

	ticker, err := n.FetchTicker(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	assert.Equal(t, "65000", ticker.Last.String())
}

func TestFetchTickerWithDefaultRateLimit(t *testing.T) {
	// market/stats carries weight 2; it must still dispatch under the
	// out-of-the-box rate limit settings rather than only under the
	// generous limits the other tests use.
	srv := newTestServer(t, map[string]string{
		"/market/currencies": currenciesResponse,
		"/market/stats":      `{"status": "ok", "stats": {"btc-rls": {"latest": "65000000000"}}}`,
	})
	n := New(config.ExchangeConfig{BaseURL: srv.URL}, config.ClientConfig{
		Timeout: 5 * time.Second,
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         1,
		},
		Retry: config.RetryConfig{
			MaxAttempts:       3,
			BaseDelay:         time.Millisecond,
			MaxDelay:          5 * time.Millisecond,
			BackoffMultiplier: 2,
		},
	})

	ticker, err := n.FetchTicker(context.Background(), "BTC/IRT")
	require.NoError(t, err)
	assert.Equal(t, "6500000000", ticker.Last.String())
}

func TestFetchOrderBook(t *testing.T) {
	n := newTestExchange(t, map[string]string{
		"/market/currencies": currenciesResponse,
		"/v2/orderbook/BTCRLS": `{
			"status": "ok",
			"lastUpdate": 1700000000000,
			"bids": [["65000000000", "0.5"], ["64900000000", "1.2"]],
			"asks": [["65100000000", "0.3"]]
		}`,
	}, "")

	book, err := n.FetchOrderBook(context.Background(), "BTC/IRT", 0)
	require.NoError(t, err)

	assert.Equal(t, "BTC/IRT", book.Symbol)
	assert.Equal(t, int64(1700000000000), book.Timestamp)
	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 1)
	assert.Equal(t, 6500000000.0, book.Bids[0].Price)
	assert.Equal(t, 0.5, book.Bids[0].Amount)
	assert.Equal(t, 6510000000.0, book.Asks[0].Price)
}

func TestFetchOHLCVFillsGaps(t *testing.T) {
	since := int64(1700000000000)
	n := newTestExchange(t, map[string]string{
		"/market/currencies": currenciesResponse,
		"/market/udf/history": `{
			"s": "ok",
			"t": [1700000000, 1700007200],
			"o": [650000000000, 655000000000],
			"h": [660000000000, 665000000000],
			"l": [640000000000, 650000000000],
			"c": [655000000000, 660000000000],
			"v": [10, 20]
		}`,
	}, "")

	candles, err := n.FetchOHLCV(context.Background(), "BTC/IRT", "1h", since, 4)
	require.NoError(t, err)
	require.Len(t, candles, 4)

	// Prices come back in toman.
	assert.Equal(t, 65000000000.0, candles[0].Open)
	// The missing middle bucket is synthesized flat at the previous close.
	assert.Equal(t, since+3600_000, candles[1].Timestamp)
	assert.Equal(t, 65500000000.0, candles[1].Close)
	assert.Equal(t, 0.0, candles[1].Volume)
	// The trailing bucket extends the last close.
	assert.Equal(t, 66000000000.0, candles[3].Close)
	for i := 1; i < len(candles); i++ {
		assert.Equal(t, int64(3600_000), candles[i].Timestamp-candles[i-1].Timestamp)
	}
}

func TestFetchBalance(t *testing.T) {
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/wallets/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		sawAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status": "ok", "wallets": [
			{"currency": "btc", "balance": "1.5", "blockedBalance": "0.5"},
			{"currency": "rls", "balance": "10000000000", "blockedBalance": "0"}
		]}`))
	}))
	defer srv.Close()

	n := New(config.ExchangeConfig{BaseURL: srv.URL, APIKey: "secret-token"}, clientConfig())
	balances, err := n.FetchBalance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Token secret-token", sawAuth)
	btc := balances.Currencies["BTC"]
	assert.Equal(t, "1.5", btc.Total.String())
	assert.Equal(t, "0.5", btc.Used.String())
	assert.Equal(t, "1", btc.Free.String())
	// Rial wallet is rescaled and keyed under the unified code.
	irt := balances.Currencies["IRT"]
	assert.Equal(t, "1000000000", irt.Total.String())
}

func TestFetchBalanceRequiresCredentials(t *testing.T) {
	n := New(config.ExchangeConfig{BaseURL: "http://unused"}, clientConfig())
	_, err := n.FetchBalance(context.Background())
	var auth *exchange.AuthenticationError
	require.ErrorAs(t, err, &auth)
}

func TestCreateOrderSendsRialPrice(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/market/currencies":
			_, _ = w.Write([]byte(currenciesResponse))
		case "/market/orders/add":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			_, _ = w.Write([]byte(`{"status": "ok", "order": {
				"id": 5000, "type": "buy", "execution": "limit", "status": "Active",
				"price": "65000000000", "amount": "0.1", "matchedAmount": "0",
				"created_at": "2023-11-14T22:13:20Z"
			}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	n := New(config.ExchangeConfig{BaseURL: srv.URL, APIKey: "token"}, clientConfig())
	price := 6500000000.0
	order, err := n.CreateOrder(context.Background(), "BTC/IRT", "limit", "buy", 0.1, &price, nil)
	require.NoError(t, err)

	assert.Equal(t, "buy", captured["type"])
	assert.Equal(t, "limit", captured["execution"])
	assert.Equal(t, "btc", captured["srcCurrency"])
	assert.Equal(t, "rls", captured["dstCurrency"])
	// Unified toman prices go back to rials on the wire.
	assert.Equal(t, "65000000000", captured["price"])

	assert.Equal(t, "5000", order.ID)
	assert.Equal(t, "open", string(order.Status))
	assert.Equal(t, "6500000000", order.Price.String())
	assert.Equal(t, "0.1", order.Remaining.String())
}

func TestOrderStatusMapping(t *testing.T) {
	tests := []struct {
		native string
		want   string
	}{
		{"Active", "open"},
		{"New", "open"},
		{"Done", "closed"},
		{"Canceled", "canceled"},
		{"Expired", "canceled"},
	}
	n := New(config.ExchangeConfig{BaseURL: "http://unused"}, clientConfig())
	for _, tt := range tests {
		order := n.parseOrder(map[string]any{"id": 1, "status": tt.native}, nil)
		assert.Equal(t, tt.want, string(order.Status), "status %s", tt.native)
	}
}

func TestHandleErrorsClassification(t *testing.T) {
	n := newTestExchange(t, map[string]string{
		"/market/currencies": `{"status": "failed", "code": "TokenInvalid", "message": "Token is invalid"}`,
	}, "")

	_, err := n.FetchMarkets(context.Background())
	var auth *exchange.AuthenticationError
	require.ErrorAs(t, err, &auth)
	assert.Equal(t, "nobitex", auth.Exchange)
	assert.NotEmpty(t, auth.Body)
}

func TestUnknownSymbol(t *testing.T) {
	n := newTestExchange(t, map[string]string{
		"/market/currencies": currenciesResponse,
	}, "")

	_, err := n.FetchOrderBook(context.Background(), "DOGE/IRT", 0)
	var bs *exchange.BadSymbol
	require.True(t, errors.As(err, &bs))
}
