// Package exir implements the EXIR exchange adapter. EXIR is unusual in two
// ways: the bulk ticker endpoint answers with positional CSV lines instead of
// JSON, and private calls sign a base64-encoded JSON envelope of the path,
// nonce and parameters with HMAC-SHA512.
package exir

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"unifex/common"
	"unifex/config"
	"unifex/exchange"
	"unifex/models"
)

type Exir struct {
	*exchange.Client
}

func New(cfg config.ExchangeConfig, ccfg config.ClientConfig) *Exir {
	e := &Exir{}
	opts := exchange.DefaultOptions().Extend(exchange.Options{
		ID:        "exir",
		Name:      "EXIR",
		Countries: []string{"IR"},
		Version:   "v1",
		URLs: exchange.URLs{
			API: map[string]string{
				"public":  "https://api.exir.io",
				"private": "https://api.exir.io",
			},
			WWW:  "https://exir.io",
			Docs: []string{"https://apidocs.exir.io"},
		},
		API: map[string]map[string]int{
			"public": {
				"v1/constants":  1,
				"v1/tickers":    2,
				"v1/ticker":     1,
				"v1/orderbooks": 1,
				"v1/trades":     1,
				"v1/chart":      2,
			},
			"private": {
				"v1/user/balance": 1,
			},
		},
		Has: map[string]bool{
			"fetchMarkets":   true,
			"fetchTicker":    true,
			"fetchTickers":   true,
			"fetchOrderBook": true,
			"fetchOHLCV":     true,
			"fetchTrades":    true,
			"fetchBalance":   true,
		},
		Timeframes: map[string]string{
			"1h": "1h",
			"1d": "1d",
			"1w": "1w",
		},
		Fees: exchange.TradingFees{Maker: 0.002, Taker: 0.002},
		ErrorsExact: map[string]exchange.ErrorKind{
			"Access denied":     exchange.KindAuthentication,
			"Invalid API key":   exchange.KindAuthentication,
			"Invalid signature": exchange.KindAuthentication,
			"Invalid nonce":     exchange.KindInvalidNonce,
			"Invalid symbol":    exchange.KindBadSymbol,
		},
		ErrorsBroad: []exchange.BroadError{
			{Substring: "api key", Kind: exchange.KindAuthentication},
			{Substring: "signature", Kind: exchange.KindAuthentication},
			{Substring: "nonce", Kind: exchange.KindInvalidNonce},
			{Substring: "insufficient", Kind: exchange.KindInsufficientFunds},
			{Substring: "maintenance", Kind: exchange.KindOnMaintenance},
		},
	})
	var base map[string]string
	if cfg.BaseURL != "" {
		base = map[string]string{"public": cfg.BaseURL, "private": cfg.BaseURL}
	}
	e.Client = exchange.NewClient(opts,
		exchange.Credentials{APIKey: cfg.APIKey, Secret: cfg.APISecret},
		exchange.ClientConfig{
			Timeout:           ccfg.Timeout,
			UserAgent:         ccfg.UserAgent,
			RequestsPerSecond: ccfg.RateLimit.RequestsPerSecond,
			BurstSize:         ccfg.RateLimit.BurstSize,
			Retry: exchange.RetryPolicy{
				MaxAttempts:       ccfg.Retry.MaxAttempts,
				BaseDelay:         ccfg.Retry.BaseDelay,
				MaxDelay:          ccfg.Retry.MaxDelay,
				BackoffMultiplier: ccfg.Retry.BackoffMultiplier,
			},
			BaseURLs: base,
		}, e)
	return e
}

// Sign builds the request. Private calls wrap the path, a fresh nonce and the
// parameters in a JSON envelope, base64-encode it, and sign that string with
// HMAC-SHA512.
func (e *Exir) Sign(path, section, method string, params map[string]any) (*exchange.Request, error) {
	path, rest := exchange.ImplodeParams(path, params)
	url := e.BaseURL(section) + "/" + path
	headers := map[string][]string{}
	body := ""

	if section == "public" || method == "GET" {
		if query := exchange.URLEncode(rest); query != "" {
			url += "?" + query
		}
	} else if len(rest) > 0 {
		encoded, err := json.Marshal(rest)
		if err != nil {
			return nil, exchange.NewError(exchange.KindBadRequest, e.ID(), err.Error(), "")
		}
		body = string(encoded)
		headers["Content-Type"] = []string{"application/json"}
	}

	if section == "private" {
		if err := e.RequireCredentials(); err != nil {
			return nil, err
		}
		nonce := common.Nonce()
		envelope, err := json.Marshal(map[string]any{
			"path":   "/" + path,
			"nonce":  nonce,
			"params": rest,
		})
		if err != nil {
			return nil, exchange.NewError(exchange.KindBadRequest, e.ID(), err.Error(), "")
		}
		payload := base64.StdEncoding.EncodeToString(envelope)
		creds := e.Credentials()
		headers["api-key"] = []string{creds.APIKey}
		headers["api-nonce"] = []string{strconv.FormatInt(nonce, 10)}
		headers["api-signature"] = []string{common.HmacSHA512Hex(payload, creds.Secret)}
	}

	return &exchange.Request{URL: url, Method: method, Headers: headers, Body: body}, nil
}

// HandleErrors translates {"message": ...} error payloads, which EXIR sends
// with non-2xx statuses and occasionally inside a 200.
func (e *Exir) HandleErrors(status int, body []byte) error {
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	message := exchange.SafeString(envelope, "message")
	if message == "" || status < 400 {
		return nil
	}
	if status >= 500 {
		return nil
	}
	return e.ClassifyError(message, message, body)
}

func (e *Exir) FetchMarkets(ctx context.Context) ([]models.Market, error) {
	var response map[string]any
	if _, err := e.Request(ctx, "public", "v1/constants", "GET", nil, &response); err != nil {
		return nil, err
	}
	pairs := exchange.SafeMap(response, "pairs")
	markets := make([]models.Market, 0, len(pairs))
	for id, raw := range pairs {
		m := exchange.AsMap(raw)
		if m == nil {
			continue
		}
		baseID := exchange.SafeStringLower(m, "pair_base")
		quoteID := exchange.SafeStringLower(m, "pair_2")
		base := e.CommonCurrency(baseID)
		quote := e.CommonCurrency(quoteID)
		markets = append(markets, models.Market{
			ID:      id,
			Symbol:  base + "/" + quote,
			Base:    base,
			Quote:   quote,
			BaseID:  baseID,
			QuoteID: quoteID,
			Type:    models.MarketTypeSpot,
			Active:  exchange.SafeBool(m, "active"),
			Taker:   models.NFloat(e.Options().Fees.Taker),
			Maker:   models.NFloat(e.Options().Fees.Maker),
			Precision: models.MarketPrecision{
				Amount: exchange.SafeNumber(m, "increment_size"),
				Price:  exchange.SafeNumber(m, "increment_price"),
			},
			Limits: models.MarketLimits{
				Amount: models.MinMax{
					Min: exchange.SafeNumber(m, "min_size"),
					Max: exchange.SafeNumber(m, "max_size"),
				},
				Price: models.MinMax{
					Min: exchange.SafeNumber(m, "min_price"),
					Max: exchange.SafeNumber(m, "max_price"),
				},
			},
			Info: m,
		})
	}
	return markets, nil
}

// parseCSVTicker decodes one positional CSV ticker line:
//
//	pair,timestamp,last,high,low,change,baseVolume,percentage,bid,ask,quoteVolume
//
// A timestamp of -1 means unknown. Lines that do not parse yield a ticker
// with every statistic unknown rather than an error.
func parseCSVTicker(line string, market models.Market) models.Ticker {
	t := models.Ticker{Symbol: market.Symbol, Info: map[string]any{"raw": line}}
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) < 11 {
		return exchange.SafeTicker(t, &market)
	}
	if ts := models.N(fields[1]); ts.Valid() && !ts.IsNegative() {
		t.Timestamp = int64(ts.Float64() * 1000)
	}
	t.Last = models.N(fields[2])
	t.High = models.N(fields[3])
	t.Low = models.N(fields[4])
	t.Change = models.N(fields[5])
	t.BaseVolume = models.N(fields[6])
	t.Percentage = models.N(fields[7])
	t.Bid = models.N(fields[8])
	t.Ask = models.N(fields[9])
	t.QuoteVolume = models.N(fields[10])
	return exchange.SafeTicker(t, &market)
}

func (e *Exir) FetchTickers(ctx context.Context, symbols []string) (map[string]models.Ticker, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	var response map[string]any
	if _, err := e.Request(ctx, "public", "v1/tickers", "GET", nil, &response); err != nil {
		return nil, err
	}
	tickers := map[string]models.Ticker{}
	for id, raw := range response {
		line, ok := raw.(string)
		if !ok {
			continue
		}
		market, err := e.MarketByID(ctx, id)
		if err != nil {
			continue
		}
		tickers[market.Symbol] = parseCSVTicker(line, market)
	}
	return exchange.FilterTickersBySymbols(tickers, symbols), nil
}

func (e *Exir) FetchTicker(ctx context.Context, symbol string) (models.Ticker, error) {
	market, err := e.Market(ctx, symbol)
	if err != nil {
		return models.Ticker{}, err
	}
	tickers, err := e.FetchTickers(ctx, []string{symbol})
	if err != nil {
		return models.Ticker{}, err
	}
	t, ok := tickers[market.Symbol]
	if !ok {
		return models.Ticker{}, exchange.NewError(exchange.KindBadSymbol, e.ID(), "no ticker for "+symbol, "")
	}
	return t, nil
}

func (e *Exir) FetchOrderBook(ctx context.Context, symbol string, limit int) (models.OrderBook, error) {
	market, err := e.Market(ctx, symbol)
	if err != nil {
		return models.OrderBook{}, err
	}
	var response map[string]any
	if _, err := e.Request(ctx, "public", "v1/orderbooks", "GET", map[string]any{"symbol": market.ID}, &response); err != nil {
		return models.OrderBook{}, err
	}
	// The book comes back keyed by the pair id.
	raw := exchange.SafeMap(response, market.ID)
	if raw == nil {
		raw = response
	}
	ts := exchange.ParseISO8601(exchange.SafeString(raw, "timestamp"))
	if ts == 0 {
		ts = exchange.Milliseconds()
	}
	book := exchange.ParseOrderBook(raw, market.Symbol, ts, "bids", "asks", "price", "amount")
	if limit > 0 {
		if len(book.Bids) > limit {
			book.Bids = book.Bids[:limit]
		}
		if len(book.Asks) > limit {
			book.Asks = book.Asks[:limit]
		}
	}
	return book, nil
}

// FetchOHLCV returns the chart data as reported: EXIR serves sparse candles
// and the caller sees the gaps.
func (e *Exir) FetchOHLCV(ctx context.Context, symbol, timeframe string, since int64, limit int) ([]models.OHLCV, error) {
	market, err := e.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	tfSec, err := exchange.TimeframeSeconds(timeframe)
	if err != nil {
		return nil, err
	}
	from, to := exchange.OHLCVWindow(exchange.Milliseconds(), since, limit, tfSec)
	params := map[string]any{
		"symbol":     market.ID,
		"resolution": e.Timeframe(timeframe),
		"from":       from,
		"to":         to,
	}
	var response []any
	if _, err := e.Request(ctx, "public", "v1/chart", "GET", params, &response); err != nil {
		return nil, err
	}
	candles := make([]models.OHLCV, 0, len(response))
	for _, entry := range response {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		ts := exchange.ParseISO8601(exchange.SafeString(m, "time"))
		if ts == 0 {
			ts = exchange.SafeTimestampSeconds(m, "time")
		}
		if ts == 0 {
			continue
		}
		candles = append(candles, models.OHLCV{
			Timestamp: ts,
			Open:      exchange.SafeFloat(m, "open"),
			High:      exchange.SafeFloat(m, "high"),
			Low:       exchange.SafeFloat(m, "low"),
			Close:     exchange.SafeFloat(m, "close"),
			Volume:    exchange.SafeFloat(m, "volume"),
		})
	}
	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func (e *Exir) FetchTrades(ctx context.Context, symbol string, since int64, limit int) ([]models.Trade, error) {
	market, err := e.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	var response map[string]any
	if _, err := e.Request(ctx, "public", "v1/trades", "GET", map[string]any{"symbol": market.ID}, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(response, market.ID)
	trades := make([]models.Trade, 0, len(raw))
	for _, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		trade := exchange.SafeTrade(models.Trade{
			Side:      models.OrderSide(exchange.SafeStringLower(m, "side")),
			Price:     exchange.SafeNumber(m, "price"),
			Amount:    exchange.SafeNumber(m, "size"),
			Timestamp: exchange.ParseISO8601(exchange.SafeString(m, "timestamp")),
			Info:      m,
		}, &market)
		if since > 0 && trade.Timestamp > 0 && trade.Timestamp < since {
			continue
		}
		trades = append(trades, trade)
		if limit > 0 && len(trades) >= limit {
			break
		}
	}
	return trades, nil
}

// FetchBalance scans the flat *_balance / *_available key layout of the user
// balance payload.
func (e *Exir) FetchBalance(ctx context.Context) (models.Balances, error) {
	var response map[string]any
	if _, err := e.Request(ctx, "private", "v1/user/balance", "GET", nil, &response); err != nil {
		return models.Balances{}, err
	}
	balances := models.Balances{
		Currencies: map[string]models.Balance{},
		Timestamp:  exchange.ParseISO8601(exchange.SafeString(response, "updated_at")),
		Info:       response,
	}
	if balances.Timestamp == 0 {
		balances.Timestamp = exchange.Milliseconds()
	}
	for key := range response {
		currencyID, ok := strings.CutSuffix(key, "_balance")
		if !ok {
			continue
		}
		code := e.CommonCurrency(currencyID)
		bal := models.Balance{
			Total: exchange.SafeNumber(response, key),
			Free:  exchange.SafeNumber(response, currencyID+"_available"),
		}
		balances.Currencies[code] = bal
	}
	return exchange.SafeBalances(balances), nil
}
