// Package nobitex implements the Nobitex exchange adapter. Nobitex reports
// toman prices in rials under the RLS code: the adapter maps RLS onto the
// unified IRT and divides every IRT-quoted price and quote volume by ten so
// the unified view is denominated in toman.
package nobitex

import (
	"context"
	"encoding/json"
	"strings"

	"unifex/config"
	"unifex/exchange"
	"unifex/models"
)

type Nobitex struct {
	*exchange.Client
}

// quote currencies Nobitex lists every traded asset against
var quotes = []struct {
	Code string
	ID   string
}{
	{"IRT", "rls"},
	{"USDT", "usdt"},
}

func New(cfg config.ExchangeConfig, ccfg config.ClientConfig) *Nobitex {
	n := &Nobitex{}
	opts := exchange.DefaultOptions().Extend(exchange.Options{
		ID:        "nobitex",
		Name:      "Nobitex",
		Countries: []string{"IR"},
		Version:   "v2",
		URLs: exchange.URLs{
			API: map[string]string{
				"public":  "https://api.nobitex.ir",
				"private": "https://api.nobitex.ir",
			},
			WWW:  "https://nobitex.ir",
			Docs: []string{"https://apidocs.nobitex.ir"},
		},
		API: map[string]map[string]int{
			"public": {
				"market/currencies":  1,
				"market/stats":       2,
				"v2/orderbook/{id}":  1,
				"v2/trades/{id}":     1,
				"market/udf/history": 2,
			},
			"private": {
				"users/wallets/list":          2,
				"market/orders/add":           1,
				"market/orders/update-status": 1,
				"market/orders/status":        1,
				"market/orders/list":          1,
				"market/trades/list":          1,
			},
		},
		Has: map[string]bool{
			"fetchMarkets":    true,
			"fetchCurrencies": true,
			"fetchTicker":     true,
			"fetchTickers":    true,
			"fetchOrderBook":  true,
			"fetchOHLCV":      true,
			"fetchTrades":     true,
			"fetchMyTrades":   true,
			"fetchBalance":    true,
			"createOrder":     true,
			"cancelOrder":     true,
			"fetchOrder":      true,
			"fetchOrders":     true,
			"fetchOpenOrders": true,
		},
		Timeframes: map[string]string{
			"1m":  "1",
			"5m":  "5",
			"15m": "15",
			"30m": "30",
			"1h":  "60",
			"3h":  "180",
			"4h":  "240",
			"6h":  "360",
			"12h": "720",
			"1d":  "D",
			"2d":  "2D",
			"3d":  "3D",
		},
		Fees: exchange.TradingFees{Maker: 0.001, Taker: 0.0013},
		CommonCurrencies: map[string]string{
			"RLS": "IRT",
		},
		QuoteDivisors: map[string]int64{
			"IRT": 10,
		},
		ErrorsExact: map[string]exchange.ErrorKind{
			"TokenInvalid":       exchange.KindAuthentication,
			"TokenExpired":       exchange.KindAuthentication,
			"PermissionDenied":   exchange.KindPermissionDenied,
			"InvalidMarketPair":  exchange.KindBadSymbol,
			"InvalidSymbol":      exchange.KindBadSymbol,
			"OrderNotFound":      exchange.KindOrderNotFound,
			"BalanceError":       exchange.KindInsufficientFunds,
			"OverValueOrder":     exchange.KindInvalidOrder,
			"SmallOrder":         exchange.KindInvalidOrder,
			"DuplicateOrder":     exchange.KindInvalidOrder,
			"TradingUnavailable": exchange.KindOnMaintenance,
			"ParseError":         exchange.KindBadRequest,
		},
		ErrorsBroad: []exchange.BroadError{
			{Substring: "token", Kind: exchange.KindAuthentication},
			{Substring: "balance", Kind: exchange.KindInsufficientFunds},
			{Substring: "permission", Kind: exchange.KindPermissionDenied},
			{Substring: "maintenance", Kind: exchange.KindOnMaintenance},
			{Substring: "order not found", Kind: exchange.KindOrderNotFound},
		},
	})
	var base map[string]string
	if cfg.BaseURL != "" {
		base = map[string]string{"public": cfg.BaseURL, "private": cfg.BaseURL}
	}
	n.Client = exchange.NewClient(opts,
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
		}, n)
	return n
}

// Sign attaches the static API token on private sections. Nobitex uses plain
// token auth, not request signing, so retries are free to resend the same
// headers.
func (n *Nobitex) Sign(path, section, method string, params map[string]any) (*exchange.Request, error) {
	path, rest := exchange.ImplodeParams(path, params)
	url := n.BaseURL(section) + "/" + path
	headers := map[string][]string{}
	body := ""

	if method == "GET" {
		if query := exchange.URLEncode(rest); query != "" {
			url += "?" + query
		}
	} else if len(rest) > 0 {
		encoded, err := json.Marshal(rest)
		if err != nil {
			return nil, exchange.NewError(exchange.KindBadRequest, n.ID(), err.Error(), "")
		}
		body = string(encoded)
		headers["Content-Type"] = []string{"application/json"}
	}

	if section == "private" {
		if err := n.RequireCredentials(); err != nil {
			return nil, err
		}
		headers["Authorization"] = []string{"Token " + n.Credentials().APIKey}
	}

	return &exchange.Request{URL: url, Method: method, Headers: headers, Body: body}, nil
}

// HandleErrors translates the status/code/message envelope. Nobitex returns
// HTTP 200 with {"status": "failed"} for most business errors.
func (n *Nobitex) HandleErrors(status int, body []byte) error {
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	if exchange.SafeStringLower(envelope, "status") == "failed" {
		code := exchange.SafeString(envelope, "code")
		message := exchange.SafeString(envelope, "message")
		if message == "" {
			message = code
		}
		return n.ClassifyError(code, message, body)
	}
	return nil
}

// FetchMarkets synthesizes the instrument list from the currency catalogue:
// Nobitex has no market metadata endpoint, but every listed asset trades
// against both rls and usdt.
func (n *Nobitex) FetchMarkets(ctx context.Context) ([]models.Market, error) {
	var response map[string]any
	if _, err := n.Request(ctx, "public", "market/currencies", "GET", nil, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(exchange.SafeMap(response, "result"), "currencies")
	if raw == nil {
		raw = exchange.SafeList(response, "currencies")
	}
	active := true
	markets := make([]models.Market, 0, len(raw)*len(quotes))
	for _, entry := range raw {
		currencyID, ok := currencyID(entry)
		if !ok {
			continue
		}
		base := n.CommonCurrency(currencyID)
		// The rial is quote-only; listing it as a base would fabricate
		// IRT/USDT.
		if base == "IRT" {
			continue
		}
		for _, q := range quotes {
			if strings.EqualFold(currencyID, q.ID) || base == q.Code {
				continue
			}
			markets = append(markets, models.Market{
				ID:      currencyID + "-" + q.ID,
				Symbol:  base + "/" + q.Code,
				Base:    base,
				Quote:   q.Code,
				BaseID:  currencyID,
				QuoteID: q.ID,
				Type:    models.MarketTypeSpot,
				Active:  &active,
				Taker:   models.NFloat(n.Options().Fees.Taker),
				Maker:   models.NFloat(n.Options().Fees.Maker),
				Info:    exchange.AsMap(entry),
			})
		}
	}
	return markets, nil
}

// FetchCurrencies lists the assets from the same catalogue the markets are
// synthesized from, keyed by unified code.
func (n *Nobitex) FetchCurrencies(ctx context.Context) (map[string]models.Currency, error) {
	var response map[string]any
	if _, err := n.Request(ctx, "public", "market/currencies", "GET", nil, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(exchange.SafeMap(response, "result"), "currencies")
	if raw == nil {
		raw = exchange.SafeList(response, "currencies")
	}
	active := true
	currencies := make(map[string]models.Currency, len(raw))
	for _, entry := range raw {
		id, ok := currencyID(entry)
		if !ok {
			continue
		}
		code := n.CommonCurrency(id)
		currencies[code] = models.Currency{
			ID:     id,
			Code:   code,
			Active: &active,
			Info:   exchange.AsMap(entry),
		}
	}
	return currencies, nil
}

func currencyID(entry any) (string, bool) {
	switch e := entry.(type) {
	case string:
		return strings.ToLower(e), e != ""
	case map[string]any:
		s := exchange.SafeStringLower(e, "coin", "currency", "symbol")
		return s, s != ""
	}
	return "", false
}

// statsKey is the srcCurrency-dstCurrency pair key the stats endpoint uses.
func statsKey(m models.Market) string {
	return m.BaseID + "-" + m.QuoteID
}

func (n *Nobitex) FetchTickers(ctx context.Context, symbols []string) (map[string]models.Ticker, error) {
	marketsBySymbol, err := n.LoadMarkets(ctx, false)
	if err != nil {
		return nil, err
	}
	var response map[string]any
	if _, err := n.Request(ctx, "public", "market/stats", "GET", nil, &response); err != nil {
		return nil, err
	}
	stats := exchange.SafeMap(response, "stats")
	tickers := map[string]models.Ticker{}
	for _, market := range marketsBySymbol {
		entry := exchange.SafeMap(stats, statsKey(market))
		if entry == nil {
			continue
		}
		tickers[market.Symbol] = n.parseTicker(entry, market)
	}
	return exchange.FilterTickersBySymbols(tickers, symbols), nil
}

func (n *Nobitex) FetchTicker(ctx context.Context, symbol string) (models.Ticker, error) {
	market, err := n.Market(ctx, symbol)
	if err != nil {
		return models.Ticker{}, err
	}
	params := map[string]any{
		"srcCurrency": market.BaseID,
		"dstCurrency": market.QuoteID,
	}
	var response map[string]any
	if _, err := n.Request(ctx, "public", "market/stats", "GET", params, &response); err != nil {
		return models.Ticker{}, err
	}
	entry := exchange.SafeMap(exchange.SafeMap(response, "stats"), statsKey(market))
	if entry == nil {
		return models.Ticker{}, exchange.NewError(exchange.KindBadSymbol, n.ID(), "no ticker for "+symbol, "")
	}
	return n.parseTicker(entry, market), nil
}

func (n *Nobitex) parseTicker(m map[string]any, market models.Market) models.Ticker {
	divisor := n.QuoteDivisor(market.Quote)
	price := func(keys ...string) models.Number {
		v := exchange.SafeNumber(m, keys...)
		if divisor > 1 {
			return v.Div(divisor)
		}
		return v
	}
	return exchange.SafeTicker(models.Ticker{
		Timestamp: exchange.Milliseconds(),
		High:      price("dayHigh"),
		Low:       price("dayLow"),
		Bid:       price("bestBuy"),
		Ask:       price("bestSell"),
		Open:      price("dayOpen"),
		Close:     price("dayClose"),
		Last:      price("latest"),
		// dayChange is already a percentage, not a price.
		Percentage:  exchange.SafeNumber(m, "dayChange"),
		BaseVolume:  exchange.SafeNumber(m, "volumeSrc"),
		QuoteVolume: price("volumeDst"),
		Info:        m,
	}, &market)
}

func (n *Nobitex) FetchOrderBook(ctx context.Context, symbol string, limit int) (models.OrderBook, error) {
	market, err := n.Market(ctx, symbol)
	if err != nil {
		return models.OrderBook{}, err
	}
	var response map[string]any
	bookID := strings.ToUpper(market.BaseID + market.QuoteID)
	if _, err := n.Request(ctx, "public", "v2/orderbook/{id}", "GET", map[string]any{"id": bookID}, &response); err != nil {
		return models.OrderBook{}, err
	}
	ts := exchange.SafeTimestamp(response, "lastUpdate")
	if ts == 0 {
		ts = exchange.Milliseconds()
	}
	book := exchange.ParseOrderBook(response, market.Symbol, ts, "bids", "asks", "price", "amount")
	if divisor := n.QuoteDivisor(market.Quote); divisor > 1 {
		d := float64(divisor)
		for i := range book.Bids {
			book.Bids[i].Price /= d
		}
		for i := range book.Asks {
			book.Asks[i].Price /= d
		}
	}
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

func (n *Nobitex) FetchOHLCV(ctx context.Context, symbol, timeframe string, since int64, limit int) ([]models.OHLCV, error) {
	market, err := n.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	tfSec, err := exchange.TimeframeSeconds(timeframe)
	if err != nil {
		return nil, err
	}
	from, to := exchange.OHLCVWindow(exchange.Milliseconds(), since, limit, tfSec)
	params := map[string]any{
		"symbol":     strings.ToUpper(market.BaseID + market.QuoteID),
		"resolution": n.Timeframe(timeframe),
		"from":       from,
		"to":         to,
	}
	var response map[string]any
	if _, err := n.Request(ctx, "public", "market/udf/history", "GET", params, &response); err != nil {
		return nil, err
	}
	candles := exchange.ParseUDF(response, n.QuoteDivisor(market.Quote))
	return exchange.FillMissingCandles(candles, since, tfSec, limit), nil
}

func (n *Nobitex) FetchTrades(ctx context.Context, symbol string, since int64, limit int) ([]models.Trade, error) {
	market, err := n.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	tradesID := strings.ToUpper(market.BaseID + market.QuoteID)
	var response map[string]any
	if _, err := n.Request(ctx, "public", "v2/trades/{id}", "GET", map[string]any{"id": tradesID}, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(response, "trades")
	trades := make([]models.Trade, 0, len(raw))
	for _, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		trades = append(trades, n.parseTrade(m, market))
	}
	return limitTrades(trades, since, limit), nil
}

func (n *Nobitex) parseTrade(m map[string]any, market models.Market) models.Trade {
	divisor := n.QuoteDivisor(market.Quote)
	price := exchange.SafeNumber(m, "price")
	if divisor > 1 {
		price = price.Div(divisor)
	}
	ts := exchange.SafeTimestamp(m, "time", "timestamp")
	if ts == 0 {
		ts = exchange.ParseISO8601(exchange.SafeString(m, "timestamp"))
	}
	var fee *models.Fee
	if f := exchange.SafeNumber(m, "fee"); f.Valid() {
		fee = &models.Fee{Cost: f}
	}
	return exchange.SafeTrade(models.Trade{
		ID:        exchange.SafeString(m, "id"),
		Order:     exchange.SafeString(m, "orderId"),
		Side:      models.OrderSide(exchange.SafeStringLower(m, "type", "side")),
		Price:     price,
		Amount:    exchange.SafeNumber(m, "amount", "volume"),
		Fee:       fee,
		Timestamp: ts,
		Info:      m,
	}, &market)
}

func (n *Nobitex) FetchBalance(ctx context.Context) (models.Balances, error) {
	var response map[string]any
	if _, err := n.Request(ctx, "private", "users/wallets/list", "POST", nil, &response); err != nil {
		return models.Balances{}, err
	}
	raw := exchange.SafeList(response, "wallets")
	balances := models.Balances{
		Currencies: map[string]models.Balance{},
		Timestamp:  exchange.Milliseconds(),
		Info:       response,
	}
	for _, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		currencyID := exchange.SafeString(m, "currency")
		code := n.CommonCurrency(currencyID)
		total := exchange.SafeNumber(m, "balance")
		used := exchange.SafeNumber(m, "blockedBalance")
		// Rial wallets are rescaled to toman like every other IRT value.
		if d := n.QuoteDivisor(code); d > 1 {
			total = total.Div(d)
			used = used.Div(d)
		}
		balances.Currencies[code] = models.Balance{Total: total, Used: used}
	}
	return exchange.SafeBalances(balances), nil
}

var orderStatuses = map[string]models.OrderStatus{
	"active":   models.OrderStatusOpen,
	"new":      models.OrderStatusOpen,
	"open":     models.OrderStatusOpen,
	"done":     models.OrderStatusClosed,
	"canceled": models.OrderStatusCanceled,
	"expired":  models.OrderStatusCanceled,
}

func (n *Nobitex) parseOrder(m map[string]any, market *models.Market) models.Order {
	var divisor int64 = 1
	if market != nil {
		divisor = n.QuoteDivisor(market.Quote)
	}
	rescale := func(v models.Number) models.Number {
		if divisor > 1 && v.Valid() {
			return v.Div(divisor)
		}
		return v
	}
	status := orderStatuses[exchange.SafeStringLower(m, "status")]
	ts := exchange.ParseISO8601(exchange.SafeString(m, "created_at"))
	return exchange.SafeOrder(models.Order{
		ID:        exchange.SafeString(m, "id"),
		Type:      models.OrderType(exchange.SafeStringLower(m, "execution", "type")),
		Side:      models.OrderSide(exchange.SafeStringLower(m, "type", "side")),
		Price:     rescale(exchange.SafeNumber(m, "price")),
		Amount:    exchange.SafeNumber(m, "amount"),
		Filled:    exchange.SafeNumber(m, "matchedAmount"),
		Average:   rescale(exchange.SafeNumber(m, "averagePrice")),
		Status:    status,
		Timestamp: ts,
		Info:      m,
	}, market)
}

func (n *Nobitex) CreateOrder(ctx context.Context, symbol string, typ models.OrderType, side models.OrderSide, amount float64, price *float64, params map[string]any) (models.Order, error) {
	if err := n.ValidateOrderArgs(typ, side, amount, price); err != nil {
		return models.Order{}, err
	}
	market, err := n.Market(ctx, symbol)
	if err != nil {
		return models.Order{}, err
	}
	request := map[string]any{
		"type":        string(side),
		"execution":   string(typ),
		"srcCurrency": market.BaseID,
		"dstCurrency": market.QuoteID,
		"amount":      n.AmountToPrecision(market, amount),
	}
	if typ == models.OrderTypeLimit {
		// Unified toman prices go back to rials on the wire.
		request["price"] = n.PriceToPrecision(market, *price*float64(n.QuoteDivisor(market.Quote)))
	}
	var response map[string]any
	if _, err := n.Request(ctx, "private", "market/orders/add", "POST", exchange.DeepExtend(request, params), &response); err != nil {
		return models.Order{}, err
	}
	return n.parseOrder(exchange.SafeMap(response, "order"), &market), nil
}

// CancelOrder needs no symbol: the update-status endpoint is id-scoped.
func (n *Nobitex) CancelOrder(ctx context.Context, id, symbol string) (models.Order, error) {
	params := map[string]any{"order": id, "status": "canceled"}
	var response map[string]any
	if _, err := n.Request(ctx, "private", "market/orders/update-status", "POST", params, &response); err != nil {
		return models.Order{}, err
	}
	order := models.Order{ID: id, Status: models.OrderStatusCanceled, Info: response}
	if updated := exchange.SafeMap(response, "order"); updated != nil {
		order = n.parseOrder(updated, nil)
	}
	if symbol != "" {
		order.Symbol = symbol
	}
	return order, nil
}

func (n *Nobitex) FetchOrder(ctx context.Context, id, symbol string) (models.Order, error) {
	var market *models.Market
	if symbol != "" {
		m, err := n.Market(ctx, symbol)
		if err != nil {
			return models.Order{}, err
		}
		market = &m
	}
	params := map[string]any{"id": id}
	var response map[string]any
	if _, err := n.Request(ctx, "private", "market/orders/status", "POST", params, &response); err != nil {
		return models.Order{}, err
	}
	return n.parseOrder(exchange.SafeMap(response, "order"), market), nil
}

func (n *Nobitex) FetchOrders(ctx context.Context, symbol string, since int64, limit int) ([]models.Order, error) {
	return n.fetchOrderList(ctx, symbol, since, limit, "all")
}

func (n *Nobitex) FetchOpenOrders(ctx context.Context, symbol string, since int64, limit int) ([]models.Order, error) {
	return n.fetchOrderList(ctx, symbol, since, limit, "open")
}

func (n *Nobitex) fetchOrderList(ctx context.Context, symbol string, since int64, limit int, status string) ([]models.Order, error) {
	params := map[string]any{"status": status, "details": 2}
	var market *models.Market
	if symbol != "" {
		m, err := n.Market(ctx, symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		params["srcCurrency"] = m.BaseID
		params["dstCurrency"] = m.QuoteID
	}
	var response map[string]any
	if _, err := n.Request(ctx, "private", "market/orders/list", "POST", params, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(response, "orders")
	orders := make([]models.Order, 0, len(raw))
	for _, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		order := n.parseOrder(m, market)
		if since > 0 && order.Timestamp > 0 && order.Timestamp < since {
			continue
		}
		orders = append(orders, order)
		if limit > 0 && len(orders) >= limit {
			break
		}
	}
	return orders, nil
}

func (n *Nobitex) FetchMyTrades(ctx context.Context, symbol string, since int64, limit int) ([]models.Trade, error) {
	params := map[string]any{}
	market := models.Market{}
	if symbol != "" {
		m, err := n.Market(ctx, symbol)
		if err != nil {
			return nil, err
		}
		market = m
		params["srcCurrency"] = m.BaseID
		params["dstCurrency"] = m.QuoteID
	}
	var response map[string]any
	if _, err := n.Request(ctx, "private", "market/trades/list", "POST", params, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(response, "trades")
	trades := make([]models.Trade, 0, len(raw))
	for _, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		trades = append(trades, n.parseTrade(m, market))
	}
	return limitTrades(trades, since, limit), nil
}

func limitTrades(trades []models.Trade, since int64, limit int) []models.Trade {
	out := trades[:0:0]
	for _, t := range trades {
		if since > 0 && t.Timestamp > 0 && t.Timestamp < since {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
