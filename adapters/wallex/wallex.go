// Package wallex implements the Wallex exchange adapter. Wallex quotes its
// toman markets under the native TMN code, which maps onto the unified IRT
// without any rescaling (prices are already in toman), and publishes
// precision as integer decimal-digit counts rather than step sizes.
package wallex

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"unifex/common"
	"unifex/config"
	"unifex/exchange"
	"unifex/models"
)

type Wallex struct {
	*exchange.Client
}

func New(cfg config.ExchangeConfig, ccfg config.ClientConfig) *Wallex {
	w := &Wallex{}
	opts := exchange.DefaultOptions().Extend(exchange.Options{
		ID:        "wallex",
		Name:      "Wallex",
		Countries: []string{"IR"},
		Version:   "v1",
		URLs: exchange.URLs{
			API: map[string]string{
				"public":  "https://api.wallex.ir",
				"private": "https://api.wallex.ir",
			},
			WWW:  "https://wallex.ir",
			Docs: []string{"https://api-docs.wallex.ir"},
		},
		API: map[string]map[string]int{
			"public": {
				"v1/markets":     1,
				"v1/depth":       1,
				"v1/trades":      1,
				"v1/udf/history": 2,
			},
			"private": {
				"v1/account/balances":               1,
				"v1/account/orders":                 1,
				"v1/account/orders/{clientOrderId}": 1,
				"v1/account/openOrders":             1,
				"v1/account/trades":                 2,
				"v1/account/crypto-deposit":         2,
				"v1/account/crypto-withdrawal":      2,
				"v1/account/crypto-deposit/address": 1,
			},
		},
		Has: map[string]bool{
			"fetchMarkets":        true,
			"fetchTicker":         true,
			"fetchTickers":        true,
			"fetchOrderBook":      true,
			"fetchOHLCV":          true,
			"fetchTrades":         true,
			"fetchMyTrades":       true,
			"fetchBalance":        true,
			"createOrder":         true,
			"cancelOrder":         true,
			"fetchOrder":          true,
			"fetchOpenOrders":     true,
			"fetchDeposits":       true,
			"fetchWithdrawals":    true,
			"fetchDepositAddress": true,
			"withdraw":            true,
		},
		Timeframes: map[string]string{
			"1m":  "1",
			"5m":  "5",
			"15m": "15",
			"30m": "30",
			"1h":  "60",
			"4h":  "240",
			"1d":  "D",
			"1w":  "W",
		},
		Fees: exchange.TradingFees{Maker: 0.002, Taker: 0.002},
		CommonCurrencies: map[string]string{
			"TMN": "IRT",
		},
		ErrorsExact: map[string]exchange.ErrorKind{
			"INVALID_API_KEY":   exchange.KindAuthentication,
			"INVALID_SIGNATURE": exchange.KindAuthentication,
			"INVALID_NONCE":     exchange.KindInvalidNonce,
			"SYMBOL_NOT_FOUND":  exchange.KindBadSymbol,
			"ORDER_NOT_FOUND":   exchange.KindOrderNotFound,
			"MAINTENANCE":       exchange.KindOnMaintenance,
		},
		ErrorsBroad: []exchange.BroadError{
			{Substring: "api key", Kind: exchange.KindAuthentication},
			{Substring: "insufficient", Kind: exchange.KindInsufficientFunds},
			{Substring: "permission", Kind: exchange.KindPermissionDenied},
			{Substring: "maintenance", Kind: exchange.KindOnMaintenance},
			{Substring: "invalid order", Kind: exchange.KindInvalidOrder},
		},
	})
	var base map[string]string
	if cfg.BaseURL != "" {
		base = map[string]string{"public": cfg.BaseURL, "private": cfg.BaseURL}
	}
	w.Client = exchange.NewClient(opts,
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
		}, w)
	return w
}

// Sign builds the final request. Private requests carry the API key, a fresh
// nonce and an HMAC-SHA256 hex signature over nonce + body (for GET, nonce +
// query string); the query/body serialization is deterministic so the same
// nonce and parameters always produce the same signature.
func (w *Wallex) Sign(path, section, method string, params map[string]any) (*exchange.Request, error) {
	path, rest := exchange.ImplodeParams(path, params)
	url := w.BaseURL(section) + "/" + path
	headers := map[string][]string{}
	body := ""

	query := ""
	if method == "GET" || section == "public" {
		query = exchange.URLEncode(rest)
		if query != "" {
			url += "?" + query
		}
	} else if len(rest) > 0 {
		encoded, err := json.Marshal(rest)
		if err != nil {
			return nil, exchange.NewError(exchange.KindBadRequest, w.ID(), err.Error(), "")
		}
		body = string(encoded)
		headers["Content-Type"] = []string{"application/json"}
	}

	if section == "private" {
		if err := w.RequireCredentials(); err != nil {
			return nil, err
		}
		nonce := strconv.FormatInt(common.Nonce(), 10)
		message := nonce + body
		if body == "" {
			message = nonce + query
		}
		creds := w.Credentials()
		headers["x-api-key"] = []string{creds.APIKey}
		headers["x-api-nonce"] = []string{nonce}
		headers["x-api-sign"] = []string{common.HmacSHA256Hex(message, creds.Secret)}
	}

	return &exchange.Request{URL: url, Method: method, Headers: headers, Body: body}, nil
}

// HandleErrors translates the success/code/message envelope Wallex wraps
// every response in.
func (w *Wallex) HandleErrors(status int, body []byte) error {
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	success := exchange.SafeBool(envelope, "success")
	if success != nil && !*success {
		code := exchange.SafeString(envelope, "code")
		message := exchange.SafeString(envelope, "message")
		return w.ClassifyError(code, message, body)
	}
	return nil
}

func (w *Wallex) FetchMarkets(ctx context.Context) ([]models.Market, error) {
	var response map[string]any
	if _, err := w.Request(ctx, "public", "v1/markets", "GET", nil, &response); err != nil {
		return nil, err
	}
	symbols := exchange.SafeMap(exchange.SafeMap(response, "result"), "symbols")
	markets := make([]models.Market, 0, len(symbols))
	for id, raw := range symbols {
		m := exchange.AsMap(raw)
		if m == nil {
			continue
		}
		markets = append(markets, w.parseMarket(id, m))
	}
	return markets, nil
}

func (w *Wallex) parseMarket(id string, m map[string]any) models.Market {
	baseID := exchange.SafeStringUpper(m, "baseAsset")
	quoteID := exchange.SafeStringUpper(m, "quoteAsset")
	base := w.CommonCurrency(baseID)
	quote := w.CommonCurrency(quoteID)
	if s := exchange.SafeString(m, "symbol"); s != "" {
		id = s
	}
	return models.Market{
		ID:      id,
		Symbol:  base + "/" + quote,
		Base:    base,
		Quote:   quote,
		BaseID:  baseID,
		QuoteID: quoteID,
		Type:    models.MarketTypeSpot,
		Active:  exchange.SafeBool(m, "active", "isActive"),
		Taker:   models.NFloat(w.Options().Fees.Taker),
		Maker:   models.NFloat(w.Options().Fees.Maker),
		Precision: models.MarketPrecision{
			// Wallex publishes digit counts, not step sizes.
			Amount: exchange.PrecisionFromDigits(exchange.SafeInteger(m, "baseAssetPrecision")),
			Price:  exchange.PrecisionFromDigits(exchange.SafeInteger(m, "quotePrecision")),
		},
		Limits: models.MarketLimits{
			Amount: models.MinMax{Min: exchange.SafeNumber(m, "minQty")},
			Cost:   models.MinMax{Min: exchange.SafeNumber(m, "minNotional")},
		},
		Info: m,
	}
}

// FetchTickers parses the 24h stats embedded in the markets listing: Wallex
// has no dedicated bulk ticker endpoint, so the instrument list doubles as
// one.
func (w *Wallex) FetchTickers(ctx context.Context, symbols []string) (map[string]models.Ticker, error) {
	if _, err := w.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	var response map[string]any
	if _, err := w.Request(ctx, "public", "v1/markets", "GET", nil, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeMap(exchange.SafeMap(response, "result"), "symbols")
	tickers := map[string]models.Ticker{}
	for id, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		market, err := w.MarketByID(ctx, id)
		if err != nil {
			continue
		}
		tickers[market.Symbol] = w.parseTicker(m, market)
	}
	return exchange.FilterTickersBySymbols(tickers, symbols), nil
}

// FetchTicker delegates to the bulk endpoint; Wallex has no per-symbol
// ticker call.
func (w *Wallex) FetchTicker(ctx context.Context, symbol string) (models.Ticker, error) {
	tickers, err := w.FetchTickers(ctx, []string{symbol})
	if err != nil {
		return models.Ticker{}, err
	}
	t, ok := tickers[symbol]
	if !ok {
		return models.Ticker{}, exchange.NewError(exchange.KindBadSymbol, w.ID(), "no ticker for "+symbol, "")
	}
	return t, nil
}

func (w *Wallex) parseTicker(m map[string]any, market models.Market) models.Ticker {
	stats := exchange.SafeMap(m, "stats")
	if stats == nil {
		stats = m
	}
	return exchange.SafeTicker(models.Ticker{
		Timestamp:   exchange.Milliseconds(),
		High:        exchange.SafeNumber(stats, "24h_highPrice"),
		Low:         exchange.SafeNumber(stats, "24h_lowPrice"),
		Bid:         exchange.SafeNumber(stats, "bidPrice"),
		Ask:         exchange.SafeNumber(stats, "askPrice"),
		Open:        exchange.SafeNumber(stats, "24h_openPrice"),
		Last:        exchange.SafeNumber(stats, "lastPrice"),
		Percentage:  exchange.SafeNumber(stats, "24h_ch"),
		BaseVolume:  exchange.SafeNumber(stats, "24h_volume"),
		QuoteVolume: exchange.SafeNumber(stats, "24h_quoteVolume"),
		Info:        m,
	}, &market)
}

func (w *Wallex) FetchOrderBook(ctx context.Context, symbol string, limit int) (models.OrderBook, error) {
	market, err := w.Market(ctx, symbol)
	if err != nil {
		return models.OrderBook{}, err
	}
	var response map[string]any
	if _, err := w.Request(ctx, "public", "v1/depth", "GET", map[string]any{"symbol": market.ID}, &response); err != nil {
		return models.OrderBook{}, err
	}
	result := exchange.SafeMap(response, "result")
	book := exchange.ParseOrderBook(result, market.Symbol, exchange.Milliseconds(), "bid", "ask", "price", "quantity")
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

func (w *Wallex) FetchOHLCV(ctx context.Context, symbol, timeframe string, since int64, limit int) ([]models.OHLCV, error) {
	market, err := w.Market(ctx, symbol)
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
		"resolution": w.Timeframe(timeframe),
		"from":       from,
		"to":         to,
	}
	var response map[string]any
	if _, err := w.Request(ctx, "public", "v1/udf/history", "GET", params, &response); err != nil {
		return nil, err
	}
	candles := exchange.ParseUDF(response, 1)
	return exchange.FillMissingCandles(candles, since, tfSec, limit), nil
}

func (w *Wallex) FetchTrades(ctx context.Context, symbol string, since int64, limit int) ([]models.Trade, error) {
	market, err := w.Market(ctx, symbol)
	if err != nil {
		return nil, err
	}
	var response map[string]any
	if _, err := w.Request(ctx, "public", "v1/trades", "GET", map[string]any{"symbol": market.ID}, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(exchange.SafeMap(response, "result"), "latestTrades")
	trades := make([]models.Trade, 0, len(raw))
	for _, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		trades = append(trades, w.parsePublicTrade(m, market))
	}
	return limitTrades(trades, since, limit), nil
}

func (w *Wallex) parsePublicTrade(m map[string]any, market models.Market) models.Trade {
	side := models.OrderSideSell
	if b := exchange.SafeBool(m, "isBuyOrder"); b != nil && *b {
		side = models.OrderSideBuy
	}
	return exchange.SafeTrade(models.Trade{
		Side:      side,
		Price:     exchange.SafeNumber(m, "price"),
		Amount:    exchange.SafeNumber(m, "quantity"),
		Cost:      exchange.SafeNumber(m, "sum"),
		Timestamp: exchange.ParseISO8601(exchange.SafeString(m, "timestamp")),
		Info:      m,
	}, &market)
}

func (w *Wallex) FetchBalance(ctx context.Context) (models.Balances, error) {
	var response map[string]any
	if _, err := w.Request(ctx, "private", "v1/account/balances", "GET", nil, &response); err != nil {
		return models.Balances{}, err
	}
	raw := exchange.SafeMap(exchange.SafeMap(response, "result"), "balances")
	balances := models.Balances{
		Currencies: map[string]models.Balance{},
		Timestamp:  exchange.Milliseconds(),
		Info:       response,
	}
	for code, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		balances.Currencies[w.CommonCurrency(code)] = models.Balance{
			Total: exchange.SafeNumber(m, "value"),
			Used:  exchange.SafeNumber(m, "locked"),
		}
	}
	return exchange.SafeBalances(balances), nil
}

var orderStatuses = map[string]models.OrderStatus{
	"NEW":              models.OrderStatusOpen,
	"PARTIALLY_FILLED": models.OrderStatusOpen,
	"FILLED":           models.OrderStatusClosed,
	"CANCELED":         models.OrderStatusCanceled,
	"EXPIRED":          models.OrderStatusCanceled,
	"REJECTED":         models.OrderStatusCanceled,
}

func (w *Wallex) parseOrder(m map[string]any, market *models.Market) models.Order {
	status := orderStatuses[exchange.SafeStringUpper(m, "status")]
	return exchange.SafeOrder(models.Order{
		ID:            exchange.SafeString(m, "clientOrderId", "orderId"),
		ClientOrderID: exchange.SafeString(m, "clientOrderId"),
		Type:          models.OrderType(exchange.SafeStringLower(m, "type")),
		Side:          models.OrderSide(exchange.SafeStringLower(m, "side")),
		Price:         exchange.SafeNumber(m, "price"),
		Amount:        exchange.SafeNumber(m, "origQty"),
		Filled:        exchange.SafeNumber(m, "executedQty"),
		Average:       exchange.SafeNumber(m, "executedAvgPrice"),
		Status:        status,
		Timestamp:     exchange.ParseISO8601(exchange.SafeString(m, "created_at", "transactTime")),
		Info:          m,
	}, market)
}

func (w *Wallex) CreateOrder(ctx context.Context, symbol string, typ models.OrderType, side models.OrderSide, amount float64, price *float64, params map[string]any) (models.Order, error) {
	if err := w.ValidateOrderArgs(typ, side, amount, price); err != nil {
		return models.Order{}, err
	}
	market, err := w.Market(ctx, symbol)
	if err != nil {
		return models.Order{}, err
	}
	request := map[string]any{
		"symbol":    market.ID,
		"type":      strings.ToUpper(string(typ)),
		"side":      strings.ToUpper(string(side)),
		"quantity":  w.AmountToPrecision(market, amount),
		"client_id": uuid.NewString(),
	}
	if typ == models.OrderTypeLimit {
		request["price"] = w.PriceToPrecision(market, *price)
	}
	var response map[string]any
	if _, err := w.Request(ctx, "private", "v1/account/orders", "POST", exchange.DeepExtend(request, params), &response); err != nil {
		return models.Order{}, err
	}
	return w.parseOrder(exchange.SafeMap(response, "result"), &market), nil
}

// CancelOrder requires the symbol because the endpoint is symbol-scoped.
func (w *Wallex) CancelOrder(ctx context.Context, id, symbol string) (models.Order, error) {
	if err := w.RequireSymbol("cancelOrder", symbol); err != nil {
		return models.Order{}, err
	}
	market, err := w.Market(ctx, symbol)
	if err != nil {
		return models.Order{}, err
	}
	params := map[string]any{"clientOrderId": id, "symbol": market.ID}
	var response map[string]any
	if _, err := w.Request(ctx, "private", "v1/account/orders", "DELETE", params, &response); err != nil {
		return models.Order{}, err
	}
	return w.parseOrder(exchange.SafeMap(response, "result"), &market), nil
}

// FetchOrder requires the symbol because the endpoint is symbol-scoped.
func (w *Wallex) FetchOrder(ctx context.Context, id, symbol string) (models.Order, error) {
	if err := w.RequireSymbol("fetchOrder", symbol); err != nil {
		return models.Order{}, err
	}
	market, err := w.Market(ctx, symbol)
	if err != nil {
		return models.Order{}, err
	}
	params := map[string]any{"clientOrderId": id, "symbol": market.ID}
	var response map[string]any
	if _, err := w.Request(ctx, "private", "v1/account/orders/{clientOrderId}", "GET", params, &response); err != nil {
		return models.Order{}, err
	}
	return w.parseOrder(exchange.SafeMap(response, "result"), &market), nil
}

func (w *Wallex) FetchOpenOrders(ctx context.Context, symbol string, since int64, limit int) ([]models.Order, error) {
	params := map[string]any{}
	var market *models.Market
	if symbol != "" {
		m, err := w.Market(ctx, symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		params["symbol"] = m.ID
	}
	var response map[string]any
	if _, err := w.Request(ctx, "private", "v1/account/openOrders", "GET", params, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(exchange.SafeMap(response, "result"), "orders")
	orders := make([]models.Order, 0, len(raw))
	for _, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		orders = append(orders, w.parseOrder(m, market))
	}
	return orders, nil
}

func (w *Wallex) FetchMyTrades(ctx context.Context, symbol string, since int64, limit int) ([]models.Trade, error) {
	params := map[string]any{}
	var market *models.Market
	if symbol != "" {
		m, err := w.Market(ctx, symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		params["symbol"] = m.ID
	}
	var response map[string]any
	if _, err := w.Request(ctx, "private", "v1/account/trades", "GET", params, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(exchange.SafeMap(response, "result"), "AccountLatestTrades")
	trades := make([]models.Trade, 0, len(raw))
	for _, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		fee := &models.Fee{
			Currency: w.CommonCurrency(exchange.SafeString(m, "feeCoefficient")),
			Cost:     exchange.SafeNumber(m, "fee"),
		}
		side := models.OrderSideSell
		if b := exchange.SafeBool(m, "isBuyer"); b != nil && *b {
			side = models.OrderSideBuy
		}
		trades = append(trades, exchange.SafeTrade(models.Trade{
			Symbol:    exchange.SafeString(m, "symbol"),
			Side:      side,
			Price:     exchange.SafeNumber(m, "price"),
			Amount:    exchange.SafeNumber(m, "quantity"),
			Fee:       fee,
			Timestamp: exchange.ParseISO8601(exchange.SafeString(m, "timestamp")),
			Info:      m,
		}, market))
	}
	return limitTrades(trades, since, limit), nil
}

var transactionStatuses = map[string]models.TransactionStatus{
	"DONE":      models.TransactionStatusOK,
	"SUCCESS":   models.TransactionStatusOK,
	"CONFIRMED": models.TransactionStatusOK,
	"PENDING":   models.TransactionStatusPending,
	"WAITING":   models.TransactionStatusPending,
	"FAILED":    models.TransactionStatusFailed,
	"REJECTED":  models.TransactionStatusFailed,
	"CANCELED":  models.TransactionStatusFailed,
}

func (w *Wallex) parseTransaction(m map[string]any, typ models.TransactionType) models.Transaction {
	status, ok := transactionStatuses[exchange.SafeStringUpper(m, "status")]
	if !ok {
		status = models.TransactionStatusPending
	}
	return models.Transaction{
		ID:        exchange.SafeString(m, "id"),
		TxID:      exchange.SafeString(m, "txHash"),
		Currency:  w.CommonCurrency(exchange.SafeString(m, "coin")),
		Amount:    exchange.SafeNumber(m, "amount"),
		Address:   exchange.SafeString(m, "address"),
		Tag:       exchange.SafeString(m, "memo"),
		Network:   exchange.SafeString(m, "network"),
		Type:      typ,
		Status:    status,
		Timestamp: exchange.ParseISO8601(exchange.SafeString(m, "created_at")),
		Datetime:  exchange.ISO8601(exchange.ParseISO8601(exchange.SafeString(m, "created_at"))),
		Info:      m,
	}
}

func (w *Wallex) fetchTransactions(ctx context.Context, path string, typ models.TransactionType, currency string, since int64, limit int) ([]models.Transaction, error) {
	params := map[string]any{}
	if currency != "" {
		params["coin"] = currency
	}
	var response map[string]any
	if _, err := w.Request(ctx, "private", path, "GET", params, &response); err != nil {
		return nil, err
	}
	raw := exchange.SafeList(exchange.SafeMap(response, "result"), "transactions")
	out := make([]models.Transaction, 0, len(raw))
	for _, entry := range raw {
		m := exchange.AsMap(entry)
		if m == nil {
			continue
		}
		tx := w.parseTransaction(m, typ)
		if since > 0 && tx.Timestamp > 0 && tx.Timestamp < since {
			continue
		}
		out = append(out, tx)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (w *Wallex) FetchDeposits(ctx context.Context, currency string, since int64, limit int) ([]models.Transaction, error) {
	return w.fetchTransactions(ctx, "v1/account/crypto-deposit", models.TransactionTypeDeposit, currency, since, limit)
}

func (w *Wallex) FetchWithdrawals(ctx context.Context, currency string, since int64, limit int) ([]models.Transaction, error) {
	return w.fetchTransactions(ctx, "v1/account/crypto-withdrawal", models.TransactionTypeWithdrawal, currency, since, limit)
}

func (w *Wallex) FetchDepositAddress(ctx context.Context, currency string, params map[string]any) (models.DepositAddress, error) {
	request := exchange.DeepExtend(map[string]any{"coin": currency}, params)
	var response map[string]any
	if _, err := w.Request(ctx, "private", "v1/account/crypto-deposit/address", "GET", request, &response); err != nil {
		return models.DepositAddress{}, err
	}
	result := exchange.SafeMap(response, "result")
	return models.DepositAddress{
		Currency: currency,
		Address:  exchange.SafeString(result, "address"),
		Tag:      exchange.SafeString(result, "memo"),
		Network:  exchange.SafeString(result, "network"),
		Info:     result,
	}, nil
}

func (w *Wallex) Withdraw(ctx context.Context, currency string, amount float64, address, tag string, params map[string]any) (models.Transaction, error) {
	if amount <= 0 {
		return models.Transaction{}, exchange.NewError(exchange.KindBadRequest, w.ID(), "withdraw amount must be positive", "")
	}
	request := map[string]any{
		"coin":    currency,
		"value":   strconv.FormatFloat(amount, 'f', -1, 64),
		"address": address,
	}
	if tag != "" {
		request["memo"] = tag
	}
	var response map[string]any
	if _, err := w.Request(ctx, "private", "v1/account/crypto-withdrawal", "POST", exchange.DeepExtend(request, params), &response); err != nil {
		return models.Transaction{}, err
	}
	return w.parseTransaction(exchange.SafeMap(response, "result"), models.TransactionTypeWithdrawal), nil
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
