package models

// MarketType identifies the kind of instrument a market trades.
type MarketType string

const (
	MarketTypeSpot   MarketType = "spot"
	MarketTypeSwap   MarketType = "swap"
	MarketTypeFuture MarketType = "future"
	MarketTypeOption MarketType = "option"
)

// MinMax bounds a numeric market limit. Either side may be unknown.
type MinMax struct {
	Min Number `json:"min"`
	Max Number `json:"max"`
}

// MarketPrecision carries the decimal step sizes for amounts and prices.
type MarketPrecision struct {
	Amount Number `json:"amount"`
	Price  Number `json:"price"`
}

// MarketLimits groups the order constraints published by an exchange.
type MarketLimits struct {
	Amount   MinMax `json:"amount"`
	Price    MinMax `json:"price"`
	Cost     MinMax `json:"cost"`
	Leverage MinMax `json:"leverage"`
}

// Market is a tradable instrument in the unified schema. Symbol is always
// Base + "/" + Quote while ID keeps the exchange-native identifier so a
// parsed market can be resolved back to the raw instrument it came from.
type Market struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Base      string          `json:"base"`
	Quote     string          `json:"quote"`
	BaseID    string          `json:"baseId"`
	QuoteID   string          `json:"quoteId"`
	Type      MarketType      `json:"type"`
	Active    *bool           `json:"active"`
	Taker     Number          `json:"taker"`
	Maker     Number          `json:"maker"`
	Precision MarketPrecision `json:"precision"`
	Limits    MarketLimits    `json:"limits"`
	Info      map[string]any  `json:"info,omitempty"`
}

// Currency is a tradable asset in the unified schema, keyed by its unified
// code.
type Currency struct {
	ID        string         `json:"id"`
	Code      string         `json:"code"`
	Name      string         `json:"name,omitempty"`
	Active    *bool          `json:"active"`
	Precision Number         `json:"precision"`
	Info      map[string]any `json:"info,omitempty"`
}

// Ticker is a point-in-time 24h statistics snapshot for one market.
// Fields the exchange does not publish stay unset rather than zero.
type Ticker struct {
	Symbol        string         `json:"symbol"`
	Timestamp     int64          `json:"timestamp,omitempty"`
	Datetime      string         `json:"datetime,omitempty"`
	High          Number         `json:"high"`
	Low           Number         `json:"low"`
	Bid           Number         `json:"bid"`
	BidVolume     Number         `json:"bidVolume"`
	Ask           Number         `json:"ask"`
	AskVolume     Number         `json:"askVolume"`
	VWAP          Number         `json:"vwap"`
	Open          Number         `json:"open"`
	Close         Number         `json:"close"`
	Last          Number         `json:"last"`
	PreviousClose Number         `json:"previousClose"`
	Change        Number         `json:"change"`
	Percentage    Number         `json:"percentage"`
	Average       Number         `json:"average"`
	BaseVolume    Number         `json:"baseVolume"`
	QuoteVolume   Number         `json:"quoteVolume"`
	Info          map[string]any `json:"info,omitempty"`
}

// BookLevel is a single price level of an order book side.
type BookLevel struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

// OrderBook holds both sides of a market's book. Bids are sorted by price
// descending and asks ascending. A missing side is an empty slice, never nil.
type OrderBook struct {
	Symbol    string      `json:"symbol"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
	Timestamp int64       `json:"timestamp,omitempty"`
	Datetime  string      `json:"datetime,omitempty"`
	Nonce     int64       `json:"nonce,omitempty"`
}

// OHLCV is one candle of open/high/low/close/volume data. Timestamp is the
// bucket open time in milliseconds.
type OHLCV struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Order lifecycle statuses in the unified schema. Every exchange-native
// status collapses into exactly one of these.
type OrderStatus string

const (
	OrderStatusOpen     OrderStatus = "open"
	OrderStatusClosed   OrderStatus = "closed"
	OrderStatusCanceled OrderStatus = "canceled"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

// Fee is a trading or transfer fee denominated in a single currency.
type Fee struct {
	Currency string `json:"currency,omitempty"`
	Cost     Number `json:"cost"`
	Rate     Number `json:"rate"`
}

// Order is a unified exchange order.
type Order struct {
	ID            string         `json:"id"`
	ClientOrderID string         `json:"clientOrderId,omitempty"`
	Symbol        string         `json:"symbol"`
	Type          OrderType      `json:"type"`
	Side          OrderSide      `json:"side"`
	Price         Number         `json:"price"`
	Amount        Number         `json:"amount"`
	Filled        Number         `json:"filled"`
	Remaining     Number         `json:"remaining"`
	Average       Number         `json:"average"`
	Cost          Number         `json:"cost"`
	Status        OrderStatus    `json:"status"`
	Fee           *Fee           `json:"fee,omitempty"`
	Timestamp     int64          `json:"timestamp,omitempty"`
	Datetime      string         `json:"datetime,omitempty"`
	Info          map[string]any `json:"info,omitempty"`
}

// Trade is a single fill, either public or belonging to the account.
type Trade struct {
	ID           string         `json:"id"`
	Order        string         `json:"order,omitempty"`
	Symbol       string         `json:"symbol"`
	Side         OrderSide      `json:"side"`
	TakerOrMaker string         `json:"takerOrMaker,omitempty"`
	Price        Number         `json:"price"`
	Amount       Number         `json:"amount"`
	Cost         Number         `json:"cost"`
	Fee          *Fee           `json:"fee,omitempty"`
	Timestamp    int64          `json:"timestamp,omitempty"`
	Datetime     string         `json:"datetime,omitempty"`
	Info         map[string]any `json:"info,omitempty"`
}

// Balance is the free/used/total breakdown for one currency.
type Balance struct {
	Free  Number `json:"free"`
	Used  Number `json:"used"`
	Total Number `json:"total"`
}

// Balances is an account snapshot keyed by unified currency code.
type Balances struct {
	Currencies map[string]Balance `json:"currencies"`
	Timestamp  int64              `json:"timestamp,omitempty"`
	Datetime   string             `json:"datetime,omitempty"`
	Info       map[string]any     `json:"info,omitempty"`
}

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TransactionStatusOK      TransactionStatus = "ok"
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction is a deposit or withdrawal record.
type Transaction struct {
	ID        string            `json:"id"`
	TxID      string            `json:"txid,omitempty"`
	Currency  string            `json:"currency"`
	Amount    Number            `json:"amount"`
	Address   string            `json:"address,omitempty"`
	Tag       string            `json:"tag,omitempty"`
	Network   string            `json:"network,omitempty"`
	Type      TransactionType   `json:"type"`
	Status    TransactionStatus `json:"status"`
	Fee       *Fee              `json:"fee,omitempty"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Datetime  string            `json:"datetime,omitempty"`
	Info      map[string]any    `json:"info,omitempty"`
}

// DepositAddress is the funding address an exchange assigns per currency.
type DepositAddress struct {
	Currency string         `json:"currency"`
	Address  string         `json:"address"`
	Tag      string         `json:"tag,omitempty"`
	Network  string         `json:"network,omitempty"`
	Info     map[string]any `json:"info,omitempty"`
}
