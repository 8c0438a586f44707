package exchange

import (
	"context"

	"unifex/models"
)

// Exchange is the unified method surface every adapter exposes. Not every
// adapter implements every method: capability flags in the metadata declare
// what is supported and unimplemented methods fail with NotSupported.
type Exchange interface {
	ID() string
	Name() string
	Has(capability string) bool

	LoadMarkets(ctx context.Context, reload bool) (map[string]models.Market, error)
	Market(ctx context.Context, symbol string) (models.Market, error)
	FetchMarkets(ctx context.Context) ([]models.Market, error)
	FetchCurrencies(ctx context.Context) (map[string]models.Currency, error)

	FetchTicker(ctx context.Context, symbol string) (models.Ticker, error)
	FetchTickers(ctx context.Context, symbols []string) (map[string]models.Ticker, error)
	FetchOrderBook(ctx context.Context, symbol string, limit int) (models.OrderBook, error)
	FetchOHLCV(ctx context.Context, symbol, timeframe string, since int64, limit int) ([]models.OHLCV, error)
	FetchTrades(ctx context.Context, symbol string, since int64, limit int) ([]models.Trade, error)

	FetchBalance(ctx context.Context) (models.Balances, error)
	FetchMyTrades(ctx context.Context, symbol string, since int64, limit int) ([]models.Trade, error)
	CreateOrder(ctx context.Context, symbol string, typ models.OrderType, side models.OrderSide, amount float64, price *float64, params map[string]any) (models.Order, error)
	CancelOrder(ctx context.Context, id, symbol string) (models.Order, error)
	FetchOrder(ctx context.Context, id, symbol string) (models.Order, error)
	FetchOrders(ctx context.Context, symbol string, since int64, limit int) ([]models.Order, error)
	FetchOpenOrders(ctx context.Context, symbol string, since int64, limit int) ([]models.Order, error)

	FetchDeposits(ctx context.Context, currency string, since int64, limit int) ([]models.Transaction, error)
	FetchWithdrawals(ctx context.Context, currency string, since int64, limit int) ([]models.Transaction, error)
	FetchDepositAddress(ctx context.Context, currency string, params map[string]any) (models.DepositAddress, error)
	Withdraw(ctx context.Context, currency string, amount float64, address, tag string, params map[string]any) (models.Transaction, error)
}

// Default implementations for the unified surface. Adapters embed *Client
// and override only the methods their exchange supports; everything else
// falls through to these NotSupported stubs.

func (c *Client) FetchMarkets(ctx context.Context) ([]models.Market, error) {
	return c.adapter.FetchMarkets(ctx)
}

func (c *Client) FetchCurrencies(ctx context.Context) (map[string]models.Currency, error) {
	return nil, c.NotSupportedErr("fetchCurrencies")
}

func (c *Client) FetchTicker(ctx context.Context, symbol string) (models.Ticker, error) {
	return models.Ticker{}, c.NotSupportedErr("fetchTicker")
}

func (c *Client) FetchTickers(ctx context.Context, symbols []string) (map[string]models.Ticker, error) {
	return nil, c.NotSupportedErr("fetchTickers")
}

func (c *Client) FetchOrderBook(ctx context.Context, symbol string, limit int) (models.OrderBook, error) {
	return models.OrderBook{}, c.NotSupportedErr("fetchOrderBook")
}

func (c *Client) FetchOHLCV(ctx context.Context, symbol, timeframe string, since int64, limit int) ([]models.OHLCV, error) {
	return nil, c.NotSupportedErr("fetchOHLCV")
}

func (c *Client) FetchTrades(ctx context.Context, symbol string, since int64, limit int) ([]models.Trade, error) {
	return nil, c.NotSupportedErr("fetchTrades")
}

func (c *Client) FetchBalance(ctx context.Context) (models.Balances, error) {
	return models.Balances{}, c.NotSupportedErr("fetchBalance")
}

func (c *Client) FetchMyTrades(ctx context.Context, symbol string, since int64, limit int) ([]models.Trade, error) {
	return nil, c.NotSupportedErr("fetchMyTrades")
}

func (c *Client) CreateOrder(ctx context.Context, symbol string, typ models.OrderType, side models.OrderSide, amount float64, price *float64, params map[string]any) (models.Order, error) {
	return models.Order{}, c.NotSupportedErr("createOrder")
}

func (c *Client) CancelOrder(ctx context.Context, id, symbol string) (models.Order, error) {
	return models.Order{}, c.NotSupportedErr("cancelOrder")
}

func (c *Client) FetchOrder(ctx context.Context, id, symbol string) (models.Order, error) {
	return models.Order{}, c.NotSupportedErr("fetchOrder")
}

func (c *Client) FetchOrders(ctx context.Context, symbol string, since int64, limit int) ([]models.Order, error) {
	return nil, c.NotSupportedErr("fetchOrders")
}

func (c *Client) FetchOpenOrders(ctx context.Context, symbol string, since int64, limit int) ([]models.Order, error) {
	return nil, c.NotSupportedErr("fetchOpenOrders")
}

func (c *Client) FetchDeposits(ctx context.Context, currency string, since int64, limit int) ([]models.Transaction, error) {
	return nil, c.NotSupportedErr("fetchDeposits")
}

func (c *Client) FetchWithdrawals(ctx context.Context, currency string, since int64, limit int) ([]models.Transaction, error) {
	return nil, c.NotSupportedErr("fetchWithdrawals")
}

func (c *Client) FetchDepositAddress(ctx context.Context, currency string, params map[string]any) (models.DepositAddress, error) {
	return models.DepositAddress{}, c.NotSupportedErr("fetchDepositAddress")
}

func (c *Client) Withdraw(ctx context.Context, currency string, amount float64, address, tag string, params map[string]any) (models.Transaction, error) {
	return models.Transaction{}, c.NotSupportedErr("withdraw")
}

// FilterTickersBySymbols narrows a bulk ticker map down to the requested
// subset. An empty subset returns the input untouched; symbols the exchange
// did not report are simply absent from the result.
func FilterTickersBySymbols(all map[string]models.Ticker, symbols []string) map[string]models.Ticker {
	if len(symbols) == 0 {
		return all
	}
	out := make(map[string]models.Ticker, len(symbols))
	for _, s := range symbols {
		if t, ok := all[s]; ok {
			out[s] = t
		}
	}
	return out
}
