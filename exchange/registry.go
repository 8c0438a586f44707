package exchange

import (
	"context"
	"sort"

	"unifex/models"
)

// LoadMarkets fetches and parses the instrument list once and memoizes it for
// the client's lifetime. Subsequent calls are no-ops unless reload is set.
// The registry mutex is held across the fetch so concurrent forced reloads
// are serialized: callers racing a reload simply wait for the in-flight one.
func (c *Client) LoadMarkets(ctx context.Context, reload bool) (map[string]models.Market, error) {
	c.marketsMu.Lock()
	defer c.marketsMu.Unlock()

	if c.loaded && !reload {
		return copyMarkets(c.bySymbol), nil
	}
	markets, err := c.adapter.FetchMarkets(ctx)
	if err != nil {
		return nil, err
	}
	bySymbol := make(map[string]models.Market, len(markets))
	byID := make(map[string]models.Market, len(markets))
	for _, m := range markets {
		bySymbol[m.Symbol] = m
		byID[m.ID] = m
	}
	c.bySymbol = bySymbol
	c.byID = byID
	c.loaded = true
	return copyMarkets(c.bySymbol), nil
}

// copyMarkets shields the memoized registry from caller mutation.
func copyMarkets(in map[string]models.Market) map[string]models.Market {
	out := make(map[string]models.Market, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Market resolves a unified symbol to its market, loading markets first when
// needed. Unknown symbols fail with BadSymbol.
func (c *Client) Market(ctx context.Context, symbol string) (models.Market, error) {
	if _, err := c.LoadMarkets(ctx, false); err != nil {
		return models.Market{}, err
	}
	c.marketsMu.RLock()
	defer c.marketsMu.RUnlock()
	if m, ok := c.bySymbol[symbol]; ok {
		return m, nil
	}
	// Accept exchange-native ids as a fallback so either form round-trips.
	if m, ok := c.byID[symbol]; ok {
		return m, nil
	}
	return models.Market{}, NewError(KindBadSymbol, c.opts.ID, "unknown symbol "+symbol, "")
}

// MarketByID resolves an exchange-native market id.
func (c *Client) MarketByID(ctx context.Context, id string) (models.Market, error) {
	if _, err := c.LoadMarkets(ctx, false); err != nil {
		return models.Market{}, err
	}
	c.marketsMu.RLock()
	defer c.marketsMu.RUnlock()
	if m, ok := c.byID[id]; ok {
		return m, nil
	}
	return models.Market{}, NewError(KindBadSymbol, c.opts.ID, "unknown market id "+id, "")
}

// Symbols lists the loaded unified symbols in sorted order.
func (c *Client) Symbols(ctx context.Context) ([]string, error) {
	if _, err := c.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	c.marketsMu.RLock()
	defer c.marketsMu.RUnlock()
	symbols := make([]string, 0, len(c.bySymbol))
	for s := range c.bySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols, nil
}
