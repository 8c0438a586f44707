package exchange

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"unifex/models"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// ISO8601 renders a millisecond timestamp in the unified datetime format.
// Returns "" for non-positive timestamps.
func ISO8601(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

// Milliseconds is the current wall clock in milliseconds.
func Milliseconds() int64 {
	return time.Now().UnixMilli()
}

// ParseISO8601 parses the datetime layouts exchanges actually emit into a
// millisecond timestamp, 0 when the value is empty or unrecognized.
func ParseISO8601(value string) int64 {
	if value == "" {
		return 0
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// SafeTicker completes a partially filled ticker: symbol reconciliation from
// the market context, datetime derivation, and the arithmetic fields that can
// be computed when both operands are known. Absent fields stay unknown.
func SafeTicker(t models.Ticker, market *models.Market) models.Ticker {
	if t.Symbol == "" && market != nil {
		t.Symbol = market.Symbol
	}
	if t.Datetime == "" {
		t.Datetime = ISO8601(t.Timestamp)
	}
	if !t.Close.Valid() && t.Last.Valid() {
		t.Close = t.Last
	}
	if !t.Last.Valid() && t.Close.Valid() {
		t.Last = t.Close
	}
	if t.Open.Valid() && t.Last.Valid() {
		if !t.Change.Valid() {
			t.Change = t.Last.Sub(t.Open)
		}
		if !t.Percentage.Valid() && !t.Open.Decimal().IsZero() {
			t.Percentage = models.NDecimal(
				t.Change.Decimal().Div(t.Open.Decimal()).Mul(hundred))
		}
		if !t.Average.Valid() {
			t.Average = models.NDecimal(t.Open.Add(t.Last).Decimal().Div(two))
		}
	}
	return t
}

// SafeOrder completes a partially filled order: remaining/filled/cost are
// derived from each other where possible and the status defaults to open.
func SafeOrder(o models.Order, market *models.Market) models.Order {
	if o.Symbol == "" && market != nil {
		o.Symbol = market.Symbol
	}
	if o.Datetime == "" {
		o.Datetime = ISO8601(o.Timestamp)
	}
	if !o.Remaining.Valid() && o.Amount.Valid() && o.Filled.Valid() {
		o.Remaining = o.Amount.Sub(o.Filled)
	}
	if !o.Filled.Valid() && o.Amount.Valid() && o.Remaining.Valid() {
		o.Filled = o.Amount.Sub(o.Remaining)
	}
	if !o.Cost.Valid() && o.Filled.Valid() {
		if o.Average.Valid() {
			o.Cost = o.Filled.Mul(o.Average)
		} else if o.Price.Valid() {
			o.Cost = o.Filled.Mul(o.Price)
		}
	}
	if o.Status == "" {
		o.Status = models.OrderStatusOpen
	}
	return o
}

// SafeTrade completes a partially filled trade, deriving cost from price and
// amount when the exchange omitted it.
func SafeTrade(tr models.Trade, market *models.Market) models.Trade {
	if tr.Symbol == "" && market != nil {
		tr.Symbol = market.Symbol
	}
	if tr.Datetime == "" {
		tr.Datetime = ISO8601(tr.Timestamp)
	}
	if !tr.Cost.Valid() && tr.Price.Valid() && tr.Amount.Valid() {
		tr.Cost = tr.Price.Mul(tr.Amount)
	}
	return tr
}

// SafeBalances completes a balance snapshot so each currency carries all of
// free, used and total whenever two of the three are known.
func SafeBalances(b models.Balances) models.Balances {
	if b.Currencies == nil {
		b.Currencies = map[string]models.Balance{}
	}
	if b.Datetime == "" {
		b.Datetime = ISO8601(b.Timestamp)
	}
	for code, bal := range b.Currencies {
		switch {
		case !bal.Total.Valid() && bal.Free.Valid() && bal.Used.Valid():
			bal.Total = bal.Free.Add(bal.Used)
		case !bal.Free.Valid() && bal.Total.Valid() && bal.Used.Valid():
			bal.Free = bal.Total.Sub(bal.Used)
		case !bal.Used.Valid() && bal.Total.Valid() && bal.Free.Valid():
			bal.Used = bal.Total.Sub(bal.Free)
		}
		b.Currencies[code] = bal
	}
	return b
}

// ParseBookSide extracts [price, amount] levels from one side of a raw book.
// Entries may be arrays ([price, amount, ...]) or objects; for objects the
// priceKey/amountKey name the fields. Negative or unparsable levels are
// dropped.
func ParseBookSide(side []any, priceKey, amountKey string) []models.BookLevel {
	levels := make([]models.BookLevel, 0, len(side))
	for _, entry := range side {
		var price, amount float64
		var okP, okA bool
		switch e := entry.(type) {
		case []any:
			if len(e) >= 2 {
				price, okP = toFloat(e[0])
				amount, okA = toFloat(e[1])
			}
		case map[string]any:
			price, okP = toFloat(SafeValue(e, priceKey))
			amount, okA = toFloat(SafeValue(e, amountKey))
		}
		if !okP || !okA || price < 0 || amount < 0 {
			continue
		}
		levels = append(levels, models.BookLevel{Price: price, Amount: amount})
	}
	return levels
}

// ParseOrderBook assembles a unified order book from an arbitrarily shaped
// raw payload. bidsKey/asksKey select the two sides, priceKey/amountKey apply
// when side entries are objects. Missing sides become empty slices. Bids are
// sorted descending and asks ascending by price.
func ParseOrderBook(raw map[string]any, symbol string, timestamp int64, bidsKey, asksKey, priceKey, amountKey string) models.OrderBook {
	bids := ParseBookSide(SafeList(raw, bidsKey), priceKey, amountKey)
	asks := ParseBookSide(SafeList(raw, asksKey), priceKey, amountKey)
	sort.Slice(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })
	return models.OrderBook{
		Symbol:    symbol,
		Bids:      bids,
		Asks:      asks,
		Timestamp: timestamp,
		Datetime:  ISO8601(timestamp),
	}
}
