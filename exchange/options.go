package exchange

// BroadError maps a lower-cased message substring to an error kind. Broad
// matches are checked in declaration order, after the exact tables.
type BroadError struct {
	Substring string
	Kind      ErrorKind
}

// URLs groups the endpoints an adapter talks to. API maps a section name
// ("public", "private", ...) to its base URL.
type URLs struct {
	API  map[string]string
	WWW  string
	Docs []string
}

// TradingFees is the default maker/taker schedule, as fractions.
type TradingFees struct {
	Maker float64
	Taker float64
}

// Options is the static per-adapter metadata: capability flags, endpoint map
// with per-endpoint rate weights, timeframe translation table, fee schedule,
// currency alias table and error classification tables. It is composed once
// at construction by extending DefaultOptions with the adapter override and
// never mutated afterwards.
type Options struct {
	ID        string
	Name      string
	Countries []string
	Version   string
	UserAgent string

	// RateLimit is the minimum spacing in milliseconds between two
	// unit-weight requests.
	RateLimit int

	URLs URLs

	// API maps section -> endpoint path template -> rate weight.
	API map[string]map[string]int

	Has        map[string]bool
	Timeframes map[string]string
	Fees       TradingFees

	// CommonCurrencies maps exchange-native currency codes to unified ones.
	CommonCurrencies map[string]string

	// QuoteDivisors declares a fixed divisor applied to price and quote
	// volume fields when the unified quote currency is the given code.
	// Covers exchanges that publish prices in a x10 unit of the currency
	// they claim to quote in.
	QuoteDivisors map[string]int64

	ErrorsExact map[string]ErrorKind
	ErrorsBroad []BroadError
}

// DefaultOptions is the base every adapter extends. All capability flags
// start false; adapters switch on only what they actually implement.
func DefaultOptions() Options {
	return Options{
		UserAgent: "unifex/1.0",
		RateLimit: 200,
		Has: map[string]bool{
			"fetchMarkets":        false,
			"fetchCurrencies":     false,
			"fetchTicker":         false,
			"fetchTickers":        false,
			"fetchOrderBook":      false,
			"fetchOHLCV":          false,
			"fetchTrades":         false,
			"fetchMyTrades":       false,
			"fetchBalance":        false,
			"createOrder":         false,
			"cancelOrder":         false,
			"fetchOrder":          false,
			"fetchOrders":         false,
			"fetchOpenOrders":     false,
			"fetchDeposits":       false,
			"fetchWithdrawals":    false,
			"fetchDepositAddress": false,
			"withdraw":            false,
		},
		Timeframes: map[string]string{},
	}
}

// Extend merges an adapter override into o, returning the composed metadata.
// Scalars override when set, maps merge key-wise with the override winning,
// slices replace wholesale when provided.
func (o Options) Extend(ov Options) Options {
	out := o
	if ov.ID != "" {
		out.ID = ov.ID
	}
	if ov.Name != "" {
		out.Name = ov.Name
	}
	if ov.Version != "" {
		out.Version = ov.Version
	}
	if ov.UserAgent != "" {
		out.UserAgent = ov.UserAgent
	}
	if ov.RateLimit > 0 {
		out.RateLimit = ov.RateLimit
	}
	if ov.Countries != nil {
		out.Countries = ov.Countries
	}
	if ov.URLs.WWW != "" {
		out.URLs.WWW = ov.URLs.WWW
	}
	if ov.URLs.Docs != nil {
		out.URLs.Docs = ov.URLs.Docs
	}
	out.URLs.API = mergeStringMap(o.URLs.API, ov.URLs.API)
	if ov.API != nil {
		merged := make(map[string]map[string]int, len(ov.API))
		for section, endpoints := range o.API {
			merged[section] = mergeIntMap(nil, endpoints)
		}
		for section, endpoints := range ov.API {
			merged[section] = mergeIntMap(merged[section], endpoints)
		}
		out.API = merged
	}
	out.Has = mergeBoolMap(o.Has, ov.Has)
	out.Timeframes = mergeStringMap(o.Timeframes, ov.Timeframes)
	if ov.Fees.Maker != 0 {
		out.Fees.Maker = ov.Fees.Maker
	}
	if ov.Fees.Taker != 0 {
		out.Fees.Taker = ov.Fees.Taker
	}
	out.CommonCurrencies = mergeStringMap(o.CommonCurrencies, ov.CommonCurrencies)
	out.QuoteDivisors = mergeInt64Map(o.QuoteDivisors, ov.QuoteDivisors)
	out.ErrorsExact = mergeKindMap(o.ErrorsExact, ov.ErrorsExact)
	if ov.ErrorsBroad != nil {
		out.ErrorsBroad = ov.ErrorsBroad
	}
	return out
}

func mergeStringMap(base, over map[string]string) map[string]string {
	if base == nil && over == nil {
		return nil
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func mergeBoolMap(base, over map[string]bool) map[string]bool {
	if base == nil && over == nil {
		return nil
	}
	out := make(map[string]bool, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func mergeIntMap(base, over map[string]int) map[string]int {
	if base == nil && over == nil {
		return nil
	}
	out := make(map[string]int, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func mergeInt64Map(base, over map[string]int64) map[string]int64 {
	if base == nil && over == nil {
		return nil
	}
	out := make(map[string]int64, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func mergeKindMap(base, over map[string]ErrorKind) map[string]ErrorKind {
	if base == nil && over == nil {
		return nil
	}
	out := make(map[string]ErrorKind, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// DeepExtend recursively merges JSON-style maps left to right: nested maps
// merge, everything else is overridden by the later value. Used to compose
// request parameter dictionaries without mutating the inputs.
func DeepExtend(dicts ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, d := range dicts {
		for k, v := range d {
			if sub, ok := v.(map[string]any); ok {
				if cur, ok := out[k].(map[string]any); ok {
					out[k] = DeepExtend(cur, sub)
					continue
				}
				out[k] = DeepExtend(sub)
				continue
			}
			out[k] = v
		}
	}
	return out
}

// Omit copies params without the listed keys.
func Omit(params map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
