package exchange

import (
	"sort"

	"unifex/models"
)

// ParseUDF converts a TradingView-style UDF history payload — parallel
// t/o/h/l/c/v arrays with second-resolution timestamps — into unified candles
// sorted ascending by timestamp. divisor rescales the four price arrays (not
// volume, which is denominated in base units); pass 1 for no rescaling.
func ParseUDF(raw map[string]any, divisor int64) []models.OHLCV {
	ts := SafeList(raw, "t")
	opens := SafeList(raw, "o")
	highs := SafeList(raw, "h")
	lows := SafeList(raw, "l")
	closes := SafeList(raw, "c")
	volumes := SafeList(raw, "v")

	d := float64(1)
	if divisor > 1 {
		d = float64(divisor)
	}

	at := func(list []any, i int) float64 {
		if i >= len(list) {
			return 0
		}
		f, _ := toFloat(list[i])
		return f
	}

	candles := make([]models.OHLCV, 0, len(ts))
	for i := range ts {
		sec, ok := toFloat(ts[i])
		if !ok || sec <= 0 {
			continue
		}
		candles = append(candles, models.OHLCV{
			Timestamp: int64(sec) * 1000,
			Open:      at(opens, i) / d,
			High:      at(highs, i) / d,
			Low:       at(lows, i) / d,
			Close:     at(closes, i) / d,
			Volume:    at(volumes, i),
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Timestamp < candles[j].Timestamp })
	return candles
}
