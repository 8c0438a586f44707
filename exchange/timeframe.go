package exchange

import (
	"strconv"

	"unifex/models"
)

// TimeframeSeconds converts a unified timeframe token ("1m", "4h", "1d", ...)
// into its duration in seconds.
func TimeframeSeconds(timeframe string) (int64, error) {
	if len(timeframe) < 2 {
		return 0, NewError(KindBadRequest, "", "invalid timeframe "+timeframe, "")
	}
	unit := timeframe[len(timeframe)-1]
	amount, err := strconv.ParseInt(timeframe[:len(timeframe)-1], 10, 64)
	if err != nil || amount <= 0 {
		return 0, NewError(KindBadRequest, "", "invalid timeframe "+timeframe, "")
	}
	var scale int64
	switch unit {
	case 's':
		scale = 1
	case 'm':
		scale = 60
	case 'h':
		scale = 3600
	case 'd':
		scale = 86400
	case 'w':
		scale = 7 * 86400
	case 'M':
		scale = 30 * 86400
	case 'y':
		scale = 365 * 86400
	default:
		return 0, NewError(KindBadRequest, "", "invalid timeframe "+timeframe, "")
	}
	return amount * scale, nil
}

// OHLCVWindow computes the [from, to] second-resolution fetch window for a
// candle request. With since set the window starts there and spans
// limit*timeframe; with since unset and a limit the window is the last
// limit*timeframe seconds ending now; with neither it defaults to the last
// 24 hours ending now.
func OHLCVWindow(nowMs, sinceMs int64, limit int, tfSeconds int64) (from, to int64) {
	now := nowMs / 1000
	if sinceMs > 0 {
		from = sinceMs / 1000
		if limit > 0 {
			to = from + int64(limit)*tfSeconds
		} else {
			to = now
		}
		return from, to
	}
	to = now
	if limit > 0 {
		from = to - int64(limit)*tfSeconds
	} else {
		from = to - 86400
	}
	return from, to
}

// FillMissingCandles walks the requested window in fixed timeframe steps and
// synthesizes a flat candle wherever the exchange omitted a bucket: the
// fabricated candle opens, peaks, bottoms and closes at the previous close
// with zero volume. With limit > 0 the result has exactly limit contiguous,
// evenly spaced candles. Callers should be aware that the filled buckets are
// fabricated, not observed; the continuity is the contract, not real trades.
func FillMissingCandles(candles []models.OHLCV, sinceMs int64, tfSeconds int64, limit int) []models.OHLCV {
	if len(candles) == 0 {
		return []models.OHLCV{}
	}
	stepMs := tfSeconds * 1000
	if stepMs <= 0 {
		return candles
	}
	expected := sinceMs
	if expected <= 0 {
		expected = candles[0].Timestamp
	}
	prevClose := candles[0].Open
	capHint := len(candles)
	if limit > capHint {
		capHint = limit
	}
	out := make([]models.OHLCV, 0, capHint)
	i := 0
	for {
		if limit > 0 {
			if len(out) >= limit {
				break
			}
		} else if i >= len(candles) {
			break
		}
		// Drop source candles that fell before the current grid slot.
		for i < len(candles) && candles[i].Timestamp < expected {
			i++
		}
		if i < len(candles) && candles[i].Timestamp == expected {
			out = append(out, candles[i])
			prevClose = candles[i].Close
			i++
		} else {
			out = append(out, models.OHLCV{
				Timestamp: expected,
				Open:      prevClose,
				High:      prevClose,
				Low:       prevClose,
				Close:     prevClose,
				Volume:    0,
			})
		}
		expected += stepMs
	}
	return out
}
