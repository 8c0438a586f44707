package exchange

import (
	"errors"
	"testing"

	"unifex/models"
)

func TestTimeframeSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1m", 60},
		{"15m", 900},
		{"1h", 3600},
		{"4h", 14400},
		{"1d", 86400},
		{"1w", 604800},
		{"1M", 2592000},
		{"1y", 31536000},
		{"30s", 30},
	}
	for _, tt := range tests {
		got, err := TimeframeSeconds(tt.in)
		if err != nil {
			t.Errorf("TimeframeSeconds(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TimeframeSeconds(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTimeframeSecondsInvalid(t *testing.T) {
	for _, in := range []string{"", "m", "0m", "-1h", "5x", "junk"} {
		if _, err := TimeframeSeconds(in); err == nil {
			t.Errorf("TimeframeSeconds(%q) must fail", in)
		} else {
			var br *BadRequest
			if !errors.As(err, &br) {
				t.Errorf("TimeframeSeconds(%q) error kind: %T", in, err)
			}
		}
	}
}

func TestOHLCVWindow(t *testing.T) {
	now := int64(1700000000000)
	tests := []struct {
		name     string
		since    int64
		limit    int
		wantFrom int64
		wantTo   int64
	}{
		{"since and limit", 1699990000000, 10, 1699990000, 1699990000 + 10*3600},
		{"since only", 1699990000000, 0, 1699990000, 1700000000},
		{"limit only", 0, 24, 1700000000 - 24*3600, 1700000000},
		{"neither", 0, 0, 1700000000 - 86400, 1700000000},
	}
	for _, tt := range tests {
		from, to := OHLCVWindow(now, tt.since, tt.limit, 3600)
		if from != tt.wantFrom || to != tt.wantTo {
			t.Errorf("%s: window = [%d, %d], want [%d, %d]", tt.name, from, to, tt.wantFrom, tt.wantTo)
		}
	}
}

func candle(ts int64, o, h, l, c, v float64) models.OHLCV {
	return models.OHLCV{Timestamp: ts, Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestFillMissingCandlesGaps(t *testing.T) {
	const step = int64(3600 * 1000)
	base := int64(1700000000000)
	in := []models.OHLCV{
		candle(base, 100, 110, 90, 105, 3),
		// two buckets missing
		candle(base+3*step, 105, 120, 100, 115, 7),
	}
	out := FillMissingCandles(in, base, 3600, 0)
	if len(out) != 4 {
		t.Fatalf("got %d candles, want 4", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Timestamp-out[i-1].Timestamp != step {
			t.Fatalf("uneven spacing at %d", i)
		}
	}
	for _, synth := range out[1:3] {
		if synth.Open != 105 || synth.High != 105 || synth.Low != 105 || synth.Close != 105 {
			t.Errorf("synthetic candle must be flat at previous close: %+v", synth)
		}
		if synth.Volume != 0 {
			t.Errorf("synthetic candle must have zero volume: %+v", synth)
		}
	}
	if out[3] != in[1] {
		t.Errorf("real candle must pass through unchanged")
	}
}

func TestFillMissingCandlesExactLimit(t *testing.T) {
	const step = int64(60 * 1000)
	base := int64(1700000000000)
	in := []models.OHLCV{candle(base, 10, 11, 9, 10.5, 1)}
	out := FillMissingCandles(in, base, 60, 5)
	if len(out) != 5 {
		t.Fatalf("got %d candles, want exactly 5", len(out))
	}
	for i, c := range out[1:] {
		if c.Timestamp != base+int64(i+1)*step {
			t.Errorf("candle %d timestamp %d", i+1, c.Timestamp)
		}
		if c.Close != 10.5 || c.Volume != 0 {
			t.Errorf("trailing candles must extend the last close: %+v", c)
		}
	}
}

func TestFillMissingCandlesLeadingGap(t *testing.T) {
	const step = int64(60 * 1000)
	base := int64(1700000000000)
	// The exchange's first candle arrives one bucket after the requested
	// start: the missing opening bucket is synthesized from its open.
	in := []models.OHLCV{candle(base+step, 50, 55, 45, 52, 2)}
	out := FillMissingCandles(in, base, 60, 3)
	if len(out) != 3 {
		t.Fatalf("got %d candles, want 3", len(out))
	}
	if out[0].Close != 50 || out[0].Volume != 0 {
		t.Errorf("leading synthetic candle: %+v", out[0])
	}
	if out[1] != in[0] {
		t.Errorf("real candle lost: %+v", out[1])
	}
}

func TestFillMissingCandlesEmpty(t *testing.T) {
	out := FillMissingCandles(nil, 0, 60, 10)
	if out == nil || len(out) != 0 {
		t.Fatalf("empty input must yield an empty slice, got %v", out)
	}
}
