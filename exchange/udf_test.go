package exchange

import "testing"

func TestParseUDF(t *testing.T) {
	raw := map[string]any{
		"s": "ok",
		"t": []any{float64(1700003600), float64(1700000000)},
		"o": []any{float64(660000000), float64(650000000)},
		"h": []any{float64(670000000), float64(660000000)},
		"l": []any{float64(650000000), float64(640000000)},
		"c": []any{float64(665000000), float64(655000000)},
		"v": []any{float64(2), float64(1.5)},
	}
	candles := ParseUDF(raw, 10)
	if len(candles) != 2 {
		t.Fatalf("got %d candles", len(candles))
	}
	// Sorted ascending regardless of payload order.
	if candles[0].Timestamp != 1700000000000 || candles[1].Timestamp != 1700003600000 {
		t.Errorf("order: %d, %d", candles[0].Timestamp, candles[1].Timestamp)
	}
	// Prices rescaled, volume untouched.
	if candles[0].Open != 65000000 || candles[0].Close != 65500000 {
		t.Errorf("prices: %+v", candles[0])
	}
	if candles[0].Volume != 1.5 {
		t.Errorf("volume: %v", candles[0].Volume)
	}
}

func TestParseUDFNoDivisor(t *testing.T) {
	raw := map[string]any{
		"t": []any{float64(1700000000)},
		"o": []any{float64(65000)},
		"h": []any{float64(66000)},
		"l": []any{float64(64000)},
		"c": []any{float64(65500)},
		"v": []any{float64(3)},
	}
	candles := ParseUDF(raw, 1)
	if len(candles) != 1 || candles[0].Open != 65000 {
		t.Errorf("candles: %+v", candles)
	}
}

func TestParseUDFRaggedArrays(t *testing.T) {
	raw := map[string]any{
		"t": []any{float64(1700000000), float64(1700000060)},
		"o": []any{float64(10)},
		"c": []any{float64(11), float64(12)},
	}
	candles := ParseUDF(raw, 1)
	if len(candles) != 2 {
		t.Fatalf("got %d candles", len(candles))
	}
	// Missing entries degrade to zero instead of panicking.
	if candles[1].Open != 0 || candles[1].Close != 12 {
		t.Errorf("ragged candle: %+v", candles[1])
	}
}

func TestParseUDFEmpty(t *testing.T) {
	if got := ParseUDF(map[string]any{"s": "no_data"}, 1); len(got) != 0 {
		t.Errorf("no_data payload: %v", got)
	}
	if got := ParseUDF(nil, 1); len(got) != 0 {
		t.Errorf("nil payload: %v", got)
	}
}
