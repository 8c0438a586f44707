package exchange

import "testing"

func TestDefaultOptionsExtend(t *testing.T) {
	opts := DefaultOptions().Extend(Options{
		ID:   "testex",
		Name: "TestEx",
		URLs: URLs{API: map[string]string{"public": "https://api.test"}},
		Has: map[string]bool{
			"fetchTicker": true,
		},
		Timeframes: map[string]string{"1h": "60"},
		CommonCurrencies: map[string]string{
			"RLS": "IRT",
		},
		QuoteDivisors: map[string]int64{"IRT": 10},
	})

	if opts.ID != "testex" || opts.Name != "TestEx" {
		t.Errorf("identity not applied: %s/%s", opts.ID, opts.Name)
	}
	if opts.UserAgent == "" {
		t.Error("defaults lost in extend")
	}
	if !opts.Has["fetchTicker"] {
		t.Error("capability override not applied")
	}
	if opts.Has["createOrder"] {
		t.Error("capabilities must default to false")
	}
	if opts.URLs.API["public"] != "https://api.test" {
		t.Errorf("API base not applied: %v", opts.URLs.API)
	}
	if opts.CommonCurrencies["RLS"] != "IRT" {
		t.Error("currency aliases not merged")
	}
	if opts.QuoteDivisors["IRT"] != 10 {
		t.Error("quote divisors not merged")
	}
}

func TestExtendDoesNotMutateBase(t *testing.T) {
	base := DefaultOptions()
	_ = base.Extend(Options{Has: map[string]bool{"fetchTicker": true}})
	if base.Has["fetchTicker"] {
		t.Error("extend mutated the base capability map")
	}
}

func TestDeepExtend(t *testing.T) {
	out := DeepExtend(
		map[string]any{"a": 1, "nested": map[string]any{"x": 1, "y": 2}},
		map[string]any{"b": 2, "nested": map[string]any{"y": 3}},
	)
	if out["a"] != 1 || out["b"] != 2 {
		t.Errorf("top-level merge: %v", out)
	}
	nested := out["nested"].(map[string]any)
	if nested["x"] != 1 || nested["y"] != 3 {
		t.Errorf("nested merge: %v", nested)
	}
}

func TestDeepExtendDoesNotMutateInputs(t *testing.T) {
	left := map[string]any{"nested": map[string]any{"x": 1}}
	_ = DeepExtend(left, map[string]any{"nested": map[string]any{"x": 2}})
	if left["nested"].(map[string]any)["x"] != 1 {
		t.Error("deep extend mutated its input")
	}
}

func TestOmit(t *testing.T) {
	in := map[string]any{"a": 1, "b": 2, "c": 3}
	out := Omit(in, "b", "missing")
	if len(out) != 2 || out["b"] != nil {
		t.Errorf("omit result: %v", out)
	}
	if len(in) != 3 {
		t.Error("omit mutated its input")
	}
}
