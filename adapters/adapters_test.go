package adapters

import (
	"errors"
	"testing"
	"time"

	"unifex/config"
	"unifex/exchange"
)

func TestExchangesSorted(t *testing.T) {
	ids := Exchanges()
	want := []string{"exir", "nobitex", "wallex"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestNewConstructsEveryAdapter(t *testing.T) {
	ccfg := config.ClientConfig{Timeout: time.Second}
	for _, id := range Exchanges() {
		ex, err := New(id, config.ExchangeConfig{}, ccfg)
		if err != nil {
			t.Fatalf("New(%s) failed: %v", id, err)
		}
		if ex.ID() != id {
			t.Errorf("adapter id = %s, want %s", ex.ID(), id)
		}
		if !ex.Has("fetchMarkets") {
			t.Errorf("%s must declare fetchMarkets", id)
		}
	}
}

func TestNewUnknownID(t *testing.T) {
	_, err := New("binance", config.ExchangeConfig{}, config.ClientConfig{})
	var ns *exchange.NotSupported
	if !errors.As(err, &ns) {
		t.Fatalf("got %T, want NotSupported", err)
	}
}
