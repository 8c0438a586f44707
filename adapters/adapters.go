// Package adapters registers the built-in exchange adapters and constructs
// them by id.
package adapters

import (
	"sort"

	"unifex/adapters/exir"
	"unifex/adapters/nobitex"
	"unifex/adapters/wallex"
	"unifex/config"
	"unifex/exchange"
)

type factory func(cfg config.ExchangeConfig, ccfg config.ClientConfig) exchange.Exchange

var registry = map[string]factory{
	"nobitex": func(cfg config.ExchangeConfig, ccfg config.ClientConfig) exchange.Exchange {
		return nobitex.New(cfg, ccfg)
	},
	"wallex": func(cfg config.ExchangeConfig, ccfg config.ClientConfig) exchange.Exchange {
		return wallex.New(cfg, ccfg)
	},
	"exir": func(cfg config.ExchangeConfig, ccfg config.ClientConfig) exchange.Exchange {
		return exir.New(cfg, ccfg)
	},
}

// New constructs the adapter registered under id. Unknown ids fail with
// NotSupported.
func New(id string, cfg config.ExchangeConfig, ccfg config.ClientConfig) (exchange.Exchange, error) {
	f, ok := registry[id]
	if !ok {
		return nil, exchange.NewError(exchange.KindNotSupported, id, "no such exchange adapter", "")
	}
	return f(cfg, ccfg), nil
}

// Exchanges lists the registered adapter ids in sorted order.
func Exchanges() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
