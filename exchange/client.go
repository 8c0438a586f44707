package exchange

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"unifex/logger"
	"unifex/models"
)

// Adapter is the per-exchange hook set the generic client is parameterized
// with: the market fetcher feeding the registry, the request signer and the
// error classifier invoked on every response.
type Adapter interface {
	FetchMarkets(ctx context.Context) ([]models.Market, error)

	// Sign builds the final request descriptor for an endpoint. Public
	// sections interpolate the path and append a query string; private
	// sections additionally compute a nonce and attach authentication
	// headers. Sign runs once per dispatch attempt so a retry always
	// carries a fresh nonce.
	Sign(path, section, method string, params map[string]any) (*Request, error)

	// HandleErrors inspects a response before it is decoded and translates
	// exchange-specific failure signals into the shared taxonomy. A nil
	// return means the response is healthy.
	HandleErrors(status int, body []byte) error
}

// Credentials holds the API key material for private endpoints.
type Credentials struct {
	APIKey string
	Secret string
}

// RetryPolicy mirrors the dispatcher retry settings. Only network-class
// failures are retried; business errors surface immediately.
type RetryPolicy struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier int
}

// ClientConfig carries the runtime knobs for a client instance.
type ClientConfig struct {
	Timeout           time.Duration
	UserAgent         string
	RequestsPerSecond int
	BurstSize         int
	Retry             RetryPolicy

	// BaseURLs overrides the per-section API base URLs from configuration,
	// e.g. to point an adapter at a mirror or a test server.
	BaseURLs map[string]string
}

// Client is the generic exchange client every adapter embeds: HTTP dispatch
// with rate limiting and retry, the memoized market registry, precision and
// currency helpers, and NotSupported defaults for the whole unified surface.
type Client struct {
	opts    Options
	creds   Credentials
	httpc   *http.Client
	limiter *rate.Limiter
	retry   RetryPolicy
	log     *logger.Entry
	adapter Adapter

	marketsMu sync.RWMutex
	bySymbol  map[string]models.Market
	byID      map[string]models.Market
	loaded    bool
}

// NewClient composes the adapter metadata with the runtime configuration.
// The adapter argument is usually the embedding struct itself.
func NewClient(opts Options, creds Credentials, cfg ClientConfig, adapter Adapter) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	// WaitN fails outright when charged more than the burst, so the burst
	// floors at the heaviest declared endpoint weight.
	for _, endpoints := range opts.API {
		for _, w := range endpoints {
			if w > burst {
				burst = w
			}
		}
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}
	if cfg.Retry.BaseDelay <= 0 {
		cfg.Retry.BaseDelay = 100 * time.Millisecond
	}
	if cfg.Retry.MaxDelay <= 0 {
		cfg.Retry.MaxDelay = 5 * time.Second
	}
	if cfg.Retry.BackoffMultiplier <= 0 {
		cfg.Retry.BackoffMultiplier = 2
	}
	agent := cfg.UserAgent
	if agent == "" {
		agent = opts.UserAgent
	}
	if len(cfg.BaseURLs) > 0 {
		opts.URLs.API = mergeStringMap(opts.URLs.API, cfg.BaseURLs)
	}
	httpc := &http.Client{
		Timeout: cfg.Timeout,
		Transport: userAgentTransport{
			agent: agent,
			base:  http.DefaultTransport,
		},
	}
	return &Client{
		opts:    opts,
		creds:   creds,
		httpc:   httpc,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		retry:   cfg.Retry,
		log:     logger.GetLogger().WithComponent(opts.ID),
		adapter: adapter,
	}
}

// ID returns the adapter identifier.
func (c *Client) ID() string { return c.opts.ID }

// Name returns the exchange display name.
func (c *Client) Name() string { return c.opts.Name }

// Options exposes the composed static metadata.
func (c *Client) Options() Options { return c.opts }

// Credentials returns the configured key material.
func (c *Client) Credentials() Credentials { return c.creds }

// Log returns the component logger for the adapter.
func (c *Client) Log() *logger.Entry { return c.log }

// Has reports whether the adapter declares the unified capability.
func (c *Client) Has(capability string) bool {
	return c.opts.Has[capability]
}

// NotSupportedErr builds the error for an unimplemented unified method.
func (c *Client) NotSupportedErr(method string) error {
	return NewError(KindNotSupported, c.opts.ID, method+" is not supported", "")
}

// RequireCredentials fails with AuthenticationError before any network call
// when key material for a private endpoint is missing.
func (c *Client) RequireCredentials() error {
	if c.creds.APIKey == "" {
		return NewError(KindAuthentication, c.opts.ID, "apiKey credential is required", "")
	}
	return nil
}

// RequireSymbol fails with ArgumentsRequired when a symbol-scoped endpoint is
// called without one.
func (c *Client) RequireSymbol(method, symbol string) error {
	if symbol == "" {
		return NewError(KindArgumentsRequired, c.opts.ID, method+" requires a symbol argument", "")
	}
	return nil
}

// ValidateOrderArgs performs the client-side order checks shared by all
// adapters: a positive amount always, and a positive price for limit orders.
func (c *Client) ValidateOrderArgs(typ models.OrderType, side models.OrderSide, amount float64, price *float64) error {
	if side != models.OrderSideBuy && side != models.OrderSideSell {
		return NewError(KindInvalidOrder, c.opts.ID, "order side must be buy or sell", "")
	}
	if amount <= 0 {
		return NewError(KindInvalidOrder, c.opts.ID, "order amount must be positive", "")
	}
	if typ == models.OrderTypeLimit && (price == nil || *price <= 0) {
		return NewError(KindInvalidOrder, c.opts.ID, "limit orders require a positive price", "")
	}
	return nil
}

// Timeframe translates a unified timeframe into the exchange-native
// resolution, passing the token through unchanged when the table has no
// entry.
func (c *Client) Timeframe(tf string) string {
	if native, ok := c.opts.Timeframes[tf]; ok {
		return native
	}
	return tf
}

// CommonCurrency maps an exchange-native currency code onto the unified one
// through the adapter alias table. Codes are upper-cased.
func (c *Client) CommonCurrency(code string) string {
	code = strings.ToUpper(code)
	if unified, ok := c.opts.CommonCurrencies[code]; ok {
		return unified
	}
	return code
}

// QuoteDivisor returns the fixed price divisor for a unified quote currency,
// 1 when no rescaling applies.
func (c *Client) QuoteDivisor(quote string) int64 {
	if d, ok := c.opts.QuoteDivisors[quote]; ok && d > 0 {
		return d
	}
	return 1
}

// BaseURL resolves the API base for a section.
func (c *Client) BaseURL(section string) string {
	return c.opts.URLs.API[section]
}

// ClassifyError resolves an exchange error code/message against the adapter
// tables: exact code match first, then exact message match, then the broad
// substring table, falling back to ExchangeError carrying the raw body.
func (c *Client) ClassifyError(code, message string, body []byte) error {
	if code != "" {
		if kind, ok := c.opts.ErrorsExact[code]; ok {
			return NewError(kind, c.opts.ID, message, string(body))
		}
	}
	if message != "" {
		if kind, ok := c.opts.ErrorsExact[message]; ok {
			return NewError(kind, c.opts.ID, message, string(body))
		}
		lower := strings.ToLower(message)
		for _, broad := range c.opts.ErrorsBroad {
			if strings.Contains(lower, strings.ToLower(broad.Substring)) {
				return NewError(broad.Kind, c.opts.ID, message, string(body))
			}
		}
	}
	if message == "" {
		message = "exchange error"
	}
	return NewError(KindExchange, c.opts.ID, message, string(body))
}

// ImplodeParams interpolates {name} templates in a path from params and
// returns the path together with the params that were not consumed.
func ImplodeParams(path string, params map[string]any) (string, map[string]any) {
	rest := make(map[string]any, len(params))
	for k, v := range params {
		rest[k] = v
	}
	for k, v := range params {
		placeholder := "{" + k + "}"
		if strings.Contains(path, placeholder) {
			if s, ok := toString(v); ok {
				path = strings.ReplaceAll(path, placeholder, s)
				delete(rest, k)
			}
		}
	}
	return path, rest
}

// URLEncode serializes params as a query string with deterministically sorted
// keys so signed requests are reproducible for a given nonce and body.
func URLEncode(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := url.Values{}
	for _, k := range keys {
		if s, ok := toString(params[k]); ok {
			values.Set(k, s)
		}
	}
	return values.Encode()
}

// AmountToPrecision rounds an amount down to the market's declared step size
// and renders it as a decimal string.
func (c *Client) AmountToPrecision(market models.Market, amount float64) string {
	return roundToStep(amount, market.Precision.Amount)
}

// PriceToPrecision rounds a price down to the market's declared tick size.
func (c *Client) PriceToPrecision(market models.Market, price float64) string {
	return roundToStep(price, market.Precision.Price)
}

func roundToStep(value float64, step models.Number) string {
	d := decimal.NewFromFloat(value)
	if !step.Valid() || step.Decimal().IsZero() {
		return d.String()
	}
	s := step.Decimal()
	return d.Div(s).Floor().Mul(s).String()
}

// PrecisionFromDigits converts an integer "decimal digits" field into the
// corresponding power-of-ten step size, for exchanges that publish digit
// counts instead of steps.
func PrecisionFromDigits(digits int64) models.Number {
	if digits < 0 {
		return models.Number{}
	}
	return models.NDecimal(decimal.New(1, int32(-digits)))
}
