package exchange

import "fmt"

// ErrorKind names a class in the shared error taxonomy. Adapters declare
// exact-match and substring-match tables from exchange codes to kinds and the
// client materializes the typed error.
type ErrorKind string

const (
	KindExchange          ErrorKind = "ExchangeError"
	KindAuthentication    ErrorKind = "AuthenticationError"
	KindInvalidNonce      ErrorKind = "InvalidNonce"
	KindInvalidOrder      ErrorKind = "InvalidOrder"
	KindOrderNotFound     ErrorKind = "OrderNotFound"
	KindInsufficientFunds ErrorKind = "InsufficientFunds"
	KindPermissionDenied  ErrorKind = "PermissionDenied"
	KindBadSymbol         ErrorKind = "BadSymbol"
	KindBadRequest        ErrorKind = "BadRequest"
	KindArgumentsRequired ErrorKind = "ArgumentsRequired"
	KindOnMaintenance     ErrorKind = "OnMaintenance"
	KindNotSupported      ErrorKind = "NotSupported"
)

// BaseError carries the exchange id, a human readable message and the raw
// response body the error was derived from.
type BaseError struct {
	Exchange string
	Message  string
	Body     string
}

func (e *BaseError) Error() string {
	if e.Exchange == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Exchange, e.Message)
}

// ExchangeError is the catch-all for errors the exchange signalled but no
// table classified.
type ExchangeError struct{ BaseError }

type AuthenticationError struct{ BaseError }

type InvalidNonce struct{ BaseError }

type InvalidOrder struct{ BaseError }

type OrderNotFound struct{ BaseError }

type InsufficientFunds struct{ BaseError }

type PermissionDenied struct{ BaseError }

type BadSymbol struct{ BaseError }

type BadRequest struct{ BaseError }

type ArgumentsRequired struct{ BaseError }

type OnMaintenance struct{ BaseError }

// NotSupported is returned when a unified method is invoked on an adapter
// whose capability flags declare it unavailable.
type NotSupported struct{ BaseError }

// NetworkError wraps transport failures and 5xx responses. It is the only
// error class the dispatcher retries.
type NetworkError struct {
	BaseError
	Err error
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NewError builds the typed error for kind. Unknown kinds collapse into
// ExchangeError.
func NewError(kind ErrorKind, exchange, message, body string) error {
	base := BaseError{Exchange: exchange, Message: message, Body: body}
	switch kind {
	case KindAuthentication:
		return &AuthenticationError{base}
	case KindInvalidNonce:
		return &InvalidNonce{base}
	case KindInvalidOrder:
		return &InvalidOrder{base}
	case KindOrderNotFound:
		return &OrderNotFound{base}
	case KindInsufficientFunds:
		return &InsufficientFunds{base}
	case KindPermissionDenied:
		return &PermissionDenied{base}
	case KindBadSymbol:
		return &BadSymbol{base}
	case KindBadRequest:
		return &BadRequest{base}
	case KindArgumentsRequired:
		return &ArgumentsRequired{base}
	case KindOnMaintenance:
		return &OnMaintenance{base}
	case KindNotSupported:
		return &NotSupported{base}
	default:
		return &ExchangeError{base}
	}
}
