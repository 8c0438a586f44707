package exchange

import (
	"errors"
	"testing"
)

func classifier() *Client {
	opts := DefaultOptions().Extend(Options{
		ID: "testex",
		ErrorsExact: map[string]ErrorKind{
			"TokenInvalid": KindAuthentication,
			"SmallOrder":   KindInvalidOrder,
		},
		ErrorsBroad: []BroadError{
			{Substring: "balance", Kind: KindInsufficientFunds},
			{Substring: "order", Kind: KindInvalidOrder},
		},
	})
	return NewClient(opts, Credentials{}, ClientConfig{}, nil)
}

func TestClassifyErrorExactCode(t *testing.T) {
	err := classifier().ClassifyError("TokenInvalid", "token is bad", []byte(`{}`))
	var auth *AuthenticationError
	if !errors.As(err, &auth) {
		t.Fatalf("got %T, want AuthenticationError", err)
	}
	if auth.Exchange != "testex" || auth.Message != "token is bad" {
		t.Errorf("error fields: %+v", auth)
	}
}

func TestClassifyErrorExactMessage(t *testing.T) {
	err := classifier().ClassifyError("", "SmallOrder", nil)
	var inv *InvalidOrder
	if !errors.As(err, &inv) {
		t.Fatalf("got %T, want InvalidOrder", err)
	}
}

func TestClassifyErrorBroadPrecedence(t *testing.T) {
	// Both substrings match; the first declared entry must win.
	err := classifier().ClassifyError("", "Insufficient Balance for this order", nil)
	var funds *InsufficientFunds
	if !errors.As(err, &funds) {
		t.Fatalf("got %T, want InsufficientFunds", err)
	}
}

func TestClassifyErrorFallback(t *testing.T) {
	err := classifier().ClassifyError("UnknownCode", "something odd", []byte(`{"code":"UnknownCode"}`))
	var ex *ExchangeError
	if !errors.As(err, &ex) {
		t.Fatalf("got %T, want ExchangeError", err)
	}
	if ex.Body == "" {
		t.Error("fallback must carry the raw body")
	}
}

func TestNewErrorKinds(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		as   func(error) bool
	}{
		{KindAuthentication, func(e error) bool { var t *AuthenticationError; return errors.As(e, &t) }},
		{KindInvalidNonce, func(e error) bool { var t *InvalidNonce; return errors.As(e, &t) }},
		{KindOrderNotFound, func(e error) bool { var t *OrderNotFound; return errors.As(e, &t) }},
		{KindBadSymbol, func(e error) bool { var t *BadSymbol; return errors.As(e, &t) }},
		{KindArgumentsRequired, func(e error) bool { var t *ArgumentsRequired; return errors.As(e, &t) }},
		{KindOnMaintenance, func(e error) bool { var t *OnMaintenance; return errors.As(e, &t) }},
		{KindNotSupported, func(e error) bool { var t *NotSupported; return errors.As(e, &t) }},
		{ErrorKind("bogus"), func(e error) bool { var t *ExchangeError; return errors.As(e, &t) }},
	}
	for _, tt := range tests {
		err := NewError(tt.kind, "x", "msg", "")
		if !tt.as(err) {
			t.Errorf("kind %s produced %T", tt.kind, err)
		}
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &NetworkError{BaseError: BaseError{Exchange: "x", Message: "dial failed"}, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("NetworkError must unwrap to the transport error")
	}
}
