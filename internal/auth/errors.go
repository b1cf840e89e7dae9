package auth

import (
	"fmt"

	"github.com/desertthunder/jamlist/internal/shared"
)

// ErrorKind classifies an [Error].
type ErrorKind int

const (
	MissingVerifier ErrorKind = iota
	ExchangeFailed
)

func (k ErrorKind) String() string {
	switch k {
	case MissingVerifier:
		return "missing_verifier"
	case ExchangeFailed:
		return "exchange_failed"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	if k == MissingVerifier {
		return shared.ErrMissingVerifier
	}
	return shared.ErrExchangeFailed
}

// Error is an authentication failure.
//
// It matches [shared.ErrMissingVerifier] or [shared.ErrExchangeFailed] with errors.Is, and unwraps to the underlying
// cause when there is one.
type Error struct {
	Kind   ErrorKind
	Status int    // HTTP status of the token endpoint, 0 when no response was received
	Body   string // response body text of the token endpoint
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}
