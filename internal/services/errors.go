package services

import (
	"fmt"

	"github.com/desertthunder/jamlist/internal/shared"
)

// APIErrorKind names the operation an [APIError] came from.
type APIErrorKind int

const (
	SearchFailed APIErrorKind = iota
	ProfileFailed
	CreateFailed
	AddFailed
	NoToken
)

func (k APIErrorKind) String() string {
	switch k {
	case SearchFailed:
		return "search_failed"
	case ProfileFailed:
		return "profile_failed"
	case CreateFailed:
		return "create_failed"
	case AddFailed:
		return "add_failed"
	case NoToken:
		return "no_token"
	default:
		return "unknown"
	}
}

func (k APIErrorKind) sentinel() error {
	switch k {
	case SearchFailed:
		return shared.ErrSearchFailed
	case ProfileFailed:
		return shared.ErrProfileFailed
	case CreateFailed:
		return shared.ErrCreateFailed
	case AddFailed:
		return shared.ErrAddFailed
	default:
		return shared.ErrNoToken
	}
}

// APIError is a failed Spotify Web API call.
//
// Status and Body are set when the API answered with a non-2xx status. AuthURL is set for [NoToken], where the user
// agent has been sent to authorize and the call can be retried once it returns.
type APIError struct {
	Kind    APIErrorKind
	Status  int
	Body    string
	AuthURL string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Kind.sentinel().Error()
	switch {
	case e.Status != 0 && e.Body != "":
		msg = fmt.Sprintf("%s: status %d: %s", msg, e.Status, e.Body)
	case e.Status != 0:
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	case e.Kind == NoToken && e.AuthURL != "":
		msg += ": authorization required"
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}
