package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrMissingVerifier = fmt.Errorf("missing PKCE verifier")
	ErrExchangeFailed  = fmt.Errorf("token exchange failed")
	ErrAuthDenied      = fmt.Errorf("authorization denied")
	ErrTimeout         = fmt.Errorf("operation timed out")

	// API and service errors
	ErrNoToken       = fmt.Errorf("no Spotify access token available")
	ErrSearchFailed  = fmt.Errorf("spotify search failed")
	ErrProfileFailed = fmt.Errorf("failed to fetch current user")
	ErrCreateFailed  = fmt.Errorf("create playlist failed")
	ErrAddFailed     = fmt.Errorf("add tracks failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
