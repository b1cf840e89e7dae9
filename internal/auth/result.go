package auth

import "time"

// Credential is a bearer token and its expiry.
//
// The raw token is only reachable through [Credential.Header].
type Credential struct {
	accessToken string
	expiresAt   time.Time
}

// NewCredential creates a [Credential] for token that expires at expiresAt.
func NewCredential(token string, expiresAt time.Time) Credential {
	return Credential{accessToken: token, expiresAt: expiresAt}
}

// Header returns the Authorization header value for the credential.
func (c Credential) Header() string {
	return "Bearer " + c.accessToken
}

// ExpiresAt returns when the credential stops being usable.
func (c Credential) ExpiresAt() time.Time {
	return c.expiresAt
}

// ValidAt reports whether the credential is usable at now, i.e. it exists and now < expiresAt.
func (c Credential) ValidAt(now time.Time) bool {
	return c.accessToken != "" && now.Before(c.expiresAt)
}

// Outcome is the variant of a [Result].
type Outcome int

const (
	// Ready means Result.Credential can be used right away.
	Ready Outcome = iota
	// AuthorizationRedirectIssued means the user agent is being sent to the authorization endpoint.
	// The current operation cannot complete; it is not an error.
	AuthorizationRedirectIssued
	// Failed means Result.Err holds the failure, an [*Error] when authentication itself failed.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ready:
		return "ready"
	case AuthorizationRedirectIssued:
		return "authorization_redirect_issued"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is returned by [Manager.Acquire].
type Result struct {
	Outcome    Outcome
	Credential Credential // set when Outcome is Ready
	AuthURL    string     // set when Outcome is AuthorizationRedirectIssued
	Err        error      // set when Outcome is Failed
}

func ready(c Credential) Result {
	return Result{Outcome: Ready, Credential: c}
}

func redirected(authURL string) Result {
	return Result{Outcome: AuthorizationRedirectIssued, AuthURL: authURL}
}

func failed(err error) Result {
	return Result{Outcome: Failed, Err: err}
}

// State is the position of a [Manager] in the token lifecycle:
//
//	NoToken → Redirecting → ExchangingCode → Valid → Expired → NoToken
type State int

const (
	NoToken State = iota
	Redirecting
	ExchangingCode
	Valid
	Expired
)

func (s State) String() string {
	switch s {
	case NoToken:
		return "no_token"
	case Redirecting:
		return "redirecting"
	case ExchangingCode:
		return "exchanging_code"
	case Valid:
		return "valid"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}
