package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jamlist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// DefaultNavigateDelay is how long the [Manager] waits before sending the user agent to the authorization endpoint.
const DefaultNavigateDelay = 50 * time.Millisecond

// Config describes the Spotify app and endpoints used for the PKCE flow.
type Config struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	AuthURL     string
	TokenURL    string
}

// ConfigFrom builds a [Config] from the application configuration.
func ConfigFrom(c *shared.Config) Config {
	return Config{
		ClientID:    c.Credentials.Spotify.ClientID,
		RedirectURI: c.Credentials.Spotify.RedirectURI,
		Scopes:      c.Credentials.Spotify.Scopes,
		AuthURL:     c.Spotify.AuthURL,
		TokenURL:    c.Spotify.TokenURL,
	}
}

// Options holds the optional collaborators of a [Manager].
type Options struct {
	HTTPClient *http.Client     // used for the token exchange, defaults to [http.DefaultClient]
	Logger     *log.Logger      // defaults to a discarding logger
	Now        func() time.Time // defaults to [time.Now]

	// NavigateDelay postpones Location.Navigate. Zero means [DefaultNavigateDelay]; a negative value navigates before
	// Acquire returns.
	NavigateDelay time.Duration
}

// Manager produces bearer credentials for outbound requests and owns the PKCE lifecycle.
//
// The exchange and authorize branches run through a [singleflight.Group], so concurrent callers share one token
// exchange or one authorization redirect.
type Manager struct {
	config Config
	oauth  *oauth2.Config
	store  Store
	client *http.Client
	logger *log.Logger
	now    func() time.Time
	delay  time.Duration
	flight singleflight.Group

	mu    sync.Mutex
	cred  Credential
	state State
}

// NewManager creates a [Manager] caching credentials in store.
func NewManager(config Config, store Store, opts Options) *Manager {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NavigateDelay == 0 {
		opts.NavigateDelay = DefaultNavigateDelay
	}

	return &Manager{
		config: config,
		oauth: &oauth2.Config{
			ClientID:    config.ClientID,
			RedirectURL: config.RedirectURI,
			Scopes:      config.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   config.AuthURL,
				TokenURL:  config.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		store:  store,
		client: opts.HTTPClient,
		logger: opts.Logger,
		now:    opts.Now,
		delay:  opts.NavigateDelay,
		state:  NoToken,
	}
}

// Acquire returns a usable credential, exchanges an authorization code, or starts a new authorization.
//
// The checks run in order and the first match wins:
//  1. a valid in-memory credential
//  2. a valid token in the store, which is promoted into memory
//  3. a "code" parameter on the [Location] carried by ctx, which is exchanged for a token
//  4. a new verifier and an authorization redirect
func (m *Manager) Acquire(ctx context.Context) Result {
	if cred, ok := m.cached(); ok {
		return ready(cred)
	}

	cred, ok, err := m.stored()
	if err != nil {
		return failed(err)
	}
	if ok {
		return ready(cred)
	}

	loc, _ := LocationFrom(ctx)
	if code := codeFrom(loc); code != "" {
		v, _, _ := m.flight.Do("exchange:"+code, func() (any, error) {
			if cred, ok := m.cached(); ok {
				loc.Replace(StripQuery(loc.URL()))
				return ready(cred), nil
			}
			return m.exchange(ctx, loc, code), nil
		})
		return v.(Result)
	}

	v, _, _ := m.flight.Do("authorize", func() (any, error) {
		if cred, ok := m.cached(); ok {
			return ready(cred), nil
		}
		return m.authorize(loc), nil
	})
	return v.(Result)
}

// State reports where the manager is in the token lifecycle, consulting the store when memory is empty.
func (m *Manager) State() State {
	if _, ok := m.cached(); ok {
		return Valid
	}
	if _, ok, err := m.stored(); err == nil && ok {
		return Valid
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == NoToken && m.cred.accessToken == "" {
		if token, ok, _ := m.store.Get(KeyAccessToken); ok && token != "" {
			return Expired
		}
	}
	return m.state
}

// Clear forgets the in-memory credential and removes every session entry the manager owns.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.cred = Credential{}
	m.state = NoToken
	m.mu.Unlock()

	for _, key := range []string{KeyAccessToken, KeyExpiresAt, KeyVerifier} {
		if err := m.store.Delete(key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	m.logger.Debug("session cleared")
	return nil
}

// AuthorizationURL builds the authorize endpoint URL for challenge.
func (m *Manager) AuthorizationURL(challenge string) string {
	u, err := url.Parse(m.config.AuthURL)
	if err != nil {
		u = &url.URL{Path: m.config.AuthURL}
	}

	q := u.Query()
	q.Set("client_id", m.config.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", m.config.RedirectURI)
	q.Set("code_challenge_method", "S256")
	q.Set("code_challenge", challenge)
	q.Set("scope", strings.Join(m.config.Scopes, " "))
	u.RawQuery = q.Encode()

	return u.String()
}

// cached returns the in-memory credential when it is still valid.
func (m *Manager) cached() (Credential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cred.ValidAt(m.now()) {
		m.state = Valid
		return m.cred, true
	}
	if m.cred.accessToken != "" {
		m.state = Expired
	}
	return Credential{}, false
}

// stored promotes a valid token from the store into memory.
//
// A malformed expiry counts as expired.
func (m *Manager) stored() (Credential, bool, error) {
	token, ok, err := m.store.Get(KeyAccessToken)
	if err != nil {
		return Credential{}, false, fmt.Errorf("failed to read cached token: %w", err)
	}
	if !ok || token == "" {
		return Credential{}, false, nil
	}

	raw, _, err := m.store.Get(KeyExpiresAt)
	if err != nil {
		return Credential{}, false, fmt.Errorf("failed to read cached expiry: %w", err)
	}
	ms, _ := strconv.ParseInt(raw, 10, 64)

	cred := Credential{accessToken: token, expiresAt: time.UnixMilli(ms)}
	if !cred.ValidAt(m.now()) {
		return Credential{}, false, nil
	}

	m.mu.Lock()
	m.cred = cred
	m.state = Valid
	m.mu.Unlock()

	m.logger.Debug("promoted session token", "expires_at", cred.expiresAt)
	return cred, true, nil
}

// exchange trades code and the stored verifier for a token at the token endpoint.
func (m *Manager) exchange(ctx context.Context, loc Location, code string) Result {
	verifier, ok, err := m.store.Get(KeyVerifier)
	if err != nil {
		return failed(fmt.Errorf("failed to read verifier: %w", err))
	}
	if !ok || verifier == "" {
		return failed(&Error{Kind: MissingVerifier})
	}

	m.setState(ExchangingCode)
	m.logger.Debug("exchanging authorization code")

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.client)
	tok, err := m.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		m.setState(NoToken)
		return failed(exchangeError(err))
	}

	now := m.now()
	expiresIn := tokenLifetime(tok, now)
	if expiresIn <= 0 {
		m.setState(NoToken)
		return failed(&Error{Kind: ExchangeFailed, Err: errors.New("token response carried no usable expires_in")})
	}
	cred := Credential{accessToken: tok.AccessToken, expiresAt: now.Add(expiresIn)}

	m.mu.Lock()
	m.cred = cred
	m.state = Valid
	m.mu.Unlock()

	if err := m.persist(cred); err != nil {
		m.logger.Warn("failed to persist session token", "error", err)
	}
	if err := m.store.Delete(KeyVerifier); err != nil {
		m.logger.Warn("failed to delete used verifier", "error", err)
	}

	loc.Replace(StripQuery(loc.URL()))
	m.logger.Info("authorization complete", "expires_at", cred.expiresAt)

	return ready(cred)
}

// authorize stores a fresh verifier and sends the user agent to the authorization endpoint.
func (m *Manager) authorize(loc Location) Result {
	verifier, err := GenerateVerifier()
	if err != nil {
		return failed(err)
	}
	if err := m.store.Set(KeyVerifier, verifier); err != nil {
		return failed(fmt.Errorf("failed to store verifier: %w", err))
	}

	authURL := m.AuthorizationURL(Challenge(verifier))
	m.setState(Redirecting)
	m.logger.Debug("authorization required", "url", authURL)

	if loc != nil {
		m.navigate(loc, authURL)
	}

	return redirected(authURL)
}

func (m *Manager) navigate(loc Location, authURL string) {
	run := func() {
		if err := loc.Navigate(authURL); err != nil {
			m.logger.Warn("failed to navigate to authorization endpoint", "error", err)
		}
	}

	if m.delay < 0 {
		run()
		return
	}
	time.AfterFunc(m.delay, run)
}

func (m *Manager) persist(cred Credential) error {
	if err := m.store.Set(KeyAccessToken, cred.accessToken); err != nil {
		return err
	}
	return m.store.Set(KeyExpiresAt, strconv.FormatInt(cred.expiresAt.UnixMilli(), 10))
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func codeFrom(loc Location) string {
	if loc == nil {
		return ""
	}
	u := loc.URL()
	if u == nil {
		return ""
	}
	return u.Query().Get("code")
}

// tokenLifetime reads expires_in (seconds) from the raw token response, falling back to the parsed expiry.
func tokenLifetime(tok *oauth2.Token, now time.Time) time.Duration {
	var seconds float64
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		seconds = v
	case json.Number:
		seconds, _ = v.Float64()
	case string:
		seconds, _ = strconv.ParseFloat(v, 64)
	}
	if seconds > 0 {
		return time.Duration(seconds * float64(time.Second))
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry.Sub(now)
	}
	return 0
}

func exchangeError(err error) *Error {
	e := &Error{Kind: ExchangeFailed, Err: err}

	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		e.Body = strings.TrimSpace(string(re.Body))
		if re.Response != nil {
			e.Status = re.Response.StatusCode
		}
	}
	return e
}
