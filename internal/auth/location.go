package auth

import (
	"context"
	"net/url"
	"sync"
)

// Location is the user agent's landing URL.
//
// The [Manager] reads the authorization code from URL, rewrites the visible URL through Replace once the code is
// consumed, and sends the user agent to the authorization endpoint through Navigate.
type Location interface {
	URL() *url.URL
	Replace(u *url.URL)
	Navigate(authURL string) error
}

type locationKey struct{}

// WithLocation returns a copy of ctx carrying loc for [Manager.Acquire].
func WithLocation(ctx context.Context, loc Location) context.Context {
	return context.WithValue(ctx, locationKey{}, loc)
}

// LocationFrom returns the [Location] stored in ctx, if any.
func LocationFrom(ctx context.Context) (Location, bool) {
	loc, ok := ctx.Value(locationKey{}).(Location)
	return loc, ok && loc != nil
}

// StripQuery returns a copy of u without its query string, keeping the path and fragment.
func StripQuery(u *url.URL) *url.URL {
	stripped := *u
	stripped.RawQuery = ""
	stripped.ForceQuery = false
	return &stripped
}

// FixedLocation is a [Location] backed by a URL value, used by the CLI and tests.
type FixedLocation struct {
	mu        sync.Mutex
	current   *url.URL
	navigate  func(string) error
	navigated []string
}

// NewFixedLocation creates a [FixedLocation] at u. navigate may be nil, in which case navigations are only recorded.
func NewFixedLocation(u *url.URL, navigate func(string) error) *FixedLocation {
	return &FixedLocation{current: u, navigate: navigate}
}

// ParseLocation is [NewFixedLocation] for a raw URL.
func ParseLocation(raw string, navigate func(string) error) (*FixedLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return NewFixedLocation(u, navigate), nil
}

func (l *FixedLocation) URL() *url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := *l.current
	return &u
}

func (l *FixedLocation) Replace(u *url.URL) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = u
}

func (l *FixedLocation) Navigate(authURL string) error {
	l.mu.Lock()
	l.navigated = append(l.navigated, authURL)
	navigate := l.navigate
	l.mu.Unlock()

	if navigate == nil {
		return nil
	}
	return navigate(authURL)
}

// Navigations returns every URL passed to Navigate, oldest first.
func (l *FixedLocation) Navigations() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.navigated...)
}
