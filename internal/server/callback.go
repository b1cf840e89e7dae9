package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"sync"

	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/shared"
)

// CompleteFunc finishes authorization from the landing URL of the OAuth redirect.
type CompleteFunc func(ctx context.Context, landing *url.URL) error

type acquirer interface {
	Acquire(ctx context.Context) auth.Result
}

// CompleteWith returns a [CompleteFunc] that lets tokens exchange the code found on the landing URL.
func CompleteWith(tokens acquirer) CompleteFunc {
	return func(ctx context.Context, landing *url.URL) error {
		res := tokens.Acquire(auth.WithLocation(ctx, auth.NewFixedLocation(landing, nil)))
		switch res.Outcome {
		case auth.Ready:
			return nil
		case auth.Failed:
			return res.Err
		default:
			return fmt.Errorf("%w: authorization code was not accepted", shared.ErrExchangeFailed)
		}
	}
}

// CallbackHandler receives the OAuth redirect of a single login.
//
// The first request is handed to the [CompleteFunc] and its outcome is delivered on [CallbackHandler.Result]. Later
// requests are rejected.
type CallbackHandler struct {
	path     string
	complete CompleteFunc
	results  chan error
	once     sync.Once
	mu       sync.Mutex
	hit      bool
}

// NewCallbackHandler creates a [CallbackHandler] serving path.
func NewCallbackHandler(path string, complete CompleteFunc) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		path:     path,
		complete: complete,
		results:  make(chan error, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"GET " + h.path}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	q := r.URL.Query()
	if denied := q.Get("error"); denied != "" {
		h.Send(fmt.Errorf("%w: %s", shared.ErrAuthDenied, denied))
		RenderPage(w, http.StatusBadRequest, "Authorization Failed", "Spotify reported: "+denied)
		return
	}
	if q.Get("code") == "" {
		h.Send(fmt.Errorf("%w: callback has no authorization code", shared.ErrInvalidInput))
		RenderPage(w, http.StatusBadRequest, "Authorization Failed", "The callback did not include an authorization code.")
		return
	}

	if err := h.complete(r.Context(), LandingURL(r)); err != nil {
		h.Send(err)
		RenderPage(w, http.StatusBadGateway, "Authorization Failed", failureMessage(err))
		return
	}

	h.Send(nil)
	RenderPage(w, http.StatusOK, "✓ Authorization Successful", "You can close this window and return to the terminal.")
}

// Send delivers the login outcome (only once).
func (h *CallbackHandler) Send(err error) {
	h.once.Do(func() {
		h.results <- err
		close(h.results)
	})
}

// Result receives exactly one outcome, nil on success, and is then closed.
func (h *CallbackHandler) Result() <-chan error {
	return h.results
}

// LandingURL rebuilds the absolute URL the user agent requested.
func LandingURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	return &u
}

func failureMessage(err error) string {
	var authErr *auth.Error
	if errors.As(err, &authErr) && authErr.Kind == auth.MissingVerifier {
		return "This login was not started here. Start it again from the terminal."
	}
	return "The authorization code could not be exchanged for a token."
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>%[1]s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #121212; }
        .card { text-align: center; background: #181818; padding: 2rem 3rem; border-radius: 8px; }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #b3b3b3; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%[1]s</h1>
        <p>%[2]s</p>
    </div>
</body>
</html>
`

// RenderPage writes a minimal status page.
func RenderPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, pageTemplate, html.EscapeString(title), html.EscapeString(message))
}
