package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/repositories"
	"github.com/desertthunder/jamlist/internal/server"
	"github.com/desertthunder/jamlist/internal/services"
	"github.com/desertthunder/jamlist/internal/shared"
	"github.com/desertthunder/jamlist/internal/tasks"
)

const (
	DefaultCookieName = "jamlist_session"
	DefaultMaxAge     = 24 * time.Hour
)

// Options configures an [App].
type Options struct {
	Auth      auth.Config
	APIURL    string  // Spotify Web API root, defaults to [services.DefaultBaseURL]
	ChunkRate float64 // track-append requests per second, 0 disables pacing

	Sessions   *repositories.SessionRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	CookieName string
	MaxAge     time.Duration
	Secure     bool // mark the session cookie Secure
	Now        func() time.Time
}

// FromConfig fills the Spotify and session settings of [Options] from the application configuration.
func FromConfig(c *shared.Config, sessions *repositories.SessionRepository, logger *log.Logger) Options {
	return Options{
		Auth:      auth.ConfigFrom(c),
		APIURL:    c.Spotify.APIURL,
		ChunkRate: c.Spotify.ChunkRate,
		Sessions:  sessions,
		Logger:    logger,
		MaxAge:    c.Session.MaxAge(),
	}
}

// App is the web application. It implements [http.Handler].
type App struct {
	opts   Options
	router *server.BasicRouter
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// session holds the per-cookie collaborators.
type session struct {
	id       string
	manager  *auth.Manager
	spotify  *services.SpotifyClient
	builder  *tasks.PlaylistBuilder
	lastSeen time.Time
}

// NewApp creates an [App] and registers its routes.
func NewApp(opts Options) *App {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	a := &App{
		opts:     opts,
		router:   server.NewBasicRouter(),
		logger:   opts.Logger,
		sessions: make(map[string]*session),
	}
	a.routes()
	return a
}

func (a *App) routes() {
	a.router.Use(server.Recoverer(a.logger), server.RequestLogger(a.logger))

	a.router.HandleFunc(http.MethodGet, "/{$}", a.handleIndex)
	a.router.HandleFunc(http.MethodGet, "/login", a.handleLogin)
	a.router.HandleFunc(http.MethodGet, "/callback", a.handleCallback)
	a.router.HandleFunc(http.MethodPost, "/logout", a.handleLogout)

	a.router.HandleFunc(http.MethodGet, "/api/status", a.handleStatus)
	a.router.HandleFunc(http.MethodGet, "/api/search", a.handleSearch)
	a.router.HandleFunc(http.MethodGet, "/api/me", a.handleMe)
	a.router.HandleFunc(http.MethodPost, "/api/playlists", a.handleSavePlaylist)
	a.router.HandleFunc(http.MethodPost, "/api/playlists/{id}/tracks", a.handleAddTracks)
	a.router.HandleFunc(http.MethodPost, "/api/build", a.handleBuild)
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// session returns the session named by the request cookie.
//
// Only ids this app issued are honoured: a cookie naming neither a live session nor stored values gets a fresh id.
func (a *App) session(w http.ResponseWriter, r *http.Request) *session {
	id := ""
	if c, err := r.Cookie(a.opts.CookieName); err == nil {
		id = c.Value
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[id]
	if !ok {
		if id == "" || !a.issued(id) {
			id = shared.GenerateID()
			http.SetCookie(w, a.cookie(id, int(a.opts.MaxAge.Seconds())))
		}
		s = a.newSession(id)
		a.sessions[id] = s
	}
	s.lastSeen = a.opts.Now()
	return s
}

// issued reports whether the store holds values for id.
func (a *App) issued(id string) bool {
	ok, err := a.opts.Sessions.Exists(id)
	if err != nil {
		a.logger.Warn("failed to look up session", "session", shortID(id), "error", err)
		return false
	}
	return ok
}

func (a *App) newSession(id string) *session {
	logger := shared.WithLogger(a.logger, "session", shortID(id))
	manager := auth.NewManager(a.opts.Auth, a.opts.Sessions.Scoped(id), auth.Options{
		HTTPClient:    a.opts.HTTPClient,
		Logger:        logger,
		Now:           a.opts.Now,
		NavigateDelay: -1,
	})
	spotify := services.NewSpotifyClient(manager, services.ClientOptions{
		BaseURL:    a.opts.APIURL,
		HTTPClient: a.opts.HTTPClient,
		Logger:     logger,
		Limiter:    services.ChunkLimiter(a.opts.ChunkRate),
	})

	return &session{
		id:      id,
		manager: manager,
		spotify: spotify,
		builder: tasks.NewPlaylistBuilder(spotify, logger),
	}
}

// endSession forgets the session and removes its stored values.
func (a *App) endSession(w http.ResponseWriter, s *session) error {
	a.mu.Lock()
	delete(a.sessions, s.id)
	a.mu.Unlock()

	http.SetCookie(w, a.cookie("", -1))

	if err := s.manager.Clear(); err != nil {
		return err
	}
	return a.opts.Sessions.Clear(s.id)
}

func (a *App) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     a.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Sweep drops sessions idle for longer than the max age, both in memory and in the store.
// It returns the number of stored rows removed.
func (a *App) Sweep() (int64, error) {
	cutoff := a.opts.Now().Add(-a.opts.MaxAge)

	a.mu.Lock()
	for id, s := range a.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(a.sessions, id)
		}
	}
	a.mu.Unlock()

	removed, err := a.opts.Sessions.PurgeBefore(cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		a.logger.Info("purged idle sessions", "rows", removed)
	}
	return removed, nil
}

// Active returns the number of sessions held in memory.
func (a *App) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
