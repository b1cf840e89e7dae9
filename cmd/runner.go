package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/repositories"
	"github.com/desertthunder/jamlist/internal/services"
	"github.com/desertthunder/jamlist/internal/shared"
	"github.com/desertthunder/jamlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultLoginTimeout = 2 * time.Minute

// tokenManager is the part of [auth.Manager] the commands use.
type tokenManager interface {
	Acquire(ctx context.Context) auth.Result
	State() auth.State
	Clear() error
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies left nil in [RunnerOpts] are built from configuration by [Runner.setup] before a command runs.
type Runner struct {
	config       *shared.Config
	configPath   string
	logger       *log.Logger
	output       io.Writer
	input        io.Reader
	httpClient   *http.Client
	db           *sql.DB
	sessions     *repositories.SessionRepository
	manager      tokenManager
	spotify      services.Service
	builder      tasks.Builder
	openBrowser  func(string) error
	loginTimeout time.Duration
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config       *shared.Config
	ConfigPath   string
	Logger       *log.Logger
	Output       io.Writer
	Input        io.Reader // read for --file -
	HTTPClient   *http.Client
	Sessions     *repositories.SessionRepository
	Manager      tokenManager
	Spotify      services.Service
	Builder      tasks.Builder
	OpenBrowser  func(string) error
	LoginTimeout time.Duration
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = defaultLoginTimeout
	}

	return &Runner{
		config:       opts.Config,
		configPath:   opts.ConfigPath,
		logger:       opts.Logger,
		output:       opts.Output,
		input:        opts.Input,
		httpClient:   opts.HTTPClient,
		sessions:     opts.Sessions,
		manager:      opts.Manager,
		spotify:      opts.Spotify,
		builder:      opts.Builder,
		openBrowser:  opts.OpenBrowser,
		loginTimeout: opts.LoginTimeout,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, meCommand, playlistCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// setup loads configuration and wires the session store, token manager, Spotify client, and playlist builder.
func (r *Runner) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		r.configPath = cmd.String("config")
		config, err := shared.LoadConfigOrDefault(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if cmd.Bool("debug") {
		level = "debug"
	}
	if err := shared.SetLogLevel(r.logger, level); err != nil {
		r.logger.Warn("ignoring log level", "error", err)
	}

	if r.sessions == nil {
		db, err := shared.OpenSessionDatabase(r.config.Session.Path)
		if err != nil {
			return ctx, fmt.Errorf("failed to open session store: %w", err)
		}
		r.db = db
		r.sessions = repositories.NewSessionRepository(db)
	}

	if r.manager == nil {
		r.manager = auth.NewManager(auth.ConfigFrom(r.config), r.sessions.Scoped(r.config.Session.Name), auth.Options{
			HTTPClient: r.httpClient,
			Logger:     shared.WithLogger(r.logger, "component", "auth"),
		})
	}

	if r.spotify == nil {
		r.spotify = services.NewSpotifyClient(r.manager, services.ClientOptions{
			BaseURL:    r.config.Spotify.APIURL,
			HTTPClient: r.httpClient,
			Logger:     shared.WithLogger(r.logger, "component", "spotify"),
			Limiter:    services.ChunkLimiter(r.config.Spotify.ChunkRate),
		})
	}

	if r.builder == nil {
		r.builder = tasks.NewPlaylistBuilder(r.spotify, shared.WithLogger(r.logger, "component", "builder"))
	}

	return ctx, nil
}

// teardown closes the session database opened by [Runner.setup].
func (r *Runner) teardown(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// explain rewrites a missing-token error into a hint to log in.
func (r *Runner) explain(err error) error {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.Kind == services.NoToken {
		return fmt.Errorf("%w: run `jamlist auth login` first", shared.ErrNoToken)
	}
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", styles.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
