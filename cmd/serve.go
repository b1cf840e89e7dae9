package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/jamlist/internal/server"
	"github.com/desertthunder/jamlist/internal/shared"
	"github.com/desertthunder/jamlist/internal/web"
	"github.com/urfave/cli/v3"
)

const sweepInterval = time.Hour

// Serve runs the web app until the process is interrupted, sweeping idle sessions every hour.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: session store not initialized", shared.ErrInvalidConfig)
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	opts := web.FromConfig(r.config, r.sessions, shared.WithLogger(r.logger, "component", "web"))
	opts.HTTPClient = r.httpClient
	app := web.NewApp(opts)

	srv := server.NewServer(addr, app, r.logger)
	if err := srv.Start(); err != nil {
		return err
	}

	r.writePlain("%s Serving on http://%s\n", styles.OK("✓"), srv.Addr())
	r.writePlain("%s\n", styles.Help("Open /login to connect your Spotify account. Press Ctrl+C to stop."))

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := app.Sweep(); err != nil {
				r.logger.Warn("session sweep failed", "error", err)
			}
		case err, ok := <-srv.Errors():
			if ok && err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
			r.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	}
}
