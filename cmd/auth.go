package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/server"
	"github.com/desertthunder/jamlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the PKCE authorization flow.
//
// Starts a callback server on the redirect URI, lets the token manager send the browser to Spotify, and waits for the
// redirect. The callback exchanges the code through the same manager, which caches the token in the session store.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	if cmd.Bool("force") {
		if err := r.manager.Clear(); err != nil {
			return err
		}
	} else if r.manager.State() == auth.Valid {
		r.writePlain("%s Already authorized. Use --force to authorize again.\n", styles.OK("✓"))
		return nil
	}

	redirect, err := url.Parse(r.config.Credentials.Spotify.RedirectURI)
	if err != nil || redirect.Host == "" {
		return fmt.Errorf("%w: redirect_uri %q is not an absolute URL", shared.ErrInvalidConfig, r.config.Credentials.Spotify.RedirectURI)
	}

	callback := server.NewCallbackHandler(redirect.Path, server.CompleteWith(r.manager))
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(callback)

	srv := server.NewServer(redirect.Host, router, r.logger)
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	loc := auth.NewFixedLocation(redirect, r.navigate)
	res := r.manager.Acquire(auth.WithLocation(ctx, loc))
	switch res.Outcome {
	case auth.Ready:
		r.writePlain("%s Already authorized\n", styles.OK("✓"))
		return nil
	case auth.Failed:
		return fmt.Errorf("failed to start authorization: %w", res.Err)
	}

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	r.writePlain("%s\n%s\n\n", styles.Help("If it does not open, visit:"), res.AuthURL)
	r.writePlain("→ Waiting for authorization (%v timeout)...\n", r.loginTimeout)

	timeout := time.NewTimer(r.loginTimeout)
	defer timeout.Stop()

	select {
	case err := <-callback.Result():
		if err != nil {
			return fmt.Errorf("authorization failed: %w", err)
		}
	case err, ok := <-srv.Errors():
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return fmt.Errorf("callback server stopped before authorization completed")
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, r.loginTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	r.writePlainln("%s Authorization successful", styles.OK("✓"))
	r.writePlain("You can now use: jamlist search <query>\n")
	return nil
}

// navigate opens the browser. Failures are reported and the printed URL is the fallback.
func (r *Runner) navigate(authURL string) error {
	if err := r.openBrowser(authURL); err != nil {
		r.writePlain("%s Could not open browser automatically.\n", styles.Warn("⚠"))
		return err
	}
	return nil
}

type authStatus struct {
	State     string `json:"state"`
	Session   string `json:"session"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// AuthStatus reports the state of the cached token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status := authStatus{State: r.manager.State().String(), Session: r.config.Session.Name}
	if r.manager.State() == auth.Valid {
		if res := r.manager.Acquire(ctx); res.Outcome == auth.Ready {
			status.ExpiresAt = res.Credential.ExpiresAt().Format(time.RFC3339)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, false)
	}

	r.writePlain("Session: %s\n", status.Session)
	switch status.State {
	case auth.Valid.String():
		r.writePlain("State:   %s\n", styles.OK(status.State))
		r.writePlain("Expires: %s\n", status.ExpiresAt)
	case auth.Expired.String():
		r.writePlain("State:   %s\n", styles.Warn(status.State))
		r.writePlain("%s\n", styles.Help("Run `jamlist auth login` to authorize again."))
	default:
		r.writePlain("State:   %s\n", styles.Err(status.State))
		r.writePlain("%s\n", styles.Help("Run `jamlist auth login` to authorize."))
	}
	return nil
}

// AuthLogout ends the CLI session, removing every stored value.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.manager.Clear(); err != nil {
		return err
	}
	if r.sessions != nil {
		if err := r.sessions.Clear(r.config.Session.Name); err != nil {
			return err
		}
	}
	r.logger.Info("session cleared", "session", r.config.Session.Name)
	return r.writePlain("%s Logged out\n", styles.OK("✓"))
}
