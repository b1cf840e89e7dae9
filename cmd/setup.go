package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/jamlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file when it is missing and reports the session store.
//
// The session database is opened and migrated before any command runs, so there is nothing left to initialize.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = cmd.String("config")
	}

	if _, err := os.Stat(path); err == nil {
		r.logger.Info("config file exists", "path", path)
		r.writePlain("%s Config found at %s\n", styles.OK("✓"), path)
	} else {
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("%s Created %s\n", styles.OK("✓"), path)
	}

	count := 0
	if r.sessions != nil {
		n, err := r.sessions.Count()
		if err != nil {
			return err
		}
		count = n
	}
	r.writePlain("%s Session store ready at %s (%d sessions)\n", styles.OK("✓"), r.config.Session.Path, count)

	if err := r.config.Validate(); err != nil {
		r.writePlainln("%s %v", styles.Warn("⚠"), err)
		r.writePlain("%s\n", styles.Help("Set credentials.spotify.client_id in "+path+", then run `jamlist auth login`."))
	}
	return nil
}
