package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/jamlist/internal/formatter"
	"github.com/desertthunder/jamlist/internal/models"
	"github.com/desertthunder/jamlist/internal/shared"
	"github.com/desertthunder/jamlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

func playlistOptions(cmd *cli.Command) models.PlaylistOptions {
	return models.PlaylistOptions{
		Public:      models.Visibility(!cmd.Bool("private")),
		Description: cmd.String("description"),
	}
}

// lines returns args followed by the lines of the --file flag, when set.
func (r *Runner) lines(cmd *cli.Command, args []string) ([]string, error) {
	lines := append([]string{}, args...)

	path := cmd.String("file")
	if path == "" {
		return lines, nil
	}

	input := r.input
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		input = f
	}

	read, err := tasks.ReadQueries(input)
	if err != nil {
		return nil, err
	}
	return append(lines, read...), nil
}

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	id, err := r.spotify.CreatePlaylist(ctx, name, playlistOptions(cmd))
	if err != nil {
		return r.explain(err)
	}

	r.logger.Info("playlist created", "id", id, "name", name)
	return r.writePlain("%s Created playlist %q\n  ID: %s\n", styles.OK("✓"), name, id)
}

// PlaylistAdd appends URIs from the arguments and --file to an existing playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	id := args[0]
	uris, err := r.lines(cmd, args[1:])
	if err != nil {
		return err
	}
	if len(uris) == 0 {
		return fmt.Errorf("%w: no track URIs given", shared.ErrMissingArgument)
	}

	if err := r.spotify.AddTracksToPlaylist(ctx, id, uris); err != nil {
		return r.explain(err)
	}

	return r.writePlain("%s Added %d tracks to %s\n", styles.OK("✓"), len(uris), id)
}

// PlaylistSave creates a playlist and appends URIs from the arguments and --file to it.
func (r *Runner) PlaylistSave(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	name := strings.TrimSpace(args[0])
	uris, err := r.lines(cmd, args[1:])
	if err != nil {
		return err
	}

	id, err := r.spotify.SavePlaylist(ctx, name, uris, playlistOptions(cmd))
	if err != nil {
		if id != "" {
			r.writePlain("%s Playlist %s was created but not every track was added\n", styles.Warn("⚠"), id)
		}
		return r.explain(err)
	}

	return r.writePlain("%s Saved %q with %d tracks\n  ID: %s\n", styles.OK("✓"), name, len(uris), id)
}

// PlaylistBuild searches every query and saves the top hits, printing progress as queries finish.
func (r *Runner) PlaylistBuild(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	queries, err := r.lines(cmd, args[1:])
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	quiet := cmd.Bool("json") || cmd.String("output") != "" || cmd.String("format") != ""
	go func() {
		defer close(done)
		for update := range progress {
			if quiet {
				continue
			}
			r.writeProgress(update)
		}
	}()

	result, err := r.builder.Build(ctx, progress, tasks.BuildRequest{
		Name:    args[0],
		Queries: queries,
		Options: playlistOptions(cmd),
		DryRun:  cmd.Bool("dry-run"),
		Workers: cmd.Int("workers"),
	})
	close(progress)
	<-done

	if err != nil {
		if result != nil && result.PlaylistID != "" {
			r.writePlain("%s Playlist %s was created but not every track was added\n", styles.Warn("⚠"), result.PlaylistID)
		}
		return r.explain(err)
	}

	list := &formatter.TrackList{
		Title:       result.Name,
		Description: fmt.Sprintf("Built from %d queries", len(result.Matches)),
		Tracks:      result.Tracks,
	}
	if quiet {
		return r.writeTracks(cmd, list)
	}

	r.writePlainln("%s", styles.Title("Summary"))
	r.writePlain("Matched:    %d\n", len(result.Tracks))
	r.writePlain("Missing:    %d\n", result.Missing)
	r.writePlain("Duplicates: %d\n", result.Duplicates)
	for _, m := range result.Matches {
		if m.Track == nil {
			r.writePlain("  %s %s\n", styles.Warn("✗"), m.Query)
		}
	}

	if cmd.Bool("dry-run") {
		return r.writePlain("\n%s\n", styles.Help("Dry run: no playlist was created."))
	}
	return r.writePlain("\n%s Saved %q\n  ID: %s\n", styles.OK("✓"), result.Name, result.PlaylistID)
}

func (r *Runner) writeProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.SearchTracks:
		r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
	default:
		r.writePlain("→ %s\n", update.Message)
	}
}
