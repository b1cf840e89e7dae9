package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/jamlist/internal/formatter"
	"github.com/desertthunder/jamlist/internal/models"
	"github.com/desertthunder/jamlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search searches the catalog and prints, exports, or dumps the matching tracks.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	r.logger.Debug("searching tracks", "query", query)

	tracks, err := r.spotify.SearchTracks(ctx, query)
	if err != nil {
		return r.explain(err)
	}

	if limit := cmd.Int("limit"); limit > 0 && limit < len(tracks) {
		tracks = tracks[:limit]
	}

	list := &formatter.TrackList{
		Title:  fmt.Sprintf("Search: %s", query),
		Tracks: tracks,
	}
	return r.writeTracks(cmd, list)
}

// writeTracks honors the shared output flags: --output exports, --json dumps, and anything else prints a listing.
func (r *Runner) writeTracks(cmd *cli.Command, list *formatter.TrackList) error {
	if path := cmd.String("output"); path != "" || cmd.String("format") != "" {
		format, err := formatter.ParseFormat(cmd.String("format"))
		if err != nil {
			return err
		}
		if path == "" {
			data, err := formatter.Render(list, format)
			if err != nil {
				return err
			}
			return r.writePlain("%s", data)
		}

		written, err := formatter.WriteExport(list, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("tracks exported", "file", written, "tracks", len(list.Tracks))
		return r.writePlain("%s Exported %d tracks to %s\n", styles.OK("✓"), len(list.Tracks), written)
	}

	if cmd.Bool("json") {
		return r.writeJSON(list.Tracks, cmd.Bool("pretty"))
	}

	r.writePlain("%s (%d tracks)\n\n", styles.Title(list.Title), len(list.Tracks))
	for i, track := range list.Tracks {
		r.writeTrack(i+1, track)
	}
	return nil
}

func (r *Runner) writeTrack(n int, track models.Track) {
	r.writePlain("%d. %s\n", n, track)
	if track.Album != "" {
		r.writePlain("   Album: %s\n", track.Album)
	}
	r.writePlain("   URI: %s\n", styles.Help(track.URI))
	if track.PreviewURL != nil {
		r.writePlain("   Preview: %s\n", *track.PreviewURL)
	}
}

// Me prints the authorized user's profile.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	user, err := r.spotify.CurrentUser(ctx)
	if err != nil {
		return r.explain(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlainHeader(user.DisplayName)
	r.writePlain("ID:      %s\n", user.ID)
	if user.Email != "" {
		r.writePlain("Email:   %s\n", user.Email)
	}
	if user.Country != "" {
		r.writePlain("Country: %s\n", user.Country)
	}
	if user.Product != "" {
		r.writePlain("Plan:    %s\n", user.Product)
	}
	return nil
}
