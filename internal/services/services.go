// package services defines the Spotify Web API client and the interfaces it is consumed through
package services

import (
	"context"

	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/models"
)

// TokenSource hands out bearer credentials. [*auth.Manager] implements it.
type TokenSource interface {
	Acquire(ctx context.Context) auth.Result
}

// Service is the playlist-building surface of the Spotify Web API.
type Service interface {
	// SearchTracks returns the catalog tracks matching query, best match first.
	SearchTracks(ctx context.Context, query string) ([]models.Track, error)

	// CurrentUser retrieves the authorized user's profile.
	CurrentUser(ctx context.Context) (*SpotifyUser, error)

	// CurrentUserID returns the authorized user's id.
	CurrentUserID(ctx context.Context) (string, error)

	// CreatePlaylist creates an empty playlist and returns its id.
	CreatePlaylist(ctx context.Context, name string, opts models.PlaylistOptions) (string, error)

	// AddTracksToPlaylist appends track URIs to an existing playlist.
	AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error

	// SavePlaylist creates a playlist holding uris.
	// On a partial failure the created id is returned with the error.
	SavePlaylist(ctx context.Context, name string, uris []string, opts models.PlaylistOptions) (string, error)
}

var (
	_ TokenSource = (*auth.Manager)(nil)
	_ Service     = (*SpotifyClient)(nil)
)
