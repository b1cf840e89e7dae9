// Spotify Web API client
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/models"
	"github.com/desertthunder/jamlist/internal/shared"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Spotify Web API root.
	DefaultBaseURL = "https://api.spotify.com/v1"
	// MaxTracksPerRequest is the most URIs the add-items endpoint accepts at once.
	MaxTracksPerRequest = 100
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	PreviewURL *string         `json:"preview_url"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a simplified artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

type searchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Public      bool   `json:"public"`
	Description string `json:"description"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

// ClientOptions holds the optional collaborators of a [SpotifyClient].
type ClientOptions struct {
	BaseURL    string        // defaults to [DefaultBaseURL]
	HTTPClient *http.Client  // defaults to [http.DefaultClient]
	Logger     *log.Logger   // defaults to a discarding logger
	Limiter    *rate.Limiter // paces track chunks when set
}

// SpotifyClient calls the Spotify Web API on behalf of the current session.
//
// Every operation asks its [TokenSource] for a credential first, so a missing token surfaces as an [APIError] of
// kind [NoToken] carrying the authorization URL.
type SpotifyClient struct {
	tokens     TokenSource
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
	limiter    *rate.Limiter
}

// NewSpotifyClient creates a [SpotifyClient] authorized by tokens.
func NewSpotifyClient(tokens TokenSource, opts ClientOptions) *SpotifyClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	return &SpotifyClient{
		tokens:     tokens,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		limiter:    opts.Limiter,
	}
}

// ChunkLimiter builds the limiter for [ClientOptions.Limiter] from a requests-per-second rate.
// A rate of zero or less disables pacing and returns nil.
func ChunkLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// SearchTracks searches the catalog for tracks matching query.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	params := url.Values{}
	params.Set("type", "track")
	params.Set("q", query)

	var response searchResponse
	if err := c.doRequest(ctx, SearchFailed, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}

	return NormalizeTracks(response.Tracks.Items), nil
}

// CurrentUser retrieves the profile of the authorized user.
func (c *SpotifyClient) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := c.doRequest(ctx, ProfileFailed, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUserID returns the Spotify user id of the authorized user.
func (c *SpotifyClient) CurrentUserID(ctx context.Context) (string, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// CreatePlaylist creates an empty playlist owned by the authorized user and returns its id.
func (c *SpotifyClient) CreatePlaylist(ctx context.Context, name string, opts models.PlaylistOptions) (string, error) {
	body := createPlaylistRequest{
		Name:        name,
		Public:      opts.IsPublic(),
		Description: opts.Description,
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.doRequest(ctx, CreateFailed, http.MethodPost, "/me/playlists", body, &created); err != nil {
		return "", err
	}

	c.logger.Debug("created playlist", "id", created.ID, "name", name, "public", body.Public)
	return created.ID, nil
}

// AddTracksToPlaylist appends uris to a playlist in order, [MaxTracksPerRequest] at a time.
//
// Chunks are sent one after another and the first failure stops the rest. Chunks already appended stay in the
// playlist. An empty uris is a no-op.
func (c *SpotifyClient) AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	chunks := shared.Chunk(uris, MaxTracksPerRequest)

	for i, chunk := range chunks {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return &APIError{Kind: AddFailed, Err: err}
			}
		}

		if err := c.doRequest(ctx, AddFailed, http.MethodPost, endpoint, addTracksRequest{URIs: chunk}, nil); err != nil {
			c.logger.Warn("failed to append tracks", "playlist", playlistID, "chunk", i+1, "of", len(chunks), "error", err)
			return err
		}
		c.logger.Debug("appended tracks", "playlist", playlistID, "chunk", i+1, "of", len(chunks), "count", len(chunk))
	}

	return nil
}

// SavePlaylist creates a playlist and fills it with uris.
//
// When creation succeeds but adding fails, the new playlist id is returned along with the error.
func (c *SpotifyClient) SavePlaylist(ctx context.Context, name string, uris []string, opts models.PlaylistOptions) (string, error) {
	id, err := c.CreatePlaylist(ctx, name, opts)
	if err != nil {
		return "", err
	}
	if err := c.AddTracksToPlaylist(ctx, id, uris); err != nil {
		return id, err
	}
	return id, nil
}

// authorization returns the Authorization header value for the next request.
func (c *SpotifyClient) authorization(ctx context.Context) (string, error) {
	res := c.tokens.Acquire(ctx)
	switch res.Outcome {
	case auth.Ready:
		return res.Credential.Header(), nil
	case auth.AuthorizationRedirectIssued:
		return "", &APIError{Kind: NoToken, AuthURL: res.AuthURL}
	default:
		return "", res.Err
	}
}

// doRequest performs an authenticated request to the Web API, decoding a JSON response into result when non-nil.
func (c *SpotifyClient) doRequest(ctx context.Context, kind APIErrorKind, method, endpoint string, body, result any) error {
	header, err := c.authorization(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: kind, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return &APIError{Kind: kind, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", header)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: kind, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return &APIError{Kind: kind, Status: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &APIError{Kind: kind, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	return nil
}
