package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/models"
	"github.com/desertthunder/jamlist/internal/server"
	"github.com/desertthunder/jamlist/internal/shared"
	"github.com/desertthunder/jamlist/internal/tasks"
)

type statusResponse struct {
	State     string `json:"state"`
	ExpiresAt int64  `json:"expires_at,omitempty"` // epoch milliseconds
}

type savePlaylistRequest struct {
	Name        string   `json:"name"`
	URIs        []string `json:"uris"`
	Public      *bool    `json:"public"`
	Description string   `json:"description"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

type buildRequest struct {
	Name        string   `json:"name"`
	Queries     []string `json:"queries"`
	Public      *bool    `json:"public"`
	Description string   `json:"description"`
	DryRun      bool     `json:"dry_run"`
}

type buildResponse struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name"`
	Tracks     []models.Track `json:"tracks"`
	Missing    []string       `json:"missing"`
	Duplicates int            `json:"duplicates"`
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if s.manager.State() == auth.Valid {
		server.RenderPage(w, http.StatusOK, "jamlist", "Connected to Spotify.")
		return
	}
	server.RenderPage(w, http.StatusOK, "jamlist", "Not connected. Visit /login to connect your Spotify account.")
}

// handleLogin sends the browser to the authorization endpoint, or home when the session already has a token.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	res := s.manager.Acquire(r.Context())
	switch res.Outcome {
	case auth.Ready:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case auth.AuthorizationRedirectIssued:
		http.Redirect(w, r, res.AuthURL, http.StatusFound)
	default:
		a.logger.Error("failed to start authorization", "error", res.Err)
		server.RenderPage(w, http.StatusInternalServerError, "Authorization Failed", "Could not start authorization.")
	}
}

// handleCallback exchanges the authorization code on the landing URL and redirects home.
func (a *App) handleCallback(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	q := r.URL.Query()
	if denied := q.Get("error"); denied != "" {
		a.logger.Warn("authorization denied", "reason", denied)
		server.RenderPage(w, http.StatusBadRequest, "Authorization Failed", "Spotify reported: "+denied)
		return
	}
	if q.Get("code") == "" {
		server.RenderPage(w, http.StatusBadRequest, "Authorization Failed", "The callback did not include an authorization code.")
		return
	}

	loc := auth.NewFixedLocation(server.LandingURL(r), nil)
	res := s.manager.Acquire(auth.WithLocation(r.Context(), loc))

	switch res.Outcome {
	case auth.Ready:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case auth.AuthorizationRedirectIssued:
		http.Redirect(w, r, res.AuthURL, http.StatusFound)
	default:
		status, _ := errorStatus(res.Err)
		a.logger.Warn("authorization code exchange failed", "error", res.Err)
		server.RenderPage(w, status, "Authorization Failed", "The authorization code could not be exchanged. Visit /login to try again.")
	}
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	if err := a.endSession(w, s); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{State: auth.NoToken.String()})
}

func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	resp := statusResponse{State: s.manager.State().String()}
	if resp.State == auth.Valid.String() {
		if res := s.manager.Acquire(r.Context()); res.Outcome == auth.Ready {
			resp.ExpiresAt = res.Credential.ExpiresAt().UnixMilli()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		a.writeError(w, r, fmt.Errorf("%w: q is required", shared.ErrMissingArgument))
		return
	}

	tracks, err := s.spotify.SearchTracks(r.Context(), query)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (a *App) handleMe(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	user, err := s.spotify.CurrentUser(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleSavePlaylist creates a playlist and adds the given tracks.
//
// When the playlist is created but adding fails, the response is 502 and still carries the playlist id.
func (a *App) handleSavePlaylist(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	var req savePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		a.writeError(w, r, fmt.Errorf("%w: name is required", shared.ErrMissingArgument))
		return
	}

	opts := models.PlaylistOptions{Public: req.Public, Description: req.Description}
	id, err := s.spotify.SavePlaylist(r.Context(), req.Name, req.URIs, opts)
	if err != nil {
		status, body := errorStatus(err)
		body.PlaylistID = id
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusCreated, models.Playlist{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Public:      opts.IsPublic(),
		URIs:        nonNil(req.URIs),
	})
}

func (a *App) handleAddTracks(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	var req addTracksRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	if err := s.spotify.AddTracksToPlaylist(r.Context(), id, req.URIs); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "added": len(req.URIs)})
}

// handleBuild searches each query and saves the top hits as a playlist (or only searches on dry_run).
func (a *App) handleBuild(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	var req buildRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	result, err := s.builder.Build(r.Context(), nil, tasks.BuildRequest{
		Name:    req.Name,
		Queries: req.Queries,
		Options: models.PlaylistOptions{Public: req.Public, Description: req.Description},
		DryRun:  req.DryRun,
	})
	if err != nil {
		status, body := errorStatus(err)
		if result != nil {
			body.PlaylistID = result.PlaylistID
		}
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, toBuildResponse(result))
}

func toBuildResponse(result *tasks.BuildResult) buildResponse {
	resp := buildResponse{
		ID:         result.PlaylistID,
		Name:       result.Name,
		Tracks:     nonNil(result.Tracks),
		Missing:    []string{},
		Duplicates: result.Duplicates,
	}
	for _, m := range result.Matches {
		if m.Track == nil {
			resp.Missing = append(resp.Missing, m.Query)
		}
	}
	return resp
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
