package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/services"
	"github.com/desertthunder/jamlist/internal/shared"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error        string `json:"error"`
	Kind         string `json:"kind,omitempty"`
	Status       int    `json:"status,omitempty"` // upstream status
	AuthorizeURL string `json:"authorize_url,omitempty"`
	PlaylistID   string `json:"id,omitempty"` // set when a playlist was created before the failure
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps an error to the response status and body.
//
//   - no token: 401 with the authorization URL
//   - token endpoint failures: 401
//   - invalid input: 400
//   - Spotify API failures: 502
//   - anything else: 500
func errorStatus(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error()}

	var apiErr *services.APIError
	var authErr *auth.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.Kind == services.NoToken:
		body.Kind = apiErr.Kind.String()
		body.AuthorizeURL = apiErr.AuthURL
		return http.StatusUnauthorized, body
	case errors.As(err, &authErr):
		body.Kind = authErr.Kind.String()
		body.Status = authErr.Status
		return http.StatusUnauthorized, body
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest, body
	case errors.As(err, &apiErr):
		body.Kind = apiErr.Kind.String()
		body.Status = apiErr.Status
		return http.StatusBadGateway, body
	default:
		return http.StatusInternalServerError, body
	}
}

func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}
