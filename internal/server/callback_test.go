package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/shared"
)

func newTokenEndpoint(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"TOKEN","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func receive(t *testing.T, h *CallbackHandler) error {
	t.Helper()
	select {
	case err := <-h.Result():
		return err
	case <-time.After(time.Second):
		t.Fatal("no callback result delivered")
		return nil
	}
}

func TestCallbackHandler(t *testing.T) {
	t.Run("Exchanges Code", func(t *testing.T) {
		tokenSrv := newTokenEndpoint(t)
		store := auth.NewMemoryStore()
		store.Set(auth.KeyVerifier, "V")
		m := auth.NewManager(auth.Config{ClientID: "c", TokenURL: tokenSrv.URL}, store, auth.Options{})

		h := NewCallbackHandler("/callback", CompleteWith(m))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://127.0.0.1:3000/callback?code=ABC", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected success page")
		}
		if err := receive(t, h); err != nil {
			t.Errorf("expected nil result, got %v", err)
		}
		if m.State() != auth.Valid {
			t.Errorf("expected manager to hold a valid token, got %v", m.State())
		}
	})

	t.Run("Denied", func(t *testing.T) {
		h := NewCallbackHandler("", func(context.Context, *url.URL) error {
			t.Error("complete should not run when access is denied")
			return nil
		})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if err := receive(t, h); !errors.Is(err, shared.ErrAuthDenied) {
			t.Errorf("expected denied error, got %v", err)
		}
	})

	t.Run("Missing Code", func(t *testing.T) {
		h := NewCallbackHandler("", func(context.Context, *url.URL) error { return nil })
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if err := receive(t, h); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})

	t.Run("Missing Verifier", func(t *testing.T) {
		m := auth.NewManager(auth.Config{TokenURL: "http://127.0.0.1:1"}, auth.NewMemoryStore(), auth.Options{})
		h := NewCallbackHandler("", CompleteWith(m))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=ABC", nil))

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "not started here") {
			t.Error("expected missing verifier message")
		}
		if err := receive(t, h); !errors.Is(err, shared.ErrMissingVerifier) {
			t.Errorf("expected missing verifier error, got %v", err)
		}
	})

	t.Run("Only Once", func(t *testing.T) {
		calls := 0
		h := NewCallbackHandler("", func(context.Context, *url.URL) error {
			calls++
			return nil
		})

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=A", nil))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=B", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for the second callback, got %d", rec.Code)
		}
		if calls != 1 {
			t.Errorf("expected one completion, got %d", calls)
		}
	})

	t.Run("Landing URL", func(t *testing.T) {
		var got *url.URL
		h := NewCallbackHandler("", func(_ context.Context, u *url.URL) error {
			got = u
			return nil
		})
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://127.0.0.1:3000/callback?code=ABC", nil))

		if got == nil || got.String() != "http://127.0.0.1:3000/callback?code=ABC" {
			t.Errorf("unexpected landing URL %v", got)
		}
	})

	t.Run("Escapes Page Content", func(t *testing.T) {
		h := NewCallbackHandler("", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?error=%3Cscript%3E", nil))

		if strings.Contains(rec.Body.String(), "<script>") {
			t.Error("error parameter should be escaped")
		}
	})
}
