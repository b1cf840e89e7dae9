package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/jamlist/internal/shared"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=SECRET", nil))

	out := buf.String()
	if !strings.Contains(out, "/callback") || !strings.Contains(out, "418") {
		t.Errorf("expected path and status in log, got %q", out)
	}
	if strings.Contains(out, "SECRET") {
		t.Error("query string should not be logged")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status to pass through, got %d", rec.Code)
	}
}

func TestRecoverer(t *testing.T) {
	handler := Recoverer(shared.DiscardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestServer(t *testing.T) {
	router := NewBasicRouter()
	router.HandleFunc(http.MethodGet, "/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	srv := NewServer("127.0.0.1:0", router, shared.DiscardLogger())
	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	t.Run("Port In Use", func(t *testing.T) {
		other := NewServer(srv.Addr(), router, shared.DiscardLogger())
		if err := other.Start(); err == nil {
			other.Shutdown(context.Background())
			t.Error("expected bind error for an address in use")
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("failed to shut down: %v", err)
	}
	if err, ok := <-srv.Errors(); ok {
		t.Errorf("expected errors channel to close cleanly, got %v", err)
	}
}
