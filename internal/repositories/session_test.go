package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/jamlist/internal/auth"
	"github.com/desertthunder/jamlist/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestSessionRepository(t *testing.T) {
	t.Run("Set And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Set("s1", auth.KeyAccessToken, "token-1"); err != nil {
			t.Fatalf("failed to set value: %v", err)
		}

		value, ok, err := repo.Get("s1", auth.KeyAccessToken)
		if err != nil {
			t.Fatalf("failed to get value: %v", err)
		}
		if !ok || value != "token-1" {
			t.Errorf("expected token-1, got %q (ok=%v)", value, ok)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		value, ok, err := repo.Get("s1", "nope")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok || value != "" {
			t.Errorf("expected missing value, got %q", value)
		}
	})

	t.Run("Set Overwrites", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		repo.Set("s1", auth.KeyVerifier, "first")
		if err := repo.Set("s1", auth.KeyVerifier, "second"); err != nil {
			t.Fatalf("failed to overwrite value: %v", err)
		}

		value, _, _ := repo.Get("s1", auth.KeyVerifier)
		if value != "second" {
			t.Errorf("expected second, got %q", value)
		}
	})

	t.Run("Sessions Are Isolated", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		a, b := repo.Scoped("a"), repo.Scoped("b")

		a.Set(auth.KeyAccessToken, "token-a")
		if _, ok, _ := b.Get(auth.KeyAccessToken); ok {
			t.Error("session b should not see session a's token")
		}

		b.Set(auth.KeyAccessToken, "token-b")
		if v, _, _ := a.Get(auth.KeyAccessToken); v != "token-a" {
			t.Errorf("expected token-a, got %q", v)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		store := NewSessionRepository(db).Scoped("s1")
		store.Set(auth.KeyVerifier, "v")

		if err := store.Delete(auth.KeyVerifier); err != nil {
			t.Fatalf("failed to delete value: %v", err)
		}
		if _, ok, _ := store.Get(auth.KeyVerifier); ok {
			t.Error("value should be gone after delete")
		}
		if err := store.Delete(auth.KeyVerifier); err != nil {
			t.Errorf("deleting a missing key should not fail, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		repo.Set("s1", auth.KeyAccessToken, "t")
		repo.Set("s1", auth.KeyExpiresAt, "1")
		repo.Set("s2", auth.KeyAccessToken, "t2")

		if err := repo.Clear("s1"); err != nil {
			t.Fatalf("failed to clear session: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count sessions: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 remaining session, got %d", count)
		}
		if _, ok, _ := repo.Get("s2", auth.KeyAccessToken); !ok {
			t.Error("other sessions should survive a clear")
		}
	})

	t.Run("Exists", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if ok, err := repo.Exists("s1"); err != nil || ok {
			t.Fatalf("expected unknown session, got %v %v", ok, err)
		}

		repo.Set("s1", auth.KeyVerifier, "v")
		if ok, err := repo.Exists("s1"); err != nil || !ok {
			t.Errorf("expected s1 to exist, got %v %v", ok, err)
		}

		repo.Clear("s1")
		if ok, _ := repo.Exists("s1"); ok {
			t.Error("expected cleared session to be gone")
		}
	})

	t.Run("PurgeBefore", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		start := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
		now := start
		repo.now = func() time.Time { return now }

		repo.Set("stale", auth.KeyAccessToken, "t")
		repo.Set("stale", auth.KeyExpiresAt, "1")
		repo.Set("active", auth.KeyAccessToken, "t")

		now = start.Add(48 * time.Hour)
		repo.Set("active", auth.KeyVerifier, "v")

		deleted, err := repo.PurgeBefore(start.Add(24 * time.Hour))
		if err != nil {
			t.Fatalf("failed to purge sessions: %v", err)
		}
		if deleted != 2 {
			t.Errorf("expected 2 rows deleted, got %d", deleted)
		}
		if _, ok, _ := repo.Get("stale", auth.KeyAccessToken); ok {
			t.Error("stale session should be purged")
		}
		if _, ok, _ := repo.Get("active", auth.KeyAccessToken); !ok {
			t.Error("a session written recently should keep all of its values")
		}
	})

	t.Run("Manager Round Trip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		store := repo.Scoped("cli")
		store.Set(auth.KeyAccessToken, "persisted")
		store.Set(auth.KeyExpiresAt, "99999999999999")

		m := auth.NewManager(auth.Config{}, repo.Scoped("cli"), auth.Options{})
		if got := m.State(); got != auth.Valid {
			t.Errorf("expected valid state from stored token, got %v", got)
		}

		if err := m.Clear(); err != nil {
			t.Fatalf("failed to clear manager: %v", err)
		}
		if count, _ := repo.Count(); count != 0 {
			t.Errorf("expected no sessions after clear, got %d", count)
		}
	})
}

func TestSessionRepositoryErrors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	db.Close()

	if _, _, err := repo.Get("s1", "k"); err == nil {
		t.Error("expected error from closed database on Get")
	}
	if err := repo.Set("s1", "k", "v"); err == nil {
		t.Error("expected error from closed database on Set")
	}
	if err := repo.Delete("s1", "k"); err == nil {
		t.Error("expected error from closed database on Delete")
	}
	if err := repo.Clear("s1"); err == nil {
		t.Error("expected error from closed database on Clear")
	}
	if _, err := repo.Exists("s1"); err == nil {
		t.Error("expected error from closed database on Exists")
	}
	if _, err := repo.PurgeBefore(time.Now()); err == nil {
		t.Error("expected error from closed database on PurgeBefore")
	}
}
