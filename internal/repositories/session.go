package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/jamlist/internal/auth"
)

// SessionRepository persists session key/value pairs in the session_values table.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// timestamp is the current time in UTC at second precision, so stored values compare as text.
func (r *SessionRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Second)
}

// Get retrieves the value stored under key for a session
func (r *SessionRepository) Get(sessionID, key string) (string, bool, error) {
	query := `SELECT value FROM session_values WHERE session_id = ? AND key = ?`

	var value string
	err := r.db.QueryRow(query, sessionID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query session value: %w", err)
	}

	return value, true, nil
}

// Set inserts or replaces the value stored under key for a session
func (r *SessionRepository) Set(sessionID, key, value string) error {
	now := r.timestamp()

	query := `
		INSERT INTO session_values (session_id, key, value, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, sessionID, key, value, now, now); err != nil {
		return fmt.Errorf("failed to store session value: %w", err)
	}

	return nil
}

// Delete removes key from a session. Missing keys are ignored.
func (r *SessionRepository) Delete(sessionID, key string) error {
	query := `DELETE FROM session_values WHERE session_id = ? AND key = ?`

	if _, err := r.db.Exec(query, sessionID, key); err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}

	return nil
}

// Clear removes every value of a session, ending it
func (r *SessionRepository) Clear(sessionID string) error {
	if _, err := r.db.Exec(`DELETE FROM session_values WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// PurgeBefore removes sessions whose most recent write happened before cutoff and returns the number of rows
// deleted.
func (r *SessionRepository) PurgeBefore(cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM session_values
		WHERE session_id IN (
			SELECT session_id FROM session_values GROUP BY session_id HAVING MAX(updated_at) < ?
		)
	`

	result, err := r.db.Exec(query, cutoff.UTC().Truncate(time.Second))
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}

	return rowsAffected(result)
}

// Exists reports whether a session has any stored values
func (r *SessionRepository) Exists(sessionID string) (bool, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM session_values WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up session: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of distinct sessions with stored values
func (r *SessionRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(DISTINCT session_id) FROM session_values`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// Scoped returns an [auth.Store] bound to sessionID.
func (r *SessionRepository) Scoped(sessionID string) auth.Store {
	return &sessionStore{repo: r, sessionID: sessionID}
}

type sessionStore struct {
	repo      *SessionRepository
	sessionID string
}

func (s *sessionStore) Get(key string) (string, bool, error) {
	return s.repo.Get(s.sessionID, key)
}

func (s *sessionStore) Set(key, value string) error {
	return s.repo.Set(s.sessionID, key, value)
}

func (s *sessionStore) Delete(key string) error {
	return s.repo.Delete(s.sessionID, key)
}
