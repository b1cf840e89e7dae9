// Package repositories implements SQLite persistence for session-scoped state.
//
// Key Implementations:
//   - [SessionRepository] : key/value rows in session_values, keyed by session id
//
// A session's rows are the only place an access token, its expiry, and a pending PKCE verifier are kept outside
// process memory. [SessionRepository.Scoped] exposes one session as an [auth.Store]. Rows are removed when the
// session ends through [SessionRepository.Clear], or swept by [SessionRepository.PurgeBefore] once abandoned.
package repositories
