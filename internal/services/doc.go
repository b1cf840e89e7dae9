// Package services implements a Spotify Web API client for searching tracks and building playlists.
//
// # Authorization
//
// [SpotifyClient] never holds a token itself. Each request starts with [TokenSource.Acquire], normally an
// [auth.Manager]:
//   - Ready: the credential's header is attached to the request
//   - AuthorizationRedirectIssued: the call returns an [APIError] of kind [NoToken] with the authorize URL
//   - Failed: the authentication error is returned unchanged
//
// # Playlists
//
// [SpotifyClient.AddTracksToPlaylist] splits URIs into chunks of [MaxTracksPerRequest] and posts them sequentially,
// stopping at the first failed chunk. There is no retry and no rollback. An optional [rate.Limiter] paces the chunks.
//
// # Error Handling
//
// Failures are [*APIError] values that match the sentinels in the shared package with errors.Is:
//   - [shared.ErrSearchFailed] : search returned a non-2xx status
//   - [shared.ErrProfileFailed] : /me returned a non-2xx status
//   - [shared.ErrCreateFailed] : playlist creation failed
//   - [shared.ErrAddFailed] : appending a chunk failed
//   - [shared.ErrNoToken] : no credential, authorization has been started
//
// # Normalization
//
// Catalog tracks become [models.Track] through [NormalizeTrack]: artists are joined with ", ", the album image is
// the small thumbnail when present, and an empty preview URL becomes nil.
package services
