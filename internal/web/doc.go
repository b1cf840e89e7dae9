// Package web serves jamlist as a local HTTP app.
//
// Every browser gets a session cookie. The cookie id scopes an [auth.Manager] over the sqlite session store, so
// tokens and verifiers of one browser never reach another. Routes:
//
//	GET  /                        status page
//	GET  /login                   start authorization
//	GET  /callback                exchange the authorization code, then redirect to /
//	GET  /api/status              token lifecycle state
//	GET  /api/search?q=           search tracks
//	GET  /api/me                  current user profile
//	POST /api/playlists           create a playlist and add tracks
//	POST /api/playlists/{id}/tracks  add tracks to a playlist
//	POST /api/build               build a playlist from search queries
//	POST /logout                  end the session
//
// API routes answer 401 with an authorize_url when the session has no usable token.
package web
