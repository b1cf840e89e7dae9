// Package auth implements the OAuth 2.0 Authorization Code flow with PKCE against the Spotify accounts service.
//
// A [Manager] hands out bearer credentials. It caches the token in memory and in a session [Store], exchanges an
// authorization code found on the user agent's [Location], and otherwise stores a fresh verifier and redirects the
// user agent to the authorization endpoint.
package auth
