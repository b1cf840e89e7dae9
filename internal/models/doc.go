// Package models defines the domain entities shared by the Spotify client, the playlist builder, and the output formatters.
//
//   - [Track] : normalized projection of a Spotify track object
//   - [PlaylistOptions] : settings sent when creating a playlist
//   - [Playlist] : a playlist created through the API along with the URIs that were appended to it
package models
