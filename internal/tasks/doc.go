// Package tasks assembles Spotify playlists from search queries with real-time progress reporting.
//
// # Core Operations
//
// The [Builder] interface defines one operation, implemented by [PlaylistBuilder]:
//
//  1. [Builder.Build] : turn a list of queries into a playlist
//     - Searches every query through a rate-limited worker pool
//     - Keeps the top hit per query, skipping misses and repeated URIs
//     - Saves the hits through services.Service.SavePlaylist
//     - Returns per-query matches, including misses and duplicates
//
// A dry run stops after the search phase.
//
// # Progress Reporting
//
// # Updates are sent on a non-blocking channel
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data. Updates use select with
// default, so a slow or missing reader never stalls a build.
//
// # Query Files
//
// [ReadQueries] reads one query per line for `jamlist playlist build --file`.
package tasks
