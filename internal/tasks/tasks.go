// package tasks builds Spotify playlists from lists of search queries.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI and web layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jamlist/internal/models"
	"github.com/desertthunder/jamlist/internal/services"
	"github.com/desertthunder/jamlist/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers    = 4
	maxWorkers        = 10
	defaultSearchRate = 5.0
)

// BuildRequest describes a playlist to assemble from search queries.
type BuildRequest struct {
	Name    string
	Queries []string
	Options models.PlaylistOptions

	DryRun     bool    // search only, do not save
	Workers    int     // concurrent searches (default: 4, max: 10)
	SearchRate float64 // searches per second (default: 5)
}

// QueryMatch is the outcome of one query.
type QueryMatch struct {
	Query     string
	Track     *models.Track // top hit, nil when nothing matched
	Duplicate bool          // top hit was already matched by an earlier query
	Err       error
}

// BuildResult contains everything [PlaylistBuilder.Build] did.
type BuildResult struct {
	PlaylistID string
	Name       string
	Matches    []QueryMatch   // one per query, in query order
	Tracks     []models.Track // tracks added, in query order
	Missing    int            // queries with no usable hit
	Duplicates int
}

// URIs returns the URIs of the matched tracks.
func (r *BuildResult) URIs() []string {
	uris := make([]string, 0, len(r.Tracks))
	for _, t := range r.Tracks {
		uris = append(uris, t.URI)
	}
	return uris
}

// Builder assembles playlists from search queries.
type Builder interface {
	// Build searches every query, keeps the top hit of each, and saves the hits as a new playlist.
	Build(ctx context.Context, progress chan<- ProgressUpdate, req BuildRequest) (*BuildResult, error)
}

// PlaylistBuilder implements [Builder] on a [services.Service].
type PlaylistBuilder struct {
	spotify services.Service
	logger  *log.Logger
}

// NewPlaylistBuilder creates a new [PlaylistBuilder].
func NewPlaylistBuilder(spotify services.Service, logger *log.Logger) *PlaylistBuilder {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &PlaylistBuilder{spotify: spotify, logger: logger}
}

type searchJob struct {
	index int
	query string
}

type searchResult struct {
	index  int
	tracks []models.Track
	err    error
}

// sendProgress sends a progress update through the channel without blocking.
func (b *PlaylistBuilder) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Build searches every query, keeps the top hit of each, and saves the hits as a new playlist.
//
// Queries whose search fails with a search error count as misses. Any other failure, such as a missing token, stops
// the build. When saving partly fails, the result carries the created playlist id along with the error.
func (b *PlaylistBuilder) Build(ctx context.Context, progress chan<- ProgressUpdate, req BuildRequest) (*BuildResult, error) {
	if b.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify client not initialized", shared.ErrInvalidInput)
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" && !req.DryRun {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	queries := cleanQueries(req.Queries)
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: at least one query is required", shared.ErrMissingArgument)
	}

	found, err := b.search(ctx, progress, queries, req)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{Name: req.Name, Matches: make([]QueryMatch, len(queries))}
	seen := make(map[string]bool)
	for i, res := range found {
		match := QueryMatch{Query: queries[i], Err: res.err}
		switch {
		case res.err != nil || len(res.tracks) == 0:
			result.Missing++
		case seen[res.tracks[0].URI]:
			top := res.tracks[0]
			match.Track = &top
			match.Duplicate = true
			result.Duplicates++
		default:
			top := res.tracks[0]
			match.Track = &top
			seen[top.URI] = true
			result.Tracks = append(result.Tracks, top)
		}
		result.Matches[i] = match
	}

	b.logger.Debug("search complete", "queries", len(queries), "matched", len(result.Tracks), "missing", result.Missing, "duplicates", result.Duplicates)

	if len(result.Tracks) == 0 {
		return result, fmt.Errorf("%w: no queries matched a track", shared.ErrInvalidInput)
	}
	if req.DryRun {
		return result, nil
	}

	b.sendProgress(progress, savePlaylistUpdate(req.Name, len(result.Tracks)))

	id, err := b.spotify.SavePlaylist(ctx, req.Name, result.URIs(), req.Options)
	result.PlaylistID = id
	if err != nil {
		return result, err
	}

	b.sendProgress(progress, completeUpdate(result))
	return result, nil
}

// search runs the queries through a rate-limited worker pool, returning results indexed like queries.
func (b *PlaylistBuilder) search(ctx context.Context, progress chan<- ProgressUpdate, queries []string, req BuildRequest) ([]searchResult, error) {
	workers := req.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > len(queries) {
		workers = len(queries)
	}
	if req.SearchRate <= 0 {
		req.SearchRate = defaultSearchRate
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(req.SearchRate), 1)
	jobs := make(chan searchJob, len(queries))
	results := make(chan searchResult, len(queries))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go b.searchWorker(ctx, &wg, limiter, jobs, results)
	}

	for i, q := range queries {
		jobs <- searchJob{index: i, query: q}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	found := make([]searchResult, len(queries))
	var fatal error
	completed := 0
	for res := range results {
		completed++
		found[res.index] = res

		if res.err != nil && !errors.Is(res.err, shared.ErrSearchFailed) && fatal == nil {
			fatal = res.err
			cancel()
		}
		b.sendProgress(progress, searchTracksUpdate(completed, len(queries), queries[res.index], res.tracks))
	}

	if fatal != nil {
		return nil, fatal
	}
	return found, nil
}

// searchWorker searches queries from the jobs channel until it is drained or ctx is done.
func (b *PlaylistBuilder) searchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan searchJob,
	results chan<- searchResult,
) {
	defer wg.Done()

	for job := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- searchResult{index: job.index, err: err}
			continue
		}

		tracks, err := b.spotify.SearchTracks(ctx, job.query)
		if err != nil {
			b.logger.Warn("search failed", "query", job.query, "error", err)
		}
		results <- searchResult{index: job.index, tracks: tracks, err: err}
	}
}

// cleanQueries trims queries and drops blank ones.
func cleanQueries(queries []string) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
