package tasks

import (
	"fmt"

	"github.com/desertthunder/jamlist/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or web layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	SearchTracks Phase = iota
	SavePlaylist
	Complete
)

func (p Phase) String() string {
	switch p {
	case SearchTracks:
		return "search_tracks"
	case SavePlaylist:
		return "save_playlist"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

// searchTracksUpdate reports a finished query. Data holds the top hit when there is one.
func searchTracksUpdate(step, total int, query string, tracks []models.Track) ProgressUpdate {
	update := ProgressUpdate{
		Phase: SearchTracks,
		Step:  step,
		Total: total,
	}
	if len(tracks) == 0 {
		update.Message = fmt.Sprintf("No match for %q", query)
		return update
	}
	update.Message = fmt.Sprintf("Matched %q → %s", query, tracks[0])
	update.Data = tracks[0]
	return update
}

func savePlaylistUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SavePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saving %q with %d tracks...", name, count),
	}
}

func completeUpdate(result *BuildResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Created playlist %s", result.PlaylistID),
		Data:    result,
	}
}
