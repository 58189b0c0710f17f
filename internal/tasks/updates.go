package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTopArtists Phase = iota
	FilterArtists
	GatherTracks
	SearchGenre
	FetchDuration
	CreatePlaylist
	PublishTracks
)

func (p Phase) String() string {
	switch p {
	case FetchTopArtists:
		return "fetch_top_artists"
	case FilterArtists:
		return "filter_artists"
	case GatherTracks:
		return "gather_tracks"
	case SearchGenre:
		return "search_genre"
	case FetchDuration:
		return "fetch_duration"
	case CreatePlaylist:
		return "create_playlist"
	case PublishTracks:
		return "publish_tracks"
	default:
		return ""
	}
}

func fetchTopArtistsUpdate(limit int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTopArtists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching your top %d artists...", limit),
	}
}

func filteredArtistsUpdate(matched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FilterArtists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d of %d top artists match the requested genres", matched, total),
	}
}

func gatherTracksUpdate(step, total int, artistName string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GatherTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Gathering tracks from %s...", step, total, artistName),
	}
}

func searchGenreUpdate(step, total int, genre string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchGenre,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching artists for genre %q...", step, total, genre),
	}
}

func fetchDurationUpdate(step, total int, trackName string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDuration,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Checking duration of %s...", step, total, trackName),
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func publishTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PublishTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d tracks to the playlist...", count),
	}
}
