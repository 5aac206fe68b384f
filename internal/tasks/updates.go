package tasks

import (
	"fmt"

	"stationport/internal/models"
)

// ProgressUpdate represents a progress event during a reconciliation run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Run phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Phase enumerates the run's state machine. Transitions are strictly
// sequential; Failed is terminal.
type Phase int

const (
	Idle Phase = iota
	Fetching
	Matching
	Creating
	Populating
	Done
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Matching:
		return "matching"
	case Creating:
		return "creating"
	case Populating:
		return "populating"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

func fetchStartUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetching,
		Message: "Fetching catalog from AudioStation...",
	}
}

func fetchPageUpdate(fetched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetching,
		Step:    fetched,
		Total:   total,
		Message: fmt.Sprintf("Cached %d/%d songs", fetched, total),
	}
}

func fetchDoneUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetching,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Catalog cached: %d songs", count),
	}
}

func matchStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Matching,
		Total:   total,
		Message: "Matching songs against catalog...",
	}
}

func matchHitUpdate(step, total int, entry models.SongEntry, score float64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Matching,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (score %.2f)", step, total, entry, score),
		Data:    entry,
	}
}

func matchMissUpdate(step, total int, entry models.SongEntry, score float64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Matching,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s (best score %.2f)", step, total, entry, score),
		Data:    entry,
	}
}

func creatingUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Creating,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func createdUpdate(name, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Creating,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", name, id),
	}
}

func populatedUpdate(count int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Populating,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Added %d songs to playlist (ID: %s)", count, id),
	}
}
