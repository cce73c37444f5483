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
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylists Phase = iota
	FetchItems
	DeleteItems
	InsertItems
	Done
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchItems:
		return "fetch_items"
	case DeleteItems:
		return "delete_items"
	case InsertItems:
		return "insert_items"
	case Done:
		return "done"
	default:
		return ""
	}
}

// sendProgress delivers an update without blocking; a full or nil channel
// drops the update so reporting never stalls the operation.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// FetchItemsUpdate reports item-fetch progress to a UI.
func FetchItemsUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching items (%s)...", name),
	}
}

func deleteItemsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeleteItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Checking items...", step, total),
	}
}
