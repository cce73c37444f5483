package tasks

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/veltzer/tubekit/internal/youtube"
)

// Mutator issues playlist mutations. *youtube.Client implements it; tests
// substitute a recording fake.
type Mutator interface {
	InsertItem(ctx context.Context, playlistID, videoID string) error
	DeleteItem(ctx context.Context, itemID string) error
}

// Engine runs reconciliation operations against a Mutator.
type Engine struct {
	mut    Mutator
	logger *log.Logger
}

// NewEngine creates an Engine. logger may be nil.
func NewEngine(mut Mutator, logger *log.Logger) *Engine {
	return &Engine{mut: mut, logger: logger}
}

// CleanupOpts selects which cleanup checks run and whether deletions are
// actually issued.
type CleanupOpts struct {
	Dedup      bool
	Deleted    bool
	Privatized bool
	Commit     bool
}

// CleanupResult reports what a cleanup pass saw and did.
type CleanupResult struct {
	Seen         int `json:"seen"`
	Duplicates   int `json:"duplicates"`
	DeletedVideo int `json:"deleted_videos"`
	Privatized   int `json:"privatized"`
	WantToDelete int `json:"want_to_delete"`
	Deleted      int `json:"deleted"`
}

// Cleanup walks items in fetch order and removes duplicates and sentinel
// titles.
//
// Dedup keeps the first occurrence of each video id; first-seen is stream
// order, so the caller must not reorder items between fetch and cleanup. The
// deleted and privatized checks are independent and may both fire on one run.
func (e *Engine) Cleanup(ctx context.Context, items []youtube.Item, opts CleanupOpts, progress chan<- ProgressUpdate) (CleanupResult, error) {
	var res CleanupResult
	seen := make(map[string]struct{}, len(items))
	total := len(items)

	for i, item := range items {
		res.Seen++
		toDelete := false

		if opts.Dedup {
			if _, dup := seen[item.VideoID]; dup {
				res.Duplicates++
				toDelete = true
			} else {
				seen[item.VideoID] = struct{}{}
			}
		}
		if opts.Deleted && item.Deleted() {
			res.DeletedVideo++
			toDelete = true
		}
		if opts.Privatized && item.Privatized() {
			res.Privatized++
			toDelete = true
		}

		if toDelete {
			res.WantToDelete++
			if opts.Commit {
				if err := e.mut.DeleteItem(ctx, item.ID); err != nil {
					return res, err
				}
				res.Deleted++
			}
		}

		sendProgress(progress, deleteItemsUpdate(i+1, total))
		e.logProgress(i+1, total)
	}

	e.logCounts("cleanup",
		"seen", res.Seen, "duplicates", res.Duplicates,
		"deleted_videos", res.DeletedVideo, "privatized", res.Privatized,
		"want_to_delete", res.WantToDelete, "deleted", res.Deleted)
	return res, nil
}

// SubtractResult reports a subtract pass.
type SubtractResult struct {
	Seen         int `json:"seen"`
	WantToDelete int `json:"want_to_delete"`
	Deleted      int `json:"deleted"`
}

// Subtract removes from the "from" items every item whose video id is in the
// "what" set (A = A - B). Items only present in "what" are never touched.
func (e *Engine) Subtract(ctx context.Context, from []youtube.Item, what map[string]struct{}, commit bool) (SubtractResult, error) {
	var res SubtractResult
	total := len(from)

	for i, item := range from {
		res.Seen++
		if _, hit := what[item.VideoID]; !hit {
			continue
		}
		res.WantToDelete++
		if commit {
			if err := e.mut.DeleteItem(ctx, item.ID); err != nil {
				return res, err
			}
			res.Deleted++
		}
		e.logProgress(i+1, total)
	}

	e.logCounts("subtract", "seen", res.Seen, "want_to_delete", res.WantToDelete, "deleted", res.Deleted)
	return res, nil
}

// ClearResult reports a clear pass.
type ClearResult struct {
	Seen    int `json:"seen"`
	Deleted int `json:"deleted"`
}

// Clear deletes every item in the collection.
func (e *Engine) Clear(ctx context.Context, items []youtube.Item, commit bool) (ClearResult, error) {
	res := ClearResult{Seen: len(items)}
	for i, item := range items {
		if !commit {
			continue
		}
		if err := e.mut.DeleteItem(ctx, item.ID); err != nil {
			return res, err
		}
		res.Deleted++
		e.logProgress(i+1, len(items))
	}
	e.logCounts("clear", "seen", res.Seen, "deleted", res.Deleted)
	return res, nil
}

// Copy appends every source item's video to the destination playlist,
// duplicates included. Use Merge for dedup semantics.
func (e *Engine) Copy(ctx context.Context, items []youtube.Item, destID string) (int, error) {
	copied := 0
	for i, item := range items {
		if err := e.mut.InsertItem(ctx, destID, item.VideoID); err != nil {
			return copied, err
		}
		copied++
		e.logProgress(i+1, len(items))
	}
	e.logCounts("copy", "copied", copied)
	return copied, nil
}

// Search returns the items whose title or channel contains the query,
// case-insensitively.
func (e *Engine) Search(items []youtube.Item, query string) []youtube.Item {
	q := strings.ToLower(query)
	var hits []youtube.Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), q) ||
			strings.Contains(strings.ToLower(item.Channel), q) {
			hits = append(hits, item)
		}
	}
	return hits
}

// logProgress emits one info line per 100 items and at the end of a batch.
func (e *Engine) logProgress(current, total int) {
	if e.logger == nil {
		return
	}
	if current%100 == 0 || current == total {
		e.logger.Info("progress", "current", current, "total", total)
	}
}

func (e *Engine) logCounts(op string, kv ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Info(op+" finished", kv...)
}
