package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/veltzer/tubekit/internal/shared"
	"github.com/veltzer/tubekit/internal/youtube"
)

// MergeResult reports a merge pass.
type MergeResult struct {
	DestSeen int `json:"dest_seen"`
	Sources  int `json:"sources"`
	Added    int `json:"added"`
	Skipped  int `json:"skipped"`
}

// Merge unions the source items into the destination playlist, skipping any
// video already present.
//
// The destination snapshot set grows in memory after every confirmed insert,
// so a video appearing in two sources is only added once per run. On a dry
// run the set grows the same way, which keeps the reported counts identical
// to a committed run.
func (e *Engine) Merge(ctx context.Context, destID string, destItems, sourceItems []youtube.Item, commit bool) (MergeResult, error) {
	seen := youtube.VideoIDSet(destItems)
	res := MergeResult{DestSeen: len(seen), Sources: len(sourceItems)}
	total := len(sourceItems)

	for i, item := range sourceItems {
		if _, dup := seen[item.VideoID]; dup {
			res.Skipped++
			continue
		}
		if commit {
			if err := e.mut.InsertItem(ctx, destID, item.VideoID); err != nil {
				return res, err
			}
		}
		seen[item.VideoID] = struct{}{}
		res.Added++
		e.logProgress(i+1, total)
	}

	e.logCounts("merge", "dest_seen", res.DestSeen, "sources", res.Sources, "added", res.Added, "skipped", res.Skipped)
	return res, nil
}

// SortKey selects the field a sort orders by.
type SortKey string

const (
	SortByTitle   SortKey = "title"
	SortByChannel SortKey = "channel"
	SortByDate    SortKey = "date"
)

// ParseSortKey validates a user-supplied sort key.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortByTitle, SortByChannel, SortByDate:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("%w: sort key %q (want title, channel, or date)", shared.ErrInvalidArgument, s)
}

func (k SortKey) value(item youtube.Item) string {
	switch k {
	case SortByChannel:
		return shared.NormalizeKey(item.Channel)
	case SortByDate:
		return item.PublishedAt
	default:
		return shared.NormalizeKey(item.Title)
	}
}

// SortResult reports a sort pass.
type SortResult struct {
	Total   int `json:"total"`
	Deleted int `json:"deleted"`
	Added   int `json:"added"`
}

// Sort reorders a playlist by deleting every item and reinserting in sorted
// order. Text keys compare case-insensitively; missing values sort as the
// empty string.
//
// This is destructive and not atomic: a crash mid-run leaves the playlist
// partially reordered. Rerunning the sort on the partial state converges to
// the correct ordering, so the operation is eventually idempotent but never
// interruption-safe. Callers warn the user before committing.
func (e *Engine) Sort(ctx context.Context, playlistID string, items []youtube.Item, key SortKey, commit bool) (SortResult, error) {
	res := SortResult{Total: len(items)}

	ordered := make([]youtube.Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return key.value(ordered[i]) < key.value(ordered[j])
	})

	if !commit {
		e.logCounts("sort dry run", "total", res.Total, "key", string(key))
		return res, nil
	}

	for i, item := range items {
		if err := e.mut.DeleteItem(ctx, item.ID); err != nil {
			return res, err
		}
		res.Deleted++
		e.logProgress(i+1, res.Total)
	}
	for i, item := range ordered {
		if err := e.mut.InsertItem(ctx, playlistID, item.VideoID); err != nil {
			return res, err
		}
		res.Added++
		e.logProgress(i+1, res.Total)
	}

	e.logCounts("sort", "total", res.Total, "deleted", res.Deleted, "added", res.Added, "key", string(key))
	return res, nil
}

// LeftToSee returns union(all) minus union(seen), sorted lexicographically
// for deterministic output.
func LeftToSee(all, seen map[string]struct{}) []string {
	var unseen []string
	for id := range all {
		if _, ok := seen[id]; !ok {
			unseen = append(unseen, id)
		}
	}
	sort.Strings(unseen)
	return unseen
}

// DiffIDs compares a playlist id set against a file id set. reverse=false
// returns ids in the playlists but not the files (difference); reverse=true
// returns ids in both (intersection). Output is sorted.
func DiffIDs(playlistIDs, fileIDs map[string]struct{}, reverse bool) []string {
	var out []string
	for id := range playlistIDs {
		_, inFiles := fileIDs[id]
		if inFiles == reverse {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// OverflowResult reports an overflow pass.
type OverflowResult struct {
	DestCount  int `json:"dest_count"`
	Available  int `json:"available"`
	WantToMove int `json:"want_to_move"`
	Moved      int `json:"moved"`
}

// Overflow moves items from source to destination while the destination
// stays under capacity; the excess is left in place.
//
// Each move is an insert into the destination followed by a delete from the
// source. The pair is not atomic: a crash between the two calls leaves the
// video in both playlists. A later cleanup or subtract repairs that, so the
// duplication is accepted rather than guarded against.
func (e *Engine) Overflow(ctx context.Context, sourceItems []youtube.Item, destID string, destCount, capacity int, commit bool) (OverflowResult, error) {
	res := OverflowResult{DestCount: destCount}
	if capacity <= 0 {
		capacity = youtube.MaxPlaylistItems
	}
	res.Available = capacity - destCount
	if res.Available <= 0 {
		e.logCounts("overflow", "dest_count", destCount, "available", 0, "moved", 0)
		return res, nil
	}

	res.WantToMove = min(res.Available, len(sourceItems))
	for _, item := range sourceItems {
		if res.Moved >= res.Available {
			break
		}
		if commit {
			if err := e.mut.InsertItem(ctx, destID, item.VideoID); err != nil {
				return res, err
			}
			if err := e.mut.DeleteItem(ctx, item.ID); err != nil {
				return res, err
			}
		}
		res.Moved++
		e.logProgress(res.Moved, res.WantToMove)
	}

	e.logCounts("overflow", "dest_count", res.DestCount, "available", res.Available,
		"want_to_move", res.WantToMove, "moved", res.Moved, "committed", commit)
	return res, nil
}
