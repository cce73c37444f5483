package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/veltzer/tubekit/internal/youtube"
)

// fakeMutator records every mutation in order and can fail on demand.
type fakeMutator struct {
	inserts []string // "playlistID/videoID"
	deletes []string // itemID
	failOn  string   // itemID or videoID that errors
}

func (f *fakeMutator) InsertItem(_ context.Context, playlistID, videoID string) error {
	if videoID == f.failOn {
		return errors.New("insert failed")
	}
	f.inserts = append(f.inserts, playlistID+"/"+videoID)
	return nil
}

func (f *fakeMutator) DeleteItem(_ context.Context, itemID string) error {
	if itemID == f.failOn {
		return errors.New("delete failed")
	}
	f.deletes = append(f.deletes, itemID)
	return nil
}

func (f *fakeMutator) calls() int { return len(f.inserts) + len(f.deletes) }

func item(id, videoID, title string) youtube.Item {
	return youtube.Item{ID: id, VideoID: videoID, Title: title}
}

func TestCleanup(t *testing.T) {
	messy := []youtube.Item{
		item("i1", "v1", "First"),
		item("i2", "v2", youtube.DeletedTitle),
		item("i3", "v1", "First again"),
		item("i4", "v3", youtube.PrivateTitle),
		item("i5", "v4", "Last"),
	}

	t.Run("dedup keeps first occurrence", func(t *testing.T) {
		mut := &fakeMutator{}
		engine := NewEngine(mut, nil)

		res, err := engine.Cleanup(context.Background(), messy, CleanupOpts{Dedup: true, Commit: true}, nil)
		if err != nil {
			t.Fatalf("Cleanup: %v", err)
		}
		if res.Duplicates != 1 || res.Deleted != 1 {
			t.Errorf("result = %+v, want 1 duplicate deleted", res)
		}
		if len(mut.deletes) != 1 || mut.deletes[0] != "i3" {
			t.Errorf("deletes = %v, want [i3]", mut.deletes)
		}
	})

	t.Run("sentinel checks are independent", func(t *testing.T) {
		mut := &fakeMutator{}
		engine := NewEngine(mut, nil)

		res, err := engine.Cleanup(context.Background(), messy,
			CleanupOpts{Deleted: true, Privatized: true, Commit: true}, nil)
		if err != nil {
			t.Fatalf("Cleanup: %v", err)
		}
		if res.DeletedVideo != 1 || res.Privatized != 1 {
			t.Errorf("result = %+v, want one of each sentinel", res)
		}
		if len(mut.deletes) != 2 || mut.deletes[0] != "i2" || mut.deletes[1] != "i4" {
			t.Errorf("deletes = %v, want [i2 i4]", mut.deletes)
		}
	})

	t.Run("dry run counts without mutating", func(t *testing.T) {
		commitMut := &fakeMutator{}
		committed, err := NewEngine(commitMut, nil).Cleanup(context.Background(), messy,
			CleanupOpts{Dedup: true, Deleted: true, Privatized: true, Commit: true}, nil)
		if err != nil {
			t.Fatalf("commit run: %v", err)
		}

		dryMut := &fakeMutator{}
		dry, err := NewEngine(dryMut, nil).Cleanup(context.Background(), messy,
			CleanupOpts{Dedup: true, Deleted: true, Privatized: true}, nil)
		if err != nil {
			t.Fatalf("dry run: %v", err)
		}

		if dryMut.calls() != 0 {
			t.Errorf("dry run issued %d mutations", dryMut.calls())
		}
		if dry.WantToDelete != committed.WantToDelete ||
			dry.Duplicates != committed.Duplicates ||
			dry.DeletedVideo != committed.DeletedVideo ||
			dry.Privatized != committed.Privatized {
			t.Errorf("dry run counts %+v diverge from commit run %+v", dry, committed)
		}
		if dry.Deleted != 0 {
			t.Errorf("dry run reported %d deletions", dry.Deleted)
		}
	})

	t.Run("clean playlist is a no-op", func(t *testing.T) {
		mut := &fakeMutator{}
		engine := NewEngine(mut, nil)

		clean := []youtube.Item{item("i1", "v1", "A"), item("i2", "v2", "B")}
		res, err := engine.Cleanup(context.Background(), clean,
			CleanupOpts{Dedup: true, Deleted: true, Privatized: true, Commit: true}, nil)
		if err != nil {
			t.Fatalf("Cleanup: %v", err)
		}
		if res.WantToDelete != 0 || mut.calls() != 0 {
			t.Errorf("clean run mutated: %+v, calls=%d", res, mut.calls())
		}
	})

	t.Run("delete error stops the pass", func(t *testing.T) {
		mut := &fakeMutator{failOn: "i3"}
		engine := NewEngine(mut, nil)

		_, err := engine.Cleanup(context.Background(), messy, CleanupOpts{Dedup: true, Commit: true}, nil)
		if err == nil {
			t.Error("expected the delete error back")
		}
	})

	t.Run("reports progress", func(t *testing.T) {
		progress := make(chan ProgressUpdate, len(messy))
		engine := NewEngine(&fakeMutator{}, nil)

		if _, err := engine.Cleanup(context.Background(), messy, CleanupOpts{Dedup: true}, progress); err != nil {
			t.Fatalf("Cleanup: %v", err)
		}
		close(progress)

		var last ProgressUpdate
		count := 0
		for u := range progress {
			last = u
			count++
		}
		if count != len(messy) {
			t.Errorf("got %d updates, want %d", count, len(messy))
		}
		if last.Step != len(messy) || last.Total != len(messy) {
			t.Errorf("final update = %+v", last)
		}
	})
}

func TestSubtract(t *testing.T) {
	from := []youtube.Item{
		item("i1", "v1", "keep"),
		item("i2", "v2", "drop"),
		item("i3", "v3", "drop"),
	}
	what := map[string]struct{}{"v2": {}, "v3": {}, "v9": {}}

	t.Run("commit removes intersection only", func(t *testing.T) {
		mut := &fakeMutator{}
		res, err := NewEngine(mut, nil).Subtract(context.Background(), from, what, true)
		if err != nil {
			t.Fatalf("Subtract: %v", err)
		}
		if res.Seen != 3 || res.WantToDelete != 2 || res.Deleted != 2 {
			t.Errorf("result = %+v", res)
		}
		if len(mut.deletes) != 2 || mut.deletes[0] != "i2" || mut.deletes[1] != "i3" {
			t.Errorf("deletes = %v, want [i2 i3]", mut.deletes)
		}
	})

	t.Run("dry run counts the same", func(t *testing.T) {
		mut := &fakeMutator{}
		res, err := NewEngine(mut, nil).Subtract(context.Background(), from, what, false)
		if err != nil {
			t.Fatalf("Subtract: %v", err)
		}
		if res.WantToDelete != 2 || res.Deleted != 0 || mut.calls() != 0 {
			t.Errorf("dry run: %+v, calls=%d", res, mut.calls())
		}
	})
}

func TestClear(t *testing.T) {
	items := []youtube.Item{item("i1", "v1", "a"), item("i2", "v2", "b")}

	mut := &fakeMutator{}
	res, err := NewEngine(mut, nil).Clear(context.Background(), items, true)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if res.Seen != 2 || res.Deleted != 2 || len(mut.deletes) != 2 {
		t.Errorf("result = %+v, deletes = %v", res, mut.deletes)
	}

	dry := &fakeMutator{}
	res, err = NewEngine(dry, nil).Clear(context.Background(), items, false)
	if err != nil {
		t.Fatalf("Clear dry run: %v", err)
	}
	if res.Deleted != 0 || dry.calls() != 0 {
		t.Errorf("dry run mutated: %+v", res)
	}
}

func TestCopy(t *testing.T) {
	items := []youtube.Item{item("i1", "v1", "a"), item("i2", "v1", "a again")}

	mut := &fakeMutator{}
	copied, err := NewEngine(mut, nil).Copy(context.Background(), items, "DEST")
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	// copy keeps duplicates, unlike merge
	if copied != 2 || len(mut.inserts) != 2 {
		t.Errorf("copied = %d, inserts = %v", copied, mut.inserts)
	}
	for _, ins := range mut.inserts {
		if ins != "DEST/v1" {
			t.Errorf("insert = %q, want DEST/v1", ins)
		}
	}
}

func TestSearch(t *testing.T) {
	items := []youtube.Item{
		{ID: "i1", VideoID: "v1", Title: "Go Concurrency Patterns", Channel: "GopherCon"},
		{ID: "i2", VideoID: "v2", Title: "Cooking pasta", Channel: "Kitchen"},
		{ID: "i3", VideoID: "v3", Title: "Dinner ideas", Channel: "gopher kitchen"},
	}
	engine := NewEngine(&fakeMutator{}, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"gopher", []string{"i1", "i3"}},
		{"KITCHEN", []string{"i2", "i3"}},
		{"pasta", []string{"i2"}},
		{"absent", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			hits := engine.Search(items, tt.query)
			if len(hits) != len(tt.want) {
				t.Fatalf("got %d hits, want %d", len(hits), len(tt.want))
			}
			for i, id := range tt.want {
				if hits[i].ID != id {
					t.Errorf("hit %d = %s, want %s", i, hits[i].ID, id)
				}
			}
		})
	}
}

func TestProgressPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{FetchPlaylists, "fetch_playlists"},
		{FetchItems, "fetch_items"},
		{DeleteItems, "delete_items"},
		{InsertItems, "insert_items"},
		{Done, "done"},
		{Phase(99), ""},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestSendProgressNeverBlocks(t *testing.T) {
	// nil channel drops silently
	sendProgress(nil, FetchItemsUpdate(1, 2, "music"))

	full := make(chan ProgressUpdate, 1)
	full <- FetchItemsUpdate(1, 2, "music")
	sendProgress(full, FetchItemsUpdate(2, 2, "music"))

	if len(full) != 1 {
		t.Errorf("channel length = %d, want the original single update", len(full))
	}
	got := <-full
	if got.Step != 1 {
		t.Errorf("kept update step = %d, want the first one", got.Step)
	}
}

func BenchmarkCleanupDedup(b *testing.B) {
	items := make([]youtube.Item, 1000)
	for i := range items {
		items[i] = item(
			"i"+fmt.Sprint(i),
			"v"+fmt.Sprint(i%700), // ~30% duplicates
			"title",
		)
	}
	engine := NewEngine(&fakeMutator{}, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Cleanup(context.Background(), items, CleanupOpts{Dedup: true}, nil); err != nil {
			b.Fatal(err)
		}
	}
}
