package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/veltzer/tubekit/internal/tasks"
	"github.com/veltzer/tubekit/internal/youtube"
)

type fakeFetcher struct {
	playlists []youtube.Playlist
	items     []youtube.Item
	err       error
}

func (f *fakeFetcher) ListPlaylists(context.Context) ([]youtube.Playlist, error) {
	return f.playlists, f.err
}

func (f *fakeFetcher) ListItems(context.Context, string) ([]youtube.Item, error) {
	return f.items, f.err
}

type nopMutator struct{}

func (nopMutator) InsertItem(context.Context, string, string) error { return nil }
func (nopMutator) DeleteItem(context.Context, string) error         { return nil }

func newTestModel(fetcher *fakeFetcher) *Model {
	engine := tasks.NewEngine(nopMutator{}, nil)
	return NewModel(context.Background(), fetcher, engine, tasks.CleanupOpts{Dedup: true, Deleted: true})
}

func TestNewModel(t *testing.T) {
	m := newTestModel(&fakeFetcher{})
	if m.view != PlaylistListView {
		t.Errorf("initial view = %v, want PlaylistListView", m.view)
	}
	if m.opts.Commit {
		t.Error("commit must start off regardless of caller opts")
	}

	m = NewModel(context.Background(), &fakeFetcher{}, tasks.NewEngine(nopMutator{}, nil),
		tasks.CleanupOpts{Commit: true})
	if m.opts.Commit {
		t.Error("caller-supplied commit flag was not cleared")
	}
}

func TestModelUpdate(t *testing.T) {
	playlists := []youtube.Playlist{{ID: "PL1", Title: "Music", ItemCount: 2}}
	items := []youtube.Item{
		{ID: "i1", VideoID: "v1", Title: "A"},
		{ID: "i2", VideoID: "v1", Title: "A again"},
	}

	t.Run("playlists arriving populates the list", func(t *testing.T) {
		m := newTestModel(&fakeFetcher{playlists: playlists})
		updated, _ := m.Update(playlistsFetchedMsg{playlists: playlists})
		m = updated.(*Model)

		if len(m.playlists) != 1 {
			t.Fatalf("playlists = %v", m.playlists)
		}
		if m.view != PlaylistListView {
			t.Errorf("view = %v, want PlaylistListView", m.view)
		}
	})

	t.Run("playlist fetch error quits", func(t *testing.T) {
		m := newTestModel(&fakeFetcher{})
		_, cmd := m.Update(playlistsFetchedMsg{err: errors.New("boom")})
		if cmd == nil {
			t.Fatal("expected a quit command")
		}
		if m.err == nil {
			t.Error("error was not recorded")
		}
	})

	t.Run("items arriving switches to the item view", func(t *testing.T) {
		m := newTestModel(&fakeFetcher{})
		updated, _ := m.Update(itemsFetchedMsg{playlist: playlists[0], items: items})
		m = updated.(*Model)

		if m.view != ItemListView {
			t.Errorf("view = %v, want ItemListView", m.view)
		}
		if m.selected.ID != "PL1" {
			t.Errorf("selected = %+v", m.selected)
		}
	})

	t.Run("preview moves to the confirm view", func(t *testing.T) {
		m := newTestModel(&fakeFetcher{})
		preview := tasks.CleanupResult{Seen: 2, Duplicates: 1, WantToDelete: 1}
		updated, _ := m.Update(previewComputedMsg{preview: preview})
		m = updated.(*Model)

		if m.view != ConfirmView {
			t.Errorf("view = %v, want ConfirmView", m.view)
		}
		if m.preview.WantToDelete != 1 {
			t.Errorf("preview = %+v", m.preview)
		}
	})

	t.Run("completion shows the result view", func(t *testing.T) {
		m := newTestModel(&fakeFetcher{})
		result := tasks.CleanupResult{Seen: 2, Deleted: 1}
		updated, _ := m.Update(cleanupCompleteMsg{result: result})
		m = updated.(*Model)

		if m.view != ResultView {
			t.Errorf("view = %v, want ResultView", m.view)
		}
		if m.result.Deleted != 1 {
			t.Errorf("result = %+v", m.result)
		}
	})
}

func TestStartCleanupDeliversResultAsMessages(t *testing.T) {
	m := newTestModel(&fakeFetcher{})
	m.view = RunView
	m.items = []youtube.Item{
		{ID: "i1", VideoID: "v1", Title: "A"},
		{ID: "i2", VideoID: "v1", Title: "A again"},
	}

	// Drain the command loop the way the runtime would: every returned
	// message is fed back through Update until the result view appears.
	cmd := m.startCleanup()
	for i := 0; i < 20 && cmd != nil && m.view != ResultView; i++ {
		msg := cmd()
		if msg == nil {
			break
		}
		var model tea.Model
		model, cmd = m.Update(msg)
		m = model.(*Model)
	}

	if m.view != ResultView {
		t.Fatalf("view = %v, want ResultView", m.view)
	}
	if m.result.Seen != 2 || m.result.Deleted != 1 {
		t.Errorf("result = %+v, want 2 seen and 1 deleted", m.result)
	}
	if m.progressChan != nil || m.doneChan != nil {
		t.Error("channels not cleared after completion")
	}
}

func TestConfirmKeys(t *testing.T) {
	m := newTestModel(&fakeFetcher{})
	m.view = ConfirmView

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if updated.(*Model).view != ItemListView {
		t.Errorf("n left view at %v, want ItemListView", updated.(*Model).view)
	}

	m.view = ConfirmView
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if updated.(*Model).view != RunView {
		t.Errorf("y left view at %v, want RunView", updated.(*Model).view)
	}
	if cmd == nil {
		t.Error("y did not start the cleanup")
	}
}

func TestConfirmViewShowsPreviewCounts(t *testing.T) {
	m := newTestModel(&fakeFetcher{})
	m.view = ConfirmView
	m.selected = youtube.Playlist{ID: "PL1", Title: "Music"}
	m.preview = tasks.CleanupResult{Seen: 10, Duplicates: 3, WantToDelete: 3}

	out := m.View()
	if !strings.Contains(out, "Music") {
		t.Errorf("confirm view missing playlist title: %q", out)
	}
	if !strings.Contains(out, "Would remove 3 items") {
		t.Errorf("confirm view missing removal count: %q", out)
	}
}

func TestResultViewError(t *testing.T) {
	m := newTestModel(&fakeFetcher{})
	m.view = ResultView
	m.err = errors.New("quota exhausted")

	out := m.View()
	if !strings.Contains(out, "quota exhausted") {
		t.Errorf("result view missing error: %q", out)
	}
}
