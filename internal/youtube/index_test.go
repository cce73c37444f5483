package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/veltzer/tubekit/internal/shared"
)

// indexHandler serves a fixed set of playlists plus per-playlist items.
func indexHandler(t *testing.T) http.Handler {
	t.Helper()
	itemsByPlaylist := map[string]string{
		"PL1": `{"items": [
			{"id": "a1", "snippet": {"title": "one", "resourceId": {"videoId": "v1"}}},
			{"id": "a2", "snippet": {"title": "two", "resourceId": {"videoId": "v2"}}}
		]}`,
		"PL2": `{"items": [
			{"id": "b1", "snippet": {"title": "dup", "resourceId": {"videoId": "v2"}}},
			{"id": "b2", "snippet": {"title": "three", "resourceId": {"videoId": "v3"}}}
		]}`,
		"PL3": `{"items": []}`,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "playlistItems") {
			body, ok := itemsByPlaylist[r.URL.Query().Get("playlistId")]
			if !ok {
				t.Errorf("items requested for unknown playlist %q", r.URL.Query().Get("playlistId"))
				body = `{"items": []}`
			}
			fmt.Fprint(w, body)
			return
		}
		// Two playlists share the title "Music"; the later one wins lookups.
		fmt.Fprint(w, `{"items": [
			{"id": "PL1", "snippet": {"title": "Music"}},
			{"id": "PL2", "snippet": {"title": "Talks"}},
			{"id": "PL3", "snippet": {"title": "Music"}}
		]}`)
	})
}

func TestResolveIDs(t *testing.T) {
	client, _ := newTestClient(t, indexHandler(t))
	ctx := context.Background()

	t.Run("preserves request order", func(t *testing.T) {
		ids, err := client.ResolveIDs(ctx, []string{"Talks", "Music"})
		if err != nil {
			t.Fatalf("ResolveIDs: %v", err)
		}
		if len(ids) != 2 || ids[0] != "PL2" {
			t.Errorf("ids = %v", ids)
		}
	})

	t.Run("duplicate title resolves to the later playlist", func(t *testing.T) {
		id, err := client.ResolveID(ctx, "Music")
		if err != nil {
			t.Fatalf("ResolveID: %v", err)
		}
		if id != "PL3" {
			t.Errorf("id = %q, want PL3", id)
		}
	})

	t.Run("unknown name aborts the whole batch", func(t *testing.T) {
		_, err := client.ResolveIDs(ctx, []string{"Talks", "Nope"})
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("err = %v, want ErrPlaylistNotFound", err)
		}
	})
}

func TestMyPlaylistIDs(t *testing.T) {
	client, _ := newTestClient(t, indexHandler(t))
	ids, err := client.MyPlaylistIDs(context.Background())
	if err != nil {
		t.Fatalf("MyPlaylistIDs: %v", err)
	}
	want := []string{"PL1", "PL2", "PL3"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestItemCount(t *testing.T) {
	client, _ := newTestClient(t, indexHandler(t))
	n, err := client.ItemCount(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("ItemCount: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestItemsFromNames(t *testing.T) {
	client, _ := newTestClient(t, indexHandler(t))
	items, err := client.ItemsFromNames(context.Background(), []string{"Talks", "Music"})
	if err != nil {
		t.Fatalf("ItemsFromNames: %v", err)
	}
	// Talks has two items, the later Music playlist is empty.
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].VideoID != "v2" || items[1].VideoID != "v3" {
		t.Errorf("items = %v", items)
	}
}

func TestVideoIDsFromNames(t *testing.T) {
	client, _ := newTestClient(t, indexHandler(t))
	ids, err := client.VideoIDsFromNames(context.Background(), []string{"Talks"})
	if err != nil {
		t.Fatalf("VideoIDsFromNames: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	for _, id := range []string{"v2", "v3"} {
		if _, ok := ids[id]; !ok {
			t.Errorf("missing %q", id)
		}
	}
}
