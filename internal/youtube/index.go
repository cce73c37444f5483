package youtube

import (
	"context"
	"fmt"

	"github.com/veltzer/tubekit/internal/shared"
)

// ResolveIDs maps playlist names to ids, preserving request order.
//
// All playlists are fetched once; when two playlists share a title the later
// one wins, since titles are the lookup key. An unknown name aborts the whole
// resolution, nothing partial is returned.
func (c *Client) ResolveIDs(ctx context.Context, names []string) ([]string, error) {
	playlists, err := c.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}

	nameToID := make(map[string]string, len(playlists))
	for _, pl := range playlists {
		nameToID[pl.Title] = pl.ID
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := nameToID[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveID resolves a single playlist name.
func (c *Client) ResolveID(ctx context.Context, name string) (string, error) {
	ids, err := c.ResolveIDs(ctx, []string{name})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// MyPlaylistIDs returns the ids of every playlist the account owns.
func (c *Client) MyPlaylistIDs(ctx context.Context) ([]string, error) {
	playlists, err := c.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(playlists))
	for _, pl := range playlists {
		ids = append(ids, pl.ID)
	}
	return ids, nil
}

// ItemCount counts the items in a playlist by paging it fully. The playlist
// metadata carries a count field, but it lags behind mutations; a full page
// walk reflects what a subsequent fetch would actually see.
func (c *Client) ItemCount(ctx context.Context, playlistID string) (int, error) {
	items, err := c.ListItems(ctx, playlistID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// ItemsFromIDs concatenates the items of several playlists in id order.
func (c *Client) ItemsFromIDs(ctx context.Context, playlistIDs []string) ([]Item, error) {
	var items []Item
	for _, id := range playlistIDs {
		batch, err := c.ListItems(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
	}
	return items, nil
}

// ItemsFromNames resolves names and concatenates the playlists' items.
func (c *Client) ItemsFromNames(ctx context.Context, names []string) ([]Item, error) {
	ids, err := c.ResolveIDs(ctx, names)
	if err != nil {
		return nil, err
	}
	return c.ItemsFromIDs(ctx, ids)
}

// VideoIDsFromNames resolves names and collects the distinct video ids across
// the playlists' items.
func (c *Client) VideoIDsFromNames(ctx context.Context, names []string) (map[string]struct{}, error) {
	items, err := c.ItemsFromNames(ctx, names)
	if err != nil {
		return nil, err
	}
	return VideoIDSet(items), nil
}
