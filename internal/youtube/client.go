// Package youtube wraps the YouTube Data API v3 for bulk playlist
// maintenance: paginated listing, name resolution, and item mutations.
//
// All remote calls run sequentially, gated by a shared rate limiter and
// wrapped with retry on transient failures. The client holds no state beyond
// its configuration; item snapshots live only for the duration of a command.
package youtube

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/veltzer/tubekit/internal/retry"
	"github.com/veltzer/tubekit/internal/shared"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// DefaultPageSize is the page size for list calls. The server caps it at 50.
const DefaultPageSize int64 = 50

// Client talks to the YouTube Data API v3 on behalf of one account.
type Client struct {
	svc      *yt.Service
	logger   *log.Logger
	pageSize int64
	retryCfg retry.Config
	limiter  *rate.Limiter

	// strictPaging makes a repeated page cursor a hard error instead of a
	// warn-and-stop. Cursors can go stale if another client mutates the
	// playlist mid-fetch; callers choose whether approximate results are
	// acceptable.
	strictPaging bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithPageSize sets the page size for list calls.
func WithPageSize(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithRetryConfig replaces the default retry policy.
func WithRetryConfig(cfg retry.Config) ClientOption {
	return func(c *Client) { c.retryCfg = cfg }
}

// WithRateLimit sets the requests-per-second budget for remote calls.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithStrictPaging makes the client fail on repeated page cursors.
func WithStrictPaging() ClientOption {
	return func(c *Client) { c.strictPaging = true }
}

// NewClient creates a Client over an authenticated HTTP client.
//
// Extra google API options (endpoint overrides for tests, API keys) go in
// gopts.
func NewClient(ctx context.Context, httpClient *http.Client, logger *log.Logger, opts []ClientOption, gopts ...option.ClientOption) (*Client, error) {
	all := make([]option.ClientOption, 0, len(gopts)+1)
	if httpClient != nil {
		all = append(all, option.WithHTTPClient(httpClient))
	}
	all = append(all, gopts...)

	svc, err := yt.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	c := &Client{
		svc:      svc,
		logger:   logger,
		pageSize: DefaultPageSize,
		retryCfg: retry.DefaultConfig(),
		limiter:  rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do runs one remote call through the rate limiter and retry wrapper.
func (c *Client) do(ctx context.Context, fn func() error) error {
	return retry.Do(ctx, c.retryCfg, c.logger, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		return fn()
	})
}

// fetchPages drives a cursor-paginated endpoint to completion.
//
// page receives the last-seen cursor ("" on the first call), appends its
// items wherever the caller accumulates them, and returns the next cursor.
// An empty next cursor ends the sequence. A cursor the server already issued
// in this sequence means the collection changed under us; strict clients
// error, tolerant ones keep what they have.
func (c *Client) fetchPages(ctx context.Context, page func(token string) (next string, err error)) error {
	token := ""
	issued := map[string]bool{}
	for {
		var next string
		err := c.do(ctx, func() error {
			var err error
			next, err = page(token)
			return err
		})
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}
		if issued[next] {
			if c.strictPaging {
				return fmt.Errorf("%w: %q", shared.ErrStaleCursor, next)
			}
			if c.logger != nil {
				c.logger.Warn("server repeated a page cursor, stopping with partial results", "cursor", next)
			}
			return nil
		}
		issued[next] = true
		token = next
	}
}

// ListPlaylists returns every playlist owned by the authenticated account, in
// server order.
func (c *Client) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	var out []Playlist
	err := c.fetchPages(ctx, func(token string) (string, error) {
		call := c.svc.Playlists.List([]string{"snippet", "contentDetails"}).
			Mine(true).
			MaxResults(c.pageSize).
			Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}
		resp, err := call.Do()
		if err != nil {
			return "", wrapAPIError(err)
		}
		for _, p := range resp.Items {
			pl := Playlist{ID: p.Id}
			if p.Snippet != nil {
				pl.Title = p.Snippet.Title
			}
			if p.ContentDetails != nil {
				pl.ItemCount = p.ContentDetails.ItemCount
			}
			out = append(out, pl)
		}
		return resp.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListItems returns every item in a playlist, in playlist order.
func (c *Client) ListItems(ctx context.Context, playlistID string) ([]Item, error) {
	var out []Item
	err := c.fetchPages(ctx, func(token string) (string, error) {
		call := c.svc.PlaylistItems.List([]string{"snippet", "id"}).
			PlaylistId(playlistID).
			MaxResults(c.pageSize).
			Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}
		resp, err := call.Do()
		if err != nil {
			return "", wrapAPIError(err)
		}
		for _, pi := range resp.Items {
			item := Item{ID: pi.Id}
			if pi.Snippet != nil {
				item.Title = pi.Snippet.Title
				item.Channel = pi.Snippet.VideoOwnerChannelTitle
				item.PublishedAt = pi.Snippet.PublishedAt
				item.Position = pi.Snippet.Position
				if pi.Snippet.ResourceId != nil {
					item.VideoID = pi.Snippet.ResourceId.VideoId
				}
			}
			out = append(out, item)
		}
		return resp.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InsertItem appends a video to the end of a playlist.
func (c *Client) InsertItem(ctx context.Context, playlistID, videoID string) error {
	if c.logger != nil {
		c.logger.Info("adding video to playlist", "video", videoID, "playlist", playlistID)
	}
	return c.do(ctx, func() error {
		_, err := c.svc.PlaylistItems.Insert([]string{"snippet"}, &yt.PlaylistItem{
			Snippet: &yt.PlaylistItemSnippet{
				PlaylistId: playlistID,
				ResourceId: &yt.ResourceId{
					Kind:    "youtube#video",
					VideoId: videoID,
				},
			},
		}).Context(ctx).Do()
		return wrapAPIError(err)
	})
}

// DeleteItem removes a playlist membership by its item id.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	if c.logger != nil {
		c.logger.Info("deleting playlist item", "item", itemID)
	}
	return c.do(ctx, func() error {
		return wrapAPIError(c.svc.PlaylistItems.Delete(itemID).Context(ctx).Do())
	})
}

// CreatePlaylist creates a playlist and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, title, description, privacy string) (string, error) {
	if privacy == "" {
		privacy = "private"
	}
	var id string
	err := c.do(ctx, func() error {
		pl, err := c.svc.Playlists.Insert([]string{"snippet", "status"}, &yt.Playlist{
			Snippet: &yt.PlaylistSnippet{
				Title:       title,
				Description: description,
			},
			Status: &yt.PlaylistStatus{PrivacyStatus: privacy},
		}).Context(ctx).Do()
		if err != nil {
			return wrapAPIError(err)
		}
		id = pl.Id
		return nil
	})
	return id, err
}

// RenamePlaylist changes a playlist's title.
func (c *Client) RenamePlaylist(ctx context.Context, playlistID, newTitle string) error {
	return c.do(ctx, func() error {
		_, err := c.svc.Playlists.Update([]string{"snippet"}, &yt.Playlist{
			Id: playlistID,
			Snippet: &yt.PlaylistSnippet{
				Title: newTitle,
			},
		}).Context(ctx).Do()
		return wrapAPIError(err)
	})
}

// DeletePlaylist removes a playlist entirely.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	return c.do(ctx, func() error {
		return wrapAPIError(c.svc.Playlists.Delete(playlistID).Context(ctx).Do())
	})
}

// VideoInfo fetches full snippet, status, and content details for one video.
func (c *Client) VideoInfo(ctx context.Context, videoID string) (*yt.Video, error) {
	var video *yt.Video
	err := c.do(ctx, func() error {
		resp, err := c.svc.Videos.List([]string{"snippet", "status", "contentDetails"}).
			Id(videoID).
			Context(ctx).
			Do()
		if err != nil {
			return wrapAPIError(err)
		}
		if len(resp.Items) == 0 {
			return fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
		}
		video = resp.Items[0]
		return nil
	})
	return video, err
}

// ChannelID returns the authenticated account's channel id.
func (c *Client) ChannelID(ctx context.Context) (string, error) {
	var id string
	err := c.do(ctx, func() error {
		resp, err := c.svc.Channels.List([]string{"id"}).Mine(true).Context(ctx).Do()
		if err != nil {
			return wrapAPIError(err)
		}
		if len(resp.Items) == 0 {
			return fmt.Errorf("%w: account has no channel", shared.ErrAPIRequest)
		}
		id = resp.Items[0].Id
		return nil
	})
	return id, err
}

// Channels returns the authenticated account's channels with snippet,
// content details, and statistics.
func (c *Client) Channels(ctx context.Context) ([]*yt.Channel, error) {
	var out []*yt.Channel
	err := c.do(ctx, func() error {
		resp, err := c.svc.Channels.List([]string{"snippet", "contentDetails", "statistics"}).
			Mine(true).
			Context(ctx).
			Do()
		if err != nil {
			return wrapAPIError(err)
		}
		out = resp.Items
		return nil
	})
	return out, err
}

// wrapAPIError tags quota failures with the shared sentinel so callers can
// distinguish them from other API errors after retries are exhausted.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*googleapi.Error); ok && (apiErr.Code == 403 || apiErr.Code == 429) {
		// Both sentinels are kept in the chain: retry still sees the
		// googleapi status, callers see the quota classification.
		return fmt.Errorf("%w: %w", shared.ErrQuotaExceeded, err)
	}
	return err
}
