package youtube

// Sentinel titles the API substitutes for content that is gone or hidden.
const (
	DeletedTitle = "Deleted video"
	PrivateTitle = "Private video"
)

// MaxPlaylistItems is the hard server-side cap on items in a single playlist.
const MaxPlaylistItems = 5000

// Playlist is a playlist owned by the authenticated account.
type Playlist struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ItemCount int64  `json:"item_count"`
}

// Item is a single playlist membership record.
//
// ID is the membership handle used for deletion; VideoID identifies the
// underlying video and is the key for dedup and set operations. The two must
// never be confused.
type Item struct {
	ID          string `json:"id"`
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Channel     string `json:"channel,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Position    int64  `json:"position"`
}

// Deleted reports whether the item's video has been removed from the service.
func (i Item) Deleted() bool { return i.Title == DeletedTitle }

// Privatized reports whether the item's video has been made private.
func (i Item) Privatized() bool { return i.Title == PrivateTitle }

// VideoIDSet collects the distinct video ids of a batch of items.
func VideoIDSet(items []Item) map[string]struct{} {
	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		ids[item.VideoID] = struct{}{}
	}
	return ids
}

// WatchLaterID derives the Watch Later playlist id from a channel id.
func WatchLaterID(channelID string) string {
	if len(channelID) < 2 {
		return ""
	}
	return channelID[:1] + "L" + channelID[2:]
}
