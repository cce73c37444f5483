package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/veltzer/tubekit/internal/youtube"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = videoItem{}
)

// playlistItem wraps [youtube.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist youtube.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string       { return i.playlist.Title }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d items", i.playlist.ItemCount)
}

// videoItem wraps [youtube.Item] to implement [list.Item].
type videoItem struct {
	item youtube.Item
}

func (i videoItem) FilterValue() string { return i.item.Title }
func (i videoItem) Title() string       { return i.item.Title }
func (i videoItem) Description() string {
	desc := i.item.VideoID
	if i.item.Channel != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.item.Channel)
	}
	return desc
}
