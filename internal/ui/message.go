package ui

import (
	"github.com/veltzer/tubekit/internal/tasks"
	"github.com/veltzer/tubekit/internal/youtube"
)

// Messages delivered to the model by background commands.

type playlistsFetchedMsg struct {
	playlists []youtube.Playlist
	err       error
}

type itemsFetchedMsg struct {
	playlist youtube.Playlist
	items    []youtube.Item
	err      error
}

type previewComputedMsg struct {
	preview tasks.CleanupResult
	err     error
}

type progressUpdateMsg tasks.ProgressUpdate

type cleanupCompleteMsg struct {
	result tasks.CleanupResult
	err    error
}
