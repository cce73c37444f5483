package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/veltzer/tubekit/internal/tasks"
	"github.com/veltzer/tubekit/internal/youtube"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	ItemListView
	ConfirmView
	RunView
	ResultView
)

// Fetcher loads playlists and their items. *youtube.Client implements it.
type Fetcher interface {
	ListPlaylists(ctx context.Context) ([]youtube.Playlist, error)
	ListItems(ctx context.Context, playlistID string) ([]youtube.Item, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	fetcher      Fetcher
	engine       *tasks.Engine
	opts         tasks.CleanupOpts
	width        int
	height       int
	playlistList list.Model
	playlists    []youtube.Playlist
	itemList     list.Model
	selected     youtube.Playlist
	items        []youtube.Item
	preview      tasks.CleanupResult
	progressChan chan tasks.ProgressUpdate
	doneChan     chan cleanupCompleteMsg
	progress     tasks.ProgressUpdate
	result       tasks.CleanupResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies. opts
// selects which cleanup checks run; Commit is forced on when the user
// confirms, so the caller leaves it unset.
func NewModel(ctx context.Context, fetcher Fetcher, engine *tasks.Engine, opts tasks.CleanupOpts) *Model {
	opts.Commit = false
	return &Model{
		ctx:     ctx,
		view:    PlaylistListView,
		fetcher: fetcher,
		engine:  engine,
		opts:    opts,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the account's playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.itemList.Width() == 0 {
			m.itemList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case ItemListView:
			return m.handleItemListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "YouTube Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case itemsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.selected = msg.playlist
		m.items = msg.items
		items := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			items[i] = videoItem{item: item}
		}
		m.itemList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.itemList.Title = fmt.Sprintf("Items in '%s'", msg.playlist.Title)
		m.itemList.SetSize(m.width-4, m.height-8)
		m.view = ItemListView
		return m, nil

	case previewComputedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ItemListView
			return m, nil
		}
		m.preview = msg.preview
		m.view = ConfirmView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case cleanupCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case ItemListView:
		return m.renderItemList()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				return m, m.fetchItems(pl.playlist)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleItemListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	case "enter":
		return m, m.computePreview()
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = ItemListView
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startCleanup()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PlaylistListView
		m.items = nil
		m.err = nil
		return m, m.fetchPlaylists()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case ItemListView:
		m.itemList, cmd = m.itemList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.fetcher.ListPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) fetchItems(playlist youtube.Playlist) tea.Cmd {
	return func() tea.Msg {
		items, err := m.fetcher.ListItems(m.ctx, playlist.ID)
		return itemsFetchedMsg{playlist: playlist, items: items, err: err}
	}
}

// computePreview runs the cleanup without committing so the confirm view can
// show exact counts before anything is deleted.
func (m *Model) computePreview() tea.Cmd {
	return func() tea.Msg {
		opts := m.opts
		opts.Commit = false
		preview, err := m.engine.Cleanup(m.ctx, m.items, opts, nil)
		return previewComputedMsg{preview: preview, err: err}
	}
}

// startCleanup runs the committed pass in a goroutine. The goroutine never
// touches the model: progress and the final result both travel over channels
// and reach the model as messages through waitForProgress.
func (m *Model) startCleanup() tea.Cmd {
	updates := make(chan tasks.ProgressUpdate, 50)
	done := make(chan cleanupCompleteMsg, 1)
	m.progressChan = updates
	m.doneChan = done

	ctx, engine, items, opts := m.ctx, m.engine, m.items, m.opts
	opts.Commit = true
	go func() {
		result, err := engine.Cleanup(ctx, items, opts, updates)
		close(updates)
		done <- cleanupCompleteMsg{result: result, err: err}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	updates, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if updates == nil {
			return nil
		}

		update, ok := <-updates
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderItemList() string {
	cleanKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "clean"),
	)
	helpKeys := []key.Binding{cleanKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.itemList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Clean up '%s'?", m.selected.Title))
	info := fmt.Sprintf(
		"\nItems: %d\nDuplicates: %d\nDeleted videos: %d\nPrivatized: %d\n\nWould remove %d items.\n",
		m.preview.Seen, m.preview.Duplicates, m.preview.DeletedVideo,
		m.preview.Privatized, m.preview.WantToDelete,
	)

	helpKeys := []key.Binding{m.keys.confirm, m.keys.cancel, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Cleaning Playlist")
	phase := fmt.Sprintf("Checking items (%d/%d)", m.progress.Step, m.progress.Total)
	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Cleanup failed: %v\n\nPress r to restart, q to quit", m.err))
	}

	title := styles.ok.Render("✓ Cleanup Complete!")
	info := fmt.Sprintf(
		"\nPlaylist: %s\nItems seen: %d\nDuplicates: %d\nDeleted videos: %d\nPrivatized: %d\nRemoved: %d",
		m.selected.Title, m.result.Seen, m.result.Duplicates,
		m.result.DeletedVideo, m.result.Privatized, m.result.Deleted,
	)

	helpKeys := []key.Binding{m.keys.again, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
