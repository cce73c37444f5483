// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist cleanup:
//  1. [PlaylistListView] : Browse and select the account's playlists
//  2. [ItemListView] : Preview playlist items before cleaning
//  3. [ConfirmView] : Review the dry-run counts and confirm
//  4. [RunView] : Monitor real-time progress updates
//  5. [ResultView] : Display what was removed
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the cleanup engine, providing non-blocking status reporting during deletion.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
