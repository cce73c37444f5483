package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings for the cleanup workflow. confirm and cancel
// only apply on the confirm view, again only on the result view.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	confirm key.Binding
	cancel  key.Binding
	again   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "delete")),
		cancel:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "keep")),
		again:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "clean another")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.confirm, k.cancel, k.again, k.quit},
	}
}
