package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	search key.Binding
	first  key.Binding
	second key.Binding
	focus  key.Binding
	back   key.Binding
	quit   key.Binding
	force  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		search: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		first:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "pick as movie 1")),
		second: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "pick as movie 2")),
		focus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to search")),
		quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		force:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.focus, k.force}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.search, k.focus, k.back},
		{k.up, k.down, k.first, k.second},
		{k.quit, k.force},
	}
}
