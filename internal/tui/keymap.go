package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Builder actions
	Select    key.Binding
	Complete  key.Binding
	Random    key.Binding
	FillEmpty key.Binding
	ClearSlot key.Binding
	Reset     key.Binding
	Rate      key.Binding

	// Catalog actions
	Delete  key.Binding
	Refresh key.Binding

	// Application
	TogglePane  key.Binding
	ToggleHelp  key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
	ClearScreen key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "previous role"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "next role"),
		),

		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "place item in outfit"),
		),
		Complete: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "build around item"),
		),
		Random: key.NewBinding(
			key.WithKeys("g", "space"),
			key.WithHelp("g/Space", "random outfit"),
		),
		FillEmpty: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fill empty slots"),
		),
		ClearSlot: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear slot"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset builder"),
		),
		Rate: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "rate outfit"),
		),

		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete item"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "refresh"),
		),

		TogglePane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "switch pane"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/Esc", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
		ClearScreen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("Ctrl+L", "clear screen"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleHelp, k.Select, k.Random, k.Rate, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Complete, k.Random, k.FillEmpty},
		{k.ClearSlot, k.Reset, k.Rate},
		{k.Delete, k.Refresh, k.TogglePane},
		{k.ToggleHelp, k.Quit},
	}
}
