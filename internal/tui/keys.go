package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the table's key bindings
type KeyMap struct {
	Bet      key.Binding
	Hit      key.Binding
	Stand    key.Binding
	NewRound key.Binding
	Reset    key.Binding
	Scroll   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Bet: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6"),
			key.WithHelp("1-6", "bet chip"),
		),
		Hit: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hit"),
		),
		Stand: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stand"),
		),
		NewRound: key.NewBinding(
			key.WithKeys("n", "enter"),
			key.WithHelp("n", "new round"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "pgup", "pgdown"),
			key.WithHelp("↑/↓", "history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Bet, k.Hit, k.Stand, k.NewRound, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Bet, k.Hit, k.Stand},
		{k.NewRound, k.Reset, k.Scroll, k.Quit},
	}
}
