package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings of the reader.
type KeyMap struct {
	// Sidebar shows or hides the table of contents.
	Sidebar key.Binding

	// Next and Prev follow the page sequence.
	Next key.Binding
	Prev key.Binding

	// Version cycles through the version selector.
	Version key.Binding

	// Up and Down move the table of contents cursor, or scroll the page
	// while the sidebar is closed.
	Up   key.Binding
	Down key.Binding

	// Open navigates to the page under the cursor.
	Open key.Binding

	// Back returns to the previous route.
	Back key.Binding

	// Quit exits the reader.
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Sidebar: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "contents"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p", "prev"),
		),
		Version: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "version"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sidebar, k.Next, k.Prev, k.Version, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Sidebar, k.Up, k.Down, k.Open},
		{k.Next, k.Prev, k.Version, k.Back, k.Quit},
	}
}
