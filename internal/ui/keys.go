package ui

import "github.com/charmbracelet/bubbles/key"

// GState represents the state for "gg" navigation.
type GState int

const (
	GStateIdle GState = iota
	GStateFirstG
)

// KeyMap defines the application-level keybindings. Table keys (paging,
// sorting, columns, search) live in table.KeyMap.
type KeyMap struct {
	NextTab    key.Binding
	PrevTab    key.Binding
	Users      key.Binding
	Orders     key.Binding
	Categories key.Binding
	Dashboard  key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Delete     key.Binding
	Undo       key.Binding
	Redo       key.Binding
	Copy       key.Binding
	Reload     key.Binding
	Quit       key.Binding
	Help       key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev tab"),
		),
		Users: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "users"),
		),
		Orders: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "orders"),
		),
		Categories: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "categories"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "dashboard"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy url"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-sign"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}
