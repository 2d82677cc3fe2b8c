package table

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keys a table reacts to while focused.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	BiggerPage  key.Binding
	SmallerPage key.Binding
	NextColumn  key.Binding
	PrevColumn  key.Binding
	Sort        key.Binding
	ClearSort   key.Binding
	HideColumn  key.Binding
	ShowColumns key.Binding
	FilterValue key.Binding
	ClearFilter key.Binding
	Search      key.Binding
	EndSearch   key.Binding
	Refresh     key.Binding
}

// DefaultKeyMap returns the default table keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "prev page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("{", "home"),
			key.WithHelp("{", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("}", "end"),
			key.WithHelp("}", "last page"),
		),
		BiggerPage: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more rows"),
		),
		SmallerPage: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer rows"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next col"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev col"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		ClearSort: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "clear sort"),
		),
		HideColumn: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "hide col"),
		),
		ShowColumns: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "show cols"),
		),
		FilterValue: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter value"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "clear filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		EndSearch: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter/esc", "done"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
	}
}
