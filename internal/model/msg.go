package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// InfoMsg is a transient status line message.
type InfoMsg struct {
	Text string
}

// RowDeletedMsg is sent after a row was deleted from a resource.
type RowDeletedMsg struct {
	Screen Screen
	ID     int64
	Label  string
	Row    any
}

// Screen represents different app screens.
type Screen int

const (
	ScreenUsers Screen = iota
	ScreenOrders
	ScreenCategories
	ScreenDashboard
)

// Route is the slash path of a screen, used for breadcrumbs.
func (s Screen) Route() string {
	switch s {
	case ScreenUsers:
		return "/users"
	case ScreenOrders:
		return "/orders"
	case ScreenCategories:
		return "/categories"
	case ScreenDashboard:
		return "/dashboard"
	default:
		return "/"
	}
}

// Title is the tab label of a screen.
func (s Screen) Title() string {
	switch s {
	case ScreenUsers:
		return "Users"
	case ScreenOrders:
		return "Orders"
	case ScreenCategories:
		return "Categories"
	case ScreenDashboard:
		return "Dashboard"
	default:
		return ""
	}
}

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeSearch
)
