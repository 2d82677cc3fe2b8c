package table

import "github.com/charmbracelet/lipgloss"

var (
	colorBase    = lipgloss.Color("#1D221E")
	colorSurface = lipgloss.Color("#2A332C")
	colorShade   = lipgloss.Color("#232B24")
	colorMuted   = lipgloss.Color("#7E8C80")
	colorDim     = lipgloss.Color("#4A544C")
	colorText    = lipgloss.Color("#D6E0D3")
	colorAccent  = lipgloss.Color("#8FA082")
	colorRed     = lipgloss.Color("#f38ba8")
)

// Styles used by the render engine.
type Styles struct {
	Header   lipgloss.Style
	Row      lipgloss.Style
	Shaded   lipgloss.Style
	Selected lipgloss.Style
	Dimmed   lipgloss.Style
	Skeleton lipgloss.Style
	Empty    lipgloss.Style
	Overlay  lipgloss.Style
	Pager    lipgloss.Style
	PageOn   lipgloss.Style
	PageOff  lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles matches the application palette.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1).
			Background(colorSurface),
		Row: lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1),
		Shaded: lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorShade).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorAccent).
			Padding(0, 1),
		Dimmed: lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1),
		Skeleton: lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1),
		Empty: lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			Align(lipgloss.Center),
		Overlay: lipgloss.NewStyle().
			Foreground(colorAccent).
			Align(lipgloss.Center),
		Pager: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1),
		PageOn: lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true).
			Underline(true),
		PageOff: lipgloss.NewStyle().
			Foreground(colorMuted),
		Status: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(colorRed).
			Padding(0, 1),
	}
}
