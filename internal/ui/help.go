package ui

import (
	"strings"

	"erp/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	if mode == model.ModeSearch {
		return renderSearchHelp(width)
	}
	if screen == model.ScreenDashboard {
		return renderDashboardHelp(width)
	}
	return renderTableHelp(width)
}

func renderTableHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("[/]", "page"),
		helpKey("+/-", "page size"),
		helpKey("tab", "next col"),
		helpKey("s", "sort"),
		helpKey("f/F", "filter"),
		helpKey("c/C", "hide/show col"),
		helpKey("/", "search"),
		helpKey("d", "delete"),
		helpKey("u/ctrl+r", "undo/redo"),
		helpKey("h/l", "tabs"),
		helpKey("?", "help"),
	}
	return renderHelpLine(keys, width)
}

func renderSearchHelp(width int) string {
	keys := []string{
		helpKey("type", "search"),
		helpKey("enter/esc", "done"),
		helpKey("ctrl+c", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderDashboardHelp(width int) string {
	keys := []string{
		helpKey("y", "copy url"),
		helpKey("r", "re-sign"),
		helpKey("h/l", "tabs"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Tabs"),
		helpSection([]helpItem{
			{"h / ← · l / →", "Previous / next tab"},
			{"1 2 3 4", "Users, Orders, Categories, Dashboard"},
			{"q / ctrl+c", "Quit (clears paging, sort, filters and search)"},
			{"?", "Toggle help"},
		}),
		titleSection("Rows"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"gg / G", "First / last row of the page"},
			{"d", "Delete selected row"},
			{"u / ctrl+r", "Undo / redo"},
		}),
		titleSection("Pages"),
		helpSection([]helpItem{
			{"] / pgdown", "Next page"},
			{"[ / pgup", "Previous page"},
			{"{ / }", "First / last page"},
			{"+ / -", "More / fewer rows per page"},
			{"R", "Refetch current page"},
		}),
		titleSection("Columns"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Cycle active column"},
			{"s", "Sort active column: asc, desc, off"},
			{"S", "Clear sort"},
			{"c / C", "Hide active column / show all"},
			{"f", "Toggle selected value in the column filter"},
			{"F", "Clear the column filter"},
			{"/", "Search (applies after typing pauses)"},
		}),
		titleSection("Dashboard"),
		helpSection([]helpItem{
			{"y", "Copy signed URL"},
			{"r", "Sign a fresh URL"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
