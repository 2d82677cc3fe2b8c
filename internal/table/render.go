package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// RowKind distinguishes data rows from placeholders.
type RowKind int

const (
	RowData RowKind = iota
	RowSkeleton
	RowEmpty
)

// NoResults is the text of the empty-state row.
const NoResults = "No results"

const skeletonGlyph = "░"

// HeaderCell is one rendered header.
type HeaderCell struct {
	ColumnID string
	Title    string
	Width    int
	Align    lipgloss.Position
	Sort     Order
	Active   bool
	Filtered bool
}

// FrameRow is one rendered body row.
type FrameRow struct {
	Kind     RowKind
	Index    int
	Cells    []string
	Span     int
	Shaded   bool
	Dimmed   bool
	Selected bool
}

// PagerView is the state of the pagination control.
type PagerView struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	From       int
	To         int
	Window     []PageItem
	CanPrev    bool
	CanNext    bool
}

// Frame is the full output of one render pass, before styling.
type Frame struct {
	Header  []HeaderCell
	Rows    []FrameRow
	Overlay bool
	Pager   PagerView
}

// RenderInput is everything a render pass reads.
type RenderInput[Row any] struct {
	Columns      *ColumnSet[Row]
	Rows         []Row
	Loading      bool
	Total        int
	State        State
	Cursor       int
	ActiveColumn string
}

// Layout computes header, body and pager for the visible columns.
//
// While loading with no rows it emits one skeleton row per requested row.
// While loading over existing rows it keeps them, dimmed, with an overlay.
// With no rows and no load in flight it emits a single spanning empty row.
func Layout[Row any](in RenderInput[Row]) Frame {
	visible := in.Columns.Visible()

	var f Frame
	f.Header = make([]HeaderCell, 0, len(visible))
	for _, c := range visible {
		h := HeaderCell{
			ColumnID: c.ID,
			Title:    c.Title(),
			Width:    c.Meta.Width,
			Align:    c.Meta.Align,
			Active:   c.ID == in.ActiveColumn,
		}
		if in.State.Sort != nil && in.State.Sort.Column == c.ID {
			h.Sort = in.State.Sort.Order
		}
		if _, ok := in.State.Filter(c.ID); ok {
			h.Filtered = true
		}
		f.Header = append(f.Header, h)
	}

	switch {
	case in.Loading && len(in.Rows) == 0:
		n := in.State.Limit
		if n < 1 {
			n = DefaultLimit
		}
		f.Rows = make([]FrameRow, 0, n)
		for i := 0; i < n; i++ {
			cells := make([]string, len(visible))
			for j, c := range visible {
				cells[j] = strings.Repeat(skeletonGlyph, max(3, min(c.Meta.Width, 12)-2))
			}
			f.Rows = append(f.Rows, FrameRow{Kind: RowSkeleton, Index: i, Cells: cells, Shaded: i%2 == 1})
		}

	case len(in.Rows) == 0:
		f.Rows = []FrameRow{{Kind: RowEmpty, Cells: []string{NoResults}, Span: len(visible)}}

	default:
		f.Overlay = in.Loading
		f.Rows = make([]FrameRow, 0, len(in.Rows))
		for i, row := range in.Rows {
			cells := make([]string, len(visible))
			for j, c := range visible {
				cells[j] = c.Render(row)
			}
			f.Rows = append(f.Rows, FrameRow{
				Kind:     RowData,
				Index:    i,
				Cells:    cells,
				Shaded:   i%2 == 1,
				Dimmed:   in.Loading,
				Selected: i == in.Cursor && !in.Loading,
			})
		}
	}

	f.Pager = pagerView(in.State, in.Total)
	return f
}

func pagerView(st State, total int) PagerView {
	pages := TotalPages(total, st.Limit)
	from, to := RowRange(st.Page, st.Limit, total)
	return PagerView{
		Page:       st.Page,
		Limit:      st.Limit,
		Total:      total,
		TotalPages: pages,
		From:       from,
		To:         to,
		Window:     PageWindow(st.Page, pages),
		CanPrev:    CanPrev(st.Page),
		CanNext:    CanNext(st.Page, pages),
	}
}

// View styles a frame for a terminal of the given width. spinner is the
// current spinner glyph shown in the loading overlay.
func (f Frame) View(width int, spinner string, s Styles) string {
	if len(f.Header) == 0 {
		return s.Status.Render("No visible columns. Press C to show all columns.")
	}

	widths := make([]int, len(f.Header))
	titles := make([]string, len(f.Header))
	total := 0
	for i, h := range f.Header {
		label := strings.ToUpper(h.Title)
		if h.Active {
			label = "❋ " + label
		}
		switch h.Sort {
		case Asc:
			label += " ↑"
		case Desc:
			label += " ↓"
		}
		if h.Filtered {
			label += " ⧩"
		}
		titles[i] = label
		widths[i] = max(h.Width, lipgloss.Width(label)+2)
		total += widths[i]
	}
	if extra := width - total - 4; extra > 0 {
		widths[len(widths)-1] += extra
		total += extra
	}

	lines := []string{renderRow(titles, widths, f.Header, s.Header)}
	for _, r := range f.Rows {
		switch r.Kind {
		case RowEmpty:
			lines = append(lines, s.Empty.Width(total).Render(r.Cells[0]))
		case RowSkeleton:
			lines = append(lines, renderRow(r.Cells, widths, f.Header, s.Skeleton))
		default:
			style := s.Row
			switch {
			case r.Dimmed:
				style = s.Dimmed
			case r.Selected:
				style = s.Selected
			case r.Shaded:
				style = s.Shaded
			}
			lines = append(lines, renderRow(r.Cells, widths, f.Header, style))
		}
	}
	if f.Overlay {
		lines = append(lines, s.Overlay.Width(total).Render(spinner+" Loading…"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(lines, "\n"),
		"",
		f.Pager.View(s),
	)
}

// View renders the pager line: range, page window, size.
func (p PagerView) View(s Styles) string {
	var parts []string

	prev := s.PageOff.Render("‹ prev")
	if p.CanPrev {
		prev = s.PageOn.UnsetUnderline().Render("‹ prev")
	}
	parts = append(parts, prev)

	for _, item := range p.Window {
		switch {
		case item.Gap:
			parts = append(parts, s.PageOff.Render(item.String()))
		case item.Page == p.Page:
			parts = append(parts, s.PageOn.Render(item.String()))
		default:
			parts = append(parts, s.PageOff.Render(item.String()))
		}
	}

	next := s.PageOff.Render("next ›")
	if p.CanNext {
		next = s.PageOn.UnsetUnderline().Render("next ›")
	}
	parts = append(parts, next)

	summary := fmt.Sprintf("Showing %d–%d of %d  ·  %d per page", p.From, p.To, p.Total, p.Limit)
	if p.Total == 0 {
		summary = fmt.Sprintf("0 rows  ·  %d per page", p.Limit)
	}
	return s.Pager.Render(strings.Join(parts, " ") + "   " + summary)
}

func renderRow(cells []string, widths []int, header []HeaderCell, style lipgloss.Style) string {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		st := style.Width(widths[i])
		if i < len(header) {
			st = st.Align(header[i].Align)
		}
		parts = append(parts, st.Render(truncate(cell, widths[i]-2)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

// truncate cuts s to at most n terminal cells, wide characters included.
func truncate(s string, n int) string {
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	if n < 2 {
		return ansi.Truncate(s, n, "")
	}
	return ansi.Truncate(s, n, "…")
}
