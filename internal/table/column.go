package table

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ColumnMeta carries optional presentation hints.
type ColumnMeta struct {
	Label           string
	Width           int
	Align           lipgloss.Position
	HiddenByDefault bool
}

// Column describes how one column reads and renders a Row.
type Column[Row any] struct {
	ID         string
	Header     string
	HeaderFunc func() string
	Accessor   func(Row) any
	Cell       func(Row) string
	Sortable   bool
	Hideable   bool
	Filterable bool
	Meta       ColumnMeta
}

// Title is the header text: HeaderFunc, then Meta.Label, then Header, then ID.
func (c Column[Row]) Title() string {
	switch {
	case c.HeaderFunc != nil:
		return c.HeaderFunc()
	case c.Meta.Label != "":
		return c.Meta.Label
	case c.Header != "":
		return c.Header
	default:
		return c.ID
	}
}

// Value reads the raw value of the column from row.
func (c Column[Row]) Value(row Row) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(row)
}

// Render formats the cell for row.
func (c Column[Row]) Render(row Row) string {
	if c.Cell != nil {
		return c.Cell(row)
	}
	v := c.Value(row)
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// ColumnSet holds the column definitions of a table together with their
// visibility. Hiding a column never removes its definition.
type ColumnSet[Row any] struct {
	cols   []Column[Row]
	hidden map[string]bool
}

// NewColumnSet builds a set, honouring HiddenByDefault.
func NewColumnSet[Row any](cols []Column[Row]) *ColumnSet[Row] {
	cs := &ColumnSet[Row]{
		cols:   append([]Column[Row](nil), cols...),
		hidden: make(map[string]bool, len(cols)),
	}
	for _, c := range cols {
		if c.Meta.HiddenByDefault {
			cs.hidden[c.ID] = true
		}
	}
	cs.ensureOneVisible()
	return cs
}

// All returns every column, hidden or not.
func (cs *ColumnSet[Row]) All() []Column[Row] {
	return cs.cols
}

// Len is the number of defined columns.
func (cs *ColumnSet[Row]) Len() int {
	return len(cs.cols)
}

// At returns the column at index i.
func (cs *ColumnSet[Row]) At(i int) Column[Row] {
	return cs.cols[i]
}

// Lookup finds a column by id.
func (cs *ColumnSet[Row]) Lookup(id string) (Column[Row], bool) {
	for _, c := range cs.cols {
		if c.ID == id {
			return c, true
		}
	}
	return Column[Row]{}, false
}

// IsVisible reports whether column id is shown.
func (cs *ColumnSet[Row]) IsVisible(id string) bool {
	return !cs.hidden[id]
}

// Visible returns the shown columns in definition order.
func (cs *ColumnSet[Row]) Visible() []Column[Row] {
	out := make([]Column[Row], 0, len(cs.cols))
	for _, c := range cs.cols {
		if !cs.hidden[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// VisibleIndexes returns the indexes of shown columns.
func (cs *ColumnSet[Row]) VisibleIndexes() []int {
	var idxs []int
	for i, c := range cs.cols {
		if !cs.hidden[c.ID] {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// Hide hides column id. Non-hideable columns and the last visible column
// stay shown.
func (cs *ColumnSet[Row]) Hide(id string) bool {
	c, ok := cs.Lookup(id)
	if !ok || !c.Hideable || cs.hidden[id] {
		return false
	}
	if len(cs.VisibleIndexes()) <= 1 {
		return false
	}
	cs.hidden[id] = true
	return true
}

// Show makes column id visible again.
func (cs *ColumnSet[Row]) Show(id string) bool {
	if !cs.hidden[id] {
		return false
	}
	delete(cs.hidden, id)
	return true
}

// Toggle flips the visibility of column id.
func (cs *ColumnSet[Row]) Toggle(id string) bool {
	if cs.hidden[id] {
		return cs.Show(id)
	}
	return cs.Hide(id)
}

// ShowAll clears every hidden flag.
func (cs *ColumnSet[Row]) ShowAll() {
	clear(cs.hidden)
}

// Hidden lists hidden column ids in definition order.
func (cs *ColumnSet[Row]) Hidden() []string {
	var ids []string
	for _, c := range cs.cols {
		if cs.hidden[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// SetHidden replaces visibility with the given hidden ids. Unknown ids are
// ignored.
func (cs *ColumnSet[Row]) SetHidden(ids []string) {
	clear(cs.hidden)
	for _, id := range ids {
		if c, ok := cs.Lookup(id); ok && c.Hideable {
			cs.hidden[id] = true
		}
	}
	cs.ensureOneVisible()
}

func (cs *ColumnSet[Row]) ensureOneVisible() {
	if len(cs.cols) == 0 || len(cs.VisibleIndexes()) > 0 {
		return
	}
	delete(cs.hidden, cs.cols[0].ID)
}
