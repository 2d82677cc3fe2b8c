package table

import (
	"encoding/json"
	"fmt"
	"slices"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "ASC"
	Desc Order = "DESC"
)

// Sort is the single active sort of a table.
type Sort struct {
	Column string `json:"column"`
	Order  Order  `json:"order"`
}

// Filter is a multi-select filter on one column.
type Filter struct {
	ID    string `json:"id"`
	Value []any  `json:"value"`
}

// State is the persisted pagination, sort, filter and search configuration
// of one table.
type State struct {
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	Sort       *Sort    `json:"sort,omitempty"`
	SearchText string   `json:"search_text,omitempty"`
	Filters    []Filter `json:"filters"`
}

// DefaultState returns the state of a table that has never been touched.
func DefaultState() State {
	return State{Page: DefaultPage, Limit: DefaultLimit}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (s State) Clone() State {
	out := s
	if s.Sort != nil {
		srt := *s.Sort
		out.Sort = &srt
	}
	if s.Filters != nil {
		out.Filters = make([]Filter, len(s.Filters))
		for i, f := range s.Filters {
			out.Filters[i] = Filter{ID: f.ID, Value: slices.Clone(f.Value)}
		}
	}
	return out
}

// WithPage sets the current page. Values are not validated here.
func (s State) WithPage(page int) State {
	out := s.Clone()
	out.Page = page
	return out
}

// WithLimit sets the page size and keeps the current page.
func (s State) WithLimit(limit int) State {
	out := s.Clone()
	out.Limit = limit
	return out
}

// WithSort replaces the active sort. A nil sort clears it.
func (s State) WithSort(srt *Sort) State {
	out := s.Clone()
	if srt == nil {
		out.Sort = nil
		return out
	}
	cp := *srt
	out.Sort = &cp
	return out
}

// ToggleSort cycles the sort of column: ASC, DESC, then off. Picking a
// different column replaces the previous sort.
func (s State) ToggleSort(column string) State {
	switch {
	case s.Sort == nil || s.Sort.Column != column:
		return s.WithSort(&Sort{Column: column, Order: Asc})
	case s.Sort.Order == Asc:
		return s.WithSort(&Sort{Column: column, Order: Desc})
	default:
		return s.WithSort(nil)
	}
}

// WithSearch sets the settled search text and resets to the first page.
func (s State) WithSearch(text string) State {
	out := s.Clone()
	out.SearchText = text
	out.Page = DefaultPage
	return out
}

// Filter returns the filter values for id.
func (s State) Filter(id string) ([]any, bool) {
	for _, f := range s.Filters {
		if f.ID == id {
			return f.Value, true
		}
	}
	return nil, false
}

// SetFilter replaces the values of filter id, keeping its position, or
// appends it. An empty values slice is kept as is. Values are stored in the
// form they decode to from JSON, so an int becomes a float64.
func (s State) SetFilter(id string, values []any) State {
	out := s.Clone()
	values = jsonValues(values)
	for i := range out.Filters {
		if out.Filters[i].ID == id {
			out.Filters[i].Value = values
			return out
		}
	}
	out.Filters = append(out.Filters, Filter{ID: id, Value: values})
	return out
}

func jsonValues(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = jsonValue(v)
	}
	return out
}

func jsonValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return v
	}
	return decoded
}

// ToggleFilterValue adds v to filter id, or removes it when already present.
// Removing the last value removes the whole filter.
func (s State) ToggleFilterValue(id string, v any) State {
	values, _ := s.Filter(id)
	idx := slices.IndexFunc(values, func(x any) bool { return sameValue(x, v) })
	if idx < 0 {
		return s.SetFilter(id, append(slices.Clone(values), v))
	}
	next := slices.Delete(slices.Clone(values), idx, idx+1)
	if len(next) == 0 {
		return s.RemoveFilter(id)
	}
	return s.SetFilter(id, next)
}

// RemoveFilter drops filter id entirely.
func (s State) RemoveFilter(id string) State {
	out := s.Clone()
	out.Filters = slices.DeleteFunc(out.Filters, func(f Filter) bool { return f.ID == id })
	if len(out.Filters) == 0 {
		out.Filters = nil
	}
	return out
}

func (s State) valid() bool {
	return s.Page >= 1 && s.Limit >= 1
}

// sameValue compares filter values by their printed form, so 3 matches a
// stored float64(3).
func sameValue(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}
