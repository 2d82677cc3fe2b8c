package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidParams is returned by ParseParams for unusable query strings.
var ErrInvalidParams = errors.New("invalid table params")

// Params is what a FetchFunc receives.
type Params struct {
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	SearchText string   `json:"search_text,omitempty"`
	SortColumn string   `json:"sort_column,omitempty"`
	SortOrder  Order    `json:"sort_order,omitempty"`
	Filters    []Filter `json:"filters"`
}

// BuildParams translates table state into fetch parameters. Filters are
// forwarded as given, including ones with no values.
func BuildParams(st State) Params {
	p := Params{
		Page:       st.Page,
		Limit:      st.Limit,
		SearchText: st.SearchText,
		Filters:    st.Clone().Filters,
	}
	if p.Filters == nil {
		p.Filters = []Filter{}
	}
	if st.Sort != nil && st.Sort.Column != "" {
		p.SortColumn = st.Sort.Column
		p.SortOrder = st.Sort.Order
	}
	return p
}

// Offset is the zero-based row offset of the requested page.
func (p Params) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Values encodes the params as a query string. Filters travel as one JSON
// encoded parameter.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	if p.SearchText != "" {
		v.Set("search_text", p.SearchText)
	}
	if p.SortColumn != "" {
		v.Set("sort_column", p.SortColumn)
		v.Set("sort_order", string(p.SortOrder))
	}
	filters := p.Filters
	if filters == nil {
		filters = []Filter{}
	}
	data, _ := json.Marshal(filters)
	v.Set("filters", string(data))
	return v
}

// ParseParams is the inverse of Values. Missing page/limit fall back to the
// defaults.
func ParseParams(v url.Values) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit, Filters: []Filter{}}

	if raw := v.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Params{}, fmt.Errorf("%w: page %q", ErrInvalidParams, raw)
		}
		p.Page = n
	}
	if raw := v.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Params{}, fmt.Errorf("%w: limit %q", ErrInvalidParams, raw)
		}
		p.Limit = n
	}

	p.SearchText = v.Get("search_text")

	if col := v.Get("sort_column"); col != "" {
		p.SortColumn = col
		switch Order(strings.ToUpper(v.Get("sort_order"))) {
		case Desc:
			p.SortOrder = Desc
		case Asc, "":
			p.SortOrder = Asc
		default:
			return Params{}, fmt.Errorf("%w: sort_order %q", ErrInvalidParams, v.Get("sort_order"))
		}
	}

	if raw := v.Get("filters"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Filters); err != nil {
			return Params{}, fmt.Errorf("%w: filters: %v", ErrInvalidParams, err)
		}
		if p.Filters == nil {
			p.Filters = []Filter{}
		}
		for _, f := range p.Filters {
			for _, v := range f.Value {
				switch v.(type) {
				case []any, map[string]any:
					return Params{}, fmt.Errorf("%w: filter %q: values must be scalars", ErrInvalidParams, f.ID)
				}
			}
		}
	}
	return p, nil
}
