package table

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParamsWithoutSort(t *testing.T) {
	p := BuildParams(State{Page: 2, Limit: 20})

	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Empty(t, p.SortColumn)
	assert.Empty(t, p.SortOrder)
	assert.NotNil(t, p.Filters)
	assert.Empty(t, p.Filters)
}

func TestBuildParamsWithSortAndFilters(t *testing.T) {
	st := State{
		Page:       1,
		Limit:      10,
		Sort:       &Sort{Column: "placed_at", Order: Desc},
		SearchText: "ORD-1",
		Filters: []Filter{
			{ID: "status", Value: []any{"paid"}},
			{ID: "currency", Value: []any{}},
		},
	}
	p := BuildParams(st)

	assert.Equal(t, "placed_at", p.SortColumn)
	assert.Equal(t, Desc, p.SortOrder)
	assert.Equal(t, "ORD-1", p.SearchText)
	assert.Equal(t, st.Filters, p.Filters)

	p.Filters[0].Value[0] = "refunded"
	assert.Equal(t, "paid", st.Filters[0].Value[0])
}

func TestParamsOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, Params{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, Params{Page: 0, Limit: 20}.Offset())
}

func TestParamsValuesRoundTrip(t *testing.T) {
	in := Params{
		Page:       3,
		Limit:      30,
		SearchText: "bob",
		SortColumn: "name",
		SortOrder:  Asc,
		Filters:    []Filter{{ID: "role", Value: []any{"admin", "staff"}}},
	}

	out, err := ParseParams(in.Values())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseParamsDefaults(t *testing.T) {
	p, err := ParseParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, Params{Page: 1, Limit: 10, Filters: []Filter{}}, p)
}

func TestParseParamsRejectsGarbage(t *testing.T) {
	for _, q := range []string{
		"page=0",
		"page=abc",
		"limit=-1",
		"sort_column=name&sort_order=sideways",
		"filters=not-json",
	} {
		v, err := url.ParseQuery(q)
		require.NoError(t, err)
		_, err = ParseParams(v)
		assert.ErrorIs(t, err, ErrInvalidParams, q)
	}
}

func TestParseParamsRejectsNestedFilterValues(t *testing.T) {
	for _, raw := range []string{
		`[{"id":"role","value":[["admin"]]}]`,
		`[{"id":"role","value":[{"name":"admin"}]}]`,
	} {
		_, err := ParseParams(url.Values{"filters": {raw}})
		assert.ErrorIs(t, err, ErrInvalidParams, raw)
	}

	p, err := ParseParams(url.Values{"filters": {`[{"id":"items","value":[3,"x",true,null]}]`}})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(3), "x", true, nil}, p.Filters[0].Value)
}

func TestParseParamsSortOrderDefaultsToAsc(t *testing.T) {
	p, err := ParseParams(url.Values{"sort_column": {"email"}, "sort_order": {"desc"}})
	require.NoError(t, err)
	assert.Equal(t, Desc, p.SortOrder)

	p, err = ParseParams(url.Values{"sort_column": {"email"}})
	require.NoError(t, err)
	assert.Equal(t, Asc, p.SortOrder)
}
