package table

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rows  []person
	calls []Params
	err   error
}

func (f *fakeSource) fetch(_ context.Context, p Params) (Page[person], error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return Page[person]{}, f.err
	}

	var matched []person
	for _, r := range f.rows {
		if p.SearchText != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(p.SearchText)) {
			continue
		}
		if !matchesFilters(r, p.Filters) {
			continue
		}
		matched = append(matched, r)
	}

	start := min(p.Offset(), len(matched))
	end := min(start+p.Limit, len(matched))
	return Page[person]{Rows: matched[start:end], Total: len(matched)}, nil
}

func matchesFilters(r person, filters []Filter) bool {
	for _, f := range filters {
		if f.ID != "role" || len(f.Value) == 0 {
			continue
		}
		ok := false
		for _, v := range f.Value {
			if fmt.Sprint(v) == r.Role {
				ok = true
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// execCmd runs cmd and flattens batches. Spinner ticks are dropped so tests
// never wait on animation timers.
func execCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, execCmd(c)...)
		}
		return out
	case spinner.TickMsg, nil:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

// drive feeds every message produced by cmd back into the model until the
// model settles.
func drive(m *Model[person], cmd tea.Cmd) {
	for _, msg := range execCmd(cmd) {
		drive(m, m.Update(msg, true))
	}
}

func newTestTable(t *testing.T, n int) (*Model[person], *fakeSource, *Store, *mapBackend) {
	t.Helper()
	rows := make([]person, n)
	for i := range rows {
		role := "staff"
		if i%3 == 0 {
			role = "admin"
		}
		rows[i] = person{ID: i + 1, Name: fmt.Sprintf("user%02d", i+1), Role: role}
	}
	src := &fakeSource{rows: rows}
	backend := newMapBackend()
	store := NewStore(backend)
	m := New("people", personColumns(), src.fetch, store)
	return m, src, store, backend
}

func TestModelInitUsesDefaults(t *testing.T) {
	m, src, store, _ := newTestTable(t, 25)

	cmd := m.Init()
	assert.True(t, m.Loading())
	assert.Len(t, m.Frame().Rows, 10, "skeleton rows while the first page loads")
	assert.Equal(t, RowSkeleton, m.Frame().Rows[0].Kind)

	drive(m, cmd)

	require.Len(t, src.calls, 1)
	assert.Equal(t, 1, src.calls[0].Page)
	assert.Equal(t, 10, src.calls[0].Limit)
	assert.Empty(t, src.calls[0].SortColumn)
	assert.False(t, m.Loading())
	assert.Len(t, m.Rows(), 10)
	assert.Equal(t, 25, m.Total())
	assert.Equal(t, 3, m.TotalPages())
	assert.Equal(t, DefaultState(), store.Load("people"))
}

func TestModelInitRestoresPersistedState(t *testing.T) {
	m, src, store, _ := newTestTable(t, 25)
	store.Save("people", State{Page: 2, Limit: 10, Sort: &Sort{Column: "name", Order: Desc}})

	drive(m, m.Init())

	require.Len(t, src.calls, 1)
	assert.Equal(t, 2, src.calls[0].Page)
	assert.Equal(t, "name", src.calls[0].SortColumn)
	assert.Equal(t, Desc, src.calls[0].SortOrder)
	assert.Equal(t, 11, m.Rows()[0].ID)
}

func TestModelDefaultLimitOption(t *testing.T) {
	src := &fakeSource{}
	m := New("people", personColumns(), src.fetch, NewStore(newMapBackend()), WithDefaultLimit(20))

	drive(m, m.Init())

	require.Len(t, src.calls, 1)
	assert.Equal(t, 20, src.calls[0].Limit)
}

func TestModelSearchIsDebouncedAndResetsPage(t *testing.T) {
	m, src, store, _ := newTestTable(t, 40)
	drive(m, m.Init())
	drive(m, m.SetPage(3))
	require.Equal(t, 3, m.State().Page)
	calls := len(src.calls)

	for _, s := range []string{"u", "us", "use", "user", "user1"} {
		assert.NotNil(t, m.SearchInput(s))
	}
	for seq := 1; seq <= 4; seq++ {
		assert.Nil(t, m.Update(DebounceMsg{TableID: "people", Seq: seq}, true))
	}
	assert.Len(t, src.calls, calls, "superseded input must not fetch")

	drive(m, m.Update(DebounceMsg{TableID: "people", Seq: 5}, true))

	require.Len(t, src.calls, calls+1)
	last := src.calls[len(src.calls)-1]
	assert.Equal(t, "user1", last.SearchText)
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, 1, store.Load("people").Page)
	assert.Equal(t, "user1", store.Load("people").SearchText)
	assert.Equal(t, 10, m.Total())
}

func TestModelSettledSameSearchDoesNotRefetch(t *testing.T) {
	m, src, _, _ := newTestTable(t, 5)
	drive(m, m.Init())

	m.SearchInput("")
	assert.Nil(t, m.Update(DebounceMsg{TableID: "people", Seq: 1}, true))
	assert.Len(t, src.calls, 1)
}

func TestModelDropsStaleResponses(t *testing.T) {
	m, src, _, _ := newTestTable(t, 50)
	drive(m, m.Init())

	older := m.SetPage(2)
	newer := m.SetPage(3)

	drive(m, newer)
	drive(m, older)

	assert.Equal(t, 3, m.State().Page)
	assert.Equal(t, 21, m.Rows()[0].ID)
	assert.Len(t, src.calls, 3)
}

func TestModelClampsPageAfterTotalShrinks(t *testing.T) {
	m, src, store, _ := newTestTable(t, 25)
	store.Save("people", State{Page: 5, Limit: 10})

	drive(m, m.Init())

	require.Len(t, src.calls, 2)
	assert.Equal(t, 5, src.calls[0].Page)
	assert.Equal(t, 3, src.calls[1].Page)
	assert.Equal(t, 3, m.State().Page)
	assert.Len(t, m.Rows(), 5)
}

func TestModelPagingBounds(t *testing.T) {
	m, src, _, _ := newTestTable(t, 25)
	drive(m, m.Init())

	assert.Nil(t, m.PrevPage())
	assert.Nil(t, m.SetPage(0), "page 0 clamps to the current page 1")

	drive(m, m.SetPage(99))
	assert.Equal(t, 3, m.State().Page)
	assert.Nil(t, m.NextPage())

	drive(m, m.PrevPage())
	assert.Equal(t, 2, m.State().Page)
	assert.Len(t, src.calls, 3)
}

func TestModelSetLimitKeepsPage(t *testing.T) {
	m, src, _, _ := newTestTable(t, 100)
	drive(m, m.Init())
	drive(m, m.SetPage(2))

	drive(m, m.SetLimit(20))

	last := src.calls[len(src.calls)-1]
	assert.Equal(t, 2, last.Page)
	assert.Equal(t, 20, last.Limit)
	assert.Nil(t, m.SetLimit(0))
}

func TestModelFetchErrorKeepsRows(t *testing.T) {
	m, src, _, _ := newTestTable(t, 25)
	drive(m, m.Init())
	require.Len(t, m.Rows(), 10)

	src.err = errors.New("boom")
	drive(m, m.Refresh())

	assert.EqualError(t, m.Err(), "boom")
	assert.False(t, m.Loading())
	assert.Len(t, m.Rows(), 10)
	assert.Equal(t, 25, m.Total())

	src.err = nil
	drive(m, m.Refresh())
	assert.NoError(t, m.Err())
}

func TestModelSortOnlySortableColumns(t *testing.T) {
	m, src, _, _ := newTestTable(t, 5)
	drive(m, m.Init())

	assert.Nil(t, m.ToggleSort("role"))
	assert.Nil(t, m.ToggleSort("missing"))

	drive(m, m.ToggleSort("name"))
	last := src.calls[len(src.calls)-1]
	assert.Equal(t, "name", last.SortColumn)
	assert.Equal(t, Asc, last.SortOrder)
}

func TestModelFilterBySelectedValue(t *testing.T) {
	m, src, _, _ := newTestTable(t, 30)
	drive(m, m.Init())
	drive(m, m.SetPage(2))

	require.True(t, m.SetActiveColumn("role"))
	row, ok := m.Selected()
	require.True(t, ok)

	drive(m, m.FilterBySelectedValue())

	last := src.calls[len(src.calls)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, []Filter{{ID: "role", Value: []any{row.Role}}}, last.Filters)
	for _, r := range m.Rows() {
		assert.Equal(t, row.Role, r.Role)
	}

	drive(m, m.RemoveFilter("role"))
	assert.Empty(t, m.State().Filters)
	assert.Nil(t, m.RemoveFilter("role"))

	require.True(t, m.SetActiveColumn("name"))
	assert.Nil(t, m.FilterBySelectedValue(), "name is not filterable")
}

func TestModelColumnToggleDoesNotFetch(t *testing.T) {
	m, src, _, _ := newTestTable(t, 5)
	drive(m, m.Init())
	require.True(t, m.SetActiveColumn("name"))

	assert.True(t, m.ToggleColumn("name"))
	assert.False(t, m.Loading())
	assert.Len(t, src.calls, 1)
	assert.Equal(t, "id", m.ActiveColumn().ID, "focus moves off the hidden column")
	assert.Len(t, m.Frame().Header, 2)

	m.ShowAllColumns()
	assert.Len(t, m.Frame().Header, 3)
}

func TestModelEmptyResult(t *testing.T) {
	m, _, _, _ := newTestTable(t, 0)
	drive(m, m.Init())

	rows := m.Frame().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, RowEmpty, rows[0].Kind)
	assert.Equal(t, 3, rows[0].Span)
}

func TestModelCloseClearsStateAndIgnoresLateResponses(t *testing.T) {
	m, _, _, backend := newTestTable(t, 25)
	drive(m, m.Init())
	require.Contains(t, backend.data, "table_state:people")

	pending := m.SetPage(2)
	m.Close()

	assert.NotContains(t, backend.data, "table_state:people")
	for _, msg := range execCmd(pending) {
		assert.Nil(t, m.Update(msg, true))
	}
	assert.Equal(t, 1, m.Rows()[0].ID)
	assert.Nil(t, m.Refresh())

	// A search settling after teardown must not write the record back.
	m.SearchInput("x")
	assert.Nil(t, m.Update(DebounceMsg{TableID: "people", Seq: m.debouncer.Seq()}, true))
	assert.Nil(t, m.SetPage(3))
	assert.Nil(t, m.ToggleSort("name"))
	assert.Empty(t, backend.data)
	assert.Equal(t, DefaultState(), NewStore(backend).Load("people"))
}

func TestModelKeys(t *testing.T) {
	m, src, _, _ := newTestTable(t, 25)
	drive(m, m.Init())

	press := func(s string) tea.Cmd {
		return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}, true)
	}

	drive(m, press("]"))
	assert.Equal(t, 2, m.State().Page)

	drive(m, press("}"))
	assert.Equal(t, 3, m.State().Page)

	drive(m, press("+"))
	assert.Equal(t, 20, m.State().Limit)

	assert.Nil(t, m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")}, false), "unfocused tables ignore keys")

	press("j")
	press("j")
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, m.Rows()[2], row)

	calls := len(src.calls)
	press("c")
	assert.Len(t, src.calls, calls)
}
