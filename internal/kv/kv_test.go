package kv

import (
	"path/filepath"
	"testing"

	"erp/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)

	buf := []byte("one")
	require.NoError(t, m.Set("a", buf))
	buf[0] = 'X'

	v, ok, err := m.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", string(v), "stored bytes are copied")

	require.NoError(t, m.Set("b", []byte("two")))
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	require.NoError(t, m.Delete("a"))
	require.NoError(t, m.Delete("a"))
	assert.Equal(t, []string{"b"}, m.Keys())
}

func TestPudgeGetSetDelete(t *testing.T) {
	p, err := OpenPudge(filepath.Join(t.TempDir(), "state", "tables.db"))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	_, ok, err := p.Get("table_state:users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Set("table_state:users", []byte(`{"page":2}`)))
	require.NoError(t, p.Set("table_state:orders", []byte(`{"page":3}`)))
	require.NoError(t, p.Set("other", []byte(`x`)))

	v, ok, err := p.Get("table_state:users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"page":2}`, string(v))

	keys, err := p.Keys("table_state:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"table_state:users", "table_state:orders"}, keys)

	require.NoError(t, p.Delete("table_state:users"))
	require.NoError(t, p.Delete("table_state:users"))
	_, ok, err = p.Get("table_state:users")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackendsServeTableStore(t *testing.T) {
	p, err := OpenPudge(filepath.Join(t.TempDir(), "tables.db"))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	for name, backend := range map[string]table.Persistence{"memory": NewMemory(), "pudge": p} {
		t.Run(name, func(t *testing.T) {
			s := table.NewStore(backend)
			st := table.State{
				Page:    3,
				Limit:   20,
				Sort:    &table.Sort{Column: "email", Order: table.Desc},
				Filters: []table.Filter{{ID: "role", Value: []any{"admin"}}},
			}
			s.Save("users", st)
			require.NoError(t, s.SaveErr())
			assert.Equal(t, st, s.Load("users"))

			s.ClearAll()
			assert.Equal(t, table.DefaultState(), s.Load("users"))
		})
	}
}
