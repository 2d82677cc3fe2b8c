package db

import (
	"context"
	"testing"

	"erp/internal/model"
	"erp/internal/table"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Seed(context.Background(), db, 40, 120))
	return db
}

func params(page, limit int) table.Params {
	return table.Params{Page: page, Limit: limit, Filters: []table.Filter{}}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Seed(context.Background(), db, 40, 120))

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, 40, n)
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM orders"))
	assert.Equal(t, 120, n)
}

func TestUsersListPaginates(t *testing.T) {
	users := NewUsers(openTestDB(t))
	ctx := context.Background()

	page, err := users.List(ctx, params(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 40, page.Total)
	require.Len(t, page.Rows, 10)
	assert.Equal(t, int64(1), page.Rows[0].ID)

	page, err = users.List(ctx, params(4, 10))
	require.NoError(t, err)
	require.Len(t, page.Rows, 10)
	assert.Equal(t, int64(31), page.Rows[0].ID)

	page, err = users.List(ctx, params(5, 10))
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.NotNil(t, page.Rows)
	assert.Equal(t, 40, page.Total)
}

func TestUsersListSortSearchFilter(t *testing.T) {
	users := NewUsers(openTestDB(t))
	ctx := context.Background()

	p := params(1, 50)
	p.SortColumn = "email"
	p.SortOrder = table.Desc
	page, err := users.List(ctx, p)
	require.NoError(t, err)
	for i := 1; i < len(page.Rows); i++ {
		assert.GreaterOrEqual(t, page.Rows[i-1].Email, page.Rows[i].Email)
	}

	p = params(1, 50)
	p.Filters = []table.Filter{{ID: "role", Value: []any{"admin", "manager"}}}
	page, err = users.List(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, len(page.Rows), page.Total)
	for _, u := range page.Rows {
		assert.Contains(t, []string{"admin", "manager"}, u.Role)
	}

	p = params(1, 50)
	p.SearchText = "example.com"
	page, err = users.List(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 40, page.Total)

	p.SearchText = "%"
	page, err = users.List(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total, "LIKE wildcards are matched literally")
}

func TestEmptyFilterValuesMatchEverything(t *testing.T) {
	users := NewUsers(openTestDB(t))

	p := params(1, 10)
	p.Filters = []table.Filter{{ID: "role", Value: []any{}}}
	page, err := users.List(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 40, page.Total)
}

func TestUnknownColumnsAreRejected(t *testing.T) {
	users := NewUsers(openTestDB(t))
	ctx := context.Background()

	p := params(1, 10)
	p.SortColumn = "password; DROP TABLE users"
	_, err := users.List(ctx, p)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	p = params(1, 10)
	p.Filters = []table.Filter{{ID: "nope", Value: []any{"x"}}}
	_, err = users.List(ctx, p)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestOrdersListJoinsAndFilters(t *testing.T) {
	orders := NewOrders(openTestDB(t))
	ctx := context.Background()

	page, err := orders.List(ctx, params(1, 5))
	require.NoError(t, err)
	assert.Equal(t, 120, page.Total)
	require.Len(t, page.Rows, 5)
	assert.NotEmpty(t, page.Rows[0].CustomerName)
	assert.NotEmpty(t, page.Rows[0].CategoryName)
	assert.GreaterOrEqual(t, page.Rows[0].PlacedAt, page.Rows[1].PlacedAt)

	p := params(1, 200)
	p.Filters = []table.Filter{{ID: "items", Value: []any{float64(1)}}}
	page, err = orders.List(ctx, p)
	require.NoError(t, err)
	for _, o := range page.Rows {
		assert.Equal(t, 1, o.Items)
	}

	p = params(1, 10)
	p.SearchText = "ORD-01001"
	page, err = orders.List(ctx, p)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "ORD-01001", page.Rows[0].Number)
}

func TestCategoriesOrderCounts(t *testing.T) {
	categories := NewCategories(openTestDB(t))

	p := params(1, 20)
	p.SortColumn = "order_count"
	p.SortOrder = table.Desc
	page, err := categories.List(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 10, page.Total)

	sum := 0
	for i, c := range page.Rows {
		sum += c.OrderCount
		if i > 0 {
			assert.GreaterOrEqual(t, page.Rows[i-1].OrderCount, c.OrderCount)
		}
		if c.ParentID != nil {
			require.NotNil(t, c.ParentName)
		}
	}
	assert.Equal(t, 120, sum)
}

func TestDeleteAndRestore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	orders := NewOrders(db)

	page, err := orders.List(ctx, params(1, 1))
	require.NoError(t, err)
	o := page.Rows[0]

	require.NoError(t, orders.Delete(ctx, o.ID))
	assert.ErrorIs(t, orders.Delete(ctx, o.ID), ErrNotFound)

	after, err := orders.List(ctx, params(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 119, after.Total)

	require.NoError(t, orders.Restore(ctx, o))
	after, err = orders.List(ctx, params(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 120, after.Total)
	assert.Equal(t, o, after.Rows[0])
}

func TestDeleteRefusesReferencedRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	var userID int64
	require.NoError(t, db.Get(&userID, "SELECT user_id FROM orders LIMIT 1"))
	assert.ErrorIs(t, NewUsers(db).Delete(ctx, userID), ErrHasDependents)

	assert.ErrorIs(t, NewCategories(db).Delete(ctx, 1), ErrHasDependents, "Hardware has subcategories")
}

func TestUserRestoreKeepsNullableFields(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	users := NewUsers(db)
	ctx := context.Background()

	login := "2024-02-01T10:00:00Z"
	rows := []model.UserRow{
		{ID: 7, Name: "Ada", Email: "ada@example.com", Role: "admin", Status: "active", CreatedAt: "2024-01-01T00:00:00Z", LastLoginAt: &login},
		{ID: 8, Name: "Bob", Email: "bob@example.com", Role: "staff", Status: "invited", CreatedAt: "2024-01-02T00:00:00Z"},
	}
	for _, u := range rows {
		require.NoError(t, users.Restore(ctx, u))
	}

	page, err := users.List(ctx, params(1, 10))
	require.NoError(t, err)
	assert.Equal(t, rows, page.Rows)
}

func TestStateKV(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	kv := NewStateKV(db)

	_, ok, err := kv.Get("table_state:users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("table_state:users", []byte(`{"page":1}`)))
	require.NoError(t, kv.Set("table_state:users", []byte(`{"page":2}`)))
	require.NoError(t, kv.Set("other", []byte(`x`)))

	v, ok, err := kv.Get("table_state:users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"page":2}`, string(v))

	keys, err := kv.Keys("table_state:")
	require.NoError(t, err)
	assert.Equal(t, []string{"table_state:users"}, keys)

	store := table.NewStore(kv)
	st := table.State{Page: 3, Limit: 20, SearchText: "ada"}
	store.Save("orders", st)
	assert.Equal(t, st, store.Load("orders"))
	store.ClearAll()
	assert.Equal(t, table.DefaultState(), store.Load("orders"))

	require.NoError(t, kv.Delete("table_state:users"))
	_, ok, err = kv.Get("table_state:users")
	require.NoError(t, err)
	assert.False(t, ok)
}
