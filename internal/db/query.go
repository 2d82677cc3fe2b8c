package db

import (
	"context"
	"fmt"
	"strings"

	"erp/internal/table"

	"github.com/jmoiron/sqlx"
)

// listQuery describes how a resource is listed. Sort and filter columns are
// looked up in whitelists so request params never reach SQL text.
type listQuery struct {
	selectSQL string
	fromSQL   string
	// column id -> SQL expression usable in WHERE and ORDER BY
	sortable   map[string]string
	filterable map[string]string
	search     []string
	orderBy    string
}

// build returns the page query, the count query and their shared args.
func (q listQuery) build(p table.Params) (string, string, []any, error) {
	var where []string
	var args []any

	if p.SearchText != "" {
		like := "%" + escapeLike(p.SearchText) + "%"
		ors := make([]string, len(q.search))
		for i, expr := range q.search {
			ors[i] = expr + ` LIKE ? ESCAPE '\'`
			args = append(args, like)
		}
		if len(ors) > 0 {
			where = append(where, "("+strings.Join(ors, " OR ")+")")
		}
	}

	for _, f := range p.Filters {
		expr, ok := q.filterable[f.ID]
		if !ok {
			return "", "", nil, fmt.Errorf("%w: filter %q", ErrUnknownColumn, f.ID)
		}
		if len(f.Value) == 0 {
			continue
		}
		clause, inArgs, err := sqlx.In(expr+" IN (?)", f.Value)
		if err != nil {
			return "", "", nil, fmt.Errorf("failed to expand filter %q: %w", f.ID, err)
		}
		where = append(where, clause)
		args = append(args, inArgs...)
	}

	base := q.fromSQL
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}

	orderBy := q.orderBy
	if p.SortColumn != "" {
		expr, ok := q.sortable[p.SortColumn]
		if !ok {
			return "", "", nil, fmt.Errorf("%w: sort %q", ErrUnknownColumn, p.SortColumn)
		}
		dir := "ASC"
		if p.SortOrder == table.Desc {
			dir = "DESC"
		}
		orderBy = fmt.Sprintf("%s %s, %s", expr, dir, q.orderBy)
	}

	limit := p.Limit
	if limit < 1 {
		limit = table.DefaultLimit
	}
	pageSQL := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", q.selectSQL, base, orderBy, limit, p.Offset())
	countSQL := "SELECT COUNT(*) " + base
	return pageSQL, countSQL, args, nil
}

// list runs the page and count queries of q into dest.
func list[Row any](ctx context.Context, db *sqlx.DB, q listQuery, p table.Params) (table.Page[Row], error) {
	pageSQL, countSQL, args, err := q.build(p)
	if err != nil {
		return table.Page[Row]{}, err
	}

	var total int
	if err := db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return table.Page[Row]{}, fmt.Errorf("failed to count rows: %w", err)
	}

	rows := []Row{}
	if err := db.SelectContext(ctx, &rows, pageSQL, args...); err != nil {
		return table.Page[Row]{}, fmt.Errorf("failed to list rows: %w", err)
	}
	return table.Page[Row]{Rows: rows, Total: total}, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// deleteByID removes one row, refusing when dependents still reference it.
func deleteByID(ctx context.Context, db *sqlx.DB, tableName string, id int64, dependents ...string) error {
	for _, dep := range dependents {
		var n int
		if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+dep, id); err != nil {
			return fmt.Errorf("failed to check dependents: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %s id %d has %d dependent rows", ErrHasDependents, tableName, id, n)
		}
	}

	res, err := db.ExecContext(ctx, "DELETE FROM "+tableName+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", tableName, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s id %d", ErrNotFound, tableName, id)
	}
	return nil
}
