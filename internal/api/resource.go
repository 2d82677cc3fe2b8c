package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"erp/internal/model"
	"erp/internal/table"
)

// Resource is one collection served under /api/<name>.
type Resource[Row model.Identified] struct {
	client *Client
	name   string
}

// NewResource binds a collection name to a client.
func NewResource[Row model.Identified](c *Client, name string) *Resource[Row] {
	return &Resource[Row]{client: c, name: name}
}

func (r *Resource[Row]) Name() string { return r.name }

// List fetches one page.
func (r *Resource[Row]) List(ctx context.Context, p table.Params) (table.Page[Row], error) {
	var page table.Page[Row]
	if err := r.client.do(ctx, http.MethodGet, "/api/"+r.name, p.Values(), nil, &page); err != nil {
		return table.Page[Row]{}, fmt.Errorf("failed to list %s: %w", r.name, err)
	}
	if page.Rows == nil {
		page.Rows = []Row{}
	}
	return page, nil
}

// Delete removes the row with id.
func (r *Resource[Row]) Delete(ctx context.Context, id int64) error {
	if err := r.client.do(ctx, http.MethodDelete, r.path(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", r.name, id, err)
	}
	return nil
}

// Restore re-creates a deleted row under its original id.
func (r *Resource[Row]) Restore(ctx context.Context, row Row) error {
	if err := r.client.do(ctx, http.MethodPut, r.path(row.RowID()), nil, row, nil); err != nil {
		return fmt.Errorf("failed to restore %s %d: %w", r.name, row.RowID(), err)
	}
	return nil
}

func (r *Resource[Row]) path(id int64) string {
	return fmt.Sprintf("/api/%s/%s", r.name, url.PathEscape(fmt.Sprint(id)))
}

// Sources returns the three console resources served by the remote server.
func (c *Client) Sources() model.Sources {
	return model.Sources{
		Users:      NewResource[model.UserRow](c, "users"),
		Orders:     NewResource[model.OrderRow](c, "orders"),
		Categories: NewResource[model.CategoryRow](c, "categories"),
	}
}
