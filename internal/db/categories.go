package db

import (
	"context"
	"fmt"

	"erp/internal/model"
	"erp/internal/table"

	"github.com/jmoiron/sqlx"
)

const categoryOrderCount = "(SELECT COUNT(*) FROM orders o WHERE o.category_id = c.id)"

var categoriesQuery = listQuery{
	selectSQL: "c.id, c.name, c.slug, c.parent_id, p.name AS parent_name, c.active, " +
		categoryOrderCount + " AS order_count, c.created_at",
	fromSQL: "FROM categories c LEFT JOIN categories p ON p.id = c.parent_id",
	sortable: map[string]string{
		"id":          "c.id",
		"name":        "c.name",
		"slug":        "c.slug",
		"parent_name": "p.name",
		"active":      "c.active",
		"order_count": categoryOrderCount,
		"created_at":  "c.created_at",
	},
	filterable: map[string]string{
		"active":      "c.active",
		"parent_id":   "c.parent_id",
		"parent_name": "p.name",
	},
	search:  []string{"c.name", "c.slug"},
	orderBy: "c.name ASC, c.id ASC",
}

// Categories lists and deletes product categories.
type Categories struct {
	db *sqlx.DB
}

// NewCategories returns the categories resource.
func NewCategories(db *sqlx.DB) *Categories {
	return &Categories{db: db}
}

func (r *Categories) Name() string { return "categories" }

// List returns one page of categories with their order counts.
func (r *Categories) List(ctx context.Context, p table.Params) (table.Page[model.CategoryRow], error) {
	page, err := list[model.CategoryRow](ctx, r.db, categoriesQuery, p)
	if err != nil {
		return page, fmt.Errorf("failed to list categories: %w", err)
	}
	return page, nil
}

// Delete removes a category that has no orders and no subcategories.
func (r *Categories) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "categories", id,
		"orders WHERE category_id = ?",
		"categories WHERE parent_id = ?",
	)
}

// Restore re-inserts a deleted category with its original id.
func (r *Categories) Restore(ctx context.Context, c model.CategoryRow) error {
	query := `
		INSERT INTO categories (id, name, slug, parent_id, active, created_at)
		VALUES (:id, :name, :slug, :parent_id, :active, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to restore category: %w", err)
	}
	return nil
}
