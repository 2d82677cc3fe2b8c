package db

import (
	"context"
	"fmt"

	"erp/internal/model"
	"erp/internal/table"

	"github.com/jmoiron/sqlx"
)

var ordersQuery = listQuery{
	selectSQL: `o.id, o.number, o.user_id, u.name AS customer_name, o.category_id,
		c.name AS category_name, o.status, o.items, o.total_cents, o.currency, o.placed_at`,
	fromSQL: `FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN categories c ON c.id = o.category_id`,
	sortable: map[string]string{
		"id":            "o.id",
		"number":        "o.number",
		"customer_name": "u.name",
		"category_name": "c.name",
		"status":        "o.status",
		"items":         "o.items",
		"total_cents":   "o.total_cents",
		"placed_at":     "o.placed_at",
	},
	filterable: map[string]string{
		"status":        "o.status",
		"currency":      "o.currency",
		"items":         "o.items",
		"user_id":       "o.user_id",
		"category_id":   "o.category_id",
		"customer_name": "u.name",
		"category_name": "c.name",
	},
	search:  []string{"o.number", "u.name", "c.name"},
	orderBy: "o.placed_at DESC, o.id DESC",
}

// Orders lists and deletes orders joined with customer and category.
type Orders struct {
	db *sqlx.DB
}

// NewOrders returns the orders resource.
func NewOrders(db *sqlx.DB) *Orders {
	return &Orders{db: db}
}

func (r *Orders) Name() string { return "orders" }

// List returns one page of orders.
func (r *Orders) List(ctx context.Context, p table.Params) (table.Page[model.OrderRow], error) {
	page, err := list[model.OrderRow](ctx, r.db, ordersQuery, p)
	if err != nil {
		return page, fmt.Errorf("failed to list orders: %w", err)
	}
	return page, nil
}

// Delete removes an order.
func (r *Orders) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "orders", id)
}

// Restore re-inserts a deleted order with its original id.
func (r *Orders) Restore(ctx context.Context, o model.OrderRow) error {
	query := `
		INSERT INTO orders (id, number, user_id, category_id, status, items, total_cents, currency, placed_at)
		VALUES (:id, :number, :user_id, :category_id, :status, :items, :total_cents, :currency, :placed_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, o); err != nil {
		return fmt.Errorf("failed to restore order: %w", err)
	}
	return nil
}
