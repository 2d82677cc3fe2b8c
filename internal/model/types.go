package model

import (
	"context"

	"erp/internal/table"
)

// UserRow is a back-office user as listed in the users table.
type UserRow struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Email       string  `db:"email" json:"email"`
	Role        string  `db:"role" json:"role"`
	Status      string  `db:"status" json:"status"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	LastLoginAt *string `db:"last_login_at" json:"last_login_at,omitempty"`
}

// RowID identifies the row for delete and undo.
func (u UserRow) RowID() int64 { return u.ID }

// CategoryRow is a product category with its order count.
type CategoryRow struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	Slug       string  `db:"slug" json:"slug"`
	ParentID   *int64  `db:"parent_id" json:"parent_id,omitempty"`
	ParentName *string `db:"parent_name" json:"parent_name,omitempty"`
	Active     bool    `db:"active" json:"active"`
	OrderCount int     `db:"order_count" json:"order_count"`
	CreatedAt  string  `db:"created_at" json:"created_at"`
}

func (c CategoryRow) RowID() int64 { return c.ID }

// OrderRow is an order joined with its customer and category.
type OrderRow struct {
	ID           int64  `db:"id" json:"id"`
	Number       string `db:"number" json:"number"`
	UserID       int64  `db:"user_id" json:"user_id"`
	CustomerName string `db:"customer_name" json:"customer_name"`
	CategoryID   int64  `db:"category_id" json:"category_id"`
	CategoryName string `db:"category_name" json:"category_name"`
	Status       string `db:"status" json:"status"`
	Items        int    `db:"items" json:"items"`
	TotalCents   int64  `db:"total_cents" json:"total_cents"`
	Currency     string `db:"currency" json:"currency"`
	PlacedAt     string `db:"placed_at" json:"placed_at"`
}

func (o OrderRow) RowID() int64 { return o.ID }

// Identified is satisfied by every listable row.
type Identified interface {
	RowID() int64
}

// Resource is a listable collection backed by a local database or a remote
// API. Restore re-creates a deleted row with its original id.
type Resource[Row Identified] interface {
	Name() string
	List(ctx context.Context, p table.Params) (table.Page[Row], error)
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, row Row) error
}

// Sources bundles the three resources the console manages.
type Sources struct {
	Users      Resource[UserRow]
	Orders     Resource[OrderRow]
	Categories Resource[CategoryRow]
}

// Valid user, order and category enumerations.
var (
	UserRoles     = []string{"admin", "manager", "staff"}
	UserStatuses  = []string{"active", "invited", "suspended"}
	OrderStatuses = []string{"pending", "paid", "shipped", "cancelled", "refunded"}
)
