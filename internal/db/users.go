package db

import (
	"context"
	"fmt"

	"erp/internal/model"
	"erp/internal/table"

	"github.com/jmoiron/sqlx"
)

var usersQuery = listQuery{
	selectSQL: "u.id, u.name, u.email, u.role, u.status, u.created_at, u.last_login_at",
	fromSQL:   "FROM users u",
	sortable: map[string]string{
		"id":            "u.id",
		"name":          "u.name",
		"email":         "u.email",
		"role":          "u.role",
		"status":        "u.status",
		"created_at":    "u.created_at",
		"last_login_at": "u.last_login_at",
	},
	filterable: map[string]string{
		"id":     "u.id",
		"role":   "u.role",
		"status": "u.status",
	},
	search:  []string{"u.name", "u.email"},
	orderBy: "u.id ASC",
}

// Users lists and deletes back-office users.
type Users struct {
	db *sqlx.DB
}

// NewUsers returns the users resource.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

func (r *Users) Name() string { return "users" }

// List returns one page of users.
func (r *Users) List(ctx context.Context, p table.Params) (table.Page[model.UserRow], error) {
	page, err := list[model.UserRow](ctx, r.db, usersQuery, p)
	if err != nil {
		return page, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

// Delete removes a user without orders.
func (r *Users) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "users", id, "orders WHERE user_id = ?")
}

// Restore re-inserts a deleted user with its original id.
func (r *Users) Restore(ctx context.Context, u model.UserRow) error {
	query := `
		INSERT INTO users (id, name, email, role, status, created_at, last_login_at)
		VALUES (:id, :name, :email, :role, :status, :created_at, :last_login_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("failed to restore user: %w", err)
	}
	return nil
}
