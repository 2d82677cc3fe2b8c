package db

import (
	"errors"
	"fmt"

	"erp/internal/model"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a row to delete does not exist.
	ErrNotFound = errors.New("not found")
	// ErrHasDependents is returned when deleting a row other rows still reference.
	ErrHasDependents = errors.New("still referenced")
	// ErrUnknownColumn is returned for sort or filter columns a resource does not expose.
	ErrUnknownColumn = errors.New("unknown column")
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    role          TEXT NOT NULL CHECK(role IN ('admin','manager','staff')),
    status        TEXT NOT NULL CHECK(status IN ('active','invited','suspended')),
    created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
    last_login_at TEXT
);

CREATE TABLE IF NOT EXISTS categories (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    slug       TEXT NOT NULL UNIQUE,
    parent_id  INTEGER REFERENCES categories(id),
    active     INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0,1)),
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);

CREATE TABLE IF NOT EXISTS orders (
    id          INTEGER PRIMARY KEY,
    number      TEXT NOT NULL UNIQUE,
    user_id     INTEGER NOT NULL REFERENCES users(id),
    category_id INTEGER NOT NULL REFERENCES categories(id),
    status      TEXT NOT NULL CHECK(status IN ('pending','paid','shipped','cancelled','refunded')),
    items       INTEGER NOT NULL DEFAULT 1 CHECK(items > 0),
    total_cents INTEGER NOT NULL CHECK(total_cents >= 0),
    currency    TEXT NOT NULL DEFAULT 'USD',
    placed_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS table_state (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_category_id ON orders(category_id);
CREATE INDEX IF NOT EXISTS idx_orders_placed_at ON orders(placed_at DESC);
CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories(parent_id);
`

// Open opens or creates the SQLite database and initializes the schema.
func Open(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: sqlite has a single writer and ":memory:" databases are
	// per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Sources returns the console resources backed by the local database.
func Sources(db *sqlx.DB) model.Sources {
	return model.Sources{
		Users:      NewUsers(db),
		Orders:     NewOrders(db),
		Categories: NewCategories(db),
	}
}
