package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StateKV persists table state records in the table_state table.
type StateKV struct {
	db *sqlx.DB
}

// NewStateKV wraps an open database.
func NewStateKV(db *sqlx.DB) *StateKV {
	return &StateKV{db: db}
}

func (s *StateKV) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.Get(&value, "SELECT value FROM table_state WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read state %q: %w", key, err)
	}
	return value, true, nil
}

func (s *StateKV) Set(key string, value []byte) error {
	query := `
		INSERT INTO table_state (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write state %q: %w", key, err)
	}
	return nil
}

func (s *StateKV) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM table_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete state %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys starting with prefix.
func (s *StateKV) Keys(prefix string) ([]string, error) {
	keys := []string{}
	err := s.db.Select(&keys, "SELECT key FROM table_state WHERE substr(key, 1, length(?)) = ? ORDER BY key", prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list state keys: %w", err)
	}
	return keys, nil
}
