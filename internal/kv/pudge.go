package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/recoilme/pudge"
)

// Pudge persists records in an embedded pudge file.
type Pudge struct {
	db *pudge.Db
}

// OpenPudge opens (or creates) the pudge file at path.
func OpenPudge(path string) (*Pudge, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	cfg := &pudge.Config{
		SyncInterval: 1, // every second fsync
	}
	db, err := pudge.Open(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	return &Pudge{db: db}, nil
}

func (p *Pudge) Get(key string) ([]byte, bool, error) {
	var value []byte
	if err := p.db.Get(key, &value); err != nil {
		if errors.Is(err, pudge.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, true, nil
}

func (p *Pudge) Set(key string, value []byte) error {
	if err := p.db.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

func (p *Pudge) Delete(key string) error {
	if err := p.db.Delete(key); err != nil && !errors.Is(err, pudge.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Keys lists every key with the given prefix.
func (p *Pudge) Keys(prefix string) ([]string, error) {
	var from interface{}
	if prefix != "" {
		from = []byte(prefix + "*")
	}
	raw, err := p.db.Keys(from, 0, 0, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, string(k))
	}
	return keys, nil
}

func (p *Pudge) Close() error {
	return p.db.Close()
}
