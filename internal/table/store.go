package table

import (
	"encoding/json"
	"fmt"
	"sync"

	"erp/internal/logging"

	"github.com/sirupsen/logrus"
)

// Persistence is a string-keyed byte store. Implementations wrap whatever
// local persistence is available: sqlite, an embedded KV file, or a map.
type Persistence interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

const defaultKeyPrefix = "table_state:"

// Store loads and saves table state keyed by table id.
type Store struct {
	backend Persistence
	prefix  string

	mu      sync.Mutex
	touched map[string]struct{}
	lastErr error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKeyPrefix overrides the key namespace (default "table_state:").
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *Store) { s.prefix = prefix }
}

// NewStore wraps a persistence backend.
func NewStore(backend Persistence, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		prefix:  defaultKeyPrefix,
		touched: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(tableID string) string {
	return s.prefix + tableID
}

func (s *Store) log(tableID string) *logrus.Entry {
	return logging.Log.WithField("table", tableID)
}

// Load returns the persisted state for tableID, or DefaultState when there
// is none. Unreadable or malformed records are treated as absent.
func (s *Store) Load(tableID string) State {
	return s.LoadOr(tableID, DefaultState())
}

// LoadOr is Load with a caller-chosen fallback.
func (s *Store) LoadOr(tableID string, fallback State) State {
	s.mu.Lock()
	s.touched[tableID] = struct{}{}
	s.mu.Unlock()

	data, ok, err := s.backend.Get(s.key(tableID))
	if err != nil {
		s.log(tableID).WithError(err).Warn("failed to read table state")
		return fallback
	}
	if !ok || len(data) == 0 {
		return fallback
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		s.log(tableID).WithError(err).Warn("discarding malformed table state")
		return fallback
	}
	if !st.valid() {
		s.log(tableID).WithFields(logrus.Fields{"page": st.Page, "limit": st.Limit}).
			Warn("discarding out of range table state")
		return fallback
	}
	return st
}

// Save overwrites the persisted record for tableID. Failures are logged and
// kept for SaveErr.
func (s *Store) Save(tableID string, st State) {
	err := s.save(tableID, st)

	s.mu.Lock()
	s.touched[tableID] = struct{}{}
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.log(tableID).WithError(err).Warn("failed to save table state")
	}
}

func (s *Store) save(tableID string, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal table state: %w", err)
	}
	if err := s.backend.Set(s.key(tableID), data); err != nil {
		return fmt.Errorf("failed to write table state: %w", err)
	}
	return nil
}

// SaveErr reports the error of the most recent Save, if any.
func (s *Store) SaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Clear removes the persisted record for tableID.
func (s *Store) Clear(tableID string) {
	if err := s.backend.Delete(s.key(tableID)); err != nil {
		s.log(tableID).WithError(err).Warn("failed to clear table state")
	}
	s.mu.Lock()
	delete(s.touched, tableID)
	s.mu.Unlock()
}

// ClearAll removes every record loaded or saved through this store. It runs
// when the program exits so abandoned sessions leave nothing behind.
func (s *Store) ClearAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.touched))
	for id := range s.touched {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Clear(id)
	}
}
