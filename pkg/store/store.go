// Package store persists daily reports to durable key/value storage.
package store

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"tableflip.dev/dailyreport/pkg/datekey"
	"tableflip.dev/dailyreport/pkg/entry"
)

// StorageKey is the KV key holding the JSON-encoded report mapping.
const StorageKey = "nk_daily_reports"

// Logf receives non-fatal storage diagnostics.
type Logf func(format string, args ...any)

// Option configures a Store.
type Option func(*Store)

// WithLogf routes diagnostics to logf instead of the standard logger.
func WithLogf(logf Logf) Option {
	return func(s *Store) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// Store is the write-through report store. The mapping is read once when
// opened; every mutation is persisted before the call returns.
type Store struct {
	mu      sync.RWMutex
	kv      KV
	reports Reports
	logf    Logf
}

// Open loads the persisted mapping from kv. A missing or corrupt mapping
// yields an empty store; the problem is logged, never returned.
func Open(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, logf: log.Printf}
	for _, opt := range opts {
		opt(s)
	}
	s.reports = Load(kv, s.logf)
	return s
}

// Load reads the mapping stored under StorageKey.
func Load(kv KV, logf Logf) Reports {
	if logf == nil {
		logf = log.Printf
	}
	if kv == nil {
		return Reports{}
	}
	data, err := kv.Read(StorageKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logf("%v", &PersistenceError{Op: "read", Key: StorageKey, Err: err})
		}
		return Reports{}
	}
	if len(data) == 0 {
		return Reports{}
	}
	reports, skipped, err := decodeReports(data)
	if err != nil {
		logf("%v", &PersistenceError{Op: "decode", Key: StorageKey, Err: err})
		return Reports{}
	}
	for _, e := range skipped {
		logf("store: dropping entry: %v", e)
	}
	return reports
}

// Reload replaces the in-memory mapping with what is currently persisted,
// discarding anything that failed to write.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = Load(s.kv, s.logf)
}

// Reports returns a copy of the current mapping.
func (s *Store) Reports() Reports {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reports.Clone()
}

// Get returns the entry saved for key.
func (s *Store) Get(key datekey.Key) (entry.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reports.Get(key)
}

// Has reports whether key has a saved entry.
func (s *Store) Has(key datekey.Key) bool {
	_, ok := s.Get(key)
	return ok
}

// Len is the number of saved entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// List returns the saved entries sorted by day.
func (s *Store) List(order Order) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reports.Sorted(order)
}

// Upsert saves e for key, replacing any previous entry. A *PersistenceError
// means the entry is kept in memory but may not survive a restart.
func (s *Store) Upsert(key datekey.Key, e entry.Entry) error {
	if _, err := datekey.Parse(string(key)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = s.reports.With(key, e)
	return s.persistLocked()
}

// Remove deletes the entry for key. Removing an absent key is not an error;
// the unchanged mapping is still persisted.
func (s *Store) Remove(key datekey.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = s.reports.Without(key)
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	if s.kv == nil {
		return &PersistenceError{Op: "write", Key: StorageKey, Err: errors.New("no storage configured")}
	}
	data, err := json.Marshal(s.reports)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: StorageKey, Err: err}
	}
	if err := s.kv.Write(StorageKey, data); err != nil {
		return &PersistenceError{Op: "write", Key: StorageKey, Err: err}
	}
	return nil
}
