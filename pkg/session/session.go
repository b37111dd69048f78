// Package session holds the state that lives for one unlocked journaling
// session: the unlock flag and the open report store.
package session

import (
	"errors"
	"sync"

	"tableflip.dev/dailyreport/pkg/store"
)

// AuthKey is the session KV key whose value "1" marks the gate as passed.
const AuthKey = "nk_report_auth"

const unlockedValue = "1"

// Session is created locked unless the session storage already carries the
// unlock flag. Close tears the in-process state down.
type Session struct {
	mu       sync.Mutex
	kv       store.KV
	reports  *store.Store
	unlocked bool
	closed   bool
}

// Open restores the unlock flag from kv. reports may be nil until the gate
// has been passed.
func Open(kv store.KV, reports *store.Store) *Session {
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	s := &Session{kv: kv, reports: reports}
	if val, err := kv.Read(AuthKey); err == nil && string(val) == unlockedValue {
		s.unlocked = true
	}
	return s
}

// Unlocked reports whether the gate was passed during this session.
func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked && !s.closed
}

// Unlock records a successful gate attempt. The flag is set in memory even
// when the session storage write fails.
func (s *Session) Unlock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("session: closed")
	}
	s.unlocked = true
	return s.kv.Write(AuthKey, []byte(unlockedValue))
}

// Lock forgets the unlock in memory and in session storage.
func (s *Session) Lock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked = false
	return s.kv.Erase(AuthKey)
}

// Reports returns the report store bound to the session.
func (s *Session) Reports() *store.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports
}

// Attach binds the report store once it has been opened.
func (s *Session) Attach(reports *store.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = reports
}

// Close ends the in-process session. The shared flag in session storage is
// left for other processes of the same login session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.unlocked = false
	s.reports = nil
}
