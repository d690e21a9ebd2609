// Package ban maintains the set of banned handles. Bans are keyed by
// handle (case-insensitive) rather than user ID so a ban can be placed
// before the target has ever contacted the bot, and survives after the
// target's record is reset. Users without a handle are keyed by their
// decimal user ID instead, so they stay bannable.
package ban

import (
	"strings"
	"sync"
)

// Store manages ban records in memory for the process lifetime.
type Store struct {
	mu      sync.RWMutex
	handles map[string]struct{}
}

// NewStore creates an empty ban store.
func NewStore() *Store {
	return &Store{handles: make(map[string]struct{})}
}

// Normalize lowercases a handle and strips a leading @.
func Normalize(handle string) string {
	return strings.ToLower(strings.TrimPrefix(handle, "@"))
}

// Ban adds a handle to the ban list.
func (s *Store) Ban(handle string) {
	h := Normalize(handle)
	if h == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[h] = struct{}{}
}

// Unban removes a handle from the ban list. Reports whether the handle
// was actually banned, so callers can distinguish the two outcomes.
func (s *Store) Unban(handle string) bool {
	h := Normalize(handle)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handles[h]; !ok {
		return false
	}
	delete(s.handles, h)
	return true
}

// IsBanned checks whether a handle is banned. Users without a handle
// (empty string) are never considered banned.
func (s *Store) IsBanned(handle string) bool {
	h := Normalize(handle)
	if h == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.handles[h]
	return ok
}

// Count returns the number of banned handles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handles)
}
