// Package user tracks every known user's identity and pairing state.
// Records are created on first contact and never deleted; leaving a chat
// or being banned soft-resets a record back to idle.
package user

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Pairing states a user moves through.
const (
	StateIdle     = "idle"
	StateWaiting  = "waiting"
	StateChatting = "chatting"
)

var (
	// ErrNotRegistered is returned when an operation references a user
	// who has never made contact.
	ErrNotRegistered = errors.New("user: not registered")

	// ErrInvalidTransition is returned when a requested state change
	// would violate the partner/session invariant. It indicates a
	// programming error in the caller, not a user-facing condition.
	ErrInvalidTransition = errors.New("user: invalid state transition")
)

// User is a single user record. PartnerID and SessionID are both set
// when State == StateChatting and both zero otherwise.
type User struct {
	ID        int64
	Handle    string
	State     string
	PartnerID int64  // 0 unless chatting
	SessionID string // empty unless chatting
}

// DisplayHandle returns the user's handle, falling back to the decimal
// user ID when no handle is set.
func (u *User) DisplayHandle() string {
	if u.Handle != "" {
		return u.Handle
	}
	return strconv.FormatInt(u.ID, 10)
}

// Registry is the in-memory user store. Individual operations are
// goroutine-safe; atomicity across stores is the engine's job.
type Registry struct {
	mu    sync.RWMutex
	users map[int64]*User
	order []int64 // first-contact order, drives the recent-users view
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[int64]*User)}
}

// GetOrCreate returns the existing record for id or creates a fresh idle
// one. A non-empty handle refreshes the stored handle, since Telegram
// users can set one after first contact.
func (r *Registry) GetOrCreate(id int64, handle string) *User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		if handle != "" {
			u.Handle = handle
		}
		return u
	}

	u := &User{ID: id, Handle: handle, State: StateIdle}
	r.users[id] = u
	r.order = append(r.order, id)
	return u
}

// Get returns the record for id, or nil if the user has never made contact.
func (r *Registry) Get(id int64) *User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[id]
}

// Transition moves a user to newState, enforcing that partner and
// session references are present iff the new state is chatting.
func (r *Registry) Transition(id int64, newState string, partnerID int64, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrNotRegistered)
	}

	switch newState {
	case StateChatting:
		if partnerID == 0 || sessionID == "" {
			return fmt.Errorf("user %d -> %s without partner/session: %w", id, newState, ErrInvalidTransition)
		}
	case StateIdle, StateWaiting:
		if partnerID != 0 || sessionID != "" {
			return fmt.Errorf("user %d -> %s with partner/session set: %w", id, newState, ErrInvalidTransition)
		}
	default:
		return fmt.Errorf("user %d -> unknown state %q: %w", id, newState, ErrInvalidTransition)
	}

	u.State = newState
	u.PartnerID = partnerID
	u.SessionID = sessionID
	return nil
}

// ResetIdle forces a user back to idle, clearing partner and session
// refs. Safe to call regardless of current state; no-op for unknown ids.
func (r *Registry) ResetIdle(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.State = StateIdle
		u.PartnerID = 0
		u.SessionID = ""
	}
}

// Count returns the number of known users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// CountInState returns the number of users currently in state.
func (r *Registry) CountInState(state string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.users {
		if u.State == state {
			n++
		}
	}
	return n
}

// Recent returns up to n of the most recently registered users in
// first-contact order (oldest of the slice first).
func (r *Registry) Recent(n int) []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := len(r.order) - n
	if start < 0 {
		start = 0
	}
	out := make([]*User, 0, len(r.order)-start)
	for _, id := range r.order[start:] {
		out = append(out, r.users[id])
	}
	return out
}

// ByHandle returns all records whose display identity matches
// case-insensitively. Handle-less users are identified by their decimal
// ID, so they can be targeted by handle-based operations like bans.
func (r *Registry) ByHandle(handle string) []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if handle == "" {
		return nil
	}
	var out []*User
	for _, id := range r.order {
		u := r.users[id]
		if strings.EqualFold(u.DisplayHandle(), handle) {
			out = append(out, u)
		}
	}
	return out
}
