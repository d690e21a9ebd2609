// Package chat owns chat sessions and their append-only message logs.
// Sessions are never deleted, only orphaned when both participants reset
// to idle, so history stays retrievable for the life of the process.
package chat

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Content kinds that can be relayed between partners.
const (
	KindText     = "text"
	KindPhoto    = "photo"
	KindVideo    = "video"
	KindDocument = "document"
	KindAudio    = "audio"
	KindVoice    = "voice"
	KindSticker  = "sticker"
)

var relayable = map[string]bool{
	KindText:     true,
	KindPhoto:    true,
	KindVideo:    true,
	KindDocument: true,
	KindAudio:    true,
	KindVoice:    true,
	KindSticker:  true,
}

// Relayable reports whether kind is on the relay allow-list.
func Relayable(kind string) bool {
	return relayable[kind]
}

// LogEntry is one relayed message in a session's history.
type LogEntry struct {
	Sender  int64
	Kind    string
	Payload string // message text, or the transport file ID for media
	Ts      time.Time
}

// Session is a pairing of two users.
type Session struct {
	ID        string
	UserA     int64
	UserB     int64
	CreatedAt time.Time
}

// Partner returns the other participant's ID, or 0 when id is not a
// participant.
func (s *Session) Partner(id int64) int64 {
	if id == s.UserA {
		return s.UserB
	}
	if id == s.UserB {
		return s.UserA
	}
	return 0
}

// IsParticipant checks whether id is part of this session.
func (s *Session) IsParticipant(id int64) bool {
	return id == s.UserA || id == s.UserB
}

// Store keeps all sessions and their logs in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logs     map[string][]LogEntry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		logs:     make(map[string][]LogEntry),
	}
}

// Create stores a new session between a and b. The session ID embeds
// both participant IDs and the creation time so admins can read it at a
// glance. The same two users re-pairing within one second would compute
// the same ID, so a sequence suffix is appended until the ID is free.
func (s *Store) Create(a, b int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	id := fmt.Sprintf("%d_%d_%d", a, b, now.Unix())
	for seq := 2; ; seq++ {
		if _, ok := s.sessions[id]; !ok {
			break
		}
		id = fmt.Sprintf("%d_%d_%d_%d", a, b, now.Unix(), seq)
	}

	sess := &Session{
		ID:        id,
		UserA:     a,
		UserB:     b,
		CreatedAt: now,
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Remove drops a session that never became active. Used only to roll
// back a failed pairing; established sessions are kept forever.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.logs, id)
}

// Get retrieves a session by ID. Returns nil if not found.
func (s *Store) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Append adds an entry to a session's log. Entries for unknown sessions
// are dropped.
func (s *Store) Append(id string, e LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return
	}
	s.logs[id] = append(s.logs[id], e)
}

// History returns up to n of the most recent log entries for a session,
// in chronological order.
func (s *Store) History(id string, n int) []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.logs[id]
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]LogEntry, len(entries))
	copy(out, entries)
	return out
}

// MessageCount returns the number of logged entries for a session.
func (s *Store) MessageCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs[id])
}

// Count returns the total number of sessions ever created.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sessions returns all sessions sorted by creation time, newest first.
func (s *Store) Sessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
