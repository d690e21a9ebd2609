package chat

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestCreate_IDFormat(t *testing.T) {
	s := NewStore()
	sess := s.Create(111, 222)

	prefix := "111_222_"
	if !strings.HasPrefix(sess.ID, prefix) {
		t.Errorf("session ID %q does not start with %q", sess.ID, prefix)
	}
	if sess.UserA != 111 || sess.UserB != 222 {
		t.Errorf("participants = (%d, %d), want (111, 222)", sess.UserA, sess.UserB)
	}
	if sess.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestCreate_RepeatPairingGetsDistinctID(t *testing.T) {
	s := NewStore()

	// Three sessions for the same pair, all within the same second on a
	// fast run; every ID must still be unique and keep its own log.
	first := s.Create(1, 2)
	s.Append(first.ID, LogEntry{Sender: 1, Kind: KindText, Payload: "old"})
	second := s.Create(1, 2)
	third := s.Create(1, 2)

	if second.ID == first.ID || third.ID == first.ID || third.ID == second.ID {
		t.Fatalf("duplicate session IDs: %q, %q, %q", first.ID, second.ID, third.ID)
	}
	if got := s.MessageCount(second.ID); got != 0 {
		t.Errorf("new session inherited %d log entries", got)
	}
	if got := s.MessageCount(first.ID); got != 1 {
		t.Errorf("original session log disturbed: %d entries", got)
	}
	if s.Get(first.ID) != first {
		t.Error("original session record clobbered")
	}
}

func TestSession_PartnerHelpers(t *testing.T) {
	sess := &Session{ID: "1_2_100", UserA: 1, UserB: 2}

	if got := sess.Partner(1); got != 2 {
		t.Errorf("Partner(1) = %d, want 2", got)
	}
	if got := sess.Partner(2); got != 1 {
		t.Errorf("Partner(2) = %d, want 1", got)
	}
	if got := sess.Partner(3); got != 0 {
		t.Errorf("Partner(3) = %d, want 0", got)
	}
	if !sess.IsParticipant(1) || !sess.IsParticipant(2) || sess.IsParticipant(3) {
		t.Error("IsParticipant misclassified a user")
	}
}

func TestRoundTrip_SessionSurvivesForever(t *testing.T) {
	s := NewStore()
	sess := s.Create(1, 2)
	created := sess.CreatedAt

	// Later activity elsewhere must not disturb the stored session.
	s.Create(3, 4)
	s.Append(sess.ID, LogEntry{Sender: 1, Kind: KindText, Payload: "hi", Ts: time.Now()})

	got := s.Get(sess.ID)
	if got == nil {
		t.Fatal("session not retrievable by ID")
	}
	if got.UserA != 1 || got.UserB != 2 || !got.CreatedAt.Equal(created) {
		t.Errorf("session changed after storage: %+v", got)
	}
}

func TestAppendAndHistory_LastN(t *testing.T) {
	s := NewStore()
	sess := s.Create(1, 2)

	for i := 1; i <= 40; i++ {
		s.Append(sess.ID, LogEntry{
			Sender:  1,
			Kind:    KindText,
			Payload: fmt.Sprintf("msg-%d", i),
			Ts:      time.Unix(int64(i), 0),
		})
	}

	history := s.History(sess.ID, 30)
	if len(history) != 30 {
		t.Fatalf("History returned %d entries, want 30", len(history))
	}
	if history[0].Payload != "msg-11" || history[29].Payload != "msg-40" {
		t.Errorf("wrong window: first=%q last=%q", history[0].Payload, history[29].Payload)
	}
	if s.MessageCount(sess.ID) != 40 {
		t.Errorf("MessageCount = %d, want 40", s.MessageCount(sess.ID))
	}
}

func TestAppend_UnknownSessionDropped(t *testing.T) {
	s := NewStore()
	s.Append("nope", LogEntry{Sender: 1, Kind: KindText, Payload: "x"})
	if got := s.MessageCount("nope"); got != 0 {
		t.Errorf("entry logged for unknown session: count = %d", got)
	}
}

func TestRemove_RollsBackSession(t *testing.T) {
	s := NewStore()
	sess := s.Create(1, 2)
	s.Remove(sess.ID)

	if s.Get(sess.ID) != nil {
		t.Error("removed session still retrievable")
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d after rollback, want 0", s.Count())
	}
}

func TestSessions_NewestFirst(t *testing.T) {
	s := NewStore()
	older := s.Create(1, 2)
	newer := s.Create(3, 4)
	// Force distinct creation times; Create stamps both within the
	// same instant in a fast test run.
	older.CreatedAt = time.Unix(100, 0)
	newer.CreatedAt = time.Unix(200, 0)

	sessions := s.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("Sessions() returned %d entries", len(sessions))
	}
	if sessions[0].ID != newer.ID || sessions[1].ID != older.ID {
		t.Errorf("order = [%s, %s], want newest first", sessions[0].ID, sessions[1].ID)
	}
}

func TestRelayable(t *testing.T) {
	for _, kind := range []string{KindText, KindPhoto, KindVideo, KindDocument, KindAudio, KindVoice, KindSticker} {
		if !Relayable(kind) {
			t.Errorf("Relayable(%q) = false", kind)
		}
	}
	for _, kind := range []string{"animation", "video_note", "location", ""} {
		if Relayable(kind) {
			t.Errorf("Relayable(%q) = true", kind)
		}
	}
}
