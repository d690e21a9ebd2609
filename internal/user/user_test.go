package user

import "testing"

func TestGetOrCreate_NewAndExisting(t *testing.T) {
	r := NewRegistry()

	u := r.GetOrCreate(1, "alice")
	if u.State != StateIdle {
		t.Fatalf("new user state = %q, want %q", u.State, StateIdle)
	}
	if u.Handle != "alice" {
		t.Errorf("handle = %q, want %q", u.Handle, "alice")
	}

	// Second call returns the same record.
	again := r.GetOrCreate(1, "")
	if again != u {
		t.Error("expected the same record on repeat GetOrCreate")
	}
	if again.Handle != "alice" {
		t.Errorf("empty handle overwrote stored handle: %q", again.Handle)
	}

	// A non-empty handle refreshes the stored one.
	r.GetOrCreate(1, "alice_new")
	if u.Handle != "alice_new" {
		t.Errorf("handle not refreshed: %q", u.Handle)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
}

func TestDisplayHandle_Fallback(t *testing.T) {
	u := &User{ID: 42}
	if got := u.DisplayHandle(); got != "42" {
		t.Errorf("DisplayHandle() = %q, want %q", got, "42")
	}
	u.Handle = "bob"
	if got := u.DisplayHandle(); got != "bob" {
		t.Errorf("DisplayHandle() = %q, want %q", got, "bob")
	}
}

func TestTransition_Invariant(t *testing.T) {
	tests := []struct {
		name      string
		state     string
		partnerID int64
		sessionID string
		wantErr   bool
	}{
		{"chatting with refs", StateChatting, 2, "1_2_100", false},
		{"chatting without partner", StateChatting, 0, "1_2_100", true},
		{"chatting without session", StateChatting, 2, "", true},
		{"waiting clean", StateWaiting, 0, "", false},
		{"waiting with partner", StateWaiting, 2, "", true},
		{"idle clean", StateIdle, 0, "", false},
		{"idle with session", StateIdle, 0, "1_2_100", true},
		{"unknown state", "gone", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.GetOrCreate(1, "alice")

			err := r.Transition(1, tt.state, tt.partnerID, tt.sessionID)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			u := r.Get(1)
			if u.State != tt.state || u.PartnerID != tt.partnerID || u.SessionID != tt.sessionID {
				t.Errorf("record = %+v after transition to %q", u, tt.state)
			}
		})
	}
}

func TestTransition_Unregistered(t *testing.T) {
	r := NewRegistry()
	if err := r.Transition(9, StateWaiting, 0, ""); err == nil {
		t.Fatal("expected error for unregistered user")
	}
}

func TestResetIdle(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate(1, "alice")
	if err := r.Transition(1, StateChatting, 2, "1_2_100"); err != nil {
		t.Fatalf("Transition() error: %v", err)
	}

	r.ResetIdle(1)
	u := r.Get(1)
	if u.State != StateIdle || u.PartnerID != 0 || u.SessionID != "" {
		t.Errorf("record not reset: %+v", u)
	}

	// No-op for unknown users.
	r.ResetIdle(999)
}

func TestRecent_OrderAndLimit(t *testing.T) {
	r := NewRegistry()
	for i := int64(1); i <= 12; i++ {
		r.GetOrCreate(i, "")
	}

	recent := r.Recent(10)
	if len(recent) != 10 {
		t.Fatalf("Recent(10) returned %d users", len(recent))
	}
	if recent[0].ID != 3 || recent[9].ID != 12 {
		t.Errorf("unexpected window: first=%d last=%d", recent[0].ID, recent[9].ID)
	}

	if got := r.Recent(100); len(got) != 12 {
		t.Errorf("Recent(100) returned %d users, want 12", len(got))
	}
}

func TestByHandle_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate(1, "Eve")
	r.GetOrCreate(2, "eve")
	r.GetOrCreate(3, "mallory")
	r.GetOrCreate(4, "")

	matches := r.ByHandle("EVE")
	if len(matches) != 2 {
		t.Fatalf("ByHandle matched %d records, want 2", len(matches))
	}

	// Handle-less users are addressable by their decimal ID.
	matches = r.ByHandle("4")
	if len(matches) != 1 || matches[0].ID != 4 {
		t.Fatalf("ByHandle(\"4\") matched %d records, want the handle-less user", len(matches))
	}

	// The empty string never matches anything.
	if got := r.ByHandle(""); len(got) != 0 {
		t.Errorf("ByHandle(\"\") matched %d records, want 0", len(got))
	}
}

func TestCountInState(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate(1, "")
	r.GetOrCreate(2, "")
	r.GetOrCreate(3, "")
	if err := r.Transition(2, StateWaiting, 0, ""); err != nil {
		t.Fatalf("Transition() error: %v", err)
	}

	if got := r.CountInState(StateIdle); got != 2 {
		t.Errorf("idle count = %d, want 2", got)
	}
	if got := r.CountInState(StateWaiting); got != 1 {
		t.Errorf("waiting count = %d, want 1", got)
	}
}
