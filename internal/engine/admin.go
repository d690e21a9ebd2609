package engine

import (
	"fmt"
	"log"
	"strings"

	"github.com/anonchat/pairbot/internal/ban"
	"github.com/anonchat/pairbot/internal/chat"
	"github.com/anonchat/pairbot/internal/metrics"
	"github.com/anonchat/pairbot/internal/user"
)

const (
	// historyLimit is how many trailing log entries /history shows.
	historyLimit = 30

	// sessionListLimit is how many sessions the chat listing shows.
	sessionListLimit = 10

	// recentUsersLimit is how many users the stats view tails.
	recentUsersLimit = 10

	timestampLayout = "02.01.2006 15:04:05"
)

// BanHandle adds a handle (or, for handle-less users, a decimal user
// ID) to the ban list and force-disconnects every matching user record:
// chatting partners are notified and reset, queue entries removed, the
// banned users told why.
func (e *Engine) BanHandle(handle string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := ban.Normalize(handle)
	e.bans.Ban(h)
	metrics.BansIssued.Inc()
	log.Printf("[engine] banned handle %q", h)

	for _, u := range e.users.ByHandle(h) {
		if u.State == user.StateChatting {
			if p := e.users.Get(u.PartnerID); p != nil {
				e.notify(p.ID, msgPartnerBanned)
				e.users.ResetIdle(p.ID)
			}
		}
		e.notify(u.ID, msgAdminBan)
		e.queue.Remove(u.ID)
		e.users.ResetIdle(u.ID)
	}
	e.updateGauges()
}

// UnbanHandle removes a handle from the ban list. Reports whether the
// handle was banned in the first place.
func (e *Engine) UnbanHandle(handle string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bans.Unban(handle)
}

// StatsView renders the aggregate counters and the most recent users.
func (e *Engine) StatsView() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := []string{
		"✨ 📊 Admin statistics 📊 ✨",
		"",
		fmt.Sprintf("👥 Total users: %d", e.users.Count()),
		fmt.Sprintf("🔍 Searching: %d", e.queue.Len()),
		fmt.Sprintf("💬 In active chats: %d", e.users.CountInState(user.StateChatting)),
		fmt.Sprintf("📂 Total chats: %d", e.chats.Count()),
		fmt.Sprintf("🚫 Banned: %d", e.bans.Count()),
		"",
		fmt.Sprintf("⚡ Last %d users:", recentUsersLimit),
	}

	for _, u := range e.users.Recent(recentUsersLimit) {
		status := "💤 idle"
		switch u.State {
		case user.StateChatting:
			status = "💬 in chat"
		case user.StateWaiting:
			status = "🔍 searching"
		}
		banned := ""
		if e.bans.IsBanned(u.DisplayHandle()) {
			banned = " (🚫)"
		}
		lines = append(lines, fmt.Sprintf("👤 %s%s (ID: %d): %s", u.DisplayHandle(), banned, u.ID, status))
	}

	return strings.Join(lines, "\n")
}

// HistoryView renders the header and the last entries of a session's
// log. Returns ErrUnknownSession for IDs that were never created.
func (e *Engine) HistoryView(sessionID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.chats.Get(sessionID)
	if sess == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}

	lines := []string{
		fmt.Sprintf("📝 Chat history %s", sess.ID),
		fmt.Sprintf("👥 Participants: %s and %s", e.displayHandle(sess.UserA), e.displayHandle(sess.UserB)),
		fmt.Sprintf("🕰 Created: %s", sess.CreatedAt.Format(timestampLayout)),
		"",
		fmt.Sprintf("Last %d messages:", historyLimit),
		"=======================",
	}

	for _, entry := range e.chats.History(sessionID, historyLimit) {
		content := entry.Payload
		if entry.Kind != chat.KindText {
			content = fmt.Sprintf("[%s]", entry.Kind)
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s",
			entry.Ts.Format(timestampLayout), e.displayHandle(entry.Sender), content))
	}

	return strings.Join(lines, "\n"), nil
}

// SessionsView renders all sessions newest-first, capped at
// sessionListLimit entries.
func (e *Engine) SessionsView() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	sessions := e.chats.Sessions()
	if len(sessions) == 0 {
		return "❌ No chats created"
	}
	if len(sessions) > sessionListLimit {
		sessions = sessions[:sessionListLimit]
	}

	lines := []string{
		"📂 All chats:",
		"=====================",
	}
	for _, sess := range sessions {
		lines = append(lines,
			fmt.Sprintf("🆔 %s", sess.ID),
			fmt.Sprintf("👤 Participants: %s and %s", e.displayHandle(sess.UserA), e.displayHandle(sess.UserB)),
			fmt.Sprintf("🕰 %s", sess.CreatedAt.Format(timestampLayout)),
			fmt.Sprintf("💬 Messages: %d", e.chats.MessageCount(sess.ID)),
			"-----------------------------",
		)
	}

	return strings.Join(lines, "\n")
}

// displayHandle resolves a user ID to its display handle, falling back
// to the raw ID for users who never registered.
func (e *Engine) displayHandle(id int64) string {
	if u := e.users.Get(id); u != nil {
		return u.DisplayHandle()
	}
	return fmt.Sprintf("%d", id)
}
