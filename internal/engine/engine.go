// Package engine implements the session/pairing core: user state
// tracking, the waiting-queue matching algorithm, chat-session
// lifecycle, message relay and the report/ban state machine.
//
// Every public operation is serialized under a single mutex, so each
// inbound command is fully processed before the next one touches the
// shared stores. Outbound notifications go through the Sender boundary;
// only the relay path cares about delivery errors.
package engine

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/anonchat/pairbot/internal/ban"
	"github.com/anonchat/pairbot/internal/chat"
	"github.com/anonchat/pairbot/internal/matching"
	"github.com/anonchat/pairbot/internal/metrics"
	"github.com/anonchat/pairbot/internal/report"
	"github.com/anonchat/pairbot/internal/user"
)

// Sender delivers outbound messages to users through the transport.
// Implementations must return an error when delivery to the recipient
// fails (blocked bot, unreachable account) so the relay path can tear
// the session down; notification sends are fire-and-forget.
type Sender interface {
	SendText(userID int64, text string) error
	SendMedia(userID int64, kind, fileID string) error
}

// Engine owns all shared state and processes one command at a time.
type Engine struct {
	mu      sync.Mutex
	users   *user.Registry
	queue   *matching.Queue
	chats   *chat.Store
	bans    *ban.Store
	reports *report.Store
	sender  Sender
}

// New creates an engine with empty stores.
func New(sender Sender) *Engine {
	return &Engine{
		users:   user.NewRegistry(),
		queue:   matching.NewQueue(),
		chats:   chat.NewStore(),
		bans:    ban.NewStore(),
		reports: report.NewStore(),
		sender:  sender,
	}
}

// banIdentity is the ban-list key for a user: the handle when set, the
// decimal user ID otherwise, so handle-less users stay bannable.
func banIdentity(id int64, handle string) string {
	if handle != "" {
		return handle
	}
	return strconv.FormatInt(id, 10)
}

// Start registers the caller (or resets an existing record) and sends
// the welcome text. A waiting or chatting caller is disconnected first,
// so the partner is not silently orphaned.
func (e *Engine) Start(id int64, handle string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bans.IsBanned(banIdentity(id, handle)) {
		e.notify(id, msgBanned)
		return ErrBanned
	}

	e.teardown(id)
	e.users.GetOrCreate(id, handle)
	e.notify(id, msgWelcome)
	return nil
}

// Help sends the command list.
func (e *Engine) Help(id int64) {
	e.notify(id, msgHelp)
}

// Find puts the caller into the waiting queue and immediately drains
// pairs. Unregistered callers are registered and welcomed instead, and
// must call find again.
func (e *Engine) Find(id int64, handle string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bans.IsBanned(banIdentity(id, handle)) {
		e.notify(id, msgBanned)
		return ErrBanned
	}

	u := e.users.Get(id)
	if u == nil {
		e.users.GetOrCreate(id, handle)
		e.notify(id, msgWelcome)
		return nil
	}

	if u.State != user.StateIdle {
		e.notify(id, msgAlreadyActive)
		return ErrAlreadyActive
	}

	// The state flips to waiting before the queue insert so a drain can
	// never observe a queued entry in a stale state.
	if err := e.users.Transition(id, user.StateWaiting, 0, ""); err != nil {
		e.recoverInvariant(id, err)
		return err
	}
	e.queue.Enqueue(id)
	e.notify(id, msgSearching)

	e.drainPairs()
	e.updateGauges()
	return nil
}

// drainPairs repeatedly matches the two oldest waiting users until
// fewer than two remain queued. Entries whose owner is no longer
// waiting are discarded; when that happens the healthy member of the
// popped pair is dropped from the queue as well, without being requeued.
func (e *Engine) drainPairs() {
	for {
		a, b, ok := e.queue.PopPair()
		if !ok {
			return
		}

		ua, ub := e.users.Get(a), e.users.Get(b)
		if ua == nil || ub == nil ||
			ua.State != user.StateWaiting || ub.State != user.StateWaiting {
			continue
		}

		sess := e.chats.Create(a, b)
		if err := e.users.Transition(a, user.StateChatting, b, sess.ID); err != nil {
			e.chats.Remove(sess.ID)
			e.recoverInvariant(a, err)
			continue
		}
		if err := e.users.Transition(b, user.StateChatting, a, sess.ID); err != nil {
			e.chats.Remove(sess.ID)
			e.users.ResetIdle(a)
			e.recoverInvariant(b, err)
			continue
		}

		metrics.SessionsCreated.Inc()
		found := fmt.Sprintf(msgPartnerFoundFmt, sess.ID)
		e.notify(a, found)
		e.notify(b, found)
		log.Printf("[engine] paired %d and %d in session %s", a, b, sess.ID)
	}
}

// Leave disconnects the caller from the queue or from an active chat.
func (e *Engine) Leave(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.leave(id)
}

func (e *Engine) leave(id int64) error {
	u := e.users.Get(id)
	if u == nil || u.State == user.StateIdle {
		e.notify(id, msgNotInChat)
		return ErrNotInChat
	}

	if u.State == user.StateWaiting {
		e.queue.Remove(id)
		e.users.ResetIdle(id)
		e.notify(id, msgSearchStopped)
		e.updateGauges()
		return nil
	}

	partnerID := u.PartnerID
	e.users.ResetIdle(id)
	e.notify(id, msgYouLeft)

	if p := e.users.Get(partnerID); p != nil && p.State == user.StateChatting {
		e.notify(p.ID, msgPartnerLeft)
		e.users.ResetIdle(p.ID)
	}
	e.updateGauges()
	return nil
}

// Report files a report against the caller's current partner. When the
// partner's counter reaches the threshold they are disconnected and
// told why; the reporter is disconnected afterwards either way.
func (e *Engine) Report(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	u := e.users.Get(id)
	if u == nil || u.State != user.StateChatting {
		e.notify(id, msgReportOnly)
		return ErrNotInChat
	}

	accused := u.PartnerID
	count, crossed := e.reports.Add(accused)
	metrics.ReportsFiled.Inc()
	log.Printf("[engine] report filed against %d (count=%d)", accused, count)

	if crossed {
		e.notify(accused, msgReportBan)
		e.teardown(accused)
	}

	e.notify(id, msgReportAccepted)

	// Leave semantics for the reporter. If the threshold already tore
	// the chat down, the reporter just gets the not-in-chat notice.
	_ = e.leave(id)
	return nil
}

// RelayText routes an inbound text message. Banned callers are refused
// like at every other entry point. Users who have never made contact
// are implicitly registered; users outside a chat get a command hint
// instead of a relay.
func (e *Engine) RelayText(id int64, handle, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bans.IsBanned(banIdentity(id, handle)) {
		e.notify(id, msgBanned)
		return ErrBanned
	}

	u := e.users.Get(id)
	if u == nil {
		e.users.GetOrCreate(id, handle)
		e.notify(id, msgWelcome)
		return nil
	}
	if u.State != user.StateChatting {
		e.notify(id, msgUseCommands)
		return ErrNotInChat
	}
	return e.relay(u, chat.KindText, text)
}

// RelayMedia routes an inbound media message. Banned callers are
// refused; senders outside a chat and payloads of unknown kinds are
// silently ignored.
func (e *Engine) RelayMedia(id int64, handle, kind, fileID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bans.IsBanned(banIdentity(id, handle)) {
		e.notify(id, msgBanned)
		return ErrBanned
	}
	if !chat.Relayable(kind) {
		return nil
	}
	u := e.users.Get(id)
	if u == nil || u.State != user.StateChatting {
		return nil
	}
	return e.relay(u, kind, fileID)
}

// relay appends the message to the session log and delivers it to the
// partner. A delivery failure tears the session down for both sides;
// the already-appended log entry is kept.
func (e *Engine) relay(u *user.User, kind, payload string) error {
	partner := e.users.Get(u.PartnerID)
	if u.State != user.StateChatting || partner == nil {
		e.notify(u.ID, msgPartnerLeft)
		e.users.ResetIdle(u.ID)
		e.updateGauges()
		return ErrPartnerUnavailable
	}

	e.chats.Append(u.SessionID, chat.LogEntry{
		Sender:  u.ID,
		Kind:    kind,
		Payload: payload,
		Ts:      time.Now(),
	})
	metrics.MessagesRelayed.WithLabelValues(kind).Inc()

	var err error
	if kind == chat.KindText {
		err = e.sender.SendText(partner.ID, payload)
	} else {
		err = e.sender.SendMedia(partner.ID, kind, payload)
	}
	if err != nil {
		log.Printf("[engine] relay %s from %d to %d failed: %v", kind, u.ID, partner.ID, err)
		e.teardown(partner.ID)
		e.notify(u.ID, msgPartnerLeft)
		e.users.ResetIdle(u.ID)
		e.updateGauges()
		return fmt.Errorf("%w: %v", ErrPartnerUnavailable, err)
	}
	return nil
}

// teardown is the shared disconnect primitive used by start, report,
// ban and relay failures. It is idempotent: a second call on an already
// idle user changes nothing.
func (e *Engine) teardown(id int64) {
	u := e.users.Get(id)
	if u == nil {
		return
	}

	switch u.State {
	case user.StateWaiting:
		e.queue.Remove(id)
	case user.StateChatting:
		if p := e.users.Get(u.PartnerID); p != nil && p.State == user.StateChatting {
			e.notify(p.ID, msgPartnerLeft)
			e.users.ResetIdle(p.ID)
		}
	}

	e.users.ResetIdle(id)
	e.updateGauges()
}

// notify sends a fire-and-forget text. Delivery errors here must not
// alter engine state, so they are only logged.
func (e *Engine) notify(id int64, text string) {
	if err := e.sender.SendText(id, text); err != nil {
		log.Printf("[engine] notify %d failed: %v", id, err)
	}
}

// recoverInvariant handles an ErrInvalidTransition: it is a defect, not
// a runtime condition, so log loudly and force the user back to a
// consistent idle state.
func (e *Engine) recoverInvariant(id int64, err error) {
	log.Printf("[engine] INVARIANT VIOLATION for user %d: %v", id, err)
	e.queue.Remove(id)
	e.users.ResetIdle(id)
	e.updateGauges()
}

func (e *Engine) updateGauges() {
	metrics.WaitingUsers.Set(float64(e.queue.Len()))
	metrics.ActiveChats.Set(float64(e.users.CountInState(user.StateChatting) / 2))
}
