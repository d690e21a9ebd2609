package engine

import "errors"

var (
	// ErrBanned means the caller's handle is on the ban list; access is
	// refused at every entry point.
	ErrBanned = errors.New("engine: banned")

	// ErrAlreadyActive means the caller tried to search while already
	// waiting or chatting.
	ErrAlreadyActive = errors.New("engine: already waiting or chatting")

	// ErrNotInChat means the caller has no active session for an
	// operation that requires one.
	ErrNotInChat = errors.New("engine: not in a chat")

	// ErrPartnerUnavailable means the partner record disappeared or
	// delivery to the partner failed; the session was torn down.
	ErrPartnerUnavailable = errors.New("engine: partner unavailable")

	// ErrUnknownSession means an admin referenced a session ID that was
	// never created.
	ErrUnknownSession = errors.New("engine: unknown session")
)
