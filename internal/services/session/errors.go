package session

import (
	"errors"
)

// Kind classifies session errors
type Kind string

const (
	KindValidation      Kind = "validation"
	KindAuthorization   Kind = "authorization"
	KindNotFound        Kind = "not_found"
	KindState           Kind = "state"
	KindDeadlineExpired Kind = "deadline_expired"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

// Error is a session failure reported back to the caller
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches the bare kind sentinels (ErrValidation, ErrConflict, ...) against
// any error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of a session error, KindInternal for anything else
func KindOf(err error) Kind {
	var sessionErr *Error
	if errors.As(err, &sessionErr) {
		return sessionErr.Kind
	}
	return KindInternal
}

// Kind sentinels
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrAuthorization   = &Error{Kind: KindAuthorization}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrState           = &Error{Kind: KindState}
	ErrDeadlineExpired = &Error{Kind: KindDeadlineExpired}
	ErrConflict        = &Error{Kind: KindConflict}
)

// Define errors
var (
	ErrRoomNotFound   = newError(KindNotFound, "room not found")
	ErrPlayerNotFound = newError(KindNotFound, "player not found")
	ErrGuessNotFound  = newError(KindNotFound, "guess not found")

	ErrNotInRoom        = newError(KindAuthorization, "player is not in this room")
	ErrNotHost          = newError(KindAuthorization, "only the host can do that")
	ErrNotGuessCloser   = newError(KindAuthorization, "only the host or the target can close guesses")
	ErrTargetMismatch   = newError(KindAuthorization, "target player does not match this round")
	ErrSelfTarget       = newError(KindAuthorization, "the target cannot guess their own task")
	ErrTargetCannotVote = newError(KindAuthorization, "the target cannot vote")
	ErrSelfVote         = newError(KindAuthorization, "cannot vote on your own guess")

	ErrGameAlreadyRunning = newError(KindState, "game already started")
	ErrRoomFull           = newError(KindState, "room is full")
	ErrGameNotRunning     = newError(KindState, "game is not running")
	ErrNotEnoughPlayers   = newError(KindState, "at least 2 players are needed")
	ErrPlayersNotReady    = newError(KindState, "not every player is ready")
	ErrNoOutstandingTask  = newError(KindState, "no outstanding task")
	ErrWrongPhase         = newError(KindState, "action not allowed in the current phase")

	ErrGuessDeadlineExpired  = newError(KindDeadlineExpired, "guess window has closed")
	ErrVotingDeadlineExpired = newError(KindDeadlineExpired, "voting window has closed")

	ErrNicknameTaken    = newError(KindConflict, "nickname is already taken")
	ErrAlreadyInRoom    = newError(KindConflict, "player is already in a room")
	ErrDuplicateGuess   = newError(KindConflict, "guess already submitted")
	ErrDuplicateVote    = newError(KindConflict, "vote already submitted")
	ErrStillConnected   = newError(KindConflict, "player is still connected")
	ErrPlayerMovedRooms = newError(KindConflict, "player changed rooms")
)

// Configuration errors
var (
	ErrNilConfig        = errors.New("config cannot be nil")
	ErrNilRoomRepo      = errors.New("room repository cannot be nil")
	ErrNilPlayerRepo    = errors.New("player repository cannot be nil")
	ErrNilRoundRepo     = errors.New("round repository cannot be nil")
	ErrNilTaskService   = errors.New("task service cannot be nil")
	ErrNilScheduler     = errors.New("scheduler cannot be nil")
	ErrNilPublisher     = errors.New("publisher cannot be nil")
	ErrNilPicker        = errors.New("picker cannot be nil")
	ErrNilClock         = errors.New("clock cannot be nil")
	ErrNilUUIDGenerator = errors.New("UUID generator cannot be nil")
)
