package session

import (
	"errors"
	"fmt"
)

// Sentinel rejections. These are no-ops from the session's point of view:
// nothing was appended, nothing was sent.
var (
	ErrEmptyTurn    = errors.New("session: empty turn")
	ErrTurnInFlight = errors.New("session: a turn is already in flight")
	ErrNotPlaying   = errors.New("session: no active heist")
)

// InitError is fatal to session startup. The session returns to Idle and
// the caller must not treat it as playable.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("session init: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// TurnError is a recoverable mid-heist failure. The session stays in
// Playing and the scoreboard is untouched; a visible narrator message has
// already been appended to the transcript.
type TurnError struct {
	Err error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("session turn: %v", e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }
