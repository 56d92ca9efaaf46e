// Package session owns the lifecycle of one heist: the status machine,
// the append-only transcript, and the scoreboard. It is the only code
// that applies engine responses to game state.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/specter/internal/engine"
	"github.com/abhisek/specter/internal/game"
	"github.com/abhisek/specter/internal/ingest"
	"github.com/abhisek/specter/internal/store"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusAnalyzing Status = "analyzing"
	StatusPlaying   Status = "playing"
	StatusGameOver  Status = "game_over"
)

// disruptedMessage is appended to the transcript when a mid-heist engine
// call fails. The failure is always visible; a turn is never silently
// dropped.
const disruptedMessage = "**...signal disrupted.** The line went dead for a moment there, agent. The vault is still in front of you. Say that again."

// Session is one heist run. All methods are safe for concurrent use; at
// most one turn is in flight at a time.
type Session struct {
	mu sync.Mutex

	id         string
	status     Status
	state      game.State
	mascot     game.Mascot
	transcript []game.Message

	docName  string
	docChars int
	turns    int

	eng    engine.Engine
	handle engine.Handle
	events store.EventRepo // optional

	// generation invalidates responses that arrive after the session was
	// reset or pointed at a new document.
	generation uint64
	inFlight   bool
}

// New returns an Idle session. events may be nil.
func New(eng engine.Engine, events store.EventRepo) *Session {
	return &Session{
		id:     uuid.NewString(),
		status: StatusIdle,
		state:  game.NewState(),
		mascot: game.MascotIdle,
		eng:    eng,
		events: events,
	}
}

// Initialize points the session at a new document and opens the heist.
// Any previous run is discarded: the old engine handle is closed and
// responses still in flight for it are invalidated. On failure the
// session is Idle and the error is an *InitError.
func (s *Session) Initialize(ctx context.Context, doc ingest.Document) error {
	s.mu.Lock()
	if s.handle != "" {
		s.eng.Close(s.handle)
		s.appendSessionEvent(ctx, "reset")
	}
	s.generation++
	gen := s.generation
	s.handle = ""
	s.inFlight = false
	s.status = StatusAnalyzing
	s.state = game.NewState()
	s.mascot = game.MascotThinking
	s.transcript = nil
	s.docName = doc.Name
	s.docChars = len(doc.Text)
	s.turns = 0
	s.mu.Unlock()

	handle, resp, err := s.eng.Start(ctx, doc.Text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// A newer Initialize superseded this one while the engine call was
		// outstanding.
		if err == nil {
			s.eng.Close(handle)
		}
		return nil
	}

	if err != nil {
		s.status = StatusIdle
		s.mascot = game.MascotIdle
		return &InitError{Err: err}
	}

	s.handle = handle
	s.status = StatusPlaying
	s.applyResponse(resp)
	s.applyBriefingDefaults()
	s.appendSessionEvent(ctx, "start")
	return nil
}

// SubmitTurn sends one player message through the engine and applies the
// reply. Whitespace-only input and overlapping submissions are rejected
// without touching the transcript or calling the engine. A failed engine
// call leaves the scoreboard unchanged, appends a visible narrator
// message, and returns a *TurnError.
func (s *Session) SubmitTurn(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyTurn
	}

	s.mu.Lock()
	if s.status != StatusPlaying {
		s.mu.Unlock()
		return ErrNotPlaying
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrTurnInFlight
	}
	s.inFlight = true
	gen := s.generation
	handle := s.handle
	s.append(game.RoleUser, text, nil, nil)
	s.mascot = game.MascotThinking
	s.mu.Unlock()

	resp, err := s.eng.Send(ctx, handle, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// Stale response for a session that has since been reset.
		return nil
	}
	s.inFlight = false

	if err != nil {
		s.append(game.RoleNarrator, disruptedMessage, nil, nil)
		s.mascot = game.MascotIdle
		s.appendTurnEvent(ctx, nil, true)
		return &TurnError{Err: err}
	}

	bossBefore := s.state.IsBossFight
	s.applyResponse(resp)
	s.turns++
	s.appendTurnEvent(ctx, resp, false)

	// Cracking the final level's boss ends the heist.
	if bossBefore &&
		s.state.CurrentLevel >= s.state.MaxLevel &&
		resp.QuizResult != nil && *resp.QuizResult == game.QuizCorrect {
		s.status = StatusGameOver
		s.appendSessionEvent(ctx, "end")
	}
	return nil
}

// End closes the session and its engine handle, returning it to Idle.
func (s *Session) End(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != "" {
		s.eng.Close(s.handle)
		s.appendSessionEvent(ctx, "end")
	}
	s.generation++
	s.handle = ""
	s.inFlight = false
	s.status = StatusIdle
	s.state = game.NewState()
	s.mascot = game.MascotIdle
	s.transcript = nil
	s.docName = ""
	s.docChars = 0
	s.turns = 0
}

// applyResponse folds one engine response into the session. Caller holds
// the lock.
func (s *Session) applyResponse(resp *engine.Response) {
	s.state = game.Advance(s.state, resp.StateUpdate)
	s.mascot = game.DeriveMascot(resp.QuizResult, resp.MascotAct)
	s.append(game.RoleNarrator, resp.Markdown, resp.Flashcards, resp.Challenge)
}

// applyBriefingDefaults fills the scoreboard fields the opening briefing
// is expected to set but may have omitted. Caller holds the lock.
func (s *Session) applyBriefingDefaults() {
	if s.state.CurrentLevel == 0 {
		s.state.CurrentLevel = 1
	}
	if s.state.LevelTitle == game.WaitingTitle {
		s.state.LevelTitle = game.InitialTitle
	}
}

func (s *Session) append(role game.Role, content string, cards []game.Flashcard, challenge *game.Challenge) {
	s.transcript = append(s.transcript, game.Message{
		ID:         uuid.NewString(),
		Role:       role,
		Content:    content,
		Flashcards: cards,
		Challenge:  challenge,
		Timestamp:  time.Now(),
	})
}

func (s *Session) appendSessionEvent(ctx context.Context, action string) {
	if s.events == nil {
		return
	}
	// Event writes are best-effort; a storage hiccup never fails a turn.
	_ = s.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:     s.id,
		Action:        action,
		DocumentName:  s.docName,
		DocumentChars: s.docChars,
		FinalLevel:    s.state.CurrentLevel,
		FinalXP:       s.state.XP,
		Turns:         s.turns,
	})
}

func (s *Session) appendTurnEvent(ctx context.Context, resp *engine.Response, failed bool) {
	if s.events == nil {
		return
	}
	data := store.TurnEventData{
		SessionID: s.id,
		Level:     s.state.CurrentLevel,
		BossFight: s.state.IsBossFight,
		Failed:    failed,
	}
	if resp != nil {
		if resp.StateUpdate.XPGained != nil {
			data.XPDelta = *resp.StateUpdate.XPGained
		}
		if resp.QuizResult != nil {
			data.QuizResult = string(*resp.QuizResult)
		}
		if resp.Challenge != nil {
			data.ChallengeDifficulty = string(resp.Challenge.Difficulty)
		}
	}
	_ = s.events.AppendTurnEvent(ctx, data)
}

// ID returns the session identifier used in stored events.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// State returns a snapshot of the scoreboard.
func (s *Session) State() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mascot returns the current mascot directive.
func (s *Session) Mascot() game.Mascot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mascot
}

// Transcript returns a copy of the message history, oldest first.
func (s *Session) Transcript() []game.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]game.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// DocumentName returns the name of the ingested document, or "" when Idle.
func (s *Session) DocumentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docName
}

// Turns returns the number of completed turns this run.
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns
}

// InFlight reports whether a turn is currently outstanding.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
