package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit int // max results (0 = unlimited)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token consumption for one purpose label.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token consumption for one model, the unit
// pricing is quoted in.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// SessionEventData records a session lifecycle transition.
// Action is one of "start", "end", "reset".
type SessionEventData struct {
	SessionID     string
	Action        string
	DocumentName  string
	DocumentChars int
	FinalLevel    int
	FinalXP       int
	Turns         int
}

// SessionEvent is a stored session lifecycle event.
type SessionEvent struct {
	ID        int
	Timestamp time.Time
	SessionEventData
}

// TurnEventData records the outcome of one completed (or failed) turn.
type TurnEventData struct {
	SessionID           string
	XPDelta             int
	Level               int
	QuizResult          string
	ChallengeDifficulty string
	BossFight           bool
	Failed              bool
}

// TurnStats aggregates turn outcomes across sessions.
type TurnStats struct {
	Turns       int
	Failed      int
	XPEarned    int // sum of positive deltas
	XPLost      int // sum of negative deltas, as a positive number
	QuizCorrect int
	QuizWrong   int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionEvents returns session events, newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// AppendTurnEvent records the outcome of one turn.
	AppendTurnEvent(ctx context.Context, data TurnEventData) error

	// TurnStatsTotal aggregates turn outcomes across all sessions.
	TurnStatsTotal(ctx context.Context) (*TurnStats, error)
}
