package game

// Session constants. MaxLevel and MaxXP never change once a run starts;
// the engine only moves the level and XP counters within them.
const (
	DefaultMaxLevel = 5
	DefaultMaxXP    = 100
)

// WaitingTitle is shown before a document has been analyzed.
const WaitingTitle = "Awaiting target…"

// InitialTitle is the fallback level title when the engine's first
// response does not supply one.
const InitialTitle = "Infiltration begins"

// State is the heist scoreboard. Values, not pointers — Advance returns
// a new State and never mutates its input.
type State struct {
	CurrentLevel int
	MaxLevel     int
	XP           int
	MaxXP        int
	LevelTitle   string
	IsBossFight  bool
	CorePillars  []string
}

// NewState returns the pre-game scoreboard.
func NewState() State {
	return State{
		CurrentLevel: 0,
		MaxLevel:     DefaultMaxLevel,
		XP:           0,
		MaxXP:        DefaultMaxXP,
		LevelTitle:   WaitingTitle,
	}
}

// StateUpdate is the engine's partial scoreboard instruction for one turn.
// Nil fields mean "not supplied" and follow the carry-forward rules in
// Advance; this is distinct from a present-but-zero value.
type StateUpdate struct {
	CurrentLevel *int
	LevelTitle   *string
	XPGained     *int
	IsBossFight  *bool
	CorePillars  []string // nil = absent; empty slice = explicit clear
}

// Advance derives the next scoreboard from the prior one and the engine's
// update. It is a pure function: same inputs, same output, no side effects.
//
// Rules, in order:
//  1. Level and title carry forward unless supplied (title also carries on
//     a supplied-but-empty string).
//  2. The boss flag lapses every turn unless re-asserted.
//  3. Pillars carry forward when absent; a present array replaces them,
//     even when empty.
//  4. XP moves by the supplied delta, clamped at zero.
//  5. If the accumulated XP crosses MaxXP while the engine left the level
//     number alone, a single wrap is applied (xp -= MaxXP). A delta large
//     enough to cross the threshold twice still wraps only once.
func Advance(prior State, up StateUpdate) State {
	next := prior

	if up.CurrentLevel != nil {
		next.CurrentLevel = *up.CurrentLevel
	}

	if up.LevelTitle != nil && *up.LevelTitle != "" {
		next.LevelTitle = *up.LevelTitle
	}

	next.IsBossFight = up.IsBossFight != nil && *up.IsBossFight

	if up.CorePillars != nil {
		next.CorePillars = up.CorePillars
	}

	gained := 0
	if up.XPGained != nil {
		gained = *up.XPGained
	}
	rawXP := prior.XP + gained
	if rawXP < 0 {
		rawXP = 0
	}
	if rawXP >= prior.MaxXP && next.CurrentLevel == prior.CurrentLevel {
		rawXP -= prior.MaxXP
	}
	next.XP = rawXP

	return next
}

// DisplayPillars returns at most the first three pillars, the number the
// HUD has room for.
func (s State) DisplayPillars() []string {
	if len(s.CorePillars) <= 3 {
		return s.CorePillars
	}
	return s.CorePillars[:3]
}

// XPPercent returns XP progress toward the next level as a 0.0–1.0 fraction.
func (s State) XPPercent() float64 {
	if s.MaxXP <= 0 {
		return 0
	}
	p := float64(s.XP) / float64(s.MaxXP)
	if p > 1 {
		p = 1
	}
	return p
}
