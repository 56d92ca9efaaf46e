package engine

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/specter/internal/game"
)

// Response is one decoded narrative engine payload. Optional fields keep
// explicit present/absent semantics: a nil pointer means the engine did
// not send the field, which is not the same as a zero value.
type Response struct {
	Markdown    string
	MascotAct   *game.Mascot
	QuizResult  *game.QuizResult
	Flashcards  []game.Flashcard
	Challenge   *game.Challenge
	StateUpdate game.StateUpdate
}

// SchemaError reports a payload that parsed as JSON but violated the
// expected response shape, or did not parse at all.
type SchemaError struct {
	Raw json.RawMessage
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("engine response schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// wire mirrors the JSON layout the engine is instructed to produce.
type wire struct {
	MarkdownResponse string          `json:"markdown_response"`
	MascotAction     *string         `json:"mascot_action"`
	QuizResult       *string         `json:"quiz_result"`
	Flashcards       []wireFlashcard `json:"flashcards"`
	ActiveChallenge  *wireChallenge  `json:"active_challenge"`
	GameStateUpdate  *wireState      `json:"game_state_update"`
}

type wireFlashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type wireChallenge struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	XPReward    int    `json:"xpReward"`
}

type wireState struct {
	CurrentLevel *int     `json:"current_level"`
	LevelTitle   *string  `json:"level_title"`
	XPGained     *int     `json:"xp_gained"`
	IsBossFight  *bool    `json:"is_boss_fight"`
	CorePillars  []string `json:"core_pillars"`
}

// decodeResponse parses a raw engine payload into a Response.
func decodeResponse(raw json.RawMessage) (*Response, error) {
	var w wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, &SchemaError{Raw: raw, Err: err}
	}
	if w.MarkdownResponse == "" {
		return nil, &SchemaError{Raw: raw, Err: fmt.Errorf("missing markdown_response")}
	}

	resp := &Response{Markdown: w.MarkdownResponse}

	if w.MascotAction != nil {
		m := game.Mascot(*w.MascotAction)
		resp.MascotAct = &m
	}
	if w.QuizResult != nil {
		q := game.QuizResult(*w.QuizResult)
		resp.QuizResult = &q
	}
	for _, fc := range w.Flashcards {
		resp.Flashcards = append(resp.Flashcards, game.Flashcard{
			Term:       fc.Term,
			Definition: fc.Definition,
		})
	}
	if w.ActiveChallenge != nil {
		resp.Challenge = &game.Challenge{
			Title:       w.ActiveChallenge.Title,
			Description: w.ActiveChallenge.Description,
			Difficulty:  game.Difficulty(w.ActiveChallenge.Difficulty),
			XPReward:    w.ActiveChallenge.XPReward,
		}
	}
	if w.GameStateUpdate != nil {
		resp.StateUpdate = game.StateUpdate{
			CurrentLevel: w.GameStateUpdate.CurrentLevel,
			LevelTitle:   w.GameStateUpdate.LevelTitle,
			XPGained:     w.GameStateUpdate.XPGained,
			IsBossFight:  w.GameStateUpdate.IsBossFight,
			CorePillars:  w.GameStateUpdate.CorePillars,
		}
	}

	return resp, nil
}
