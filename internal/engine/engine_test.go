package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/abhisek/specter/internal/game"
	"github.com/abhisek/specter/internal/llm"
)

func mockJSON(t *testing.T, v any) llm.MockResponse {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal mock response: %v", err)
	}
	return llm.MockResponse{Content: raw}
}

func briefingPayload(t *testing.T) llm.MockResponse {
	return mockJSON(t, map[string]any{
		"markdown_response": "# The Vault\nWelcome, agent.",
		"mascot_action":     "GREET",
		"game_state_update": map[string]any{
			"current_level": 1,
			"level_title":   "Perimeter Breach",
			"core_pillars":  []string{"photosynthesis", "chlorophyll", "glucose"},
		},
	})
}

func TestStart_DecodesBriefing(t *testing.T) {
	provider := llm.NewMockProvider(briefingPayload(t))
	eng := New(provider, DefaultConfig())

	handle, resp, err := eng.Start(context.Background(), "the document")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if handle == "" {
		t.Error("expected a non-empty handle")
	}
	if resp.Markdown != "# The Vault\nWelcome, agent." {
		t.Errorf("Markdown = %q", resp.Markdown)
	}
	if resp.MascotAct == nil || *resp.MascotAct != game.MascotGreet {
		t.Errorf("MascotAct = %v, want GREET", resp.MascotAct)
	}
	if resp.StateUpdate.CurrentLevel == nil || *resp.StateUpdate.CurrentLevel != 1 {
		t.Errorf("CurrentLevel = %v, want 1", resp.StateUpdate.CurrentLevel)
	}
	if got := len(resp.StateUpdate.CorePillars); got != 3 {
		t.Errorf("CorePillars count = %d, want 3", got)
	}
	if resp.QuizResult != nil {
		t.Errorf("QuizResult = %v, want absent", resp.QuizResult)
	}
}

func TestStart_TruncatesDocument(t *testing.T) {
	provider := llm.NewMockProvider(briefingPayload(t))
	eng := New(provider, DefaultConfig())

	doc := strings.Repeat("x", MaxDocumentChars+5000)
	if _, _, err := eng.Start(context.Background(), doc); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sent := provider.Calls[0].Messages[0].Content
	if strings.Count(sent, "x") != MaxDocumentChars {
		t.Errorf("sent %d document chars, want %d", strings.Count(sent, "x"), MaxDocumentChars)
	}
}

func TestStart_TruncatesOnRuneBoundary(t *testing.T) {
	provider := llm.NewMockProvider(briefingPayload(t))
	eng := New(provider, DefaultConfig())

	// A leading ASCII byte misaligns the three-byte runes that follow,
	// so a byte-wise cut at the cap would land mid-rune.
	doc := "a" + strings.Repeat("語", MaxDocumentChars/3+100)
	if _, _, err := eng.Start(context.Background(), doc); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sent := provider.Calls[0].Messages[0].Content
	if !utf8.ValidString(sent) {
		t.Error("briefing message contains invalid UTF-8 after truncation")
	}
	if strings.Count(sent, "�") != 0 {
		t.Error("briefing message contains replacement characters")
	}
}

func TestSend_ReplaysHistory(t *testing.T) {
	provider := llm.NewMockProvider(
		briefingPayload(t),
		mockJSON(t, map[string]any{
			"markdown_response": "Correct, agent.",
			"quiz_result":       "CORRECT",
			"game_state_update": map[string]any{"xp_gained": 35},
		}),
	)
	eng := New(provider, DefaultConfig())

	handle, _, err := eng.Start(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := eng.Send(context.Background(), handle, "my answer")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.QuizResult == nil || *resp.QuizResult != game.QuizCorrect {
		t.Errorf("QuizResult = %v, want CORRECT", resp.QuizResult)
	}
	if resp.StateUpdate.XPGained == nil || *resp.StateUpdate.XPGained != 35 {
		t.Errorf("XPGained = %v, want 35", resp.StateUpdate.XPGained)
	}

	// The second request must carry the whole conversation so far.
	msgs := provider.Calls[1].Messages
	if len(msgs) != 3 {
		t.Fatalf("second request has %d messages, want 3", len(msgs))
	}
	if msgs[1].Role != llm.RoleAssistant {
		t.Errorf("history message role = %q, want assistant", msgs[1].Role)
	}
	if msgs[2].Content != "my answer" {
		t.Errorf("latest message = %q", msgs[2].Content)
	}
}

func TestSend_UnknownHandle(t *testing.T) {
	eng := New(llm.NewMockProvider(), DefaultConfig())
	if _, err := eng.Send(context.Background(), Handle("nope"), "hi"); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("err = %v, want ErrUnknownHandle", err)
	}
}

func TestSend_AfterClose(t *testing.T) {
	provider := llm.NewMockProvider(briefingPayload(t))
	eng := New(provider, DefaultConfig())

	handle, _, err := eng.Start(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	eng.Close(handle)

	if _, err := eng.Send(context.Background(), handle, "hi"); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("err = %v, want ErrUnknownHandle", err)
	}
}

func TestSend_SchemaViolation(t *testing.T) {
	provider := llm.NewMockProvider(
		briefingPayload(t),
		llm.MockResponse{Content: json.RawMessage(`{"note":"no markdown here"}`)},
	)
	eng := New(provider, DefaultConfig())

	handle, _, err := eng.Start(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err = eng.Send(context.Background(), handle, "hi")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err = %v, want *SchemaError", err)
	}
}

func TestDecodeResponse_Challenge(t *testing.T) {
	raw := json.RawMessage(`{
		"markdown_response": "A mission awaits.",
		"active_challenge": {
			"title": "Crack the cipher",
			"description": "Explain the second law in your own words.",
			"difficulty": "HARD",
			"xpReward": 60
		},
		"flashcards": [{"term": "Entropy", "definition": "Disorder of a system."}]
	}`)

	resp, err := decodeResponse(raw)
	if err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if resp.Challenge == nil {
		t.Fatal("expected a challenge")
	}
	if resp.Challenge.Difficulty != game.DifficultyHard {
		t.Errorf("Difficulty = %q, want HARD", resp.Challenge.Difficulty)
	}
	if resp.Challenge.XPReward != 60 {
		t.Errorf("XPReward = %d, want 60", resp.Challenge.XPReward)
	}
	if len(resp.Flashcards) != 1 || resp.Flashcards[0].Term != "Entropy" {
		t.Errorf("Flashcards = %v", resp.Flashcards)
	}
}

func TestDecodeResponse_MalformedJSON(t *testing.T) {
	if _, err := decodeResponse(json.RawMessage(`{"markdown`)); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestStatic_ServesFIFO(t *testing.T) {
	eng := NewStatic(StaticResponse("first"), StaticResponse("second"))

	handle, resp, err := eng.Start(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if resp.Markdown != "first" {
		t.Errorf("Markdown = %q, want first", resp.Markdown)
	}

	resp, err = eng.Send(context.Background(), handle, "go")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Markdown != "second" {
		t.Errorf("Markdown = %q, want second", resp.Markdown)
	}

	if _, err := eng.Send(context.Background(), handle, "again"); err == nil {
		t.Error("expected an error once responses are exhausted")
	}
}
