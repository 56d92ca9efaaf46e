package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLLMEvents_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "mock",
		Model:        "mock",
		Purpose:      "turn",
		InputTokens:  100,
		OutputTokens: 50,
		LatencyMs:    42,
		Success:      true,
		RequestBody:  "[user]\nhello",
		ResponseBody: `{"markdown_response":"hi"}`,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "briefing",
		Success: false, ErrorMessage: "boom",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].Purpose != "briefing" || events[1].Purpose != "turn" {
		t.Errorf("unexpected order: %q, %q", events[0].Purpose, events[1].Purpose)
	}
	if !events[1].Success || events[0].Success {
		t.Error("success flags not round-tripped")
	}

	events, err = repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query with limit: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestLLMEvents_GetByID(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "turn",
		RequestBody: "req", ResponseBody: "resp",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	e, err := repo.GetLLMEvent(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil {
		t.Fatal("expected event, got nil")
	}
	if e.RequestBody != "req" || e.ResponseBody != "resp" {
		t.Errorf("bodies not round-tripped: %q, %q", e.RequestBody, e.ResponseBody)
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestLLMUsageByPurpose(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for range 3 {
		_ = repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "mock", Model: "mock", Purpose: "turn",
			InputTokens: 10, OutputTokens: 5, Success: true,
		})
	}
	_ = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "briefing",
		InputTokens: 100, OutputTokens: 50, Success: true,
	})

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("expected 2 usage rows, got %d", len(usage))
	}
	byPurpose := make(map[string]LLMUsage)
	for _, u := range usage {
		byPurpose[u.Purpose] = u
	}
	if u := byPurpose["turn"]; u.Calls != 3 || u.InputTokens != 30 {
		t.Errorf("turn usage = %+v", u)
	}
	if u := byPurpose["briefing"]; u.Calls != 1 || u.OutputTokens != 50 {
		t.Errorf("briefing usage = %+v", u)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("model usage: %v", err)
	}
	if len(byModel) != 1 {
		t.Fatalf("expected 1 model row, got %d", len(byModel))
	}
	if u := byModel[0]; u.Model != "mock" || u.Calls != 4 || u.InputTokens != 130 {
		t.Errorf("model usage = %+v", u)
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	_ = repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: "start",
		DocumentName: "notes.pdf", DocumentChars: 1234,
	})
	_ = repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: "end",
		FinalLevel: 3, FinalXP: 40, Turns: 12,
	})

	events, err := repo.QuerySessionEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Action != "end" || events[0].FinalLevel != 3 {
		t.Errorf("unexpected end event: %+v", events[0])
	}
	if events[1].DocumentName != "notes.pdf" {
		t.Errorf("unexpected start event: %+v", events[1])
	}
}

func TestTurnStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	_ = repo.AppendTurnEvent(ctx, TurnEventData{SessionID: "s1", XPDelta: 15, QuizResult: "CORRECT"})
	_ = repo.AppendTurnEvent(ctx, TurnEventData{SessionID: "s1", XPDelta: -10, QuizResult: "WRONG"})
	_ = repo.AppendTurnEvent(ctx, TurnEventData{SessionID: "s1", Failed: true})

	stats, err := repo.TurnStatsTotal(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Turns != 3 || stats.Failed != 1 {
		t.Errorf("turns=%d failed=%d", stats.Turns, stats.Failed)
	}
	if stats.XPEarned != 15 || stats.XPLost != 10 {
		t.Errorf("xpEarned=%d xpLost=%d", stats.XPEarned, stats.XPLost)
	}
	if stats.QuizCorrect != 1 || stats.QuizWrong != 1 {
		t.Errorf("correct=%d wrong=%d", stats.QuizCorrect, stats.QuizWrong)
	}
}
