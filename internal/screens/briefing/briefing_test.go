package briefing

import (
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/specter/internal/engine"
	"github.com/abhisek/specter/internal/router"
	"github.com/abhisek/specter/internal/screen"
	"github.com/abhisek/specter/internal/session"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "stub" }
func (s *stubScreen) Title() string                           { return "stub" }

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target.txt")
	if err := os.WriteFile(path, []byte("Load balancing basics"), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func testBriefing(eng engine.Engine, preset string) (*BriefingScreen, *session.Session) {
	sess := session.New(eng, nil)
	b := New(sess, preset, func() screen.Screen { return &stubScreen{} })
	return b, sess
}

func TestAnalyze_SuccessOpensHeist(t *testing.T) {
	b, sess := testBriefing(engine.NewStatic(engine.StaticResponse("Briefing.")), "")

	msg := b.analyzeCmd(writeDoc(t))()
	done, ok := msg.(analyzeDoneMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want analyzeDoneMsg", msg)
	}
	if done.Err != nil {
		t.Fatalf("analyze failed: %v", done.Err)
	}

	_, cmd := b.Update(done)
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg to the heist screen")
	}
	if got := sess.Status(); got != session.StatusPlaying {
		t.Errorf("Status = %q, want playing", got)
	}
}

func TestAnalyze_MissingFileShowsError(t *testing.T) {
	b, sess := testBriefing(engine.NewStatic(), "")

	msg := b.analyzeCmd(filepath.Join(t.TempDir(), "missing.pdf"))()
	done := msg.(analyzeDoneMsg)
	if done.Err == nil {
		t.Fatal("expected an error for a missing file")
	}

	b.Update(done)
	if b.errMsg == "" {
		t.Error("expected a visible error message")
	}
	if got := sess.Status(); got != session.StatusIdle {
		t.Errorf("Status = %q, want idle", got)
	}
}

func TestAnalyze_EngineFailureShowsError(t *testing.T) {
	b, sess := testBriefing(engine.NewStatic(), "") // no responses: Start fails

	msg := b.analyzeCmd(writeDoc(t))()
	done := msg.(analyzeDoneMsg)
	if done.Err == nil {
		t.Fatal("expected an init error")
	}

	b.Update(done)
	if b.errMsg == "" {
		t.Error("expected a visible error message")
	}
	if got := sess.Status(); got != session.StatusIdle {
		t.Errorf("Status = %q, want idle", got)
	}
}

func TestEnter_EmptyPathIgnored(t *testing.T) {
	b, _ := testBriefing(engine.NewStatic(), "")

	_, cmd := b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty path")
	}
	if b.analyzing {
		t.Error("must not enter the analyzing state")
	}
}

func TestPresetPath_AnalyzesOnInit(t *testing.T) {
	b, _ := testBriefing(engine.NewStatic(engine.StaticResponse("Briefing.")), writeDoc(t))

	cmd := b.Init()
	if cmd == nil {
		t.Fatal("expected an analysis command")
	}
	if !b.analyzing {
		t.Error("expected the analyzing state")
	}
}
