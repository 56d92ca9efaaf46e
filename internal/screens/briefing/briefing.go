// Package briefing is the entry screen: the player names a target
// document, the engine analyzes it, and the heist begins.
package briefing

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/specter/internal/game"
	"github.com/abhisek/specter/internal/ingest"
	"github.com/abhisek/specter/internal/router"
	"github.com/abhisek/specter/internal/screen"
	"github.com/abhisek/specter/internal/session"
	"github.com/abhisek/specter/internal/ui/components"
	"github.com/abhisek/specter/internal/ui/layout"
	"github.com/abhisek/specter/internal/ui/theme"
)

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// analyzeDoneMsg is sent when ingestion plus engine analysis finishes.
type analyzeDoneMsg struct {
	Err error
}

// spinnerTickMsg animates the analyzing spinner.
type spinnerTickMsg time.Time

// BriefingScreen implements screen.Screen for target selection.
type BriefingScreen struct {
	sess        *session.Session
	heistScreen func() screen.Screen

	input      components.TextInput
	presetPath string
	analyzing  bool
	errMsg     string
	tickCount  int
}

var _ screen.Screen = (*BriefingScreen)(nil)
var _ screen.KeyHintProvider = (*BriefingScreen)(nil)

// New creates a BriefingScreen. presetPath, when non-empty, is analyzed
// immediately without prompting (the `specter play <file>` path).
// heistScreen builds the screen shown once the heist opens.
func New(sess *session.Session, presetPath string, heistScreen func() screen.Screen) *BriefingScreen {
	return &BriefingScreen{
		sess:        sess,
		heistScreen: heistScreen,
		input:       components.NewTextInput("Path to the target document...", 512),
		presetPath:  presetPath,
	}
}

func (b *BriefingScreen) Title() string {
	return "Briefing"
}

func (b *BriefingScreen) Init() tea.Cmd {
	if b.presetPath != "" {
		b.analyzing = true
		return tea.Batch(b.analyzeCmd(b.presetPath), b.tickCmd())
	}
	return b.input.Init()
}

func (b *BriefingScreen) KeyHints() []layout.KeyHint {
	if b.analyzing {
		return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open the heist"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (b *BriefingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzeDoneMsg:
		b.analyzing = false
		if msg.Err != nil {
			b.errMsg = msg.Err.Error()
			b.presetPath = ""
			return b, b.input.Init()
		}
		next := b.heistScreen()
		return b, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}

	case spinnerTickMsg:
		if !b.analyzing {
			return b, nil
		}
		b.tickCount++
		return b, b.tickCmd()

	case tea.KeyMsg:
		if b.analyzing {
			return b, nil
		}
		if msg.String() == "enter" {
			return b.startAnalysis()
		}
	}

	if !b.analyzing {
		var cmd tea.Cmd
		b.input, cmd = b.input.Update(msg)
		return b, cmd
	}
	return b, nil
}

func (b *BriefingScreen) startAnalysis() (screen.Screen, tea.Cmd) {
	path := strings.TrimSpace(b.input.Value())
	if path == "" {
		return b, nil
	}
	b.analyzing = true
	b.errMsg = ""
	return b, tea.Batch(b.analyzeCmd(path), b.tickCmd())
}

func (b *BriefingScreen) analyzeCmd(path string) tea.Cmd {
	sess := b.sess
	return func() tea.Msg {
		doc, err := ingest.File(path)
		if err != nil {
			return analyzeDoneMsg{Err: err}
		}
		if err := sess.Initialize(context.Background(), *doc); err != nil {
			return analyzeDoneMsg{Err: err}
		}
		return analyzeDoneMsg{}
	}
}

func (b *BriefingScreen) tickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (b *BriefingScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width))
	sections = append(sections, "")

	mascot := game.MascotIdle
	if b.analyzing {
		mascot = game.MascotThinking
	}
	sections = append(sections, components.RenderMascot(mascot))
	sections = append(sections, "")

	if b.analyzing {
		frame := spinnerFrames[b.tickCount%len(spinnerFrames)]
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Render(frame+" Casing the target..."))
	} else {
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Name the vault. Any document becomes a heist.")
		sections = append(sections, tagline, "")
		sections = append(sections, b.input.View())
	}

	if b.errMsg != "" {
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Error).
			Render("✗ "+b.errMsg))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
