// Package heist is the main game screen: transcript, scoreboard HUD,
// handler avatar, and the player's input line.
package heist

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/specter/internal/router"
	"github.com/abhisek/specter/internal/screen"
	"github.com/abhisek/specter/internal/session"
	"github.com/abhisek/specter/internal/ui/components"
	"github.com/abhisek/specter/internal/ui/layout"
)

// turnDoneMsg is sent when an engine turn finishes, successfully or not.
type turnDoneMsg struct {
	Err error
}

// HeistScreen implements screen.Screen for an active run.
type HeistScreen struct {
	sess           *session.Session
	briefingScreen func() screen.Screen

	input    components.TextInput
	markdown *components.MarkdownRenderer

	// scrollOffset counts lines up from the bottom of the transcript;
	// zero means pinned to the latest message.
	scrollOffset int

	showingQuitConfirm bool
}

var _ screen.Screen = (*HeistScreen)(nil)
var _ screen.KeyHintProvider = (*HeistScreen)(nil)

// New creates a HeistScreen over an already-Playing session.
// briefingScreen builds the screen to return to for a new target.
func New(sess *session.Session, briefingScreen func() screen.Screen) *HeistScreen {
	return &HeistScreen{
		sess:           sess,
		briefingScreen: briefingScreen,
		input:          components.NewTextInput("Talk to your handler...", 512),
		markdown:       components.NewMarkdownRenderer(80),
	}
}

func (h *HeistScreen) Title() string {
	name := h.sess.DocumentName()
	if name == "" {
		return "Heist"
	}
	return "Heist: " + name
}

func (h *HeistScreen) Init() tea.Cmd {
	return h.input.Init()
}

func (h *HeistScreen) KeyHints() []layout.KeyHint {
	if h.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abort the heist"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if h.sess.Status() == session.StatusGameOver {
		return []layout.KeyHint{
			{Key: "N", Description: "New target"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Abort"},
	}
}

func (h *HeistScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnDoneMsg:
		// The session already holds the outcome, including the visible
		// failure narration; rejected turns need no extra handling here.
		h.scrollOffset = 0
		return h, nil

	case tea.KeyMsg:
		return h.handleKey(msg)
	}

	if !h.sess.InFlight() {
		var cmd tea.Cmd
		h.input, cmd = h.input.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HeistScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if h.showingQuitConfirm {
		switch key {
		case "y", "Y":
			h.showingQuitConfirm = false
			return h.abort()
		case "n", "N", "esc":
			h.showingQuitConfirm = false
		}
		return h, nil
	}

	if h.sess.Status() == session.StatusGameOver {
		switch key {
		case "n", "N":
			return h.abort()
		}
		return h, nil
	}

	switch key {
	case "esc":
		h.showingQuitConfirm = true
		return h, nil
	case "enter":
		return h.submit()
	case "pgup":
		h.scrollOffset += 5
		return h, nil
	case "pgdown":
		h.scrollOffset -= 5
		if h.scrollOffset < 0 {
			h.scrollOffset = 0
		}
		return h, nil
	case "up":
		h.scrollOffset++
		return h, nil
	case "down":
		if h.scrollOffset > 0 {
			h.scrollOffset--
		}
		return h, nil
	}

	if !h.sess.InFlight() {
		var cmd tea.Cmd
		h.input, cmd = h.input.Update(msg)
		return h, cmd
	}
	return h, nil
}

// abort ends the run and returns to the briefing screen.
func (h *HeistScreen) abort() (screen.Screen, tea.Cmd) {
	h.sess.End(context.Background())
	next := h.briefingScreen()
	return h, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (h *HeistScreen) submit() (screen.Screen, tea.Cmd) {
	text := strings.TrimSpace(h.input.Value())
	if text == "" || h.sess.InFlight() {
		return h, nil
	}
	h.input.Reset()
	h.scrollOffset = 0

	sess := h.sess
	return h, func() tea.Msg {
		err := sess.SubmitTurn(context.Background(), text)
		if errors.Is(err, session.ErrEmptyTurn) || errors.Is(err, session.ErrTurnInFlight) {
			// Rejected without side effects; nothing to surface.
			return turnDoneMsg{}
		}
		return turnDoneMsg{Err: err}
	}
}
