// Package app wires the session, engine, and screens into the root
// Bubble Tea model.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/specter/internal/engine"
	"github.com/abhisek/specter/internal/llm"
	"github.com/abhisek/specter/internal/router"
	"github.com/abhisek/specter/internal/screen"
	"github.com/abhisek/specter/internal/screens/briefing"
	"github.com/abhisek/specter/internal/screens/heist"
	"github.com/abhisek/specter/internal/session"
	"github.com/abhisek/specter/internal/store"
	"github.com/abhisek/specter/internal/ui/layout"
)

// Options carries the dependencies the TUI needs.
type Options struct {
	// Provider is the LLM backing the narrative engine. Required.
	Provider llm.Provider

	// EventRepo persists session and turn events. Optional.
	EventRepo store.EventRepo

	// DocumentPath, when set, skips the path prompt and opens the heist
	// on that file immediately.
	DocumentPath string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	sess   *session.Session
	width  int
	height int
}

// newAppModel builds the session and the screen graph.
func newAppModel(opts Options) AppModel {
	eng := engine.New(opts.Provider, engine.DefaultConfig())
	sess := session.New(eng, opts.EventRepo)

	// The two screens hand off to each other, so their factories are
	// declared before they are defined.
	var briefingFactory, heistFactory func() screen.Screen
	briefingFactory = func() screen.Screen {
		return briefing.New(sess, "", heistFactory)
	}
	heistFactory = func() screen.Screen {
		return heist.New(sess, briefingFactory)
	}

	initial := briefing.New(sess, opts.DocumentPath, heistFactory)
	return AppModel{
		router: router.New(initial),
		sess:   sess,
	}
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	st := m.sess.State()
	level := 0
	if status := m.sess.Status(); status == session.StatusPlaying || status == session.StatusGameOver {
		level = st.CurrentLevel
	}
	header := layout.RenderHeader(title, level, st.XP, st.MaxXP, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), footerHints...)
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
