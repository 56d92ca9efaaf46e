package heist

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/specter/internal/game"
	"github.com/abhisek/specter/internal/session"
	"github.com/abhisek/specter/internal/ui/components"
	"github.com/abhisek/specter/internal/ui/theme"
)

const mascotPaneWidth = 14

func (h *HeistScreen) View(width, height int) string {
	if h.showingQuitConfirm {
		return renderQuitConfirm(width, height)
	}
	if h.sess.Status() == session.StatusGameOver {
		return h.renderGameOver(width, height)
	}

	var b strings.Builder

	hud := h.renderHUD(width)
	inputLine := h.renderInputLine(width)

	transcriptHeight := height - lipgloss.Height(hud) - lipgloss.Height(inputLine) - 2
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	b.WriteString(hud)
	b.WriteString("\n")
	b.WriteString(h.renderTranscript(width, transcriptHeight))
	b.WriteString("\n")
	b.WriteString(inputLine)

	return b.String()
}

// renderHUD draws the scoreboard strip: level, title, XP bar, pillars,
// and the boss banner when one is active.
func (h *HeistScreen) renderHUD(width int) string {
	st := h.sess.State()

	level := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  LV %d/%d", st.CurrentLevel, st.MaxLevel))

	title := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("  " + st.LevelTitle)

	bar := components.NewProgressBar("XP", st.XPPercent(), true, width/3).View()

	top := level + title
	gap := width - lipgloss.Width(top) - lipgloss.Width(bar) - 4
	if gap > 0 {
		top += strings.Repeat(" ", gap) + bar
	}

	lines := []string{top}

	if pillars := st.DisplayPillars(); len(pillars) > 0 {
		pillarLine := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  ◈ " + strings.Join(pillars, "  ◈ "))
		lines = append(lines, pillarLine)
	}

	if st.IsBossFight {
		lines = append(lines, "  "+theme.Boss.Render("◆ BOSS FIGHT ◆"))
	}

	lines = append(lines, lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("─", max(width-2, 0))))

	return strings.Join(lines, "\n")
}

// renderTranscript draws the visible window of the conversation with the
// handler avatar alongside.
func (h *HeistScreen) renderTranscript(width, height int) string {
	textWidth := width - mascotPaneWidth - 4
	if textWidth < 20 {
		textWidth = width - 2
	}

	lines := h.transcriptLines(textWidth)

	// Window the lines against the scroll offset, pinned to the bottom.
	maxOffset := len(lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := h.scrollOffset
	if offset > maxOffset {
		offset = maxOffset
		h.scrollOffset = maxOffset
	}
	end := len(lines) - offset
	start := end - height
	if start < 0 {
		start = 0
	}
	visible := strings.Join(lines[start:end], "\n")

	if textWidth >= 20 && width-mascotPaneWidth-4 >= 20 {
		pane := lipgloss.NewStyle().
			Width(mascotPaneWidth).
			Align(lipgloss.Center).
			Render(components.RenderMascot(h.sess.Mascot()))
		body := lipgloss.NewStyle().
			Width(textWidth).
			Height(height).
			Render(visible)
		return lipgloss.JoinHorizontal(lipgloss.Bottom, "  ", body, "  ", pane)
	}
	return visible
}

// transcriptLines flattens the transcript to styled terminal lines.
func (h *HeistScreen) transcriptLines(width int) []string {
	var lines []string
	for _, msg := range h.sess.Transcript() {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		switch msg.Role {
		case game.RoleUser:
			prompt := lipgloss.NewStyle().
				Foreground(theme.Secondary).
				Bold(true).
				Render("YOU ▸ ")
			body := lipgloss.NewStyle().
				Foreground(theme.Text).
				Width(width - lipgloss.Width(prompt)).
				Render(msg.Content)
			lines = append(lines, strings.Split(prompt+body, "\n")...)
		default:
			rendered := h.markdown.Render(msg.Content, width)
			lines = append(lines, strings.Split(rendered, "\n")...)
			if msg.Challenge != nil {
				lines = append(lines, strings.Split(renderChallenge(msg.Challenge, width), "\n")...)
			}
			for _, fc := range msg.Flashcards {
				lines = append(lines, strings.Split(renderFlashcard(fc, width), "\n")...)
			}
		}
	}
	return lines
}

func renderChallenge(c *game.Challenge, width int) string {
	head := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("▣ %s", c.Title))
	meta := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %d XP", c.Difficulty, c.XPReward))
	body := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(c.Description)

	inner := head + "  " + meta + "\n" + body
	return theme.ChallengeCard.Width(min(width-2, 70)).Render(inner)
}

func renderFlashcard(fc game.Flashcard, width int) string {
	term := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fc.Term)
	def := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(fc.Definition)
	return theme.FlashcardStyle.Width(min(width-2, 70)).Render(term + "\n" + def)
}

func (h *HeistScreen) renderInputLine(width int) string {
	if h.sess.InFlight() {
		return lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("  The handler is on the line...")
	}
	return "  " + h.input.View()
}

func (h *HeistScreen) renderGameOver(width, height int) string {
	st := h.sess.State()

	banner := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("◆ ◆ ◆  VAULT CRACKED  ◆ ◆ ◆")

	summary := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(fmt.Sprintf("Target: %s\nFinal level: %d · Turns: %d",
			h.sess.DocumentName(), st.CurrentLevel, h.sess.Turns()))

	hint := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Render("press n for a new target")

	content := strings.Join([]string{
		components.RenderMascot(game.MascotSuccess),
		"",
		banner,
		"",
		summary,
		"",
		hint,
	}, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderQuitConfirm(width, height int) string {
	content := theme.Card.Render(
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Abort the heist?") +
			"\n\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Progress on this target is lost.  y / n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
