package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders narrator markdown for the terminal. Renderers
// are cached per wrap width because resizes are rare and construction is
// not cheap.
type MarkdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer wrapping at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	return &MarkdownRenderer{width: width}
}

// Render converts markdown to styled terminal text. On any rendering
// failure the raw markdown is returned; narration must never be lost to
// a styling problem.
func (m *MarkdownRenderer) Render(markdown string, width int) string {
	if width < 10 {
		width = 10
	}
	if m.renderer == nil || width != m.width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
		if err != nil {
			return markdown
		}
		m.width = width
		m.renderer = r
	}

	out, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}
