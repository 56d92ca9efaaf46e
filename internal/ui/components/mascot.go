package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/specter/internal/game"
	"github.com/abhisek/specter/internal/ui/theme"
)

const mascotGreet = ` ▄▄▄▄▄
█ ◉ ◉ █  o/
█  ▿   █
 ▀█▀█▀
  SPX`

const mascotThinking = ` ▄▄▄▄▄
█ ─ ─ █  ...
█  ~   █
 ▀█▀█▀
  SPX`

const mascotSuccess = ` ▄▄▄▄▄
█ ★ ★ █  !!
█  ▿   █
 ▀█▀█▀
  SPX`

const mascotIdle = ` ▄▄▄▄▄
█ ◉ ◉ █
█  ─   █
 ▀█▀█▀
  SPX`

const mascotAngry = ` ▄▄▄▄▄
█ ╳ ╳ █  #!
█  ▵   █
 ▀█▀█▀
  SPX`

// RenderMascot returns the handler avatar art for a mascot directive.
func RenderMascot(m game.Mascot) string {
	var art string
	fg := theme.Primary

	switch m {
	case game.MascotGreet:
		art = mascotGreet
		fg = theme.Secondary
	case game.MascotThinking:
		art = mascotThinking
		fg = theme.TextDim
	case game.MascotSuccess:
		art = mascotSuccess
		fg = theme.Success
	case game.MascotAngry:
		art = mascotAngry
		fg = theme.Error
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
