package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
)

// Markdown renders md for the terminal. It falls back to the raw text when
// the renderer cannot be built or fails.
func Markdown(md string, width int) string {
	if width <= 0 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("glamour renderer unavailable")
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("glamour render failed")
		return md
	}
	return strings.TrimSpace(out) + "\n"
}
