package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
	"github.com/Zuo-Peng/decision-trail/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	candidate int
	content   string
	hitLine   int
}

// loadPreviewCmd renders the whole conversation focused on the candidate's turn.
func loadPreviewCmd(turns []extract.Turn, idx int, c extract.Candidate, width int) tea.Cmd {
	return func() tea.Msg {
		head := render.Candidate(c, render.Options{Width: width})
		body, hitLine := render.Turns(turns, c.TurnIndex, render.Options{Context: -1, Width: width})
		if hitLine >= 0 {
			hitLine += strings.Count(head, "\n") + 1
		}
		return previewRenderedMsg{
			candidate: idx,
			content:   head + "\n" + body,
			hitLine:   hitLine,
		}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
