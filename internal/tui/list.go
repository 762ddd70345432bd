package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
	"github.com/Zuo-Peng/decision-trail/internal/render"
)

// linesPerItem is the number of terminal lines each candidate occupies.
const linesPerItem = 2

// renderList renders the left panel: the filtered candidate list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.visible) == 0 {
		msg := "No candidates"
		if m.query != "" {
			msg = "No matches"
		}
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(msg)
	}

	var lines []string
	for i, idx := range m.visible {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		_, promoted := m.promoted[idx]
		rows := formatCandidateLine(m.res.Candidates[idx], width, i == m.cursor, promoted)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatCandidateLine formats a single candidate as two lines:
//
//	line 1: [>] CATEGORY #turn summary
//	line 2:    reply or assistant text (dimmed)
func formatCandidateLine(c extract.Candidate, width int, selected, promoted bool) []string {
	cat := styleListCategory.Render(styleCategory[c.Category].Render(render.CategoryLabel(c.Category)))
	turn := fmt.Sprintf("#%-3d", c.TurnIndex)

	summary := strings.ReplaceAll(c.Summary, "\n", " ")
	summaryMax := width - 2 - 9 - 5 - 2 // prefix + category + turn + mark
	if summaryMax < 0 {
		summaryMax = 0
	}
	if runewidth.StringWidth(summary) > summaryMax {
		summary = runewidth.Truncate(summary, summaryMax, "")
	}

	mark := " "
	if promoted {
		mark = stylePromoted.Render("✓")
	}
	line1 := fmt.Sprintf("%s %s%s %s", cat, turn, mark, summary)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	snippet := c.HumanResponse
	if snippet == "" || c.Category == extract.CategorySignificantChange {
		snippet = c.AISuggestion
	}
	snippet = strings.ReplaceAll(snippet, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "\t", " ")
	snippetMax := width - 4 // indent
	if snippetMax < 0 {
		snippetMax = 0
	}
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}

// matches reports whether a candidate contains every filter term.
func matches(c extract.Candidate, query string) bool {
	hay := strings.ToLower(strings.Join([]string{
		string(c.Category), c.Summary, c.AISuggestion, c.HumanResponse, c.Context,
	}, " "))
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(hay, term) {
			return false
		}
	}
	return true
}
