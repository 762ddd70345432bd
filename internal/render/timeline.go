package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/decision-trail/internal/record"
)

var (
	styleTimelineID    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	styleTimelineDate  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleTimelineTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styleTimelineTags  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	statusStyles = map[string]lipgloss.Style{
		"proposed":   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"accepted":   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"superseded": lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true),
		"deprecated": lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// Timeline lists decision records one per line, oldest first.
func Timeline(recs []record.Stored, width int) string {
	if len(recs) == 0 {
		return styleTimelineDate.Render("No decision records yet.") + "\n"
	}
	var b strings.Builder
	for _, r := range recs {
		status := statusStyles[r.Status].Render(fmt.Sprintf("%-10s", r.Status))
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			styleTimelineID.Render(r.ID()), " ",
			styleTimelineDate.Render(r.Date), " ",
			status, " ",
			styleTimelineTitle.Render(r.Title),
		)
		if len(r.Tags) > 0 {
			line += " " + styleTimelineTags.Render(strings.Join(r.Tags, " "))
		}
		if width > 0 {
			line = lipgloss.NewStyle().MaxWidth(width).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
