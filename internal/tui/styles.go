package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
)

var (
	// Colors
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorSecondary = lipgloss.Color("10")  // bright green
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorBorder    = lipgloss.Color("238") // dark gray
	colorAlert     = lipgloss.Color("9")   // bright red

	// Input area
	styleInput = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	// List items
	styleListSelected = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	styleListCategory = lipgloss.NewStyle().
				Width(9)

	styleCategory = map[extract.Category]lipgloss.Style{
		extract.CategoryRedirect:          lipgloss.NewStyle().Foreground(colorAlert),
		extract.CategoryChoice:            lipgloss.NewStyle().Foreground(colorHighlight),
		extract.CategorySignificantChange: lipgloss.NewStyle().Foreground(colorPrimary),
	}

	stylePromoted = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	// Panels
	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	styleActiveBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	// Status bar
	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	styleStatusNote = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Padding(0, 1)
)
