package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
)

const debounceDelay = 200 * time.Millisecond

// PromoteFunc turns a candidate into a stored decision record and returns
// where it was written.
type PromoteFunc func(c extract.Candidate) (string, error)

// message types

type debounceTickMsg struct {
	query string
}

type promotedMsg struct {
	candidate int
	path      string
	err       error
}

// model

type model struct {
	res         *extract.Result
	promote     PromoteFunc
	copyFn      func(string) error
	query       string
	visible     []int // indexes into res.Candidates
	promoted    map[int]string
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewIdx  int // candidate shown in the preview, -1 for none
	note        string
	width       int
	height      int
	ready       bool
	quitting    bool
}

func initialModel(res *extract.Result, promote PromoteFunc) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	m := model{
		res:         res,
		promote:     promote,
		copyFn:      clipboard.WriteAll,
		promoted:    make(map[int]string),
		filterInput: ti,
		preview:     viewport.New(0, 0),
		previewIdx:  -1,
	}
	m.applyFilter()
	return m
}

// Run starts the reviewer and blocks until it exits. It returns the paths
// of the records created during the session, in creation order.
func Run(res *extract.Result, promote PromoteFunc) ([]string, error) {
	m := initialModel(res, promote)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	var paths []string
	for i := range fm.res.Candidates {
		if p, ok := fm.promoted[i]; ok {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// Init triggers the initial preview load.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCurrentPreview())
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewIdx = -1
		cmds = append(cmds, m.loadCurrentPreview())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Promote):
			idx, ok := m.selected()
			if !ok {
				return m, nil
			}
			if p, done := m.promoted[idx]; done {
				m.note = "already recorded: " + p
				return m, nil
			}
			return m, m.promoteCmd(idx)

		case key.Matches(msg, keys.Copy):
			idx, ok := m.selected()
			if !ok {
				return m, nil
			}
			if err := m.copyFn(clipText(m.res.Candidates[idx])); err != nil {
				m.note = "copy failed: " + err.Error()
			} else {
				m.note = "copied to clipboard"
			}
			return m, nil

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		newQuery := m.filterInput.Value()
		if newQuery != m.query {
			m.query = newQuery
			cmds = append(cmds, scheduleDebouncedFilter(newQuery))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.visible) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			visibleItems := m.panelHeight() / linesPerItem
			maxOffset := max(len(m.visible)-visibleItems, 0)
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.visible) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			if vpCmd != nil {
				cmds = append(cmds, vpCmd)
			}
			return m, tea.Batch(cmds...)
		}

		return m, nil

	case debounceTickMsg:
		// Only filter if the query hasn't changed since the tick was scheduled
		if msg.query == m.query {
			m.applyFilter()
			cmds = append(cmds, m.loadCurrentPreview())
		}
		return m, tea.Batch(cmds...)

	case promotedMsg:
		if msg.err != nil {
			m.note = "record failed: " + msg.err.Error()
			return m, nil
		}
		m.promoted[msg.candidate] = msg.path
		m.note = "recorded " + msg.path
		return m, nil

	case previewRenderedMsg:
		idx, ok := m.selected()
		if !ok || idx != msg.candidate {
			return m, nil // stale preview
		}
		m.preview.SetContent(msg.content)
		if msg.hitLine > 0 {
			m.preview.SetYOffset(msg.hitLine)
		} else {
			m.preview.GotoTop()
		}
		m.previewIdx = msg.candidate
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// helper methods

func (m model) selected() (int, bool) {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return -1, false
	}
	return m.visible[m.cursor], true
}

// applyFilter recomputes the visible candidates and resets the cursor.
func (m *model) applyFilter() {
	m.visible = nil
	for i, c := range m.res.Candidates {
		if matches(c, m.query) {
			m.visible = append(m.visible, i)
		}
	}
	m.cursor = 0
	m.listOffset = 0
	m.previewIdx = -1
	if len(m.visible) == 0 {
		m.preview.SetContent("")
	}
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	return max(m.width*40/100-4, 20)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for preview, minus border padding
	return max(m.width*60/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		itemIndex := m.listOffset + (relY / linesPerItem)
		return regionList, itemIndex
	}

	if x > listBoxRight+1 {
		return regionPreview, -1
	}

	return regionNone, -1
}

func (m model) statusBar() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d/%d candidates", len(m.visible), len(m.res.Candidates)))
	if n := len(m.promoted); n > 0 {
		parts = append(parts, fmt.Sprintf("%d recorded", n))
	}
	parts = append(parts, "Enter record")
	parts = append(parts, "C-y copy")
	parts = append(parts, "scroll/C-u/C-d preview")
	parts = append(parts, "Esc quit")
	bar := styleStatusBar.Render(strings.Join(parts, " | "))
	if m.note != "" {
		bar += styleStatusNote.Render(m.note)
	}
	return bar
}

func scheduleDebouncedFilter(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) promoteCmd(idx int) tea.Cmd {
	promote := m.promote
	c := m.res.Candidates[idx]
	return func() tea.Msg {
		if promote == nil {
			return promotedMsg{candidate: idx, err: fmt.Errorf("recording disabled")}
		}
		p, err := promote(c)
		return promotedMsg{candidate: idx, path: p, err: err}
	}
}

func (m model) loadCurrentPreview() tea.Cmd {
	idx, ok := m.selected()
	if !ok || idx == m.previewIdx {
		return nil
	}
	return loadPreviewCmd(m.res.Turns, idx, m.res.Candidates[idx], m.previewWidth())
}

// clipText is what ctrl+y copies: the summary plus both sides of the exchange.
func clipText(c extract.Candidate) string {
	var b strings.Builder
	b.WriteString(c.Summary)
	if c.AISuggestion != "" {
		b.WriteString("\n\nAI: " + c.AISuggestion)
	}
	if c.HumanResponse != "" {
		b.WriteString("\n\nHuman: " + c.HumanResponse)
	}
	return b.String()
}
