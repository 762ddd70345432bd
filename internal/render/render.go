package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
	"github.com/Zuo-Peng/decision-trail/internal/parse"
)

const (
	colorReset   = "\033[0m"
	colorUser    = "\033[1;34m" // bold blue
	colorAssist  = "\033[1;32m" // bold green
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for signal highlights
	colorYellow  = "\033[1;33m"
	colorCyan    = "\033[1;36m"
)

type Options struct {
	Width   int // wrap width (0 = no wrap)
	Context int // turns before/after the focus turn
	NoColor bool
}

func (o Options) color(code string) string {
	if o.NoColor {
		return ""
	}
	return code
}

var categoryColor = map[extract.Category]string{
	extract.CategoryRedirect:          colorBoldRed,
	extract.CategoryChoice:            colorYellow,
	extract.CategorySignificantChange: colorCyan,
}

// CategoryLabel is the short upper-case tag shown next to a candidate.
func CategoryLabel(c extract.Category) string {
	switch c {
	case extract.CategoryRedirect:
		return "REDIRECT"
	case extract.CategoryChoice:
		return "CHOICE"
	case extract.CategorySignificantChange:
		return "CHANGE"
	}
	return strings.ToUpper(string(c))
}

// highlightKeywords wraps case-insensitive matches of term in bold red ANSI codes.
func highlightKeywords(text, term string) string {
	if term == "" {
		return text
	}
	lower := strings.ToLower(term)
	i := 0
	for i < len(text) {
		idx := strings.Index(strings.ToLower(text[i:]), lower)
		if idx < 0 {
			break
		}
		pos := i + idx
		orig := text[pos : pos+len(term)]
		replacement := colorBoldRed + orig + colorReset
		text = text[:pos] + replacement + text[pos+len(term):]
		i = pos + len(replacement)
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

type lineWriter struct {
	b     strings.Builder
	width int
	count int
}

func (w *lineWriter) line(s string) {
	for _, wl := range wrapLine(s, w.width) {
		w.b.WriteString(wl)
		w.b.WriteString("\n")
		w.count++
	}
}

// Candidate renders one candidate as a labelled block. The matched signal
// is highlighted where it was found: the human reply for redirects, the
// assistant text for choices.
func Candidate(c extract.Candidate, opts Options) string {
	w := &lineWriter{width: opts.Width}
	reset := opts.color(colorReset)

	w.line(fmt.Sprintf("%s[%s]%s %s %sturn %d%s",
		opts.color(categoryColor[c.Category]), CategoryLabel(c.Category), reset,
		c.Summary, opts.color(colorDim), c.TurnIndex, reset))

	ai, human := c.AISuggestion, c.HumanResponse
	if !opts.NoColor {
		switch c.Category {
		case extract.CategoryRedirect:
			human = highlightKeywords(human, c.Signal)
		case extract.CategoryChoice:
			ai = highlightKeywords(ai, c.Signal)
		}
	}

	field := func(label, text string) {
		if text == "" {
			return
		}
		w.line(fmt.Sprintf("  %s%s:%s", opts.color(colorDim), label, reset))
		for _, l := range strings.Split(indentLines(text, "    "), "\n") {
			w.line(l)
		}
	}
	field("AI", ai)
	field("Human", human)
	if c.Category == extract.CategorySignificantChange {
		field("Prompt", c.Context)
	}
	return w.b.String()
}

// Candidates renders an extraction result for the terminal: a header line
// followed by every candidate in order.
func Candidates(res *extract.Result, opts Options) string {
	w := &lineWriter{width: opts.Width}
	human, assistant := extract.CountRoles(res.Turns)
	name := filepath.Base(res.Meta.FilePath)
	if name == "." || name == "" {
		name = "(stdin)"
	}
	w.line(fmt.Sprintf("%s--- %s [%s] %d human / %d assistant turns, %d candidates ---%s",
		opts.color(colorDim), name, res.Meta.Source, human, assistant, len(res.Candidates), opts.color(colorReset)))
	if len(res.Candidates) == 0 {
		w.line("No redirections, choices, or significant changes detected.")
		return w.b.String()
	}
	for i, c := range res.Candidates {
		if i > 0 {
			w.line("")
		}
		w.b.WriteString(Candidate(c, opts))
	}
	return w.b.String()
}

// Turns renders the conversation around the focus turn and returns the
// content plus the 0-based line of the focus header (-1 when out of range).
func Turns(turns []extract.Turn, focus int, opts Options) (string, int) {
	if len(turns) == 0 {
		return "(empty session)", -1
	}
	if opts.Context == 0 {
		opts.Context = 4
	}
	if opts.Context < 0 {
		opts.Context = len(turns)
	}

	start, end := 0, len(turns)
	if focus >= 0 && focus < len(turns) {
		start = max(0, focus-opts.Context)
		end = min(len(turns), focus+opts.Context+1)
	}

	w := &lineWriter{width: opts.Width}
	reset := opts.color(colorReset)
	dim := opts.color(colorDim)
	separator := dim + "--------------------------------------------------" + reset
	hitLine := -1

	if start > 0 {
		w.line(fmt.Sprintf("%s... (%d turns before) ...%s", dim, start, reset))
	}
	for i := start; i < end; i++ {
		t := turns[i]
		if i > start {
			w.line(separator)
		}

		roleColor, roleLabel := colorAssist, "ASST"
		if t.Role == parse.RoleHuman {
			roleColor, roleLabel = colorUser, "USER"
		}

		if i == focus {
			hitLine = w.count
			w.line(fmt.Sprintf("%s>> %s #%d <<%s", opts.color(colorHit), roleLabel, i, reset))
		} else {
			w.line(fmt.Sprintf("%s%s%s %s#%d%s", opts.color(roleColor), roleLabel, reset, dim, i, reset))
		}

		for _, l := range strings.Split(indentLines(t.Text, "  "), "\n") {
			w.line(l)
		}
		if files := t.Files.Sorted(); len(files) > 0 {
			w.line(fmt.Sprintf("  %sfiles: %s%s", dim, strings.Join(files, ", "), reset))
		}
		w.line("")
	}
	if rest := len(turns) - end; rest > 0 {
		w.line(fmt.Sprintf("%s... (%d turns after) ...%s", dim, rest, reset))
	}
	return w.b.String(), hitLine
}
