// Package digest renders a session's decision candidates as a markdown
// report and files it under the digests directory.
package digest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
)

const dateLayout = "2006-01-02"

// Generate builds the digest for one extracted session. Counts come only
// from the turn and candidate sequences.
func Generate(sessionName string, res *extract.Result, now time.Time) string {
	human, assistant := extract.CountRoles(res.Turns)
	byCat := groupByCategory(res.Candidates)
	redirects := byCat[extract.CategoryRedirect]
	choices := byCat[extract.CategoryChoice]
	changes := byCat[extract.CategorySignificantChange]

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\n")
	}

	line("# %s — Session digest", now.Format(dateLayout))
	line("")
	line("**Source:** `%s`", sessionName)
	line("**Turns:** %d human, %d assistant", human, assistant)
	line("")

	if len(redirects) > 0 {
		line("## Redirections")
		line("")
		for _, r := range redirects {
			line("- **%s**", extract.Truncate(r.Summary, 80))
			if r.AISuggestion != "" {
				line("  - AI was doing: %s", extract.Truncate(r.AISuggestion, 120))
			}
			if r.HumanResponse != "" {
				line("  - Human said: %s", extract.Truncate(r.HumanResponse, 120))
			}
			line("")
		}
	}

	if len(choices) > 0 {
		line("## Choices Made")
		line("")
		for _, c := range choices {
			line("- **%s**", extract.Truncate(c.Summary, 80))
			if c.Context != "" {
				line("  - Context: %s", extract.Truncate(c.Context, 120))
			}
			line("")
		}
	}

	if len(changes) > 0 {
		line("## Significant Changes")
		line("")
		for _, ch := range changes {
			line("- %s", extract.Truncate(ch.Summary, 100))
		}
		line("")
	}

	if len(res.Candidates) == 0 {
		line("## Session Summary")
		line("")
		line("No redirections, choices, or significant changes detected in this session.")
		line("This may mean the session was exploratory, or the detection heuristics missed something.")
		line("")
	}

	line("## Raw Numbers")
	line("")
	line("- Human messages: %d", human)
	line("- AI responses: %d", assistant)
	line("- Redirections detected: %d", len(redirects))
	line("- Choices detected: %d", len(choices))
	line("- Significant changes: %d", len(changes))

	return b.String()
}

func groupByCategory(cands []extract.Candidate) map[extract.Category][]extract.Candidate {
	out := make(map[extract.Category][]extract.Candidate, len(extract.Categories))
	for _, c := range cands {
		out[c.Category] = append(out[c.Category], c)
	}
	return out
}

// NextPath returns an unused digest path for the given day:
// <dir>/<date>-session-<n>.md.
func NextPath(dir string, now time.Time) (string, error) {
	day := now.Format(dateLayout)
	existing, err := filepath.Glob(filepath.Join(dir, day+"-*.md"))
	if err != nil {
		return "", err
	}
	seq := len(existing) + 1
	for {
		p := filepath.Join(dir, fmt.Sprintf("%s-session-%d.md", day, seq))
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p, nil
		}
		seq++
	}
}

// Write files the digest under dir and returns its path.
func Write(dir, text string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create digest dir: %w", err)
	}
	p, err := NextPath(dir, now)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write digest: %w", err)
	}
	return p, nil
}
