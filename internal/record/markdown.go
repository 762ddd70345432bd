package record

import (
	"regexp"
	"strconv"
	"strings"
)

// Markdown renders the record in the decisions/ file format.
func (r *DecisionRecord) Markdown() string {
	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }
	orPlaceholder := func(v, placeholder string) string {
		if v == "" {
			return placeholder
		}
		return v
	}

	add("# "+r.ID()+": "+r.Title, "")
	add("**Date:** " + r.Date)
	add("**Status:** " + r.Status)
	if len(r.Tags) > 0 {
		add("**Tags:** " + strings.Join(r.Tags, " "))
	}
	if r.Model != "" {
		add("**Model:** " + r.Model)
	}
	if r.Confidence != "" {
		add("**Confidence:** " + r.Confidence)
	}
	if r.SessionRef != "" {
		add("**Session:** " + r.SessionRef)
	}

	add("", "## Context", orPlaceholder(r.Context, "[What situation required a decision]"))
	add("", "## Decision", orPlaceholder(r.Decision, "[What was chosen]"))
	add("", "## AI Suggestion", orPlaceholder(r.AISuggestion, "[What the AI recommended]"))
	add("", "## Human Take", orPlaceholder(r.HumanTake, "[Why the human agreed, disagreed, or modified the suggestion]"))

	if len(r.Alternatives) > 0 {
		add("", "## Alternatives Considered", "")
		add("| Option | Pros | Cons | Source |")
		add("|--------|------|------|--------|")
		for _, a := range r.Alternatives {
			add("| " + a.Option + " | " + a.Pros + " | " + a.Cons + " | " + a.Source + " |")
		}
	}

	add("", "## Consequences", orPlaceholder(r.Consequences, "[What this means going forward]"), "")

	return strings.Join(lines, "\n")
}

var (
	headingRe  = regexp.MustCompile(`(?m)^#\s+DT-(\d+):\s*(.+)$`)
	sectionRe  = regexp.MustCompile(`(?m)^##[ \t]+(.+?)[ \t]*$`)
	tableRowRe = regexp.MustCompile(`(?m)^\|([^|]+)\|([^|]+)\|([^|]+)\|([^|]+)\|`)
)

// ParseMarkdown reads a record written by Markdown or by hand.
func ParseMarkdown(text string) (*DecisionRecord, error) {
	m := headingRe.FindStringSubmatch(text)
	if m == nil {
		return nil, ErrNoHeading
	}
	num, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, ErrNoHeading
	}

	sections := splitSections(text)
	rec := &DecisionRecord{
		Number:       num,
		Title:        strings.TrimSpace(m[2]),
		Date:         field(text, "Date"),
		Status:       field(text, "Status"),
		Model:        field(text, "Model"),
		Confidence:   field(text, "Confidence"),
		SessionRef:   field(text, "Session"),
		Context:      sections["Context"],
		Decision:     sections["Decision"],
		AISuggestion: sections["AI Suggestion"],
		HumanTake:    sections["Human Take"],
		Consequences: sections["Consequences"],
	}

	for _, t := range strings.Fields(field(text, "Tags")) {
		if strings.HasPrefix(t, "#") {
			rec.Tags = append(rec.Tags, t)
		}
	}

	for _, row := range tableRowRe.FindAllStringSubmatch(sections["Alternatives Considered"], -1) {
		cells := make([]string, 4)
		for i := range cells {
			cells[i] = strings.TrimSpace(row[i+1])
		}
		if strings.HasPrefix(cells[0], "-") || strings.EqualFold(cells[0], "option") {
			continue
		}
		rec.Alternatives = append(rec.Alternatives, Alternative{
			Option: cells[0], Pros: cells[1], Cons: cells[2], Source: cells[3],
		})
	}

	return rec, nil
}

// field returns the value of a "**Name:** value" line.
func field(text, name string) string {
	re := regexp.MustCompile(`\*\*` + regexp.QuoteMeta(name) + `:\*\*[ \t]*(.*)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// splitSections maps each "## Heading" to its trimmed body.
func splitSections(text string) map[string]string {
	out := map[string]string{}
	locs := sectionRe.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		name := text[loc[2]:loc[3]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out[name] = strings.TrimSpace(text[loc[1]:end])
	}
	return out
}
