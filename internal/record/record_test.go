package record

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
)

func sampleRecord() *DecisionRecord {
	return &DecisionRecord{
		Number:       7,
		Title:        "Use SQLite for the cache",
		Date:         "2026-03-14",
		Status:       "accepted",
		Tags:         []string{"#storage", "#cache"},
		Model:        "sonnet",
		Confidence:   "high",
		Context:      "Reads were slow.\n\nWe needed a local cache.",
		Decision:     "SQLite with WAL.",
		AISuggestion: "Use Redis.",
		HumanTake:    "Redis adds an ops dependency.",
		Alternatives: []Alternative{
			{Option: "Redis", Pros: "fast", Cons: "extra service", Source: "AI suggested"},
			{Option: "BoltDB", Pros: "embedded", Cons: "no SQL", Source: "Human proposed"},
		},
		Consequences: "Need a migration story.",
		SessionRef:   "4f1c2f5e-8a0b-4c7d-9e1f-2a3b4c5d6e7f",
	}
}

func TestIDAndFilename(t *testing.T) {
	r := sampleRecord()
	assert.Equal(t, "DT-007", r.ID())
	assert.Equal(t, "007-use-sqlite-for-the-cache.md", r.Filename())
	assert.Equal(t, "hello-world", Slug("  Hello, World!! "))
}

func TestMarkdownRoundTrip(t *testing.T) {
	r := sampleRecord()
	got, err := ParseMarkdown(r.Markdown())
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestMarkdown_Placeholders(t *testing.T) {
	r := &DecisionRecord{Number: 1, Title: "Bare", Date: "2026-01-01", Status: "proposed"}
	md := r.Markdown()
	assert.Contains(t, md, "# DT-001: Bare")
	assert.Contains(t, md, "## Context\n[What situation required a decision]")
	assert.NotContains(t, md, "**Tags:**")
	assert.NotContains(t, md, "## Alternatives Considered")
}

func TestParseMarkdown_NoHeading(t *testing.T) {
	_, err := ParseMarkdown("# Just a note\n\nnothing here")
	assert.ErrorIs(t, err, ErrNoHeading)
}

func TestValidate(t *testing.T) {
	r := sampleRecord()
	assert.NoError(t, r.Validate())

	r.Status = "maybe"
	assert.Error(t, r.Validate())

	r = sampleRecord()
	r.Confidence = "extreme"
	assert.Error(t, r.Validate())

	r = sampleRecord()
	r.Title = " "
	assert.Error(t, r.Validate())
}

func TestParseRef(t *testing.T) {
	for _, in := range []string{"DT-007", "dt-7", "7", " 7 "} {
		n, err := ParseRef(in)
		require.NoError(t, err, in)
		assert.Equal(t, 7, n)
	}
	_, err := ParseRef("DT-x")
	assert.Error(t, err)
	_, err = ParseRef("0")
	assert.Error(t, err)
}

func TestSessionRef(t *testing.T) {
	assert.Equal(t, "4f1c2f5e-8a0b-4c7d-9e1f-2a3b4c5d6e7f",
		SessionRef("/home/u/.claude/projects/x/4f1c2f5e-8a0b-4c7d-9e1f-2a3b4c5d6e7f.jsonl"))
	assert.Equal(t, "019bf9a3-d433-7fc1-8214-b82613804964",
		SessionRef("rollout-2026-01-26T17-30-22-019bf9a3-d433-7fc1-8214-b82613804964.jsonl"))
	assert.Equal(t, "notes.jsonl", SessionRef("/tmp/notes.jsonl"))
	assert.Equal(t, "", SessionRef(""))
}

func TestFromCandidate(t *testing.T) {
	c := extract.Candidate{
		Summary:       "Chose: option 2",
		Context:       "Should I use option 1 or option 2?",
		AISuggestion:  "Should I use option 1 or option 2?",
		HumanResponse: "option 2",
		Category:      extract.CategoryChoice,
		TurnIndex:     2,
		Confidence:    extract.DefaultConfidence,
	}
	r := FromCandidate(c, "/x/session.jsonl", "2026-03-14")
	assert.Equal(t, "option 2", r.Title)
	assert.Equal(t, "proposed", r.Status)
	assert.Equal(t, []string{"#choice"}, r.Tags)
	assert.Equal(t, "option 2", r.Decision)
	assert.Equal(t, "option 2", r.HumanTake)
	assert.Equal(t, "medium", r.Confidence)
	assert.Equal(t, "session.jsonl", r.SessionRef)
	assert.NoError(t, r.Validate())
}

func TestStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "decisions")

	n, err := Next(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	first := &DecisionRecord{Title: "First", Date: "2026-01-01", Status: "accepted"}
	p1, err := Save(dir, first)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "001-first.md"), p1)

	second := &DecisionRecord{Title: "Second", Date: "2026-01-02", Status: "proposed"}
	_, err = Save(dir, second)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)

	// non-record markdown is skipped
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Decisions\n"), 0o644))

	all, err := LoadAll(dir)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "First", all[0].Title)
	assert.Equal(t, "Second", all[1].Title)

	found, err := Find(dir, "DT-002")
	require.NoError(t, err)
	assert.Equal(t, "Second", found.Title)

	_, err = Find(dir, "DT-009")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = Save(dir, &DecisionRecord{Title: "Bad", Status: "nope"})
	assert.Error(t, err)
}
