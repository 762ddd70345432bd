package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/decision-trail/internal/parse"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestLoggingSilencedInTests(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, zerolog.GlobalLevel())
}

func writeSession(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func userLine(text string) string {
	return `{"type":"user","message":{"role":"user","content":` + quote(text) + `}}`
}

func assistantLine(text string, files ...string) string {
	blocks := []string{`{"type":"text","text":` + quote(text) + `}`}
	for _, f := range files {
		blocks = append(blocks, `{"type":"tool_use","name":"Edit","input":{"file_path":`+quote(f)+`}}`)
	}
	return `{"type":"assistant","message":{"role":"assistant","content":[` + strings.Join(blocks, ",") + `]}}`
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func newExtractor() *Extractor {
	return New(DefaultLexicon(), parse.NewNormalizer(nil))
}

func TestExtract_ScenarioA_Redirect(t *testing.T) {
	path := writeSession(t,
		assistantLine("I'll implement approach A using a global cache."),
		userLine("no, use approach B instead"),
	)

	res, err := newExtractor().ExtractFile(path, "")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Equal(t, CategoryRedirect, c.Category)
	assert.Equal(t, 1, c.TurnIndex)
	assert.Equal(t, "no, use approach B instead", c.Summary)
	assert.Equal(t, "no, use approach B instead", c.HumanResponse)
	assert.Equal(t, "I'll implement approach A using a global cache.", c.AISuggestion)
	assert.Equal(t, c.AISuggestion, c.Context)
	assert.Equal(t, DefaultConfidence, c.Confidence)
}

func TestExtract_ScenarioB_Choice(t *testing.T) {
	path := writeSession(t,
		userLine("set up the storage layer"),
		assistantLine("Should I use option 1 or option 2?"),
		userLine("option 2"),
	)

	res, err := newExtractor().ExtractFile(path, "")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Equal(t, CategoryChoice, c.Category)
	assert.True(t, strings.HasPrefix(c.Summary, "Chose: option 2"))
	assert.Equal(t, 2, c.TurnIndex)
}

func TestExtract_ScenarioC_SignificantChange(t *testing.T) {
	path := writeSession(t,
		userLine("rename the package"),
		assistantLine("Renaming now.", "/r/d.go", "/r/a.go"),
		assistantLine("And the rest.", "/r/c.go", "/other/b.go", "/r/a.go"),
		userLine("looks good"),
	)

	res, err := newExtractor().ExtractFile(path, "")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Equal(t, CategorySignificantChange, c.Category)
	assert.Equal(t, "Significant changes: a.go, b.go, c.go, d.go", c.Summary)
	assert.Equal(t, "looks good", c.Context)
	assert.Equal(t, "Renaming now. And the rest.", c.AISuggestion)
	assert.Empty(t, c.HumanResponse)
	assert.Equal(t, 2, c.TurnIndex)
}

func TestExtract_ScenarioC_ToolOnlyEntryKept(t *testing.T) {
	toolOnly := `{"type":"assistant","message":{"role":"assistant","content":[` +
		`{"type":"tool_use","name":"Write","input":{"file_path":"/r/x.go"}},` +
		`{"type":"tool_use","name":"Write","input":{"file_path":"/r/y.go"}},` +
		`{"type":"tool_use","name":"Write","input":{"file_path":"/r/z.go"}}]}}`
	path := writeSession(t,
		assistantLine("sure"),
		toolOnly,
		userLine("thanks"),
	)

	res, err := newExtractor().ExtractFile(path, "")
	require.NoError(t, err)
	require.Len(t, res.Turns, 2)
	assert.Len(t, res.Turns[0].Entries, 2)

	// a blank-text entry that touched files still counts toward the turn
	require.Len(t, res.Candidates, 1)
	c := res.Candidates[0]
	assert.Equal(t, CategorySignificantChange, c.Category)
	assert.Equal(t, "Significant changes: x.go, y.go, z.go", c.Summary)
	assert.Equal(t, "sure", c.AISuggestion)
	assert.Equal(t, 1, c.TurnIndex)
}

func TestExtract_SignificantChangeListsFirstFiveSorted(t *testing.T) {
	turns := []Turn{
		{Role: parse.RoleAssistant, Text: "big change", Files: parse.FileSet{
			"g.go": {}, "f.go": {}, "e.go": {}, "d.go": {}, "c.go": {}, "b.go": {}, "a.go": {},
		}},
		{Role: parse.RoleHuman, Text: "ok"},
	}
	cands := newExtractor().Candidates(turns)
	require.Len(t, cands, 1)
	assert.Equal(t, "Significant changes: a.go, b.go, c.go, d.go, e.go", cands[0].Summary)
}

func TestExtract_ScenarioD_OnlyAssistant(t *testing.T) {
	path := writeSession(t,
		assistantLine("Should I use option 1?"),
		assistantLine("Writing files.", "a.go", "b.go", "c.go"),
	)

	res, err := newExtractor().ExtractFile(path, "")
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	require.Len(t, res.Turns, 1)
}

func TestExtract_ScenarioE_MalformedLineBetweenSameRole(t *testing.T) {
	path := writeSession(t,
		userLine("start"),
		assistantLine("part one"),
		`{"type":"assistant","message":{"role":"assist`,
		assistantLine("part two"),
		userLine("actually, do it differently"),
	)

	res, err := newExtractor().ExtractFile(path, "")
	require.NoError(t, err)
	require.Len(t, res.Turns, 3)
	assert.Equal(t, "part one part two", res.Turns[1].Text)
	assert.Len(t, res.Turns[1].Entries, 2)

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, CategoryRedirect, res.Candidates[0].Category)
	assert.Equal(t, "part one part two", res.Candidates[0].AISuggestion)
}

func TestExtract_RedirectSuppressesChoice(t *testing.T) {
	turns := []Turn{
		{Role: parse.RoleAssistant, Text: "Which would you prefer, option 1 or option 2?"},
		{Role: parse.RoleHuman, Text: "actually neither"},
	}
	cands := newExtractor().Candidates(turns)
	require.Len(t, cands, 1)
	assert.Equal(t, CategoryRedirect, cands[0].Category)
}

func TestExtract_SignificantChangeCoOccursWithRedirect(t *testing.T) {
	turns := []Turn{
		{Role: parse.RoleAssistant, Text: "Rewrote everything", Files: parse.FileSet{"a": {}, "b": {}, "c": {}}},
		{Role: parse.RoleHuman, Text: "wrong, revert that"},
	}
	cands := newExtractor().Candidates(turns)
	require.Len(t, cands, 2)
	assert.Equal(t, CategoryRedirect, cands[0].Category)
	assert.Equal(t, CategorySignificantChange, cands[1].Category)
	assert.Equal(t, cands[0].TurnIndex, cands[1].TurnIndex)
}

func TestExtract_SkipsInterruptedAndLeadingHuman(t *testing.T) {
	turns := []Turn{
		{Role: parse.RoleHuman, Text: "no, stop"},
		{Role: parse.RoleAssistant, Text: "Should I continue?"},
		{Role: parse.RoleHuman, Text: "[Request interrupted by user for tool use]"},
	}
	assert.Empty(t, newExtractor().Candidates(turns))
}

func TestExtract_InjectedLexicon(t *testing.T) {
	lex := NewLexicon([]string{"NOPE"}, nil, "")
	ex := New(lex, nil)

	turns := []Turn{
		{Role: parse.RoleAssistant, Text: "Should I use option 1?"},
		{Role: parse.RoleHuman, Text: "nope, and actually something else"},
		{Role: parse.RoleAssistant, Text: "ok"},
		{Role: parse.RoleHuman, Text: "[Request interrupted by user]"},
	}
	cands := ex.Candidates(turns)
	require.Len(t, cands, 1)
	assert.Equal(t, CategoryRedirect, cands[0].Category)
	assert.Equal(t, "nope", cands[0].Signal)
	assert.Equal(t, 1, cands[0].TurnIndex)
}

func TestExtract_TruncatesFields(t *testing.T) {
	long := strings.Repeat("actually this is long ", 30)
	turns := []Turn{
		{Role: parse.RoleAssistant, Text: strings.Repeat("proposal ", 60)},
		{Role: parse.RoleHuman, Text: long},
	}
	cands := newExtractor().Candidates(turns)
	require.Len(t, cands, 1)
	assert.Len(t, []rune(cands[0].Summary), 80)
	assert.Len(t, []rune(cands[0].HumanResponse), 200)
	assert.Len(t, []rune(cands[0].AISuggestion), 200)
	assert.True(t, strings.HasSuffix(cands[0].Summary, "..."))
}

func TestExtract_OrderingAndIdempotence(t *testing.T) {
	path := writeSession(t,
		userLine("build a cli"),
		assistantLine("There are a few ways to do this.", "a.go", "b.go", "c.go"),
		userLine("go with cobra"),
		assistantLine("Done."),
		userLine("hold on, that's not right"),
		assistantLine("Fixed it"),
		userLine("thanks"),
	)

	ex := newExtractor()
	first, err := ex.ExtractFile(path, "")
	require.NoError(t, err)
	second, err := ex.ExtractFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, first.Candidates, second.Candidates)

	require.Len(t, first.Candidates, 3)
	perTurn := map[int]int{}
	for i, c := range first.Candidates {
		if i > 0 {
			assert.GreaterOrEqual(t, c.TurnIndex, first.Candidates[i-1].TurnIndex)
		}
		if c.Category != CategorySignificantChange {
			perTurn[c.TurnIndex]++
		}
	}
	for idx, n := range perTurn {
		assert.Equal(t, 1, n, "turn %d has more than one redirect/choice", idx)
	}
}

func TestExtract_UnreadableFile(t *testing.T) {
	_, err := newExtractor().ExtractFile(filepath.Join(t.TempDir(), "missing.jsonl"), "")
	assert.Error(t, err)
}
