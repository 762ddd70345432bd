package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/decision-trail/internal/parse"
)

func entry(role parse.Role, text string, files ...string) parse.LogEntry {
	fs := parse.FileSet{}
	for _, f := range files {
		fs.Add(f)
	}
	return parse.LogEntry{Role: role, Text: text, Files: fs}
}

func TestGroupTurns_Empty(t *testing.T) {
	assert.Empty(t, GroupTurns(nil))
}

func TestGroupTurns_MergesConsecutiveRoles(t *testing.T) {
	turns := GroupTurns([]parse.LogEntry{
		entry(parse.RoleHuman, "fix the bug"),
		entry(parse.RoleAssistant, "Looking at it.", "a.go"),
		entry(parse.RoleAssistant, "", "b.go"),
		entry(parse.RoleAssistant, "Fixed.", "a.go", "c.go"),
		entry(parse.RoleHuman, "thanks"),
	})

	require.Len(t, turns, 3)
	assert.Equal(t, parse.RoleHuman, turns[0].Role)
	assert.Equal(t, parse.RoleAssistant, turns[1].Role)
	assert.Equal(t, "Looking at it. Fixed.", turns[1].Text)
	assert.Len(t, turns[1].Entries, 3)
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, turns[1].Files.Sorted())
	assert.Equal(t, "thanks", turns[2].Text)
}

func TestGroupTurns_SkipsUnsetRole(t *testing.T) {
	turns := GroupTurns([]parse.LogEntry{
		entry(parse.RoleNone, "stray"),
		entry(parse.RoleHuman, "hello"),
		entry(parse.RoleNone, "stray"),
		entry(parse.RoleHuman, "again"),
	})
	require.Len(t, turns, 1)
	assert.Equal(t, "hello again", turns[0].Text)
}

func TestGroupTurns_DropsBlankTurnAndKeepsRolesAlternating(t *testing.T) {
	turns := GroupTurns([]parse.LogEntry{
		entry(parse.RoleHuman, "first"),
		entry(parse.RoleAssistant, "", "x.go"),
		entry(parse.RoleHuman, "second"),
	})
	require.Len(t, turns, 1)
	assert.Equal(t, "first second", turns[0].Text)
	assert.Len(t, turns[0].Entries, 2)
}

func TestGroupTurns_Invariants(t *testing.T) {
	entries := []parse.LogEntry{
		entry(parse.RoleAssistant, "intro"),
		entry(parse.RoleHuman, "a"),
		entry(parse.RoleHuman, "b"),
		entry(parse.RoleAssistant, "c", "1.go"),
		entry(parse.RoleAssistant, "   "),
		entry(parse.RoleAssistant, "d", "2.go", "3.go"),
		entry(parse.RoleHuman, "e"),
		entry(parse.RoleAssistant, "", "4.go"),
		entry(parse.RoleHuman, "f"),
	}
	turns := GroupTurns(entries)

	assert.LessOrEqual(t, len(turns), len(entries))
	for i := 1; i < len(turns); i++ {
		assert.NotEqual(t, turns[i-1].Role, turns[i].Role, "turns %d and %d share a role", i-1, i)
	}
	for _, turn := range turns {
		assert.NotEmpty(t, turn.Text)
		union := parse.FileSet{}
		for _, e := range turn.Entries {
			union.Union(e.Files)
			assert.GreaterOrEqual(t, len(turn.Files), len(e.Files))
		}
		assert.Equal(t, union.Sorted(), turn.Files.Sorted())
	}
}

func TestCountRoles(t *testing.T) {
	turns := GroupTurns([]parse.LogEntry{
		entry(parse.RoleHuman, "a"),
		entry(parse.RoleAssistant, "b"),
		entry(parse.RoleHuman, "c"),
	})
	human, assistant := CountRoles(turns)
	assert.Equal(t, 2, human)
	assert.Equal(t, 1, assistant)
}
