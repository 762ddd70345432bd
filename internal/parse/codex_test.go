package parse

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_Codex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rollout.jsonl")
	writeLines(t, path, []string{
		`{"timestamp":"2026-01-26T17:30:22Z","type":"session_meta","payload":{"cwd":"/work/codex"}}`,
		`{"timestamp":"2026-01-26T17:30:23Z","type":"response_item","payload":{"type":"message","role":"user","content":[{"type":"input_text","text":"<environment_context>...</environment_context>"}]}}`,
		`{"timestamp":"2026-01-26T17:30:24Z","type":"event_msg","payload":{"type":"user_message","message":"Refactor the parser"}}`,
		`{"timestamp":"2026-01-26T17:30:25Z","type":"event_msg","payload":{"type":"agent_reasoning","text":"thinking"}}`,
		`{"timestamp":"2026-01-26T17:30:26Z","type":"response_item","payload":{"type":"message","role":"assistant","content":[{"type":"output_text","text":"Done refactoring."}]}}`,
		`{"timestamp":"2026-01-26T17:30:27Z","type":"response_item","payload":{"type":"function_call","name":"shell","arguments":"{\"command\":[\"apply_patch\",\"*** Begin Patch\\n*** Update File: internal/parse/a.go\\n@@\\n*** Add File: internal/parse/b.go\\n*** End Patch\"]}"}}`,
		`{"timestamp":"2026-01-26T17:30:28Z","type":"response_item","payload":{"type":"custom_tool_call","name":"apply_patch","input":"*** Begin Patch\n*** Delete File: old/c.go\n*** End Patch"}}`,
		`{"timestamp":"2026-01-26T17:30:29Z","type":"response_item","payload":{"type":"function_call","name":"shell","arguments":"{\"command\":[\"ls\"]}"}}`,
	})

	res, err := NewNormalizer(nil).ParseFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, SourceCodex, res.Meta.Source)
	assert.Equal(t, "/work/codex", res.Meta.RepoCwd)
	require.Len(t, res.Entries, 4)

	assert.Equal(t, RoleHuman, res.Entries[0].Role)
	assert.Equal(t, "Refactor the parser", res.Entries[0].Text)
	assert.Equal(t, RoleAssistant, res.Entries[1].Role)
	assert.Equal(t, "Done refactoring.", res.Entries[1].Text)
	assert.Equal(t, []string{"a.go", "b.go"}, res.Entries[2].Files.Sorted())
	assert.Equal(t, []string{"c.go"}, res.Entries[3].Files.Sorted())
}

func TestParseFile_CodexLongSessionMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollout-long.jsonl")
	instructions := strings.Repeat("x", 70*1024)
	writeLines(t, path, []string{
		`{"timestamp":"2026-01-26T17:30:22Z","type":"session_meta","payload":{"cwd":"/work/codex","instructions":"` + instructions + `"}}`,
		`{"timestamp":"2026-01-26T17:30:24Z","type":"event_msg","payload":{"type":"user_message","message":"Refactor the parser"}}`,
		`{"timestamp":"2026-01-26T17:30:26Z","type":"response_item","payload":{"type":"message","role":"assistant","content":[{"type":"output_text","text":"Done refactoring."}]}}`,
	})

	res, err := NewNormalizer(nil).ParseFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, SourceCodex, res.Meta.Source)
	assert.Equal(t, "/work/codex", res.Meta.RepoCwd)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "Refactor the parser", res.Entries[0].Text)
	assert.Equal(t, 2, res.Entries[0].LineNumber)
	assert.Equal(t, "Done refactoring.", res.Entries[1].Text)
}

func TestParseFile_ExplicitSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollout.jsonl")
	writeLines(t, path, []string{
		`not json`,
		`{"timestamp":"2026-01-26T17:30:24Z","type":"event_msg","payload":{"type":"user_message","message":"hello"}}`,
	})

	res, err := NewNormalizer(nil).ParseFile(path, SourceCodex)
	require.NoError(t, err)
	assert.Equal(t, SourceCodex, res.Meta.Source)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "hello", res.Entries[0].Text)
}
