package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
	"github.com/Zuo-Peng/decision-trail/internal/parse"
)

func TestLoadFile_Defaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadFile(filepath.Join(home, "missing.toml"), home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".claude", "projects"), cfg.ClaudeRoot)
	assert.Equal(t, filepath.Join(home, ".codex", "sessions"), cfg.CodexRoot)
	assert.Equal(t, ".", cfg.ProjectRoot)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, parse.DefaultFileTools, cfg.FileTools())
	assert.Equal(t, extract.DefaultLexicon(), cfg.BuildLexicon())
}

func TestLoadFile_Overrides(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
claude_root = "~/logs/claude"
project_root = "~/work/proj"
port = 9001

[lexicon]
redirect_signals = ["Nah"]
interrupt_prefix = ""
file_tools = ["write_file"]
`), 0o644))

	cfg, err := LoadFile(path, home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs", "claude"), cfg.ClaudeRoot)
	assert.Equal(t, filepath.Join(home, "work", "proj"), cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(home, "work", "proj", "decisions", "digests"), cfg.DigestsDir())
	assert.Equal(t, 9001, cfg.Port)

	lex := cfg.BuildLexicon()
	assert.Contains(t, lex.RedirectSignals(), "nah")
	assert.Contains(t, lex.RedirectSignals(), "actually")
	assert.Equal(t, "", lex.InterruptPrefix())
	assert.Contains(t, cfg.FileTools(), "write_file")
	assert.Contains(t, cfg.FileTools(), "Write")
}

func TestLoadFile_ReplaceLexicon(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[lexicon]
replace = true
redirect_signals = ["revert"]
choice_signals = ["pick one"]
file_tools = ["save"]
`), 0o644))

	cfg, err := LoadFile(path, home)
	require.NoError(t, err)

	lex := cfg.BuildLexicon()
	assert.Equal(t, []string{"revert"}, lex.RedirectSignals())
	assert.Equal(t, []string{"pick one"}, lex.ChoiceSignals())
	assert.Equal(t, extract.DefaultInterruptPrefix, lex.InterruptPrefix())
	assert.Equal(t, []string{"save"}, cfg.FileTools())
}

func TestLoadFile_Invalid(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = [broken"), 0o644))

	_, err := LoadFile(path, home)
	assert.Error(t, err)
}
