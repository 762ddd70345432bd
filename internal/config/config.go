package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
	"github.com/Zuo-Peng/decision-trail/internal/parse"
)

// Lexicon overrides the built-in signal vocabulary. Lists extend the
// defaults unless Replace is set.
type Lexicon struct {
	RedirectSignals []string `toml:"redirect_signals"`
	ChoiceSignals   []string `toml:"choice_signals"`
	InterruptPrefix *string  `toml:"interrupt_prefix"`
	FileTools       []string `toml:"file_tools"`
	Replace         bool     `toml:"replace"`
}

type Config struct {
	ClaudeRoot  string  `toml:"claude_root"`
	CodexRoot   string  `toml:"codex_root"`
	ProjectRoot string  `toml:"project_root"`
	LogLevel    string  `toml:"log_level"`
	Port        int     `toml:"port"`
	Lexicon     Lexicon `toml:"lexicon"`
}

// Path returns the config file location, honoring DTRAIL_CONFIG.
func Path() (string, error) {
	if p := os.Getenv("DTRAIL_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dtrail", "config.toml"), nil
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	cfgPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(cfgPath, home)
}

// LoadFile applies the TOML file at cfgPath, if it exists, over defaults.
func LoadFile(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		ClaudeRoot:  filepath.Join(home, ".claude", "projects"),
		CodexRoot:   filepath.Join(home, ".codex", "sessions"),
		ProjectRoot: ".",
		LogLevel:    "warn",
		Port:        8000,
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.ClaudeRoot = expandHome(cfg.ClaudeRoot, home)
	cfg.CodexRoot = expandHome(cfg.CodexRoot, home)
	cfg.ProjectRoot = expandHome(cfg.ProjectRoot, home)

	return cfg, nil
}

// BuildLexicon merges the configured overrides with the built-in signals.
func (c *Config) BuildLexicon() extract.Lexicon {
	l := c.Lexicon
	redirect, choice := extract.DefaultRedirectSignals, extract.DefaultChoiceSignals
	if l.Replace {
		redirect, choice = l.RedirectSignals, l.ChoiceSignals
	} else {
		redirect = append(append([]string(nil), redirect...), l.RedirectSignals...)
		choice = append(append([]string(nil), choice...), l.ChoiceSignals...)
	}
	prefix := extract.DefaultInterruptPrefix
	if l.InterruptPrefix != nil {
		prefix = *l.InterruptPrefix
	}
	return extract.NewLexicon(redirect, choice, prefix)
}

// FileTools returns the tool names treated as file-mutating.
func (c *Config) FileTools() []string {
	if len(c.Lexicon.FileTools) == 0 {
		return parse.DefaultFileTools
	}
	if c.Lexicon.Replace {
		return c.Lexicon.FileTools
	}
	return append(append([]string(nil), parse.DefaultFileTools...), c.Lexicon.FileTools...)
}

// NewExtractor builds an extractor from the configured vocabulary.
func (c *Config) NewExtractor() *extract.Extractor {
	return extract.New(c.BuildLexicon(), parse.NewNormalizer(c.FileTools()))
}

// DecisionsDir is where decision records live.
func (c *Config) DecisionsDir() string {
	return filepath.Join(c.ProjectRoot, "decisions")
}

func (c *Config) DigestsDir() string {
	return filepath.Join(c.DecisionsDir(), "digests")
}

func (c *Config) SynthesisDir() string {
	return filepath.Join(c.DecisionsDir(), "synthesis")
}

func (c *Config) ProfileHTMLDir() string {
	return filepath.Join(c.ProjectRoot, "docs", "profile")
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
