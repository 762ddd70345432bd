package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Zuo-Peng/decision-trail/internal/config"
	"github.com/Zuo-Peng/decision-trail/internal/scan"
)

// resolveSession picks the session log a command works on: the newest one
// with --latest, otherwise the single positional argument.
func resolveSession(cfg *config.Config, args []string, latest bool) (scan.FileInfo, error) {
	if latest {
		if len(args) > 0 {
			return scan.FileInfo{}, errors.New("--latest takes no session argument")
		}
		f, err := scan.Latest(cfg.ClaudeRoot, cfg.CodexRoot)
		if err != nil {
			return scan.FileInfo{}, err
		}
		fmt.Fprintf(os.Stderr, "Using %s\n", f.Path)
		return f, nil
	}
	if len(args) != 1 {
		return scan.FileInfo{}, errors.New("need a session file (or --latest)")
	}
	return scan.Resolve(args[0], cfg.ClaudeRoot, cfg.CodexRoot)
}
