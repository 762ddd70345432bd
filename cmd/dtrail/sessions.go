package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/decision-trail/internal/scan"
)

func sessionsCmd() *cobra.Command {
	var source string
	var limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List discovered session logs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			files, err := scan.ScanRoots(cfg.ClaudeRoot, cfg.CodexRoot)
			if err != nil {
				return err
			}

			shown := 0
			for _, f := range files {
				if source != "" && f.Source != source {
					continue
				}
				if limit > 0 && shown >= limit {
					break
				}
				fmt.Printf("%-14s\t%s\t%8s\t%s\n",
					humanize.Time(f.Mtime),
					colorizeSource(f.Source),
					humanize.Bytes(uint64(f.Size)),
					f.Path,
				)
				shown++
			}
			if shown == 0 {
				fmt.Fprintf(os.Stderr, "No sessions under %s or %s\n",
					filepath.Clean(cfg.ClaudeRoot), filepath.Clean(cfg.CodexRoot))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Filter by source (claude/codex)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Max sessions (0 = no limit)")

	return cmd
}

const (
	sColorReset = "\033[0m"
	sColorBlue  = "\033[1;34m"
	sColorGreen = "\033[1;32m"
)

func colorizeSource(source string) string {
	switch source {
	case "claude":
		return sColorBlue + source + sColorReset
	case "codex":
		return sColorGreen + source + sColorReset
	default:
		return source
	}
}
