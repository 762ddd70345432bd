package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/decision-trail/internal/gitrepo"
	"github.com/Zuo-Peng/decision-trail/internal/parse"
	"github.com/Zuo-Peng/decision-trail/internal/record"
	"github.com/Zuo-Peng/decision-trail/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify roots, decisions dir, git repo, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Println("=== Roots ===")
			checkDir("Claude", cfg.ClaudeRoot)
			checkDir("Codex", cfg.CodexRoot)

			fmt.Println("\n=== File Scan ===")
			files, err := scan.ScanRoots(cfg.ClaudeRoot, cfg.CodexRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				claudeCount, codexCount := 0, 0
				for _, f := range files {
					if f.Source == parse.SourceClaude {
						claudeCount++
					} else {
						codexCount++
					}
				}
				fmt.Printf("  Claude JSONL files: %d\n", claudeCount)
				fmt.Printf("  Codex  JSONL files: %d\n", codexCount)
				if len(files) > 0 {
					fmt.Printf("  Newest: %s (%s, %s)\n", files[0].Path,
						humanize.Time(files[0].Mtime), humanize.Bytes(uint64(files[0].Size)))
				}
			}

			fmt.Println("\n=== Project ===")
			checkDir("Root", cfg.ProjectRoot)
			checkDir("Decisions", cfg.DecisionsDir())
			checkDir("Digests", cfg.DigestsDir())
			if gitrepo.IsRepo(cfg.ProjectRoot) {
				fmt.Println("  Git: OK (--commit available)")
			} else {
				fmt.Println("  Git: not a repository (--commit will be skipped)")
			}

			fmt.Println("\n=== Records ===")
			recs, err := record.LoadAll(cfg.DecisionsDir())
			if err != nil {
				fmt.Printf("  load error: %v\n", err)
				return nil
			}
			byStatus := map[string]int{}
			for _, r := range recs {
				byStatus[r.Status]++
			}
			fmt.Printf("  Decisions: %d\n", len(recs))
			for _, s := range record.Statuses {
				if n := byStatus[s]; n > 0 {
					fmt.Printf("    %-10s %d\n", s, n)
				}
			}
			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
