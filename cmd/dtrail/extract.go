package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
	"github.com/Zuo-Peng/decision-trail/internal/render"
)

func extractCmd() *cobra.Command {
	var latest bool
	var format string
	var width int

	cmd := &cobra.Command{
		Use:   "extract [session.jsonl]",
		Short: "List decision candidates found in a session log",
		Long: `Parse a Claude Code or Codex session log and list the redirections,
choices and significant changes it contains.

Text output is colored when stdout is a terminal and TSV otherwise:
  turn, category, signal, summary, human response`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			session, err := resolveSession(cfg, args, latest)
			if err != nil {
				return err
			}

			res, err := cfg.NewExtractor().ExtractFile(session.Path, session.Source)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(candidatesOrEmpty(res.Candidates))
			case "yaml":
				out, err := yaml.Marshal(candidatesOrEmpty(res.Candidates))
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(out)
				return err
			case "text":
			default:
				return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				if width == 0 {
					if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
						width = w
					}
				}
				fmt.Print(render.Candidates(res, render.Options{Width: width}))
				return nil
			}

			if len(res.Candidates) == 0 {
				fmt.Fprintln(os.Stderr, "No candidates found.")
				return nil
			}
			for _, c := range res.Candidates {
				fmt.Printf("%d\t%s\t%s\t%s\t%s\n",
					c.TurnIndex,
					c.Category,
					tsvField(c.Signal),
					tsvField(c.Summary),
					tsvField(c.HumanResponse),
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Use the most recently modified session")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text/json/yaml)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width for terminal output (0 = terminal width)")

	return cmd
}

func candidatesOrEmpty(c []extract.Candidate) []extract.Candidate {
	if c == nil {
		return []extract.Candidate{}
	}
	return c
}

func tsvField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if s == "" {
		return "-"
	}
	return s
}
