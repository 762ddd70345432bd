package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/decision-trail/internal/gitrepo"
	"github.com/Zuo-Peng/decision-trail/internal/record"
	"github.com/Zuo-Peng/decision-trail/internal/render"
)

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Create and browse decision records",
	}
	cmd.AddCommand(recordNewCmd())
	cmd.AddCommand(recordListCmd())
	cmd.AddCommand(recordShowCmd())
	return cmd
}

func recordNewCmd() *cobra.Command {
	var rec record.DecisionRecord
	var alts []string
	var commit bool

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Write a new numbered decision record",
		Long: `Write decisions/NNN-slug.md. Alternatives are given as
"option|pros|cons|source" and may be repeated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rec.Title = args[0]
			if rec.Date == "" {
				rec.Date = time.Now().Format("2006-01-02")
			}
			rec.Tags = normalizeTags(rec.Tags)
			for _, a := range alts {
				rec.Alternatives = append(rec.Alternatives, parseAlternative(a))
			}

			p, err := record.Save(cfg.DecisionsDir(), &rec)
			if err != nil {
				return err
			}
			fmt.Printf("%s written to %s\n", rec.ID(), p)

			if commit {
				hash, err := gitrepo.AddAndCommit([]string{p}, fmt.Sprintf("decision: %s %s", rec.ID(), rec.Title))
				if err != nil {
					log.Warn().Err(err).Msg("commit decision")
					fmt.Fprintf(os.Stderr, "Not committed: %v\n", err)
					return nil
				}
				fmt.Fprintf(os.Stderr, "Committed %s\n", hash)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&rec.Date, "date", "", "Decision date (default today)")
	f.StringVar(&rec.Status, "status", "accepted", "Status ("+strings.Join(record.Statuses, "/")+")")
	f.StringSliceVar(&rec.Tags, "tag", nil, "Tag (repeatable, # optional)")
	f.StringVar(&rec.Model, "model", "", "Model that was assisting")
	f.StringVar(&rec.Confidence, "confidence", "", "Confidence ("+strings.Join(record.Confidences, "/")+")")
	f.StringVar(&rec.Context, "context", "", "What situation required a decision")
	f.StringVar(&rec.Decision, "decision", "", "What was chosen")
	f.StringVar(&rec.AISuggestion, "ai", "", "What the AI recommended")
	f.StringVar(&rec.HumanTake, "take", "", "Why you agreed, disagreed or modified it")
	f.StringVar(&rec.Consequences, "consequences", "", "What this means going forward")
	f.StringVar(&rec.SessionRef, "session", "", "Session the decision came from")
	f.StringArrayVar(&alts, "alt", nil, `Alternative as "option|pros|cons|source" (repeatable)`)
	f.BoolVar(&commit, "commit", false, "Commit the record to the enclosing git repository")

	return cmd
}

func recordListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the decision timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			recs, err := record.LoadAll(cfg.DecisionsDir())
			if err != nil {
				return err
			}
			width := 0
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = w
			}
			fmt.Print(render.Timeline(recs, width))
			return nil
		},
	}
}

func recordShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <DT-NNN>",
		Short: "Print one decision record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rec, err := record.Find(cfg.DecisionsDir(), args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(rec.Path)
			if err != nil {
				return err
			}
			if raw || !term.IsTerminal(int(os.Stdout.Fd())) {
				fmt.Print(string(data))
				return nil
			}
			fmt.Print(render.Markdown(string(data), 0))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")

	return cmd
}

// parseAlternative splits "option|pros|cons|source"; missing parts stay empty.
func parseAlternative(s string) record.Alternative {
	parts := strings.SplitN(s, "|", 4)
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	return record.Alternative{
		Option: strings.TrimSpace(parts[0]),
		Pros:   strings.TrimSpace(parts[1]),
		Cons:   strings.TrimSpace(parts[2]),
		Source: strings.TrimSpace(parts[3]),
	}
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		out = append(out, t)
	}
	return out
}
