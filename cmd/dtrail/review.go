package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/decision-trail/internal/extract"
	"github.com/Zuo-Peng/decision-trail/internal/record"
	"github.com/Zuo-Peng/decision-trail/internal/tui"
)

func reviewCmd() *cobra.Command {
	var latest bool

	cmd := &cobra.Command{
		Use:   "review [session.jsonl]",
		Short: "Browse a session's candidates and record the real decisions",
		Long: `Opens a TUI listing every candidate in the session next to the
conversation around it. Type to filter, Enter drafts a decision record from
the selected candidate, ctrl+y copies it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("review needs a terminal; use 'dtrail extract' in pipes")
			}
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

			dir := cfg.DecisionsDir()
			promote := func(c extract.Candidate) (string, error) {
				rec := record.FromCandidate(c, session.Path, time.Now().Format("2006-01-02"))
				return record.Save(dir, rec)
			}

			written, err := tui.Run(res, promote)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Printf("Recorded %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Use the most recently modified session")

	return cmd
}
