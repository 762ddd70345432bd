package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/decision-trail/internal/render"
)

func previewCmd() *cobra.Command {
	var latest bool
	var turn, context int

	cmd := &cobra.Command{
		Use:   "preview [session.jsonl]",
		Short: "Show a session's turns with context around one turn",
		Args:  cobra.MaximumNArgs(1),
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

			out, _ := render.Turns(res.Turns, turn, render.Options{Context: context})
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Use the most recently modified session")
	cmd.Flags().IntVar(&turn, "turn", -1, "Turn index to highlight")
	cmd.Flags().IntVar(&context, "context", 4, "Turns before/after the highlighted turn (-1 = all)")

	return cmd
}
