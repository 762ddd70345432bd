package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/decision-trail/internal/open"
	"github.com/Zuo-Peng/decision-trail/internal/record"
)

func openCmd() *cobra.Command {
	var turn int

	cmd := &cobra.Command{
		Use:   "open <DT-NNN | session>",
		Short: "Open a decision record, or a session log at a turn, in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if _, perr := record.ParseRef(args[0]); perr == nil {
				err := open.OpenRecord(cfg.DecisionsDir(), args[0])
				if !errors.Is(err, record.ErrNotFound) {
					return err
				}
			}

			session, err := resolveSession(cfg, args, false)
			if err != nil {
				return err
			}
			return open.OpenSession(cfg.NewExtractor(), session.Path, session.Source, turn)
		},
	}

	cmd.Flags().IntVar(&turn, "turn", -1, "Turn index to jump to")

	return cmd
}
