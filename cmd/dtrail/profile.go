package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/decision-trail/internal/config"
	"github.com/Zuo-Peng/decision-trail/internal/gitrepo"
	"github.com/Zuo-Peng/decision-trail/internal/profile"
	"github.com/Zuo-Peng/decision-trail/internal/render"
)

func profileCmd() *cobra.Command {
	var format string
	var commit bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Aggregate digests into a decision profile",
		Long: `Reads decisions/digests and decisions/synthesis and writes
decisions/profile.md and/or docs/profile/index.html.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			written, err := writeProfile(cfg, format)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Printf("Wrote %s\n", p)
			}

			if commit {
				hash, err := gitrepo.AddAndCommit(written, "profile: regenerate")
				if err != nil {
					log.Warn().Err(err).Msg("commit profile")
					return nil
				}
				fmt.Printf("Committed %s\n", hash)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", render.FormatMarkdown, "Output format (md/html/both)")
	cmd.Flags().BoolVar(&commit, "commit", false, "Commit the profile to the enclosing git repository")

	return cmd
}

func writeProfile(cfg *config.Config, format string) ([]string, error) {
	data, err := profile.Build(cfg.DigestsDir(), cfg.SynthesisDir())
	if err != nil {
		return nil, err
	}
	mdPath := filepath.Join(cfg.DecisionsDir(), "profile.md")
	return render.WriteProfile(data, format, mdPath, cfg.ProfileHTMLDir())
}
