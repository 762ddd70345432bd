package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/decision-trail/internal/digest"
	"github.com/Zuo-Peng/decision-trail/internal/gitrepo"
	"github.com/Zuo-Peng/decision-trail/internal/render"
)

func digestCmd() *cobra.Command {
	var latest, commit, printOut bool

	cmd := &cobra.Command{
		Use:   "digest [session.jsonl]",
		Short: "Write a markdown digest of a session's decision candidates",
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

			now := time.Now()
			text := digest.Generate(filepath.Base(session.Path), res, now)
			out, err := digest.Write(cfg.DigestsDir(), text, now)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Digest written to %s\n", out)

			if printOut {
				fmt.Print(render.Markdown(text, 0))
			}

			if commit {
				hash, err := gitrepo.AddAndCommit([]string{out}, "digest: "+filepath.Base(out))
				if err != nil {
					// the digest stays on disk either way
					log.Warn().Err(err).Msg("commit digest")
					fmt.Fprintf(os.Stderr, "Not committed: %v\n", err)
					return nil
				}
				fmt.Fprintf(os.Stderr, "Committed %s\n", hash)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Use the most recently modified session")
	cmd.Flags().BoolVar(&commit, "commit", false, "Commit the digest to the enclosing git repository")
	cmd.Flags().BoolVar(&printOut, "print", false, "Also render the digest to the terminal")

	return cmd
}
