package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/decision-trail/internal/render"
	"github.com/Zuo-Peng/decision-trail/internal/serve"
)

func serveCmd() *cobra.Command {
	var port int
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTML profile locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Port
			}

			// the watcher and POST /api/regenerate both write index.html
			regenerate := serialized(func() error {
				_, err := writeProfile(cfg, render.FormatHTML)
				return err
			})
			if err := regenerate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch {
				dirs := []string{cfg.DigestsDir(), cfg.SynthesisDir()}
				go func() {
					err := serve.Watch(ctx, dirs, 500*time.Millisecond, func() {
						if err := regenerate(); err != nil {
							log.Warn().Err(err).Msg("regenerate profile")
							return
						}
						log.Info().Msg("profile regenerated")
					})
					if err != nil {
						log.Error().Err(err).Msg("watch digests")
					}
				}()
			}

			fmt.Fprintf(os.Stderr, "Serving %s at http://localhost:%d/\n", cfg.ProfileHTMLDir(), port)
			return serve.NewServer(cfg.ProfileHTMLDir(), port, regenerate).Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8000, "Port to listen on")
	cmd.Flags().BoolVar(&watch, "watch", false, "Regenerate when digests change")

	return cmd
}

// serialized wraps fn so that at most one call runs at a time.
func serialized(fn func() error) func() error {
	var mu sync.Mutex
	return func() error {
		mu.Lock()
		defer mu.Unlock()
		return fn()
	}
}
