package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/decision-trail/internal/config"
	"github.com/Zuo-Peng/decision-trail/internal/logging"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "dtrail",
		Short:         "Decision Trail - find the decisions you made while pairing with an AI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(digestCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and configures logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Configure(cfg.LogLevel)
	return cfg, nil
}
