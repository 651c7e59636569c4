package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stockDashboard/internal/app"
	"stockDashboard/internal/config"
	"stockDashboard/internal/logger"
)

var (
	logLevel string
	asJSON   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Logging level")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of tables")
}

var rootCmd = &cobra.Command{
	Use:           "dashctl",
	Short:         "Stock dashboard from the command line",
	Long:          `Look up companies, compute per-stock statistics and analyse weighted portfolios from daily closing prices.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openApp loads the configuration and wires the application for one command.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Level: logLevel, Pretty: true})
	return app.New(ctx, cfg, log)
}
