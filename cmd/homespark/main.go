// Command homespark is the operator tool for HomeSpark catalogs. It builds
// catalog artifacts from interaction datasets, checks them, answers one-off
// recommendation queries and probes a running server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/homespark/internal/config"
	"github.com/okian/homespark/pkg/logger"
)

var version = "2.5.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "homespark",
		Short: "🏠 HomeSpark catalog and recommendation tool",
		Long: `homespark builds and inspects the catalog artifacts served by the
HomeSpark recommendation API, runs recommendations locally and probes a
running server.

Defaults for catalog location and engine tuning come from the same
configuration as the server (HOMESPARK_CONFIG and HOMESPARK_* variables).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var logLevel, logFormat string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", logger.FormatText, "log format (text, json)")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return initLogging(cmd, logLevel, logFormat)
	}

	root.AddCommand(buildCmd())
	root.AddCommand(verifyCmd())
	root.AddCommand(recommendCmd())
	root.AddCommand(probeCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initLogging sends logs to stderr so command output stays parseable.
func initLogging(cmd *cobra.Command, level, format string) error {
	if err := logger.InitWithWriter(cmd.ErrOrStderr(), format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// loadConfig reads the server configuration for defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// catalogFlags holds --catalog and --source.
type catalogFlags struct {
	path string
	kind string
}

func (f *catalogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "catalog", "", "catalog artifact path (default: catalog_path from config)")
	cmd.Flags().StringVar(&f.kind, "source", "", "catalog source kind, json or sqlite (default: catalog_source from config)")
}

// location resolves the flags against the config.
func (f *catalogFlags) location(cfg *config.Config) (path, kind string) {
	path, kind = cfg.CatalogPath, cfg.CatalogSource
	if f.path != "" {
		path = f.path
	}
	if f.kind != "" {
		kind = f.kind
	}
	return path, kind
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "homespark %s\n", version)
		},
	}
}
