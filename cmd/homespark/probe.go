package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/homespark/internal/probe"
)

func probeCmd() *cobra.Command {
	var (
		cfg      probe.Config
		progress bool
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Send generated requests to a running server and verify the responses",
		Long: `Check the server's health, read its vocabularies from /api/model-info and
send a batch of recommendation requests from a pool of workers. Every
response is checked: ranks run 1..k with a single best match, confidences
stay within [0, 1], tiers are known, sampled results carry the fixed
fallback confidence and no more items come back than were asked for.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if progress {
				cfg.Progress = cmd.ErrOrStderr()
			}
			return runProbe(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", probe.DefaultBaseURL, "base URL of the server")
	cmd.Flags().IntVar(&cfg.Requests, "requests", probe.DefaultRequests, "number of requests to send")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "number of concurrent workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", probe.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "request generation seed (default: clock)")
	cmd.Flags().BoolVar(&progress, "progress", true, "show a progress bar")

	return cmd
}

func runProbe(cmd *cobra.Command, cfg probe.Config) error {
	report, err := probe.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n📊 Probe of %s\n", cfg.BaseURL)
	fmt.Fprintf(w, "   sent: %d, succeeded: %d, failed: %d\n", report.Sent, report.Succeeded, report.Failed)
	fmt.Fprintf(w, "   fallbacks: %d, warnings: %d\n", report.Fallbacks, report.Warnings)
	fmt.Fprintf(w, "   duration: %s (%.1f req/s)\n", report.Duration.Round(time.Millisecond), report.RequestsPerSecond())

	if report.OK() {
		fmt.Fprintln(w, "✅ All responses verified")
		return nil
	}
	for _, v := range report.Violations {
		fmt.Fprintf(w, "   ❌ %s\n", v)
	}
	return fmt.Errorf("probe found %d failed requests and %d violations", report.Failed, len(report.Violations))
}
