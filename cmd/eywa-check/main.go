// Command eywa-check verifies a running landing service: it fetches the
// event list and the stats, re-aggregates locally and compares.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/eywa/internal/checker"
	"github.com/okian/eywa/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := checker.NewConfig()
	var (
		logFormat string
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "eywa-check",
		Short: "Verify the stats served by a running Eywa landing service",
		Long: `Fetches /api/leads and /api/stats, recomputes the stats from the list and
checks that the totals are additive, that every payment carries a positive
amount, that ids grow one by one and that the served stats equal the
recomputation. With --rounds > 1 it also checks that the list only grows.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(logger.WithFormat(logFormat), logger.WithWriter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if err := logger.SetLevelString(logLevel); err != nil {
				return err
			}

			report, err := checker.Run(cmd.Context(), cfg, log)
			if report != nil {
				printReport(cmd, report)
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "check failed:", err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the service")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	f.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "number of fetch-and-verify rounds")
	f.DurationVar(&cfg.Interval, "interval", cfg.Interval, "pause between rounds")
	f.IntVar(&cfg.LeadBonusThreshold, "lead-threshold", cfg.LeadBonusThreshold, "lead bonus threshold configured on the server")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every failed check")
	f.StringVar(&logFormat, "log-format", logger.FormatText, "log format: text or json")
	f.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func printReport(cmd *cobra.Command, r *checker.Report) {
	out := cmd.OutOrStdout()
	for i, round := range r.Rounds {
		s := round.Served
		fmt.Fprintf(out, "round %d: %d events | moscow %d/%d/%d | west %d/%d/%d | total %d/%d/%d\n",
			i+1, len(round.Events),
			s.Moscow.Leads, s.Moscow.Payments, s.Moscow.Points,
			s.West.Leads, s.West.Payments, s.West.Points,
			s.Total.Leads, s.Total.Payments, s.Total.Points,
		)
	}
	if r.OK() {
		fmt.Fprintln(out, "OK")
		return
	}
	for _, p := range r.Problems {
		fmt.Fprintln(out, "FAIL:", p)
	}
}
