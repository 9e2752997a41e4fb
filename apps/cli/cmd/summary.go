package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/yhspec/packages/output"
	"github.com/abdul-hamid-achik/yhspec/packages/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var summaryVerbose bool

var summaryCmd = &cobra.Command{
	Use:   "summary <results.json>",
	Short: "Print the aggregates of a saved results file",
	Long: `Print the suites, tests and totals of a results file written by a run
(test_results/results_YYYYMMDD_HHMMSS.json).

Exits with 1 when the file records a failed or errored test.

Examples:
  yhspec summary test_results/results_20240101_120000.json
  yhspec summary results.json -v`,
	Args: cobra.ExactArgs(1),
	RunE: summaryCommand,
}

func init() {
	summaryCmd.Flags().BoolVarP(&summaryVerbose, "verbose", "v", false, "Show extractions and error details")
}

func summaryCommand(cmd *cobra.Command, args []string) error {
	s, err := tracker.LoadSummary(args[0])
	if err != nil {
		return withExitCode(ExitParseError, err)
	}
	logger.Debug("results loaded",
		zap.String("path", args[0]),
		zap.String("runId", s.RunID),
		zap.Int("suites", s.TotalSuites),
	)

	f := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(summaryVerbose),
		output.WithNoColor(cfg.GetNoColor()),
	)
	f.FormatHeader(version)
	f.FormatSummary(s)

	if s.Failed() {
		return withExitCode(ExitTestFailure, fmt.Errorf("%d failed, %d errors", s.TotalFailed, s.TotalErrors))
	}
	return nil
}
