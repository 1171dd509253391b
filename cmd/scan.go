package cmd

import (
	"fmt"

	"github.com/huangsam/cigate/core"
	"github.com/huangsam/cigate/internal/outwriter"
	"github.com/huangsam/cigate/schema"
	"github.com/spf13/cobra"
)

// scanCmd aggregates the artifacts of a CI run.
var scanCmd = &cobra.Command{
	Use:   "scan [artifacts-dir]",
	Short: "Aggregate JUnit and lcov artifacts and evaluate the coverage gate",
	Long: `Walk an artifacts directory (default: artifacts) and aggregate every JUnit XML
report and lcov coverage file found in it.

Prints:
- Test totals (tests, failures, errors, skipped)
- Line coverage (lines hit over lines found)
- One warning annotation per artifact that could not be parsed
- An error annotation when the gate fails

The same summary is appended to the step summary file when GITHUB_STEP_SUMMARY
(or --summary-file) is set.

The gate fails when coverage is below --cov-min (env COV_MIN, default 18) or
when any test failed or errored. By default the exit code stays 0 so that the
report never blocks a pipeline; pass --enforce yes to exit 1 on a failed gate.

Examples:
  # Summarize ./artifacts
  cigate scan

  # Enforce 60% coverage on a custom directory
  cigate scan build/reports --cov-min 60 --enforce yes

  # Export run metrics for the node-exporter textfile collector
  cigate scan --metrics-file /var/lib/node_exporter/cigate.prom`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		report, err := core.ExecuteRun(cfg, storeManager, outwriter.NewOutWriter())
		if err != nil {
			return err
		}
		if cfg.Enforce && !report.Gate.Passed {
			return fmt.Errorf("%w: %s", schema.ErrGateFailed, schema.JoinReasons(report.Gate.Reasons))
		}
		return nil
	},
}
