package cmd

import (
	"github.com/mounishallu05/income-expense-gap-analysis/core"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/spf13/cobra"
)

// sourcesCmd validates source file headers without running the pipeline.
var sourcesCmd = &cobra.Command{
	Use:   "sources [data-dir]",
	Short: "Validate every source extract's header schema.",
	Long: `Check that each configured source file exists and carries the
expected header columns, without parsing the full files.

Useful as a fast preflight after refreshing the raw extracts: a renamed or
reordered column fails here with the expected and actual headers instead of
failing halfway through a pipeline run.

Examples:
  # Check the extracts in ./data
  costgap sources ./data

  # Check with a custom rent extract name
  costgap sources ./data --rent-file fmr_2023.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSourceCheck(cfg); err != nil {
			contract.LogFatal("Cannot check sources", err)
		}
	},
}
