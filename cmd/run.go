package cmd

import (
	"github.com/mounishallu05/income-expense-gap-analysis/core"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/spf13/cobra"
)

// runCmd is the end-to-end pipeline entry point.
var runCmd = &cobra.Command{
	Use:   "run [data-dir]",
	Short: "Run the full pipeline and record the run in the results store.",
	Long: `Run ingestion, harmonization, metric derivation and reporting in one
pass, then record the run and its output tables in the results store.

Recorded runs can be inspected with 'costgap store status' and exported to
Parquet with 'costgap store export'. Use --store-backend none to skip
recording.

Examples:
  # Full pipeline with run tracking
  costgap run ./data

  # Full pipeline without touching the store
  costgap run ./data --store-backend none

  # Keep the store artifact outside the results directory
  costgap run ./data --store-path /var/lib/costgap/runs.db`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open results store", err)
		}
		defer func() { _ = store.Close() }()

		if err := core.ExecuteRun(cfg, store); err != nil {
			contract.LogFatal("Cannot run pipeline", err)
		}
	},
}
