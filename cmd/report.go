package cmd

import (
	"github.com/mounishallu05/income-expense-gap-analysis/core"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd renders every artifact into the results directory.
var reportCmd = &cobra.Command{
	Use:   "report [data-dir]",
	Short: "Write all report artifacts into the results directory.",
	Long: `Run the full pipeline and write every artifact into --results-dir:

- harmonized.csv / harmonized.parquet: the joined table
- derived_gaps.csv / derived_gaps.parquet: growth rates and gaps
- correlations.csv: migration/rent correlations
- rejections.csv: input rows that could not be normalized
- gap_trend.html: national gap trend chart
- migration_rent.html: net inflow vs rent change scatter chart

Examples:
  # Write all artifacts into ./results
  costgap report ./data

  # Write into a custom directory with more decimal places
  costgap report ./data --results-dir out --precision 6`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(cfg); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
	},
}
