package cmd

import (
	"github.com/mounishallu05/income-expense-gap-analysis/core"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd derives gap and correlation metrics from the harmonized table.
var metricsCmd = &cobra.Command{
	Use:   "metrics [data-dir]",
	Short: "Derive affordability metrics from the harmonized table.",
	Long: `Run the full pipeline and print the derived metrics:

- Year-over-year income and expense growth rates per geography
- The gap between expense growth and income growth
- Rent-to-income ratios
- Pearson correlation between net migration inflow and rent changes

Growth rates need the prior year: the first observed year of any series
stays null rather than pretending zero growth. Correlations with fewer than
--min-sample observation pairs are suppressed, not reported as noise.

Examples:
  # Print gap and correlation tables
  costgap metrics ./data

  # Require more evidence before reporting a correlation
  costgap metrics ./data --min-sample 8

  # Export the derived series as JSON
  costgap metrics ./data --output json --output-file derived.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(cfg); err != nil {
			contract.LogFatal("Cannot derive metrics", err)
		}
	},
}
