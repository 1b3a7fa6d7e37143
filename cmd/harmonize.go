package cmd

import (
	"github.com/mounishallu05/income-expense-gap-analysis/core"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/spf13/cobra"
)

// harmonizeCmd builds and prints the harmonized table.
var harmonizeCmd = &cobra.Command{
	Use:   "harmonize [data-dir]",
	Short: "Join all source extracts into one harmonized table.",
	Long: `Read every configured source extract, normalize geography and period
keys against the gazetteer, and outer-join the results into one table keyed
by (geography, year).

The join preserves gaps: a cell no source could fill stays null instead of
being zero-filled. Rows from thinly covered periods are flagged LowConf but
never dropped. Rejected input rows land in the rejection report so data loss
stays auditable.

Examples:
  # Harmonize the extracts in ./data and print the table
  costgap harmonize ./data

  # Prefer HUD rent figures over ACS ones
  costgap harmonize ./data --precedence 'median_gross_rent:hud_fmr>acs_metros>acs_states'

  # Export the table to CSV for a spreadsheet
  costgap harmonize ./data --output csv --output-file harmonized.csv

  # Export the table to Parquet for DuckDB or Spark
  costgap harmonize ./data --output parquet --output-file harmonized.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHarmonize(cfg); err != nil {
			contract.LogFatal("Cannot harmonize sources", err)
		}
	},
}
