// Package cmd defines the command-line interface for costgap.
package cmd

import (
	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(harmonizeCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("results-dir", contract.DefaultResultsDir, "Directory for report artifacts and the results store")
	rootCmd.PersistentFlags().String("gazetteer-file", "", "Gazetteer CSV file name within the data directory")
	rootCmd.PersistentFlags().String("income-states-file", "", "Census ACS state extract file name")
	rootCmd.PersistentFlags().String("income-metros-file", "", "Census ACS metro extract file name")
	rootCmd.PersistentFlags().String("expenditure-file", "", "BLS consumer expenditure extract file name")
	rootCmd.PersistentFlags().String("rent-file", "", "HUD fair market rent extract file name")
	rootCmd.PersistentFlags().String("migration-file", "", "Change-of-address migration extract file name")
	rootCmd.PersistentFlags().String("precedence", "", "Per-metric source precedence (format: 'metric:src1>src2,metric2:src1>src3')")
	rootCmd.PersistentFlags().Int("min-sample", contract.DefaultMinSample, "Minimum sample pairs before a correlation is reported")
	rootCmd.PersistentFlags().Int("min-geos", contract.DefaultMinGeos, "Minimum geographies per period before flagging low confidence")
	rootCmd.PersistentFlags().String("granularity", contract.YearGranularity, "Target period granularity (only 'year' is supported)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Results store backend: sqlite or none")
	rootCmd.PersistentFlags().String("store-path", "", "Results store file path (defaults to <results-dir>/costgap.db)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}
