package cmd

import (
	"fmt"
	"strings"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/resultstore"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// Store commands work on the artifact alone, so the full data-directory
// validation of sharedSetup would only get in the way.
func storeSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.StoreBackend(strings.ToLower(viper.GetString("store-backend")))
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite or none", backend)
	}

	cfg.StoreBackend = backend
	cfg.StorePath = viper.GetString("store-path")
	cfg.ResultsDir = viper.GetString("results-dir")
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = contract.DefaultResultsDir
	}
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// storeCmd manages the recorded run history.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage recorded pipeline runs and exports",
	Long: `Manage the results store that 'costgap run' records into.

Each recorded run keeps its configuration, the harmonized table and the
derived metrics, enabling run-over-run comparison and export to BI tools.

Subcommands:
  status  - Show run tracking statistics
  export  - Export recorded runs to Parquet for analytics
  clear   - Remove all recorded runs`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// storeStatusCmd shows store statistics.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show results store statistics",
	Long: `Show the backend, run counts and table sizes of the results store.

Examples:
  # Inspect the default store
  costgap store status

  # Inspect a store at a custom location
  costgap store status --store-path /var/lib/costgap/runs.db`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open results store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.Status()
		if err != nil {
			contract.LogFatal("Cannot get store status", err)
		}
		resultstore.PrintStatus(status)
	},
}

// storeClearCmd removes all recorded runs.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs from the results store",
	Long: `Delete every recorded run and its stored tables.

The store schema stays in place, so the next 'costgap run' records normally.

Examples:
  # Clear the default store
  costgap store clear`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open results store", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Clear(); err != nil {
			contract.LogFatal("Cannot clear results store", err)
		}
		fmt.Println("Results store cleared")
	},
}

// storeExportCmd exports recorded runs to Parquet.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet files",
	Long: `Export every table in the results store to Parquet files. The
--output-file value is used as a prefix: one file per table is written.

The Parquet files can be used with Spark, Pandas (via pyarrow), DuckDB, or
any other Parquet-compatible tool.

Examples:
  # Export all recorded runs
  costgap store export --output-file costgap_export

  # Export a store at a custom location
  costgap store export --store-path runs.db --output-file costgap_export`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open results store", err)
		}
		defer func() { _ = store.Close() }()

		if err := resultstore.ExecuteExport(store, cfg.OutputFile); err != nil {
			contract.LogFatal("Cannot export results store", err)
		}
	},
}
