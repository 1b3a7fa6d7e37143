// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteHarmonized prints the harmonized table using the configured output format.
func (ow *OutWriter) WriteHarmonized(table *schema.HarmonizedTable, cfg *contract.Config, duration time.Duration) error {
	return PrintHarmonizedResults(table, cfg, duration)
}

// WriteDerived prints derived gap and correlation results using the configured output format.
func (ow *OutWriter) WriteDerived(derived *schema.DerivedResult, cfg *contract.Config, duration time.Duration) error {
	return PrintDerivedResults(derived, cfg, duration)
}

// WriteSourceChecks prints source header validation results using the configured output format.
func (ow *OutWriter) WriteSourceChecks(checks []schema.SourceCheck, cfg *contract.Config) error {
	return PrintSourceChecks(checks, cfg)
}

// ExportAll writes every report dataset into the results directory and
// returns the written file paths.
func (ow *OutWriter) ExportAll(table *schema.HarmonizedTable, derived *schema.DerivedResult, cfg *contract.Config) ([]string, error) {
	return exportReportDatasets(table, derived, cfg)
}

// getMaxTableNameWidth calculates the maximum width for geography names in
// table output based on terminal width and table configuration.
func getMaxTableNameWidth(cfg *contract.Config, metricCount int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 30 // Code + Period + Confidence with borders/padding

	// Each metric column with formatting
	baseWidth += metricCount * 14

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 45 {
		return 45
	}
	return available
}
