// Package contract provides configuration, shared error types and small
// utilities used across the costgap pipeline.
package contract

import (
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// SourceReader parses one raw source file into annualized raw points.
// Implementations live in core; the interface keeps the orchestration layer
// testable without fixture files for every source.
type SourceReader interface {
	// Source returns the source-type tag this reader handles.
	Source() schema.SourceType

	// Read parses the file at path. A header mismatch returns a
	// *DataFormatError; malformed rows are skipped with a warning.
	Read(path string) ([]schema.RawPoint, error)
}

// ResultStore records pipeline runs and their output tables in a local
// artifact so runs can be compared or exported later.
type ResultStore interface {
	// BeginRun creates a new run record and returns its unique ID.
	BeginRun(configParams map[string]any) (int64, error)

	// EndRun finalizes the run record with row and rejection counts.
	EndRun(runID int64, harmonizedRows, rejections int) error

	// RecordHarmonized stores the harmonized table for a run.
	RecordHarmonized(runID int64, table *schema.HarmonizedTable) error

	// RecordDerived stores gap points and correlation results for a run.
	RecordDerived(runID int64, derived *schema.DerivedResult) error

	// Runs returns all recorded run summaries, newest first.
	Runs() ([]schema.RunSummary, error)

	// HarmonizedRows returns all stored harmonized rows across runs.
	HarmonizedRows() ([]StoredHarmonizedRow, error)

	// GapRows returns all stored gap points across runs.
	GapRows() ([]StoredGapRow, error)

	// CorrelationRows returns all stored correlation results across runs.
	CorrelationRows() ([]StoredCorrelationRow, error)

	// Status summarizes the store contents.
	Status() (schema.StoreStatus, error)

	// Clear drops all stored runs and their data.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}

// StoredHarmonizedRow is the flattened form of a harmonized cell as kept in
// the results store: one record per non-null cell.
type StoredHarmonizedRow struct {
	RunID         int64
	GeoCode       string
	Period        int
	Metric        string
	Value         float64
	Source        string
	LowConfidence bool
}

// StoredGapRow is the flattened form of a gap point as kept in the results
// store. Nullable metrics stay nullable.
type StoredGapRow struct {
	RunID         int64
	GeoCode       string
	Period        int
	IncomeGrowth  *float64
	ExpenseGrowth *float64
	Gap           *float64
	RentToIncome  *float64
}

// StoredCorrelationRow is one correlation result as kept in the results store.
type StoredCorrelationRow struct {
	RunID        int64
	GeoCode      string
	Samples      int
	Value        *float64
	Insufficient bool
}
