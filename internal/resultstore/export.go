package resultstore

import (
	"errors"
	"fmt"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/parquet"
)

// ExecuteExport exports everything the store holds to Parquet files. The
// output file name is used as a prefix for one file per table.
func ExecuteExport(store contract.ResultStore, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	runs, err := store.Runs()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	if len(runs) == 0 {
		return errors.New("no recorded runs found to export")
	}

	fmt.Printf("Exporting %d recorded runs...\n", len(runs))

	harmonizedRows, err := store.HarmonizedRows()
	if err != nil {
		return fmt.Errorf("failed to retrieve harmonized rows: %w", err)
	}

	gapRows, err := store.GapRows()
	if err != nil {
		return fmt.Errorf("failed to retrieve gap rows: %w", err)
	}

	correlationRows, err := store.CorrelationRows()
	if err != nil {
		return fmt.Errorf("failed to retrieve correlation rows: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunSummaries(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	harmonizedFile := outputFile + ".harmonized.parquet"
	if err := parquet.WriteHarmonizedParquet(convertStoredHarmonized(harmonizedRows), harmonizedFile); err != nil {
		return fmt.Errorf("failed to write harmonized rows: %w", err)
	}
	fmt.Printf("Exported %d harmonized records to: %s\n", len(harmonizedRows), harmonizedFile)

	gapsFile := outputFile + ".gaps.parquet"
	if err := parquet.WriteGapsParquet(convertStoredGaps(gapRows), gapsFile); err != nil {
		return fmt.Errorf("failed to write gap rows: %w", err)
	}
	fmt.Printf("Exported %d gap records to: %s\n", len(gapRows), gapsFile)

	correlationsFile := outputFile + ".correlations.parquet"
	if err := parquet.WriteCorrelationsParquet(convertStoredCorrelations(correlationRows), correlationsFile); err != nil {
		return fmt.Errorf("failed to write correlation rows: %w", err)
	}
	fmt.Printf("Exported %d correlation records to: %s\n", len(correlationRows), correlationsFile)

	return nil
}

// convertStoredHarmonized converts stored harmonized rows to Parquet records.
// Geography names and levels live in the gazetteer, not the store, so those
// columns stay empty in store exports.
func convertStoredHarmonized(rows []contract.StoredHarmonizedRow) []parquet.HarmonizedRecord {
	records := make([]parquet.HarmonizedRecord, len(rows))
	for i, r := range rows {
		value := r.Value
		source := r.Source
		records[i] = parquet.HarmonizedRecord{
			RunID:         r.RunID,
			GeoCode:       r.GeoCode,
			Period:        int32(r.Period),
			Metric:        r.Metric,
			Value:         &value,
			Source:        &source,
			LowConfidence: r.LowConfidence,
		}
	}
	return records
}

// convertStoredGaps converts stored gap rows to Parquet records.
func convertStoredGaps(rows []contract.StoredGapRow) []parquet.GapRecord {
	records := make([]parquet.GapRecord, len(rows))
	for i, r := range rows {
		records[i] = parquet.GapRecord{
			RunID:         r.RunID,
			GeoCode:       r.GeoCode,
			Period:        int32(r.Period),
			IncomeGrowth:  r.IncomeGrowth,
			ExpenseGrowth: r.ExpenseGrowth,
			Gap:           r.Gap,
			RentToIncome:  r.RentToIncome,
		}
	}
	return records
}

// convertStoredCorrelations converts stored correlation rows to Parquet records.
func convertStoredCorrelations(rows []contract.StoredCorrelationRow) []parquet.CorrelationRecord {
	records := make([]parquet.CorrelationRecord, len(rows))
	for i, r := range rows {
		records[i] = parquet.CorrelationRecord{
			RunID:        r.RunID,
			GeoCode:      r.GeoCode,
			Samples:      int32(r.Samples),
			Value:        r.Value,
			Insufficient: r.Insufficient,
		}
	}
	return records
}
