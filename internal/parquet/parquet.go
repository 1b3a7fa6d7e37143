// Package parquet exports harmonized and derived analysis data to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mounishallu05/income-expense-gap-analysis/schema"
	"github.com/parquet-go/parquet-go"
)

// HarmonizedRecord is one harmonized observation in long form: one row per
// geography, period and metric. Value is nullable because an explicit null
// from the join survives into the export.
type HarmonizedRecord struct {
	// RunID references the run that produced this row; zero for direct exports.
	RunID int64 `parquet:"run_id,snappy"`

	// GeoCode is the canonical gazetteer code for the geography
	GeoCode string `parquet:"geo_code,snappy"`

	// GeoName is the canonical display name for the geography
	GeoName string `parquet:"geo_name,snappy"`

	// GeoLevel is "state" or "metro"
	GeoLevel string `parquet:"geo_level,snappy"`

	// Period is the calendar year of the observation
	Period int32 `parquet:"period,snappy"`

	// Metric is the harmonized metric name
	Metric string `parquet:"metric,snappy"`

	// Value is the observation value (nullable; null means no source had data)
	Value *float64 `parquet:"value,optional,snappy"`

	// Source is the winning source for this cell (nullable alongside Value)
	Source *string `parquet:"source,optional,snappy"`

	// LowConfidence marks rows from sparsely covered periods
	LowConfidence bool `parquet:"low_confidence,snappy"`
}

// GapRecord is one derived gap observation for a geography and period.
// All derived fields are nullable: a missing prior period yields nulls.
type GapRecord struct {
	RunID         int64    `parquet:"run_id,snappy"`
	GeoCode       string   `parquet:"geo_code,snappy"`
	Period        int32    `parquet:"period,snappy"`
	IncomeGrowth  *float64 `parquet:"income_growth,optional,snappy"`
	ExpenseGrowth *float64 `parquet:"expense_growth,optional,snappy"`
	Gap           *float64 `parquet:"gap,optional,snappy"`
	RentToIncome  *float64 `parquet:"rent_to_income,optional,snappy"`
}

// CorrelationRecord is one migration/rent correlation result.
type CorrelationRecord struct {
	RunID   int64  `parquet:"run_id,snappy"`
	GeoCode string `parquet:"geo_code,snappy"`
	Samples int32  `parquet:"samples,snappy"`

	// Value is the Pearson correlation (nullable when suppressed)
	Value *float64 `parquet:"value,optional,snappy"`

	// Insufficient is set when the sample count fell below the minimum
	Insufficient bool `parquet:"insufficient,snappy"`
}

// RunRecord is one pipeline run with its metadata, mirroring the results
// store's run table.
type RunRecord struct {
	RunID          int64   `parquet:"run_id,snappy"`
	StartTime      string  `parquet:"start_time,snappy"`
	EndTime        *string `parquet:"end_time,optional,snappy"`
	HarmonizedRows int32   `parquet:"harmonized_rows,snappy"`
	Rejections     int32   `parquet:"rejections,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// writeRecords writes a slice of records to a Parquet file at outputPath.
// The schema is inferred from the record struct tags.
func writeRecords[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return writeRecordsTo(data, file)
}

// writeRecordsTo writes a slice of records to an arbitrary writer.
func writeRecordsTo[T any](data []T, w io.Writer) error {
	writer := parquet.NewGenericWriter[T](w)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteHarmonizedParquet writes harmonized records to a Parquet file.
func WriteHarmonizedParquet(data []HarmonizedRecord, outputPath string) error {
	return writeRecords(data, outputPath)
}

// WriteHarmonizedParquetTo writes harmonized records to a writer.
func WriteHarmonizedParquetTo(data []HarmonizedRecord, w io.Writer) error {
	return writeRecordsTo(data, w)
}

// WriteGapsParquet writes gap records to a Parquet file.
func WriteGapsParquet(data []GapRecord, outputPath string) error {
	return writeRecords(data, outputPath)
}

// WriteGapsParquetTo writes gap records to a writer.
func WriteGapsParquetTo(data []GapRecord, w io.Writer) error {
	return writeRecordsTo(data, w)
}

// WriteCorrelationsParquet writes correlation records to a Parquet file.
func WriteCorrelationsParquet(data []CorrelationRecord, outputPath string) error {
	return writeRecords(data, outputPath)
}

// WriteCorrelationsParquetTo writes correlation records to a writer.
func WriteCorrelationsParquetTo(data []CorrelationRecord, w io.Writer) error {
	return writeRecordsTo(data, w)
}

// WriteRunsParquet writes run records to a Parquet file.
func WriteRunsParquet(data []RunRecord, outputPath string) error {
	return writeRecords(data, outputPath)
}

// FlattenHarmonized converts a harmonized table into long-form records.
// runID is zero for direct exports outside the results store.
func FlattenHarmonized(t *schema.HarmonizedTable, runID int64) []HarmonizedRecord {
	var records []HarmonizedRecord
	for _, row := range t.Rows {
		for _, metric := range t.Metrics {
			rec := HarmonizedRecord{
				RunID:         runID,
				GeoCode:       row.GeoCode,
				GeoName:       row.GeoName,
				GeoLevel:      string(row.Level),
				Period:        int32(row.Period),
				Metric:        string(metric),
				LowConfidence: row.LowConfidence,
			}
			if cell, ok := row.Cells[metric]; ok {
				value := cell.Value
				src := string(cell.Source)
				rec.Value = &value
				rec.Source = &src
			}
			records = append(records, rec)
		}
	}
	return records
}

// ConvertGapPoints converts derived gap points into Parquet records.
func ConvertGapPoints(points []schema.GapPoint, runID int64) []GapRecord {
	records := make([]GapRecord, len(points))
	for i, gp := range points {
		records[i] = GapRecord{
			RunID:         runID,
			GeoCode:       gp.GeoCode,
			Period:        int32(gp.Period),
			IncomeGrowth:  gp.IncomeGrowth,
			ExpenseGrowth: gp.ExpenseGrowth,
			Gap:           gp.Gap,
			RentToIncome:  gp.RentToIncome,
		}
	}
	return records
}

// ConvertCorrelations converts correlation results into Parquet records.
func ConvertCorrelations(results []schema.CorrelationResult, runID int64) []CorrelationRecord {
	records := make([]CorrelationRecord, len(results))
	for i, cr := range results {
		records[i] = CorrelationRecord{
			RunID:        runID,
			GeoCode:      cr.GeoCode,
			Samples:      int32(cr.Samples),
			Value:        cr.Value,
			Insufficient: cr.Insufficient,
		}
	}
	return records
}

// ConvertRunSummaries converts run summaries into Parquet records.
func ConvertRunSummaries(runs []schema.RunSummary) []RunRecord {
	records := make([]RunRecord, len(runs))
	for i, run := range runs {
		rec := RunRecord{
			RunID:          run.RunID,
			StartTime:      run.StartTime,
			HarmonizedRows: int32(run.HarmonizedRows),
			Rejections:     int32(run.Rejections),
		}
		if run.EndTime != "" {
			endTime := run.EndTime
			rec.EndTime = &endTime
		}
		if len(run.ConfigParams) > 0 {
			if encoded, err := json.Marshal(run.ConfigParams); err == nil {
				params := string(encoded)
				rec.ConfigParams = &params
			}
		}
		records[i] = rec
	}
	return records
}
