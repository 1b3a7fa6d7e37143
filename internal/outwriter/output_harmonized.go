package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/parquet"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintHarmonizedResults outputs the harmonized table, dispatching based on
// the output format configured.
func PrintHarmonizedResults(table *schema.HarmonizedTable, cfg *contract.Config, duration time.Duration) error {
	_, fmtNullable := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeHarmonizedJSONResults(table, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeHarmonizedCSVResults(table, cfg, fmtNullable); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeHarmonizedParquetResults(table, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHarmonizedTable(table, cfg, fmtNullable, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeHarmonizedJSONResults handles opening the file and calling the JSON writer.
func writeHarmonizedJSONResults(table *schema.HarmonizedTable, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForHarmonized(w, table)
	}, "Wrote JSON")
}

// writeHarmonizedCSVResults handles opening the file and calling the CSV writer.
func writeHarmonizedCSVResults(table *schema.HarmonizedTable, cfg *contract.Config, fmtNullable func(*float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForHarmonized(csvWriter, table, fmtNullable)
	}, "Wrote CSV")
}

// writeHarmonizedParquetResults writes the table as a Parquet file. Parquet
// is a binary format, so an output file is required.
func writeHarmonizedParquetResults(table *schema.HarmonizedTable, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return parquet.WriteHarmonizedParquetTo(parquet.FlattenHarmonized(table, 0), w)
	}, "Wrote Parquet")
}

// writeHarmonizedTable generates and writes the human-readable table.
func writeHarmonizedTable(t *schema.HarmonizedTable, cfg *contract.Config, fmtNullable func(*float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Code", "Name", "Period"}
	for _, m := range t.Metrics {
		headers = append(headers, string(m))
	}
	headers = append(headers, "Confidence")
	table.Header(headers)

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	nameWidth := getMaxTableNameWidth(cfg, len(t.Metrics))
	confidence := contract.GetPlainConfidenceLabel
	if cfg.UseColors {
		confidence = contract.GetColorConfidenceLabel
	}

	var data [][]string
	for i := range t.Rows {
		r := &t.Rows[i]
		row := []string{
			r.GeoCode,
			contract.TruncateName(r.GeoName, nameWidth),
			schema.FormatPeriod(r.Period),
		}
		for _, m := range t.Metrics {
			row = append(row, fmtNullable(r.Value(m)))
		}
		row = append(row, confidence(r.LowConfidence))
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	lowConf := 0
	for i := range t.Rows {
		if t.Rows[i].LowConfidence {
			lowConf++
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d harmonized rows across %d metrics (%d low-confidence)\n", len(t.Rows), len(t.Metrics), lowConf); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Harmonization completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForHarmonized writes the harmonized table in CSV format.
// One column per metric; explicit nulls stay empty.
func writeCSVResultsForHarmonized(w *csv.Writer, t *schema.HarmonizedTable, fmtNullable func(*float64) string) error {
	header := []string{"geo_code", "geo_name", "level", "period"}
	for _, m := range t.Metrics {
		header = append(header, string(m))
	}
	header = append(header, "confidence")
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range t.Rows {
		r := &t.Rows[i]
		rec := []string{
			r.GeoCode,
			r.GeoName,
			string(r.Level),
			schema.FormatPeriod(r.Period),
		}
		for _, m := range t.Metrics {
			rec = append(rec, fmtNullable(r.Value(m)))
		}
		rec = append(rec, contract.GetPlainConfidenceLabel(r.LowConfidence))
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForHarmonized writes the harmonized table in JSON format.
func writeJSONResultsForHarmonized(w io.Writer, t *schema.HarmonizedTable) error {
	// 1. Prepare the data structure for JSON with the confidence label added
	type JSONHarmonizedRow struct {
		Confidence string `json:"confidence"`
		schema.HarmonizedRow
	}

	type JSONHarmonizedTable struct {
		Metrics []schema.MetricName `json:"metrics"`
		Rows    []JSONHarmonizedRow `json:"rows"`
	}

	output := JSONHarmonizedTable{Metrics: t.Metrics, Rows: make([]JSONHarmonizedRow, len(t.Rows))}
	for i, r := range t.Rows {
		output.Rows[i] = JSONHarmonizedRow{
			Confidence:    contract.GetPlainConfidenceLabel(r.LowConfidence),
			HarmonizedRow: r,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
