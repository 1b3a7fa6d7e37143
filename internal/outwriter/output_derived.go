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

// PrintDerivedResults outputs the derived gap and correlation results,
// dispatching based on the output format configured.
func PrintDerivedResults(derived *schema.DerivedResult, cfg *contract.Config, duration time.Duration) error {
	_, fmtNullable := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeDerivedJSONResults(derived, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeDerivedCSVResults(derived, cfg, fmtNullable); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		// A Parquet file holds one schema; the gap dataset is the primary
		// one here. Correlations export separately via the report command.
		if err := writeDerivedParquetResults(derived, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDerivedTables(derived, cfg, fmtNullable, duration, w)
		}, "Wrote tables")
	}
	return nil
}

// writeDerivedJSONResults handles opening the file and calling the JSON writer.
func writeDerivedJSONResults(derived *schema.DerivedResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, derived)
	}, "Wrote JSON")
}

// writeDerivedCSVResults writes gaps and correlations as two headered CSV
// sections, mirroring the two tables of the text output.
func writeDerivedCSVResults(derived *schema.DerivedResult, cfg *contract.Config, fmtNullable func(*float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		if err := writeCSVResultsForGaps(csvWriter, derived, fmtNullable); err != nil {
			return err
		}
		return writeCSVResultsForCorrelations(csvWriter, derived.Correlations, fmtNullable)
	}, "Wrote CSV")
}

// writeDerivedParquetResults writes the gap dataset as a Parquet file.
func writeDerivedParquetResults(derived *schema.DerivedResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		points := append(append([]schema.GapPoint{}, derived.Gaps...), derived.NationalGaps...)
		return parquet.WriteGapsParquetTo(parquet.ConvertGapPoints(points, 0), w)
	}, "Wrote Parquet")
}

// writeDerivedTables generates and writes the human-readable gap and
// correlation tables.
func writeDerivedTables(derived *schema.DerivedResult, cfg *contract.Config, fmtNullable func(*float64) string, duration time.Duration, writer io.Writer) error {
	if err := writeGapTable(derived, fmtNullable, writer); err != nil {
		return err
	}
	if err := writeCorrelationTable(derived.Correlations, fmtNullable, writer); err != nil {
		return err
	}

	insufficient := 0
	for _, c := range derived.Correlations {
		if c.Insufficient {
			insufficient++
		}
	}
	if _, err := fmt.Fprintf(writer, "Derived %d gap rows and %d correlations (%d suppressed for thin samples)\n",
		len(derived.Gaps)+len(derived.NationalGaps), len(derived.Correlations), insufficient); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeGapTable prints the per-geography and national gap series.
func writeGapTable(derived *schema.DerivedResult, fmtNullable func(*float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Geo", "Period", "Income Growth", "Expense Growth", "Gap", "Rent/Income"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, gp := range derived.Gaps {
		data = append(data, gapRow(gp, fmtNullable))
	}
	for _, gp := range derived.NationalGaps {
		data = append(data, gapRow(gp, fmtNullable))
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCorrelationTable prints migration/rent correlations, marking
// suppressed entries instead of hiding them.
func writeCorrelationTable(correlations []schema.CorrelationResult, fmtNullable func(*float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Geo", "Samples", "Migration-Rent Correlation"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, c := range correlations {
		value := fmtNullable(c.Value)
		if c.Insufficient {
			value = fmt.Sprintf("suppressed (n=%d)", c.Samples)
		}
		data = append(data, []string{c.GeoCode, fmt.Sprintf("%d", c.Samples), value})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// gapRow renders one gap point as table cells.
func gapRow(gp schema.GapPoint, fmtNullable func(*float64) string) []string {
	return []string{
		gp.GeoCode,
		schema.FormatPeriod(gp.Period),
		fmtNullable(gp.IncomeGrowth),
		fmtNullable(gp.ExpenseGrowth),
		fmtNullable(gp.Gap),
		fmtNullable(gp.RentToIncome),
	}
}

// writeCSVResultsForGaps writes the gap series in CSV format.
func writeCSVResultsForGaps(w *csv.Writer, derived *schema.DerivedResult, fmtNullable func(*float64) string) error {
	header := []string{"geo_code", "period", "income_growth", "expense_growth", "gap", "rent_to_income"}
	if err := w.Write(header); err != nil {
		return err
	}
	return writeGapRows(w, derived, fmtNullable)
}

// writeCSVResultsForCorrelations writes the correlation results in CSV format.
func writeCSVResultsForCorrelations(w *csv.Writer, correlations []schema.CorrelationResult, fmtNullable func(*float64) string) error {
	header := []string{"geo_code", "samples", "correlation", "insufficient"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, c := range correlations {
		insufficient := "false"
		if c.Insufficient {
			insufficient = "true"
		}
		rec := []string{
			c.GeoCode,
			fmt.Sprintf("%d", c.Samples),
			fmtNullable(c.Value),
			insufficient,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
