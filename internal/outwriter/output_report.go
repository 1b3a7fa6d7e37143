package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/parquet"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"

	"github.com/olekukonko/tablewriter"
)

// Report artifact file names within the results directory.
const (
	HarmonizedCSVName     = "harmonized.csv"
	HarmonizedParquetName = "harmonized.parquet"
	GapsCSVName           = "derived_gaps.csv"
	GapsParquetName       = "derived_gaps.parquet"
	CorrelationsCSVName   = "correlations.csv"
	RejectionsCSVName     = "rejections.csv"
)

// PrintSourceChecks outputs source header validation results. The table
// variant prints regardless of the configured output mode except JSON,
// because checks are a quick diagnostic rather than a dataset.
func PrintSourceChecks(checks []schema.SourceCheck, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, checks)
		}, "Wrote JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Source", "Path", "Status", "Detail"})

		var data [][]string
		failed := 0
		for _, c := range checks {
			status := "ok"
			if !c.OK {
				status = "failed"
				failed++
			}
			data = append(data, []string{string(c.Source), c.Path, status, c.Detail})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		if failed > 0 {
			_, err := fmt.Fprintf(w, "%d of %d sources failed header validation\n", failed, len(checks))
			return err
		}
		_, err := fmt.Fprintf(w, "All %d sources passed header validation\n", len(checks))
		return err
	}, "Wrote checks")
}

// WriteRejectionsCSV writes the rejection report into dir and returns the
// written path. An empty report still produces a file with only the header.
func WriteRejectionsCSV(rejections []schema.Rejection, dir string) (string, error) {
	path := filepath.Join(dir, RejectionsCSVName)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create rejection report: %w", err)
	}
	defer func() { _ = file.Close() }()

	header := []string{"source", "line", "kind", "value", "reason"}
	err = writeCSVWithHeader(file, header, func(w *csv.Writer) error {
		for _, r := range rejections {
			rec := []string{
				string(r.Source),
				fmt.Sprintf("%d", r.Line),
				string(r.Kind),
				r.Value,
				r.Reason,
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// exportReportDatasets writes the harmonized and derived datasets into the
// results directory, in both CSV and Parquet form, and returns the paths.
func exportReportDatasets(table *schema.HarmonizedTable, derived *schema.DerivedResult, cfg *contract.Config) ([]string, error) {
	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	_, fmtNullable := createFormatters(cfg.Precision)
	var paths []string

	writeCSVFile := func(name string, fn func(*csv.Writer) error, header []string) error {
		path := filepath.Join(cfg.ResultsDir, name)
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		defer func() { _ = file.Close() }()
		if err := writeCSVWithHeader(file, header, fn); err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	}

	// Harmonized table as CSV
	harmonizedHeader := []string{"geo_code", "geo_name", "level", "period"}
	for _, m := range table.Metrics {
		harmonizedHeader = append(harmonizedHeader, string(m))
	}
	harmonizedHeader = append(harmonizedHeader, "confidence")
	err := writeCSVFile(HarmonizedCSVName, func(w *csv.Writer) error {
		for i := range table.Rows {
			r := &table.Rows[i]
			rec := []string{r.GeoCode, r.GeoName, string(r.Level), schema.FormatPeriod(r.Period)}
			for _, m := range table.Metrics {
				rec = append(rec, fmtNullable(r.Value(m)))
			}
			rec = append(rec, contract.GetPlainConfidenceLabel(r.LowConfidence))
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}, harmonizedHeader)
	if err != nil {
		return nil, err
	}

	// Gap series as CSV
	err = writeCSVFile(GapsCSVName, func(w *csv.Writer) error {
		return writeGapRows(w, derived, fmtNullable)
	}, []string{"geo_code", "period", "income_growth", "expense_growth", "gap", "rent_to_income"})
	if err != nil {
		return nil, err
	}

	// Correlations as CSV
	err = writeCSVFile(CorrelationsCSVName, func(w *csv.Writer) error {
		for _, c := range derived.Correlations {
			insufficient := "false"
			if c.Insufficient {
				insufficient = "true"
			}
			rec := []string{c.GeoCode, fmt.Sprintf("%d", c.Samples), fmtNullable(c.Value), insufficient}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}, []string{"geo_code", "samples", "correlation", "insufficient"})
	if err != nil {
		return nil, err
	}

	// Parquet mirrors of the two main datasets
	harmonizedParquet := filepath.Join(cfg.ResultsDir, HarmonizedParquetName)
	if err := parquet.WriteHarmonizedParquet(parquet.FlattenHarmonized(table, 0), harmonizedParquet); err != nil {
		return nil, err
	}
	paths = append(paths, harmonizedParquet)

	gapsParquet := filepath.Join(cfg.ResultsDir, GapsParquetName)
	allGaps := append(append([]schema.GapPoint{}, derived.Gaps...), derived.NationalGaps...)
	if err := parquet.WriteGapsParquet(parquet.ConvertGapPoints(allGaps, 0), gapsParquet); err != nil {
		return nil, err
	}
	paths = append(paths, gapsParquet)

	return paths, nil
}

// writeGapRows writes per-geography then national gap rows.
func writeGapRows(w *csv.Writer, derived *schema.DerivedResult, fmtNullable func(*float64) string) error {
	write := func(gp schema.GapPoint) error {
		return w.Write([]string{
			gp.GeoCode,
			schema.FormatPeriod(gp.Period),
			fmtNullable(gp.IncomeGrowth),
			fmtNullable(gp.ExpenseGrowth),
			fmtNullable(gp.Gap),
			fmtNullable(gp.RentToIncome),
		})
	}
	for _, gp := range derived.Gaps {
		if err := write(gp); err != nil {
			return err
		}
	}
	for _, gp := range derived.NationalGaps {
		if err := write(gp); err != nil {
			return err
		}
	}
	return nil
}
