package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/chart"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/outwriter"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// PipelineResult bundles everything one pipeline pass produces.
type PipelineResult struct {
	Table      *schema.HarmonizedTable
	Rejections []schema.Rejection
	Derived    *schema.DerivedResult
	Duration   time.Duration
}

// readerFor returns the source reader for a source-type tag.
func readerFor(source schema.SourceType) contract.SourceReader {
	switch source {
	case schema.SourceIncomeStates, schema.SourceIncomeMetros:
		return NewIncomeReader(source)
	case schema.SourceExpenditure:
		return NewExpenditureReader()
	case schema.SourceRent:
		return NewRentReader()
	default:
		return NewMigrationReader()
	}
}

// loadPoints reads and normalizes every configured source. A header schema
// mismatch skips that file with a warning; any other read failure aborts.
func loadPoints(cfg *contract.Config, norm *Normalizer) ([]schema.TimeSeriesPoint, []schema.Rejection, error) {
	var points []schema.TimeSeriesPoint
	var rejections []schema.Rejection

	for _, source := range schema.AllSourceTypes {
		path := cfg.SourceFiles[source]
		raws, err := readerFor(source).Read(path)
		if err != nil {
			var formatErr *contract.DataFormatError
			if errors.As(err, &formatErr) {
				contract.LogWarn(fmt.Sprintf("skipping %s source", source), err)
				continue
			}
			return nil, nil, err
		}

		normalized, rejected := norm.Normalize(raws)
		points = append(points, normalized...)
		rejections = append(rejections, rejected...)
	}

	return points, rejections, nil
}

// runPipeline executes ingestion, normalization and the harmonizing join.
// The derived metrics are computed only when derive is set.
func runPipeline(cfg *contract.Config, derive bool) (*PipelineResult, error) {
	start := time.Now()

	gaz, err := LoadGazetteer(cfg.GazetteerPath)
	if err != nil {
		return nil, fmt.Errorf("cannot load gazetteer: %w", err)
	}

	points, rejections, err := loadPoints(cfg, NewNormalizer(gaz))
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{
		Table:      Harmonize(points, gaz, cfg.Precedence, cfg.MinGeos),
		Rejections: rejections,
	}
	if derive {
		result.Derived = Derive(result.Table, cfg.MinSample)
	}
	result.Duration = time.Since(start)
	return result, nil
}

// ExecuteHarmonize builds the harmonized table and prints it in the
// configured output format. The rejection report always lands in the
// results directory so data loss stays auditable.
func ExecuteHarmonize(cfg *contract.Config) error {
	result, err := runPipeline(cfg, false)
	if err != nil {
		return err
	}

	if err := writeRejectionReport(cfg, result.Rejections); err != nil {
		return err
	}

	ow := outwriter.NewOutWriter()
	return ow.WriteHarmonized(result.Table, cfg, result.Duration)
}

// ExecuteMetrics runs the full pipeline and prints the derived gap and
// correlation tables in the configured output format.
func ExecuteMetrics(cfg *contract.Config) error {
	result, err := runPipeline(cfg, true)
	if err != nil {
		return err
	}

	if err := writeRejectionReport(cfg, result.Rejections); err != nil {
		return err
	}

	ow := outwriter.NewOutWriter()
	return ow.WriteDerived(result.Derived, cfg, result.Duration)
}

// ExecuteReport runs the full pipeline and renders every artifact into the
// results directory: tabular datasets, the rejection report, and charts.
func ExecuteReport(cfg *contract.Config) error {
	result, err := runPipeline(cfg, true)
	if err != nil {
		return err
	}
	return writeReportArtifacts(cfg, result)
}

// ExecuteRun is the end-to-end entry point: report artifacts plus a run
// record in the results store when one is configured.
func ExecuteRun(cfg *contract.Config, store contract.ResultStore) error {
	result, err := runPipeline(cfg, true)
	if err != nil {
		return err
	}

	if err := writeReportArtifacts(cfg, result); err != nil {
		return err
	}

	if store != nil {
		if err := recordRun(cfg, store, result); err != nil {
			// Recording is best-effort; the artifacts already exist.
			contract.LogWarn("results store recording failed", err)
		}
	}

	fmt.Printf("Run completed in %v: %d harmonized rows, %d rejections\n",
		result.Duration.Round(time.Millisecond), len(result.Table.Rows), len(result.Rejections))
	return nil
}

// ExecuteSourceCheck validates every configured source header without
// running the pipeline.
func ExecuteSourceCheck(cfg *contract.Config) error {
	expected := map[schema.SourceType][]string{
		schema.SourceIncomeStates: incomeHeader,
		schema.SourceIncomeMetros: incomeHeader,
		schema.SourceExpenditure:  expenditureHeader,
		schema.SourceRent:         rentHeader,
		schema.SourceMigration:    migrationHeader,
	}

	checks := make([]schema.SourceCheck, 0, len(schema.AllSourceTypes))
	for _, source := range schema.AllSourceTypes {
		path := cfg.SourceFiles[source]
		check := schema.SourceCheck{Source: source, Path: path, OK: true}
		if _, file, err := openSource(path, source, expected[source]); err != nil {
			check.OK = false
			check.Detail = err.Error()
		} else {
			_ = file.Close()
		}
		checks = append(checks, check)
	}

	ow := outwriter.NewOutWriter()
	return ow.WriteSourceChecks(checks, cfg)
}

// writeRejectionReport writes the rejection report CSV into the results
// directory. An empty report is still written so its absence never reads as
// "no rejections".
func writeRejectionReport(cfg *contract.Config, rejections []schema.Rejection) error {
	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("cannot create results directory: %w", err)
	}
	path, err := outwriter.WriteRejectionsCSV(rejections, cfg.ResultsDir)
	if err != nil {
		return err
	}
	if len(rejections) > 0 {
		fmt.Printf("Recorded %d rejected rows in %s\n", len(rejections), path)
	}
	return nil
}

// writeReportArtifacts writes every dataset and chart into the results directory.
func writeReportArtifacts(cfg *contract.Config, result *PipelineResult) error {
	if err := writeRejectionReport(cfg, result.Rejections); err != nil {
		return err
	}

	ow := outwriter.NewOutWriter()
	paths, err := ow.ExportAll(result.Table, result.Derived, cfg)
	if err != nil {
		return err
	}

	paths = append(paths, chart.RenderAll(result.Derived, cfg.ResultsDir)...)

	for _, p := range paths {
		fmt.Printf("Wrote %s\n", p)
	}
	return nil
}

// recordRun persists one run into the results store.
func recordRun(cfg *contract.Config, store contract.ResultStore, result *PipelineResult) error {
	runID, err := store.BeginRun(cfg.ConfigParams())
	if err != nil {
		return err
	}
	if err := store.RecordHarmonized(runID, result.Table); err != nil {
		return err
	}
	if err := store.RecordDerived(runID, result.Derived); err != nil {
		return err
	}
	return store.EndRun(runID, len(result.Table.Rows), len(result.Rejections))
}
