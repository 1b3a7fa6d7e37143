package outwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

func TestWriteRejectionsCSV(t *testing.T) {
	dir := t.TempDir()
	rejections := []schema.Rejection{
		{Source: schema.SourceRent, Line: 7, Kind: schema.GeoRejection, Value: "Atlantis, TX", Reason: "cannot resolve geo"},
		{Source: schema.SourceExpenditure, Line: 12, Kind: schema.PeriodRejection, Value: "someday", Reason: "cannot resolve period"},
	}

	path, err := WriteRejectionsCSV(rejections, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, RejectionsCSVName), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "source,line,kind,value,reason", lines[0])
	assert.Equal(t, `hud_fmr,7,geo,"Atlantis, TX",cannot resolve geo`, lines[1])
	assert.Equal(t, "bls_ce,12,period,someday,cannot resolve period", lines[2])
}

func TestWriteRejectionsCSVEmptyReport(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteRejectionsCSV(nil, dir)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "source,line,kind,value,reason", strings.TrimSpace(string(content)))
}

func TestExportReportDatasets(t *testing.T) {
	cfg := plainConfig()
	cfg.ResultsDir = filepath.Join(t.TempDir(), "results")
	cfg.Precision = 4

	paths, err := exportReportDatasets(fixtureHarmonizedTable(), fixtureDerivedResult(), cfg)
	require.NoError(t, err)

	wantNames := []string{
		HarmonizedCSVName,
		GapsCSVName,
		CorrelationsCSVName,
		HarmonizedParquetName,
		GapsParquetName,
	}
	require.Len(t, paths, len(wantNames))
	for i, name := range wantNames {
		assert.Equal(t, filepath.Join(cfg.ResultsDir, name), paths[i])
		info, err := os.Stat(paths[i])
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}

	content, err := os.ReadFile(filepath.Join(cfg.ResultsDir, HarmonizedCSVName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "median_household_income")
}

func TestPrintSourceChecksTable(t *testing.T) {
	checks := []schema.SourceCheck{
		{Source: schema.SourceIncomeStates, Path: "a.csv", OK: true},
		{Source: schema.SourceRent, Path: "b.csv", OK: false, Detail: "header schema mismatch"},
	}

	tmp := filepath.Join(t.TempDir(), "checks.txt")
	cfg := &contract.Config{Output: schema.TextOut, OutputFile: tmp}
	require.NoError(t, PrintSourceChecks(checks, cfg))

	content, err := os.ReadFile(tmp)
	require.NoError(t, err)
	output := string(content)
	assert.Contains(t, output, "acs_states")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "1 of 2 sources failed header validation")
}
