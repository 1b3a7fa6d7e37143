package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/outwriter"
	"github.com/mounishallu05/income-expense-gap-analysis/internal/resultstore"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// fixturePipelineConfig builds a data directory with a small but complete
// set of source extracts and returns a validated configuration for it.
func fixturePipelineConfig(t *testing.T) *contract.Config {
	t.Helper()
	dataDir := t.TempDir()

	writeFixture(t, dataDir, contract.DefaultGazetteerFile, fixtureGazetteer)
	writeFixture(t, dataDir, contract.DefaultIncomeStatesFile,
		`name,code,year,median_household_income,total_population,median_gross_rent
Texas,48,2020,64034,29000000,1050
Texas,48,2021,67321,29500000,1100
California,06,2020,80440,39500000,1650
California,06,2021,84097,39200000,1750
`)
	writeFixture(t, dataDir, contract.DefaultIncomeMetrosFile,
		`name,code,year,median_household_income,total_population,median_gross_rent
"Austin-Round Rock-Georgetown, TX",12420,2020,80954,2280000,1350
"Austin-Round Rock-Georgetown, TX",12420,2021,86530,2350000,1450
"Austin-Round Rock-Georgetown, TX",12420,2022,91461,2420000,1600
"Houston-The Woodlands-Sugar Land, TX",26420,2020,69193,7100000,1100
"Houston-The Woodlands-Sugar Land, TX",26420,2021,70893,7200000,1150
"Houston-The Woodlands-Sugar Land, TX",26420,2022,74023,7300000,1200
`)
	writeFixture(t, dataDir, contract.DefaultExpenditureFile,
		`geo,category,year,value,unit
Texas,Total expenditures,2020,58000,annual
Texas,Total expenditures,2021,63036,annual
California,Total expenditures,2020,69000,annual
California,Total expenditures,2021,74000,annual
Atlantis,Total expenditures,2021,1,annual
`)
	writeFixture(t, dataDir, contract.DefaultRentFile,
		`area_name,state,year,fmr_0,fmr_1,fmr_2,fmr_3,fmr_4
Austin-Round Rock-Georgetown,TX,FY2021,1100,1250,1480,1900,2250
Houston-The Woodlands-Sugar Land,TX,FY2021,950,1050,1250,1650,2000
`)
	writeFixture(t, dataDir, contract.DefaultMigrationFile,
		`year,origin_metro,destination_metro,num_migrants
2021,Houston-The Woodlands-Sugar Land,Austin-Round Rock-Georgetown,12000
2021,Austin-Round Rock-Georgetown,Houston-The Woodlands-Sugar Land,7000
2022,Houston-The Woodlands-Sugar Land,Austin-Round Rock-Georgetown,15000
2022,Austin-Round Rock-Georgetown,Houston-The Woodlands-Sugar Land,6000
`)

	cfg := &contract.Config{}
	input := &contract.ConfigRawInput{
		DataDirStr:   dataDir,
		ResultsDir:   filepath.Join(t.TempDir(), "results"),
		MinSample:    2,
		MinGeos:      2,
		Granularity:  contract.YearGranularity,
		Output:       "text",
		Precision:    4,
		Color:        "no",
		StoreBackend: "sqlite",
	}
	require.NoError(t, contract.ProcessAndValidate(cfg, input))
	return cfg
}

func TestRunPipeline(t *testing.T) {
	cfg := fixturePipelineConfig(t)

	result, err := runPipeline(cfg, true)
	require.NoError(t, err)

	// Four geographies with two or three periods each.
	assert.Len(t, result.Table.Rows, 10)

	// The unresolvable expenditure geography lands in the rejection list.
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, "Atlantis", result.Rejections[0].Value)
	assert.Equal(t, schema.GeoRejection, result.Rejections[0].Kind)

	// ACS metro rent wins precedence over the HUD figure for 2021.
	var austin2021 *schema.HarmonizedRow
	for i := range result.Table.Rows {
		r := &result.Table.Rows[i]
		if r.GeoCode == "12420" && r.Period == 2021 {
			austin2021 = r
		}
	}
	require.NotNil(t, austin2021)
	cell := austin2021.Cells[schema.MetricGrossRent]
	assert.Equal(t, schema.SourceIncomeMetros, cell.Source)
	assert.Equal(t, 1450.0*12, cell.Value)

	require.NotNil(t, result.Derived)
	assert.NotEmpty(t, result.Derived.Gaps)
	assert.NotEmpty(t, result.Derived.Samples)
	assert.NotEmpty(t, result.Derived.Correlations)
}

func TestExecuteReportWritesArtifacts(t *testing.T) {
	cfg := fixturePipelineConfig(t)

	require.NoError(t, ExecuteReport(cfg))

	wantFiles := []string{
		outwriter.RejectionsCSVName,
		outwriter.HarmonizedCSVName,
		outwriter.HarmonizedParquetName,
		outwriter.GapsCSVName,
		outwriter.GapsParquetName,
		outwriter.CorrelationsCSVName,
		"gap_trend.html",
		"migration_rent.html",
	}
	for _, name := range wantFiles {
		info, err := os.Stat(filepath.Join(cfg.ResultsDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestExecuteRunRecordsResults(t *testing.T) {
	cfg := fixturePipelineConfig(t)

	store, err := resultstore.New(cfg.StoreBackend, cfg.StoreArtifactPath())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, ExecuteRun(cfg, store))

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 10, runs[0].HarmonizedRows)
	assert.Equal(t, 1, runs[0].Rejections)

	harmonized, err := store.HarmonizedRows()
	require.NoError(t, err)
	assert.NotEmpty(t, harmonized)
}

func TestExecuteSourceCheck(t *testing.T) {
	cfg := fixturePipelineConfig(t)

	// Corrupt one header so the check reports a failure.
	writeFixture(t, cfg.DataDir, contract.DefaultRentFile, "wrong,header\n1,2\n")

	out := filepath.Join(t.TempDir(), "checks.txt")
	cfg.OutputFile = out
	require.NoError(t, ExecuteSourceCheck(cfg))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "failed")
	assert.Contains(t, string(content), "1 of 5 sources failed header validation")
}
