package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// fixtureDataDir creates a data directory containing every default input
// file so that path resolution succeeds.
func fixtureDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	names := []string{
		DefaultGazetteerFile,
		DefaultIncomeStatesFile,
		DefaultIncomeMetrosFile,
		DefaultExpenditureFile,
		DefaultRentFile,
		DefaultMigrationFile,
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stub\n"), 0o644))
	}
	return dir
}

func validRawInput(dataDir string) *ConfigRawInput {
	return &ConfigRawInput{
		DataDirStr:   dataDir,
		ResultsDir:   "results",
		MinSample:    DefaultMinSample,
		MinGeos:      DefaultMinGeos,
		Granularity:  YearGranularity,
		Output:       "text",
		Precision:    DefaultPrecision,
		Color:        "no",
		StoreBackend: "sqlite",
	}
}

func TestProcessAndValidateHappyPath(t *testing.T) {
	dir := fixtureDataDir(t)
	cfg := &Config{}

	err := ProcessAndValidate(cfg, validRawInput(dir))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultMinSample, cfg.MinSample)
	assert.Equal(t, filepath.Join(dir, DefaultGazetteerFile), cfg.GazetteerPath)
	assert.Len(t, cfg.SourceFiles, 5)
	assert.Equal(t, filepath.Join(dir, DefaultRentFile), cfg.SourceFiles[schema.SourceRent])
	assert.False(t, cfg.UseColors)

	// Default precedence covers the rent overlap out of the box.
	assert.Equal(t, []schema.SourceType{
		schema.SourceIncomeMetros, schema.SourceIncomeStates, schema.SourceRent,
	}, cfg.Precedence[schema.MetricGrossRent])
}

func TestProcessAndValidateThresholds(t *testing.T) {
	dir := fixtureDataDir(t)

	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
		errMsg string
	}{
		{
			name:   "min-sample too small",
			mutate: func(in *ConfigRawInput) { in.MinSample = 1 },
			errMsg: "min-sample must be at least 2",
		},
		{
			name:   "min-geos too small",
			mutate: func(in *ConfigRawInput) { in.MinGeos = 0 },
			errMsg: "min-geos must be at least 1",
		},
		{
			name:   "unsupported granularity",
			mutate: func(in *ConfigRawInput) { in.Granularity = "quarter" },
			errMsg: "invalid granularity",
		},
		{
			name:   "precision out of range",
			mutate: func(in *ConfigRawInput) { in.Precision = 11 },
			errMsg: "precision must be between",
		},
		{
			name:   "unknown output mode",
			mutate: func(in *ConfigRawInput) { in.Output = "xml" },
			errMsg: "invalid output format",
		},
		{
			name:   "unknown store backend",
			mutate: func(in *ConfigRawInput) { in.StoreBackend = "postgres" },
			errMsg: "invalid store backend",
		},
		{
			name:   "bad color flag",
			mutate: func(in *ConfigRawInput) { in.Color = "maybe" },
			errMsg: "invalid --color value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput(dir)
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProcessPrecedenceOverrides(t *testing.T) {
	dir := fixtureDataDir(t)
	input := validRawInput(dir)
	input.Precedence = "median_gross_rent:hud_fmr>acs_metros, total_population:acs_states>acs_metros"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []schema.SourceType{schema.SourceRent, schema.SourceIncomeMetros},
		cfg.Precedence[schema.MetricGrossRent])
	assert.Equal(t, []schema.SourceType{schema.SourceIncomeStates, schema.SourceIncomeMetros},
		cfg.Precedence[schema.MetricPopulation])
}

func TestProcessPrecedenceRejectsMalformedEntries(t *testing.T) {
	dir := fixtureDataDir(t)

	tests := []struct {
		precedence string
		errMsg     string
	}{
		{"median_gross_rent", "expected metric:src1>src2"},
		{"median_gross_rent:hud_fmr", "need at least two sources"},
		{"median_gross_rent:hud_fmr>zillow", "unknown source"},
	}

	for _, tt := range tests {
		input := validRawInput(dir)
		input.Precedence = tt.precedence
		err := ProcessAndValidate(&Config{}, input)
		require.Error(t, err, tt.precedence)
		assert.Contains(t, err.Error(), tt.errMsg)
	}
}

func TestResolveSourcePathsMissingFile(t *testing.T) {
	dir := fixtureDataDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, DefaultMigrationFile)))

	err := ProcessAndValidate(&Config{}, validRawInput(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coa input file")
	assert.Contains(t, err.Error(), "is missing")
}

func TestResolveSourcePathsBadDataDir(t *testing.T) {
	err := ProcessAndValidate(&Config{}, validRawInput(filepath.Join(t.TempDir(), "nope")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accessible")
}

func TestStoreArtifactPath(t *testing.T) {
	cfg := &Config{ResultsDir: "results"}
	assert.Equal(t, filepath.Join("results", DefaultStoreFile), cfg.StoreArtifactPath())

	cfg.StorePath = "/tmp/custom.db"
	assert.Equal(t, "/tmp/custom.db", cfg.StoreArtifactPath())
}
