package resultstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

func newTestStore(t *testing.T) contract.ResultStore {
	t.Helper()
	store, err := New(schema.SQLiteBackend, filepath.Join(t.TempDir(), "costgap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func fixtureTable() *schema.HarmonizedTable {
	return &schema.HarmonizedTable{
		Metrics: []schema.MetricName{schema.MetricIncome, schema.MetricGrossRent},
		Rows: []schema.HarmonizedRow{
			{
				GeoCode: "48", GeoName: "Texas", Level: schema.StateLevel, Period: 2021,
				Cells: map[schema.MetricName]schema.Cell{
					schema.MetricIncome:    {Value: 67321, Source: schema.SourceIncomeStates},
					schema.MetricGrossRent: {Value: 13200, Source: schema.SourceIncomeStates},
				},
			},
			{
				GeoCode: "06", GeoName: "California", Level: schema.StateLevel, Period: 2021,
				Cells: map[schema.MetricName]schema.Cell{
					schema.MetricIncome: {Value: 84097, Source: schema.SourceIncomeStates},
				},
				LowConfidence: true,
			},
		},
	}
}

func fixtureDerived() *schema.DerivedResult {
	return &schema.DerivedResult{
		Gaps: []schema.GapPoint{
			{GeoCode: "48", Period: 2021, Gap: schema.Float64Ptr(0.03), IncomeGrowth: schema.Float64Ptr(0.02), ExpenseGrowth: schema.Float64Ptr(0.05)},
			{GeoCode: "48", Period: 2020},
		},
		NationalGaps: []schema.GapPoint{
			{GeoCode: schema.NationalCode, Period: 2021, Gap: schema.Float64Ptr(0.03)},
		},
		Correlations: []schema.CorrelationResult{
			{GeoCode: "12420", Samples: 6, Value: schema.Float64Ptr(0.84)},
			{GeoCode: "26420", Samples: 2, Insufficient: true},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	runID, err := store.BeginRun(map[string]any{"min_sample": 5})
	require.NoError(t, err)
	assert.Positive(t, runID)

	require.NoError(t, store.RecordHarmonized(runID, fixtureTable()))
	require.NoError(t, store.RecordDerived(runID, fixtureDerived()))
	require.NoError(t, store.EndRun(runID, 2, 1))

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.NotEmpty(t, runs[0].StartTime)
	assert.NotEmpty(t, runs[0].EndTime)
	assert.Equal(t, 2, runs[0].HarmonizedRows)
	assert.Equal(t, 1, runs[0].Rejections)
	assert.Equal(t, float64(5), runs[0].ConfigParams["min_sample"])

	harmonized, err := store.HarmonizedRows()
	require.NoError(t, err)
	require.Len(t, harmonized, 3, "one record per non-null cell")
	assert.Equal(t, "06", harmonized[0].GeoCode)
	assert.True(t, harmonized[0].LowConfidence)
	assert.Equal(t, "median_gross_rent", harmonized[1].Metric)
	assert.Equal(t, 13200.0, harmonized[1].Value)
	assert.Equal(t, 67321.0, harmonized[2].Value)
	assert.Equal(t, "acs_states", harmonized[2].Source)

	gaps, err := store.GapRows()
	require.NoError(t, err)
	require.Len(t, gaps, 3)
	assert.Nil(t, gaps[0].Gap, "first-period nulls survive the round trip")
	require.NotNil(t, gaps[1].Gap)
	assert.Equal(t, 0.03, *gaps[1].Gap)
	assert.Equal(t, schema.NationalCode, gaps[2].GeoCode)

	correlations, err := store.CorrelationRows()
	require.NoError(t, err)
	require.Len(t, correlations, 2)
	require.NotNil(t, correlations[0].Value)
	assert.Equal(t, 0.84, *correlations[0].Value)
	assert.True(t, correlations[1].Insufficient)
	assert.Nil(t, correlations[1].Value)
}

func TestStoreRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	first, err := store.BeginRun(nil)
	require.NoError(t, err)
	second, err := store.BeginRun(nil)
	require.NoError(t, err)

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].RunID)
	assert.Equal(t, first, runs[1].RunID)
}

func TestStoreStatus(t *testing.T) {
	store := newTestStore(t)

	runID, err := store.BeginRun(nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordHarmonized(runID, fixtureTable()))
	require.NoError(t, store.RecordDerived(runID, fixtureDerived()))

	status, err := store.Status()
	require.NoError(t, err)
	assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(1), status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.NotEmpty(t, status.LastRun)
	assert.Equal(t, int64(3), status.TableSizes[harmonizedTable])
	assert.Equal(t, int64(3), status.TableSizes[gapsTable])
	assert.Equal(t, int64(2), status.TableSizes[correlationsTable])
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)

	runID, err := store.BeginRun(nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordHarmonized(runID, fixtureTable()))

	require.NoError(t, store.Clear())

	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)

	harmonized, err := store.HarmonizedRows()
	require.NoError(t, err)
	assert.Empty(t, harmonized)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "costgap.db")

	store, err := New(schema.SQLiteBackend, path)
	require.NoError(t, err)
	runID, err := store.BeginRun(nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(runID, 0, 0))
	require.NoError(t, store.Close())

	reopened, err := New(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	runs, err := reopened.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
}

func TestNoneBackendIsNoOp(t *testing.T) {
	store, err := New(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(nil)
	require.NoError(t, err)
	assert.Zero(t, runID)

	require.NoError(t, store.RecordHarmonized(runID, fixtureTable()))
	require.NoError(t, store.RecordDerived(runID, fixtureDerived()))
	require.NoError(t, store.EndRun(runID, 0, 0))

	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.Status()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New(schema.StoreBackend("postgres"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store backend")
}
