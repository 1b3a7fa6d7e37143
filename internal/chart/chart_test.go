package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

func TestRenderGapTrend(t *testing.T) {
	dir := t.TempDir()
	national := []schema.GapPoint{
		{GeoCode: schema.NationalCode, Period: 2020},
		{GeoCode: schema.NationalCode, Period: 2021, Gap: schema.Float64Ptr(0.02)},
		{GeoCode: schema.NationalCode, Period: 2022, Gap: schema.Float64Ptr(0.03)},
	}

	path := RenderGapTrend(national, dir)
	require.Equal(t, filepath.Join(dir, "gap_trend.html"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "plotly")
}

func TestRenderGapTrendEmptySeries(t *testing.T) {
	// All-null gaps leave nothing to plot.
	national := []schema.GapPoint{{GeoCode: schema.NationalCode, Period: 2020}}
	assert.Empty(t, RenderGapTrend(national, t.TempDir()))
}

func TestRenderMigrationRentScatter(t *testing.T) {
	dir := t.TempDir()
	samples := []schema.CorrelationSample{
		{GeoCode: "12420", Period: 2021, NetInflow: 5000, RentDelta: 1200},
		{GeoCode: "12420", Period: 2022, NetInflow: 9000, RentDelta: 1800},
		{GeoCode: "26420", Period: 2021, NetInflow: -5000, RentDelta: 600},
	}

	path := RenderMigrationRentScatter(samples, dir)
	require.Equal(t, filepath.Join(dir, "migration_rent.html"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRenderAll(t *testing.T) {
	dir := t.TempDir()
	derived := &schema.DerivedResult{
		NationalGaps: []schema.GapPoint{{GeoCode: schema.NationalCode, Period: 2021, Gap: schema.Float64Ptr(0.01)}},
		Samples: []schema.CorrelationSample{
			{GeoCode: "12420", Period: 2021, NetInflow: 100, RentDelta: 50},
		},
	}

	paths := RenderAll(derived, dir)
	require.Len(t, paths, 2)

	// Nothing to plot yields no files rather than empty ones.
	assert.Empty(t, RenderAll(&schema.DerivedResult{}, t.TempDir()))
}
