package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

func TestHarmonizeOuterJoinKeepsNulls(t *testing.T) {
	gaz := loadFixtureGazetteer(t)

	points := []schema.TimeSeriesPoint{
		{GeoCode: "48", Period: 2021, Metric: schema.MetricIncome, Value: 67321, Source: schema.SourceIncomeStates},
		{GeoCode: "06", Period: 2021, Metric: schema.MetricExpenditure, Value: 70000, Source: schema.SourceExpenditure},
	}

	table := Harmonize(points, gaz, schema.DefaultPrecedence(), 1)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []schema.MetricName{schema.MetricIncome, schema.MetricExpenditure}, table.Metrics)

	ca, tx := table.Rows[0], table.Rows[1]
	assert.Equal(t, "California", ca.GeoName)
	assert.Nil(t, ca.Value(schema.MetricIncome), "missing metric stays null")
	require.NotNil(t, ca.Value(schema.MetricExpenditure))

	assert.Equal(t, schema.StateLevel, tx.Level)
	require.NotNil(t, tx.Value(schema.MetricIncome))
	assert.Equal(t, 67321.0, *tx.Value(schema.MetricIncome))
	assert.Nil(t, tx.Value(schema.MetricExpenditure))
}

func TestHarmonizePrecedence(t *testing.T) {
	gaz := loadFixtureGazetteer(t)

	points := []schema.TimeSeriesPoint{
		{GeoCode: "12420", Period: 2021, Metric: schema.MetricGrossRent, Value: 20000, Source: schema.SourceRent},
		{GeoCode: "12420", Period: 2021, Metric: schema.MetricGrossRent, Value: 18000, Source: schema.SourceIncomeMetros},
	}

	// Default order prefers the observed ACS rent over the HUD target.
	table := Harmonize(points, gaz, schema.DefaultPrecedence(), 1)
	require.Len(t, table.Rows, 1)
	cell := table.Rows[0].Cells[schema.MetricGrossRent]
	assert.Equal(t, 18000.0, cell.Value)
	assert.Equal(t, schema.SourceIncomeMetros, cell.Source)

	// An explicit override flips the winner.
	override := map[schema.MetricName][]schema.SourceType{
		schema.MetricGrossRent: {schema.SourceRent, schema.SourceIncomeMetros},
	}
	table = Harmonize(points, gaz, override, 1)
	cell = table.Rows[0].Cells[schema.MetricGrossRent]
	assert.Equal(t, 20000.0, cell.Value)
	assert.Equal(t, schema.SourceRent, cell.Source)
}

func TestHarmonizePrecedenceOrderIndependent(t *testing.T) {
	gaz := loadFixtureGazetteer(t)

	forward := []schema.TimeSeriesPoint{
		{GeoCode: "12420", Period: 2021, Metric: schema.MetricGrossRent, Value: 20000, Source: schema.SourceRent},
		{GeoCode: "12420", Period: 2021, Metric: schema.MetricGrossRent, Value: 18000, Source: schema.SourceIncomeMetros},
	}
	reversed := []schema.TimeSeriesPoint{forward[1], forward[0]}

	a := Harmonize(forward, gaz, schema.DefaultPrecedence(), 1)
	b := Harmonize(reversed, gaz, schema.DefaultPrecedence(), 1)
	assert.Equal(t, a.Rows[0].Cells, b.Rows[0].Cells)
}

func TestHarmonizeLowConfidenceFlag(t *testing.T) {
	gaz := loadFixtureGazetteer(t)

	points := []schema.TimeSeriesPoint{
		{GeoCode: "48", Period: 2020, Metric: schema.MetricIncome, Value: 1, Source: schema.SourceIncomeStates},
		{GeoCode: "06", Period: 2020, Metric: schema.MetricIncome, Value: 2, Source: schema.SourceIncomeStates},
		{GeoCode: "48", Period: 2021, Metric: schema.MetricIncome, Value: 3, Source: schema.SourceIncomeStates},
	}

	table := Harmonize(points, gaz, schema.DefaultPrecedence(), 2)
	require.Len(t, table.Rows, 3)

	for _, row := range table.Rows {
		if row.Period == 2020 {
			assert.False(t, row.LowConfidence, "two geographies meet the threshold")
		} else {
			assert.True(t, row.LowConfidence, "2021 has a single geography")
		}
	}
}

func TestHarmonizeDropsUnknownCodes(t *testing.T) {
	gaz := loadFixtureGazetteer(t)

	points := []schema.TimeSeriesPoint{
		{GeoCode: "99999", Period: 2021, Metric: schema.MetricIncome, Value: 1, Source: schema.SourceIncomeStates},
	}

	table := Harmonize(points, gaz, schema.DefaultPrecedence(), 1)
	assert.Empty(t, table.Rows)
}
