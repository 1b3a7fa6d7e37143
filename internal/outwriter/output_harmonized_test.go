package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

func fixtureHarmonizedTable() *schema.HarmonizedTable {
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
				GeoCode: "12420", GeoName: "Austin-Round Rock-Georgetown, TX", Level: schema.MetroLevel, Period: 2021,
				Cells: map[schema.MetricName]schema.Cell{
					schema.MetricGrossRent: {Value: 18000, Source: schema.SourceRent},
				},
				LowConfidence: true,
			},
		},
	}
}

func plainConfig() *contract.Config {
	return &contract.Config{Output: schema.TextOut, Precision: 2, Width: 120}
}

func TestWriteHarmonizedTable(t *testing.T) {
	var buf bytes.Buffer
	_, fmtNullable := createFormatters(2)

	err := writeHarmonizedTable(fixtureHarmonizedTable(), plainConfig(), fmtNullable, 5*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Texas")
	assert.Contains(t, output, "67321.00")
	assert.Contains(t, output, contract.OKValue)
	assert.Contains(t, output, contract.LowConfValue)
	assert.Contains(t, output, "Showing 2 harmonized rows across 2 metrics (1 low-confidence)")
	assert.Contains(t, output, "Harmonization completed in 5ms")
}

func TestWriteCSVResultsForHarmonized(t *testing.T) {
	var buf bytes.Buffer
	_, fmtNullable := createFormatters(2)

	w := csv.NewWriter(&buf)
	require.NoError(t, writeCSVResultsForHarmonized(w, fixtureHarmonizedTable(), fmtNullable))
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "geo_code,geo_name,level,period,median_household_income,median_gross_rent,confidence", lines[0])
	assert.Equal(t, "48,Texas,state,2021,67321.00,13200.00,OK", lines[1])

	// Explicit null renders as an empty field, not a zero.
	assert.Equal(t, `12420,"Austin-Round Rock-Georgetown, TX",metro,2021,,18000.00,LowConf`, lines[2])
}

func TestWriteJSONResultsForHarmonized(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONResultsForHarmonized(&buf, fixtureHarmonizedTable()))

	var decoded struct {
		Metrics []string `json:"metrics"`
		Rows    []struct {
			GeoCode    string                     `json:"geo_code"`
			Confidence string                     `json:"confidence"`
			Cells      map[string]json.RawMessage `json:"cells"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, []string{"median_household_income", "median_gross_rent"}, decoded.Metrics)
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, "48", decoded.Rows[0].GeoCode)
	assert.Equal(t, contract.OKValue, decoded.Rows[0].Confidence)
	assert.Equal(t, contract.LowConfValue, decoded.Rows[1].Confidence)

	// Null metrics are simply absent from the cell map.
	assert.Contains(t, decoded.Rows[0].Cells, "median_household_income")
	assert.NotContains(t, decoded.Rows[1].Cells, "median_household_income")
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		width   int
		metrics int
		want    int
	}{
		{200, 2, 45},  // wide terminal caps out
		{70, 2, 15},   // narrow terminal floors
		{100, 2, 42},  // 100 - 30 - 28
		{100, 6, 15},  // many metric columns squeeze the name
	}

	for _, tt := range tests {
		cfg := &contract.Config{Width: tt.width}
		assert.Equal(t, tt.want, getMaxTableNameWidth(cfg, tt.metrics), "width=%d metrics=%d", tt.width, tt.metrics)
	}
}
