package core

import (
	"fmt"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// rowKey identifies one harmonized row.
type rowKey struct {
	geoCode string
	period  int
}

// Harmonize performs the outer join of all normalized points on
// (geo_code, period). Metric conflicts across sources resolve by the
// configured precedence; losing values are logged, never silently dropped.
// Periods with fewer than minGeos contributing geographies are flagged
// low-confidence rather than excluded.
func Harmonize(points []schema.TimeSeriesPoint, gaz *Gazetteer, precedence map[schema.MetricName][]schema.SourceType, minGeos int) *schema.HarmonizedTable {
	rows := make(map[rowKey]*schema.HarmonizedRow)
	var order []rowKey
	metricSet := make(map[schema.MetricName]struct{})

	for _, p := range points {
		rec, ok := gaz.Lookup(p.GeoCode)
		if !ok {
			// Normalized points always carry resolved codes; an unknown code
			// here means the caller bypassed the normalizer.
			contract.LogWarn("harmonize: dropping point", fmt.Errorf("unknown geo code %q", p.GeoCode))
			continue
		}

		key := rowKey{geoCode: p.GeoCode, period: p.Period}
		row, ok := rows[key]
		if !ok {
			row = &schema.HarmonizedRow{
				GeoCode: rec.Code,
				GeoName: rec.Name,
				Level:   rec.Level,
				Period:  p.Period,
				Cells:   make(map[schema.MetricName]schema.Cell),
			}
			rows[key] = row
			order = append(order, key)
		}

		metricSet[p.Metric] = struct{}{}

		existing, taken := row.Cells[p.Metric]
		if !taken {
			row.Cells[p.Metric] = schema.Cell{Value: p.Value, Source: p.Source}
			continue
		}

		// Conflict: same metric for the same row from two sources.
		winner, loser := existing.Source, p.Source
		if sourceRank(p.Metric, p.Source, precedence) < sourceRank(p.Metric, existing.Source, precedence) {
			row.Cells[p.Metric] = schema.Cell{Value: p.Value, Source: p.Source}
			winner, loser = p.Source, existing.Source
		}
		contract.LogWarn(
			fmt.Sprintf("harmonize: %s %d %s: %s wins precedence", rec.Code, p.Period, p.Metric, winner),
			fmt.Errorf("conflicting value from %s discarded", loser))
	}

	// Count distinct geographies per period for the confidence flag.
	periodGeos := make(map[int]map[string]struct{})
	for key := range rows {
		set, ok := periodGeos[key.period]
		if !ok {
			set = make(map[string]struct{})
			periodGeos[key.period] = set
		}
		set[key.geoCode] = struct{}{}
	}

	table := &schema.HarmonizedTable{
		Rows:    make([]schema.HarmonizedRow, 0, len(order)),
		Metrics: schema.SortMetricNames(metricSet),
	}
	for _, key := range order {
		row := rows[key]
		row.LowConfidence = len(periodGeos[key.period]) < minGeos
		table.Rows = append(table.Rows, *row)
	}
	schema.SortRows(table.Rows)

	return table
}

// sourceRank orders sources for one metric: position in the metric's
// configured precedence list, else position in the global source order.
// Lower ranks win.
func sourceRank(metric schema.MetricName, source schema.SourceType, precedence map[schema.MetricName][]schema.SourceType) int {
	if list, ok := precedence[metric]; ok {
		for i, s := range list {
			if s == source {
				return i
			}
		}
	}
	for i, s := range schema.AllSourceTypes {
		if s == source {
			return len(schema.AllSourceTypes) + i
		}
	}
	return 2 * len(schema.AllSourceTypes)
}
