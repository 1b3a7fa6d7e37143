package core

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// Derive computes the gap metrics and migration/rent correlation statistics
// from a harmonized table. Growth rates for a period require the prior
// period for the same geography; when it is absent the metric is null,
// never zero. Correlations with fewer than minSample pairs are marked
// insufficient instead of returning a value.
func Derive(t *schema.HarmonizedTable, minSample int) *schema.DerivedResult {
	byGeo := indexRows(t)

	result := &schema.DerivedResult{}
	for _, geo := range sortedGeos(byGeo) {
		series := byGeo[geo]
		result.Gaps = append(result.Gaps, gapSeries(geo, series)...)
		result.Samples = append(result.Samples, correlationSamples(geo, series)...)
	}

	result.NationalGaps = nationalGapSeries(result.Gaps)
	result.Correlations = correlations(result.Samples, minSample)

	return result
}

// indexRows arranges table rows per geography, keyed by period.
func indexRows(t *schema.HarmonizedTable) map[string]map[int]*schema.HarmonizedRow {
	byGeo := make(map[string]map[int]*schema.HarmonizedRow)
	for i := range t.Rows {
		row := &t.Rows[i]
		periods, ok := byGeo[row.GeoCode]
		if !ok {
			periods = make(map[int]*schema.HarmonizedRow)
			byGeo[row.GeoCode] = periods
		}
		periods[row.Period] = row
	}
	return byGeo
}

func sortedGeos(byGeo map[string]map[int]*schema.HarmonizedRow) []string {
	geos := make([]string, 0, len(byGeo))
	for g := range byGeo {
		geos = append(geos, g)
	}
	sort.Strings(geos)
	return geos
}

func sortedPeriods(series map[int]*schema.HarmonizedRow) []int {
	periods := make([]int, 0, len(series))
	for p := range series {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	return periods
}

// growthRate returns cur/prev - 1, or nil when either value is null or the
// base is zero.
func growthRate(prev, cur *float64) *float64 {
	if prev == nil || cur == nil || *prev == 0 {
		return nil
	}
	return schema.Float64Ptr(*cur / *prev - 1)
}

// gapSeries computes per-period gap points for one geography. The first
// period of the series always yields null growth rates.
func gapSeries(geo string, series map[int]*schema.HarmonizedRow) []schema.GapPoint {
	var points []schema.GapPoint
	for _, period := range sortedPeriods(series) {
		row := series[period]
		prev := series[period-1]

		point := schema.GapPoint{GeoCode: geo, Period: period}
		if income, rent := row.Value(schema.MetricIncome), row.Value(schema.MetricGrossRent); income != nil && rent != nil && *income != 0 {
			point.RentToIncome = schema.Float64Ptr(*rent / *income)
		}
		if prev != nil {
			point.IncomeGrowth = growthRate(prev.Value(schema.MetricIncome), row.Value(schema.MetricIncome))
			point.ExpenseGrowth = growthRate(prev.Value(schema.MetricExpenditure), row.Value(schema.MetricExpenditure))
		}
		if point.IncomeGrowth != nil && point.ExpenseGrowth != nil {
			point.Gap = schema.Float64Ptr(*point.ExpenseGrowth - *point.IncomeGrowth)
		}
		points = append(points, point)
	}
	return points
}

// correlationSamples pairs net in-migration with the year-over-year rent
// delta for one geography. A sample exists only when both sides do.
func correlationSamples(geo string, series map[int]*schema.HarmonizedRow) []schema.CorrelationSample {
	var samples []schema.CorrelationSample
	for _, period := range sortedPeriods(series) {
		row := series[period]
		prev := series[period-1]
		if prev == nil {
			continue
		}

		net := netInflow(row)
		rentCur := row.Value(schema.MetricGrossRent)
		rentPrev := prev.Value(schema.MetricGrossRent)
		if net == nil || rentCur == nil || rentPrev == nil {
			continue
		}

		samples = append(samples, schema.CorrelationSample{
			GeoCode:   geo,
			Period:    period,
			NetInflow: *net,
			RentDelta: *rentCur - *rentPrev,
		})
	}
	return samples
}

// netInflow is inflow minus outflow. A geography that only appears on one
// side of the flow table still has a defined net; a geography with no
// migration data at all has a null one.
func netInflow(row *schema.HarmonizedRow) *float64 {
	in := row.Value(schema.MetricInflow)
	out := row.Value(schema.MetricOutflow)
	if in == nil && out == nil {
		return nil
	}
	var net float64
	if in != nil {
		net += *in
	}
	if out != nil {
		net -= *out
	}
	return &net
}

// nationalGapSeries averages the per-geography gaps per period. Periods
// where no geography has a computable gap stay null.
func nationalGapSeries(gaps []schema.GapPoint) []schema.GapPoint {
	byPeriod := make(map[int][]float64)
	var periods []int
	for _, g := range gaps {
		if _, seen := byPeriod[g.Period]; !seen {
			periods = append(periods, g.Period)
		}
		if g.Gap != nil {
			byPeriod[g.Period] = append(byPeriod[g.Period], *g.Gap)
		} else if _, ok := byPeriod[g.Period]; !ok {
			byPeriod[g.Period] = nil
		}
	}
	sort.Ints(periods)

	national := make([]schema.GapPoint, 0, len(periods))
	for _, period := range periods {
		point := schema.GapPoint{GeoCode: schema.NationalCode, Period: period}
		if values := byPeriod[period]; len(values) > 0 {
			point.Gap = schema.Float64Ptr(stat.Mean(values, nil))
		}
		national = append(national, point)
	}
	return national
}

// correlations computes the per-geography Pearson correlations plus the
// nationally pooled one. Below minSample, or when the correlation is
// undefined (zero variance), the result is marked insufficient.
func correlations(samples []schema.CorrelationSample, minSample int) []schema.CorrelationResult {
	byGeo := make(map[string][]schema.CorrelationSample)
	var geos []string
	for _, s := range samples {
		if _, seen := byGeo[s.GeoCode]; !seen {
			geos = append(geos, s.GeoCode)
		}
		byGeo[s.GeoCode] = append(byGeo[s.GeoCode], s)
	}
	sort.Strings(geos)

	var results []schema.CorrelationResult
	for _, geo := range geos {
		results = append(results, correlate(geo, byGeo[geo], minSample))
	}
	if len(samples) > 0 {
		results = append(results, correlate(schema.NationalCode, samples, minSample))
	}
	return results
}

// correlate reduces one sample set to a correlation result.
func correlate(geo string, samples []schema.CorrelationSample, minSample int) schema.CorrelationResult {
	result := schema.CorrelationResult{GeoCode: geo, Samples: len(samples)}
	if len(samples) < minSample {
		result.Insufficient = true
		return result
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.NetInflow
		ys[i] = s.RentDelta
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		// Zero variance on one side leaves Pearson undefined.
		result.Insufficient = true
		return result
	}
	result.Value = schema.Float64Ptr(r)
	return result
}
