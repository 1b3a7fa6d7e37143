package core

import (
	"fmt"
	"sort"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// Normalizer maps source-native geography and period identifiers onto the
// canonical key space and folds quarterly observations into calendar years.
type Normalizer struct {
	gaz *Gazetteer
}

// NewNormalizer returns a normalizer backed by the given gazetteer.
func NewNormalizer(gaz *Gazetteer) *Normalizer {
	return &Normalizer{gaz: gaz}
}

// seriesKey identifies one annual observation under construction.
type seriesKey struct {
	geoCode string
	year    int
	metric  schema.MetricName
}

// seriesAgg accumulates annual and quarterly observations for one key.
type seriesAgg struct {
	source schema.SourceType
	line   int

	annual    float64
	hasAnnual bool

	quarterSum   float64
	quarterCount int
}

// Normalize resolves every raw point against the gazetteer and the period
// grammar. Unresolvable keys land in the rejection list so data loss stays
// auditable; nothing is silently discarded.
func (n *Normalizer) Normalize(raws []schema.RawPoint) ([]schema.TimeSeriesPoint, []schema.Rejection) {
	groups := make(map[seriesKey]*seriesAgg)
	var order []seriesKey
	var rejections []schema.Rejection

	for _, raw := range raws {
		rec, ok := n.gaz.Resolve(raw.Geo)
		if !ok {
			kerr := &contract.UnresolvedKeyError{
				Kind:   schema.GeoRejection,
				Value:  raw.Geo,
				Source: raw.Source,
				Line:   raw.Line,
			}
			rejections = append(rejections, kerr.Rejection())
			continue
		}

		period, err := contract.ParsePeriod(raw.Period)
		if err != nil {
			kerr := &contract.UnresolvedKeyError{
				Kind:   schema.PeriodRejection,
				Value:  raw.Period,
				Source: raw.Source,
				Line:   raw.Line,
			}
			rejections = append(rejections, kerr.Rejection())
			continue
		}

		key := seriesKey{geoCode: rec.Code, year: period.Year, metric: raw.Metric}
		agg, ok := groups[key]
		if !ok {
			agg = &seriesAgg{source: raw.Source, line: raw.Line}
			groups[key] = agg
			order = append(order, key)
		}

		if period.Quarter == 0 {
			if agg.hasAnnual {
				contract.LogWarn(
					fmt.Sprintf("%s: line %d: keeping first value", raw.Source, raw.Line),
					fmt.Errorf("duplicate annual value for %s %d %s", rec.Code, period.Year, raw.Metric))
				continue
			}
			agg.annual = raw.Value
			agg.hasAnnual = true
		} else {
			agg.quarterSum += raw.Value
			agg.quarterCount++
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].geoCode != order[j].geoCode {
			return order[i].geoCode < order[j].geoCode
		}
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].metric < order[j].metric
	})

	points := make([]schema.TimeSeriesPoint, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		points = append(points, schema.TimeSeriesPoint{
			GeoCode: key.geoCode,
			Period:  key.year,
			Metric:  key.metric,
			Value:   agg.resolve(key.metric),
			Source:  agg.source,
		})
	}
	return points, rejections
}

// resolve produces the annual value for one key. An explicit annual
// observation wins over quarterly ones; quarters aggregate per the metric's
// declared policy.
func (a *seriesAgg) resolve(metric schema.MetricName) float64 {
	if a.hasAnnual {
		return a.annual
	}
	if schema.MetricAggPolicy(metric) == schema.SumAgg {
		return a.quarterSum
	}
	return a.quarterSum / float64(a.quarterCount)
}
