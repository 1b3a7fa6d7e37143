package schema

import (
	"sort"
	"strconv"
)

// SortMetricNames returns metric names in stable sorted order.
func SortMetricNames(set map[MetricName]struct{}) []MetricName {
	out := make([]MetricName, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FormatPeriod renders a normalized period as its 4-digit calendar year.
func FormatPeriod(period int) string {
	return strconv.Itoa(period)
}

// Float64Ptr returns a pointer to v. Convenience for nullable fields.
func Float64Ptr(v float64) *float64 {
	return &v
}

// SortRows orders harmonized rows by geography code, then period.
func SortRows(rows []HarmonizedRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].GeoCode != rows[j].GeoCode {
			return rows[i].GeoCode < rows[j].GeoCode
		}
		return rows[i].Period < rows[j].Period
	})
}
