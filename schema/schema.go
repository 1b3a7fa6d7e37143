// Package schema has configs, models and shared constants for all parts of costgap.
package schema

// GeoRecord is one canonical geography entity from the gazetteer.
// Records are immutable reference data, loaded once per run.
type GeoRecord struct {
	Code    string   // Canonical region identifier (state FIPS or metro CBSA code)
	Name    string   // Display name, e.g. "Austin-Round Rock-Georgetown"
	Level   GeoLevel // Geography level: state or metro
	Aliases []string // Alternate spellings accepted during normalization
}

// RawPoint is one observation as parsed from a source file, before the
// geography and period identifiers have been normalized. Values are already
// in annual units; unit conversion is the reader's job.
type RawPoint struct {
	Source SourceType // Which source file produced this point
	Line   int        // 1-based line number in the source file, for audit trails
	Geo    string     // Native geography identifier (free-text name, abbreviation or code)
	Period string     // Native period identifier ("2021", "FY2021", "2021Q3")
	Metric MetricName // Canonical metric name
	Value  float64    // Observed value, annualized
}

// TimeSeriesPoint is one observed value for one metric, one place, one
// calendar year. Unique per (GeoCode, Period, Metric) within a source.
type TimeSeriesPoint struct {
	GeoCode string     // Canonical geography code
	Period  int        // 4-digit calendar year
	Metric  MetricName // Canonical metric name
	Value   float64    // Observed value, annualized
	Source  SourceType // Source that contributed the value
}

// Cell is one metric value in the harmonized table, tagged with the source
// that won precedence for it. Absence of a cell is an explicit null.
type Cell struct {
	Value  float64    `json:"value"`
	Source SourceType `json:"source"`
}

// HarmonizedRow is one (geography, period) row of the harmonized table.
type HarmonizedRow struct {
	GeoCode string              `json:"geo_code"`
	GeoName string              `json:"geo_name"`
	Level   GeoLevel            `json:"level"`
	Period  int                 `json:"period"`
	Cells   map[MetricName]Cell `json:"cells"`

	// LowConfidence marks rows whose period has fewer contributing
	// geographies than the configured minimum. Flagged, never excluded.
	LowConfidence bool `json:"low_confidence"`
}

// HarmonizedTable is the outer join of all sources, keyed by (GeoCode, Period).
// Rows are sorted by geography code, then period. Metrics is the sorted union
// of all metric names present anywhere in the table.
type HarmonizedTable struct {
	Rows    []HarmonizedRow `json:"rows"`
	Metrics []MetricName    `json:"metrics"`
}

// Value returns the cell value for a metric, or nil when the cell is null.
func (r *HarmonizedRow) Value(metric MetricName) *float64 {
	if c, ok := r.Cells[metric]; ok {
		v := c.Value
		return &v
	}
	return nil
}

// Rejection is one input row that could not be normalized. The rejection
// report makes data loss auditable instead of silent.
type Rejection struct {
	Source SourceType    `json:"source"`
	Line   int           `json:"line"`
	Kind   RejectionKind `json:"kind"`
	Value  string        `json:"value"`
	Reason string        `json:"reason"`
}
