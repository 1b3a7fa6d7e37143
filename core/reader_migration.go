package core

import (
	"fmt"
	"sort"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// migrationHeader is the expected layout of a change-of-address extract:
// one row per (origin, destination, year) flow.
var migrationHeader = []string{"year", "origin_metro", "destination_metro", "num_migrants"}

// MigrationReader parses a change-of-address extract and folds the per-flow
// rows into per-geography inflow and outflow totals per period.
type MigrationReader struct{}

var _ contract.SourceReader = (*MigrationReader)(nil)

// NewMigrationReader returns a reader for the migration extract.
func NewMigrationReader() *MigrationReader { return &MigrationReader{} }

// Source returns the source-type tag this reader handles.
func (mr *MigrationReader) Source() schema.SourceType { return schema.SourceMigration }

// flowKey accumulates migrant counts for one native geography and period.
type flowKey struct {
	geo    string
	period string
}

// Read parses the extract at path. Output points carry the line number of
// the first row that contributed to each total, for the rejection report.
func (mr *MigrationReader) Read(path string) ([]schema.RawPoint, error) {
	r, file, err := openSource(path, mr.Source(), migrationHeader)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	inflow := make(map[flowKey]*schema.RawPoint)
	outflow := make(map[flowKey]*schema.RawPoint)

	accumulate := func(m map[flowKey]*schema.RawPoint, key flowKey, metric schema.MetricName, line int, v float64) {
		if p, ok := m[key]; ok {
			p.Value += v
			return
		}
		m[key] = &schema.RawPoint{
			Source: mr.Source(),
			Line:   line,
			Geo:    key.geo,
			Period: key.period,
			Metric: metric,
			Value:  v,
		}
	}

	err = readRows(r, mr.Source(), func(line int, record []string) {
		v, ok, perr := parseValue(record[3])
		if perr != nil || !ok {
			if perr == nil {
				perr = fmt.Errorf("missing migrant count")
			}
			contract.LogWarn(fmt.Sprintf("%s: line %d: skipping row", mr.Source(), line), perr)
			return
		}
		accumulate(outflow, flowKey{geo: record[1], period: record[0]}, schema.MetricOutflow, line, v)
		accumulate(inflow, flowKey{geo: record[2], period: record[0]}, schema.MetricInflow, line, v)
	})
	if err != nil {
		return nil, err
	}

	points := make([]schema.RawPoint, 0, len(inflow)+len(outflow))
	for _, p := range inflow {
		points = append(points, *p)
	}
	for _, p := range outflow {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Geo != points[j].Geo {
			return points[i].Geo < points[j].Geo
		}
		if points[i].Period != points[j].Period {
			return points[i].Period < points[j].Period
		}
		return points[i].Metric < points[j].Metric
	})
	return points, nil
}
