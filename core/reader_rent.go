package core

import (
	"fmt"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// rentHeader is the expected layout of a HUD Fair Market Rent extract, with
// one monthly rent column per bedroom count.
var rentHeader = []string{"area_name", "state", "year", "fmr_0", "fmr_1", "fmr_2", "fmr_3", "fmr_4"}

// RentReader parses a HUD Fair Market Rent extract. The per-bedroom monthly
// rents average into a single annualized gross-rent figure, so HUD rows
// overlap the ACS median_gross_rent metric and go through precedence.
type RentReader struct{}

var _ contract.SourceReader = (*RentReader)(nil)

// NewRentReader returns a reader for the rent extract.
func NewRentReader() *RentReader { return &RentReader{} }

// Source returns the source-type tag this reader handles.
func (rr *RentReader) Source() schema.SourceType { return schema.SourceRent }

// Read parses the extract at path. Rows with no rent figure at all are
// skipped with a warning.
func (rr *RentReader) Read(path string) ([]schema.RawPoint, error) {
	r, file, err := openSource(path, rr.Source(), rentHeader)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var points []schema.RawPoint
	err = readRows(r, rr.Source(), func(line int, record []string) {
		var sum float64
		var count int
		for col := 3; col <= 7; col++ {
			v, ok, perr := parseValue(record[col])
			if perr != nil {
				contract.LogWarn(fmt.Sprintf("%s: line %d: skipping row", rr.Source(), line), perr)
				return
			}
			if ok {
				sum += v
				count++
			}
		}
		if count == 0 {
			contract.LogWarn(fmt.Sprintf("%s: line %d: skipping row", rr.Source(), line),
				fmt.Errorf("no rent figures present"))
			return
		}

		// HUD area names carry no state suffix; attach one so the geography
		// normalizer sees the same shape as ACS metro names.
		geo := record[0]
		if record[1] != "" {
			geo = record[0] + ", " + record[1]
		}

		points = append(points, schema.RawPoint{
			Source: rr.Source(),
			Line:   line,
			Geo:    geo,
			Period: record[2],
			Metric: schema.MetricGrossRent,
			Value:  sum / float64(count) * 12,
		})
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}
