package core

import (
	"fmt"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// incomeHeader is the expected layout of a Census ACS extract. The same
// layout serves both the state and metro files; only the source tag differs.
var incomeHeader = []string{
	"name", "code", "year",
	"median_household_income", "total_population", "median_gross_rent",
}

// IncomeReader parses a Census ACS extract into raw points. Gross rent is
// reported monthly and is annualized on emit.
type IncomeReader struct {
	source schema.SourceType
}

var _ contract.SourceReader = (*IncomeReader)(nil)

// NewIncomeReader returns a reader for either the state or metro ACS extract.
func NewIncomeReader(source schema.SourceType) *IncomeReader {
	return &IncomeReader{source: source}
}

// Source returns the source-type tag this reader handles.
func (ir *IncomeReader) Source() schema.SourceType { return ir.source }

// Read parses the extract at path. Each input row yields up to three raw
// points (income, population, rent); empty cells stay null rather than
// producing a zero.
func (ir *IncomeReader) Read(path string) ([]schema.RawPoint, error) {
	r, file, err := openSource(path, ir.source, incomeHeader)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	metrics := []struct {
		col      int
		name     schema.MetricName
		toAnnual float64 // multiplier to annual units
	}{
		{3, schema.MetricIncome, 1},
		{4, schema.MetricPopulation, 1},
		{5, schema.MetricGrossRent, 12}, // monthly gross rent
	}

	var points []schema.RawPoint
	err = readRows(r, ir.source, func(line int, record []string) {
		geo := record[1] // prefer the code column when present
		if geo == "" {
			geo = record[0]
		}
		for _, m := range metrics {
			v, ok, perr := parseValue(record[m.col])
			if perr != nil {
				contract.LogWarn(fmt.Sprintf("%s: line %d: skipping %s", ir.source, line, m.name), perr)
				continue
			}
			if !ok {
				continue
			}
			points = append(points, schema.RawPoint{
				Source: ir.source,
				Line:   line,
				Geo:    geo,
				Period: record[2],
				Metric: m.name,
				Value:  v * m.toAnnual,
			})
		}
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}
