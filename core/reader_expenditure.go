package core

import (
	"fmt"
	"strings"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// expenditureHeader is the expected layout of a BLS Consumer Expenditure extract.
var expenditureHeader = []string{"geo", "category", "year", "value", "unit"}

// expenditureMetrics maps the BLS survey categories to canonical metric names.
// Unlisted categories fall back to a slug of the category text.
var expenditureMetrics = map[string]schema.MetricName{
	"total expenditures": schema.MetricExpenditure,
	"food":               "exp_food",
	"housing":            "exp_housing",
	"shelter":            "exp_shelter",
	"transportation":     "exp_transportation",
	"healthcare":         "exp_healthcare",
}

// ExpenditureReader parses a BLS Consumer Expenditure extract. Monthly
// figures are annualized; annual figures pass through unchanged.
type ExpenditureReader struct{}

var _ contract.SourceReader = (*ExpenditureReader)(nil)

// NewExpenditureReader returns a reader for the expenditure extract.
func NewExpenditureReader() *ExpenditureReader { return &ExpenditureReader{} }

// Source returns the source-type tag this reader handles.
func (er *ExpenditureReader) Source() schema.SourceType { return schema.SourceExpenditure }

// Read parses the extract at path.
func (er *ExpenditureReader) Read(path string) ([]schema.RawPoint, error) {
	r, file, err := openSource(path, er.Source(), expenditureHeader)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var points []schema.RawPoint
	err = readRows(r, er.Source(), func(line int, record []string) {
		v, ok, perr := parseValue(record[3])
		if perr != nil {
			contract.LogWarn(fmt.Sprintf("%s: line %d: skipping row", er.Source(), line), perr)
			return
		}
		if !ok {
			return // explicit null, nothing to emit
		}

		switch strings.ToLower(strings.TrimSpace(record[4])) {
		case "", "annual":
			// already annual
		case "monthly":
			v *= 12
		default:
			contract.LogWarn(fmt.Sprintf("%s: line %d: skipping row", er.Source(), line),
				fmt.Errorf("unknown unit %q", record[4]))
			return
		}

		points = append(points, schema.RawPoint{
			Source: er.Source(),
			Line:   line,
			Geo:    record[0],
			Period: record[2],
			Metric: expenditureMetric(record[1]),
			Value:  v,
		})
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// expenditureMetric resolves a survey category to its canonical metric name.
func expenditureMetric(category string) schema.MetricName {
	key := strings.ToLower(strings.TrimSpace(category))
	if m, ok := expenditureMetrics[key]; ok {
		return m
	}
	return schema.MetricName("exp_" + strings.ReplaceAll(key, " ", "_"))
}
