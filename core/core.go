// Package core implements the costgap pipeline: source readers, geography
// and period normalization, the harmonizing outer join, and the derived
// metric calculations.
package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// openSource opens a delimited source file and verifies its header schema.
// A header mismatch yields a *contract.DataFormatError, which is fatal for
// the file but not for the run.
func openSource(path string, source schema.SourceType, expected []string) (*csv.Reader, *os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s input: %w", source, err)
	}

	r := csv.NewReader(file)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		_ = file.Close()
		if err == io.EOF {
			return nil, nil, &contract.DataFormatError{Source: source, Path: path, Expected: expected, Got: nil}
		}
		return nil, nil, fmt.Errorf("cannot read %s header: %w", source, err)
	}

	if !headerMatches(header, expected) {
		_ = file.Close()
		return nil, nil, &contract.DataFormatError{Source: source, Path: path, Expected: expected, Got: header}
	}

	return r, file, nil
}

// headerMatches compares a header row against the expected layout,
// ignoring case and surrounding whitespace.
func headerMatches(got, expected []string) bool {
	if len(got) != len(expected) {
		return false
	}
	for i := range got {
		if !strings.EqualFold(strings.TrimSpace(got[i]), expected[i]) {
			return false
		}
	}
	return true
}

// readRows iterates the remaining records of an open source file, reporting
// each with its 1-based line number. Records with the wrong field count are
// skipped with a warning rather than aborting the file.
func readRows(r *csv.Reader, source schema.SourceType, fn func(line int, record []string)) error {
	line := 1 // header consumed
	for {
		line++
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				contract.LogWarn(fmt.Sprintf("%s: skipping malformed line %d", source, line), err)
				continue
			}
			return fmt.Errorf("cannot read %s records: %w", source, err)
		}
		fn(line, record)
	}
}

// parseValue parses one numeric cell. Empty cells are valid explicit nulls.
func parseValue(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid numeric value %q", s)
	}
	return v, true, nil
}
