package contract

import (
	"fmt"
	"strings"

	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// DataFormatError reports a source file whose header schema does not match
// the expected layout for its declared source type. It is fatal for that
// file only; the run continues with the remaining sources.
type DataFormatError struct {
	Source   schema.SourceType
	Path     string
	Expected []string
	Got      []string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%s: header schema mismatch in %s: expected [%s], got [%s]",
		e.Source, e.Path, strings.Join(e.Expected, ","), strings.Join(e.Got, ","))
}

// UnresolvedKeyError reports a geography or period value that could not be
// normalized. The contributing row is excluded and the failure is recorded
// in the rejection report; the run continues.
type UnresolvedKeyError struct {
	Kind   schema.RejectionKind
	Value  string
	Source schema.SourceType
	Line   int
}

func (e *UnresolvedKeyError) Error() string {
	return fmt.Sprintf("%s: line %d: cannot resolve %s %q", e.Source, e.Line, e.Kind, e.Value)
}

// Rejection converts the error into its rejection-report entry.
func (e *UnresolvedKeyError) Rejection() schema.Rejection {
	return schema.Rejection{
		Source: e.Source,
		Line:   e.Line,
		Kind:   e.Kind,
		Value:  e.Value,
		Reason: fmt.Sprintf("cannot resolve %s", e.Kind),
	}
}
