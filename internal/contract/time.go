package contract

import (
	"fmt"
	"strconv"
	"strings"
)

// Period is a parsed native period identifier. Quarter is 0 for annual
// observations, 1-4 for quarterly ones.
type Period struct {
	Year    int
	Quarter int
}

// ParsePeriod normalizes a source's native period identifier to a calendar
// year, optionally with a quarter. Accepted forms:
//
//	"2021"              calendar year
//	"FY2021"            fiscal year (mapped to the same calendar year)
//	"2021Q3", "2021-Q3" quarter of a calendar year
//
// The result year is always 4 digits; anything else is an error.
func ParsePeriod(s string) (Period, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if raw == "" {
		return Period{}, fmt.Errorf("empty period")
	}

	// Fiscal years fold into the calendar year sharing their label.
	raw = strings.TrimPrefix(raw, "FY")

	yearPart := raw
	quarter := 0
	if idx := strings.IndexByte(raw, 'Q'); idx >= 0 {
		yearPart = strings.TrimSuffix(raw[:idx], "-")
		q, err := strconv.Atoi(raw[idx+1:])
		if err != nil || q < 1 || q > 4 {
			return Period{}, fmt.Errorf("invalid quarter in period %q", s)
		}
		quarter = q
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return Period{}, fmt.Errorf("invalid year in period %q", s)
	}
	if year < 1000 || year > 9999 {
		return Period{}, fmt.Errorf("year in period %q is not 4 digits", s)
	}

	return Period{Year: year, Quarter: quarter}, nil
}
