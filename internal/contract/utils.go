package contract

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Confidence label constants.
const (
	OKValue      = "OK"
	LowConfValue = "LowConf"
)

// Color variables for console output.
var (
	OKColor      = color.New(color.FgCyan)               // okColor is informational.
	LowConfColor = color.New(color.FgYellow, color.Bold) // lowConfColor flags thin periods.
)

// GetPlainConfidenceLabel returns the plain text confidence label for a
// harmonized row. This is the core logic used for CSV, JSON, and table printing.
func GetPlainConfidenceLabel(lowConfidence bool) string {
	if lowConfidence {
		return LowConfValue
	}
	return OKValue
}

// GetColorConfidenceLabel returns a colored confidence label for console output.
func GetColorConfidenceLabel(lowConfidence bool) string {
	if lowConfidence {
		return LowConfColor.Sprint(LowConfValue)
	}
	return OKColor.Sprint(OKValue)
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString parses user-facing boolean strings (yes/no/true/false/1/0).
func ParseBoolString(s string) (bool, error) {
	switch s {
	case "yes", "true", "1", "":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes/no/true/false/1/0, got %q", s)
	}
}

// TruncateName truncates a geography name to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and content.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}
