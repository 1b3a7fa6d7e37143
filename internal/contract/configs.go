package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mounishallu05/income-expense-gap-analysis/schema"
)

// Default values for configuration.
const (
	DefaultMinSample  = 5 // Minimum (net inflow, rent delta) pairs before a correlation is reported
	DefaultMinGeos    = 3 // Minimum geographies per period before a period is flagged low-confidence
	DefaultPrecision  = 4
	MaxPrecision      = 10
	DefaultResultsDir = "results"

	// YearGranularity is the only supported target period unit. Quarters and
	// fiscal years fold into calendar years during normalization.
	YearGranularity = "year"
)

// Default source file names within the data directory. They mirror the
// extract names produced by the acquisition step.
const (
	DefaultGazetteerFile    = "gazetteer.csv"
	DefaultIncomeStatesFile = "census_states_acs.csv"
	DefaultIncomeMetrosFile = "census_metros_acs.csv"
	DefaultExpenditureFile  = "bls_consumer_expenditure.csv"
	DefaultRentFile         = "hud_fair_market_rent.csv"
	DefaultMigrationFile    = "change_of_address.csv"
)

// DefaultStoreFile is the SQLite results artifact name within the results directory.
const DefaultStoreFile = "costgap.db"

// Config holds the runtime configuration for a pipeline run.
// This struct remains the "final, validated" config.
type Config struct {
	DataDir    string
	ResultsDir string

	GazetteerPath string
	SourceFiles   map[schema.SourceType]string

	Precedence map[schema.MetricName][]schema.SourceType
	MinSample  int
	MinGeos    int

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	StoreBackend schema.StoreBackend
	StorePath    string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataDirStr string

	ResultsDir string `mapstructure:"results-dir"`

	GazetteerFile    string `mapstructure:"gazetteer-file"`
	IncomeStatesFile string `mapstructure:"income-states-file"`
	IncomeMetrosFile string `mapstructure:"income-metros-file"`
	ExpenditureFile  string `mapstructure:"expenditure-file"`
	RentFile         string `mapstructure:"rent-file"`
	MigrationFile    string `mapstructure:"migration-file"`

	Precedence  string `mapstructure:"precedence"`
	MinSample   int    `mapstructure:"min-sample"`
	MinGeos     int    `mapstructure:"min-geos"`
	Granularity string `mapstructure:"granularity"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	StoreBackend string `mapstructure:"store-backend"`
	StorePath    string `mapstructure:"store-path"`
}

// StoreArtifactPath resolves the results store file path.
func (c *Config) StoreArtifactPath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	return filepath.Join(c.ResultsDir, DefaultStoreFile)
}

// ConfigParams returns the run parameters recorded alongside results.
func (c *Config) ConfigParams() map[string]any {
	return map[string]any{
		"data_dir":   c.DataDir,
		"min_sample": c.MinSample,
		"min_geos":   c.MinGeos,
		"output":     string(c.Output),
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPrecedence(cfg, input); err != nil {
		return err
	}
	if err := resolveSourcePaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Threshold validation ---
	if input.MinSample < 2 {
		return fmt.Errorf("min-sample must be at least 2 (received %d)", input.MinSample)
	}
	cfg.MinSample = input.MinSample

	if input.MinGeos < 1 {
		return fmt.Errorf("min-geos must be at least 1 (received %d)", input.MinGeos)
	}
	cfg.MinGeos = input.MinGeos

	// --- 2. Granularity validation ---
	if g := strings.ToLower(input.Granularity); g != YearGranularity {
		return fmt.Errorf("invalid granularity '%s'. only %q is supported", input.Granularity, YearGranularity)
	}

	// --- 3. Precision and output validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 4. Store backend validation ---
	cfg.StoreBackend = schema.StoreBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite or none", input.StoreBackend)
	}
	cfg.StorePath = input.StorePath

	// --- 5. Results directory ---
	cfg.ResultsDir = input.ResultsDir
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = DefaultResultsDir
	}

	return nil
}

// processPrecedence parses the per-metric source precedence string. The
// format is "metric:src1>src2,metric2:src1>src3". Configured entries replace
// the default order for that metric only.
func processPrecedence(cfg *Config, input *ConfigRawInput) error {
	cfg.Precedence = schema.DefaultPrecedence()

	if input.Precedence == "" {
		return nil
	}

	for entry := range strings.SplitSeq(input.Precedence, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		metric, order, ok := strings.Cut(entry, ":")
		if !ok {
			return fmt.Errorf("invalid precedence entry %q: expected metric:src1>src2", entry)
		}
		var sources []schema.SourceType
		for _, s := range strings.Split(order, ">") {
			st := schema.SourceType(strings.TrimSpace(s))
			if _, ok := schema.ValidSourceTypes[st]; !ok {
				return fmt.Errorf("invalid precedence entry %q: unknown source %q", entry, s)
			}
			sources = append(sources, st)
		}
		if len(sources) < 2 {
			return fmt.Errorf("invalid precedence entry %q: need at least two sources", entry)
		}
		cfg.Precedence[schema.MetricName(strings.TrimSpace(metric))] = sources
	}

	return nil
}

// resolveSourcePaths resolves the data directory and all input file paths.
// A missing required input file aborts the run with a clear message.
func resolveSourcePaths(cfg *Config, input *ConfigRawInput) error {
	dataDir := input.DataDirStr
	if dataDir == "" {
		dataDir = "."
	}
	info, err := os.Stat(dataDir)
	if err != nil {
		return fmt.Errorf("data directory %q is not accessible: %w", dataDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %q is not a directory", dataDir)
	}
	cfg.DataDir = dataDir

	resolve := func(name, fallback string) string {
		if name == "" {
			name = fallback
		}
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dataDir, name)
	}

	cfg.GazetteerPath = resolve(input.GazetteerFile, DefaultGazetteerFile)
	cfg.SourceFiles = map[schema.SourceType]string{
		schema.SourceIncomeStates: resolve(input.IncomeStatesFile, DefaultIncomeStatesFile),
		schema.SourceIncomeMetros: resolve(input.IncomeMetrosFile, DefaultIncomeMetrosFile),
		schema.SourceExpenditure:  resolve(input.ExpenditureFile, DefaultExpenditureFile),
		schema.SourceRent:         resolve(input.RentFile, DefaultRentFile),
		schema.SourceMigration:    resolve(input.MigrationFile, DefaultMigrationFile),
	}

	if _, err := os.Stat(cfg.GazetteerPath); err != nil {
		return fmt.Errorf("required gazetteer file %q is missing: %w", cfg.GazetteerPath, err)
	}
	for src, path := range cfg.SourceFiles {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("required %s input file %q is missing: %w", src, path, err)
		}
	}

	return nil
}
