package schema

// NationalCode is the pseudo-geography code used for nationally aggregated
// derived series. It never appears in the harmonized table itself.
const NationalCode = "US"

// GapPoint is the derived gap metric for one geography and period: expense
// growth rate minus income growth rate, year over year. Nullable fields are
// pointers; a nil gap means the prior period was missing, never zero.
type GapPoint struct {
	GeoCode       string   `json:"geo_code"`
	Period        int      `json:"period"`
	IncomeGrowth  *float64 `json:"income_growth"`
	ExpenseGrowth *float64 `json:"expense_growth"`
	Gap           *float64 `json:"gap"`
	RentToIncome  *float64 `json:"rent_to_income"`
}

// CorrelationSample is one (net in-migration, rent delta) observation pair
// used for correlation and for the scatter chart.
type CorrelationSample struct {
	GeoCode   string  `json:"geo_code"`
	Period    int     `json:"period"`
	NetInflow float64 `json:"net_inflow"`
	RentDelta float64 `json:"rent_delta"`
}

// CorrelationResult is the Pearson correlation between net in-migration and
// rent delta for one geography, or pooled nationally when GeoCode is
// NationalCode. Insufficient is set instead of a value when fewer than the
// configured minimum sample pairs exist.
type CorrelationResult struct {
	GeoCode      string   `json:"geo_code"`
	Samples      int      `json:"samples"`
	Value        *float64 `json:"value"`
	Insufficient bool     `json:"insufficient"`
}

// DerivedResult bundles everything the derived-metric calculator produces.
type DerivedResult struct {
	Gaps         []GapPoint          `json:"gaps"`
	NationalGaps []GapPoint          `json:"national_gaps"`
	Correlations []CorrelationResult `json:"correlations"`
	Samples      []CorrelationSample `json:"samples"`
}

// StoreStatus summarizes the results store for the status command.
type StoreStatus struct {
	Backend    string           `json:"backend"`
	Connected  bool             `json:"connected"`
	TotalRuns  int64            `json:"total_runs"`
	LastRunID  int64            `json:"last_run_id"`
	LastRun    string           `json:"last_run"`
	OldestRun  string           `json:"oldest_run"`
	TableSizes map[string]int64 `json:"table_sizes"`
}

// RunSummary captures one pipeline run for the results store.
type RunSummary struct {
	RunID          int64          `json:"run_id"`
	StartTime      string         `json:"start_time"`
	EndTime        string         `json:"end_time"`
	HarmonizedRows int            `json:"harmonized_rows"`
	Rejections     int            `json:"rejections"`
	ConfigParams   map[string]any `json:"config_params"`
}
