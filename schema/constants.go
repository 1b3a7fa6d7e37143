package schema

// Custom string types for type safety.
type (
	// SourceType identifies one of the supported input extracts.
	SourceType string

	// GeoLevel represents the level of a geography record.
	GeoLevel string

	// MetricName represents a canonical metric column name.
	MetricName string

	// OutputMode represents the format of tabular output.
	OutputMode string

	// AggPolicy represents how quarterly values fold into a calendar year.
	AggPolicy string

	// StoreBackend represents the results store backend.
	StoreBackend string

	// RejectionKind classifies why an input row was rejected.
	RejectionKind string
)

// All source types supported.
const (
	SourceIncomeStates SourceType = "acs_states" // Census ACS state extract
	SourceIncomeMetros SourceType = "acs_metros" // Census ACS metro extract
	SourceExpenditure  SourceType = "bls_ce"     // BLS Consumer Expenditure extract
	SourceRent         SourceType = "hud_fmr"    // HUD Fair Market Rent extract
	SourceMigration    SourceType = "coa"        // Change-of-address migration extract
)

// All geography levels supported.
const (
	StateLevel GeoLevel = "state"
	MetroLevel GeoLevel = "metro"
)

// Canonical metric names emitted by the readers.
const (
	MetricIncome      MetricName = "median_household_income"
	MetricPopulation  MetricName = "total_population"
	MetricGrossRent   MetricName = "median_gross_rent"
	MetricExpenditure MetricName = "total_expenditure"
	MetricInflow      MetricName = "mig_inflow"
	MetricOutflow     MetricName = "mig_outflow"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// Quarterly aggregation policies.
const (
	MeanAgg AggPolicy = "mean" // levels and indices
	SumAgg  AggPolicy = "sum"  // flows
)

// All results store backends supported.
const (
	SQLiteBackend StoreBackend = "sqlite" // default
	NoneBackend   StoreBackend = "none"
)

// Rejection kinds recorded in the rejection report.
const (
	GeoRejection    RejectionKind = "geo"
	PeriodRejection RejectionKind = "period"
)

// AllSourceTypes lists every source in default precedence order. When two
// sources emit the same metric for the same (geo, period) and no explicit
// precedence is configured for that metric, the earlier source here wins.
var AllSourceTypes = []SourceType{
	SourceIncomeMetros,
	SourceIncomeStates,
	SourceExpenditure,
	SourceRent,
	SourceMigration,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid results store backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	SQLiteBackend: {},
	NoneBackend:   {},
}

// ValidGeoLevels lists all valid gazetteer levels.
var ValidGeoLevels = map[GeoLevel]struct{}{
	StateLevel: {},
	MetroLevel: {},
}

// ValidSourceTypes lists all valid source type tags.
var ValidSourceTypes = map[SourceType]struct{}{
	SourceIncomeStates: {},
	SourceIncomeMetros: {},
	SourceExpenditure:  {},
	SourceRent:         {},
	SourceMigration:    {},
}

// DefaultPrecedence maps metrics emitted by more than one source to their
// default conflict-resolution order. ACS rent figures win over HUD FMR
// because they are observed gross rents rather than administrative targets.
func DefaultPrecedence() map[MetricName][]SourceType {
	return map[MetricName][]SourceType{
		MetricGrossRent: {SourceIncomeMetros, SourceIncomeStates, SourceRent},
	}
}

// MetricAggPolicy returns how quarterly observations of a metric aggregate
// into a calendar year. Migration flows accumulate; everything else is a
// level that averages.
func MetricAggPolicy(m MetricName) AggPolicy {
	switch m {
	case MetricInflow, MetricOutflow:
		return SumAgg
	default:
		return MeanAgg
	}
}
