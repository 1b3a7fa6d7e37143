// Package resultstore persists pipeline runs and their output tables in a
// local SQLite artifact so runs can be compared or exported later.
package resultstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mounishallu05/income-expense-gap-analysis/internal/contract"
	"github.com/mounishallu05/income-expense-gap-analysis/schema"

	_ "modernc.org/sqlite" // SQLite driver
)

// Table names for run tracking.
const (
	runsTable         = "costgap_runs"
	harmonizedTable   = "costgap_harmonized"
	gapsTable         = "costgap_gaps"
	correlationsTable = "costgap_correlations"
)

// Store implements the ResultStore interface over SQLite. A nil db means the
// backend is disabled and every operation is a no-op.
type Store struct {
	db      *sql.DB
	backend schema.StoreBackend
}

var _ contract.ResultStore = &Store{} // Compile-time check

// New creates a ResultStore for the given backend. For SQLiteBackend, dbPath
// names the artifact file; for NoneBackend a no-op store is returned.
func New(backend schema.StoreBackend, dbPath string) (contract.ResultStore, error) {
	switch backend {
	case schema.SQLiteBackend:
		// The artifact usually lives in the results directory, which may not
		// exist yet on the first run.
		if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create store directory %q: %w", dir, err)
			}
		}

		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to results store at %q: %w", dbPath, err)
		}

		if err := createTables(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create results tables: %w", err)
		}

		return &Store{db: db, backend: backend}, nil

	case schema.NoneBackend:
		return &Store{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", backend)
	}
}

// createTables creates the run tracking tables.
func createTables(db *sql.DB) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				harmonized_rows INTEGER,
				rejections INTEGER,
				config_params TEXT
			);
		`, runsTable)},
		{harmonizedTable, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				geo_code TEXT NOT NULL,
				period INTEGER NOT NULL,
				metric TEXT NOT NULL,
				value REAL NOT NULL,
				source TEXT NOT NULL,
				low_confidence INTEGER NOT NULL,
				PRIMARY KEY (run_id, geo_code, period, metric)
			);
		`, harmonizedTable)},
		{gapsTable, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				geo_code TEXT NOT NULL,
				period INTEGER NOT NULL,
				income_growth REAL,
				expense_growth REAL,
				gap REAL,
				rent_to_income REAL,
				PRIMARY KEY (run_id, geo_code, period)
			);
		`, gapsTable)},
		{correlationsTable, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				geo_code TEXT NOT NULL,
				samples INTEGER NOT NULL,
				value REAL,
				insufficient INTEGER NOT NULL,
				PRIMARY KEY (run_id, geo_code)
			);
		`, correlationsTable)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// BeginRun creates a new run record and returns its unique ID.
func (s *Store) BeginRun(configParams map[string]any) (int64, error) {
	if s.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, runsTable)
	result, err := s.db.Exec(query, time.Now().Format(time.RFC3339Nano), string(configJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// EndRun finalizes the run record with row and rejection counts.
func (s *Store) EndRun(runID int64, harmonizedRows, rejections int) error {
	if s.db == nil {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET end_time = ?, harmonized_rows = ?, rejections = ? WHERE run_id = ?`, runsTable)
	if _, err := s.db.Exec(query, time.Now().Format(time.RFC3339Nano), harmonizedRows, rejections, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordHarmonized stores the harmonized table for a run, one record per
// non-null cell.
func (s *Store) RecordHarmonized(runID int64, table *schema.HarmonizedTable) error {
	if s.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, geo_code, period, metric, value, source, low_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, harmonizedTable)

	for i := range table.Rows {
		row := &table.Rows[i]
		for metric, cell := range row.Cells {
			lowConf := 0
			if row.LowConfidence {
				lowConf = 1
			}
			if _, err := s.db.Exec(query, runID, row.GeoCode, row.Period, string(metric), cell.Value, string(cell.Source), lowConf); err != nil {
				return fmt.Errorf("failed to insert harmonized cell: %w", err)
			}
		}
	}
	return nil
}

// RecordDerived stores gap points and correlation results for a run.
func (s *Store) RecordDerived(runID int64, derived *schema.DerivedResult) error {
	if s.db == nil {
		return nil
	}

	gapQuery := fmt.Sprintf(`
		INSERT INTO %s (run_id, geo_code, period, income_growth, expense_growth, gap, rent_to_income)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, gapsTable)
	for _, gp := range append(append([]schema.GapPoint{}, derived.Gaps...), derived.NationalGaps...) {
		if _, err := s.db.Exec(gapQuery, runID, gp.GeoCode, gp.Period,
			nullable(gp.IncomeGrowth), nullable(gp.ExpenseGrowth), nullable(gp.Gap), nullable(gp.RentToIncome)); err != nil {
			return fmt.Errorf("failed to insert gap point: %w", err)
		}
	}

	corrQuery := fmt.Sprintf(`
		INSERT INTO %s (run_id, geo_code, samples, value, insufficient)
		VALUES (?, ?, ?, ?, ?)
	`, correlationsTable)
	for _, c := range derived.Correlations {
		insufficient := 0
		if c.Insufficient {
			insufficient = 1
		}
		if _, err := s.db.Exec(corrQuery, runID, c.GeoCode, c.Samples, nullable(c.Value), insufficient); err != nil {
			return fmt.Errorf("failed to insert correlation: %w", err)
		}
	}
	return nil
}

// Runs returns all recorded run summaries, newest first.
func (s *Store) Runs() ([]schema.RunSummary, error) {
	if s.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, harmonized_rows, rejections, config_params
		FROM %s ORDER BY run_id DESC`, runsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunSummary
	for rows.Next() {
		var summary schema.RunSummary
		var endTime, configParams *string
		var harmonizedRows, rejections *int
		if err := rows.Scan(&summary.RunID, &summary.StartTime, &endTime, &harmonizedRows, &rejections, &configParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if endTime != nil {
			summary.EndTime = *endTime
		}
		if harmonizedRows != nil {
			summary.HarmonizedRows = *harmonizedRows
		}
		if rejections != nil {
			summary.Rejections = *rejections
		}
		if configParams != nil {
			var params map[string]any
			if err := json.Unmarshal([]byte(*configParams), &params); err == nil {
				summary.ConfigParams = params
			}
		}
		results = append(results, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// HarmonizedRows returns all stored harmonized rows across runs.
func (s *Store) HarmonizedRows() ([]contract.StoredHarmonizedRow, error) {
	if s.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, geo_code, period, metric, value, source, low_confidence
		FROM %s ORDER BY run_id, geo_code, period, metric`, harmonizedTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query harmonized rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []contract.StoredHarmonizedRow
	for rows.Next() {
		var record contract.StoredHarmonizedRow
		var lowConf int
		if err := rows.Scan(&record.RunID, &record.GeoCode, &record.Period, &record.Metric, &record.Value, &record.Source, &lowConf); err != nil {
			return nil, fmt.Errorf("failed to scan harmonized row: %w", err)
		}
		record.LowConfidence = lowConf != 0
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating harmonized rows: %w", err)
	}
	return results, nil
}

// GapRows returns all stored gap points across runs.
func (s *Store) GapRows() ([]contract.StoredGapRow, error) {
	if s.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, geo_code, period, income_growth, expense_growth, gap, rent_to_income
		FROM %s ORDER BY run_id, geo_code, period`, gapsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query gap rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []contract.StoredGapRow
	for rows.Next() {
		var record contract.StoredGapRow
		if err := rows.Scan(&record.RunID, &record.GeoCode, &record.Period,
			&record.IncomeGrowth, &record.ExpenseGrowth, &record.Gap, &record.RentToIncome); err != nil {
			return nil, fmt.Errorf("failed to scan gap row: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gap rows: %w", err)
	}
	return results, nil
}

// CorrelationRows returns all stored correlation results across runs.
func (s *Store) CorrelationRows() ([]contract.StoredCorrelationRow, error) {
	if s.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, geo_code, samples, value, insufficient
		FROM %s ORDER BY run_id, geo_code`, correlationsTable)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query correlation rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []contract.StoredCorrelationRow
	for rows.Next() {
		var record contract.StoredCorrelationRow
		var insufficient int
		if err := rows.Scan(&record.RunID, &record.GeoCode, &record.Samples, &record.Value, &insufficient); err != nil {
			return nil, fmt.Errorf("failed to scan correlation row: %w", err)
		}
		record.Insufficient = insufficient != 0
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating correlation rows: %w", err)
	}
	return results, nil
}

// Clear drops all stored runs and their data.
func (s *Store) Clear() error {
	if s.db == nil {
		return nil
	}

	for _, table := range []string{correlationsTable, gapsTable, harmonizedTable, runsTable} {
		if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// nullable converts a *float64 into a driver-friendly value.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
