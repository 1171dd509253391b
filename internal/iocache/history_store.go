package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// runsTable is the name of the table for run history.
const runsTable = "cigate_runs"

// runColumns lists the cigate_runs columns in insert and select order, excluding run_id.
const runColumns = `run_time, artifacts_dir, tests, failures, errors, skipped, lines_found, lines_hit,
	coverage_percent, min_coverage, gate_passed, files_scanned, files_failed, duration_ms`

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... port=... user=... dbname=...", err)
		}

	case schema.NoneBackend:
		// A store without a connection records nothing
		return &HistoryStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if _, err := db.Exec(getCreateRunsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", runsTable, err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// getCreateRunsQuery returns the CREATE TABLE query for cigate_runs.
// It matches the first migration so stores and migrations agree.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_time DATETIME(6) NOT NULL,
				artifacts_dir VARCHAR(1024) NOT NULL,
				tests INT NOT NULL,
				failures INT NOT NULL,
				errors INT NOT NULL,
				skipped INT NOT NULL,
				lines_found BIGINT NOT NULL,
				lines_hit BIGINT NOT NULL,
				coverage_percent DOUBLE NOT NULL,
				min_coverage DOUBLE NOT NULL,
				gate_passed BOOLEAN NOT NULL,
				files_scanned INT NOT NULL,
				files_failed INT NOT NULL,
				duration_ms BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_time TIMESTAMPTZ NOT NULL,
				artifacts_dir TEXT NOT NULL,
				tests INT NOT NULL,
				failures INT NOT NULL,
				errors INT NOT NULL,
				skipped INT NOT NULL,
				lines_found BIGINT NOT NULL,
				lines_hit BIGINT NOT NULL,
				coverage_percent DOUBLE PRECISION NOT NULL,
				min_coverage DOUBLE PRECISION NOT NULL,
				gate_passed BOOLEAN NOT NULL,
				files_scanned INT NOT NULL,
				files_failed INT NOT NULL,
				duration_ms BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_time TEXT NOT NULL,
				artifacts_dir TEXT NOT NULL,
				tests INTEGER NOT NULL,
				failures INTEGER NOT NULL,
				errors INTEGER NOT NULL,
				skipped INTEGER NOT NULL,
				lines_found INTEGER NOT NULL,
				lines_hit INTEGER NOT NULL,
				coverage_percent REAL NOT NULL,
				min_coverage REAL NOT NULL,
				gate_passed INTEGER NOT NULL,
				files_scanned INTEGER NOT NULL,
				files_failed INTEGER NOT NULL,
				duration_ms INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// RecordRun stores a completed run and returns its unique ID.
func (hs *HistoryStoreImpl) RecordRun(record schema.RunRecord) (int64, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	args := []any{
		formatTime(record.RunTime, hs.backend),
		record.ArtifactsDir,
		record.Totals.Tests,
		record.Totals.Failures,
		record.Totals.Errors,
		record.Totals.Skipped,
		record.Totals.LinesFound,
		record.Totals.LinesHit,
		record.Coverage,
		record.MinCoverage,
		record.GatePassed,
		record.FilesScanned,
		record.FilesFailed,
		record.DurationMs,
	}

	var runID int64
	var err error
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING run_id`,
			quotedTableName, runColumns)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			quotedTableName, runColumns)
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first. A limit <= 0 returns all runs.
func (hs *HistoryStoreImpl) ListRuns(limit int) ([]schema.RunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, %s FROM %s ORDER BY run_id DESC",
		runColumns, quoteTableName(runsTable, hs.backend))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		record, err := hs.scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// scanRun reads one cigate_runs row, handling the per-backend time representation.
func (hs *HistoryStoreImpl) scanRun(rows *sql.Rows) (schema.RunRecord, error) {
	var r schema.RunRecord
	var runTime any
	if hs.backend == schema.SQLiteBackend {
		var s string
		runTime = &s
	} else {
		runTime = &r.RunTime
	}

	if err := rows.Scan(&r.RunID, runTime, &r.ArtifactsDir,
		&r.Totals.Tests, &r.Totals.Failures, &r.Totals.Errors, &r.Totals.Skipped,
		&r.Totals.LinesFound, &r.Totals.LinesHit, &r.Coverage, &r.MinCoverage,
		&r.GatePassed, &r.FilesScanned, &r.FilesFailed, &r.DurationMs); err != nil {
		return r, fmt.Errorf("failed to scan run: %w", err)
	}

	if s, ok := runTime.(*string); ok {
		t, err := time.Parse(time.RFC3339Nano, *s)
		if err != nil {
			return r, fmt.Errorf("failed to parse run_time: %w", err)
		}
		r.RunTime = t
	}
	return r, nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	status.TableSizes[runsTable] = int64(status.TotalRuns)

	if status.TotalRuns == 0 {
		return status, nil
	}

	lastRunQuery := fmt.Sprintf("SELECT run_id, run_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedTableName)
	lastRunID, lastRunTime, err := hs.queryIDAndTime(lastRunQuery)
	if err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	status.LastRunID = lastRunID
	status.LastRunTime = lastRunTime

	oldestRunQuery := fmt.Sprintf("SELECT run_id, run_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedTableName)
	_, oldestRunTime, err := hs.queryIDAndTime(oldestRunQuery)
	if err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}
	status.OldestRunTime = oldestRunTime

	failedQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE NOT gate_passed", quotedTableName)
	if err := hs.db.QueryRow(failedQuery).Scan(&status.FailedGates); err != nil {
		return status, fmt.Errorf("failed to count failed gates: %w", err)
	}

	return status, nil
}

// queryIDAndTime runs a query selecting (run_id, run_time) and returns the single row.
func (hs *HistoryStoreImpl) queryIDAndTime(query string) (int64, time.Time, error) {
	row := hs.db.QueryRow(query)

	var id int64
	switch hs.backend {
	case schema.SQLiteBackend:
		var s string
		if err := row.Scan(&id, &s); err != nil {
			return 0, time.Time{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		return id, t, err
	default: // MySQL and PostgreSQL store as native datetime
		var t time.Time
		err := row.Scan(&id, &t)
		return id, t, err
	}
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}
