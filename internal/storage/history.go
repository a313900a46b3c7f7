package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"vrt/internal/domain"
)

// HistoryRow is one case result from an earlier run
type HistoryRow struct {
	RunID           string
	StartedAt       time.Time
	CaseName        string
	Passed          bool
	Kind            string
	Message         string
	CaptureDigest   string
	ReferenceDigest string
	Duration        time.Duration
}

var historySchema = map[string]string{
	"mysql": "CREATE TABLE IF NOT EXISTS graphic_test_runs (" +
		"id BIGINT AUTO_INCREMENT PRIMARY KEY," +
		"run_id VARCHAR(64) NOT NULL," +
		"started_at VARCHAR(40) NOT NULL," +
		"case_name VARCHAR(255) NOT NULL," +
		"passed BOOLEAN NOT NULL," +
		"kind VARCHAR(64) NOT NULL," +
		"message TEXT NOT NULL," +
		"capture_digest VARCHAR(40) NOT NULL," +
		"reference_digest VARCHAR(40) NOT NULL," +
		"duration_ms BIGINT NOT NULL)",
	"sqlite": "CREATE TABLE IF NOT EXISTS graphic_test_runs (" +
		"id INTEGER PRIMARY KEY AUTOINCREMENT," +
		"run_id TEXT NOT NULL," +
		"started_at TEXT NOT NULL," +
		"case_name TEXT NOT NULL," +
		"passed INTEGER NOT NULL," +
		"kind TEXT NOT NULL," +
		"message TEXT NOT NULL," +
		"capture_digest TEXT NOT NULL," +
		"reference_digest TEXT NOT NULL," +
		"duration_ms INTEGER NOT NULL)",
}

// SQLHistory appends every case result of every run to a SQL table
type SQLHistory struct {
	db     *sql.DB
	driver string
}

// OpenHistory connects to the history database and creates the table if needed.
// driver is "mysql" or "sqlite".
func OpenHistory(ctx context.Context, driver, dsn string) (*SQLHistory, error) {
	schema, ok := historySchema[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported history driver %q (want mysql or sqlite)", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}
	return &SQLHistory{db: db, driver: driver}, nil
}

// Close closes the database
func (h *SQLHistory) Close() error {
	return h.db.Close()
}

// Record stores every executed case of the run in one transaction
func (h *SQLHistory) Record(ctx context.Context, summary domain.RunSummary) error {
	started := summary.Started
	if started.IsZero() {
		started = time.Now()
	}
	runID := started.UTC().Format("20060102T150405.000000000Z")

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO graphic_test_runs "+
		"(run_id, started_at, case_name, passed, kind, message, capture_digest, reference_digest, duration_ms) "+
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range summary.Results {
		var message string
		if r.Err != nil {
			message = r.Err.Error()
		}
		if _, err := stmt.ExecContext(ctx, runID, started.Format(time.RFC3339Nano), r.Case.Name, r.Passed,
			domain.Kind(r.Err), message, r.CaptureDigest, r.ReferenceDigest, r.Duration.Milliseconds()); err != nil {
			return fmt.Errorf("insert history row for %s: %w", r.Case.Name, err)
		}
	}
	return tx.Commit()
}

// Recent returns up to limit rows, newest first
func (h *SQLHistory) Recent(ctx context.Context, limit int) ([]HistoryRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx, "SELECT run_id, started_at, case_name, passed, kind, message, "+
		"capture_digest, reference_digest, duration_ms FROM graphic_test_runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var row HistoryRow
		var started string
		var ms int64
		if err := rows.Scan(&row.RunID, &started, &row.CaseName, &row.Passed, &row.Kind, &row.Message,
			&row.CaptureDigest, &row.ReferenceDigest, &ms); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		row.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		row.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, row)
	}
	return out, rows.Err()
}
