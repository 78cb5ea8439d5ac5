package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (and migrates) a SQLite journal.
func NewSQLiteJournal(dsn string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	j := &SQLiteJournal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return j, nil
}

func (j *SQLiteJournal) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			flow TEXT NOT NULL,
			stage TEXT NOT NULL,
			failed_stage TEXT,
			call_id TEXT,
			call_status TEXT,
			inspected INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_flow_started ON runs(flow, started_at)`,
	}

	for _, m := range migrations {
		if _, err := j.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// StartRun inserts a new run row.
func (j *SQLiteJournal) StartRun(ctx context.Context, run *domain.FlowOutcome) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, flow, stage, started_at) VALUES (?, ?, ?, ?)`,
		run.RunID, string(run.Flow), string(run.Stage), run.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// FinishRun stores the terminal state of a run.
func (j *SQLiteJournal) FinishRun(ctx context.Context, run *domain.FlowOutcome) error {
	var errText sql.NullString
	if run.Err != nil {
		errText = sql.NullString{String: run.Err.Error(), Valid: true}
	}
	endedAt := run.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}

	res, err := j.db.ExecContext(ctx,
		`UPDATE runs SET stage = ?, failed_stage = ?, call_id = ?, call_status = ?, inspected = ?, error = ?, ended_at = ?
		 WHERE run_id = ?`,
		string(run.Stage), nullString(string(run.FailedStage)), nullString(run.CallID), nullString(string(run.CallStatus)),
		run.Inspected, errText, endedAt.UTC(), run.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", run.RunID)
	}
	return nil
}

// ListRuns returns recent runs, newest first.
func (j *SQLiteJournal) ListRuns(ctx context.Context, flow domain.Flow, limit int) ([]domain.FlowOutcome, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT run_id, flow, stage, failed_stage, call_id, call_status, inspected, error, started_at, ended_at FROM runs`
	args := []interface{}{}
	if flow != "" {
		query += ` WHERE flow = ?`
		args = append(args, string(flow))
	}
	query += ` ORDER BY started_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.FlowOutcome
	for rows.Next() {
		var run domain.FlowOutcome
		var flowName, stage string
		var failedStage, callID, callStatus, errText sql.NullString
		var endedAt sql.NullTime
		if err := rows.Scan(&run.RunID, &flowName, &stage, &failedStage, &callID, &callStatus, &run.Inspected, &errText, &run.StartedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Flow = domain.Flow(flowName)
		run.Stage = domain.Stage(stage)
		run.FailedStage = domain.Stage(failedStage.String)
		run.CallID = callID.String
		run.CallStatus = domain.CallStatus(callStatus.String)
		if errText.Valid {
			run.Err = errors.New(errText.String)
		}
		if endedAt.Valid {
			run.EndedAt = endedAt.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
