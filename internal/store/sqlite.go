package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database lives only as long as its connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// CreateRun inserts a run in the running state.
func (s *SQLiteStore) CreateRun(ctx context.Context, run model.Run) (model.Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()
	run.Status = model.RunStatusRunning
	run.FinishedAt = nil

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, project_key, version_id, cycle_id, report_path, status, error, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ProjectKey, run.VersionID, run.CycleID,
		run.ReportPath, run.Status, run.Error, run.StartedAt,
	)
	if err != nil {
		return model.Run{}, fmt.Errorf("creating run %s: %w", run.ID, err)
	}

	return run, nil
}

// FinishRun stores the final status of a run. runErr may be nil.
func (s *SQLiteStore) FinishRun(
	ctx context.Context,
	runID string,
	status string,
	runErr error,
	finishedAt time.Time,
) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error = ?, finished_at = ?
		WHERE id = ?`,
		status, msg, finishedAt.UTC(), runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("finishing run %s: %w", runID, ErrRunNotFound)
	}

	return nil
}

// UpdateRunTarget records the version and cycle a run resolved to.
func (s *SQLiteStore) UpdateRunTarget(ctx context.Context, runID string, versionID, cycleID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE runs SET version_id = ?, cycle_id = ? WHERE id = ?",
		versionID, cycleID, runID,
	)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", runID, err)
	}
	return nil
}

// RecordIssue appends an issue outcome to a run.
func (s *SQLiteStore) RecordIssue(ctx context.Context, issue model.RunIssue) error {
	if issue.RecordedAt.IsZero() {
		issue.RecordedAt = time.Now()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO run_issues (
			run_id, issue_key, execution_id, status, steps, recorded_at
		) VALUES (
			:run_id, :issue_key, :execution_id, :status, :steps, :recorded_at
		)`,
		map[string]interface{}{
			"run_id":       issue.RunID,
			"issue_key":    issue.IssueKey,
			"execution_id": issue.ExecutionID,
			"status":       issue.Status,
			"steps":        issue.Steps,
			"recorded_at":  issue.RecordedAt.UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("recording issue %s for run %s: %w", issue.IssueKey, issue.RunID, err)
	}

	return nil
}

// GetRuns returns recorded runs, newest first.
func (s *SQLiteStore) GetRuns(ctx context.Context, limit int) ([]model.Run, error) {
	query := `
		SELECT id, project_key, version_id, cycle_id, report_path,
			status, error, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var runs []model.Run
	if err := s.db.SelectContext(ctx, &runs, query); err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}

	return runs, nil
}

// GetRunIssues returns the issues recorded for runID in the order they were
// reported.
func (s *SQLiteStore) GetRunIssues(ctx context.Context, runID string) ([]model.RunIssue, error) {
	var issues []model.RunIssue
	err := s.db.SelectContext(ctx, &issues, `
		SELECT run_id, issue_key, execution_id, status, steps, recorded_at
		FROM run_issues
		WHERE run_id = ?
		ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying issues for run %s: %w", runID, err)
	}

	return issues, nil
}
