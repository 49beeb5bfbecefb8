// Package store keeps a local history of reporter runs. Nothing in the
// sync path reads it back; it exists for the history command.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// ErrRunNotFound is returned when a run id is not in the history.
var ErrRunNotFound = errors.New("run not found")

// Store defines the persistence interface for run history.
type Store interface {
	// CreateRun records the start of a run. A new UUID is assigned when
	// run.ID is empty; the stored run is returned.
	CreateRun(ctx context.Context, run model.Run) (model.Run, error)

	// FinishRun marks a run succeeded or failed.
	FinishRun(ctx context.Context, runID string, status string, runErr error, finishedAt time.Time) error

	// UpdateRunTarget records the version and cycle a run resolved to.
	UpdateRunTarget(ctx context.Context, runID string, versionID, cycleID int64) error

	RecordIssue(ctx context.Context, issue model.RunIssue) error

	// GetRuns lists runs newest first. A limit of zero or less returns all.
	GetRuns(ctx context.Context, limit int) ([]model.Run, error)

	GetRunIssues(ctx context.Context, runID string) ([]model.RunIssue, error)

	Close() error
}
