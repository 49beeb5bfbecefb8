package model

import "time"

// Run status constants recorded in the history store.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// Run is one invocation of the reporter against a test report.
type Run struct {
	// ID is the UUID assigned when the run starts.
	ID string `json:"id" yaml:"id" db:"id"`

	// ProjectKey is the JIRA project prefix the run reported into.
	ProjectKey string `json:"project_key" yaml:"project_key" db:"project_key"`

	// VersionID and CycleID are the resolved Zephyr targets; -1 for the
	// unscheduled version and the ad hoc cycle.
	VersionID int64 `json:"version_id" yaml:"version_id" db:"version_id"`
	CycleID   int64 `json:"cycle_id" yaml:"cycle_id" db:"cycle_id"`

	// ReportPath is the Cucumber JSON report that was read.
	ReportPath string `json:"report_path" yaml:"report_path" db:"report_path"`

	// Status is one of the RunStatus* constants.
	Status string `json:"status" yaml:"status" db:"status"`

	// Error holds the message of the error that aborted the run, if any.
	Error string `json:"error,omitempty" yaml:"error,omitempty" db:"error"`

	StartedAt  time.Time  `json:"started_at" yaml:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty" db:"finished_at"`
}

// RunIssue is the outcome recorded for one issue within a run.
type RunIssue struct {
	RunID       string    `json:"run_id" yaml:"run_id" db:"run_id"`
	IssueKey    string    `json:"issue_key" yaml:"issue_key" db:"issue_key"`
	ExecutionID int64     `json:"execution_id" yaml:"execution_id" db:"execution_id"`
	Status      string    `json:"status" yaml:"status" db:"status"`
	Steps       int       `json:"steps" yaml:"steps" db:"steps"`
	RecordedAt  time.Time `json:"recorded_at" yaml:"recorded_at" db:"recorded_at"`
}
