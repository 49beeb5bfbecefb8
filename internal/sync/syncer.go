// Package sync pushes the results of a Cucumber run into Zephyr. A run is
// one sequential pass over the report: every scenario tagged with an issue
// key of the configured project gets its test steps reconciled, a new
// execution, a result per step and a rolled-up execution status.
package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/report"
	"github.com/nhle/zephyr-reporter/internal/service"
	"github.com/nhle/zephyr-reporter/internal/source"
)

var (
	// ErrProjectNotFound is returned when the configured project prefix
	// cannot be looked up in JIRA.
	ErrProjectNotFound = errors.New("JIRA project not found")

	// ErrIssueNotFound is returned when a scenario tag names an issue
	// that cannot be looked up in JIRA.
	ErrIssueNotFound = errors.New("JIRA issue not found")
)

// SyncState represents the current state of a Syncer.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncRunning:
		return "running"
	case SyncError:
		return "error"
	default:
		return "unknown"
	}
}

// SyncStatus holds the state of the last or current run.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// Tracker looks up JIRA projects and issues.
type Tracker interface {
	FindProject(ctx context.Context, idOrKey string) (*model.Project, error)
	FindIssue(ctx context.Context, key string) (*model.Issue, error)
}

// Zephyr is the set of ZAPI operations a run needs.
type Zephyr interface {
	service.TestStepStore
	service.ExecutionStore
	service.CycleStore
}

// Recorder receives the history of a run. Recording failures are logged
// and never fail the run.
type Recorder interface {
	CreateRun(ctx context.Context, run model.Run) (model.Run, error)
	UpdateRunTarget(ctx context.Context, runID string, versionID, cycleID int64) error
	RecordIssue(ctx context.Context, issue model.RunIssue) error
	FinishRun(ctx context.Context, runID string, status string, runErr error, finishedAt time.Time) error
}

// Options tune a Syncer beyond what the configuration carries.
type Options struct {
	// Recorder, when set, receives every run and issue outcome.
	Recorder Recorder

	// ReportPath is recorded with the run.
	ReportPath string

	Logger *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// IssueOutcome is what a run did for one tagged scenario.
type IssueOutcome struct {
	IssueKey    string                `json:"issue_key" yaml:"issue_key"`
	Scenario    string                `json:"scenario" yaml:"scenario"`
	ExecutionID int64                 `json:"execution_id" yaml:"execution_id"`
	Status      model.ExecutionStatus `json:"-" yaml:"-"`
	Steps       int                   `json:"steps" yaml:"steps"`
	Created     int                   `json:"created" yaml:"created"`
	Updated     int                   `json:"updated" yaml:"updated"`
	Deleted     int                   `json:"deleted" yaml:"deleted"`

	// WriteErrors counts status writes that failed and were skipped.
	WriteErrors int `json:"write_errors" yaml:"write_errors"`
}

// RunSummary describes a completed or aborted run.
type RunSummary struct {
	RunID      string
	Project    model.Project
	Version    model.Version
	Cycle      model.Cycle
	Issues     []IssueOutcome
	StartedAt  time.Time
	FinishedAt time.Time
}

// Count returns how many issues ended with status.
func (r *RunSummary) Count(status model.ExecutionStatus) int {
	n := 0
	for _, o := range r.Issues {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any issue's execution failed.
func (r *RunSummary) Failed() bool {
	return r.Count(model.ExecutionFailed) > 0
}

// Syncer runs the report-to-Zephyr synchronization.
type Syncer struct {
	tracker    Tracker
	steps      *service.TestStepService
	executions *service.ExecutionService
	results    *service.StepResultService
	versions   service.VersionResolver
	cycles     *service.CycleResolver

	prefix     string
	reportPath string
	recorder   Recorder
	logger     *zap.Logger
	now        func() time.Time

	mu     gosync.Mutex
	status SyncStatus
}

// New creates a Syncer for the project and targets named in cfg.
func New(tracker Tracker, zephyr Zephyr, cfg model.Config, opts Options) *Syncer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Syncer{
		tracker:    tracker,
		steps:      service.NewTestStepService(zephyr, logger.Named("service.teststep")),
		executions: service.NewExecutionService(zephyr, logger.Named("service.execution")),
		results:    service.NewStepResultService(zephyr, logger.Named("service.stepresult")),
		versions: service.VersionResolver{
			Name:         cfg.Version,
			ReleaseBuild: cfg.IsReleaseBuild(),
			Now:          now,
			Logger:       logger.Named("service.version"),
		},
		cycles: service.NewCycleResolver(
			zephyr,
			cfg.Cycle,
			cfg.RunName,
			cfg.IsReleaseBuild(),
			logger.Named("service.cycle"),
		),
		prefix:     cfg.ProjectPrefix,
		reportPath: opts.ReportPath,
		recorder:   opts.Recorder,
		logger:     logger,
		now:        now,
	}
}

// Status returns the state of the last or current run.
func (s *Syncer) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Run reports features to Zephyr. The returned summary covers whatever was
// done before an error aborted the run.
func (s *Syncer) Run(ctx context.Context, features []report.Feature) (*RunSummary, error) {
	s.setStatus(SyncRunning, nil)

	summary := &RunSummary{StartedAt: s.now()}
	summary.RunID = s.startRun(ctx, summary.StartedAt)

	err := s.run(ctx, features, summary)
	summary.FinishedAt = s.now()
	s.finishRun(ctx, summary, err)

	if err != nil {
		s.setStatus(SyncError, err)
		return summary, err
	}
	s.setStatus(SyncIdle, nil)
	return summary, nil
}

func (s *Syncer) run(ctx context.Context, features []report.Feature, summary *RunSummary) error {
	s.logger.Debug("sending report data", zap.String("project", s.prefix))

	project, err := s.tracker.FindProject(ctx, s.prefix)
	if err != nil && !source.IsNotFound(err) {
		return fmt.Errorf("finding project %s: %w", s.prefix, err)
	}
	if err != nil || project == nil {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, s.prefix)
	}
	summary.Project = *project

	version, err := s.versions.Resolve(*project)
	if err != nil {
		return err
	}
	summary.Version = version

	cycle, err := s.cycles.Resolve(ctx, *project, version)
	if err != nil {
		return err
	}
	summary.Cycle = cycle

	s.logger.Debug("targets resolved",
		zap.Int64("version_id", version.ID),
		zap.Int64("cycle_id", cycle.ID),
	)
	if s.recorder != nil && summary.RunID != "" {
		if err := s.recorder.UpdateRunTarget(ctx, summary.RunID, version.ID, cycle.ID); err != nil {
			s.logger.Warn("could not record run target", zap.Error(err))
		}
	}

	for _, feature := range features {
		for _, scenario := range feature.Scenarios() {
			for _, key := range scenario.IssueKeys(s.prefix) {
				if err := ctx.Err(); err != nil {
					return err
				}

				outcome, err := s.syncIssue(ctx, *project, version, cycle, scenario, key)
				if err != nil {
					return err
				}
				summary.Issues = append(summary.Issues, outcome)
				s.recordIssue(ctx, summary.RunID, outcome)
			}
		}
	}

	return nil
}

// syncIssue reports one scenario against one issue.
func (s *Syncer) syncIssue(
	ctx context.Context,
	project model.Project,
	version model.Version,
	cycle model.Cycle,
	scenario report.Scenario,
	key string,
) (IssueOutcome, error) {
	outcome := IssueOutcome{IssueKey: key, Scenario: scenario.Name}

	issue, err := s.tracker.FindIssue(ctx, key)
	if err != nil && !source.IsNotFound(err) {
		return outcome, fmt.Errorf("finding issue %s: %w", key, err)
	}
	if err != nil || issue == nil {
		return outcome, fmt.Errorf("%w: %s", ErrIssueNotFound, key)
	}

	reconciled, err := s.steps.Reconcile(ctx, *issue, scenario)
	if err != nil {
		return outcome, err
	}
	outcome.Steps = len(reconciled.Steps)
	outcome.Created = reconciled.Created
	outcome.Updated = reconciled.Updated
	outcome.Deleted = reconciled.Deleted

	execution, err := s.executions.Open(ctx, project, version, cycle, *issue)
	if err != nil {
		return outcome, err
	}
	outcome.ExecutionID = execution.ID

	if !execution.StepResultsLoaded {
		s.logger.Warn("step results unavailable, skipping step result writes",
			zap.String("issue", key),
			zap.Int64("execution_id", execution.ID),
		)
	}

	visible := scenario.VisibleSteps()
	statuses := make([]model.StepResultStatus, 0, len(reconciled.Steps))
	for _, ts := range reconciled.Steps {
		var result *report.Result
		if i := ts.OrderID - 1; i >= 0 && i < len(visible) {
			result = visible[i].Result
		}

		status := service.ReportStepResult(result)
		statuses = append(statuses, status)

		if !execution.StepResultsLoaded {
			outcome.WriteErrors++
			continue
		}
		if err := s.results.Save(ctx, *issue, *execution, ts, status); err != nil {
			s.logger.Error("could not save step result",
				zap.String("issue", key),
				zap.Int64("execution_id", execution.ID),
				zap.Int("order", ts.OrderID),
				zap.Error(err),
			)
			outcome.WriteErrors++
		}
	}

	status, err := s.executions.SaveStatus(ctx, statuses, *execution)
	outcome.Status = status
	if err != nil {
		s.logger.Error("could not save execution status",
			zap.String("issue", key),
			zap.Int64("execution_id", execution.ID),
			zap.Stringer("status", status),
			zap.Error(err),
		)
		outcome.WriteErrors++
	}

	s.logger.Info("issue reported",
		zap.String("issue", key),
		zap.Int64("execution_id", execution.ID),
		zap.Stringer("status", status),
		zap.Int("steps", outcome.Steps),
	)
	return outcome, nil
}

func (s *Syncer) startRun(ctx context.Context, startedAt time.Time) string {
	if s.recorder == nil {
		return ""
	}
	run, err := s.recorder.CreateRun(ctx, model.Run{
		ProjectKey: s.prefix,
		VersionID:  model.UnscheduledVersionID,
		CycleID:    model.AdhocCycleID,
		ReportPath: s.reportPath,
		StartedAt:  startedAt,
	})
	if err != nil {
		s.logger.Warn("could not record run start", zap.Error(err))
		return ""
	}
	return run.ID
}

func (s *Syncer) recordIssue(ctx context.Context, runID string, outcome IssueOutcome) {
	if s.recorder == nil || runID == "" {
		return
	}
	err := s.recorder.RecordIssue(ctx, model.RunIssue{
		RunID:       runID,
		IssueKey:    outcome.IssueKey,
		ExecutionID: outcome.ExecutionID,
		Status:      outcome.Status.String(),
		Steps:       outcome.Steps,
		RecordedAt:  s.now(),
	})
	if err != nil {
		s.logger.Warn("could not record issue", zap.String("issue", outcome.IssueKey), zap.Error(err))
	}
}

func (s *Syncer) finishRun(ctx context.Context, summary *RunSummary, runErr error) {
	if s.recorder == nil || summary.RunID == "" {
		return
	}
	status := model.RunStatusSucceeded
	if runErr != nil {
		status = model.RunStatusFailed
	}
	// Recorded even when the run was cancelled.
	if err := s.recorder.FinishRun(context.WithoutCancel(ctx), summary.RunID, status, runErr, summary.FinishedAt); err != nil {
		s.logger.Warn("could not record run end", zap.Error(err))
	}
}

// setStatus updates the sync status.
func (s *Syncer) setStatus(state SyncState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.State = state
	s.status.Error = err
	if state == SyncIdle && err == nil {
		s.status.LastSync = s.now()
	}
}
