package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// AggregateStatus folds step outcomes into one execution status. It starts
// at passed and only a passed accumulator can change: a failed step makes
// it failed, a work-in-progress step makes it work in progress, and a
// blocked, cancelled or unexecuted step makes it blocked. Nothing improves
// a worse status, so a failure anywhere wins.
func AggregateStatus(statuses []model.StepResultStatus) model.ExecutionStatus {
	status := model.ExecutionPassed
	for _, s := range statuses {
		if status != model.ExecutionPassed {
			if s == model.StepFailed {
				status = model.ExecutionFailed
			}
			continue
		}
		switch s {
		case model.StepFailed:
			status = model.ExecutionFailed
		case model.StepWorkInProgress:
			status = model.ExecutionWorkInProgress
		case model.StepBlocked, model.StepCancelled, model.StepNotExecuted:
			status = model.ExecutionBlocked
		}
	}
	return status
}

// ExecutionService opens executions and records their rolled-up status.
type ExecutionService struct {
	store  ExecutionStore
	logger *zap.Logger
}

// NewExecutionService creates an ExecutionService.
func NewExecutionService(store ExecutionStore, logger *zap.Logger) *ExecutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecutionService{store: store, logger: logger}
}

// Open creates a new execution of issue and loads the step results Zephyr
// prepared for it. When they cannot be loaded the execution is returned
// with StepResultsLoaded unset and no step results.
func (s *ExecutionService) Open(
	ctx context.Context,
	project model.Project,
	version model.Version,
	cycle model.Cycle,
	issue model.Issue,
) (*model.Execution, error) {
	execution, err := s.store.CreateExecution(ctx, project, version, cycle, issue)
	if err == nil && execution == nil {
		err = fmt.Errorf("empty response")
	}
	if err != nil {
		return nil, fmt.Errorf(
			"unable to create execution for project: %d, version: %d, cycle: %d, issue: %d: %w",
			project.ID, version.ID, cycle.ID, issue.ID, err,
		)
	}

	opened := *execution
	opened.StepResults = nil
	opened.StepResultsLoaded = false
	results, err := s.store.FindStepResults(ctx, *execution)
	if err != nil {
		s.logger.Warn("could not load step results",
			zap.Int64("execution_id", execution.ID),
			zap.Error(err),
		)
	} else {
		opened = opened.WithStepResults(results)
	}

	s.logger.Debug("execution opened",
		zap.Int64("execution_id", opened.ID),
		zap.String("issue", issue.Key),
		zap.Int("step_results", len(opened.StepResults)),
	)
	return &opened, nil
}

// SaveStatus aggregates statuses and stores the result on execution.
// The aggregated status is returned even when the write fails.
func (s *ExecutionService) SaveStatus(
	ctx context.Context,
	statuses []model.StepResultStatus,
	execution model.Execution,
) (model.ExecutionStatus, error) {
	status := AggregateStatus(statuses)
	if err := s.store.UpdateExecution(ctx, execution, status); err != nil {
		return status, err
	}
	return status, nil
}
