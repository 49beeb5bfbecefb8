package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/report"
)

// ErrStepResultsUnavailable is returned by Save when the execution's
// existing step results were never loaded.
var ErrStepResultsUnavailable = errors.New("step results not loaded")

// ReportStepResult maps a Cucumber step result to a step result status.
// Unknown statuses count as failures; a step without a result never ran.
func ReportStepResult(result *report.Result) model.StepResultStatus {
	if result == nil {
		return model.StepNotExecuted
	}

	switch result.Status {
	case report.StatusPassed:
		return model.StepPassed
	case report.StatusUndefined:
		return model.StepWorkInProgress
	case report.StatusSkipped:
		return model.StepNotExecuted
	case report.StatusAmbiguous:
		return model.StepCancelled
	case report.StatusPending:
		return model.StepBlocked
	default:
		return model.StepFailed
	}
}

// StepResultService records step outcomes on an execution.
type StepResultService struct {
	store  ExecutionStore
	logger *zap.Logger
}

// NewStepResultService creates a StepResultService.
func NewStepResultService(store ExecutionStore, logger *zap.Logger) *StepResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StepResultService{store: store, logger: logger}
}

// Save stores status for testStep. The step result Zephyr prepared for the
// execution is updated; one is created when the execution has none. Nothing
// is written for an execution whose step results were not loaded.
func (s *StepResultService) Save(
	ctx context.Context,
	issue model.Issue,
	execution model.Execution,
	testStep model.TestStep,
	status model.StepResultStatus,
) error {
	if !execution.StepResultsLoaded {
		return ErrStepResultsUnavailable
	}
	if existing, ok := execution.StepResultFor(testStep.ID); ok {
		s.logger.Debug("updating step result",
			zap.Int64("step_result_id", existing.ID),
			zap.Stringer("status", status),
		)
		return s.store.UpdateStepResult(ctx, existing, status)
	}

	s.logger.Debug("creating step result",
		zap.Int64("execution_id", execution.ID),
		zap.Int64("test_step_id", testStep.ID),
		zap.Stringer("status", status),
	)
	return s.store.CreateStepResult(ctx, issue, execution, testStep, status)
}
