// Package service holds the reporter's decision logic: converging stored
// test steps on a scenario, choosing the version and cycle to report
// under, and rolling step outcomes up into an execution status.
package service

import (
	"context"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// TestStepStore reads and writes the test steps stored against an issue.
type TestStepStore interface {
	FindTestSteps(ctx context.Context, issueID int64) ([]model.TestStep, error)
	CreateTestStep(ctx context.Context, issueID int64, step, data, result string) (*model.TestStep, error)
	UpdateTestStep(ctx context.Context, issueID, stepID int64, step, data string) (*model.TestStep, error)
	DeleteTestStep(ctx context.Context, issueID, stepID int64) error
}

// ExecutionStore creates executions and records their outcomes.
type ExecutionStore interface {
	CreateExecution(
		ctx context.Context,
		project model.Project,
		version model.Version,
		cycle model.Cycle,
		issue model.Issue,
	) (*model.Execution, error)
	UpdateExecution(ctx context.Context, execution model.Execution, status model.ExecutionStatus) error
	FindStepResults(ctx context.Context, execution model.Execution) ([]model.StepResult, error)
	CreateStepResult(
		ctx context.Context,
		issue model.Issue,
		execution model.Execution,
		testStep model.TestStep,
		status model.StepResultStatus,
	) error
	UpdateStepResult(ctx context.Context, stepResult model.StepResult, status model.StepResultStatus) error
}

// CycleStore lists and creates test cycles.
type CycleStore interface {
	FindCycles(ctx context.Context, project model.Project, version model.Version) ([]model.Cycle, error)
	CreateCycle(ctx context.Context, name string, project model.Project, version model.Version) (*model.Cycle, error)
}
