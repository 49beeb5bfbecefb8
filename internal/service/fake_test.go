package service

import (
	"context"
	"errors"

	"github.com/nhle/zephyr-reporter/internal/model"
)

var errBoom = errors.New("boom")

// fakeZephyr is an in-memory stand-in for the ZAPI client.
type fakeZephyr struct {
	steps     map[int64][]model.TestStep
	nextID    int64
	findErr   error
	createErr error
	deleteErr error

	deleted []int64
	updated []int64

	execution     *model.Execution
	executionErr  error
	stepResults   []model.StepResult
	resultsErr    error
	executionSets []model.ExecutionStatus
	createdSR     []model.StepResultStatus
	updatedSR     map[int64]model.StepResultStatus

	cycles         []model.Cycle
	cyclesErr      error
	createdCycles  []string
	createCycleErr error
}

func newFakeZephyr() *fakeZephyr {
	return &fakeZephyr{
		steps:     make(map[int64][]model.TestStep),
		nextID:    100,
		updatedSR: make(map[int64]model.StepResultStatus),
	}
}

func (f *fakeZephyr) FindTestSteps(_ context.Context, issueID int64) ([]model.TestStep, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return append([]model.TestStep(nil), f.steps[issueID]...), nil
}

func (f *fakeZephyr) CreateTestStep(_ context.Context, issueID int64, step, data, result string) (*model.TestStep, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	ts := model.TestStep{
		ID:      f.nextID,
		OrderID: len(f.steps[issueID]) + 1,
		Step:    step,
		Data:    data,
		Result:  result,
	}
	f.steps[issueID] = append(f.steps[issueID], ts)
	return &ts, nil
}

func (f *fakeZephyr) UpdateTestStep(_ context.Context, issueID, stepID int64, step, data string) (*model.TestStep, error) {
	for i, ts := range f.steps[issueID] {
		if ts.ID == stepID {
			f.steps[issueID][i].Step = step
			f.steps[issueID][i].Data = data
			f.updated = append(f.updated, stepID)
			out := f.steps[issueID][i]
			return &out, nil
		}
	}
	return nil, errBoom
}

func (f *fakeZephyr) DeleteTestStep(_ context.Context, issueID, stepID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.steps[issueID][:0]
	for _, ts := range f.steps[issueID] {
		if ts.ID != stepID {
			kept = append(kept, ts)
		}
	}
	f.steps[issueID] = kept
	f.deleted = append(f.deleted, stepID)
	return nil
}

func (f *fakeZephyr) CreateExecution(
	_ context.Context,
	_ model.Project,
	version model.Version,
	cycle model.Cycle,
	issue model.Issue,
) (*model.Execution, error) {
	if f.executionErr != nil {
		return nil, f.executionErr
	}
	if f.execution == nil {
		return nil, nil
	}
	e := *f.execution
	e.Issue = issue
	e.Cycle = cycle
	e.Version = version
	return &e, nil
}

func (f *fakeZephyr) UpdateExecution(_ context.Context, _ model.Execution, status model.ExecutionStatus) error {
	f.executionSets = append(f.executionSets, status)
	return nil
}

func (f *fakeZephyr) FindStepResults(context.Context, model.Execution) ([]model.StepResult, error) {
	return f.stepResults, f.resultsErr
}

func (f *fakeZephyr) CreateStepResult(
	_ context.Context,
	_ model.Issue,
	_ model.Execution,
	_ model.TestStep,
	status model.StepResultStatus,
) error {
	f.createdSR = append(f.createdSR, status)
	return nil
}

func (f *fakeZephyr) UpdateStepResult(_ context.Context, sr model.StepResult, status model.StepResultStatus) error {
	f.updatedSR[sr.ID] = status
	return nil
}

func (f *fakeZephyr) FindCycles(context.Context, model.Project, model.Version) ([]model.Cycle, error) {
	return f.cycles, f.cyclesErr
}

func (f *fakeZephyr) CreateCycle(_ context.Context, name string, _ model.Project, version model.Version) (*model.Cycle, error) {
	if f.createCycleErr != nil {
		return nil, f.createCycleErr
	}
	f.createdCycles = append(f.createdCycles, name)
	f.nextID++
	c := model.Cycle{ID: f.nextID, Name: name, Version: version}
	f.cycles = append(f.cycles, c)
	return &c, nil
}
