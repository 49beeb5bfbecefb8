package zapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// MapTestStep converts a ZAPI test step.
func MapTestStep(s TestStep) model.TestStep {
	return model.TestStep{
		ID:      int64(s.ID),
		OrderID: int(s.OrderID),
		Step:    s.Step,
		Data:    s.Data,
		Result:  s.Result,
	}
}

// MapTestSteps converts a test step list, ordered by OrderID.
func MapTestSteps(l TestStepList) []model.TestStep {
	steps := make([]model.TestStep, 0, len(l.StepBeanCollection))
	for _, s := range l.StepBeanCollection {
		steps = append(steps, MapTestStep(s))
	}
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].OrderID < steps[j].OrderID
	})
	return steps
}

// MapStepResult converts a ZAPI step result. The status code must be a
// known step result code.
func MapStepResult(r StepResult) (model.StepResult, error) {
	status, err := ToStepResultStatus(int(r.Status))
	if err != nil {
		return model.StepResult{}, fmt.Errorf("mapping step result %d: %w", r.ID, err)
	}

	testStepID := r.TestStepID
	if testStepID == 0 {
		testStepID = r.StepID
	}

	comment := r.HTMLComment
	if comment == "" {
		comment = r.Comment
	}

	var executedOn time.Time
	if r.ExecutedOn > 0 {
		executedOn = time.UnixMilli(int64(r.ExecutedOn)).UTC()
	}

	return model.StepResult{
		ID:         int64(r.ID),
		ExecutedOn: executedOn,
		TestStep: model.TestStep{
			ID:      int64(testStepID),
			OrderID: int(r.OrderID),
			Step:    r.Step,
		},
		Status:  status,
		Comment: comment,
	}, nil
}

// MapStepResults converts a list of step results, stopping at the first
// unmappable entry.
func MapStepResults(results []StepResult) ([]model.StepResult, error) {
	mapped := make([]model.StepResult, 0, len(results))
	for _, r := range results {
		sr, err := MapStepResult(r)
		if err != nil {
			return nil, err
		}
		mapped = append(mapped, sr)
	}
	return mapped, nil
}

// MapCycles converts the GET /cycle response, a map keyed by cycle id with
// an extra recordsCount entry. Cycles are returned ordered by id.
func MapCycles(raw map[string]json.RawMessage, version model.Version) ([]model.Cycle, error) {
	cycles := make([]model.Cycle, 0, len(raw))
	for key, data := range raw {
		if key == recordsCountKey {
			continue
		}

		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("mapping cycle: invalid id %q", key)
		}

		var c Cycle
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("mapping cycle %d: %w", id, err)
		}

		cycles = append(cycles, model.Cycle{
			ID:      id,
			Name:    c.Name,
			Version: version,
		})
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].ID < cycles[j].ID
	})
	return cycles, nil
}

// mapCreatedExecution extracts the execution from the POST /execution
// response, a single-entry map keyed by execution id.
func mapCreatedExecution(
	raw map[string]Execution,
	issue model.Issue,
	cycle model.Cycle,
	version model.Version,
) (*model.Execution, error) {
	for key, e := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("mapping execution: invalid id %q", key)
		}
		if e.ID != 0 && int64(e.ID) != id {
			return nil, fmt.Errorf("mapping execution: key %d does not match id %d", id, e.ID)
		}
		return &model.Execution{
			ID:      id,
			Issue:   issue,
			Cycle:   cycle,
			Version: version,
		}, nil
	}
	return nil, nil
}
