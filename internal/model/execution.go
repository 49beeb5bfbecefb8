package model

import "time"

// Execution is one recorded run of an issue's test steps against a cycle
// and version.
type Execution struct {
	ID          int64        `json:"id"`
	Issue       Issue        `json:"issue"`
	Cycle       Cycle        `json:"cycle"`
	Version     Version      `json:"version"`
	StepResults []StepResult `json:"step_results,omitempty"`
	// StepResultsLoaded is false until the execution's step results have
	// been fetched; an empty StepResults then means none exist.
	StepResultsLoaded bool `json:"-"`
}

// WithStepResults returns a copy of e holding the given step results and
// marks them loaded.
func (e Execution) WithStepResults(results []StepResult) Execution {
	e.StepResults = append([]StepResult(nil), results...)
	e.StepResultsLoaded = true
	return e
}

// StepResultFor returns the step result recorded for the test step with
// the given id, if any.
func (e Execution) StepResultFor(testStepID int64) (StepResult, bool) {
	for _, sr := range e.StepResults {
		if sr.TestStep.ID == testStepID {
			return sr, true
		}
	}
	return StepResult{}, false
}

// StepResult is the outcome of a single test step within an execution.
type StepResult struct {
	ID         int64            `json:"id"`
	ExecutedOn time.Time        `json:"executed_on,omitempty"`
	TestStep   TestStep         `json:"test_step"`
	Status     StepResultStatus `json:"status"`
	Comment    string           `json:"comment,omitempty"`
}
