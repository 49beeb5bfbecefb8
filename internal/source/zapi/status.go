package zapi

import (
	"fmt"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// UnknownStatusError reports a status code, or a status enum value,
// outside the mapped domain.
type UnknownStatusError struct {
	Kind string
	Code int
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown %s status found: %d", e.Kind, e.Code)
}

const (
	kindExecution  = "execution"
	kindStepResult = "step result"
)

// Zephyr execution status codes.
var executionCodes = map[model.ExecutionStatus]int{
	model.ExecutionPassed:         1,
	model.ExecutionFailed:         2,
	model.ExecutionWorkInProgress: 3,
	model.ExecutionBlocked:        4,
}

// Zephyr step result status codes.
var stepResultCodes = map[model.StepResultStatus]int{
	model.StepNotExecuted:    -1,
	model.StepPassed:         1,
	model.StepFailed:         2,
	model.StepWorkInProgress: 3,
	model.StepBlocked:        4,
	model.StepCancelled:      5,
}

// ToExecutionStatus maps a Zephyr status code to an execution status.
func ToExecutionStatus(code int) (model.ExecutionStatus, error) {
	for status, c := range executionCodes {
		if c == code {
			return status, nil
		}
	}
	return 0, &UnknownStatusError{Kind: kindExecution, Code: code}
}

// FromExecutionStatus maps an execution status to its Zephyr code.
func FromExecutionStatus(status model.ExecutionStatus) (int, error) {
	code, ok := executionCodes[status]
	if !ok {
		return 0, &UnknownStatusError{Kind: kindExecution, Code: int(status)}
	}
	return code, nil
}

// ToStepResultStatus maps a Zephyr status code to a step result status.
func ToStepResultStatus(code int) (model.StepResultStatus, error) {
	for status, c := range stepResultCodes {
		if c == code {
			return status, nil
		}
	}
	return 0, &UnknownStatusError{Kind: kindStepResult, Code: code}
}

// FromStepResultStatus maps a step result status to its Zephyr code.
func FromStepResultStatus(status model.StepResultStatus) (int, error) {
	code, ok := stepResultCodes[status]
	if !ok {
		return 0, &UnknownStatusError{Kind: kindStepResult, Code: int(status)}
	}
	return code, nil
}
