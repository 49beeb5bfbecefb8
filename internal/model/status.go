package model

// ExecutionStatus is the rolled-up outcome of an execution.
type ExecutionStatus int

const (
	ExecutionPassed ExecutionStatus = iota
	ExecutionFailed
	ExecutionWorkInProgress
	ExecutionBlocked
)

func (s ExecutionStatus) String() string {
	switch s {
	case ExecutionPassed:
		return "PASSED"
	case ExecutionFailed:
		return "FAILED"
	case ExecutionWorkInProgress:
		return "WORK_IN_PROGRESS"
	case ExecutionBlocked:
		return "BLOCKED"
	default:
		return "UNKNOWN"
	}
}

// StepResultStatus is the outcome of one test step.
type StepResultStatus int

const (
	StepNotExecuted StepResultStatus = iota
	StepPassed
	StepFailed
	StepWorkInProgress
	StepBlocked
	StepCancelled
)

func (s StepResultStatus) String() string {
	switch s {
	case StepNotExecuted:
		return "NOT_EXECUTED"
	case StepPassed:
		return "PASSED"
	case StepFailed:
		return "FAILED"
	case StepWorkInProgress:
		return "WORK_IN_PROGRESS"
	case StepBlocked:
		return "BLOCKED"
	case StepCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}
