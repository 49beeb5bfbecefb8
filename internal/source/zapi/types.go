package zapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Number is an integer that ZAPI sends either as a JSON number or as a
// numeric string, depending on the endpoint.
type Number int64

// UnmarshalJSON accepts 12, "12", "" and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("zapi: invalid number %q", s)
		}
		*n = Number(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("zapi: invalid number %s", string(data))
	}
	*n = Number(v)
	return nil
}

// TestStep is a test step bean from /teststep.
type TestStep struct {
	ID      Number `json:"id"`
	OrderID Number `json:"orderId"`
	Step    string `json:"step"`
	Data    string `json:"data"`
	Result  string `json:"result"`
}

// TestStepList is the response from GET /teststep/{issueId}.
type TestStepList struct {
	StepBeanCollection []TestStep `json:"stepBeanCollection"`
}

// UnmarshalJSON accepts both the wrapped collection and a bare array,
// which older ZAPI releases return.
func (l *TestStepList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &l.StepBeanCollection)
	}
	type plain TestStepList
	return json.Unmarshal(data, (*plain)(l))
}

// testStepRequest is the body for creating or updating a test step.
type testStepRequest struct {
	Step   string `json:"step"`
	Data   string `json:"data,omitempty"`
	Result string `json:"result,omitempty"`
}

// StepResult is a step result bean from /stepResult.
type StepResult struct {
	ID          Number `json:"id"`
	ExecutionID Number `json:"executionId"`
	StepID      Number `json:"stepId"`
	TestStepID  Number `json:"testStepId"`
	OrderID     Number `json:"orderId"`
	Step        string `json:"step"`
	Status      Number `json:"status"`
	Comment     string `json:"comment"`
	HTMLComment string `json:"htmlComment"`
	ExecutedOn  Number `json:"executedOn"`
}

// createStepResultRequest is the body for POST /stepResult. ZAPI expects
// every value as a string.
type createStepResultRequest struct {
	StepID      string `json:"stepId"`
	IssueID     string `json:"issueId"`
	ExecutionID string `json:"executionId"`
	Status      string `json:"status"`
}

// updateStepResultRequest is the body for PUT /stepResult/{id}.
type updateStepResultRequest struct {
	Status string `json:"status"`
}

// Execution is an execution bean as returned when creating an execution.
type Execution struct {
	ID        Number `json:"id"`
	IssueID   Number `json:"issueId"`
	IssueKey  string `json:"issueKey"`
	CycleID   Number `json:"cycleId"`
	VersionID Number `json:"versionId"`
	ProjectID Number `json:"projectId"`
}

// createExecutionRequest is the body for POST /execution.
type createExecutionRequest struct {
	CycleID   string `json:"cycleId"`
	IssueID   string `json:"issueId"`
	ProjectID string `json:"projectId"`
	VersionID string `json:"versionId"`
}

// executeRequest is the body for PUT /execution/{id}/execute.
type executeRequest struct {
	Status int `json:"status"`
}

// Cycle is a cycle bean from GET /cycle. The id is the key of the
// enclosing map.
type Cycle struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	VersionID   Number `json:"versionId"`
	ProjectID   Number `json:"projectId"`
	Build       string `json:"build"`
	Environment string `json:"environment"`
}

// recordsCountKey is the non-cycle entry of the GET /cycle response.
const recordsCountKey = "recordsCount"

// createCycleRequest is the body for POST /cycle.
type createCycleRequest struct {
	Name      string `json:"name"`
	ProjectID string `json:"projectId"`
	VersionID string `json:"versionId"`
}

// createCycleResponse is the response from POST /cycle.
type createCycleResponse struct {
	ID              Number `json:"id"`
	ResponseMessage string `json:"responseMessage"`
}
