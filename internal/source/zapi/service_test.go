package zapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/source"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewService(server.URL, "reporter", "secret", nil,
		source.WithHTTPClient(server.Client()))
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestService_FindTestSteps(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/zapi/latest/teststep/10201" && r.Method == http.MethodGet {
			w.Write([]byte(`{"stepBeanCollection":[
				{"id":88,"orderId":2,"step":"When I divide"},
				{"id":87,"orderId":1,"step":"Given a calculator"}
			]}`))
			return
		}
		http.NotFound(w, r)
	})

	steps, err := svc.FindTestSteps(context.Background(), 10201)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, int64(87), steps[0].ID)
	assert.Equal(t, "When I divide", steps[1].Step)
}

func TestService_TestStepWrites(t *testing.T) {
	var calls []string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/rest/zapi/latest/teststep/10201":
			body := decodeBody(t, r)
			assert.Equal(t, "Given a calculator", body["step"])
			w.Write([]byte(`{"id":90,"orderId":1,"step":"Given a calculator"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/rest/zapi/latest/teststep/10201/90":
			body := decodeBody(t, r)
			assert.Equal(t, "Given two calculators", body["step"])
			w.Write([]byte(`{"id":90,"orderId":1,"step":"Given two calculators"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/rest/zapi/latest/teststep/10201/90":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	created, err := svc.CreateTestStep(ctx, 10201, "Given a calculator", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(90), created.ID)

	updated, err := svc.UpdateTestStep(ctx, 10201, 90, "Given two calculators", "")
	require.NoError(t, err)
	assert.Equal(t, "Given two calculators", updated.Step)

	require.NoError(t, svc.DeleteTestStep(ctx, 10201, 90))
	assert.Equal(t, []string{
		"POST /rest/zapi/latest/teststep/10201",
		"PUT /rest/zapi/latest/teststep/10201/90",
		"DELETE /rest/zapi/latest/teststep/10201/90",
	}, calls)
}

func TestService_CreateExecution(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/rest/zapi/latest/execution/" {
			body := decodeBody(t, r)
			assert.Equal(t, map[string]interface{}{
				"cycleId":   "-1",
				"issueId":   "10201",
				"projectId": "10000",
				"versionId": "-1",
			}, body)
			w.Write([]byte(`{"321":{"id":321,"issueId":10201,"issueKey":"CALC-12"}}`))
			return
		}
		http.NotFound(w, r)
	})

	version := model.UnscheduledVersion()
	execution, err := svc.CreateExecution(
		context.Background(),
		model.Project{ID: 10000, Key: "CALC"},
		version,
		model.AdhocCycle(version),
		model.Issue{ID: 10201, Key: "CALC-12"},
	)
	require.NoError(t, err)
	require.NotNil(t, execution)
	assert.Equal(t, int64(321), execution.ID)
	assert.Equal(t, "CALC-12", execution.Issue.Key)
}

func TestService_UpdateExecution(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/rest/zapi/latest/execution/321/execute" {
			body := decodeBody(t, r)
			assert.Equal(t, float64(2), body["status"])
			w.Write([]byte(`{}`))
			return
		}
		http.NotFound(w, r)
	})

	err := svc.UpdateExecution(context.Background(), model.Execution{ID: 321}, model.ExecutionFailed)
	require.NoError(t, err)
}

func TestService_StepResults(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/zapi/latest/stepResult":
			assert.Equal(t, "321", r.URL.Query().Get("executionId"))
			w.Write([]byte(`[{"id":501,"executionId":321,"stepId":87,"orderId":1,"status":"-1"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/zapi/latest/stepResult":
			body := decodeBody(t, r)
			assert.Equal(t, map[string]interface{}{
				"stepId":      "88",
				"issueId":     "10201",
				"executionId": "321",
				"status":      "3",
			}, body)
			w.Write([]byte(`{"id":502}`))
		case r.Method == http.MethodPut && r.URL.Path == "/rest/zapi/latest/stepResult/501":
			body := decodeBody(t, r)
			assert.Equal(t, "1", body["status"])
			w.Write([]byte(`{"id":501}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()
	execution := model.Execution{ID: 321}

	results, err := svc.FindStepResults(ctx, execution)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(87), results[0].TestStep.ID)
	assert.Equal(t, model.StepNotExecuted, results[0].Status)

	require.NoError(t, svc.UpdateStepResult(ctx, results[0], model.StepPassed))
	require.NoError(t, svc.CreateStepResult(ctx,
		model.Issue{ID: 10201}, execution, model.TestStep{ID: 88}, model.StepWorkInProgress))
}

func TestService_Cycles(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/zapi/latest/cycle":
			assert.Equal(t, "10000", r.URL.Query().Get("projectId"))
			assert.Equal(t, "10100", r.URL.Query().Get("versionId"))
			w.Write([]byte(`{"7":{"name":"calculator"},"recordsCount":1}`))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/zapi/latest/cycle":
			body := decodeBody(t, r)
			assert.Equal(t, "nightly", body["name"])
			w.Write([]byte(`{"id":"8","responseMessage":"Cycle 8 created successfully."}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()
	project := model.Project{ID: 10000}
	version := model.Version{ID: 10100}

	cycles, err := svc.FindCycles(ctx, project, version)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, "calculator", cycles[0].Name)

	cycle, err := svc.CreateCycle(ctx, "nightly", project, version)
	require.NoError(t, err)
	assert.Equal(t, int64(8), cycle.ID)
	assert.Equal(t, version, cycle.Version)
}

func TestService_ErrorsAreWrapped(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errorDesc":"ZAPI is unavailable"}`))
	})

	_, err := svc.FindTestSteps(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finding test steps for issue 1")
	assert.Contains(t, err.Error(), "ZAPI is unavailable")
}
