// Package zapi talks to the Zephyr for JIRA REST API (ZAPI): test steps,
// executions, step results and cycles.
package zapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/source"
)

// apiPath is the ZAPI root relative to the JIRA server URL.
const apiPath = "/rest/zapi/latest"

// Service wraps the ZAPI endpoints the reporter needs.
type Service struct {
	client *source.Client
	logger *zap.Logger
}

// NewService creates a ZAPI service for the JIRA server at baseURL.
func NewService(
	baseURL string,
	username string,
	password string,
	logger *zap.Logger,
	opts ...source.Option,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]source.Option{source.WithLogger(logger)}, opts...)
	return &Service{
		client: source.NewClient(source.KindZapi, baseURL+apiPath, username, password, opts...),
		logger: logger,
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// FindTestSteps returns the test steps stored against an issue, ordered
// by OrderID.
func (s *Service) FindTestSteps(ctx context.Context, issueID int64) ([]model.TestStep, error) {
	var list TestStepList
	if err := s.client.Get(ctx, "/teststep/"+itoa(issueID), &list); err != nil {
		return nil, fmt.Errorf("finding test steps for issue %d: %w", issueID, err)
	}

	steps := MapTestSteps(list)
	s.logger.Debug("found test steps",
		zap.Int64("issue_id", issueID),
		zap.Int("count", len(steps)),
	)
	return steps, nil
}

// CreateTestStep appends a test step to an issue.
func (s *Service) CreateTestStep(
	ctx context.Context,
	issueID int64,
	step string,
	data string,
	result string,
) (*model.TestStep, error) {
	s.logger.Debug("creating test step",
		zap.Int64("issue_id", issueID),
		zap.String("step", step),
	)

	var created TestStep
	body := testStepRequest{Step: step, Data: data, Result: result}
	if err := s.client.Post(ctx, "/teststep/"+itoa(issueID), body, &created); err != nil {
		return nil, fmt.Errorf("creating test step for issue %d: %w", issueID, err)
	}

	ts := MapTestStep(created)
	return &ts, nil
}

// UpdateTestStep rewrites the text and data of an existing test step.
func (s *Service) UpdateTestStep(
	ctx context.Context,
	issueID int64,
	stepID int64,
	step string,
	data string,
) (*model.TestStep, error) {
	s.logger.Debug("updating test step",
		zap.Int64("issue_id", issueID),
		zap.Int64("step_id", stepID),
		zap.String("step", step),
	)

	var updated TestStep
	path := "/teststep/" + itoa(issueID) + "/" + itoa(stepID)
	body := testStepRequest{Step: step, Data: data}
	if err := s.client.Put(ctx, path, body, &updated); err != nil {
		return nil, fmt.Errorf("updating test step %d of issue %d: %w", stepID, issueID, err)
	}

	ts := MapTestStep(updated)
	return &ts, nil
}

// DeleteTestStep removes a test step from an issue.
func (s *Service) DeleteTestStep(ctx context.Context, issueID int64, stepID int64) error {
	s.logger.Debug("deleting test step",
		zap.Int64("issue_id", issueID),
		zap.Int64("step_id", stepID),
	)

	path := "/teststep/" + itoa(issueID) + "/" + itoa(stepID)
	if err := s.client.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting test step %d of issue %d: %w", stepID, issueID, err)
	}
	return nil
}

// CreateExecution creates a new execution of issue in the given cycle.
// It returns nil without error when ZAPI answers with an empty body.
func (s *Service) CreateExecution(
	ctx context.Context,
	project model.Project,
	version model.Version,
	cycle model.Cycle,
	issue model.Issue,
) (*model.Execution, error) {
	body := createExecutionRequest{
		CycleID:   itoa(cycle.ID),
		IssueID:   itoa(issue.ID),
		ProjectID: itoa(project.ID),
		VersionID: itoa(version.ID),
	}

	var raw map[string]Execution
	if err := s.client.Post(ctx, "/execution/", body, &raw); err != nil {
		return nil, fmt.Errorf("creating execution for issue %s: %w", issue.Key, err)
	}

	execution, err := mapCreatedExecution(raw, issue, cycle, version)
	if err != nil {
		return nil, err
	}
	if execution != nil {
		s.logger.Debug("created execution",
			zap.Int64("execution_id", execution.ID),
			zap.String("issue", issue.Key),
		)
	}
	return execution, nil
}

// UpdateExecution records the execution status.
func (s *Service) UpdateExecution(
	ctx context.Context,
	execution model.Execution,
	status model.ExecutionStatus,
) error {
	code, err := FromExecutionStatus(status)
	if err != nil {
		return err
	}

	path := "/execution/" + itoa(execution.ID) + "/execute"
	if err := s.client.Put(ctx, path, executeRequest{Status: code}, nil); err != nil {
		return fmt.Errorf("updating execution %d: %w", execution.ID, err)
	}

	s.logger.Debug("execution updated",
		zap.Int64("execution_id", execution.ID),
		zap.Stringer("status", status),
	)
	return nil
}

// FindStepResults returns the step results of an execution.
func (s *Service) FindStepResults(
	ctx context.Context,
	execution model.Execution,
) ([]model.StepResult, error) {
	query := url.Values{"executionId": {itoa(execution.ID)}}

	var raw []StepResult
	if err := s.client.Get(ctx, "/stepResult?"+query.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("finding step results for execution %d: %w", execution.ID, err)
	}

	return MapStepResults(raw)
}

// CreateStepResult records a step result for a test step of an execution.
func (s *Service) CreateStepResult(
	ctx context.Context,
	issue model.Issue,
	execution model.Execution,
	testStep model.TestStep,
	status model.StepResultStatus,
) error {
	code, err := FromStepResultStatus(status)
	if err != nil {
		return err
	}

	body := createStepResultRequest{
		StepID:      itoa(testStep.ID),
		IssueID:     itoa(issue.ID),
		ExecutionID: itoa(execution.ID),
		Status:      strconv.Itoa(code),
	}
	if err := s.client.Post(ctx, "/stepResult", body, nil); err != nil {
		return fmt.Errorf(
			"creating step result for step %d of execution %d: %w",
			testStep.ID, execution.ID, err,
		)
	}
	return nil
}

// UpdateStepResult sets the status of an existing step result.
func (s *Service) UpdateStepResult(
	ctx context.Context,
	stepResult model.StepResult,
	status model.StepResultStatus,
) error {
	code, err := FromStepResultStatus(status)
	if err != nil {
		return err
	}

	path := "/stepResult/" + itoa(stepResult.ID)
	body := updateStepResultRequest{Status: strconv.Itoa(code)}
	if err := s.client.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("updating step result %d: %w", stepResult.ID, err)
	}
	return nil
}

// FindCycles lists the cycles of a project version.
func (s *Service) FindCycles(
	ctx context.Context,
	project model.Project,
	version model.Version,
) ([]model.Cycle, error) {
	query := url.Values{
		"projectId": {itoa(project.ID)},
		"versionId": {itoa(version.ID)},
	}

	var raw map[string]json.RawMessage
	if err := s.client.Get(ctx, "/cycle?"+query.Encode(), &raw); err != nil {
		return nil, fmt.Errorf(
			"finding cycles for project %d version %d: %w",
			project.ID, version.ID, err,
		)
	}

	return MapCycles(raw, version)
}

// CreateCycle creates a named cycle in a project version.
func (s *Service) CreateCycle(
	ctx context.Context,
	name string,
	project model.Project,
	version model.Version,
) (*model.Cycle, error) {
	s.logger.Debug("creating cycle",
		zap.String("name", name),
		zap.Int64("project_id", project.ID),
		zap.Int64("version_id", version.ID),
	)

	body := createCycleRequest{
		Name:      name,
		ProjectID: itoa(project.ID),
		VersionID: itoa(version.ID),
	}

	var resp createCycleResponse
	if err := s.client.Post(ctx, "/cycle", body, &resp); err != nil {
		return nil, fmt.Errorf("creating cycle %q: %w", name, err)
	}
	if resp.ID == 0 {
		return nil, fmt.Errorf("creating cycle %q: no id in response", name)
	}

	return &model.Cycle{
		ID:      int64(resp.ID),
		Name:    name,
		Version: version,
	}, nil
}
