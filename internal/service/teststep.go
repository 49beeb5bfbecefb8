package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/report"
)

// TestStepService converges the test steps stored in Zephyr on the steps
// of a feature-file scenario.
type TestStepService struct {
	store  TestStepStore
	logger *zap.Logger
}

// NewTestStepService creates a TestStepService.
func NewTestStepService(store TestStepStore, logger *zap.Logger) *TestStepService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestStepService{store: store, logger: logger}
}

// ReconcileResult counts the writes a reconciliation performed.
type ReconcileResult struct {
	Steps     []model.TestStep
	Created   int
	Updated   int
	Deleted   int
	Unchanged int
}

// Reconcile makes the issue's stored test steps match the visible steps
// of scenario and returns them in scenario order.
//
// Matching is positional: the stored step with OrderID i+1 corresponds to
// scenario step i and is kept only if its text equals keyword+name
// exactly. Stored steps past the end of the scenario are deleted, a
// differing step is updated in place and a missing one is created.
//
// Hidden Before and After hook steps are never stored as test steps. A
// stored step that once held a hook is overwritten or deleted like any
// other step that no longer matches.
func (s *TestStepService) Reconcile(
	ctx context.Context,
	issue model.Issue,
	scenario report.Scenario,
) (*ReconcileResult, error) {
	stored, err := s.store.FindTestSteps(ctx, issue.ID)
	if err != nil {
		s.logger.Warn("could not load test steps, treating issue as empty",
			zap.String("issue", issue.Key),
			zap.Error(err),
		)
		stored = nil
	}

	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].OrderID < stored[j].OrderID
	})

	steps := scenario.VisibleSteps()
	result := &ReconcileResult{Steps: make([]model.TestStep, len(steps))}

	kept := stored
	if len(stored) > len(steps) {
		kept = stored[:len(steps)]
		for _, extra := range stored[len(steps):] {
			if err := s.store.DeleteTestStep(ctx, issue.ID, extra.ID); err != nil {
				s.logger.Error("could not delete test step",
					zap.String("issue", issue.Key),
					zap.Int64("step_id", extra.ID),
					zap.Error(err),
				)
				continue
			}
			result.Deleted++
		}
	}

	byOrder := make(map[int]model.TestStep, len(kept))
	for _, ts := range kept {
		byOrder[ts.OrderID] = ts
	}

	for i, step := range steps {
		text := step.Text()
		existing, ok := byOrder[i+1]

		switch {
		case ok && existing.Step == text:
			result.Steps[i] = existing
			result.Unchanged++

		case ok:
			updated, err := s.store.UpdateTestStep(ctx, issue.ID, existing.ID, text, existing.Data)
			if err != nil {
				return nil, fmt.Errorf("unable to save test step %d of %s: %w", i+1, issue.Key, err)
			}
			result.Steps[i] = persisted(updated, existing.ID, i+1, text)
			result.Updated++

		default:
			created, err := s.store.CreateTestStep(ctx, issue.ID, text, "", "")
			if err != nil {
				return nil, fmt.Errorf("unable to save test step %d of %s: %w", i+1, issue.Key, err)
			}
			if created == nil {
				return nil, fmt.Errorf("unable to save test step %d of %s: empty response", i+1, issue.Key)
			}
			result.Steps[i] = persisted(created, created.ID, i+1, text)
			result.Created++
		}
	}

	s.logger.Info("test steps reconciled",
		zap.String("issue", issue.Key),
		zap.Int("steps", len(steps)),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted),
	)
	return result, nil
}

// persisted fills in what ZAPI leaves out of a write response.
func persisted(ts *model.TestStep, id int64, order int, text string) model.TestStep {
	if ts == nil {
		return model.TestStep{ID: id, OrderID: order, Step: text}
	}
	out := *ts
	if out.ID == 0 {
		out.ID = id
	}
	if out.OrderID == 0 {
		out.OrderID = order
	}
	return out
}
