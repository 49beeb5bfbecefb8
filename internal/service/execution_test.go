package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zephyr-reporter/internal/model"
)

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []model.StepResultStatus
		want     model.ExecutionStatus
	}{
		{"empty", nil, model.ExecutionPassed},
		{"all passed", []model.StepResultStatus{model.StepPassed, model.StepPassed}, model.ExecutionPassed},
		{"one failed", []model.StepResultStatus{model.StepPassed, model.StepFailed}, model.ExecutionFailed},
		{"work in progress", []model.StepResultStatus{model.StepPassed, model.StepWorkInProgress}, model.ExecutionWorkInProgress},
		{"failure after wip", []model.StepResultStatus{model.StepWorkInProgress, model.StepFailed}, model.ExecutionFailed},
		{"blocked", []model.StepResultStatus{model.StepBlocked}, model.ExecutionBlocked},
		{"cancelled", []model.StepResultStatus{model.StepCancelled}, model.ExecutionBlocked},
		{"skipped", []model.StepResultStatus{model.StepPassed, model.StepNotExecuted}, model.ExecutionBlocked},
		{"failed is sticky", []model.StepResultStatus{model.StepFailed, model.StepPassed, model.StepWorkInProgress}, model.ExecutionFailed},
		{"blocked then wip", []model.StepResultStatus{model.StepBlocked, model.StepWorkInProgress}, model.ExecutionBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateStatus(tt.statuses))
		})
	}
}

func TestExecutionService_Open(t *testing.T) {
	store := newFakeZephyr()
	store.execution = &model.Execution{ID: 77}
	store.stepResults = []model.StepResult{{ID: 5, TestStep: model.TestStep{ID: 1}}}
	svc := NewExecutionService(store, nil)

	version := model.UnscheduledVersion()
	got, err := svc.Open(context.Background(), model.Project{ID: 1}, version, model.AdhocCycle(version), issue)
	require.NoError(t, err)

	assert.Equal(t, int64(77), got.ID)
	assert.Equal(t, issue.Key, got.Issue.Key)
	assert.True(t, got.StepResultsLoaded)
	require.Len(t, got.StepResults, 1)
	assert.Equal(t, int64(5), got.StepResults[0].ID)
}

func TestExecutionService_OpenFailures(t *testing.T) {
	version := model.UnscheduledVersion()
	cycle := model.AdhocCycle(version)

	t.Run("create error", func(t *testing.T) {
		store := newFakeZephyr()
		store.executionErr = errBoom
		_, err := NewExecutionService(store, nil).Open(context.Background(), model.Project{ID: 1}, version, cycle, issue)
		require.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "unable to create execution for project: 1, version: -1, cycle: -1, issue: 10")
	})

	t.Run("empty response", func(t *testing.T) {
		store := newFakeZephyr()
		_, err := NewExecutionService(store, nil).Open(context.Background(), model.Project{ID: 1}, version, cycle, issue)
		require.Error(t, err)
	})

	t.Run("step results unavailable", func(t *testing.T) {
		store := newFakeZephyr()
		store.execution = &model.Execution{ID: 77}
		store.resultsErr = errBoom
		got, err := NewExecutionService(store, nil).Open(context.Background(), model.Project{ID: 1}, version, cycle, issue)
		require.NoError(t, err)
		assert.False(t, got.StepResultsLoaded)
		assert.Empty(t, got.StepResults)

		step := model.TestStep{ID: 1, OrderID: 1}
		err = NewStepResultService(store, nil).Save(context.Background(), issue, *got, step, model.StepPassed)
		require.ErrorIs(t, err, ErrStepResultsUnavailable)
		assert.Empty(t, store.createdSR)
	})
}

func TestExecutionService_SaveStatus(t *testing.T) {
	store := newFakeZephyr()
	svc := NewExecutionService(store, nil)

	got, err := svc.SaveStatus(context.Background(),
		[]model.StepResultStatus{model.StepPassed, model.StepFailed},
		model.Execution{ID: 77},
	)
	require.NoError(t, err)
	assert.Equal(t, model.ExecutionFailed, got)
	assert.Equal(t, []model.ExecutionStatus{model.ExecutionFailed}, store.executionSets)
}
