package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/store"
	"github.com/nhle/zephyr-reporter/tests/testutil"
)

func TestCreateRun_AssignsIDAndRunningStatus(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.Run{
		ProjectKey: "CALC",
		VersionID:  -1,
		CycleID:    -1,
		ReportPath: "report.json",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.False(t, run.StartedAt.IsZero())
	assert.Nil(t, run.FinishedAt)

	runs, err := s.GetRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "CALC", runs[0].ProjectKey)
	assert.Equal(t, int64(-1), runs[0].CycleID)
	assert.Nil(t, runs[0].FinishedAt)
}

func TestFinishRun(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.Run{ProjectKey: "CALC"})
	require.NoError(t, err)

	finished := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.FinishRun(ctx, run.ID, model.RunStatusFailed, errors.New("issue not found"), finished))

	runs, err := s.GetRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.Equal(t, "issue not found", runs[0].Error)
	require.NotNil(t, runs[0].FinishedAt)
	assert.True(t, finished.Equal(*runs[0].FinishedAt))
}

func TestFinishRun_UnknownRun(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.FinishRun(context.Background(), "missing", model.RunStatusSucceeded, nil, time.Now())
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestGetRuns_NewestFirstWithLimit(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i, key := range []string{"OLD", "MID", "NEW"} {
		_, err := s.CreateRun(ctx, model.Run{
			ProjectKey: key,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	runs, err := s.GetRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "NEW", runs[0].ProjectKey)
	assert.Equal(t, "MID", runs[1].ProjectKey)
}

func TestRecordIssue(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.Run{ProjectKey: "CALC"})
	require.NoError(t, err)
	require.NoError(t, s.UpdateRunTarget(ctx, run.ID, 10000, 42))

	for _, ri := range []model.RunIssue{
		{RunID: run.ID, IssueKey: "CALC-12", ExecutionID: 7, Status: "PASSED", Steps: 3},
		{RunID: run.ID, IssueKey: "CALC-13", ExecutionID: 8, Status: "FAILED", Steps: 2},
	} {
		require.NoError(t, s.RecordIssue(ctx, ri))
	}

	issues, err := s.GetRunIssues(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "CALC-12", issues[0].IssueKey)
	assert.Equal(t, int64(7), issues[0].ExecutionID)
	assert.Equal(t, "FAILED", issues[1].Status)
	assert.Equal(t, 2, issues[1].Steps)

	runs, err := s.GetRuns(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), runs[0].VersionID)
	assert.Equal(t, int64(42), runs[0].CycleID)
}

func TestRecordIssue_UnknownRunRejected(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.RecordIssue(context.Background(), model.RunIssue{RunID: "missing", IssueKey: "CALC-1", Status: "PASSED"})
	assert.Error(t, err)
}
