package jira

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zephyr-reporter/internal/model"
)

func TestMapProject(t *testing.T) {
	got, err := MapProject(Project{
		ID:   "10000",
		Key:  "CALC",
		Name: "Calculator",
		Versions: []Version{
			{ID: "10100", Name: "1.0.0", StartDate: "2019-01-07", ReleaseDate: "2019-02-01", Released: true},
			{ID: "10101", Name: "1.1.0", Archived: true},
		},
	})
	require.NoError(t, err)

	want := model.Project{
		ID:   10000,
		Key:  "CALC",
		Name: "Calculator",
		Versions: []model.Version{
			{
				ID:          10100,
				Name:        "1.0.0",
				StartDate:   time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC),
				ReleaseDate: time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC),
				Released:    true,
			},
			{ID: 10101, Name: "1.1.0", Archived: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapProject mismatch (-want +got):\n%s", diff)
	}
}

func TestMapProject_InvalidVersionID(t *testing.T) {
	_, err := MapProject(Project{ID: "1", Key: "CALC", Versions: []Version{{ID: "abc"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid id "abc"`)
}

func TestMapVersion_InvalidDate(t *testing.T) {
	_, err := MapVersion(Version{ID: "1", Name: "v", StartDate: "07/01/2019"})
	require.Error(t, err)
}

func TestMapIssue(t *testing.T) {
	got, err := MapIssue(Issue{
		ID:  "10201",
		Key: "CALC-12",
		Fields: IssueFields{
			Project: IssueProject{ID: "10000", Key: "CALC", Name: "Calculator"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10201), got.ID)
	assert.Equal(t, "CALC-12", got.Key)
	assert.Equal(t, int64(10000), got.Project.ID)
}

func TestMapIssue_WithoutProject(t *testing.T) {
	got, err := MapIssue(Issue{ID: "7", Key: "CALC-7"})
	require.NoError(t, err)
	assert.Equal(t, model.Project{}, got.Project)
}
