package jira

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// dateLayout is the layout of version start and release dates.
const dateLayout = "2006-01-02"

// MapProject converts a JIRA project to the domain model.
func MapProject(p Project) (model.Project, error) {
	id, err := parseID(p.ID)
	if err != nil {
		return model.Project{}, fmt.Errorf("mapping project %s: %w", p.Key, err)
	}

	versions := make([]model.Version, 0, len(p.Versions))
	for _, v := range p.Versions {
		version, err := MapVersion(v)
		if err != nil {
			return model.Project{}, fmt.Errorf("mapping project %s: %w", p.Key, err)
		}
		versions = append(versions, version)
	}

	return model.Project{
		ID:       id,
		Key:      p.Key,
		Name:     p.Name,
		Versions: versions,
	}, nil
}

// MapVersion converts a JIRA version. Missing dates stay zero.
func MapVersion(v Version) (model.Version, error) {
	id, err := parseID(v.ID)
	if err != nil {
		return model.Version{}, fmt.Errorf("mapping version %q: %w", v.Name, err)
	}

	startDate, err := parseDate(v.StartDate)
	if err != nil {
		return model.Version{}, fmt.Errorf("mapping version %q start date: %w", v.Name, err)
	}
	releaseDate, err := parseDate(v.ReleaseDate)
	if err != nil {
		return model.Version{}, fmt.Errorf("mapping version %q release date: %w", v.Name, err)
	}

	return model.Version{
		ID:          id,
		Name:        v.Name,
		StartDate:   startDate,
		ReleaseDate: releaseDate,
		Archived:    v.Archived,
		Released:    v.Released,
	}, nil
}

// MapIssue converts a JIRA issue. Only the project reference embedded in
// the issue is carried; it has no versions.
func MapIssue(i Issue) (model.Issue, error) {
	id, err := parseID(i.ID)
	if err != nil {
		return model.Issue{}, fmt.Errorf("mapping issue %s: %w", i.Key, err)
	}

	issue := model.Issue{ID: id, Key: i.Key}
	if i.Fields.Project.ID != "" {
		projectID, err := parseID(i.Fields.Project.ID)
		if err != nil {
			return model.Issue{}, fmt.Errorf("mapping issue %s project: %w", i.Key, err)
		}
		issue.Project = model.Project{
			ID:   projectID,
			Key:  i.Fields.Project.Key,
			Name: i.Fields.Project.Name,
		}
	}
	return issue, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}
