package model

import "time"

// Unscheduled version sentinel. Zephyr files executions that are not tied
// to a release under this pseudo-version.
const (
	UnscheduledVersionID   int64 = -1
	UnscheduledVersionName       = "Unscheduled"
)

// Project is a JIRA project together with its release versions.
type Project struct {
	ID       int64     `json:"id"`
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Versions []Version `json:"versions,omitempty"`
}

// Version is a JIRA release version of a project.
type Version struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date,omitempty"`
	ReleaseDate time.Time `json:"release_date,omitempty"`
	Archived    bool      `json:"archived"`
	Released    bool      `json:"released"`
}

// UnscheduledVersion returns the pseudo-version used when a run is not
// reported against a real release.
func UnscheduledVersion() Version {
	return Version{
		ID:   UnscheduledVersionID,
		Name: UnscheduledVersionName,
	}
}

// IsUnscheduled reports whether v is the unscheduled pseudo-version.
func (v Version) IsUnscheduled() bool {
	return v.ID == UnscheduledVersionID
}
