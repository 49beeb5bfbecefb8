package jira

// Project is the response from GET /rest/api/2/project/{projectIdOrKey}.
type Project struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Self     string    `json:"self,omitempty"`
	Versions []Version `json:"versions"`
}

// Version is a release version as embedded in a project. Dates use the
// YYYY-MM-DD layout.
type Version struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Archived    bool   `json:"archived"`
	Released    bool   `json:"released"`
	ProjectID   int64  `json:"projectId,omitempty"`
}

// Issue is the response from GET /rest/api/2/issue/{issueIdOrKey}.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self,omitempty"`
	Fields IssueFields `json:"fields"`
}

// IssueFields holds the issue fields the reporter reads.
type IssueFields struct {
	Summary string       `json:"summary"`
	Project IssueProject `json:"project"`
}

// IssueProject is the project reference embedded in an issue.
type IssueProject struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Myself is the response from GET /rest/api/2/myself.
type Myself struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}
