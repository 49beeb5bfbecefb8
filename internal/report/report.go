// Package report reads the Cucumber JSON report produced by a test run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nhle/zephyr-reporter/internal/crossref"
)

// Cucumber step statuses.
const (
	StatusPassed    = "passed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
	StatusPending   = "pending"
	StatusUndefined = "undefined"
	StatusAmbiguous = "ambiguous"
)

// elementTypeScenario marks feature elements that are scenarios, as
// opposed to backgrounds.
const elementTypeScenario = "scenario"

// Feature is one feature file of the report.
type Feature struct {
	ID          string     `json:"id"`
	URI         string     `json:"uri"`
	Keyword     string     `json:"keyword"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Line        int        `json:"line"`
	Tags        []Tag      `json:"tags,omitempty"`
	Elements    []Scenario `json:"elements"`
}

// Scenario is a feature element. Only elements of type "scenario" are
// synchronized.
type Scenario struct {
	ID          string  `json:"id"`
	Keyword     string  `json:"keyword"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type"`
	Line        int     `json:"line"`
	Tags        []Tag   `json:"tags,omitempty"`
	Steps       []Step  `json:"steps"`
	Result      *Result `json:"result,omitempty"`
}

// Step is a scenario step. Hook steps (Before/After) are marked hidden.
type Step struct {
	Keyword   string     `json:"keyword"`
	Name      string     `json:"name,omitempty"`
	Line      int        `json:"line,omitempty"`
	Hidden    bool       `json:"hidden,omitempty"`
	Result    *Result    `json:"result,omitempty"`
	Match     *Match     `json:"match,omitempty"`
	Arguments []Argument `json:"arguments,omitempty"`
}

// Result is the outcome of a step. Duration is in nanoseconds.
type Result struct {
	Status       string `json:"status"`
	Duration     int64  `json:"duration,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Tag is a Gherkin tag including its leading '@'.
type Tag struct {
	Name string `json:"name"`
	Line int    `json:"line,omitempty"`
}

// Match locates the step definition that ran a step.
type Match struct {
	Location string `json:"location"`
}

// Argument is a doc string or data table attached to a step.
type Argument struct {
	Content string `json:"content,omitempty"`
	Line    int    `json:"line,omitempty"`
	Rows    []Row  `json:"rows,omitempty"`
}

// Row is one data table row.
type Row struct {
	Cells []string `json:"cells"`
}

// Read parses the report file at path.
func Read(path string) ([]Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report %s: %w", path, err)
	}
	defer f.Close()

	features, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}
	return features, nil
}

// Decode parses a report from r.
func Decode(r io.Reader) ([]Feature, error) {
	var features []Feature
	if err := json.NewDecoder(r).Decode(&features); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return features, nil
}

// Scenarios returns the elements of f that are scenarios.
func (f Feature) Scenarios() []Scenario {
	scenarios := make([]Scenario, 0, len(f.Elements))
	for _, el := range f.Elements {
		if el.Type == elementTypeScenario {
			scenarios = append(scenarios, el)
		}
	}
	return scenarios
}

// VisibleSteps returns the feature-file steps of s, dropping hooks.
func (s Scenario) VisibleSteps() []Step {
	steps := make([]Step, 0, len(s.Steps))
	for _, st := range s.Steps {
		if !st.Hidden {
			steps = append(steps, st)
		}
	}
	return steps
}

// IssueKeys returns the JIRA issue keys of project prefix tagged on s,
// i.e. the names of "@<prefix>-<n>" tags without the '@'.
func (s Scenario) IssueKeys(prefix string) []string {
	names := make([]string, 0, len(s.Tags))
	for _, tag := range s.Tags {
		names = append(names, tag.Name)
	}
	return crossref.TagIssueKeys(names, prefix)
}

// Text is the step as stored in Zephyr: keyword followed by name.
func (st Step) Text() string {
	return st.Keyword + st.Name
}
