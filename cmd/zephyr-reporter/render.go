package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/sync"
	"github.com/nhle/zephyr-reporter/internal/theme"
)

// renderSummary prints the outcome of a sync run. summary may be partial
// when runErr is set.
func renderSummary(w io.Writer, summary *sync.RunSummary, runErr error) {
	if summary == nil {
		return
	}

	var b strings.Builder
	b.WriteString(theme.HeaderStyle.Render("Zephyr sync"))
	b.WriteString("\n")

	if summary.Project.Key != "" {
		fmt.Fprintf(&b, "%s %s\n", theme.LabelStyle.Render("Project"), summary.Project.Key)
		fmt.Fprintf(&b, "%s %s (%d)\n", theme.LabelStyle.Render("Version"), summary.Version.Name, summary.Version.ID)
		fmt.Fprintf(&b, "%s %s (%d)\n", theme.LabelStyle.Render("Cycle"), summary.Cycle.Name, summary.Cycle.ID)
	}
	if summary.RunID != "" {
		fmt.Fprintf(&b, "%s %s\n", theme.LabelStyle.Render("Run"), summary.RunID)
	}

	if len(summary.Issues) == 0 {
		b.WriteString(theme.HelpStyle.Render("No tagged scenarios reported."))
		b.WriteString("\n")
	}
	for _, o := range summary.Issues {
		status := o.Status.String()
		fmt.Fprintf(&b, "%-12s %s  %d steps, execution %d",
			o.IssueKey,
			theme.StatusStyle(status).Render(fmt.Sprintf("%-16s", status)),
			o.Steps,
			o.ExecutionID,
		)
		if o.WriteErrors > 0 {
			fmt.Fprintf(&b, ", %s", theme.ErrorStyle.Render(fmt.Sprintf("%d writes failed", o.WriteErrors)))
		}
		b.WriteString("\n")
	}

	if len(summary.Issues) > 0 {
		fmt.Fprintf(&b, "%s %d passed, %d failed, %d in progress, %d blocked\n",
			theme.LabelStyle.Render("Total"),
			summary.Count(model.ExecutionPassed),
			summary.Count(model.ExecutionFailed),
			summary.Count(model.ExecutionWorkInProgress),
			summary.Count(model.ExecutionBlocked),
		)
	}
	if runErr != nil {
		fmt.Fprintf(&b, "%s %s\n", theme.LabelStyle.Render("Error"), theme.ErrorStyle.Render(runErr.Error()))
	}

	fmt.Fprintln(w, theme.PanelStyle.Render(strings.TrimRight(b.String(), "\n")))
}
