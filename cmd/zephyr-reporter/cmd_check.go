package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/zephyr-reporter/internal/theme"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the JIRA connection and project",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tracker, _ := newServices(cfg)
	out := cmd.OutOrStdout()

	name, err := tracker.Myself(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s as %s\n", theme.LabelStyle.Render("JIRA"), cfg.BaseURL(), name)

	project, err := tracker.FindProject(cmd.Context(), cfg.ProjectPrefix)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %s not found", cfg.ProjectPrefix)
	}
	fmt.Fprintf(out, "%s %s (%s), %d versions\n",
		theme.LabelStyle.Render("Project"), project.Key, project.Name, len(project.Versions))

	return nil
}
