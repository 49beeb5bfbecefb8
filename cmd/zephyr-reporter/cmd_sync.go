package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/zephyr-reporter/internal/report"
	"github.com/nhle/zephyr-reporter/internal/source"
	"github.com/nhle/zephyr-reporter/internal/source/jira"
	"github.com/nhle/zephyr-reporter/internal/source/zapi"
	"github.com/nhle/zephyr-reporter/internal/store"
	"github.com/nhle/zephyr-reporter/internal/sync"
	"github.com/nhle/zephyr-reporter/internal/theme"
)

var (
	_ sync.Tracker = (*jira.Service)(nil)
	_ sync.Zephyr  = (*zapi.Service)(nil)
)

// errExecutionsFailed is returned by sync --strict when any execution failed.
var errExecutionsFailed = errors.New("one or more executions failed")

var syncFlags struct {
	noHistory bool
	strict    bool
}

var syncCmd = &cobra.Command{
	Use:   "sync [report.json]",
	Short: "Report a Cucumber JSON report to Zephyr",
	Long: `Read the Cucumber JSON report (default: the configured report path) and,
for every scenario tagged with an issue of the configured project, update the
issue's test steps and record a new execution with one result per step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	f := syncCmd.Flags()
	f.BoolVar(&syncFlags.noHistory, "no-history", false, "Do not record the run in the local history")
	f.BoolVar(&syncFlags.strict, "strict", false, "Exit non-zero when any execution failed")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.ReportPath
	if len(args) == 1 {
		path = args[0]
	}

	features, err := report.Read(path)
	if err != nil {
		return err
	}
	logger.Debug("report loaded", zap.String("path", path), zap.Int("features", len(features)))

	tracker, zephyr := newServices(cfg)
	opts := sync.Options{
		ReportPath: path,
		Logger:     logger.Named("sync"),
	}

	if cfg.HistoryDB != "" && !syncFlags.noHistory {
		st, err := store.NewSQLiteStore(cfg.HistoryDB)
		if err != nil {
			logger.Warn("run history disabled", zap.String("path", cfg.HistoryDB), zap.Error(err))
		} else {
			defer st.Close()
			opts.Recorder = st
		}
	}

	summary, runErr := sync.New(tracker, zephyr, *cfg, opts).Run(cmd.Context(), features)
	renderSummary(cmd.OutOrStdout(), summary, runErr)

	if runErr != nil {
		if source.IsAuthError(runErr) {
			fmt.Fprintln(cmd.ErrOrStderr(), theme.HelpStyle.Render(
				"Set REPORTER_PASSWORD or run 'zephyr-reporter login' to store the password."))
		}
		return fmt.Errorf("sync: %w", runErr)
	}
	if syncFlags.strict && summary.Failed() {
		return errExecutionsFailed
	}
	return nil
}
