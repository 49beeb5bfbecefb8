package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/store"
	"github.com/nhle/zephyr-reporter/internal/theme"
)

var historyFlags struct {
	limit  int
	output string
	run    string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.IntVarP(&historyFlags.limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	f.StringVarP(&historyFlags.output, "output", "o", "table", "Output format: table, json or yaml")
	f.StringVar(&historyFlags.run, "run", "", "Show the issues reported by one run")
}

// runHistoryEntry is a run together with its recorded issues.
type runHistoryEntry struct {
	model.Run `yaml:",inline"`
	Issues    []model.RunIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return fmt.Errorf("run history is disabled (REPORTER_HISTORY_DB is empty)")
	}

	st, err := store.NewSQLiteStore(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	limit := historyFlags.limit
	if historyFlags.run != "" {
		limit = 0
	}
	runs, err := st.GetRuns(ctx, limit)
	if err != nil {
		return err
	}

	entries := make([]runHistoryEntry, 0, len(runs))
	for _, r := range runs {
		if historyFlags.run != "" && r.ID != historyFlags.run {
			continue
		}
		entry := runHistoryEntry{Run: r}
		if historyFlags.run != "" {
			entry.Issues, err = st.GetRunIssues(ctx, r.ID)
			if err != nil {
				return err
			}
		}
		entries = append(entries, entry)
	}
	if historyFlags.run != "" && len(entries) == 0 {
		return fmt.Errorf("run %s: %w", historyFlags.run, store.ErrRunNotFound)
	}

	return writeHistory(cmd.OutOrStdout(), entries, historyFlags.output)
}

// writeHistory renders entries in the requested format.
func writeHistory(w io.Writer, entries []runHistoryEntry, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()

	case "table", "":
		if len(entries) == 0 {
			fmt.Fprintln(w, theme.HelpStyle.Render("No runs recorded yet."))
			return nil
		}
		fmt.Fprintln(w, runsTable(entries))
		for _, e := range entries {
			if len(e.Issues) > 0 {
				fmt.Fprintln(w, issuesTable(e.Issues))
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func runsTable(entries []runHistoryEntry) *table.Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		finished := "-"
		if e.FinishedAt != nil {
			finished = e.FinishedAt.Local().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			e.ID,
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			finished,
			e.ProjectKey,
			strconv.FormatInt(e.VersionID, 10),
			strconv.FormatInt(e.CycleID, 10),
			e.Status,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("RUN", "STARTED", "FINISHED", "PROJECT", "VERSION", "CYCLE", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			if col == 6 && row >= 0 && row < len(rows) {
				return theme.StatusStyle(rows[row][col]).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func issuesTable(issues []model.RunIssue) *table.Table {
	rows := make([][]string, 0, len(issues))
	for _, i := range issues {
		rows = append(rows, []string{
			i.IssueKey,
			strconv.FormatInt(i.ExecutionID, 10),
			strconv.Itoa(i.Steps),
			i.Status,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("ISSUE", "EXECUTION", "STEPS", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			if col == 3 && row >= 0 && row < len(rows) {
				return theme.StatusStyle(rows[row][col]).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}
