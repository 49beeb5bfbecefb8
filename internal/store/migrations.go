package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	project_key TEXT NOT NULL,
	version_id  INTEGER NOT NULL DEFAULT -1,
	cycle_id    INTEGER NOT NULL DEFAULT -1,
	report_path TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'running'
		CHECK(status IN ('running', 'succeeded', 'failed')),
	error       TEXT NOT NULL DEFAULT '',
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS run_issues (
	run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	issue_key    TEXT NOT NULL,
	execution_id INTEGER NOT NULL,
	status       TEXT NOT NULL,
	steps        INTEGER NOT NULL DEFAULT 0,
	recorded_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_run_issues_run_id ON run_issues(run_id);
CREATE INDEX IF NOT EXISTS idx_run_issues_issue_key ON run_issues(issue_key);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
