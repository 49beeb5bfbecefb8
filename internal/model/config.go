package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the reporter settings. Every key can be supplied through a
// REPORTER_* environment variable, a .env file, or an optional YAML file.
type Config struct {
	// Username and Password are the JIRA basic-auth credentials.
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"-"`

	// Protocol is "http" or "https".
	Protocol string `mapstructure:"protocol" yaml:"protocol"`

	// Host and Port locate the JIRA server. A zero port is left out of
	// the base URL.
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`

	// ProjectPrefix is the JIRA project key. Scenarios are linked to
	// issues through tags of the form @PREFIX-123.
	ProjectPrefix string `mapstructure:"project_prefix" yaml:"project_prefix"`

	// Cycle is the Zephyr cycle name to report under.
	Cycle string `mapstructure:"cycle" yaml:"cycle"`

	// Version is the JIRA version name to report under.
	Version string `mapstructure:"version" yaml:"version"`

	// DevelopmentVersion is the build version used on development
	// branches. A run whose BuildVersion differs is a release build.
	DevelopmentVersion string `mapstructure:"development_version" yaml:"development_version"`
	BuildVersion       string `mapstructure:"build_version" yaml:"build_version"`

	// RunName names the cycle created for release builds.
	RunName string `mapstructure:"run_name" yaml:"run_name"`

	// ReportPath is the Cucumber JSON report read by the sync command.
	ReportPath string `mapstructure:"report_path" yaml:"report_path"`

	// HistoryDB is the SQLite file that records runs. Empty disables it.
	HistoryDB string `mapstructure:"history_db" yaml:"history_db"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"username":            "REPORTER_USERNAME",
	"password":            "REPORTER_PASSWORD",
	"protocol":            "REPORTER_PROTOCOL",
	"host":                "REPORTER_HOST",
	"port":                "REPORTER_PORT",
	"project_prefix":      "REPORTER_PREFIX",
	"cycle":               "REPORTER_CYCLE",
	"version":             "REPORTER_VERSION",
	"development_version": "REPORTER_DEVELOPMENT_VERSION",
	"build_version":       "REPORTER_BUILD_VERSION",
	"run_name":            "REPORTER_RUN_NAME",
	"report_path":         "REPORTER_REPORT_PATH",
	"history_db":          "REPORTER_HISTORY_DB",
	"timeout":             "REPORTER_TIMEOUT",
}

// DefaultHistoryPath returns the default location of the run history
// database, ~/.config/zephyr-reporter/history.db.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "history.db")
	}
	return filepath.Join(home, ".config", "zephyr-reporter", "history.db")
}

// defaultRunName is the base name of the working directory.
func defaultRunName() string {
	wd, err := os.Getwd()
	if err != nil {
		return "zephyr-reporter"
	}
	return filepath.Base(wd)
}

// LoadConfig reads .env (if present), the YAML file at path when one is
// given and the REPORTER_* environment. Environment values win over the
// file. A named file that cannot be read is an error.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("protocol", "http")
	v.SetDefault("port", 0)
	v.SetDefault("cycle", AdhocCycleName)
	v.SetDefault("version", UnscheduledVersionName)
	v.SetDefault("run_name", defaultRunName())
	v.SetDefault("report_path", filepath.Join("build", "report.json"))
	v.SetDefault("history_db", DefaultHistoryPath())
	v.SetDefault("timeout", "10s")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Protocol != "https" {
		cfg.Protocol = "http"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return cfg, nil
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is not configured (set %s)", envBindings["host"])
	}
	if c.ProjectPrefix == "" {
		return fmt.Errorf(
			"project prefix is not configured (set %s)",
			envBindings["project_prefix"],
		)
	}
	return nil
}

// BaseURL returns protocol://host[:port].
func (c *Config) BaseURL() string {
	url := c.Protocol + "://" + c.Host
	if c.Port > 0 {
		url += ":" + strconv.Itoa(c.Port)
	}
	return url
}

// IsReleaseBuild reports whether the build under test is a release build,
// i.e. its version differs from the configured development version.
func (c *Config) IsReleaseBuild() bool {
	return c.BuildVersion != c.DevelopmentVersion
}

// CredentialKey identifies the stored password for this user and host.
func (c *Config) CredentialKey() string {
	return c.Username + "@" + c.Host
}
