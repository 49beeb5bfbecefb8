package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nhle/zephyr-reporter/internal/credential"
	"github.com/nhle/zephyr-reporter/internal/model"
	"github.com/nhle/zephyr-reporter/internal/source"
	"github.com/nhle/zephyr-reporter/internal/source/jira"
	"github.com/nhle/zephyr-reporter/internal/source/zapi"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "zephyr-reporter",
	Short: "Report Cucumber test results to Zephyr for JIRA",
	Long: `zephyr-reporter reads a Cucumber JSON report and records every scenario
tagged with a JIRA issue key (@PREFIX-123) as a Zephyr test execution.

Settings come from REPORTER_* environment variables, a .env file in the
working directory, or a YAML file passed with --config.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

// loadConfig reads and validates the configuration and fills in the
// password from the keyring when none is configured.
func loadConfig() (*model.Config, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := credential.ResolvePassword(cfg); err != nil {
		logger.Warn("could not read password from keyring", zap.Error(err))
	}
	return cfg, nil
}

// newServices builds the JIRA and ZAPI clients for cfg.
func newServices(cfg *model.Config) (*jira.Service, *zapi.Service) {
	base := cfg.BaseURL()
	timeout := source.WithTimeout(cfg.Timeout)

	logger.Debug("connecting", zap.String("base_url", base), zap.String("username", cfg.Username))
	return jira.NewService(base, cfg.Username, cfg.Password, logger.Named("jira"), timeout),
		zapi.NewService(base, cfg.Username, cfg.Password, logger.Named("zapi"), timeout)
}
