package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/zephyr-reporter/internal/credential"
	"github.com/nhle/zephyr-reporter/internal/model"
)

var loginFlags struct {
	logout bool
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the JIRA password in the system keyring",
	Long: `Prompt for the password of the configured user and store it in the system
keyring. It is used whenever REPORTER_PASSWORD is not set.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&loginFlags.logout, "logout", false, "Remove the stored password instead")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Host == "" {
		return errors.New("host is not configured (set REPORTER_HOST)")
	}

	out := cmd.OutOrStdout()
	if loginFlags.logout {
		if err := credential.Delete(cfg.CredentialKey()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed password for %s\n", cfg.CredentialKey())
		return nil
	}

	if err := credential.PromptPassword(cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Stored password for %s\n", cfg.CredentialKey())
	return nil
}
