package credential

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/nhle/zephyr-reporter/internal/model"
)

// PromptPassword asks for the JIRA password of cfg's user and stores it
// in the keyring.
func PromptPassword(cfg *model.Config) error {
	if cfg.Username == "" {
		return errors.New("username is not configured (set REPORTER_USERNAME)")
	}

	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("JIRA password for %s", cfg.CredentialKey())).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}).
				Value(&password),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	return Set(cfg.CredentialKey(), password)
}
