package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-autofill/internal/schemas"
)

var validateProfileCmd = &cobra.Command{
	Use:   "validate-profile",
	Short: "Validate a profile JSON file",
	Long:  "Checks a profile file against the profile JSON Schema and the field rules (email, URLs, enumerations, ranges).",
	RunE:  runValidateProfile,
}

func init() {
	rootCmd.AddCommand(validateProfileCmd)
}

func runValidateProfile(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Profile == "" {
		return fmt.Errorf("--profile is required")
	}

	out := cmd.OutOrStdout()
	if err := schemas.ValidateProfileFile(cfg.Profile); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(out, "Profile %s has %d problem(s):\n", cfg.Profile, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				_, _ = fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
			}
		}
		return fmt.Errorf("profile validation failed: %w", err)
	}

	profile, err := readProfile(cfg.Profile)
	if err != nil {
		return err
	}
	name := profile.DisplayName()
	if name == "" {
		name = "(no name)"
	}
	_, _ = fmt.Fprintf(out, "Profile %s is valid: %s\n", cfg.Profile, name)
	return nil
}
