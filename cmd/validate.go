// =============================================================================
// Dossier Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks a form file without
// generating a dossier.
//
// COMMAND USAGE:
//   dossier validate --form <file> [--log <file>] [--strict]
//
// EXIT STATUS:
//   0 when the form has no errors (warnings allowed unless --strict), 1 otherwise.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dossier-generator/internal/formparser"
	"github.com/ginjaninja78/dossier-generator/internal/validation"
)

// validateForm is the form file to check.
var validateForm string

// issueLog optionally receives the findings.
var issueLog string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a form file without generating a dossier",
	Long: `The validate command parses a form file and reports missing header fields,
fund values that are not plain numbers, unreadable photos and attachments,
and attachments whose type will be skipped.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(); err != nil {
			return err
		}

		form, err := formparser.ParseFile(validateForm)
		if err != nil {
			return fmt.Errorf("failed to parse form: %w", err)
		}

		options := validation.DefaultOptions()
		options.TreatWarningsAsErrors = strict
		result := validation.NewValidatorWithOptions(options).ValidateForm(form)

		fmt.Fprint(cmd.OutOrStdout(), validation.FormatIssues(result.Issues))

		if issueLog != "" {
			if err := validation.WriteIssueLog(result.Issues, issueLog); err != nil {
				return err
			}
		}

		if !result.IsValid {
			return fmt.Errorf("form is not valid: %d error(s), %d warning(s)", result.ErrorCount, result.WarningCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateForm, "form", "f", "", "Path to the YAML form file")
	validateCmd.Flags().StringVar(&issueLog, "log", "", "Also write the findings to this file")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
	validateCmd.MarkFlagRequired("form")
}
