// =============================================================================
// Dossier Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which assembles one dossier from
// one form file.
//
// COMMAND USAGE:
//   dossier generate --form <file> [flags]
//
// FLAGS:
//   --form    : Path to the YAML form file (required)
//   --out     : Output directory (default: output_dir from config)
//   --strict  : Refuse to generate when validation reports warnings
//
// PIPELINE:
//   1. Load configuration
//   2. Parse the form (inline rows, workbook and CSV sources)
//   3. Validate and log findings
//   4. Run the assembly pipeline
//   5. Write dossie_<network>_<date>.pdf to the output directory
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dossier-generator/internal/config"
	"github.com/ginjaninja78/dossier-generator/internal/formparser"
	"github.com/ginjaninja78/dossier-generator/internal/logger"
	"github.com/ginjaninja78/dossier-generator/internal/pipeline"
	"github.com/ginjaninja78/dossier-generator/internal/validation"
	"github.com/ginjaninja78/dossier-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// generateForm is the form file to generate from.
var generateForm string

// generateOut overrides the configured output directory.
var generateOut string

// strict turns validation warnings into failures.
var strict bool

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one dossier from a form file",
	Long: `The generate command reads a form file, validates it and assembles the
dossier PDF: the report, then every attachment in form order, then one page
per merchandising photo.

Validation findings are logged but do not stop generation unless --strict is
set. Blank rows are left out, unreadable photos are skipped, and a failure
while rendering, merging or writing aborts without leaving a partial file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, err := setup()
		if err != nil {
			return err
		}
		if generateOut != "" {
			mainConfig.OutputDir = generateOut
		}

		result, err := generateOne(mainConfig, generateForm, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nDossier:           %s\n", filepath.Join(mainConfig.OutputDir, result.FileName))
		fmt.Fprintf(out, "Size:              %d bytes\n", result.Size)
		printTotals(out, result.Totals, mainConfig.Report.ApprovalSignatory)
		return nil
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateForm, "form", "f", "", "Path to the YAML form file")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output directory (default: output_dir from config)")
	generateCmd.Flags().BoolVar(&strict, "strict", false, "Refuse to generate when validation reports warnings")
	generateCmd.MarkFlagRequired("form")
}

// =============================================================================
// SHARED GENERATION
// =============================================================================

// generateOne parses, validates and generates the dossier of one form file.
//
// PARAMETERS:
//   - mainConfig: The loaded configuration.
//   - formPath: The path to the form file.
//   - out: Where progress and notifications are printed.
//
// RETURNS:
//   - The pipeline result.
//   - An error if the form cannot be parsed, fails strict validation, or the
//     pipeline fails.
func generateOne(mainConfig *config.MainConfig, formPath string, out io.Writer) (*pipeline.Result, error) {
	log := logger.Log.WithField("form", filepath.Base(formPath))

	form, err := formparser.ParseFile(formPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	options := validation.DefaultOptions()
	options.TreatWarningsAsErrors = strict
	check := validation.NewValidatorWithOptions(options).ValidateForm(form)
	logIssues(log, check.Issues)
	if !check.IsValid {
		return nil, fmt.Errorf("form %s failed validation with %d error(s) and %d warning(s)",
			formPath, check.ErrorCount, check.WarningCount)
	}

	fm := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir)
	notifier := newConsoleNotifier(out, log)

	p := pipeline.New(notifier, fm, mainConfig.ReportOptions(), log)
	p.FallbackNetwork = mainConfig.Report.FallbackNetwork

	result, err := p.Run(form)
	if err != nil {
		return nil, err
	}
	if notifier.signatureReady {
		fmt.Fprintln(out, "  Ready to be sent for signature.")
	}
	return result, nil
}

// logIssues writes validation findings to the log at a matching level.
func logIssues(log logrus.FieldLogger, issues []*validation.Issue) {
	for _, issue := range issues {
		entry := log.WithFields(logrus.Fields{
			"section": issue.Section,
			"row":     issue.Row,
			"field":   issue.Field,
		})
		switch issue.Severity {
		case validation.SeverityError:
			entry.Error(issue.Message)
		case validation.SeverityWarning:
			entry.Warn(issue.Message)
		default:
			entry.Info(issue.Message)
		}
	}
}

