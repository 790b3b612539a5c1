// =============================================================================
// Dossier Generator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which generates a dossier for
// every form file waiting in the input directory.
//
// COMMAND USAGE:
//   dossier process [flags]
//
// FLAGS:
//   --dry-run     : Parse and validate only; nothing is generated or archived
//   --file        : Process a single form file instead of the input directory
//   --no-archive  : Leave processed form files in place
//   --strict      : Treat validation warnings as failures
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Discover *.yaml / *.yml form files in the input directory
//   3. For each file, one at a time:
//      a. Parse and validate the form
//      b. Run the assembly pipeline
//      c. Archive the form file on success
//   4. Print a summary; failures are written to an issue log
//
// Dossiers are generated sequentially: the pipeline never runs two
// assemblies at once.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dossier-generator/internal/formparser"
	"github.com/ginjaninja78/dossier-generator/internal/logger"
	"github.com/ginjaninja78/dossier-generator/internal/validation"
	"github.com/ginjaninja78/dossier-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun parses and validates without generating.
var dryRun bool

// filePath processes a single form file.
var filePath string

// noArchive leaves processed form files in the input directory.
var noArchive bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Generate dossiers for every form file in the input directory",
	Long: `The process command scans the input directory for form files and generates
one dossier per form, one after the other.

On success:
  - The dossier is placed in the output directory
  - The form file is moved to the input archive

On error:
  - The form file remains in the input directory
  - The error is recorded in an issue log in the output directory
  - Processing continues with the next form`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and validate only; nothing is generated or archived")
	processCmd.Flags().StringVar(&filePath, "file", "", "Process a single form file instead of the input directory")
	processCmd.Flags().BoolVar(&noArchive, "no-archive", false, "Leave processed form files in place")
	processCmd.Flags().BoolVar(&strict, "strict", false, "Treat validation warnings as failures")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess generates one dossier per discovered form file.
func runProcess(cmd *cobra.Command) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Fprintln(out, "=== Funding Dossier Generator ===")

	mainConfig, err := setup()
	if err != nil {
		return err
	}

	fm := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if filePath != "" {
		if !utils.FileExists(filePath) {
			return fmt.Errorf("form file not found: %s", filePath)
		}
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = fm.DiscoverFormFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No form files found in the input directory.")
		return nil
	}

	fmt.Fprintf(out, "Found %d form file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES SEQUENTIALLY
	// =========================================================================

	var successCount, errorCount int
	var failures []*validation.Issue

	for i, file := range inputFiles {
		name := filepath.Base(file)
		fmt.Fprintf(out, "\n[%d/%d] %s\n", i+1, len(inputFiles), name)

		if dryRun {
			if err := checkOnly(file); err != nil {
				errorCount++
				failures = append(failures, failureIssue(name, err))
				fmt.Fprintf(out, "  ✗ %v\n", err)
				continue
			}
			successCount++
			fmt.Fprintln(out, "  ✓ form is valid")
			continue
		}

		result, err := generateOne(mainConfig, file, out)
		if err != nil {
			errorCount++
			failures = append(failures, failureIssue(name, err))
			logger.Log.WithError(err).WithField("form", name).Error("form processing failed")
			continue
		}
		successCount++
		fmt.Fprintf(out, "  -> %s\n", result.FileName)

		if !noArchive && filePath == "" {
			archived, err := fm.ArchiveInputFile(file)
			if err != nil {
				logger.Log.WithError(err).WithField("form", name).Warn("failed to archive form file")
				continue
			}
			logger.Log.WithField("archive", archived).Debug("form file archived")
		}
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	elapsed := time.Since(startTime)
	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", len(inputFiles))
	fmt.Fprintf(out, "Successful:      %d\n", successCount)
	fmt.Fprintf(out, "Errors:          %d\n", errorCount)
	fmt.Fprintf(out, "Time elapsed:    %s\n", elapsed.Round(time.Millisecond))

	if errorCount > 0 {
		logPath := filepath.Join(mainConfig.OutputDir, fmt.Sprintf("errors_%s.log", startTime.Format("20060102_150405")))
		if err := validation.WriteIssueLog(failures, logPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nErrors have been logged to %s\n", logPath)
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// checkOnly parses and validates a form without generating it.
func checkOnly(file string) error {
	form, err := formparser.ParseFile(file)
	if err != nil {
		return err
	}

	options := validation.DefaultOptions()
	options.TreatWarningsAsErrors = strict
	result := validation.NewValidatorWithOptions(options).ValidateForm(form)
	logIssues(logger.Log.WithField("form", filepath.Base(file)), result.Issues)
	if !result.IsValid {
		return fmt.Errorf("%d error(s), %d warning(s)", result.ErrorCount, result.WarningCount)
	}
	return nil
}

// failureIssue records a failed form in the batch issue log.
func failureIssue(name string, err error) *validation.Issue {
	return &validation.Issue{
		Severity: validation.SeverityError,
		Section:  name,
		Field:    "form",
		Message:  err.Error(),
	}
}
