// =============================================================================
// Dossier Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (dossier)
//   ├── generateCmd (dossier generate)
//   ├── processCmd  (dossier process)
//   ├── summaryCmd  (dossier summary)
//   ├── validateCmd (dossier validate)
//   └── versionCmd  (dossier version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Commands
//   that need configuration call setup(), which loads config.yaml and
//   initialises the logger.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dossier-generator/internal/config"
	"github.com/ginjaninja78/dossier-generator/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dossier",
	Short: "Funding Dossier Generator - Assemble trade-marketing funding dossiers as PDF",
	Long: `Funding Dossier Generator turns a seller's funding form into a single PDF
dossier: a report with sell-out, sell-in and merchandising tables, their
totals and a signature block, followed by every attached document and one
page per merchandising photo.

Key Features:
  - YAML form files, with rows inline or from XLSX/CSV exports
  - Up-front validation with non-blocking warnings
  - Approval signature added automatically for large dossiers
  - Batch processing with archival of processed forms

Example Usage:
  dossier generate --form ./input/redex.yaml   # Generate one dossier
  dossier process                              # Generate a dossier for every form in the input directory
  dossier summary --form ./input/redex.yaml    # Show row counts and totals
  dossier validate --form ./input/redex.yaml   # Check a form without generating`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// setup loads the main configuration and initialises the global logger.
func setup() (*config.MainConfig, error) {
	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}

	if err := logger.Init(mainConfig.LogLevel, mainConfig.LogFile, verbose); err != nil {
		return nil, fmt.Errorf("failed to initialise logging: %w", err)
	}

	logger.Log.WithField("config", cfgFile).Debug("configuration loaded")
	return mainConfig, nil
}
