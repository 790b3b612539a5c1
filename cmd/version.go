// =============================================================================
// Dossier Generator - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version, build information and the fixed report rules.
//
// COMMAND USAGE:
//   dossier version
//
// OUTPUT:
//   Funding Dossier Generator
//   Version:    1.0.0
//   Build Date: 2026-10-19
//   Go Version: go1.24.0
//   Approval:   grand total >= R$ 15000.00
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dossier-generator/internal/report"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags:
//   go build -ldflags "-X 'github.com/ginjaninja78/dossier-generator/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, Go runtime version and approval threshold.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Funding Dossier Generator")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "Approval:   grand total >= R$ %s\n", report.FormatAmount(report.ApprovalThreshold))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
