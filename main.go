// =============================================================================
// Funding Dossier Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the dossier generator CLI. It delegates
// command execution to the cmd package.
//
// USAGE:
//   dossier generate --form <file>  - Generate one dossier
//   dossier process                 - Generate dossiers for every form in the input directory
//   dossier summary --form <file>   - Show row counts and totals
//   dossier validate --form <file>  - Check a form without generating
//   dossier version                 - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Form parsing, collection, rendering, merging and the pipeline
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/dossier-generator/cmd"
)

func main() {
	cmd.Execute()
}
