// =============================================================================
// Dossier Generator - Summary Command
// =============================================================================
//
// This file defines the 'summary' command, which shows what a dossier would
// contain without generating it: rows per section, photos, attachments and
// the fund totals, including whether the approval signature is needed.
//
// COMMAND USAGE:
//   dossier summary --form <file>
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/dossier-generator/internal/formparser"
	"github.com/ginjaninja78/dossier-generator/internal/pipeline"
)

// summaryForm is the form file to summarise.
var summaryForm string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show row counts and totals of a form",
	Long: `The summary command counts the rows that would reach the dossier (blank rows
are not counted) and computes the section totals and the grand total.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, err := setup()
		if err != nil {
			return err
		}

		form, err := formparser.ParseFile(summaryForm)
		if err != nil {
			return fmt.Errorf("failed to parse form: %w", err)
		}

		s := pipeline.Summarize(form)
		out := cmd.OutOrStdout()

		network := form.Network
		if network == "" {
			network = "(none)"
		}
		fmt.Fprintf(out, "Network:           %s\n", network)
		for _, section := range s.Sections {
			fmt.Fprintf(out, "%-18s %d row(s)\n", section.Kind.String()+":", section.Count)
		}
		fmt.Fprintf(out, "Photos:            %d\n", s.Photos)
		fmt.Fprintf(out, "Attachments:       %d\n", s.Attachments)
		printTotals(out, s.Totals, mainConfig.Report.ApprovalSignatory)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVarP(&summaryForm, "form", "f", "", "Path to the YAML form file")
	summaryCmd.MarkFlagRequired("form")
}
