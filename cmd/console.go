// =============================================================================
// Dossier Generator - Console Output
// =============================================================================
//
// Terminal rendering of pipeline notifications and fund totals, shared by
// the generate, process and summary commands.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/dossier-generator/internal/pipeline"
	"github.com/ginjaninja78/dossier-generator/internal/report"
)

// consoleNotifier renders pipeline notifications on the terminal.
type consoleNotifier struct {
	out io.Writer
	log logrus.FieldLogger

	// signatureReady is set once the dossier can be sent for signature.
	signatureReady bool
}

func newConsoleNotifier(out io.Writer, log logrus.FieldLogger) *consoleNotifier {
	return &consoleNotifier{out: out, log: log}
}

func (n *consoleNotifier) SetBusy(busy bool) {
	if busy {
		n.signatureReady = false
		fmt.Fprintln(n.out, "Generating dossier...")
	}
	n.log.WithField("busy", busy).Debug("busy state changed")
}

func (n *consoleNotifier) Toast(message string, severity pipeline.Severity) {
	mark := "•"
	switch severity {
	case pipeline.SeveritySuccess:
		mark = "✓"
	case pipeline.SeverityError:
		mark = "✗"
	}
	fmt.Fprintf(n.out, "  %s %s\n", mark, message)
}

func (n *consoleNotifier) SignatureActionAvailable() {
	n.signatureReady = true
}

// printTotals prints the fund totals and the approval requirement.
func printTotals(out io.Writer, t report.Totals, approvalSignatory string) {
	fmt.Fprintf(out, "Sell out total:    R$ %s\n", report.FormatAmount(t.SellOut))
	fmt.Fprintf(out, "Sell in total:     R$ %s\n", report.FormatAmount(t.SellIn))
	fmt.Fprintf(out, "Merch total:       R$ %s\n", report.FormatAmount(t.Merch))
	fmt.Fprintf(out, "Grand total:       R$ %s\n", report.FormatAmount(t.Grand))
	if t.RequiresApproval() {
		fmt.Fprintf(out, "Approval:          required (%s)\n", approvalSignatory)
	} else {
		fmt.Fprintln(out, "Approval:          not required")
	}
}
