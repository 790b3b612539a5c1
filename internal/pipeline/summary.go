// =============================================================================
// Dossier Generator - Form Summary
// =============================================================================
//
// The summary is the overview of a form shown before generation: the rows
// that will reach each section, the photo and attachment counts, and the
// fund totals. It uses the same collection rules as the pipeline, so the
// numbers match the generated dossier.
//
// =============================================================================

package pipeline

import (
	"github.com/ginjaninja78/dossier-generator/internal/collector"
	"github.com/ginjaninja78/dossier-generator/internal/report"
	"github.com/ginjaninja78/dossier-generator/internal/types"
)

// SectionSummary is the row count of one section.
type SectionSummary struct {
	Kind  types.SectionKind
	Count int
}

// Summary is the running overview of a form before generation.
type Summary struct {
	Sections    []SectionSummary
	Photos      int
	Attachments int
	Totals      report.Totals
}

// Summarize counts the rows that would reach the report and computes their
// totals. Blank rows are not counted.
func Summarize(form types.FormData) Summary {
	sellOut := collector.CollectRows(types.SectionSellOut, form.SellOut)
	sellIn := collector.CollectRows(types.SectionSellIn, form.SellIn)
	merch, photos := collector.CollectMerch(form.Merch, form.MerchPhotos)

	present := 0
	for _, p := range photos {
		if p != nil {
			present++
		}
	}

	return Summary{
		Sections: []SectionSummary{
			{Kind: types.SectionSellOut, Count: len(sellOut)},
			{Kind: types.SectionSellIn, Count: len(sellIn)},
			{Kind: types.SectionMerch, Count: len(merch)},
		},
		Photos:      present,
		Attachments: len(collector.CollectAttachments(form.Attachments)),
		Totals:      report.ComputeTotals(sellOut, sellIn, merch),
	}
}
