// =============================================================================
// Dossier Generator - Assembly Pipeline
// =============================================================================
//
// The pipeline turns one form into one delivered dossier.
//
// PIPELINE:
//   1. Signal busy state
//   2. Collect rows from the three sections
//   3. Load merchandising photos (concurrently)
//   4. Render the base report
//   5. Merge attachments and photo pages
//   6. Deliver "dossie_<network>_<YYYY-MM-DD>.pdf"
//   7. Clear busy state and notify success or failure
//
// A failure at any stage aborts the run: nothing is delivered and a single
// generic failure notification is shown. Busy state is always cleared.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/dossier-generator/internal/assets"
	"github.com/ginjaninja78/dossier-generator/internal/collector"
	"github.com/ginjaninja78/dossier-generator/internal/merger"
	"github.com/ginjaninja78/dossier-generator/internal/report"
	"github.com/ginjaninja78/dossier-generator/internal/types"
	"github.com/ginjaninja78/dossier-generator/pkg/utils"
)

// User-facing notification messages.
const (
	MessageSuccess = "Dossier generated successfully!"
	MessageFailure = "Failed to generate the dossier. Please try again."
)

// DefaultFallbackNetwork names the file when the form has no network.
const DefaultFallbackNetwork = "sem-rede"

// =============================================================================
// COLLABORATORS
// =============================================================================

// Severity of a toast notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier receives one-way UI signals.
type Notifier interface {
	SetBusy(busy bool)
	Toast(message string, severity Severity)

	// SignatureActionAvailable tells the UI that the dossier can now be
	// sent for signature.
	SignatureActionAvailable()
}

// Deliverer hands the finished document to the user.
type Deliverer interface {
	Deliver(name string, data []byte) error
}

// Renderer draws the base report.
type Renderer interface {
	Render(form types.FormData, sellOut, sellIn []types.LineItem, merch []types.MerchItem, photos []*types.PhotoAsset) ([]byte, error)
}

// Merger appends attachments and photo pages to the base report.
type Merger interface {
	Merge(base []byte, attachments []types.File, photos []*types.PhotoAsset) ([]byte, error)
}

// =============================================================================
// RESULT
// =============================================================================

// Result describes a completed run.
type Result struct {
	RunID    string
	FileName string
	Size     int
	Totals   report.Totals
	Elapsed  time.Duration
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline orchestrates one dossier run. It is not safe for overlapping
// invocations.
type Pipeline struct {
	Notifier  Notifier
	Deliverer Deliverer
	Renderer  Renderer
	Merger    Merger
	Loader    *assets.Loader

	// FallbackNetwork replaces an empty network in the file name.
	FallbackNetwork string

	Now func() time.Time
	Log logrus.FieldLogger
}

// New creates a Pipeline with the standard renderer, merger and loader.
func New(notifier Notifier, deliverer Deliverer, opts report.Options, log logrus.FieldLogger) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		Notifier:        notifier,
		Deliverer:       deliverer,
		Renderer:        report.NewRenderer(opts, log),
		Merger:          merger.NewMerger(log, opts.Compress),
		Loader:          assets.NewLoader(log),
		FallbackNetwork: DefaultFallbackNetwork,
		Now:             opts.Now,
		Log:             log,
	}
}

// GenerateDossier runs the whole pipeline and reports success.
func (p *Pipeline) GenerateDossier(form types.FormData) bool {
	_, err := p.Run(form)
	return err == nil
}

// Run executes the pipeline and returns the run details. Notifications are
// emitted exactly as for GenerateDossier.
func (p *Pipeline) Run(form types.FormData) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.Log.WithField("run", runID)

	p.Notifier.SetBusy(true)

	result, err := p.assemble(form, log)
	if err != nil {
		log.WithError(err).Error("dossier generation failed")
		p.Notifier.SetBusy(false)
		p.Notifier.Toast(MessageFailure, SeverityError)
		return nil, err
	}

	result.RunID = runID
	result.Elapsed = time.Since(start)
	log.WithFields(logrus.Fields{
		"file":    result.FileName,
		"bytes":   result.Size,
		"elapsed": result.Elapsed,
	}).Info("dossier generated")

	p.Notifier.SetBusy(false)
	p.Notifier.Toast(MessageSuccess, SeveritySuccess)
	p.Notifier.SignatureActionAvailable()

	return result, nil
}

// assemble performs every stage; the caller owns notifications.
func (p *Pipeline) assemble(form types.FormData, log logrus.FieldLogger) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	// STEP 1: COLLECT ROWS
	sellOut := collector.CollectRows(types.SectionSellOut, form.SellOut)
	sellIn := collector.CollectRows(types.SectionSellIn, form.SellIn)
	merch, photoFiles := collector.CollectMerch(form.Merch, form.MerchPhotos)
	attachments := collector.CollectAttachments(form.Attachments)

	log.WithFields(logrus.Fields{
		"sell_out":    len(sellOut),
		"sell_in":     len(sellIn),
		"merch":       len(merch),
		"attachments": len(attachments),
	}).Debug("rows collected")

	// STEP 2: LOAD PHOTOS
	photos := p.Loader.LoadAll(photoFiles)

	// STEP 3: RENDER
	base, err := p.Renderer.Render(form, sellOut, sellIn, merch, photos)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	// STEP 4: MERGE
	final, err := p.Merger.Merge(base, attachments, photos)
	if err != nil {
		return nil, fmt.Errorf("failed to merge attachments: %w", err)
	}

	// STEP 5: DELIVER
	fallback := p.FallbackNetwork
	if fallback == "" {
		fallback = DefaultFallbackNetwork
	}
	name := utils.DossierFileName(form.Network, fallback, p.now())
	if err := p.Deliverer.Deliver(name, final); err != nil {
		return nil, fmt.Errorf("failed to deliver %s: %w", name, err)
	}

	return &Result{
		FileName: name,
		Size:     len(final),
		Totals:   report.ComputeTotals(sellOut, sellIn, merch),
	}, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
