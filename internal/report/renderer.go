// =============================================================================
// Dossier Generator - Report Renderer
// =============================================================================
//
// The renderer draws the primary report pages into one in-memory PDF:
//
//   1. Title and metadata lines
//   2. SELL OUT table       (only when it has rows)
//   3. SELL IN table        (only when it has rows)
//   4. MERCHANDISING table  (only when it has rows, with photo thumbnails)
//   5. Totals block
//   6. Two fixed signature lines
//   7. A third signature line when the grand total reaches the threshold
//
// LAYOUT:
//   Single column, top-down, A4 in millimetres. A vertical cursor advances by
//   a fixed line height per text line and by the measured height of each
//   table. Thumbnails are overlaid after each merchandising cell is laid out,
//   using the geometry the table engine reports.
//
// =============================================================================

package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/dossier-generator/internal/assets"
	"github.com/ginjaninja78/dossier-generator/internal/types"
)

const (
	marginLeft = 14.0
	topY       = 20.0

	// Merchandising thumbnail geometry inside its cell.
	thumbOffset = 4.0
	thumbSize   = 16.0
)

var (
	lineItemHead = []string{"FAMILY", "PRODUCT", "UNITS", "BONUS (R$)", "FUND (R$)", "TTC (R$)", "TTV (R$)"}
	merchHead    = []string{"FUND (R$)", "OPTION", "PHOTO"}

	sellOutStyle = HeadStyle{Fill: Color{0, 123, 255}, TextColor: Color{255, 255, 255}, Bold: true}
	sellInStyle  = HeadStyle{Fill: Color{40, 167, 69}, TextColor: Color{255, 255, 255}, Bold: true}
	merchStyle   = HeadStyle{Fill: Color{255, 193, 7}, TextColor: Color{0, 0, 0}, Bold: true}
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls the parts of the layout that vary between deployments.
type Options struct {
	// Signatories are the two names printed in every signature block.
	Signatories [2]string

	// ApprovalSignatory signs when the grand total reaches ApprovalThreshold.
	ApprovalSignatory string

	// DateFormat is the Go layout of the generation date line.
	DateFormat string

	// Compress enables stream compression in the PDF output.
	Compress bool

	// Now returns the generation time.
	Now func() time.Time
}

// DefaultOptions returns the standard report options.
func DefaultOptions() Options {
	return Options{
		Signatories:       [2]string{"RAFAEL SPERB", "WELLINGTON MARTINS"},
		ApprovalSignatory: "MARCIO MENDES",
		DateFormat:        "02/01/2006",
		Compress:          true,
		Now:               time.Now,
	}
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer builds the base report document.
type Renderer struct {
	opts Options
	log  logrus.FieldLogger
}

// NewRenderer creates a Renderer. Zero option fields fall back to defaults.
func NewRenderer(opts Options, log logrus.FieldLogger) *Renderer {
	def := DefaultOptions()
	if opts.Signatories[0] == "" && opts.Signatories[1] == "" {
		opts.Signatories = def.Signatories
	}
	if opts.ApprovalSignatory == "" {
		opts.ApprovalSignatory = def.ApprovalSignatory
	}
	if opts.DateFormat == "" {
		opts.DateFormat = def.DateFormat
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Renderer{opts: opts, log: log}
}

// page holds the state of one render pass.
type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	box pageBox
	y   float64
}

// text writes one line at the cursor and advances it by advance.
func (p *page) text(size float64, style, s string, advance float64) {
	p.ensureSpace(advance)
	p.pdf.SetFont("Helvetica", style, size)
	p.pdf.Text(marginLeft, p.y, p.tr(s))
	p.y += advance
}

// ensureSpace starts a new page when the next line would cross the bottom margin.
func (p *page) ensureSpace(h float64) {
	_, pageH := p.pdf.GetPageSize()
	if p.y+h > pageH-p.box.bottom {
		p.pdf.AddPage()
		p.y = p.box.top
	}
}

// Render draws the report and returns the serialised PDF.
//
// PARAMETERS:
//   - form: supplies the header metadata.
//   - sellOut, sellIn, merch: collected rows; empty sections are omitted.
//   - photos: index-aligned with merch; nil entries leave the cell blank.
func (r *Renderer) Render(form types.FormData, sellOut, sellIn []types.LineItem, merch []types.MerchItem, photos []*types.PhotoAsset) ([]byte, error) {
	now := r.opts.Now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.opts.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle("Funding Dossier", true)
	pdf.AddPage()

	p := &page{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		box: pageBox{left: marginLeft, right: marginLeft, top: topY, bottom: 10},
		y:   topY,
	}

	// Header
	p.text(18, "", "Funding Dossier", 10)
	p.text(12, "", "Network: "+form.Network, 6)
	p.text(12, "", "Market: "+form.Market, 6)
	p.text(12, "", fmt.Sprintf("City/State: %s - %s", form.City, form.State), 6)
	p.text(12, "", "Seller: "+form.Seller, 6)
	if form.Contract != "" {
		p.text(12, "", "Contract: "+form.Contract, 6)
	}
	p.y += 4
	p.text(12, "", "Date: "+now.Format(r.opts.DateFormat), 10)

	// Tables
	r.lineItemTable(p, types.SectionSellOut, sellOut, sellOutStyle)
	r.lineItemTable(p, types.SectionSellIn, sellIn, sellInStyle)
	if err := r.merchTable(p, merch, photos); err != nil {
		return nil, err
	}

	// Totals
	totals := ComputeTotals(sellOut, sellIn, merch)
	p.text(12, "", "TOTAL SELL OUT: R$ "+FormatAmount(totals.SellOut), 6)
	p.text(12, "", "TOTAL SELL IN: R$ "+FormatAmount(totals.SellIn), 6)
	p.text(12, "", "TOTAL MERCHANDISING: R$ "+FormatAmount(totals.Merch), 6)
	p.text(14, "", "GRAND TOTAL: R$ "+FormatAmount(totals.Grand), 10)

	// Signatures
	p.text(12, "", "Signatures:", 10)
	for _, name := range r.opts.Signatories {
		r.signature(p, name)
	}
	if totals.RequiresApproval() {
		r.signature(p, r.opts.ApprovalSignatory)
	}

	r.log.WithFields(logrus.Fields{
		"pages":       pdf.PageCount(),
		"grand_total": FormatAmount(totals.Grand),
		"approval":    totals.RequiresApproval(),
	}).Debug("report rendered")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialise report: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) signature(p *page, name string) {
	p.text(12, "", "______________________________", 6)
	p.text(12, "", name, 15)
}

// sectionHeading writes the table title and makes sure at least the header
// row of the table fits below it.
func sectionHeading(p *page, kind types.SectionKind) {
	p.ensureSpace(8 + 20)
	p.text(14, "", kind.String(), 8)
}

func (r *Renderer) lineItemTable(p *page, kind types.SectionKind, items []types.LineItem, style HeadStyle) {
	if len(items) == 0 {
		return
	}

	body := make([][]string, len(items))
	for i, item := range items {
		body[i] = item.Cells()
	}

	sectionHeading(p, kind)
	table := &Table{
		Head:      lineItemHead,
		Body:      body,
		HeadStyle: style,
		Translate: p.tr,
	}
	p.y = table.Draw(p.pdf, p.box, p.y) + 10
}

func (r *Renderer) merchTable(p *page, items []types.MerchItem, photos []*types.PhotoAsset) error {
	if len(items) == 0 {
		return nil
	}

	body := make([][]string, len(items))
	for i, item := range items {
		body[i] = []string{item.Fund, item.Option, ""}
	}

	var drawErr error
	sectionHeading(p, types.SectionMerch)
	table := &Table{
		Head:         merchHead,
		Body:         body,
		HeadStyle:    merchStyle,
		CellPadding:  6,
		ColumnWidths: map[int]float64{2: 24},
		MinRowHeight: thumbSize + 2*thumbOffset,
		Translate:    p.tr,
		DidDrawCell: func(cell CellHookData) {
			if drawErr != nil || cell.Section != SectionBody || cell.Column != 2 {
				return
			}
			if cell.Row >= len(photos) || photos[cell.Row] == nil {
				return
			}
			if err := drawThumbnail(p.pdf, photos[cell.Row], cell.X+thumbOffset, cell.Y+thumbOffset); err != nil {
				drawErr = fmt.Errorf("merchandising photo %d: %w", cell.Row+1, err)
			}
		},
	}
	p.y = table.Draw(p.pdf, p.box, p.y) + 10

	return drawErr
}

// drawThumbnail embeds a photo asset and draws it as a fixed square.
func drawThumbnail(pdf *fpdf.Fpdf, asset *types.PhotoAsset, x, y float64) error {
	data, err := assets.Bytes(asset)
	if err != nil {
		return err
	}

	opts := fpdf.ImageOptions{ImageType: types.ImageKind(asset.MediaType)}
	name := "thumb-" + uuid.NewString()

	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		return fmt.Errorf("%w: %v", types.ErrUnsupportedImage, pdf.Error())
	}
	pdf.ImageOptions(name, x, y, thumbSize, thumbSize, false, opts, 0, "")
	return nil
}
