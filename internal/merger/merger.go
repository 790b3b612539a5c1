// =============================================================================
// Dossier Generator - Document Merger
// =============================================================================
//
// The merger loads the rendered report as the base document and appends, in
// this order:
//
//   1. ATTACHMENTS, in input order
//        application/pdf -> every page, in the attachment's own order
//        image/*         -> one page, image scaled to fit, anchored at the top
//        anything else   -> skipped
//   2. MERCHANDISING PHOTOS, in slot order
//        present slot    -> one page with a bold caption and the centred image
//        absent slot     -> skipped
//
// IMPLEMENTATION:
//   Image pages are authored as small standalone PDFs with fpdf. The base
//   document and every part are then joined with pdfcpu, which copies pages
//   in sequence so the final ordering is exactly the ordering of the parts.
//
// =============================================================================

package merger

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/dossier-generator/internal/assets"
	"github.com/ginjaninja78/dossier-generator/internal/types"
)

// Page geometry in points.
const (
	PageWidth  = 595.0
	PageHeight = 841.0

	// PhotoBound is the square a merchandising photo is scaled into.
	PhotoBound = 400.0

	captionX    = 20.0
	captionY    = 40.0
	captionSize = 14.0
	photoTop    = 80.0
)

// CaptionFormat is the caption of an expanded merchandising photo page.
const CaptionFormat = "Merchandising Photo %d"

func init() {
	// Keep pdfcpu from creating a configuration directory in $HOME.
	api.DisableConfigDir()
}

// Merger appends attachments and photo pages to a base document.
type Merger struct {
	log      logrus.FieldLogger
	compress bool
}

// NewMerger creates a Merger. compress controls stream compression of the
// generated image pages.
func NewMerger(log logrus.FieldLogger, compress bool) *Merger {
	return &Merger{log: log, compress: compress}
}

// Merge builds the final document.
//
// PARAMETERS:
//   - base: the rendered report.
//   - attachments: appended in order; unsupported media types are skipped.
//   - photos: merchandising photos by slot; nil slots are skipped.
//
// RETURNS:
//   - The serialised final document.
//   - An error if any part cannot be read, decoded or merged.
func (m *Merger) Merge(base []byte, attachments []types.File, photos []*types.PhotoAsset) ([]byte, error) {
	parts := [][]byte{base}

	// Attachments phase
	for i, f := range attachments {
		part, err := m.attachmentPart(f)
		if err != nil {
			return nil, fmt.Errorf("attachment %d (%s): %w", i+1, f.Name(), err)
		}
		if part == nil {
			m.log.WithFields(logrus.Fields{
				"file":       f.Name(),
				"media_type": f.MediaType(),
			}).Debug("skipping attachment with unsupported media type")
			continue
		}
		parts = append(parts, part)
	}

	// Merchandising photo expansion phase
	photoPages, err := m.photoPages(photos)
	if err != nil {
		return nil, err
	}
	if photoPages != nil {
		parts = append(parts, photoPages)
	}

	return m.join(parts)
}

// attachmentPart returns the PDF bytes contributed by one attachment, or
// nil when its media type is not supported.
func (m *Merger) attachmentPart(f types.File) ([]byte, error) {
	mediaType := f.MediaType()
	if !types.IsPDF(mediaType) && !types.IsImage(mediaType) {
		return nil, nil
	}

	data, err := readAll(f)
	if err != nil {
		return nil, err
	}

	if types.IsPDF(mediaType) {
		return data, nil
	}

	pdf := m.newDocument()
	if err := addImagePage(pdf, data, mediaType); err != nil {
		return nil, err
	}
	return output(pdf)
}

// addImagePage appends a page with the image scaled to fit the whole page,
// anchored at the top-left corner.
func addImagePage(pdf *fpdf.Fpdf, data []byte, mediaType string) error {
	w, h, err := imageSize(data)
	if err != nil {
		return err
	}
	w, h = ScaleToFit(w, h, PageWidth, PageHeight)

	pdf.AddPage()
	return drawImage(pdf, data, mediaType, 0, 0, w, h)
}

// photoPages renders one page per present photo into a single document.
// It returns nil when every slot is empty.
func (m *Merger) photoPages(photos []*types.PhotoAsset) ([]byte, error) {
	pdf := m.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pages := 0

	for i, photo := range photos {
		if photo == nil || photo.DataURL == "" {
			continue
		}

		data, err := assets.Bytes(photo)
		if err != nil {
			return nil, fmt.Errorf("merchandising photo %d: %w", i+1, err)
		}
		w, h, err := imageSize(data)
		if err != nil {
			return nil, fmt.Errorf("merchandising photo %d: %w", i+1, err)
		}
		w, h = ScaleToFit(w, h, PhotoBound, PhotoBound)

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", captionSize)
		pdf.Text(captionX, captionY, tr(fmt.Sprintf(CaptionFormat, i+1)))

		if err := drawImage(pdf, data, photo.MediaType, (PageWidth-w)/2, photoTop, w, h); err != nil {
			return nil, fmt.Errorf("merchandising photo %d: %w", i+1, err)
		}
		pages++
	}

	if pages == 0 {
		return nil, nil
	}

	m.log.WithField("pages", pages).Debug("merchandising photo pages rendered")
	return output(pdf)
}

// join concatenates the parts with pdfcpu. A lone base document is
// returned untouched.
func (m *Merger) join(parts [][]byte) ([]byte, error) {
	if len(parts) == 1 {
		return parts[0], nil
	}

	readers := make([]io.ReadSeeker, len(parts))
	for i, p := range parts {
		readers[i] = bytes.NewReader(p)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, conf); err != nil {
		return nil, fmt.Errorf("failed to merge documents: %w", err)
	}

	m.log.WithField("parts", len(parts)).Debug("documents merged")
	return buf.Bytes(), nil
}

func (m *Merger) newDocument() *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetCompression(m.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	return pdf
}

// =============================================================================
// HELPERS
// =============================================================================

// ScaleToFit scales (w, h) by the largest factor that fits within
// (maxW, maxH), preserving the aspect ratio. Images smaller than the bound
// are scaled up.
func ScaleToFit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

// imageSize returns the pixel dimensions of PNG or JPEG data.
func imageSize(data []byte) (float64, float64, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", types.ErrUnsupportedImage, err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// drawImage embeds the image by its media subtype (PNG, otherwise JPEG)
// and draws it at the given box.
func drawImage(pdf *fpdf.Fpdf, data []byte, mediaType string, x, y, w, h float64) error {
	opts := fpdf.ImageOptions{ImageType: types.ImageKind(mediaType)}
	name := "img-" + uuid.NewString()

	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		return fmt.Errorf("%w: %v", types.ErrUnsupportedImage, pdf.Error())
	}
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialise page: %w", err)
	}
	return buf.Bytes(), nil
}

func readAll(f types.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}
	return data, nil
}
