// =============================================================================
// Dossier Generator - Table Layout
// =============================================================================
//
// A grid-table engine on top of fpdf, used by the report renderer.
//
// FEATURES:
//   - Header row styled per table (fill, text colour, bold)
//   - Row height grows with wrapped text, with an optional minimum
//   - Header repeated when a row starts a new page
//   - DidDrawCell hook with the geometry of every body cell
//
// =============================================================================

package report

import (
	"github.com/go-pdf/fpdf"
)

// Section identifies the part of a table a cell belongs to.
type Section int

const (
	SectionHead Section = iota
	SectionBody
)

// Color is an RGB triple.
type Color struct {
	R, G, B int
}

// HeadStyle styles the header row of a table.
type HeadStyle struct {
	Fill      Color
	TextColor Color
	Bold      bool
}

// CellHookData describes a cell after it has been laid out and drawn.
type CellHookData struct {
	Section Section
	Row     int
	Column  int
	Text    string

	// Cell geometry in document units.
	X, Y, W, H float64
}

// Table is a minimal grid-table layout engine on top of fpdf.
//
// Rows grow to fit their wrapped text. When a row does not fit on the page
// a new page is started and the header is repeated. DidDrawCell runs after
// each cell is drawn, which is the only way to place images in cells.
type Table struct {
	Head []string
	Body [][]string

	HeadStyle HeadStyle

	// FontSize in points. Defaults to 10.
	FontSize float64

	// CellPadding in document units. Defaults to 1.76 (5pt in mm).
	CellPadding float64

	// ColumnWidths pins the width of selected columns; the remaining width
	// is shared evenly by the other columns.
	ColumnWidths map[int]float64

	// MinRowHeight is the minimum height of body rows.
	MinRowHeight float64

	// Translate converts UTF-8 text to the encoding of the core fonts.
	Translate func(string) string

	DidDrawCell func(CellHookData)
}

// Layout bounds shared by tables and the text flow of the report.
type pageBox struct {
	left, right, top, bottom float64
}

// Draw lays out the table starting at startY and returns the Y position
// just below the last row.
func (t *Table) Draw(pdf *fpdf.Fpdf, box pageBox, startY float64) float64 {
	fontSize := t.FontSize
	if fontSize == 0 {
		fontSize = 10
	}
	padding := t.CellPadding
	if padding == 0 {
		padding = 1.76
	}
	tr := t.Translate
	if tr == nil {
		tr = func(s string) string { return s }
	}

	pageW, pageH := pdf.GetPageSize()
	widths := t.columnWidths(pageW - box.left - box.right)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)

	y := startY

	drawHead := func() {
		pdf.SetFont("Helvetica", boldStyle(t.HeadStyle.Bold), fontSize)
		h := t.rowHeight(pdf, t.Head, widths, padding, tr, 0)
		x := box.left
		for col, text := range t.Head {
			pdf.SetFillColor(t.HeadStyle.Fill.R, t.HeadStyle.Fill.G, t.HeadStyle.Fill.B)
			pdf.SetTextColor(t.HeadStyle.TextColor.R, t.HeadStyle.TextColor.G, t.HeadStyle.TextColor.B)
			pdf.Rect(x, y, widths[col], h, "FD")
			t.drawText(pdf, text, x, y, widths[col], padding, tr)
			x += widths[col]
		}
		y += h
	}

	drawHead()

	for rowIdx, row := range t.Body {
		pdf.SetFont("Helvetica", "", fontSize)
		h := t.rowHeight(pdf, row, widths, padding, tr, t.MinRowHeight)

		if y+h > pageH-box.bottom {
			pdf.AddPage()
			y = box.top
			drawHead()
			pdf.SetFont("Helvetica", "", fontSize)
		}

		x := box.left
		for col := range widths {
			text := ""
			if col < len(row) {
				text = row[col]
			}

			pdf.SetTextColor(0, 0, 0)
			pdf.Rect(x, y, widths[col], h, "D")
			t.drawText(pdf, text, x, y, widths[col], padding, tr)

			if t.DidDrawCell != nil {
				t.DidDrawCell(CellHookData{
					Section: SectionBody,
					Row:     rowIdx,
					Column:  col,
					Text:    text,
					X:       x,
					Y:       y,
					W:       widths[col],
					H:       h,
				})
			}
			x += widths[col]
		}
		y += h
	}

	pdf.SetTextColor(0, 0, 0)
	return y
}

// columnWidths resolves pinned widths and shares the rest evenly.
func (t *Table) columnWidths(total float64) []float64 {
	n := len(t.Head)
	widths := make([]float64, n)

	remaining := total
	free := n
	for col, w := range t.ColumnWidths {
		if col < n {
			widths[col] = w
			remaining -= w
			free--
		}
	}

	for col := range widths {
		if widths[col] == 0 && free > 0 {
			widths[col] = remaining / float64(free)
		}
	}
	return widths
}

// rowHeight is the tallest wrapped cell of the row plus vertical padding.
func (t *Table) rowHeight(pdf *fpdf.Fpdf, cells []string, widths []float64, padding float64, tr func(string) string, min float64) float64 {
	lineH := lineHeight(pdf)
	lines := 1
	for col, text := range cells {
		if col >= len(widths) {
			break
		}
		n := len(pdf.SplitLines([]byte(tr(text)), widths[col]-2*padding))
		if n > lines {
			lines = n
		}
	}

	h := float64(lines)*lineH + 2*padding
	if h < min {
		h = min
	}
	return h
}

func (t *Table) drawText(pdf *fpdf.Fpdf, text string, x, y, w, padding float64, tr func(string) string) {
	lineH := lineHeight(pdf)
	for i, line := range pdf.SplitLines([]byte(tr(text)), w-2*padding) {
		pdf.SetXY(x+padding, y+padding+float64(i)*lineH)
		pdf.CellFormat(w-2*padding, lineH, string(line), "", 0, "LM", false, 0, "")
	}
}

func lineHeight(pdf *fpdf.Fpdf) float64 {
	_, unitSize := pdf.GetFontSize()
	return unitSize * 1.15
}

func boldStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}
