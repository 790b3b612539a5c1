// =============================================================================
// Dossier Generator - XLSX Row Source
// =============================================================================
//
// This module reads dossier rows from an XLSX workbook. A workbook carries one
// sheet per section; the first non-blank row of a sheet is its header and
// every following non-blank row is one form row.
//
// WORKBOOK STRUCTURE (Expected Sheets):
//
//   | Sheet          | Section         | Typical headers                              |
//   |----------------|-----------------|----------------------------------------------|
//   | SELL OUT       | Sell-out rows   | Family, Product, Units, Bonus, Fund, TTC, TTV |
//   | SELL IN        | Sell-in rows    | Family, Product, Units, Bonus, Fund, TTC, TTV |
//   | MERCHANDISING  | Merch rows      | Fund, Option, Custom, Photo                  |
//
// Sheet names are matched case-insensitively. Sheets whose name starts with
// "_" are ignored, so a workbook can keep lookup lists next to the data.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Default sheet names, one per section.
const (
	SheetSellOut = "SELL OUT"
	SheetSellIn  = "SELL IN"
	SheetMerch   = "MERCHANDISING"
)

// =============================================================================
// WORKBOOK STRUCTURE
// =============================================================================

// Workbook represents a parsed row workbook.
type Workbook struct {
	// SourceFile is the path to the source workbook.
	SourceFile string

	// Sheets holds every parsed sheet, keyed by upper-cased sheet name.
	Sheets map[string]*Sheet
}

// Sheet is one parsed sheet.
type Sheet struct {
	Name    string
	Headers []string

	// Rows contains the non-blank data rows as header -> value maps.
	Rows []map[string]string
}

// Sheet returns the sheet with the given name, or nil when the workbook has
// no such sheet.
func (w *Workbook) Sheet(name string) *Sheet {
	return w.Sheets[sheetKey(name)]
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads every visible data sheet of an XLSX workbook.
//
// PARAMETERS:
//   - workbookPath: The path to the XLSX file.
//
// RETURNS:
//   - A pointer to the Workbook struct.
//   - An error if the file cannot be opened or a sheet cannot be read.
func Parse(workbookPath string) (*Workbook, error) {
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{
		SourceFile: workbookPath,
		Sheets:     make(map[string]*Sheet),
	}

	for _, sheetName := range f.GetSheetList() {
		if strings.HasPrefix(sheetName, "_") {
			continue
		}

		sheet, err := parseSheet(f, sheetName)
		if err != nil {
			return nil, fmt.Errorf("error parsing sheet '%s': %w", sheetName, err)
		}
		wb.Sheets[sheetKey(sheetName)] = sheet
	}

	return wb, nil
}

// parseSheet parses a single sheet from an open XLSX file.
func parseSheet(f *excelize.File, sheetName string) (*Sheet, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	sheet := &Sheet{Name: sheetName}

	headerIndex := -1
	for i, row := range rows {
		if !isRowEmpty(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return sheet, nil
	}

	sheet.Headers = cleanHeaders(rows[headerIndex])

	for i := headerIndex + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		// GetRows drops trailing empty cells, so short rows are normal.
		rowMap := make(map[string]string, len(sheet.Headers))
		for col, header := range sheet.Headers {
			value := ""
			if col < len(row) {
				value = row[col]
			}
			rowMap[header] = value
		}
		sheet.Rows = append(sheet.Rows, rowMap)
	}

	return sheet, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func sheetKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// cleanHeaders trims headers and names empty ones by column letter.
func cleanHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, cell := range row {
		header := strings.TrimSpace(cell)
		if header == "" {
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				col = fmt.Sprint(i + 1)
			}
			header = "Column_" + col
		}
		headers[i] = header
	}
	return headers
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
