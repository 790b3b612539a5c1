// =============================================================================
// Dossier Generator - CSV Row Source
// =============================================================================
//
// This module reads the rows of one dossier section from a CSV file. Sellers
// often export their sell-out and sell-in lists from a spreadsheet, so a
// form file may point at a CSV instead of listing rows inline.
//
// FEATURES:
//   - Comma, semicolon, pipe or tab delimiters, or "auto" detection
//   - Multi-line headers (merged with a space)
//   - UTF-8 byte order mark stripped from the first header
//   - Blank rows skipped
//
// Header names are returned as written. Mapping them to form field names is
// the form parser's job.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls how a CSV file is read.
type Settings struct {
	// Delimiter is ",", ";", "|", "tab" or "auto".
	// Default: "auto"
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of rows that make up the header.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`
}

// DefaultSettings returns the settings used when a form does not set any.
func DefaultSettings() Settings {
	return Settings{Delimiter: "auto", HeaderRows: 1}
}

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed CSV file.
type CSVData struct {
	// Headers contains the column headers, merged for multi-line headers.
	Headers []string

	// Rows contains the non-blank data rows as header -> value maps.
	Rows []map[string]string

	// SourceFile is the path to the source CSV file, if any.
	SourceFile string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The parsing settings.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings Settings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(file, settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	data.SourceFile = filePath
	return data, nil
}

// ParseReader reads CSV data from r.
func ParseReader(r io.Reader, settings Settings) (*CSVData, error) {
	if settings.HeaderRows <= 0 {
		settings.HeaderRows = 1
	}

	reader := bufio.NewReader(r)

	comma, err := resolveDelimiter(reader, settings.Delimiter)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = comma
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if len(allRows) < settings.HeaderRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	headers := extractHeaders(allRows, settings.HeaderRows)

	return &CSVData{
		Headers: headers,
		Rows:    extractDataRows(allRows[settings.HeaderRows:], headers),
	}, nil
}

// resolveDelimiter maps the configured delimiter to a rune. "auto" (or an
// empty setting) inspects the first line without consuming it.
func resolveDelimiter(reader *bufio.Reader, delimiter string) (rune, error) {
	switch delimiter {
	case "\\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	case ",", "comma":
		return ',', nil
	case "", "auto":
		return sniffDelimiter(reader), nil
	}

	if len(delimiter) == 1 {
		return rune(delimiter[0]), nil
	}
	return 0, fmt.Errorf("unsupported delimiter %q", delimiter)
}

// sniffDelimiter picks the candidate that occurs most often in the first line.
// Ties go to the comma.
func sniffDelimiter(reader *bufio.Reader) rune {
	line, _ := reader.Peek(4096)
	if i := strings.IndexByte(string(line), '\n'); i >= 0 {
		line = line[:i]
	}

	best, bestCount := ',', strings.Count(string(line), ",")
	for _, candidate := range []rune{';', '\t', '|'} {
		if n := strings.Count(string(line), string(candidate)); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

// extractHeaders merges the header rows column by column.
//
// Example:
//   Row 1: "Sell Out", "",      ""
//   Row 2: "Family",   "Fund",  "TTV"
//   Result: "Sell Out Family", "Fund", "TTV"
func extractHeaders(allRows [][]string, headerRows int) []string {
	maxCols := 0
	for i := 0; i < headerRows; i++ {
		if len(allRows[i]) > maxCols {
			maxCols = len(allRows[i])
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for row := 0; row < headerRows; row++ {
			if col < len(allRows[row]) {
				if value := strings.TrimSpace(allRows[row][col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers)
}

// cleanHeaders trims headers and names empty ones by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, "\uFEFF")
		}
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts data rows to header -> value maps, skipping
// blank rows. Values are kept as written; missing trailing cells become
// empty values.
func extractDataRows(rows [][]string, headers []string) []map[string]string {
	dataRows := make([]map[string]string, 0, len(rows))

	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = row[colIndex]
			} else {
				rowMap[header] = ""
			}
		}
		dataRows = append(dataRows, rowMap)
	}

	return dataRows
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
