// =============================================================================
// Dossier Generator - Form Validation
// =============================================================================
//
// This module checks a form before a dossier is generated. Generation itself
// never rejects a form: blank rows are dropped, unreadable photos are left
// out, non-numeric funds count as zero. Validation reports those situations
// up front so the seller can fix them.
//
// CHECKS:
//   1. Header: network, market, city, state and seller filled in
//   2. Rows: fund values that are not plain numbers, "OTHER" without a
//      description, custom text that will be ignored
//   3. Files: photos and attachments readable, attachment types supported
//   4. Document: at least one row in the dossier
//
// SEVERITY:
//   - "error"   = generation will fail (e.g. unreadable attachment)
//   - "warning" = generation succeeds but the dossier differs from the form
//   - "info"    = worth knowing, nothing is lost
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/dossier-generator/internal/collector"
	"github.com/ginjaninja78/dossier-generator/internal/report"
	"github.com/ginjaninja78/dossier-generator/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// =============================================================================
// VALIDATION ISSUE TYPES
// =============================================================================

// Issue represents a single finding.
type Issue struct {
	// Severity is one of SeverityError, SeverityWarning, SeverityInfo.
	Severity string

	// Section is the form section ("HEADER", "SELL OUT", ..., "ATTACHMENTS").
	Section string

	// Row is the 1-based row (or file) number within the section, 0 for
	// header fields.
	Row int

	// Field is the name of the field that was checked.
	Field string

	// Value is the offending value.
	Value string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	where := i.Section
	if i.Row > 0 {
		where = fmt.Sprintf("%s row %d", i.Section, i.Row)
	}
	if i.Value != "" {
		return fmt.Sprintf("[%s] %s, field '%s': %s (value: '%s')",
			strings.ToUpper(i.Severity), where, i.Field, i.Message, i.Value)
	}
	return fmt.Sprintf("[%s] %s, field '%s': %s",
		strings.ToUpper(i.Severity), where, i.Field, i.Message)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the results of validation.
type Result struct {
	// IsValid is true if there are no errors. Warnings do not count.
	IsValid bool

	// Issues contains every finding, in check order.
	Issues []*Issue

	ErrorCount   int
	WarningCount int
}

func (r *Result) add(issue *Issue) {
	r.Issues = append(r.Issues, issue)
	switch issue.Severity {
	case SeverityError:
		r.ErrorCount++
	case SeverityWarning:
		r.WarningCount++
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Options contains options for validation.
type Options struct {
	// RequiredHeader lists the header fields that must be filled in.
	// Default: network, market, city, state, seller
	RequiredHeader []string

	// CheckFiles opens every photo and attachment to confirm it is readable.
	// Default: true
	CheckFiles bool

	// TreatWarningsAsErrors makes any warning invalidate the form.
	// Default: false
	TreatWarningsAsErrors bool
}

// Header field names used in issues and Options.RequiredHeader.
const (
	HeaderNetwork  = "network"
	HeaderMarket   = "market"
	HeaderCity     = "city"
	HeaderState    = "state"
	HeaderSeller   = "seller"
	HeaderContract = "contract"
)

// DefaultOptions returns the default validation options.
func DefaultOptions() Options {
	return Options{
		RequiredHeader: []string{HeaderNetwork, HeaderMarket, HeaderCity, HeaderState, HeaderSeller},
		CheckFiles:     true,
	}
}

// Validator checks forms.
type Validator struct {
	options Options
}

// NewValidator creates a Validator with the default options.
func NewValidator() *Validator {
	return &Validator{options: DefaultOptions()}
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options Options) *Validator {
	return &Validator{options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks a form with the default options.
func Validate(form types.FormData) *Result {
	return NewValidator().ValidateForm(form)
}

// ValidateForm runs every check and returns all findings.
//
// PARAMETERS:
//   - form: The form to check. It is not modified.
//
// RETURNS:
//   - The validation result. It is never nil.
func (v *Validator) ValidateForm(form types.FormData) *Result {
	result := &Result{}

	v.validateHeader(form, result)

	rows := 0
	rows += v.validateLineItems(types.SectionSellOut, form.SellOut, result)
	rows += v.validateLineItems(types.SectionSellIn, form.SellIn, result)
	rows += v.validateMerch(form, result)

	v.validateColumns(form.IgnoredColumns, result)

	if rows == 0 {
		result.add(&Issue{
			Severity: SeverityWarning,
			Section:  "DOCUMENT",
			Field:    "rows",
			Message:  "the form has no filled-in rows; the dossier will only contain the header",
		})
	}

	if v.options.CheckFiles {
		v.validateAttachments(form.Attachments, result)
	}

	result.IsValid = result.ErrorCount == 0
	if v.options.TreatWarningsAsErrors && result.WarningCount > 0 {
		result.IsValid = false
	}
	return result
}

// validateHeader flags missing required header fields.
func (v *Validator) validateHeader(form types.FormData, result *Result) {
	values := map[string]string{
		HeaderNetwork:  form.Network,
		HeaderMarket:   form.Market,
		HeaderCity:     form.City,
		HeaderState:    form.State,
		HeaderSeller:   form.Seller,
		HeaderContract: form.Contract,
	}

	for _, field := range v.options.RequiredHeader {
		if strings.TrimSpace(values[field]) != "" {
			continue
		}
		msg := "is empty"
		if field == HeaderNetwork {
			msg = "is empty; the file name will use the fallback network"
		}
		result.add(&Issue{
			Severity: SeverityWarning,
			Section:  "HEADER",
			Field:    field,
			Message:  msg,
		})
	}
}

// validateLineItems checks sell-out or sell-in rows and returns how many
// of them will reach the dossier.
func (v *Validator) validateLineItems(kind types.SectionKind, rows []types.Row, result *Result) int {
	kept := 0
	for i, row := range rows {
		items := collector.CollectRows(kind, []types.Row{row})
		if len(items) == 0 {
			continue
		}
		kept++
		checkAmount(result, kind.String(), i+1, types.FieldFund+kind.FieldSuffix(), items[0].Fund)
	}
	return kept
}

// validateMerch checks merchandising rows and their photos and returns how
// many rows will reach the dossier.
func (v *Validator) validateMerch(form types.FormData, result *Result) int {
	section := types.SectionMerch.String()
	kept := 0

	for i, row := range form.Merch {
		items := collector.CollectMerchRows([]types.Row{row})
		if len(items) == 0 {
			continue
		}
		kept++

		checkAmount(result, section, i+1, types.FieldMerchFund, items[0].Fund)

		option := collector.Lookup(row, types.FieldMerchOption)
		custom := collector.Lookup(row, types.FieldMerchCustom)
		switch {
		case option == types.MerchOptionOther && !collector.OverridesOption(option, custom):
			result.add(&Issue{
				Severity: SeverityWarning, Section: section, Row: i + 1,
				Field: types.FieldMerchOption, Value: option,
				Message: "OTHER selected without a description; the option will read OTHER",
			})
		case collector.OverridesOption(option, custom) && strings.TrimSpace(custom) == "":
			result.add(&Issue{
				Severity: SeverityWarning, Section: section, Row: i + 1,
				Field: types.FieldMerchCustom, Value: custom,
				Message: "OTHER description is only whitespace; the option cell will look empty",
			})
		case option != types.MerchOptionOther && strings.TrimSpace(custom) != "":
			result.add(&Issue{
				Severity: SeverityInfo, Section: section, Row: i + 1,
				Field: types.FieldMerchCustom, Value: custom,
				Message: "description is only used when the option is OTHER",
			})
		}

		if !v.options.CheckFiles || i >= len(form.MerchPhotos) || form.MerchPhotos[i] == nil {
			continue
		}
		photo := form.MerchPhotos[i]
		if !types.IsEmbeddableImage(photo.MediaType()) {
			result.add(&Issue{
				Severity: SeverityError, Section: section, Row: i + 1,
				Field: "photo", Value: photo.Name(),
				Message: fmt.Sprintf("type %q is not a PNG or JPEG image; generation will fail", photo.MediaType()),
			})
			continue
		}
		if err := checkReadable(photo); err != nil {
			result.add(&Issue{
				Severity: SeverityWarning, Section: section, Row: i + 1,
				Field: "photo", Value: photo.Name(),
				Message: fmt.Sprintf("cannot be read and will be left out: %v", err),
			})
		}
	}

	return kept
}

// validateColumns flags source columns that map to no field.
func (v *Validator) validateColumns(columns []types.IgnoredColumn, result *Result) {
	for _, c := range columns {
		result.add(&Issue{
			Severity: SeverityWarning, Section: c.Section.String(),
			Field: c.Name,
			Message: "column is not recognised; its values are ignored",
		})
	}
}

// validateAttachments checks attachment types and readability.
func (v *Validator) validateAttachments(files []types.File, result *Result) {
	for i, f := range files {
		if f == nil {
			continue
		}

		if !types.IsPDF(f.MediaType()) && !types.IsImage(f.MediaType()) {
			result.add(&Issue{
				Severity: SeverityWarning, Section: "ATTACHMENTS", Row: i + 1,
				Field: "type", Value: f.Name(),
				Message: fmt.Sprintf("type %q is not supported and will be skipped", f.MediaType()),
			})
			continue
		}
		if types.IsImage(f.MediaType()) && !types.IsEmbeddableImage(f.MediaType()) {
			result.add(&Issue{
				Severity: SeverityError, Section: "ATTACHMENTS", Row: i + 1,
				Field: "type", Value: f.Name(),
				Message: fmt.Sprintf("image type %q is not PNG or JPEG; generation will fail", f.MediaType()),
			})
			continue
		}

		if err := checkReadable(f); err != nil {
			result.add(&Issue{
				Severity: SeverityError, Section: "ATTACHMENTS", Row: i + 1,
				Field: "file", Value: f.Name(),
				Message: fmt.Sprintf("cannot be read; generation will fail: %v", err),
			})
		}
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// checkAmount warns when a fund is not a plain number, since only its
// numeric prefix is summed.
func checkAmount(result *Result, section string, row int, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, err := decimal.NewFromString(value); err == nil {
		return
	}

	result.add(&Issue{
		Severity: SeverityWarning,
		Section:  section,
		Row:      row,
		Field:    field,
		Value:    value,
		Message:  fmt.Sprintf("not a plain number; it will be summed as %s", report.FormatAmount(report.ParseAmount(value))),
	})
}

// checkReadable opens a file and reads its first byte.
func checkReadable(f types.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := rc.Read(make([]byte, 1)); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// FormatIssues formats issues for display or logging.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No validation issues."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d issue(s):\n\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}

// WriteIssueLog writes issues to a log file next to a form.
//
// PARAMETERS:
//   - issues: The issues to write.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteIssueLog(issues []*Issue, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create issue log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
	writer.WriteString(FormatIssues(issues))
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write issue log: %w", err)
	}
	return nil
}
