package validation

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/dossier-generator/internal/types"
	"github.com/ginjaninja78/dossier-generator/pkg/utils"
)

type brokenFile struct{ mediaType string }

func (brokenFile) Name() string        { return "broken" }
func (f brokenFile) MediaType() string { return f.mediaType }
func (brokenFile) Open() (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

func completeForm() types.FormData {
	return types.FormData{
		Network: "RedeX", Market: "M", City: "C", State: "UF", Seller: "V",
		SellOut: []types.Row{{types.FieldFamily: "REFRIKO", types.FieldFund: "1000.50"}},
	}
}

func issuesFor(result *Result, field string) []*Issue {
	var out []*Issue
	for _, issue := range result.Issues {
		if issue.Field == field {
			out = append(out, issue)
		}
	}
	return out
}

func TestValidateForm_Clean(t *testing.T) {
	result := Validate(completeForm())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, "No validation issues.", FormatIssues(result.Issues))
}

func TestValidateForm_MissingHeader(t *testing.T) {
	form := completeForm()
	form.Network = ""
	form.Seller = "  "

	result := Validate(form)

	assert.True(t, result.IsValid, "header gaps are warnings")
	assert.Equal(t, 2, result.WarningCount)
	require.Len(t, issuesFor(result, HeaderNetwork), 1)
	assert.Contains(t, issuesFor(result, HeaderNetwork)[0].Message, "fallback")
	assert.Len(t, issuesFor(result, HeaderSeller), 1)
	assert.Empty(t, issuesFor(result, HeaderContract))
}

func TestValidateForm_Amounts(t *testing.T) {
	form := completeForm()
	form.SellOut = append(form.SellOut,
		types.Row{types.FieldFund: "12.5 R$"},
		types.Row{types.FieldFund: "abc"},
		types.Row{},
	)
	form.SellIn = []types.Row{{types.FieldFund + "_in": "1.000,50"}}

	result := Validate(form)

	funds := issuesFor(result, types.FieldFund)
	require.Len(t, funds, 2)
	assert.Equal(t, 2, funds[0].Row)
	assert.Contains(t, funds[0].Message, "12.50")
	assert.Equal(t, 3, funds[1].Row)
	assert.Contains(t, funds[1].Message, "0.00")

	in := issuesFor(result, types.FieldFund+"_in")
	require.Len(t, in, 1)
	assert.Equal(t, "SELL IN", in[0].Section)
	assert.Contains(t, in[0].Message, "1.00")
}

func TestValidateForm_MerchOptions(t *testing.T) {
	form := completeForm()
	form.Merch = []types.Row{
		{types.FieldMerchFund: "10", types.FieldMerchOption: types.MerchOptionOther},
		{types.FieldMerchFund: "10", types.FieldMerchOption: "ILHA", types.FieldMerchCustom: "ignored"},
	}

	result := Validate(form)

	options := issuesFor(result, types.FieldMerchOption)
	require.Len(t, options, 1)
	assert.Equal(t, SeverityWarning, options[0].Severity)

	custom := issuesFor(result, types.FieldMerchCustom)
	require.Len(t, custom, 1)
	assert.Equal(t, SeverityInfo, custom[0].Severity)
	assert.Equal(t, 2, custom[0].Row)
}

func TestValidateForm_Files(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(good, []byte("%PDF-1.4"), 0644))

	form := completeForm()
	form.Merch = []types.Row{
		{types.FieldMerchFund: "1"},
		{},
		{types.FieldMerchFund: "2"},
	}
	form.MerchPhotos = []types.File{
		utils.NewDiskFile(filepath.Join(dir, "missing.png"), ""),
		brokenFile{mediaType: types.MediaTypePNG},
		&utils.MemoryFile{FileName: "notes.txt", Declared: "text/plain", Data: []byte("x")},
	}
	form.Attachments = []types.File{
		utils.NewDiskFile(good, ""),
		&utils.MemoryFile{FileName: "sheet.xlsx", Declared: "application/vnd.ms-excel"},
		brokenFile{mediaType: types.MediaTypePDF},
	}

	result := Validate(form)

	photos := issuesFor(result, "photo")
	require.Len(t, photos, 2, "the blank row's photo is not checked")
	assert.Equal(t, 1, photos[0].Row)
	assert.Contains(t, photos[0].Message, "left out")
	assert.Equal(t, SeverityWarning, photos[0].Severity)
	assert.Equal(t, 3, photos[1].Row)
	assert.Equal(t, SeverityError, photos[1].Severity)
	assert.Contains(t, photos[1].Message, "not a PNG or JPEG")

	require.Len(t, issuesFor(result, "type"), 1)
	broken := issuesFor(result, "file")
	require.Len(t, broken, 1)
	assert.Equal(t, SeverityError, broken[0].Severity)
	assert.Equal(t, 3, broken[0].Row)

	assert.False(t, result.IsValid)
	assert.Equal(t, 2, result.ErrorCount)
}

func TestValidateForm_PhotoThatCannotBeEmbedded(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		valid     bool
	}{
		{"pdf", types.MediaTypePDF, false},
		{"gif", "image/gif", false},
		{"png", types.MediaTypePNG, true},
		{"jpeg", types.MediaTypeJPEG, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := completeForm()
			form.Merch = []types.Row{{types.FieldMerchFund: "500", types.FieldMerchOption: "ILHA"}}
			form.MerchPhotos = []types.File{
				&utils.MemoryFile{FileName: "photo", Declared: tt.mediaType, Data: []byte("x")},
			}

			result := Validate(form)

			assert.Equal(t, tt.valid, result.IsValid)
			if !tt.valid {
				photos := issuesFor(result, "photo")
				require.Len(t, photos, 1)
				assert.Equal(t, SeverityError, photos[0].Severity)
			}
		})
	}
}

func TestValidateForm_AttachmentImageThatCannotBeEmbedded(t *testing.T) {
	form := completeForm()
	form.Attachments = []types.File{
		&utils.MemoryFile{FileName: "scan.gif", Declared: "image/gif", Data: []byte("GIF89a")},
	}

	result := Validate(form)

	kinds := issuesFor(result, "type")
	require.Len(t, kinds, 1)
	assert.Equal(t, SeverityError, kinds[0].Severity)
	assert.False(t, result.IsValid)
}

func TestValidateForm_OtherDescriptionMatchesReport(t *testing.T) {
	form := completeForm()
	form.Merch = []types.Row{
		{types.FieldMerchFund: "10", types.FieldMerchOption: types.MerchOptionOther, types.FieldMerchCustom: "   "},
		{"merch_fund[1]": "10", "merch_option[1]": types.MerchOptionOther, "merch_custom[1]": "Gondola end"},
		{"merch_fund[2]": "10", "merch_option[2]": types.MerchOptionOther},
	}

	result := Validate(form)

	custom := issuesFor(result, types.FieldMerchCustom)
	require.Len(t, custom, 1)
	assert.Equal(t, 1, custom[0].Row)
	assert.Contains(t, custom[0].Message, "whitespace")

	options := issuesFor(result, types.FieldMerchOption)
	require.Len(t, options, 1, "indexed names are read like the report reads them")
	assert.Equal(t, 3, options[0].Row)
}

func TestValidateForm_IgnoredColumns(t *testing.T) {
	form := completeForm()
	form.IgnoredColumns = []types.IgnoredColumn{
		{Section: types.SectionSellOut, Name: "Observação"},
	}

	result := Validate(form)

	ignored := issuesFor(result, "Observação")
	require.Len(t, ignored, 1)
	assert.Equal(t, SeverityWarning, ignored[0].Severity)
	assert.Equal(t, "SELL OUT", ignored[0].Section)
	assert.True(t, result.IsValid)
}

func TestValidateForm_NoRows(t *testing.T) {
	form := completeForm()
	form.SellOut = []types.Row{{}, {types.FieldFamily: "  "}}

	result := Validate(form)

	require.Len(t, issuesFor(result, "rows"), 1)
	assert.True(t, result.IsValid)

	strict := NewValidatorWithOptions(Options{TreatWarningsAsErrors: true}).ValidateForm(form)
	assert.False(t, strict.IsValid)
}

func TestValidateForm_SkipFileChecks(t *testing.T) {
	form := completeForm()
	form.Attachments = []types.File{brokenFile{mediaType: types.MediaTypePDF}}

	result := NewValidatorWithOptions(Options{}).ValidateForm(form)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
}

func TestWriteIssueLog(t *testing.T) {
	issue := &Issue{Severity: SeverityWarning, Section: "SELL OUT", Row: 2, Field: "item_fund", Value: "abc", Message: "bad"}
	assert.Equal(t, "[WARNING] SELL OUT row 2, field 'item_fund': bad (value: 'abc')", issue.Error())

	path := filepath.Join(t.TempDir(), "issues.log")
	require.NoError(t, WriteIssueLog([]*Issue{issue}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "1. [WARNING] SELL OUT row 2"))
}
