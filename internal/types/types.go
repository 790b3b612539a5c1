// =============================================================================
// Dossier Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - collector
//   - assets
//   - report
//   - merger
//   - pipeline
//
// =============================================================================

package types

import (
	"errors"
	"io"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidDataURL is returned when a photo asset cannot be decoded.
	ErrInvalidDataURL = errors.New("invalid data url")

	// ErrUnsupportedImage is returned when image bytes cannot be embedded.
	ErrUnsupportedImage = errors.New("unsupported image")
)

// =============================================================================
// MEDIA TYPES
// =============================================================================

const (
	// MediaTypePDF is the declared media type of PDF attachments.
	MediaTypePDF = "application/pdf"

	// MediaTypePNG is the only image subtype embedded losslessly.
	// Every other image subtype is treated as JPEG.
	MediaTypePNG = "image/png"

	// MediaTypeJPEG is the default image media type.
	MediaTypeJPEG = "image/jpeg"
)

// IsPDF reports whether a declared media type is the PDF type.
func IsPDF(mediaType string) bool {
	return mediaType == MediaTypePDF
}

// IsImage reports whether a declared media type is an image type.
func IsImage(mediaType string) bool {
	return strings.Contains(mediaType, "image")
}

// IsEmbeddableImage reports whether an image type can be drawn into the
// dossier. Only PNG and JPEG are supported.
func IsEmbeddableImage(mediaType string) bool {
	switch mediaType {
	case MediaTypePNG, MediaTypeJPEG, "image/jpg":
		return true
	}
	return false
}

// ImageKind returns the embedding kind for an image media type:
// "PNG" when the subtype mentions png, "JPG" otherwise.
func ImageKind(mediaType string) string {
	if strings.Contains(mediaType, "png") {
		return "PNG"
	}
	return "JPG"
}

// =============================================================================
// SECTIONS
// =============================================================================

// SectionKind identifies one of the three editable item collections.
type SectionKind int

const (
	SectionSellOut SectionKind = iota
	SectionSellIn
	SectionMerch
)

// String returns the heading used for the section in the report.
func (k SectionKind) String() string {
	switch k {
	case SectionSellOut:
		return "SELL OUT"
	case SectionSellIn:
		return "SELL IN"
	case SectionMerch:
		return "MERCHANDISING"
	default:
		return "UNKNOWN"
	}
}

// FieldSuffix is appended to every line-item field name of the section.
// Sell-in rows share the same visual layout as sell-out rows, so their
// fields are disambiguated with "_in".
func (k SectionKind) FieldSuffix() string {
	if k == SectionSellIn {
		return "_in"
	}
	return ""
}

// =============================================================================
// EDITABLE ROWS
// =============================================================================

// Line-item field base names, in report column order.
const (
	FieldFamily  = "item_family"
	FieldProduct = "item_product"
	FieldUnits   = "item_units"
	FieldBonus   = "item_bonus"
	FieldFund    = "item_fund"
	FieldTTC     = "item_ttc"
	FieldTTV     = "item_ttv"
)

// LineItemFields lists the seven line-item fields in column order.
var LineItemFields = []string{
	FieldFamily,
	FieldProduct,
	FieldUnits,
	FieldBonus,
	FieldFund,
	FieldTTC,
	FieldTTV,
}

// Merchandising field names.
const (
	FieldMerchFund   = "merch_fund"
	FieldMerchOption = "merch_option"
	FieldMerchCustom = "merch_custom"
)

// MerchOptionOther is the sentinel option that enables the free-text override.
const MerchOptionOther = "OTHER"

// Row is one materialised editable row: form field name to the raw value
// exactly as entered.
type Row map[string]string

// =============================================================================
// FILES
// =============================================================================

// File is an attachment or photo supplied by the caller. Its bytes are only
// read when Open is called, so a read failure surfaces at load time.
type File interface {
	Name() string
	MediaType() string
	Open() (io.ReadCloser, error)
}

// =============================================================================
// FORM DATA
// =============================================================================

// FormData is everything the form layer hands to the pipeline.
type FormData struct {
	Network  string
	Market   string
	City     string
	State    string
	Seller   string
	Contract string

	SellOut []Row
	SellIn  []Row
	Merch   []Row

	// MerchPhotos is index-aligned with Merch. A nil entry means no photo
	// was attached to that row.
	MerchPhotos []File

	// Attachments are appended to the report in this order.
	Attachments []File

	// IgnoredColumns lists source columns that map to no field of their
	// section. Their values never reach the dossier.
	IgnoredColumns []IgnoredColumn
}

// IgnoredColumn is a row key or table header that was not recognised.
type IgnoredColumn struct {
	Section SectionKind
	Name    string
}

// =============================================================================
// COLLECTED ITEMS
// =============================================================================

// LineItem is one collected sell-out or sell-in row. Values are kept as
// entered; numeric parsing happens only during aggregation.
type LineItem struct {
	Family  string
	Product string
	Units   string
	Bonus   string
	Fund    string
	TTC     string
	TTV     string
}

// Cells returns the item values in report column order.
func (li LineItem) Cells() []string {
	return []string{li.Family, li.Product, li.Units, li.Bonus, li.Fund, li.TTC, li.TTV}
}

// MerchItem is one collected merchandising row.
type MerchItem struct {
	Fund   string
	Option string
}

// PhotoAsset is a photo materialised in memory as a data URL.
// A nil *PhotoAsset marks an absent slot.
type PhotoAsset struct {
	DataURL   string
	MediaType string
}
