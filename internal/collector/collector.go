// =============================================================================
// Dossier Generator - Row Collector
// =============================================================================
//
// This module extracts typed tuples from the three editable item collections
// (sell-out, sell-in, merchandising).
//
// BLANK ROW POLICY:
//   A row is kept only if at least one of its relevant cells is non-empty
//   after trimming. Blank rows are dropped silently. Kept values are never
//   trimmed or otherwise altered.
//
// =============================================================================

package collector

import (
	"strings"

	"github.com/ginjaninja78/dossier-generator/internal/types"
)

// CollectRows extracts the line items of a sell-out or sell-in collection.
// Sell-in field names carry the section suffix ("item_fund_in").
func CollectRows(kind types.SectionKind, rows []types.Row) []types.LineItem {
	suffix := kind.FieldSuffix()
	items := make([]types.LineItem, 0, len(rows))

	for _, row := range rows {
		get := func(field string) string {
			return Lookup(row, field+suffix)
		}

		item := types.LineItem{
			Family:  get(types.FieldFamily),
			Product: get(types.FieldProduct),
			Units:   get(types.FieldUnits),
			Bonus:   get(types.FieldBonus),
			Fund:    get(types.FieldFund),
			TTC:     get(types.FieldTTC),
			TTV:     get(types.FieldTTV),
		}

		if isBlank(item.Cells()...) {
			continue
		}
		items = append(items, item)
	}

	return items
}

// CollectMerchRows extracts the merchandising items.
func CollectMerchRows(rows []types.Row) []types.MerchItem {
	items, _ := CollectMerch(rows, nil)
	return items
}

// CollectMerch extracts the merchandising items together with their photo
// slots. The returned photo slice always has the same length as the item
// slice: a dropped blank row takes its photo slot with it, and a row
// without a photo keeps a nil slot.
func CollectMerch(rows []types.Row, photos []types.File) ([]types.MerchItem, []types.File) {
	items := make([]types.MerchItem, 0, len(rows))
	slots := make([]types.File, 0, len(rows))

	for i, row := range rows {
		item := types.MerchItem{
			Fund:   Lookup(row, types.FieldMerchFund),
			Option: resolveOption(row),
		}

		if isBlank(item.Fund, item.Option) {
			continue
		}

		var photo types.File
		if i < len(photos) {
			photo = photos[i]
		}

		items = append(items, item)
		slots = append(slots, photo)
	}

	return items, slots
}

// CollectAttachments returns the attachment files in input order, skipping
// nil entries.
func CollectAttachments(files []types.File) []types.File {
	out := make([]types.File, 0, len(files))
	for _, f := range files {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// resolveOption applies the "OTHER" free-text override.
func resolveOption(row types.Row) string {
	option := Lookup(row, types.FieldMerchOption)
	custom := Lookup(row, types.FieldMerchCustom)

	if OverridesOption(option, custom) {
		return custom
	}
	return option
}

// OverridesOption reports whether the free-text description replaces the
// selected option. Any non-empty description counts, whitespace included.
func OverridesOption(option, custom string) bool {
	return option == types.MerchOptionOther && custom != ""
}

// Lookup finds a field by name. An exact match wins; otherwise the first
// key (in sorted order) that starts with the name is used, so indexed form
// names such as "item_fund[3]" still resolve.
func Lookup(row types.Row, name string) string {
	if v, ok := row[name]; ok {
		return v
	}

	match := ""
	for key := range row {
		if !strings.HasPrefix(key, name) || !isIndexSuffix(key[len(name):]) {
			continue
		}
		if match == "" || key < match {
			match = key
		}
	}
	return row[match]
}

// isIndexSuffix accepts the "[]" and "[n]" suffixes used by form field names.
func isIndexSuffix(s string) bool {
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

func isBlank(cells ...string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
