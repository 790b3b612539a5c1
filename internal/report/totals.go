// =============================================================================
// Dossier Generator - Fund Totals
// =============================================================================
//
// Totals are computed from the collected rows of one render pass:
//
//   SELL OUT       sum of the sell-out fund column
//   SELL IN        sum of the sell-in fund column
//   MERCHANDISING  sum of the merchandising fund column
//   GRAND          sum of the three
//
// Each value contributes its leading number ("12.5 R$" counts as 12.5); a
// value without one counts as zero. A grand total at or above the approval
// threshold adds a third signature to the report.
//
// =============================================================================

package report

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/dossier-generator/internal/types"
)

// ApprovalThreshold is the grand total at which a third signature is
// required. It is part of the report layout and not configurable.
var ApprovalThreshold = decimal.NewFromInt(15000)

// leadingNumber matches the numeric prefix of a raw field value.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

// Totals holds the fund sums of one render pass.
type Totals struct {
	SellOut decimal.Decimal
	SellIn  decimal.Decimal
	Merch   decimal.Decimal
	Grand   decimal.Decimal
}

// ComputeTotals sums the fund column of each section. Values that do not
// start with a number count as zero.
func ComputeTotals(sellOut, sellIn []types.LineItem, merch []types.MerchItem) Totals {
	t := Totals{
		SellOut: decimal.Zero,
		SellIn:  decimal.Zero,
		Merch:   decimal.Zero,
	}

	for _, item := range sellOut {
		t.SellOut = t.SellOut.Add(ParseAmount(item.Fund))
	}
	for _, item := range sellIn {
		t.SellIn = t.SellIn.Add(ParseAmount(item.Fund))
	}
	for _, item := range merch {
		t.Merch = t.Merch.Add(ParseAmount(item.Fund))
	}

	t.Grand = t.SellOut.Add(t.SellIn).Add(t.Merch)
	return t
}

// RequiresApproval reports whether the third signature line is needed.
func (t Totals) RequiresApproval() bool {
	return t.Grand.GreaterThanOrEqual(ApprovalThreshold)
}

// ParseAmount parses the leading number of a raw value, so "12.5 R$" is
// 12.5. Anything without a numeric prefix is zero.
func ParseAmount(raw string) decimal.Decimal {
	m := leadingNumber.FindString(strings.TrimSpace(raw))
	if m == "" {
		return decimal.Zero
	}

	// decimal wants a digit before the point.
	sign := ""
	if m[0] == '+' || m[0] == '-' {
		sign, m = m[:1], m[1:]
	}
	if strings.HasPrefix(m, ".") {
		m = "0" + m
	}
	if sign == "+" {
		sign = ""
	}

	d, err := decimal.NewFromString(sign + m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
