package collector

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/dossier-generator/internal/types"
)

type stubFile struct{ name string }

func (s stubFile) Name() string      { return s.name }
func (s stubFile) MediaType() string { return types.MediaTypePNG }
func (s stubFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func TestCollectRows_SkipsBlankRows(t *testing.T) {
	rows := []types.Row{
		{types.FieldFamily: "REFRIKO", types.FieldFund: "10"},
		{types.FieldFamily: "   ", types.FieldProduct: "\t", types.FieldFund: ""},
		{},
		{types.FieldTTV: " 3 "},
	}

	items := CollectRows(types.SectionSellOut, rows)

	require.Len(t, items, 2)
	assert.Equal(t, "REFRIKO", items[0].Family)
	assert.Equal(t, "10", items[0].Fund)
	assert.Equal(t, " 3 ", items[1].TTV, "values are kept verbatim")
}

func TestCollectRows_SellInUsesSuffix(t *testing.T) {
	rows := []types.Row{
		{
			types.FieldFamily:         "OUT",
			types.FieldFamily + "_in": "IN",
			types.FieldFund + "_in":   "20",
		},
		{types.FieldFund: "99"},
	}

	items := CollectRows(types.SectionSellIn, rows)

	require.Len(t, items, 1, "row with only sell-out fields is blank for sell-in")
	assert.Equal(t, "IN", items[0].Family)
	assert.Equal(t, "20", items[0].Fund)
}

func TestCollectRows_IndexedFieldNames(t *testing.T) {
	rows := []types.Row{
		{"item_product[]": "TUBA JUJUBA", "item_fund_in[]": "5"},
	}

	out := CollectRows(types.SectionSellOut, rows)
	require.Len(t, out, 1)
	assert.Equal(t, "TUBA JUJUBA", out[0].Product)
	assert.Empty(t, out[0].Fund, "sell-in field must not leak into sell-out")
}

func TestCollectRows_PreservesOrder(t *testing.T) {
	var rows []types.Row
	for _, fam := range []string{"A", "B", "C", "D"} {
		rows = append(rows, types.Row{types.FieldFamily: fam})
	}

	items := CollectRows(types.SectionSellOut, rows)

	require.Len(t, items, 4)
	for i, fam := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, fam, items[i].Family)
	}
}

func TestCollectMerchRows_OptionResolution(t *testing.T) {
	tests := []struct {
		name     string
		row      types.Row
		expected string
	}{
		{
			name:     "plain option",
			row:      types.Row{types.FieldMerchFund: "1", types.FieldMerchOption: "ILHA"},
			expected: "ILHA",
		},
		{
			name: "other with custom",
			row: types.Row{
				types.FieldMerchFund:   "1",
				types.FieldMerchOption: types.MerchOptionOther,
				types.FieldMerchCustom: "PONTA DE GONDOLA",
			},
			expected: "PONTA DE GONDOLA",
		},
		{
			name:     "other without custom",
			row:      types.Row{types.FieldMerchFund: "1", types.FieldMerchOption: types.MerchOptionOther},
			expected: types.MerchOptionOther,
		},
		{
			name:     "custom ignored for regular option",
			row:      types.Row{types.FieldMerchOption: "ILHA", types.FieldMerchCustom: "X"},
			expected: "ILHA",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items := CollectMerchRows([]types.Row{tc.row})
			require.Len(t, items, 1)
			assert.Equal(t, tc.expected, items[0].Option)
		})
	}
}

func TestCollectMerch_KeepsPhotoSlotsAligned(t *testing.T) {
	rows := []types.Row{
		{types.FieldMerchFund: "100"},
		{types.FieldMerchFund: " ", types.FieldMerchOption: ""},
		{types.FieldMerchFund: "300"},
		{types.FieldMerchOption: "ILHA"},
	}
	photos := []types.File{stubFile{"a.png"}, stubFile{"blank.png"}, nil}

	items, slots := CollectMerch(rows, photos)

	require.Len(t, items, 3)
	require.Len(t, slots, len(items))
	assert.Equal(t, "a.png", slots[0].Name())
	assert.Nil(t, slots[1])
	assert.Nil(t, slots[2], "photo list shorter than rows yields empty slots")
	assert.Equal(t, "300", items[1].Fund)
}

func TestCollectAttachments(t *testing.T) {
	files := []types.File{stubFile{"1.pdf"}, nil, stubFile{"2.png"}}

	out := CollectAttachments(files)

	require.Len(t, out, 2)
	assert.Equal(t, "1.pdf", out[0].Name())
	assert.Equal(t, "2.png", out[1].Name())
}

func TestOverridesOption(t *testing.T) {
	assert.True(t, OverridesOption(types.MerchOptionOther, "Gondola end"))
	assert.True(t, OverridesOption(types.MerchOptionOther, "  "), "whitespace is printed as entered")
	assert.False(t, OverridesOption(types.MerchOptionOther, ""))
	assert.False(t, OverridesOption("ILHA", "Gondola end"))

	items := CollectMerchRows([]types.Row{{types.FieldMerchOption: types.MerchOptionOther, types.FieldMerchCustom: "  "}})
	require.Len(t, items, 1)
	assert.Equal(t, "  ", items[0].Option)
}
