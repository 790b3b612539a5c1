package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "rows.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse_Sections(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Sell Out": {
			{"Family", "Product", "Fund"},
			{"REFRIKO", "Cola 2L", "1000.50"},
			{nil, nil, nil},
			{"AGUA", "", "200"},
		},
		SheetMerch: {
			{},
			{"Fund", "Option", "Photo"},
			{"500", "ILHA", "photos/a.png"},
		},
		"_lists": {
			{"ILHA"},
		},
	})

	wb, err := Parse(path)
	require.NoError(t, err)

	sellOut := wb.Sheet(SheetSellOut)
	require.NotNil(t, sellOut, "sheet names match case-insensitively")
	assert.Equal(t, []string{"Family", "Product", "Fund"}, sellOut.Headers)
	require.Len(t, sellOut.Rows, 2)
	assert.Equal(t, "1000.50", sellOut.Rows[0]["Fund"])
	assert.Equal(t, "", sellOut.Rows[1]["Product"])

	merch := wb.Sheet(SheetMerch)
	require.NotNil(t, merch)
	require.Len(t, merch.Rows, 1)
	assert.Equal(t, "photos/a.png", merch.Rows[0]["Photo"])

	assert.Nil(t, wb.Sheet(SheetSellIn))
	assert.Nil(t, wb.Sheet("_lists"))
}

func TestParse_KeepsCellPadding(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		SheetSellOut: {
			{" Family ", "Product"},
			{"  A  ", "Cola"},
		},
	})

	wb, err := Parse(path)
	require.NoError(t, err)

	sellOut := wb.Sheet(SheetSellOut)
	require.NotNil(t, sellOut)
	require.Len(t, sellOut.Rows, 1)
	assert.Equal(t, "  A  ", sellOut.Rows[0]["Family"])
	assert.Equal(t, "Cola", sellOut.Rows[0]["Product"])
}

func TestParse_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{SheetSellIn: nil})

	wb, err := Parse(path)
	require.NoError(t, err)

	sheet := wb.Sheet(SheetSellIn)
	require.NotNil(t, sheet)
	assert.Empty(t, sheet.Headers)
	assert.Empty(t, sheet.Rows)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestCleanHeaders(t *testing.T) {
	assert.Equal(t, []string{"Fund", "Column_B", "TTV"}, cleanHeaders([]string{" Fund ", "", "TTV"}))
}
