package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReader_Delimiters(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		delimiter string
	}{
		{name: "comma", input: "Family,Fund\nREFRIKO,1000.50\n", delimiter: ","},
		{name: "semicolon", input: "Family;Fund\nREFRIKO;1000.50\n", delimiter: ";"},
		{name: "tab", input: "Family\tFund\nREFRIKO\t1000.50\n", delimiter: "tab"},
		{name: "auto semicolon", input: "Family;Fund\nREFRIKO;1000.50\n", delimiter: "auto"},
		{name: "auto pipe", input: "Family|Fund\nREFRIKO|1000.50\n", delimiter: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseReader(strings.NewReader(tt.input), Settings{Delimiter: tt.delimiter})
			require.NoError(t, err)

			assert.Equal(t, []string{"Family", "Fund"}, data.Headers)
			require.Len(t, data.Rows, 1)
			assert.Equal(t, "REFRIKO", data.Rows[0]["Family"])
			assert.Equal(t, "1000.50", data.Rows[0]["Fund"])
		})
	}
}

func TestParseReader_AutoKeepsDecimalCommaInSemicolonFile(t *testing.T) {
	data, err := ParseReader(strings.NewReader("Family;Fund;TTV\nA;1000,50;2,5\n"), DefaultSettings())
	require.NoError(t, err)

	require.Len(t, data.Rows, 1)
	assert.Equal(t, "1000,50", data.Rows[0]["Fund"])
}

func TestParseReader_MultiLineHeader(t *testing.T) {
	input := "Sell Out,,\nFamily,Fund,\nA,1,x\n"

	data, err := ParseReader(strings.NewReader(input), Settings{Delimiter: ",", HeaderRows: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"Sell Out Family", "Fund", "Column_3"}, data.Headers)
	assert.Equal(t, "x", data.Rows[0]["Column_3"])
}

func TestParseReader_BlankRowsAndShortRows(t *testing.T) {
	input := "\uFEFFFamily,Product,Fund\nA,P1,10\n , ,\nB\n"

	data, err := ParseReader(strings.NewReader(input), DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "Family", data.Headers[0])
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "B", data.Rows[1]["Family"])
	assert.Equal(t, "", data.Rows[1]["Fund"])
}

func TestParseReader_KeepsCellPadding(t *testing.T) {
	data, err := ParseReader(strings.NewReader("Family, Fund \n  A  , 10\n"), DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"Family", "Fund"}, data.Headers)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "  A  ", data.Rows[0]["Family"])
	assert.Equal(t, " 10", data.Rows[0]["Fund"])
}

func TestParseReader_Errors(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""), DefaultSettings())
	assert.Error(t, err)

	_, err = ParseReader(strings.NewReader("a,b\n"), Settings{Delimiter: ",", HeaderRows: 3})
	assert.Error(t, err)

	_, err = ParseReader(strings.NewReader("a,b\n"), Settings{Delimiter: "::"})
	assert.Error(t, err)
}

func TestParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sell_out.csv")
	require.NoError(t, os.WriteFile(path, []byte("Family,Fund\nA,1\n"), 0644))

	data, err := Parse(path, DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, path, data.SourceFile)
	assert.Len(t, data.Rows, 1)

	_, err = Parse(filepath.Join(t.TempDir(), "missing.csv"), DefaultSettings())
	assert.Error(t, err)
}
