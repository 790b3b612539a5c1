// =============================================================================
// Dossier Generator - Form Parser
// =============================================================================
//
// This module materialises a dossier form from a YAML form file.
//
// FORM FILE LAYOUT:
//
//   rede: RedeX            # network (alias: network)
//   mercado: Sul           # market  (alias: market)
//   cidade: Porto Alegre   # city    (alias: city)
//   uf: RS                 # state   (alias: state)
//   vendedor: Joana        # seller  (alias: seller)
//   contrato: C-2024-17    # contract (alias: contract)
//
//   sell_out:
//     - family: REFRIKO
//       product: Cola 2L
//       fund: 1000.50
//   sell_in: [...]
//   merchandising:
//     - fund: 500
//       option: OTHER
//       custom: Gondola end
//       photo: photos/gondola.jpg
//
//   attachments:
//     - contract.pdf
//     - path: scan.png
//       type: image/png
//
//   sources:               # optional table sources, appended after inline rows
//     workbook: rows.xlsx
//     sell_out_csv: sell_out.csv
//     sell_in_csv: sell_in.csv
//     merchandising_csv: merch.csv
//     csv:
//       delimiter: ";"
//
// Relative paths are resolved against the form file's directory. Row keys and
// table headers accept English or Portuguese names, with or without accents.
//
// =============================================================================

package formparser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/dossier-generator/internal/csvparser"
	"github.com/ginjaninja78/dossier-generator/internal/types"
	"github.com/ginjaninja78/dossier-generator/internal/xlsxparser"
	"github.com/ginjaninja78/dossier-generator/pkg/utils"
)

// =============================================================================
// FORM FILE STRUCTURE
// =============================================================================

// formFile mirrors the YAML layout of a form file.
type formFile struct {
	Rede     string `yaml:"rede"`
	Network  string `yaml:"network"`
	Mercado  string `yaml:"mercado"`
	Market   string `yaml:"market"`
	Cidade   string `yaml:"cidade"`
	City     string `yaml:"city"`
	UF       string `yaml:"uf"`
	State    string `yaml:"state"`
	Vendedor string `yaml:"vendedor"`
	Seller   string `yaml:"seller"`
	Contrato string `yaml:"contrato"`
	Contract string `yaml:"contract"`

	SellOut []map[string]string `yaml:"sell_out"`
	SellIn  []map[string]string `yaml:"sell_in"`
	Merch   []map[string]string `yaml:"merchandising"`

	Attachments []attachmentSpec `yaml:"attachments"`

	Sources sourcesSpec `yaml:"sources"`
}

// attachmentSpec is either a bare path or a {path, type} mapping.
type attachmentSpec struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"`
}

// UnmarshalYAML accepts both attachment notations.
func (a *attachmentSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		a.Path = value.Value
		return nil
	}

	type plain attachmentSpec
	return value.Decode((*plain)(a))
}

// sourcesSpec names optional table sources for the rows.
type sourcesSpec struct {
	Workbook   string              `yaml:"workbook"`
	SellOutCSV string              `yaml:"sell_out_csv"`
	SellInCSV  string              `yaml:"sell_in_csv"`
	MerchCSV   string              `yaml:"merchandising_csv"`
	CSV        *csvparser.Settings `yaml:"csv"`
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads a form file.
//
// PARAMETERS:
//   - path: The path to the YAML form file.
//
// RETURNS:
//   - The materialised form. Attachments and photos are not opened here; a
//     missing file surfaces when the pipeline reads it.
//   - An error if the form file or one of its table sources cannot be parsed.
func ParseFile(path string) (types.FormData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FormData{}, fmt.Errorf("failed to read form file: %w", err)
	}

	form, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return types.FormData{}, fmt.Errorf("%s: %w", path, err)
	}
	return form, nil
}

// Parse materialises a form from YAML bytes. Relative paths are resolved
// against baseDir.
func Parse(data []byte, baseDir string) (types.FormData, error) {
	var ff formFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return types.FormData{}, fmt.Errorf("failed to parse form: %w", err)
	}

	form := types.FormData{
		Network:  firstNonEmpty(ff.Rede, ff.Network),
		Market:   firstNonEmpty(ff.Mercado, ff.Market),
		City:     firstNonEmpty(ff.Cidade, ff.City),
		State:    firstNonEmpty(ff.UF, ff.State),
		Seller:   firstNonEmpty(ff.Vendedor, ff.Seller),
		Contract: firstNonEmpty(ff.Contrato, ff.Contract),
	}

	tables, err := loadSources(ff.Sources, baseDir)
	if err != nil {
		return types.FormData{}, err
	}

	var ignored, skipped []types.IgnoredColumn
	form.SellOut, skipped = lineItemRows(types.SectionSellOut, append(ff.SellOut, tables.sellOut...))
	ignored = append(ignored, skipped...)
	form.SellIn, skipped = lineItemRows(types.SectionSellIn, append(ff.SellIn, tables.sellIn...))
	ignored = append(ignored, skipped...)
	form.Merch, form.MerchPhotos, skipped = merchRows(append(ff.Merch, tables.merch...), baseDir)
	form.IgnoredColumns = append(ignored, skipped...)

	for _, a := range ff.Attachments {
		if strings.TrimSpace(a.Path) == "" {
			continue
		}
		form.Attachments = append(form.Attachments, utils.NewDiskFile(resolvePath(baseDir, a.Path), a.Type))
	}

	return form, nil
}

// =============================================================================
// TABLE SOURCES
// =============================================================================

type sourceRows struct {
	sellOut []map[string]string
	sellIn  []map[string]string
	merch   []map[string]string
}

// loadSources reads the workbook first, then the per-section CSV files.
func loadSources(src sourcesSpec, baseDir string) (sourceRows, error) {
	var rows sourceRows

	if src.Workbook != "" {
		wb, err := xlsxparser.Parse(resolvePath(baseDir, src.Workbook))
		if err != nil {
			return rows, fmt.Errorf("failed to read workbook: %w", err)
		}
		if s := wb.Sheet(xlsxparser.SheetSellOut); s != nil {
			rows.sellOut = append(rows.sellOut, s.Rows...)
		}
		if s := wb.Sheet(xlsxparser.SheetSellIn); s != nil {
			rows.sellIn = append(rows.sellIn, s.Rows...)
		}
		if s := wb.Sheet(xlsxparser.SheetMerch); s != nil {
			rows.merch = append(rows.merch, s.Rows...)
		}
	}

	settings := csvparser.DefaultSettings()
	if src.CSV != nil {
		settings = *src.CSV
	}

	csvSources := []struct {
		path string
		dst  *[]map[string]string
	}{
		{src.SellOutCSV, &rows.sellOut},
		{src.SellInCSV, &rows.sellIn},
		{src.MerchCSV, &rows.merch},
	}
	for _, cs := range csvSources {
		if cs.path == "" {
			continue
		}
		data, err := csvparser.Parse(resolvePath(baseDir, cs.path), settings)
		if err != nil {
			return rows, fmt.Errorf("failed to read CSV rows: %w", err)
		}
		*cs.dst = append(*cs.dst, data.Rows...)
	}

	return rows, nil
}

// =============================================================================
// ROW MAPPING
// =============================================================================

// keyPhoto marks the merchandising column holding the photo path.
const keyPhoto = "photo"

// lineItemAliases maps normalised headers to line-item field names.
var lineItemAliases = map[string]string{
	"family": types.FieldFamily, "familia": types.FieldFamily, "item_family": types.FieldFamily,
	"product": types.FieldProduct, "produto": types.FieldProduct, "item_product": types.FieldProduct,
	"units": types.FieldUnits, "unidades": types.FieldUnits, "quantidade": types.FieldUnits, "qtd": types.FieldUnits, "item_units": types.FieldUnits,
	"bonus": types.FieldBonus, "bonificacao": types.FieldBonus, "item_bonus": types.FieldBonus,
	"fund": types.FieldFund, "verba": types.FieldFund, "valor": types.FieldFund, "item_fund": types.FieldFund,
	"ttc": types.FieldTTC, "item_ttc": types.FieldTTC,
	"ttv": types.FieldTTV, "item_ttv": types.FieldTTV,
}

// merchAliases maps normalised headers to merchandising field names.
var merchAliases = map[string]string{
	"fund": types.FieldMerchFund, "verba": types.FieldMerchFund, "valor": types.FieldMerchFund, "merch_fund": types.FieldMerchFund,
	"option": types.FieldMerchOption, "opcao": types.FieldMerchOption, "tipo": types.FieldMerchOption, "merch_option": types.FieldMerchOption,
	"custom": types.FieldMerchCustom, "outro": types.FieldMerchCustom, "personalizado": types.FieldMerchCustom, "merch_custom": types.FieldMerchCustom,
	"photo": keyPhoto, "foto": keyPhoto,
}

// lineItemRows maps raw rows to form rows of the given section. Unknown
// keys are dropped and reported once each.
func lineItemRows(kind types.SectionKind, raw []map[string]string) ([]types.Row, []types.IgnoredColumn) {
	if len(raw) == 0 {
		return nil, nil
	}

	suffix := kind.FieldSuffix()
	unknown := make(map[string]bool)
	rows := make([]types.Row, 0, len(raw))
	for _, r := range raw {
		row := make(types.Row, len(types.LineItemFields))
		for key, value := range r {
			name := normalizeKey(key)
			field, ok := lineItemAliases[name]
			if !ok && suffix != "" {
				field, ok = lineItemAliases[strings.TrimSuffix(name, suffix)]
			}
			if !ok {
				unknown[key] = true
				continue
			}
			row[field+suffix] = value
		}
		rows = append(rows, row)
	}
	return rows, ignoredColumns(kind, unknown)
}

// merchRows maps raw merchandising rows and builds the index-aligned photo
// slots. A row without a photo gets a nil slot.
func merchRows(raw []map[string]string, baseDir string) ([]types.Row, []types.File, []types.IgnoredColumn) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	unknown := make(map[string]bool)
	rows := make([]types.Row, 0, len(raw))
	photos := make([]types.File, 0, len(raw))
	for _, r := range raw {
		row := make(types.Row, 3)
		var photo types.File
		for key, value := range r {
			field, ok := merchAliases[normalizeKey(key)]
			switch {
			case !ok:
				unknown[key] = true
			case field == keyPhoto:
				if p := strings.TrimSpace(value); p != "" {
					photo = utils.NewDiskFile(resolvePath(baseDir, p), "")
				}
			default:
				row[field] = value
			}
		}
		rows = append(rows, row)
		photos = append(photos, photo)
	}
	return rows, photos, ignoredColumns(types.SectionMerch, unknown)
}

func ignoredColumns(kind types.SectionKind, names map[string]bool) []types.IgnoredColumn {
	if len(names) == 0 {
		return nil
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	columns := make([]types.IgnoredColumn, len(sorted))
	for i, name := range sorted {
		columns[i] = types.IgnoredColumn{Section: kind, Name: name}
	}
	return columns
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// normalizeKey lower-cases a header, folds accents, drops a trailing unit
// in parentheses and joins the remaining words with "_".
// "Bonificação" becomes "bonificacao", "FUND (R$)" becomes "fund".
func normalizeKey(key string) string {
	// Transformers carry state, so each call builds its own chain.
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, key)
	if err != nil {
		folded = key
	}
	folded = strings.ToLower(folded)
	if i := strings.IndexByte(folded, '('); i > 0 {
		folded = folded[:i]
	}

	words := strings.FieldsFunc(folded, func(r rune) bool {
		return r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	kept := words[:0]
	for _, w := range words {
		// Currency markers such as "Verba R$".
		if w == "r$" || w == "$" {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, "_")
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
