package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"covalence/internal/models"
	"covalence/internal/services/storage"
)

// Reference table filenames. The alternate plural spelling survives from
// older distributions of the calibration sheet.
const (
	PrimaryFilename  = "sector_defaults.csv"
	FallbackFilename = "sectors_defaults.csv"
)

// Loader reads the sector reference table from the data directory
type Loader struct {
	DataDir string

	// Filename, when set, names the exact table file to read and
	// bypasses the primary/fallback chain
	Filename string

	store *storage.Storage
}

// columnMappings maps spreadsheet export column names to our standard names
var columnMappings = map[string][]string{
	"Sector": {
		"sector", "Sector", "SECTOR",
	},
	"BaselineIntensity": {
		"india_emission_intensity_tCO2_per_tonne",
		"india_emission_intensity_tco2_per_tonne",
		"India Emission Intensity tCO2 per tonne",
		"baseline_intensity_tCO2_per_tonne",
	},
	"EUBenchmark": {
		"eu_benchmark_intensity_tCO2_per_tonne",
		"eu_benchmark_intensity_tco2_per_tonne",
		"EU Benchmark Intensity tCO2 per tonne",
	},
	"ETSPrice": {
		"ets_price_eur_per_tCO2",
		"ets_price_eur_per_tco2",
		"ETS Price EUR per tCO2",
	},
	"ExportPrice": {
		"typical_export_price_per_tonne_eur",
		"typical_export_price_eur_per_tonne",
		"Typical Export Price per tonne EUR",
	},
	"PreMargin": {
		"typical_pre_cbam_margin_pct",
		"Typical Pre CBAM Margin pct",
	},
}

// New creates a new Loader for the given data directory
func New(dataDir string, store *storage.Storage) *Loader {
	return &Loader{
		DataDir: dataDir,
		store:   store,
	}
}

// Table holds the loaded reference rows, keyed and ordered by sector.
type Table struct {
	Source string // Filename the table was loaded from
	rows   map[string]models.SectorReference
	order  []string
}

// Sectors returns the reference rows in file order.
func (t *Table) Sectors() []models.SectorReference {
	out := make([]models.SectorReference, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.rows[name])
	}
	return out
}

// Names returns the sector names in file order.
func (t *Table) Names() []string {
	return append([]string(nil), t.order...)
}

// Lookup returns the reference row for a sector.
func (t *Table) Lookup(sector string) (models.SectorReference, error) {
	row, ok := t.rows[strings.ToLower(strings.TrimSpace(sector))]
	if !ok {
		return models.SectorReference{}, fmt.Errorf("unknown sector %q (have: %s)", sector, strings.Join(t.order, ", "))
	}
	return row, nil
}

// Load reads the reference table, trying the primary filename first and
// the legacy plural spelling second. Missing both, or a malformed table,
// is an error: the calculator cannot run without calibration data.
func (l *Loader) Load() (*Table, error) {
	names := []string{PrimaryFilename, FallbackFilename}
	if l.Filename != "" {
		names = []string{l.Filename}
	}

	for _, name := range names {
		path := filepath.Join(l.DataDir, name)
		data, err := l.store.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		table, err := parseTable(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		table.Source = name

		log.Printf("Loaded %d sector reference rows from %s", len(table.order), name)
		return table, nil
	}

	return nil, fmt.Errorf("reference table not found: tried %s in %s",
		strings.Join(names, " and "), l.DataDir)
}

// parseTable parses the CSV content into a Table
func parseTable(data []byte) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(string(decodeLatin1(data))))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("table has no data rows")
	}

	colIndex := buildColumnIndex(records[0])
	for _, required := range []string{"Sector", "BaselineIntensity", "EUBenchmark", "ETSPrice", "ExportPrice", "PreMargin"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s (tried: %v)", required, columnMappings[required])
		}
	}

	table := &Table{rows: make(map[string]models.SectorReference)}

	for i, record := range records[1:] {
		sector := strings.ToLower(field(record, colIndex["Sector"]))
		if sector == "" {
			continue // Blank line
		}

		row := models.SectorReference{Sector: sector}
		for _, col := range []struct {
			name string
			dst  *float64
		}{
			{"BaselineIntensity", &row.BaselineIntensity},
			{"EUBenchmark", &row.EUBenchmark},
			{"ETSPrice", &row.ETSPriceEUR},
			{"ExportPrice", &row.ExportPriceEUR},
			{"PreMargin", &row.PreCBAMMarginPct},
		} {
			value, err := parseNumber(field(record, colIndex[col.name]))
			if err != nil {
				return nil, fmt.Errorf("row %d (%s): bad %s: %w", i+2, sector, col.name, err)
			}
			*col.dst = value
		}

		if _, dup := table.rows[sector]; dup {
			return nil, fmt.Errorf("row %d: duplicate sector %q", i+2, sector)
		}
		table.rows[sector] = row
		table.order = append(table.order, sector)
	}

	if len(table.order) == 0 {
		return nil, fmt.Errorf("table has no data rows")
	}

	return table, nil
}

// normalizeColumnName maps an export column name to our standard name
func normalizeColumnName(col string) string {
	col = strings.TrimSpace(strings.TrimPrefix(col, "\uFEFF"))
	for standard, variants := range columnMappings {
		for _, variant := range variants {
			if strings.EqualFold(col, variant) {
				return standard
			}
		}
	}
	return col
}

// buildColumnIndex creates a normalized column index from CSV headers
func buildColumnIndex(header []string) map[string]int {
	colIndex := make(map[string]int)
	for i, col := range header {
		normalized := normalizeColumnName(col)
		// Only set if not already set (first match wins)
		if _, exists := colIndex[normalized]; !exists {
			colIndex[normalized] = i
		}
	}
	return colIndex
}

// field safely extracts a trimmed field from a record
func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseNumber parses a numeric cell, tolerating thousands separators
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

// decodeLatin1 reinterprets a Latin-1 byte stream as UTF-8. Reference
// sheets exported from spreadsheets often arrive in that encoding.
func decodeLatin1(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return []byte(string(runes))
}
