// Package dataset loads nota fiscal CSV files (plain or zipped) into
// flat in-memory tables and keeps a registry of everything loaded.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

// Table is a read-only tabular record set: one header plus uniform rows.
type Table struct {
	Name     string
	Path     string
	Columns  []string
	Rows     [][]string
	LoadedAt time.Time
}

// ReadTable parses a CSV file into a Table. Files exported by the NF-e
// portal come in UTF-8 or Latin-1 and use either ',' or ';' as the
// delimiter, so both are detected. Rows whose field count does not match
// the header are skipped, not fatal.
func ReadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler o arquivo '%s': %w", path, err)
	}

	text := decodeText(raw)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("arquivo CSV vazio: %s", filepath.Base(path))
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao interpretar o CSV '%s': %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("arquivo CSV vazio: %s", filepath.Base(path))
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}

	rows := make([][]string, 0, len(records)-1)
	skipped := 0
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			skipped++
			continue
		}
		rows = append(rows, rec)
	}
	if skipped > 0 {
		logrus.Warnf("Skipped %d malformed row(s) in '%s'", skipped, filepath.Base(path))
	}

	return &Table{
		Name:     filepath.Base(path),
		Path:     path,
		Columns:  header,
		Rows:     rows,
		LoadedAt: time.Now(),
	}, nil
}

// decodeText returns the file content as UTF-8, falling back to Latin-1
// when the raw bytes are not valid UTF-8.
func decodeText(raw []byte) string {
	raw = stripBOM(raw)
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// Latin-1 decoding accepts every byte; keep the raw text if it
		// somehow fails anyway.
		return string(raw)
	}
	logrus.Debug("CSV decoded as Latin-1")
	return string(decoded)
}

func stripBOM(raw []byte) []byte {
	if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
		return raw[3:]
	}
	return raw
}

// sniffDelimiter picks ';' when the header line carries more semicolons
// than commas, which is how pt-BR spreadsheets usually export.
func sniffDelimiter(text string) rune {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		line = text[:idx]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
