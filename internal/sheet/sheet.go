// Package sheet decodes uploaded CSV and XLSX files into reconcile rows.
//
// The first non-empty line is the header. Headers are lowercased with all
// whitespace removed; cell values are trimmed and stripped of Excel artifacts.
// Fully blank lines are dropped.
package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/reconcile"
	"github.com/xuri/excelize/v2"
)

// Format identifies an upload encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	// FormatXLS is the legacy binary workbook, recognized only to be refused.
	FormatXLS Format = "xls"
)

// MaxUploadBytes bounds the size of a decoded upload.
const MaxUploadBytes = 10 << 20

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte("\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1")
)

// DetectFormat picks a format from the file name, falling back to content sniffing.
func DetectFormat(filename string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	case ".csv", ".txt":
		return FormatCSV
	}
	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX
	}
	if bytes.HasPrefix(head, oleMagic) {
		return FormatXLS
	}
	return FormatCSV
}

// Decode reads every row of r. filename only informs format detection.
// An unreadable file is reported as ledger.ErrInputShape.
func Decode(filename string, r io.Reader) ([]reconcile.Row, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", ledger.ErrInputShape, err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", ledger.ErrInputShape, MaxUploadBytes)
	}

	var records [][]string
	switch DetectFormat(filename, data) {
	case FormatXLSX:
		records, err = readXLSX(data)
	case FormatXLS:
		return nil, fmt.Errorf("%w: legacy .xls workbooks are not supported, save the file as .xlsx or .csv", ledger.ErrInputShape)
	default:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrInputShape, err)
	}
	return ToRows(records), nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// ToRows turns raw records into rows keyed by normalized header.
// The result is never nil.
func ToRows(records [][]string) []reconcile.Row {
	rows := []reconcile.Row{}

	start := 0
	for start < len(records) && blank(records[start]) {
		start++
	}
	if start >= len(records) {
		return rows
	}

	header := make([]string, len(records[start]))
	for i, h := range records[start] {
		header[i] = NormalizeHeader(h)
	}

	for _, rec := range records[start+1:] {
		if blank(rec) {
			continue
		}
		row := reconcile.Row{}
		for i, cell := range rec {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if _, dup := row[header[i]]; dup {
				continue
			}
			row[header[i]] = CleanCell(cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// NormalizeHeader lowercases h and removes all whitespace.
func NormalizeHeader(h string) string {
	h = CleanCell(h)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

// CleanCell trims s and removes an Excel formula prefix and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}
	return strings.TrimSpace(strings.Trim(s, `"'`))
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
