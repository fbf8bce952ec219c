// Package export renders query results as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rogerio-castellano/inventory-ledger/internal/query"
)

// Labels maps view columns to their CSV headings.
var Labels = map[string]string{
	"sku":        "SKU",
	"name":       "Name",
	"stock":      "Stock",
	"stockBox":   "Stock (boxes)",
	"stockPiece": "Stock (pieces)",
	"imp":        "Imported",
	"sale":       "Sold",
	"date":       "Date",
}

// WriteRows writes rows with the column set of mode.
func WriteRows(w io.Writer, mode query.Mode, rows []query.Row) error {
	cols := mode.Columns()
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = Labels[c]
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			record[i] = r.Value(c)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", r.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDailyStock writes one line per product with a boxes and a pieces
// column for each day of m.
func WriteDailyStock(w io.Writer, m query.DailyMatrix) error {
	cw := csv.NewWriter(w)

	header := []string{Labels["sku"], Labels["name"]}
	for _, d := range m.Days {
		label := d.Format(query.DateLayout)
		header = append(header, fmt.Sprintf("Boxes (%s)", label), fmt.Sprintf("Pieces (%s)", label))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range m.Rows {
		record := make([]string, 0, 2+2*len(r.Stock))
		record = append(record, r.SKU, r.Name)
		for _, sp := range r.Stock {
			record = append(record, strconv.Itoa(sp.Boxes), strconv.Itoa(sp.Pieces))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", r.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DailyStockFilename names a daily stock export.
func DailyStockFilename(m query.DailyMatrix) string {
	if len(m.Days) == 0 {
		return "daily-stock.csv"
	}
	first, last := m.Days[0], m.Days[len(m.Days)-1]
	return fmt.Sprintf("daily-stock_%s_to_%s.csv", first.Format(query.DateLayout), last.Format(query.DateLayout))
}
