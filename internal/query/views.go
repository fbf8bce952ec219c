package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/units"
)

// DateLayout is the calendar date format used in labels and query parameters.
const DateLayout = "2006-01-02"

// Mode selects which figures a view computes.
type Mode string

const (
	ModeStock  Mode = "stock"
	ModeImport Mode = "import"
	ModeSale   Mode = "sale"
	ModeAll    Mode = "all"
)

// ParseMode reads a view mode. An empty string means ModeStock.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeStock, nil
	case ModeStock, ModeImport, ModeSale, ModeAll:
		return m, nil
	default:
		return "", &ledger.ValidationError{Field: "mode", Message: fmt.Sprintf("unknown view mode %q", s)}
	}
}

// Columns lists the fields a view mode displays, in order.
func (m Mode) Columns() []string {
	switch m {
	case ModeStock:
		return []string{"sku", "name", "stockBox", "stockPiece", "date"}
	case ModeImport:
		return []string{"sku", "name", "imp", "date"}
	case ModeSale:
		return []string{"sku", "name", "sale", "date"}
	default:
		return []string{"sku", "name", "stock", "imp", "sale", "date"}
	}
}

// Row is one line of a Check or Report view. Fields a mode does not compute are nil.
type Row struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Stock       *int   `json:"stock,omitempty"`
	StockBoxes  *int   `json:"stockBox,omitempty"`
	StockPieces *int   `json:"stockPiece,omitempty"`
	Imported    *int   `json:"imp,omitempty"`
	Sold        *int   `json:"sale,omitempty"`
	Date        string `json:"date"`
}

// Value returns the display value of column col.
func (r Row) Value(col string) string {
	opt := func(v *int) string {
		if v == nil {
			return ""
		}
		return fmt.Sprint(*v)
	}
	switch col {
	case "sku":
		return r.SKU
	case "name":
		return r.Name
	case "stock":
		return opt(r.Stock)
	case "stockBox":
		return opt(r.StockBoxes)
	case "stockPiece":
		return opt(r.StockPieces)
	case "imp":
		return opt(r.Imported)
	case "sale":
		return opt(r.Sold)
	case "date":
		return r.Date
	}
	return ""
}

func (r *Row) setSplit(total, packSize int) {
	sp := units.SplitPieces(total, packSize)
	r.StockBoxes = models.IntPtr(sp.Boxes)
	r.StockPieces = models.IntPtr(sp.Pieces)
}

// Check evaluates the products matching f on a single optional date.
// Without a date, stock is live and import/sale totals cover all time.
func Check(s ledger.State, f ProductFilter, date *time.Time, mode Mode) []Row {
	label := ""
	if date != nil {
		label = date.Format(DateLayout)
	}

	rows := []Row{}
	for _, p := range f.Apply(s.Catalog.All()) {
		row := Row{SKU: p.SKU, Name: p.Name, Date: label}
		switch mode {
		case ModeStock:
			row.setSplit(StockAsOf(p, s.Ledger, date), p.PackSize)
		case ModeImport:
			row.Imported = models.IntPtr(Aggregate(s.Ledger, p.SKU, models.TxImport, date, date))
		case ModeSale:
			row.Sold = models.IntPtr(Aggregate(s.Ledger, p.SKU, models.TxSale, date, date))
		default:
			row.Stock = models.IntPtr(StockAsOf(p, s.Ledger, date))
			row.Imported = models.IntPtr(Aggregate(s.Ledger, p.SKU, models.TxImport, date, date))
			row.Sold = models.IntPtr(Aggregate(s.Ledger, p.SKU, models.TxSale, date, date))
		}
		rows = append(rows, row)
	}
	return rows
}

// Report evaluates the products matching f over [from, to]. Stock figures
// are taken at the end of to, or of today when to is nil.
func Report(s ledger.State, f ProductFilter, from, to *time.Time, mode Mode, today time.Time) []Row {
	label := RangeLabel(from, to)
	at := today
	if to != nil {
		at = *to
	}

	rows := []Row{}
	for _, p := range f.Apply(s.Catalog.All()) {
		row := Row{SKU: p.SKU, Name: p.Name, Date: label}
		switch mode {
		case ModeStock:
			row.setSplit(StockAsOf(p, s.Ledger, &at), p.PackSize)
		case ModeImport:
			row.Imported = models.IntPtr(Aggregate(s.Ledger, p.SKU, models.TxImport, from, to))
		case ModeSale:
			row.Sold = models.IntPtr(Aggregate(s.Ledger, p.SKU, models.TxSale, from, to))
		default:
			row.Imported = models.IntPtr(Aggregate(s.Ledger, p.SKU, models.TxImport, from, to))
			row.Sold = models.IntPtr(Aggregate(s.Ledger, p.SKU, models.TxSale, from, to))
			row.Stock = models.IntPtr(StockAsOf(p, s.Ledger, &at))
		}
		rows = append(rows, row)
	}
	return rows
}

// RangeLabel describes a report range for display.
func RangeLabel(from, to *time.Time) string {
	switch {
	case from != nil && to != nil:
		return from.Format(DateLayout) + " - " + to.Format(DateLayout)
	case from != nil:
		return "from " + from.Format(DateLayout)
	case to != nil:
		return "until " + to.Format(DateLayout)
	}
	return ""
}

// DailyRow is one product line of a daily stock matrix.
type DailyRow struct {
	SKU   string        `json:"sku"`
	Name  string        `json:"name"`
	Stock []units.Split `json:"stock"`
}

// DailyMatrix holds end-of-day stock per product for consecutive days.
type DailyMatrix struct {
	Days []time.Time `json:"days"`
	Rows []DailyRow  `json:"rows"`
}

// maxMatrixDays caps the width of a daily stock matrix.
const maxMatrixDays = 366

// DailyStock computes end-of-day stock for every day from..to inclusive.
func DailyStock(s ledger.State, f ProductFilter, from, to time.Time) (DailyMatrix, error) {
	first, last := ledger.StartOfDay(from), ledger.StartOfDay(to)
	if first.After(last) {
		return DailyMatrix{}, &ledger.ValidationError{Field: "from", Message: "from must not be after to"}
	}

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
		if len(days) > maxMatrixDays {
			return DailyMatrix{}, &ledger.ValidationError{Field: "to", Message: fmt.Sprintf("range exceeds %d days", maxMatrixDays)}
		}
	}

	m := DailyMatrix{Days: days, Rows: []DailyRow{}}
	for _, p := range f.Apply(s.Catalog.All()) {
		row := DailyRow{SKU: p.SKU, Name: p.Name, Stock: make([]units.Split, len(days))}
		for i, d := range days {
			row.Stock[i] = units.SplitPieces(StockAsOf(p, s.Ledger, &d), p.PackSize)
		}
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}
