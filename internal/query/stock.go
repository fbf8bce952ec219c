// Package query answers read-only questions about a ledger.State:
// stock as of a date, totals over a date range, and the views built on them.
package query

import (
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// StockAsOf returns the stock of p at the end of date's calendar day.
// A nil date returns the live stock.
func StockAsOf(p models.Product, l *ledger.Ledger, date *time.Time) int {
	if date == nil {
		return p.Stock
	}
	net := l.Net(p.SKU, ledger.Range{To: ledger.EndOfDay(*date)})
	return max(0, ledger.InferBaseline(p, l)+net)
}

// DayRange widens from and to to whole days. A nil bound stays unbounded.
func DayRange(from, to *time.Time) ledger.Range {
	var r ledger.Range
	if from != nil {
		r.From = ledger.StartOfDay(*from)
	}
	if to != nil {
		r.To = ledger.EndOfDay(*to)
	}
	return r
}

// Aggregate sums sku transactions of typ between the start of from and the end of to.
func Aggregate(l *ledger.Ledger, sku string, typ models.TxType, from, to *time.Time) int {
	return l.Aggregate(sku, typ, DayRange(from, to))
}

// Dashboard holds the headline totals, all in pieces.
type Dashboard struct {
	TotalUnits    int `json:"totalUnits"`
	SoldToday     int `json:"soldToday"`
	ImportedToday int `json:"importedToday"`
}

// Totals computes the dashboard for the calendar day of now.
func Totals(s ledger.State, now time.Time) Dashboard {
	var d Dashboard
	today := DayRange(&now, &now)
	for _, p := range s.Catalog.All() {
		d.TotalUnits += p.Stock
	}
	for _, tx := range s.Ledger.All() {
		if !today.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case models.TxSale:
			d.SoldToday += tx.Qty
		case models.TxImport:
			d.ImportedToday += tx.Qty
		}
	}
	return d
}
