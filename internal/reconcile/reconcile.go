// Package reconcile merges uploaded spreadsheet rows into the catalog and ledger.
//
// Each upload kind is a transition from one ledger.State to the next. Row-level
// problems are collected in the result; only a malformed row sequence is an error,
// and in that case the input state is returned untouched.
package reconcile

import (
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/units"
)

// headerRows offsets a zero-based row position to the line a spreadsheet shows.
const headerRows = 2

// Result summarizes a catalog or stock-snapshot upload.
type Result struct {
	Added       int   `json:"added"`
	Updated     int   `json:"updated"`
	MissingRows []int `json:"missingRowIndices"`
}

// DailyResult summarizes a daily-import upload.
type DailyResult struct {
	Imported    int   `json:"importedCount"`
	MissingRows []int `json:"missingRowIndices"`
}

func checkShape(rows []Row) error {
	if rows == nil {
		return ledger.ErrInputShape
	}
	return nil
}

// Catalog upserts product names and pack sizes. New products start with
// stock 0 and baseline 0. An absent pack size column leaves an existing
// product's pack size alone.
func Catalog(s ledger.State, rows []Row) (ledger.State, Result, error) {
	if err := checkShape(rows); err != nil {
		return s, Result{}, err
	}

	next := s.Clone()
	res := Result{MissingRows: []int{}}

	for i, r := range rows {
		sku := r.Text(skuKeys...)
		name := r.Text(nameKeys...)
		if sku == "" || name == "" {
			res.MissingRows = append(res.MissingRows, i+headerRows)
			continue
		}

		patch := ledger.ProductPatch{SKU: sku, Name: name, PackSize: 1}
		if pack, ok := r.Int(packKeys...); ok {
			patch.PackSize = max(1, pack)
		} else if next.Catalog.Has(sku) {
			patch.PackSize = 0
		}

		created, err := next.Catalog.Upsert(patch)
		if err != nil {
			res.MissingRows = append(res.MissingRows, i+headerRows)
			continue
		}
		if created {
			res.Added++
		} else {
			res.Updated++
		}
	}
	return next, res, nil
}

// StockSnapshot overwrites stock with the counted boxes and loose pieces.
// The count becomes the baseline of any product that has none, including
// products the snapshot itself creates. Counts beyond units.MaxPieces are
// reported as missing rows.
func StockSnapshot(s ledger.State, rows []Row) (ledger.State, Result, error) {
	if err := checkShape(rows); err != nil {
		return s, Result{}, err
	}

	next := s.Clone()
	res := Result{MissingRows: []int{}}

	for i, r := range rows {
		sku := r.Text(skuKeys...)
		name := r.Text(nameKeys...)
		if sku == "" || name == "" {
			res.MissingRows = append(res.MissingRows, i+headerRows)
			continue
		}
		boxes, okBoxes := r.Count(boxKeys...)
		loose, okLoose := r.Count(pieceKeys...)

		p, exists := next.Catalog.Get(sku)
		if !exists {
			p = models.Product{SKU: sku, Name: name, PackSize: 1}
		}
		if !okBoxes || !okLoose || !units.Fits(boxes, loose, p.PackSize) {
			res.MissingRows = append(res.MissingRows, i+headerRows)
			continue
		}
		if exists {
			res.Updated++
		} else {
			res.Added++
		}
		if p.Name == "" {
			p.Name = name
		}

		total := units.ToPieces(boxes, loose, p.PackSize)
		p.Stock = total
		if p.InitialStock == nil {
			p.InitialStock = models.IntPtr(total)
		}
		if err := next.Catalog.Put(p); err != nil {
			return s, Result{}, err
		}
	}
	return next, res, nil
}

// DailyImport adds each row's boxes to stock and appends one import
// transaction per row. Every transaction is dated at the start of the
// upload day in uploaded's location. Rows with no boxes are skipped
// without being reported; rows whose quantity would push stock past
// units.MaxPieces are reported as missing.
//
// Uploading the same rows twice imports them twice.
func DailyImport(s ledger.State, rows []Row, uploaded time.Time) (ledger.State, DailyResult, error) {
	if err := checkShape(rows); err != nil {
		return s, DailyResult{}, err
	}

	next := s.Clone()
	res := DailyResult{MissingRows: []int{}}
	date := ledger.StartOfDay(uploaded)

	for i, r := range rows {
		sku := r.Text(dailySKUKeys...)
		name := r.Text(nameKeys...)
		if sku == "" || name == "" {
			res.MissingRows = append(res.MissingRows, i+headerRows)
			continue
		}
		boxes, ok := r.Count(boxKeys...)
		if !ok {
			res.MissingRows = append(res.MissingRows, i+headerRows)
			continue
		}
		if boxes <= 0 {
			continue
		}

		p, exists := next.Catalog.Get(sku)
		if !exists {
			p = models.Product{SKU: sku, Name: name, PackSize: 1, InitialStock: models.IntPtr(0)}
		}
		if p.Name == "" {
			p.Name = name
		}
		if p.InitialStock == nil {
			p.InitialStock = models.IntPtr(ledger.InferBaseline(p, next.Ledger))
		}

		if !units.Fits(boxes, 0, p.PackSize) || units.ToPieces(boxes, 0, p.PackSize) > units.MaxPieces-p.Stock {
			res.MissingRows = append(res.MissingRows, i+headerRows)
			continue
		}
		qty := units.ToPieces(boxes, 0, p.PackSize)
		tx, err := next.Ledger.Append(models.Transaction{
			Type: models.TxImport,
			SKU:  sku,
			Name: p.Name,
			Qty:  qty,
			Date: date,
		})
		if err != nil {
			res.MissingRows = append(res.MissingRows, i+headerRows)
			continue
		}
		p.Stock += tx.Qty
		if err := next.Catalog.Put(p); err != nil {
			return s, DailyResult{}, err
		}
		res.Imported++
	}
	return next, res, nil
}
