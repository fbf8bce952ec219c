package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/units"
)

// EntryType selects the manual entry path.
type EntryType string

const (
	EntryImport EntryType = "import"
	EntrySale   EntryType = "sale"
	EntryNew    EntryType = "new"
)

// ManualEntry is a hand-entered stock movement or new product.
// A zero Date means the day of "now".
type ManualEntry struct {
	Type     EntryType
	SKU      string
	Name     string
	Boxes    int
	Pieces   int
	PackSize int
	Date     time.Time
}

// ManualResult describes what a manual entry changed.
type ManualResult struct {
	Product     models.Product
	Transaction *models.Transaction
	Created     bool
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// RecordManual applies a manual entry to a clone of s and returns the next state.
// On error the returned state is s itself.
func RecordManual(s State, e ManualEntry, now time.Time) (State, ManualResult, error) {
	e.SKU = strings.TrimSpace(e.SKU)
	e.Name = strings.TrimSpace(e.Name)

	date, err := entryDate(e.Date, now)
	if err != nil {
		return s, ManualResult{}, err
	}

	switch e.Type {
	case EntryNew:
		return recordNewProduct(s, e, date)
	case EntryImport, EntrySale:
		return recordMovement(s, e, date)
	default:
		return s, ManualResult{}, invalid("type", fmt.Sprintf("unknown entry type %q", e.Type))
	}
}

func entryDate(d, now time.Time) (time.Time, error) {
	today := StartOfDay(now)
	if d.IsZero() {
		return today, nil
	}
	day := StartOfDay(d.In(now.Location()))
	if day.After(today) {
		return time.Time{}, invalid("date", "date cannot be in the future")
	}
	return day, nil
}

func recordNewProduct(s State, e ManualEntry, date time.Time) (State, ManualResult, error) {
	if e.SKU == "" || e.Name == "" {
		return s, ManualResult{}, invalid("sku", "sku and name are required")
	}
	if e.PackSize <= 0 {
		return s, ManualResult{}, invalid("packSize", "pack size must be a positive integer")
	}
	if s.orEmpty().Catalog.Has(e.SKU) {
		return s, ManualResult{}, fmt.Errorf("%w: %s", ErrConflict, e.SKU)
	}

	if !units.Fits(e.Boxes, e.Pieces, e.PackSize) {
		return s, ManualResult{}, errTooLarge
	}

	next := s.Clone()
	qty := units.ToPieces(e.Boxes, e.Pieces, e.PackSize)
	// Opening stock is carried by the backdated import, so the baseline is 0
	// and stock before the opening date reads as 0.
	product := models.Product{
		SKU:          e.SKU,
		Name:         e.Name,
		PackSize:     e.PackSize,
		Stock:        qty,
		InitialStock: models.IntPtr(0),
	}
	res := ManualResult{Product: product, Created: true}

	if qty > 0 {
		tx, err := next.Ledger.Append(models.Transaction{
			Type: models.TxImport,
			SKU:  e.SKU,
			Name: e.Name,
			Qty:  qty,
			Date: date,
		})
		if err != nil {
			return s, ManualResult{}, err
		}
		res.Transaction = &tx
	}
	if err := next.Catalog.Put(product); err != nil {
		return s, ManualResult{}, err
	}
	return next, res, nil
}

func recordMovement(s State, e ManualEntry, date time.Time) (State, ManualResult, error) {
	if e.SKU == "" {
		return s, ManualResult{}, invalid("sku", "sku is required")
	}

	next := s.Clone()
	product, exists := next.Catalog.Get(e.SKU)

	pack := e.PackSize
	if pack <= 0 {
		pack = units.PackSize(product.PackSize)
	}
	if !units.Fits(e.Boxes, e.Pieces, pack) {
		return s, ManualResult{}, errTooLarge
	}
	qty := units.ToPieces(e.Boxes, e.Pieces, pack)
	if qty <= 0 {
		return s, ManualResult{}, invalid("qty", "quantity must be greater than zero")
	}

	created := false
	if !exists {
		if e.Name == "" {
			return s, ManualResult{}, invalid("name", "unknown sku, a name is required to create it")
		}
		product = models.Product{SKU: e.SKU, Name: e.Name, PackSize: pack, InitialStock: models.IntPtr(0)}
		created = true
	}
	if e.PackSize > 0 {
		product.PackSize = e.PackSize
	}
	if product.Name == "" {
		product.Name = e.Name
	}
	product.InitialStock = models.IntPtr(InferBaseline(product, next.Ledger))

	typ := models.TxImport
	if e.Type == EntrySale {
		if qty > product.Stock {
			return s, ManualResult{}, fmt.Errorf("%w: %s has %d pieces, sale needs %d", ErrInsufficientStock, e.SKU, product.Stock, qty)
		}
		typ = models.TxSale
	} else if qty > units.MaxPieces-product.Stock {
		return s, ManualResult{}, errTooLarge
	}
	product.Stock += typ.Sign() * qty

	tx, err := next.Ledger.Append(models.Transaction{
		Type: typ,
		SKU:  e.SKU,
		Name: product.Name,
		Qty:  qty,
		Date: date,
	})
	if err != nil {
		return s, ManualResult{}, err
	}
	if err := next.Catalog.Put(product); err != nil {
		return s, ManualResult{}, err
	}

	return next, ManualResult{Product: product, Transaction: &tx, Created: created}, nil
}
