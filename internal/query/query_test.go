package query

import (
	"reflect"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/units"
)

func day(n int) time.Time {
	return time.Date(2025, time.March, n, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

// SP-001: baseline 0, import 100 on day 1, sale 30 on day 2.
// SP-002: baseline 12, import 24 on day 2 at noon.
func fixture(t *testing.T) ledger.State {
	t.Helper()
	s := ledger.NewState()
	_ = s.Catalog.Put(models.Product{SKU: "SP-001", Name: "Green Tea", PackSize: 20, Stock: 70, InitialStock: models.IntPtr(0)})
	_ = s.Catalog.Put(models.Product{SKU: "SP-002", Name: "Black Coffee", PackSize: 12, Stock: 36, InitialStock: models.IntPtr(12)})
	for _, tx := range []models.Transaction{
		{Type: models.TxImport, SKU: "SP-001", Qty: 100, Date: day(1)},
		{Type: models.TxSale, SKU: "SP-001", Qty: 30, Date: day(2)},
		{Type: models.TxImport, SKU: "SP-002", Qty: 24, Date: day(2).Add(12 * time.Hour)},
	} {
		if _, err := s.Ledger.Append(tx); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return s
}

func TestStockAsOf(t *testing.T) {
	s := fixture(t)
	p, _ := s.Catalog.Get("SP-001")

	if got := StockAsOf(p, s.Ledger, ptr(day(1))); got != 100 {
		t.Errorf("day 1 = %d, want 100", got)
	}
	if got := StockAsOf(p, s.Ledger, ptr(day(2))); got != 70 {
		t.Errorf("day 2 = %d, want 70", got)
	}
	if got := units.SplitPieces(70, 20); got != (units.Split{Boxes: 3, Pieces: 10}) {
		t.Errorf("split = %+v", got)
	}
	if got := StockAsOf(p, s.Ledger, ptr(day(1).Add(-time.Second))); got != 0 {
		t.Errorf("before day 1 = %d, want 0", got)
	}

	t.Run("nil date is the live stock", func(t *testing.T) {
		p.Stock = 999
		if got := StockAsOf(p, s.Ledger, nil); got != 999 {
			t.Errorf("got %d", got)
		}
	})

	t.Run("future date equals live stock", func(t *testing.T) {
		p, _ := s.Catalog.Get("SP-001")
		if got := StockAsOf(p, s.Ledger, ptr(day(20))); got != p.Stock {
			t.Errorf("got %d, want %d", got, p.Stock)
		}
	})

	t.Run("same-day transaction is included", func(t *testing.T) {
		p, _ := s.Catalog.Get("SP-002")
		if got := StockAsOf(p, s.Ledger, ptr(day(2))); got != 36 {
			t.Errorf("got %d, want 36", got)
		}
	})

	t.Run("unset baseline is inferred", func(t *testing.T) {
		p, _ := s.Catalog.Get("SP-002")
		p.InitialStock = nil
		if got := StockAsOf(p, s.Ledger, ptr(day(1))); got != 12 {
			t.Errorf("got %d, want 12", got)
		}
	})
}

func TestAggregateDayBoundaries(t *testing.T) {
	s := fixture(t)

	tests := []struct {
		name     string
		from, to *time.Time
		typ      models.TxType
		want     int
	}{
		{"all time imports", nil, nil, models.TxImport, 100},
		{"single day", ptr(day(2)), ptr(day(2)), models.TxSale, 30},
		{"single day excludes neighbours", ptr(day(1)), ptr(day(1)), models.TxSale, 0},
		{"open start", nil, ptr(day(1)), models.TxImport, 100},
		{"open end", ptr(day(2)), nil, models.TxImport, 0},
		{"intra-day bounds widen to whole days", ptr(day(2).Add(20 * time.Hour)), ptr(day(2).Add(time.Hour)), models.TxSale, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(s.Ledger, "SP-001", tt.typ, tt.from, tt.to); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProductFilter(t *testing.T) {
	s := fixture(t)

	tests := []struct {
		name string
		f    ProductFilter
		want []string
	}{
		{"empty matches all", ProductFilter{}, []string{"SP-001", "SP-002"}},
		{"sku substring", ProductFilter{SKU: "002"}, []string{"SP-002"}},
		{"name case-insensitive", ProductFilter{Name: "  TEA"}, []string{"SP-001"}},
		{"both must match", ProductFilter{SKU: "sp-", Name: "coffee"}, []string{"SP-002"}},
		{"no match", ProductFilter{Name: "rice"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range tt.f.Apply(s.Catalog.All()) {
				got = append(got, p.SKU)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	s := fixture(t)
	f := ProductFilter{SKU: "SP-001"}

	rows := Check(s, f, ptr(day(2)), ModeStock)
	if len(rows) != 1 || *rows[0].StockBoxes != 3 || *rows[0].StockPieces != 10 || rows[0].Date != "2025-03-02" {
		t.Errorf("stock mode: %+v", rows)
	}
	if rows[0].Imported != nil || rows[0].Stock != nil {
		t.Error("stock mode should only fill the split columns")
	}

	rows = Check(s, f, ptr(day(1)), ModeImport)
	if *rows[0].Imported != 100 || rows[0].Sold != nil {
		t.Errorf("import mode: %+v", rows[0])
	}

	rows = Check(s, f, nil, ModeAll)
	if *rows[0].Stock != 70 || *rows[0].Imported != 100 || *rows[0].Sold != 30 || rows[0].Date != "" {
		t.Errorf("all mode without date: %+v", rows[0])
	}
}

func TestReport(t *testing.T) {
	s := fixture(t)
	today := day(15)

	rows := Report(s, ProductFilter{}, ptr(day(1)), ptr(day(1)), ModeAll, today)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	tea := rows[0]
	if *tea.Imported != 100 || *tea.Sold != 0 || *tea.Stock != 100 || tea.Date != "2025-03-01 - 2025-03-01" {
		t.Errorf("unexpected tea row %+v", tea)
	}

	rows = Report(s, ProductFilter{SKU: "SP-002"}, nil, nil, ModeStock, today)
	if *rows[0].StockBoxes != 3 || *rows[0].StockPieces != 0 || rows[0].Date != "" {
		t.Errorf("stock as of today: %+v", rows[0])
	}

	rows = Report(s, ProductFilter{SKU: "SP-001"}, ptr(day(2)), nil, ModeSale, today)
	if *rows[0].Sold != 30 || rows[0].Date != "from 2025-03-02" {
		t.Errorf("open-ended sale report: %+v", rows[0])
	}
}

func TestModes(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeStock {
		t.Errorf("empty mode = %q, %v", m, err)
	}
	if m, err := ParseMode(" ALL "); err != nil || m != ModeAll {
		t.Errorf("ALL = %q, %v", m, err)
	}
	if _, err := ParseMode("weekly"); !ledger.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	want := map[Mode][]string{
		ModeAll:    {"sku", "name", "stock", "imp", "sale", "date"},
		ModeStock:  {"sku", "name", "stockBox", "stockPiece", "date"},
		ModeImport: {"sku", "name", "imp", "date"},
		ModeSale:   {"sku", "name", "sale", "date"},
	}
	for m, cols := range want {
		if !reflect.DeepEqual(m.Columns(), cols) {
			t.Errorf("%s columns = %v", m, m.Columns())
		}
	}
}

func TestDailyStock(t *testing.T) {
	s := fixture(t)

	m, err := DailyStock(s, ProductFilter{SKU: "SP-001"}, day(1), day(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Days) != 3 || len(m.Rows) != 1 {
		t.Fatalf("unexpected shape %+v", m)
	}
	want := []units.Split{{Boxes: 5}, {Boxes: 3, Pieces: 10}, {Boxes: 3, Pieces: 10}}
	if !reflect.DeepEqual(m.Rows[0].Stock, want) {
		t.Errorf("got %+v, want %+v", m.Rows[0].Stock, want)
	}

	if _, err := DailyStock(s, ProductFilter{}, day(3), day(1)); !ledger.IsValidation(err) {
		t.Errorf("expected validation error for reversed range, got %v", err)
	}
}

func TestTotals(t *testing.T) {
	s := fixture(t)

	d := Totals(s, day(2).Add(18*time.Hour))
	want := Dashboard{TotalUnits: 106, SoldToday: 30, ImportedToday: 24}
	if d != want {
		t.Errorf("got %+v, want %+v", d, want)
	}
}

func TestHistory(t *testing.T) {
	s := fixture(t)
	intp := func(v int) *int { return &v }

	all, total := History(s.Ledger, "SP-001", HistoryFilter{})
	if total != 2 || all[0].Type != models.TxSale {
		t.Errorf("expected most recent first, got %+v", all)
	}

	page, total := History(s.Ledger, "SP-001", HistoryFilter{Offset: intp(1), Limit: intp(5)})
	if total != 2 || len(page) != 1 || page[0].Qty != 100 {
		t.Errorf("unexpected page %+v", page)
	}

	since, _ := History(s.Ledger, "SP-001", HistoryFilter{Since: ptr(day(2))})
	if len(since) != 1 || since[0].Qty != 30 {
		t.Errorf("unexpected since filter %+v", since)
	}

	empty, total := History(s.Ledger, "SP-001", HistoryFilter{Offset: intp(10)})
	if len(empty) != 0 || total != 2 {
		t.Errorf("offset past the end: %+v, %d", empty, total)
	}
}
