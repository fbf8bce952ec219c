package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
	"github.com/rogerio-castellano/inventory-ledger/internal/query"
	"github.com/rogerio-castellano/inventory-ledger/internal/reconcile"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/rogerio-castellano/inventory-ledger/internal/undo"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, r repo.StateRepository) (*Service, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	svc, err := New(context.Background(), r,
		WithMetrics(m),
		WithLogger(logger.Nop()),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return fixedNow }),
		WithUndoCapacity(3),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, m
}

type failingRepo struct {
	*repo.InMemoryStateRepository
	fail bool
}

func (f *failingRepo) Save(ctx context.Context, s ledger.State) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.InMemoryStateRepository.Save(ctx, s)
}

func TestUploadsPersistAndUndo(t *testing.T) {
	ctx := context.Background()
	store := repo.NewInMemoryStateRepository()
	svc, m := newService(t, store)

	res, err := svc.UploadCatalog(ctx, []reconcile.Row{{"sku": "SP-001", "name": "Tea", "packsize": 20}})
	if err != nil || res.Added != 1 {
		t.Fatalf("catalog upload: %+v, %v", res, err)
	}
	daily, err := svc.UploadDaily(ctx, []reconcile.Row{{"sku": "SP-001", "name": "Tea", "thung": 2}})
	if err != nil || daily.Imported != 1 {
		t.Fatalf("daily upload: %+v, %v", daily, err)
	}

	p, _ := svc.Product("SP-001")
	if p.Stock != 40 {
		t.Errorf("stock = %d, want 40", p.Stock)
	}
	if store.Saves() != 2 {
		t.Errorf("saves = %d, want 2", store.Saves())
	}
	stored, _ := store.Load(ctx)
	if !reflect.DeepEqual(stored.Document(), svc.Snapshot().Document()) {
		t.Error("persisted state differs from the live state")
	}
	if got := testutil.ToFloat64(m.Transactions.WithLabelValues("import")); got != 1 {
		t.Errorf("import transactions metric = %v", got)
	}

	reason, err := svc.Undo(ctx)
	if err != nil || reason != "daily import upload" {
		t.Fatalf("undo: %q, %v", reason, err)
	}
	p, _ = svc.Product("SP-001")
	if p.Stock != 0 || svc.Snapshot().Ledger.Len() != 0 {
		t.Errorf("undo did not restore the previous state: %+v", p)
	}

	if _, err := svc.Undo(ctx); err != nil {
		t.Fatalf("second undo: %v", err)
	}
	if _, err := svc.Product("SP-001"); !errors.Is(err, ledger.ErrProductNotFound) {
		t.Errorf("expected empty catalog after undoing everything, got %v", err)
	}
	if _, err := svc.Undo(ctx); !errors.Is(err, undo.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestRejectedOperationLeavesStateAndUndo(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t, repo.NewInMemoryStateRepository())

	if _, err := svc.RecordTransaction(ctx, ledger.ManualEntry{Type: ledger.EntryNew, SKU: "A", Name: "A", PackSize: 1, Pieces: 5}); err != nil {
		t.Fatalf("new product: %v", err)
	}
	before := svc.Snapshot().Document()

	_, err := svc.RecordTransaction(ctx, ledger.ManualEntry{Type: ledger.EntrySale, SKU: "A", Pieces: 6})
	if !errors.Is(err, ledger.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if !reflect.DeepEqual(before, svc.Snapshot().Document()) {
		t.Error("state changed after a rejected sale")
	}
	if svc.UndoDepth() != 1 {
		t.Errorf("undo depth = %d, want 1", svc.UndoDepth())
	}
	if got := testutil.ToFloat64(m.Rejections.WithLabelValues("insufficient_stock")); got != 1 {
		t.Errorf("rejections metric = %v", got)
	}
}

func TestFailedSaveDoesNotCommit(t *testing.T) {
	ctx := context.Background()
	store := &failingRepo{InMemoryStateRepository: repo.NewInMemoryStateRepository()}
	svc, _ := newService(t, store)

	store.fail = true
	_, err := svc.UploadCatalog(ctx, []reconcile.Row{{"sku": "A", "name": "A"}})
	if err == nil {
		t.Fatal("expected a persistence error")
	}
	if svc.Snapshot().Catalog.Len() != 0 || svc.UndoDepth() != 0 {
		t.Error("state or undo stack changed after a failed save")
	}
}

func TestUndoCapacity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, repo.NewInMemoryStateRepository())
	for i := 0; i < 5; i++ {
		if _, err := svc.UploadCatalog(ctx, []reconcile.Row{{"sku": "A", "name": "A"}}); err != nil {
			t.Fatalf("upload: %v", err)
		}
	}
	if svc.UndoDepth() != 3 {
		t.Errorf("undo depth = %d, want 3", svc.UndoDepth())
	}
}

func TestUndoStackSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := repo.NewInMemoryStateRepository()
	svc, _ := newService(t, store)
	if _, err := svc.UploadCatalog(ctx, []reconcile.Row{{"sku": "A", "name": "A"}}); err != nil {
		t.Fatalf("upload: %v", err)
	}

	restarted, _ := newService(t, store)
	if restarted.UndoDepth() != 1 {
		t.Fatalf("undo depth after restart = %d", restarted.UndoDepth())
	}
	if reason, err := restarted.Undo(ctx); err != nil || reason != "catalog upload" {
		t.Errorf("undo after restart: %q, %v", reason, err)
	}
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, repo.NewInMemoryStateRepository())

	day1 := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	mustRecord := func(e ledger.ManualEntry) {
		t.Helper()
		if _, err := svc.RecordTransaction(ctx, e); err != nil {
			t.Fatalf("record %+v: %v", e, err)
		}
	}
	mustRecord(ledger.ManualEntry{Type: ledger.EntryNew, SKU: "SP-001", Name: "Tea", PackSize: 20, Boxes: 5, Date: day1})
	mustRecord(ledger.ManualEntry{Type: ledger.EntrySale, SKU: "SP-001", Pieces: 30, Date: day2})
	mustRecord(ledger.ManualEntry{Type: ledger.EntrySale, SKU: "SP-001", Pieces: 5})

	rows := svc.Check(query.ProductFilter{Name: "tea"}, &day2, query.ModeStock)
	if len(rows) != 1 || *rows[0].StockBoxes != 3 || *rows[0].StockPieces != 10 {
		t.Errorf("check rows %+v", rows)
	}

	report := svc.Report(query.ProductFilter{}, &day1, &day2, query.ModeAll)
	if *report[0].Imported != 100 || *report[0].Sold != 30 || *report[0].Stock != 70 {
		t.Errorf("report row %+v", report[0])
	}

	d := svc.Dashboard()
	if d.TotalUnits != 65 || d.SoldToday != 5 || d.ImportedToday != 0 {
		t.Errorf("dashboard %+v", d)
	}

	txs, total, err := svc.History("SP-001", query.HistoryFilter{})
	if err != nil || total != 3 || txs[0].Qty != 5 {
		t.Errorf("history %+v, %d, %v", txs, total, err)
	}
	if _, _, err := svc.History("nope", query.HistoryFilter{}); !errors.Is(err, ledger.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}

	m, err := svc.DailyStock(query.ProductFilter{}, day1, day2)
	if err != nil || len(m.Days) != 2 {
		t.Errorf("daily stock %+v, %v", m, err)
	}
}
