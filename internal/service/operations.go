package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/query"
	"github.com/rogerio-castellano/inventory-ledger/internal/reconcile"
)

// Upload kinds, also used as metric labels.
const (
	KindCatalog = "catalog"
	KindStock   = "stock"
	KindDaily   = "daily"
)

// RecordTransaction applies a manual entry.
func (s *Service) RecordTransaction(ctx context.Context, e ledger.ManualEntry) (ledger.ManualResult, error) {
	var res ledger.ManualResult
	reason := fmt.Sprintf("manual %s %s", e.Type, e.SKU)

	err := s.mutate(ctx, reason, func(st ledger.State) (ledger.State, error) {
		next, r, err := ledger.RecordManual(st, e, s.Now())
		res = r
		return next, err
	})
	if err != nil {
		return ledger.ManualResult{}, err
	}

	if res.Transaction != nil {
		s.metrics.Transactions.WithLabelValues(string(res.Transaction.Type)).Inc()
	}
	ev := s.log.Info().Str("op", "manual").Str("type", string(e.Type)).Str("sku", res.Product.SKU).
		Int("stock", res.Product.Stock).Bool("created", res.Created)
	if res.Transaction != nil {
		ev = ev.Int("qty", res.Transaction.Qty).Str("tx_id", res.Transaction.ID)
	}
	ev.Msg("transaction recorded")
	return res, nil
}

// UploadCatalog reconciles catalog rows.
func (s *Service) UploadCatalog(ctx context.Context, rows []reconcile.Row) (reconcile.Result, error) {
	var res reconcile.Result
	err := s.mutate(ctx, "catalog upload", func(st ledger.State) (ledger.State, error) {
		next, r, err := reconcile.Catalog(st, rows)
		res = r
		return next, err
	})
	s.recordUpload(KindCatalog, err, res.Added, res.Updated, 0, len(res.MissingRows))
	return res, err
}

// UploadStock reconciles a stock snapshot.
func (s *Service) UploadStock(ctx context.Context, rows []reconcile.Row) (reconcile.Result, error) {
	var res reconcile.Result
	err := s.mutate(ctx, "stock snapshot upload", func(st ledger.State) (ledger.State, error) {
		next, r, err := reconcile.StockSnapshot(st, rows)
		res = r
		return next, err
	})
	s.recordUpload(KindStock, err, res.Added, res.Updated, 0, len(res.MissingRows))
	return res, err
}

// UploadDaily reconciles today's imports. Every row is dated today.
func (s *Service) UploadDaily(ctx context.Context, rows []reconcile.Row) (reconcile.DailyResult, error) {
	var res reconcile.DailyResult
	err := s.mutate(ctx, "daily import upload", func(st ledger.State) (ledger.State, error) {
		next, r, err := reconcile.DailyImport(st, rows, s.Now())
		res = r
		return next, err
	})
	s.recordUpload(KindDaily, err, 0, 0, res.Imported, len(res.MissingRows))
	if err == nil {
		s.metrics.Transactions.WithLabelValues(string(models.TxImport)).Add(float64(res.Imported))
	}
	return res, err
}

func (s *Service) recordUpload(kind string, err error, added, updated, imported, missing int) {
	if err != nil {
		s.metrics.Uploads.WithLabelValues(kind, "failed").Inc()
		return
	}
	s.metrics.Uploads.WithLabelValues(kind, "ok").Inc()
	s.metrics.UploadRows.WithLabelValues(kind, "added").Add(float64(added))
	s.metrics.UploadRows.WithLabelValues(kind, "updated").Add(float64(updated))
	s.metrics.UploadRows.WithLabelValues(kind, "imported").Add(float64(imported))
	s.metrics.UploadRows.WithLabelValues(kind, "missing").Add(float64(missing))

	ev := s.log.Info().Str("op", "upload").Str("kind", kind).Int("missing", missing)
	if kind == KindDaily {
		ev = ev.Int("imported", imported)
	} else {
		ev = ev.Int("added", added).Int("updated", updated)
	}
	ev.Msg("upload reconciled")
}

// Products lists the catalog entries matching f.
func (s *Service) Products(f query.ProductFilter) []models.Product {
	var out []models.Product
	s.read(func(st ledger.State) {
		out = f.Apply(st.Catalog.All())
	})
	return out
}

// Product returns the catalog entry for sku.
func (s *Service) Product(sku string) (models.Product, error) {
	var (
		p  models.Product
		ok bool
	)
	s.read(func(st ledger.State) {
		p, ok = st.Catalog.Get(sku)
	})
	if !ok {
		return models.Product{}, ledger.ErrProductNotFound
	}
	return p, nil
}

// History lists the transactions of a catalog product.
func (s *Service) History(sku string, hf query.HistoryFilter) ([]models.Transaction, int, error) {
	var (
		txs   []models.Transaction
		total int
		found bool
	)
	s.read(func(st ledger.State) {
		if found = st.Catalog.Has(sku); found {
			txs, total = query.History(st.Ledger, sku, hf)
		}
	})
	if !found {
		return nil, 0, ledger.ErrProductNotFound
	}
	return txs, total, nil
}

// Check runs the Check view.
func (s *Service) Check(f query.ProductFilter, date *time.Time, mode query.Mode) []query.Row {
	var rows []query.Row
	s.read(func(st ledger.State) {
		rows = query.Check(st, f, date, mode)
	})
	return rows
}

// Report runs the Report view. Stock figures default to today.
func (s *Service) Report(f query.ProductFilter, from, to *time.Time, mode query.Mode) []query.Row {
	var rows []query.Row
	today := s.Now()
	s.read(func(st ledger.State) {
		rows = query.Report(st, f, from, to, mode, today)
	})
	return rows
}

// DailyStock builds the end-of-day stock matrix.
func (s *Service) DailyStock(f query.ProductFilter, from, to time.Time) (query.DailyMatrix, error) {
	var (
		m   query.DailyMatrix
		err error
	)
	s.read(func(st ledger.State) {
		m, err = query.DailyStock(st, f, from, to)
	})
	return m, err
}

// Dashboard returns today's headline totals.
func (s *Service) Dashboard() query.Dashboard {
	var d query.Dashboard
	now := s.Now()
	s.read(func(st ledger.State) {
		d = query.Totals(st, now)
	})
	return d
}
