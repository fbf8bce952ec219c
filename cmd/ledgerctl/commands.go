package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/export"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/query"
	"github.com/rogerio-castellano/inventory-ledger/internal/reconcile"
	"github.com/rogerio-castellano/inventory-ledger/internal/service"
	"github.com/rogerio-castellano/inventory-ledger/internal/sheet"
)

var errUnknownCommand = errors.New("unknown command")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, svc *service.Service, args []string, out io.Writer) error
}

var commands = []command{
	{"catalog", "Upload a product catalog file (csv or xlsx)", runCatalog},
	{"stock", "Upload a stock snapshot file", runStock},
	{"daily", "Upload a daily import file", runDaily},
	{"tx", "Record a manual import, sale or new product", runTx},
	{"check", "Show stock, imports or sales on one day as CSV", runCheck},
	{"report", "Show stock, imports or sales over a range as CSV", runReport},
	{"daily-stock", "Export end-of-day stock per product as CSV", runDailyStock},
	{"undo", "Revert the last change", runUndo},
	{"dashboard", "Show today's totals", runDashboard},
}

func run(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUnknownCommand
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, svc, args[1:], out)
		}
	}
	return fmt.Errorf("%w: %s", errUnknownCommand, args[0])
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func decodeFile(path string) ([]reconcile.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sheet.Decode(path, f)
}

func fileArg(name string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: ledgerctl %s FILE", name)
	}
	return args[0], nil
}

func printResult(out io.Writer, res reconcile.Result) {
	fmt.Fprintf(out, "Added: %d\nUpdated: %d\n", res.Added, res.Updated)
	if len(res.MissingRows) > 0 {
		fmt.Fprintf(out, "Rows skipped for missing data: %v\n", res.MissingRows)
	}
}

func runCatalog(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	path, err := fileArg("catalog", args)
	if err != nil {
		return err
	}
	rows, err := decodeFile(path)
	if err != nil {
		return err
	}
	res, err := svc.UploadCatalog(ctx, rows)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

func runStock(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	path, err := fileArg("stock", args)
	if err != nil {
		return err
	}
	rows, err := decodeFile(path)
	if err != nil {
		return err
	}
	res, err := svc.UploadStock(ctx, rows)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

func runDaily(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	path, err := fileArg("daily", args)
	if err != nil {
		return err
	}
	rows, err := decodeFile(path)
	if err != nil {
		return err
	}
	res, err := svc.UploadDaily(ctx, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported: %d\n", res.Imported)
	if len(res.MissingRows) > 0 {
		fmt.Fprintf(out, "Rows skipped for missing data: %v\n", res.MissingRows)
	}
	return nil
}

// dayFlag parses an optional YYYY-MM-DD value in the ledger time zone.
func dayFlag(svc *service.Service, name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(query.DateLayout, value, svc.Location())
	if err != nil {
		return nil, fmt.Errorf("-%s must be YYYY-MM-DD: %w", name, err)
	}
	return &d, nil
}

func runTx(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	fs := newFlagSet("tx", out)
	typ := fs.String("type", "", "import, sale or new")
	sku := fs.String("sku", "", "product SKU")
	name := fs.String("name", "", "product name (required for new products)")
	boxes := fs.Int("boxes", 0, "whole boxes")
	pieces := fs.Int("pieces", 0, "loose pieces")
	pack := fs.Int("pack", 0, "pieces per box (required for new products)")
	date := fs.String("date", "", "transaction day YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entry := ledger.ManualEntry{
		Type:     ledger.EntryType(*typ),
		SKU:      *sku,
		Name:     *name,
		Boxes:    *boxes,
		Pieces:   *pieces,
		PackSize: *pack,
	}
	d, err := dayFlag(svc, "date", *date)
	if err != nil {
		return err
	}
	if d != nil {
		entry.Date = *d
	}

	res, err := svc.RecordTransaction(ctx, entry)
	if err != nil {
		return err
	}
	if res.Created {
		fmt.Fprintf(out, "Created product %s (%s)\n", res.Product.SKU, res.Product.Name)
	}
	if tx := res.Transaction; tx != nil {
		fmt.Fprintf(out, "Recorded %s of %d pieces on %s\n", tx.Type, tx.Qty, tx.Date.Format(query.DateLayout))
	}
	fmt.Fprintf(out, "Stock of %s: %d\n", res.Product.SKU, res.Product.Stock)
	return nil
}

func runCheck(_ context.Context, svc *service.Service, args []string, out io.Writer) error {
	fs := newFlagSet("check", out)
	sku := fs.String("sku", "", "SKU substring")
	name := fs.String("name", "", "name substring")
	date := fs.String("date", "", "day YYYY-MM-DD (default: live stock, all-time totals)")
	mode := fs.String("mode", "stock", "stock, import, sale or all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := query.ParseMode(*mode)
	if err != nil {
		return err
	}
	d, err := dayFlag(svc, "date", *date)
	if err != nil {
		return err
	}

	rows := svc.Check(query.ProductFilter{SKU: *sku, Name: *name}, d, m)
	return export.WriteRows(out, m, rows)
}

func runReport(_ context.Context, svc *service.Service, args []string, out io.Writer) error {
	fs := newFlagSet("report", out)
	sku := fs.String("sku", "", "SKU substring")
	name := fs.String("name", "", "name substring")
	from := fs.String("from", "", "first day YYYY-MM-DD")
	to := fs.String("to", "", "last day YYYY-MM-DD")
	mode := fs.String("mode", "stock", "stock, import, sale or all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := query.ParseMode(*mode)
	if err != nil {
		return err
	}
	f, err := dayFlag(svc, "from", *from)
	if err != nil {
		return err
	}
	t, err := dayFlag(svc, "to", *to)
	if err != nil {
		return err
	}

	rows := svc.Report(query.ProductFilter{SKU: *sku, Name: *name}, f, t, m)
	return export.WriteRows(out, m, rows)
}

func runDailyStock(_ context.Context, svc *service.Service, args []string, out io.Writer) error {
	fs := newFlagSet("daily-stock", out)
	sku := fs.String("sku", "", "SKU substring")
	name := fs.String("name", "", "name substring")
	from := fs.String("from", "", "first day YYYY-MM-DD (required)")
	to := fs.String("to", "", "last day YYYY-MM-DD (required)")
	output := fs.String("o", "", "write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := dayFlag(svc, "from", *from)
	if err != nil {
		return err
	}
	t, err := dayFlag(svc, "to", *to)
	if err != nil {
		return err
	}
	if f == nil || t == nil {
		return errors.New("usage: ledgerctl daily-stock -from YYYY-MM-DD -to YYYY-MM-DD")
	}

	m, err := svc.DailyStock(query.ProductFilter{SKU: *sku, Name: *name}, *f, *t)
	if err != nil {
		return err
	}
	if *output == "" {
		return export.WriteDailyStock(out, m)
	}

	file, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := export.WriteDailyStock(file, m); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", *output)
	return nil
}

func runUndo(ctx context.Context, svc *service.Service, args []string, out io.Writer) error {
	reason, err := svc.Undo(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Undone: %s (%d more available)\n", reason, svc.UndoDepth())
	return nil
}

func runDashboard(_ context.Context, svc *service.Service, _ []string, out io.Writer) error {
	d := svc.Dashboard()
	fmt.Fprintf(out, "Total units in stock: %d\n", d.TotalUnits)
	fmt.Fprintf(out, "Sold today: %d\n", d.SoldToday)
	fmt.Fprintf(out, "Imported today: %d\n", d.ImportedToday)
	return nil
}
