package handlers

import (
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/export"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/query"
)

type ReportResult struct {
	Mode    query.Mode  `json:"mode"`
	Columns []string    `json:"columns"`
	Data    []query.Row `json:"data"`
}

func parseMode(r *http.Request) (query.Mode, error) {
	return query.ParseMode(r.URL.Query().Get("mode"))
}

func parseFormat(r *http.Request) (string, error) {
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		return "json", nil
	case "csv":
		return format, nil
	}
	return "", &ledger.ValidationError{Field: "format", Message: "format must be 'csv' or 'json'"}
}

func writeRows(w http.ResponseWriter, r *http.Request, format, filename string, mode query.Mode, rows []query.Row) {
	if format == "json" {
		respond(w, r, http.StatusOK, ReportResult{Mode: mode, Columns: mode.Columns(), Data: rows})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := export.WriteRows(w, mode, rows); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("failed to write CSV export")
	}
}

// CheckHandler godoc
// @Summary Check stock, imports and sales on a single day
// @Tags reports
// @Produce json,text/csv
// @Param sku query string false "SKU substring"
// @Param name query string false "Name substring"
// @Param date query string false "Day (YYYY-MM-DD); live stock and all-time totals when absent"
// @Param mode query string false "stock, import, sale or all" default(stock)
// @Param format query string false "json or csv" default(json)
// @Success 200 {object} ReportResult
// @Failure 400 {array} ValidationErrorResponse
// @Router /check [get]
func CheckHandler(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format, err := parseFormat(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDay(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows := ledgerSvc.Check(productFilter(r), date, mode)
	writeRows(w, r, format, fmt.Sprintf("check_%s.csv", mode), mode, rows)
}

// ReportHandler godoc
// @Summary Report stock, imports and sales over a date range
// @Tags reports
// @Produce json,text/csv
// @Param sku query string false "SKU substring"
// @Param name query string false "Name substring"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param mode query string false "stock, import, sale or all" default(stock)
// @Param format query string false "json or csv" default(json)
// @Success 200 {object} ReportResult
// @Failure 400 {array} ValidationErrorResponse
// @Router /reports [get]
func ReportHandler(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format, err := parseFormat(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	from, err := parseDay(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDay(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if from != nil && to != nil && from.After(*to) {
		writeError(w, r, &ledger.ValidationError{Field: "from", Message: "from must not be after to"})
		return
	}

	rows := ledgerSvc.Report(productFilter(r), from, to, mode)
	writeRows(w, r, format, fmt.Sprintf("report_%s.csv", mode), mode, rows)
}

// DailyStockHandler godoc
// @Summary Export end-of-day stock per product for a date range
// @Tags reports
// @Produce text/csv,json
// @Param sku query string false "SKU substring"
// @Param name query string false "Name substring"
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Param format query string false "csv or json" default(csv)
// @Success 200 {file} file
// @Failure 400 {array} ValidationErrorResponse
// @Router /reports/daily-stock [get]
func DailyStockHandler(w http.ResponseWriter, r *http.Request) {
	from, err := parseDay(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDay(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if from == nil || to == nil {
		writeError(w, r, &ledger.ValidationError{Field: "from", Message: "from and to are required"})
		return
	}

	m, err := ledgerSvc.DailyStock(productFilter(r), *from, *to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		respond(w, r, http.StatusOK, m)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.DailyStockFilename(m)))
	if err := export.WriteDailyStock(w, m); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("failed to write daily stock export")
	}
}
