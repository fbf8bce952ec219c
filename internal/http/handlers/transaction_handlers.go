package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/query"
)

// CreateTransactionHandler godoc
// @Summary Record a manual import, sale or new product
// @Description Quantities are given as boxes and loose pieces; packSize is required for new products.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body TransactionRequest true "Manual entry"
// @Success 201 {object} TransactionResult
// @Failure 400 {array} ValidationErrorResponse
// @Failure 404 {string} string "Product not found"
// @Failure 409 {string} string "SKU exists or insufficient stock"
// @Router /transactions [post]
func CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		respond(w, r, http.StatusBadRequest, errs)
		return
	}

	entry := ledger.ManualEntry{
		Type:     ledger.EntryType(req.Type),
		SKU:      strings.TrimSpace(req.SKU),
		Name:     strings.TrimSpace(req.Name),
		Boxes:    req.Boxes,
		Pieces:   req.Pieces,
		PackSize: req.PackSize,
	}
	if req.Date != "" {
		d, err := time.ParseInLocation(query.DateLayout, req.Date, ledgerSvc.Location())
		if err != nil {
			respond(w, r, http.StatusBadRequest, []ValidationErrorResponse{{Field: "date", Description: "date must be YYYY-MM-DD"}})
			return
		}
		entry.Date = d
	}

	res, err := ledgerSvc.RecordTransaction(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, TransactionResult{
		Product:     toProductResponse(res.Product),
		Transaction: res.Transaction,
		Created:     res.Created,
	})
}

// GetTransactionsHandler godoc
// @Summary Get product transaction history
// @Tags transactions
// @Produce json
// @Param sku path string true "Product SKU"
// @Param since query string false "Filter transactions from this timestamp (RFC3339)"
// @Param until query string false "Filter transactions until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} TransactionsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Router /products/{sku}/transactions [get]
func GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	var (
		hf  query.HistoryFilter
		err error
	)
	if hf.Since, err = parseInstant(r, "since"); err != nil {
		writeError(w, r, err)
		return
	}
	if hf.Until, err = parseInstant(r, "until"); err != nil {
		writeError(w, r, err)
		return
	}
	if hf.Limit, err = parseInt(r, "limit"); err != nil {
		writeError(w, r, err)
		return
	}
	if hf.Limit != nil && *hf.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if hf.Offset, err = parseInt(r, "offset"); err != nil {
		writeError(w, r, err)
		return
	}
	if hf.Offset != nil && *hf.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	txs, total, err := ledgerSvc.History(sku, hf)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, TransactionsSearchResult{
		Data: txs,
		Meta: Meta{TotalCount: total},
	})
}
