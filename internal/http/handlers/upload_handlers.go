package handlers

import (
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/reconcile"
	"github.com/rogerio-castellano/inventory-ledger/internal/sheet"
)

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

// readUpload decodes the "file" part of a multipart request into rows.
func readUpload(w http.ResponseWriter, r *http.Request) ([]reconcile.Row, error) {
	r.Body = http.MaxBytesReader(w, r.Body, sheet.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(sheet.MaxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: could not parse multipart form: %v", ledger.ErrInputShape, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing file field: %v", ledger.ErrInputShape, err)
	}
	defer file.Close()

	return sheet.Decode(header.Filename, file)
}

// UploadCatalogHandler godoc
// @Summary Upload product catalog (names and pack sizes)
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} reconcile.Result
// @Failure 400 {string} string "Unreadable file"
// @Router /uploads/catalog [post]
func UploadCatalogHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := ledgerSvc.UploadCatalog(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, res)
}

// UploadStockHandler godoc
// @Summary Upload stock snapshot (boxes and pieces per SKU)
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} reconcile.Result
// @Failure 400 {string} string "Unreadable file"
// @Router /uploads/stock [post]
func UploadStockHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := ledgerSvc.UploadStock(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, res)
}

// UploadDailyHandler godoc
// @Summary Upload daily import sheet
// @Description Every row is recorded as an import dated today. Uploading the same file twice imports twice.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} reconcile.DailyResult
// @Failure 400 {string} string "Unreadable file"
// @Router /uploads/daily [post]
func UploadDailyHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := ledgerSvc.UploadDaily(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, res)
}
