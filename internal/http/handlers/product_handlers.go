package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetProductsHandler godoc
// @Summary List catalog products
// @Tags products
// @Produce json
// @Param sku query string false "SKU substring (case-insensitive)"
// @Param name query string false "Name substring (case-insensitive)"
// @Success 200 {object} ProductsSearchResult
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products := ledgerSvc.Products(productFilter(r))

	resp := ProductsSearchResult{
		Data: make([]ProductResponse, len(products)),
		Meta: Meta{TotalCount: len(products)},
	}
	for i, p := range products {
		resp.Data[i] = toProductResponse(p)
	}
	respond(w, r, http.StatusOK, resp)
}

// GetProductHandler godoc
// @Summary Get a product with its live stock in boxes and pieces
// @Tags products
// @Produce json
// @Param sku path string true "Product SKU"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Router /products/{sku} [get]
func GetProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := ledgerSvc.Product(chi.URLParam(r, "sku"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, toProductResponse(p))
}
