package query

import (
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// ProductFilter selects products by case-insensitive SKU and name substrings.
// Empty fields match everything.
type ProductFilter struct {
	SKU  string
	Name string
}

func (f ProductFilter) Match(p models.Product) bool {
	if q := strings.ToLower(strings.TrimSpace(f.SKU)); q != "" && !strings.Contains(strings.ToLower(p.SKU), q) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Name)); q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
		return false
	}
	return true
}

// Apply returns the products matching f, keeping their order.
func (f ProductFilter) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
