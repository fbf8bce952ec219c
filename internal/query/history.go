package query

import (
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// HistoryFilter narrows a transaction listing by instant and paginates it.
type HistoryFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

// History returns the sku transactions matching hf, most recent first,
// and the total number that matched before pagination.
func History(l *ledger.Ledger, sku string, hf HistoryFilter) ([]models.Transaction, int) {
	r := ledger.Range{}
	if hf.Since != nil {
		r.From = *hf.Since
	}
	if hf.Until != nil {
		r.To = *hf.Until
	}

	filtered := []models.Transaction{}
	for _, tx := range l.TransactionsFor(sku) {
		if r.Contains(tx.Date) {
			filtered = append(filtered, tx)
		}
	}

	if hf.Offset != nil && *hf.Offset > len(filtered) {
		return []models.Transaction{}, len(filtered)
	}

	start := 0
	if hf.Offset != nil {
		start = clamp(*hf.Offset, 0, len(filtered))
	}

	end := len(filtered)
	if hf.Limit != nil && *hf.Limit > 0 {
		end = clamp(start+*hf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
