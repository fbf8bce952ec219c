package ledger

import "github.com/rogerio-castellano/inventory-ledger/internal/models"

// InferBaseline returns p's baseline, deriving it when unset as
// max(0, stock - net) where net covers the whole ledger for p.SKU.
//
// The result assumes p.Stock is accurate right now. If stock was overwritten
// out of band after transactions were recorded the baseline drifts; that is
// accepted, not reported.
func InferBaseline(p models.Product, l *Ledger) int {
	if p.InitialStock != nil {
		return *p.InitialStock
	}
	return max(0, p.Stock-l.Net(p.SKU, Range{}))
}

// EnsureBaseline sets the baseline of sku when it is unset and returns it.
func (s State) EnsureBaseline(sku string) (int, error) {
	p, ok := s.Catalog.Get(sku)
	if !ok {
		return 0, ErrProductNotFound
	}
	if p.InitialStock != nil {
		return *p.InitialStock, nil
	}
	b := InferBaseline(p, s.Ledger)
	p.InitialStock = models.IntPtr(b)
	return b, s.Catalog.Put(p)
}
