package models

// Product represents a catalog entry keyed by SKU.
// Stock and InitialStock are counted in pieces.
type Product struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	PackSize     int    `json:"packSize"`
	Stock        int    `json:"stock"`
	InitialStock *int   `json:"initialStock"`
}

// HasBaseline reports whether the stock baseline is known.
func (p Product) HasBaseline() bool {
	return p.InitialStock != nil
}

// Baseline returns the stock baseline, or 0 when it is unset.
func (p Product) Baseline() int {
	if p.InitialStock == nil {
		return 0
	}
	return *p.InitialStock
}

// Clone returns a copy that shares no memory with p.
func (p Product) Clone() Product {
	if p.InitialStock != nil {
		v := *p.InitialStock
		p.InitialStock = &v
	}
	return p
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(v int) *int {
	return &v
}
