package models

import "time"

// TxType is the direction of a stock movement.
type TxType string

const (
	TxImport TxType = "import"
	TxSale   TxType = "sale"
)

// Valid reports whether t is a known movement type.
func (t TxType) Valid() bool {
	return t == TxImport || t == TxSale
}

// Sign returns +1 for imports and -1 for sales.
func (t TxType) Sign() int {
	if t == TxSale {
		return -1
	}
	return 1
}

// Transaction is an immutable ledger entry. Qty is in pieces and always positive.
type Transaction struct {
	ID   string    `json:"id"`
	Type TxType    `json:"type"`
	SKU  string    `json:"sku"`
	Name string    `json:"name,omitempty"`
	Qty  int       `json:"qty"`
	Date time.Time `json:"dateISO"`
}

// Delta returns the signed stock change of the transaction.
func (t Transaction) Delta() int {
	return t.Type.Sign() * t.Qty
}
