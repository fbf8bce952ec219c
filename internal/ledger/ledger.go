package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// Range bounds transaction instants inclusively. A zero bound is unbounded.
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within r.
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Ledger is an append-only list of transactions with a SKU index.
// Entries are kept in append order; listings are most recent first.
type Ledger struct {
	entries []models.Transaction
	bySKU   map[string][]int
	ids     map[string]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		bySKU: make(map[string][]int),
		ids:   make(map[string]struct{}),
	}
}

// NewTransactionID returns a fresh unique transaction id.
func NewTransactionID() string {
	return uuid.NewString()
}

// Append validates tx and adds it to the ledger. An empty ID is filled in.
func (l *Ledger) Append(tx models.Transaction) (models.Transaction, error) {
	if tx.Qty <= 0 {
		return tx, invalid("qty", "quantity must be greater than zero")
	}
	if tx.SKU == "" {
		return tx, invalid("sku", "sku is required")
	}
	if !tx.Type.Valid() {
		return tx, invalid("type", fmt.Sprintf("unknown transaction type %q", tx.Type))
	}
	if tx.ID == "" {
		tx.ID = NewTransactionID()
	}
	if _, dup := l.ids[tx.ID]; dup {
		return tx, fmt.Errorf("%w: %s", ErrDuplicateTransaction, tx.ID)
	}

	l.ids[tx.ID] = struct{}{}
	l.bySKU[tx.SKU] = append(l.bySKU[tx.SKU], len(l.entries))
	l.entries = append(l.entries, tx)
	return tx, nil
}

// All returns every transaction, most recent first.
func (l *Ledger) All() []models.Transaction {
	out := make([]models.Transaction, len(l.entries))
	for i, tx := range l.entries {
		out[len(l.entries)-1-i] = tx
	}
	return out
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// TransactionsFor returns the transactions of sku, most recent first.
func (l *Ledger) TransactionsFor(sku string) []models.Transaction {
	idx := l.bySKU[sku]
	out := make([]models.Transaction, len(idx))
	for i, pos := range idx {
		out[len(idx)-1-i] = l.entries[pos]
	}
	return out
}

// Aggregate sums qty for sku transactions of type typ within r.
func (l *Ledger) Aggregate(sku string, typ models.TxType, r Range) int {
	sum := 0
	for _, pos := range l.bySKU[sku] {
		tx := l.entries[pos]
		if tx.Type == typ && r.Contains(tx.Date) {
			sum += tx.Qty
		}
	}
	return sum
}

// Net sums the signed deltas of sku transactions within r.
func (l *Ledger) Net(sku string, r Range) int {
	net := 0
	for _, pos := range l.bySKU[sku] {
		tx := l.entries[pos]
		if r.Contains(tx.Date) {
			net += tx.Delta()
		}
	}
	return net
}

func (l *Ledger) clone() *Ledger {
	out := &Ledger{
		entries: make([]models.Transaction, len(l.entries)),
		bySKU:   make(map[string][]int, len(l.bySKU)),
		ids:     make(map[string]struct{}, len(l.ids)),
	}
	copy(out.entries, l.entries)
	for sku, idx := range l.bySKU {
		out.bySKU[sku] = append([]int(nil), idx...)
	}
	for id := range l.ids {
		out.ids[id] = struct{}{}
	}
	return out
}
