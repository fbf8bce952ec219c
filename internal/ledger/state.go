package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// State is the combined catalog and ledger. Mutating operations work on a
// clone and hand back the next state, so a caller's State is never modified.
type State struct {
	Catalog *Catalog
	Ledger  *Ledger
}

// NewState returns an empty state.
func NewState() State {
	return State{Catalog: NewCatalog(), Ledger: NewLedger()}
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s State) Clone() State {
	s = s.orEmpty()
	return State{Catalog: s.Catalog.clone(), Ledger: s.Ledger.clone()}
}

func (s State) orEmpty() State {
	if s.Catalog == nil {
		s.Catalog = NewCatalog()
	}
	if s.Ledger == nil {
		s.Ledger = NewLedger()
	}
	return s
}

// Document is the serialized form of State.
type Document struct {
	Products     []models.Product     `json:"products"`
	Transactions []models.Transaction `json:"transactions"`
}

// Document returns the serializable view of s. Transactions are most recent first.
func (s State) Document() Document {
	s = s.orEmpty()
	return Document{Products: s.Catalog.All(), Transactions: s.Ledger.All()}
}

// FromDocument rebuilds a State from its serialized form.
func FromDocument(doc Document) (State, error) {
	s := NewState()
	for _, p := range doc.Products {
		if err := s.Catalog.Put(p); err != nil {
			return State{}, fmt.Errorf("product %q: %w", p.SKU, err)
		}
	}
	for i := len(doc.Transactions) - 1; i >= 0; i-- {
		if _, err := s.Ledger.Append(doc.Transactions[i]); err != nil {
			return State{}, fmt.Errorf("transaction %q: %w", doc.Transactions[i].ID, err)
		}
	}
	return s, nil
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Document())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	next, err := FromDocument(doc)
	if err != nil {
		return err
	}
	*s = next
	return nil
}
