package undo

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

func stateWith(sku string, stock int) ledger.State {
	s := ledger.NewState()
	_ = s.Catalog.Put(models.Product{SKU: sku, Name: sku, PackSize: 1, Stock: stock, InitialStock: models.IntPtr(stock)})
	return s
}

func TestPushPop(t *testing.T) {
	m := NewManager(3)

	if _, err := m.Pop(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	m.Push(stateWith("A", 1), "first")
	m.Push(stateWith("A", 2), "second")

	e, err := m.Pop()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := e.State.Catalog.Get("A")
	if e.Reason != "second" || p.Stock != 2 {
		t.Errorf("unexpected entry %q stock %d", e.Reason, p.Stock)
	}
	if m.Len() != 1 {
		t.Errorf("len = %d, want 1", m.Len())
	}
}

func TestCapacityDropsOldest(t *testing.T) {
	m := NewManager(0)
	if m.Capacity() != DefaultCapacity {
		t.Fatalf("capacity = %d", m.Capacity())
	}
	for i := 0; i < 15; i++ {
		m.Push(ledger.NewState(), fmt.Sprintf("op %d", i))
	}
	if m.Len() != DefaultCapacity {
		t.Fatalf("len = %d, want %d", m.Len(), DefaultCapacity)
	}
	if oldest := m.Entries()[0].Reason; oldest != "op 5" {
		t.Errorf("oldest = %q, want op 5", oldest)
	}
}

func TestSnapshotIsUnaliased(t *testing.T) {
	m := NewManager(2)
	live := stateWith("A", 5)
	m.Push(live, "before edit")

	_ = live.Catalog.Put(models.Product{SKU: "A", Name: "A", PackSize: 1, Stock: 0})
	_, _ = live.Ledger.Append(models.Transaction{Type: models.TxSale, SKU: "A", Qty: 5})

	e, _ := m.Pop()
	p, _ := e.State.Catalog.Get("A")
	if p.Stock != 5 || e.State.Ledger.Len() != 0 {
		t.Errorf("snapshot shares memory with the live state: %+v, %d txs", p, e.State.Ledger.Len())
	}
}

func TestEntriesSurviveJSON(t *testing.T) {
	m := NewManager(5)
	m.Push(stateWith("A", 3), "upload")

	data, err := json.Marshal(m.Entries())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored := NewManager(5)
	restored.Restore(entries)
	e, err := restored.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if p, _ := e.State.Catalog.Get("A"); e.Reason != "upload" || p.Stock != 3 {
		t.Errorf("unexpected restored entry %q %+v", e.Reason, p)
	}
}
