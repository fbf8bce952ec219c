package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/undo"
)

// InMemoryStateRepository keeps deep copies of the state in process memory.
type InMemoryStateRepository struct {
	mu    sync.Mutex
	state ledger.State
	undo  []undo.Entry
	saves int
}

func NewInMemoryStateRepository() *InMemoryStateRepository {
	return &InMemoryStateRepository{state: ledger.NewState()}
}

func (r *InMemoryStateRepository) Load(ctx context.Context) (ledger.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone(), nil
}

func (r *InMemoryStateRepository) Save(ctx context.Context, s ledger.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s.Clone()
	r.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (r *InMemoryStateRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *InMemoryStateRepository) LoadUndo(ctx context.Context) ([]undo.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]undo.Entry(nil), r.undo...), nil
}

func (r *InMemoryStateRepository) SaveUndo(ctx context.Context, entries []undo.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.undo = append([]undo.Entry(nil), entries...)
	return nil
}
