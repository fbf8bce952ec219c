package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/undo"
)

// StateRepository loads and saves the whole catalog and ledger.
// Load on an empty store returns an empty state, not an error.
type StateRepository interface {
	Load(ctx context.Context) (ledger.State, error)
	Save(ctx context.Context, s ledger.State) error
}

// UndoRepository is implemented by stores that can keep the undo stack
// between process runs.
type UndoRepository interface {
	LoadUndo(ctx context.Context) ([]undo.Entry, error)
	SaveUndo(ctx context.Context, entries []undo.Entry) error
}

var ErrUnknownDriver = errors.New("unknown store driver")
