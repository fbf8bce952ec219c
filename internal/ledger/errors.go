package ledger

import (
	"errors"
	"fmt"

	"github.com/rogerio-castellano/inventory-ledger/internal/units"
)

var (
	// ErrConflict is returned when a new product uses a SKU that already exists.
	ErrConflict = errors.New("sku already exists")
	// ErrInsufficientStock is returned when a sale exceeds the current stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInputShape is returned when an upload cannot be read as rows at all.
	ErrInputShape = errors.New("input is not a row sequence")
	// ErrProductNotFound is returned when a SKU is not in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateTransaction is returned when a transaction id is already in the ledger.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
)

// ValidationError reports a missing or out-of-range field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var errTooLarge = invalid("qty", fmt.Sprintf("quantity cannot exceed %d pieces", units.MaxPieces))

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
