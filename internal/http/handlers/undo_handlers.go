package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/undo"
)

// UndoHandler godoc
// @Summary Restore the state before the last change
// @Tags undo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UndoResult
// @Failure 409 {string} string "Nothing to undo"
// @Router /undo [post]
func UndoHandler(w http.ResponseWriter, r *http.Request) {
	reason, err := ledgerSvc.Undo(r.Context())
	if err != nil {
		if errors.Is(err, undo.ErrEmpty) {
			http.Error(w, "nothing to undo", http.StatusConflict)
			return
		}
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, UndoResult{Reason: reason, Remaining: ledgerSvc.UndoDepth()})
}
