package handlers

import (
	"errors"
	"log"
	"net/http"

	"avalom-backend/internal/ledger"
	"avalom-backend/pkg/utils"
)

// writeError maps the ledger error taxonomy onto HTTP status codes and
// writes the failure envelope. Unknown errors become opaque 500s.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidDate),
		errors.Is(err, ledger.ErrInvalidTransition):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrOverPayment),
		errors.Is(err, ledger.ErrInsufficientDeposit),
		errors.Is(err, ledger.ErrNoDeposit),
		errors.Is(err, ledger.ErrOverlap),
		errors.Is(err, ledger.ErrDuplicateLabel),
		errors.Is(err, ledger.ErrPendingPeriods),
		errors.Is(err, ledger.ErrHasPayments):
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrAlreadyAnnulled):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrConflict):
		utils.Error(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[Handler] internal error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
