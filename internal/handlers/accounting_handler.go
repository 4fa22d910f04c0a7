package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"avalom-backend/internal/cache"
	"avalom-backend/internal/models"
	"avalom-backend/internal/services"
	"avalom-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type AccountingHandler struct {
	Service *services.AccountingService
}

func NewAccountingHandler(service *services.AccountingService) *AccountingHandler {
	return &AccountingHandler{Service: service}
}

// Overview returns every rental with aggregate paid/due figures. Cached
// for five minutes; mutations invalidate.
func (h *AccountingHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if data, ok := cache.GetCached(ctx, cache.OverviewKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	summaries, err := h.Service.Overview(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{"success": true, "data": summaries})
	if err != nil {
		writeError(w, err)
		return
	}
	cache.SetCached(ctx, cache.OverviewKey, payload, 5*time.Minute)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// RentalLedger returns the accounting view of one rental.
func (h *AccountingHandler) RentalLedger(w http.ResponseWriter, r *http.Request) {
	rentalID, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	ctx := r.Context()
	key := cache.RentalLedgerKey(rentalID)
	if data, ok := cache.GetCached(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	view, err := h.Service.GetRentalLedger(ctx, rentalID)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{"success": true, "data": view})
	if err != nil {
		writeError(w, err)
		return
	}
	cache.SetCached(ctx, key, payload, time.Minute)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// RegisterPayment records a payment against a monthly period.
func (h *AccountingHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	periodID, err := strconv.Atoi(mux.Vars(r)["period_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid period ID")
		return
	}

	var req models.RegisterPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.Service.RegisterPayment(r.Context(), periodID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusCreated, payment)
}

// RegisterDepositPayment records a payment that funds a rental's deposit.
func (h *AccountingHandler) RegisterDepositPayment(w http.ResponseWriter, r *http.Request) {
	rentalID, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	var req models.RegisterPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.Service.RegisterDepositPayment(r.Context(), rentalID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusCreated, payment)
}

// AnnulPayment reverses a payment and returns the audit record.
func (h *AccountingHandler) AnnulPayment(w http.ResponseWriter, r *http.Request) {
	var req models.AnnulPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	annulment, err := h.Service.AnnulPayment(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusCreated, annulment)
}

// ToggleGift flags a period as gifted or removes the flag.
func (h *AccountingHandler) ToggleGift(w http.ResponseWriter, r *http.Request) {
	periodID, err := strconv.Atoi(mux.Vars(r)["period_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid period ID")
		return
	}

	var req struct {
		Gifted bool `json:"gifted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	period, err := h.Service.ToggleGift(r.Context(), periodID, req.Gifted)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusOK, period)
}

// CancelRental terminates a rental early against its deposit.
func (h *AccountingHandler) CancelRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	var req models.CancelRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cancellation, err := h.Service.CancelRental(r.Context(), rentalID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusCreated, cancellation)
}

// FinishRental closes a fully settled rental.
func (h *AccountingHandler) FinishRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	rental, err := h.Service.FinishRental(r.Context(), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusOK, rental)
}

// HasPayments reports whether a rental has any registered payments.
func (h *AccountingHandler) HasPayments(w http.ResponseWriter, r *http.Request) {
	rentalID, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	has, err := h.Service.RentalHasPayments(r.Context(), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"has_payments": has})
}
