package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"avalom-backend/internal/cache"
	"avalom-backend/internal/models"
	"avalom-backend/internal/services"
	"avalom-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PeriodHandler struct {
	Service *services.AccountingService
}

func NewPeriodHandler(service *services.AccountingService) *PeriodHandler {
	return &PeriodHandler{Service: service}
}

// NextPeriod computes the next contiguous billing interval for a rental.
func (h *PeriodHandler) NextPeriod(w http.ResponseWriter, r *http.Request) {
	rentalID, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	next, err := h.Service.ComputeNextPeriod(r.Context(), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, next)
}

// Validate checks a candidate interval against the rental's stored
// periods and reports whether it is free of overlap.
func (h *PeriodHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req models.ValidatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	valid, err := h.Service.ValidatePeriod(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

// Drafts splits a rental's term into monthly draft periods without
// persisting anything.
func (h *PeriodHandler) Drafts(w http.ResponseWriter, r *http.Request) {
	rentalID, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	drafts, err := h.Service.BuildDraftPeriods(r.Context(), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, drafts)
}

// SaveAll persists a draft batch atomically.
func (h *PeriodHandler) SaveAll(w http.ResponseWriter, r *http.Request) {
	var req models.SavePeriodsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.Service.SavePeriods(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusCreated, saved)
}

// Create persists one monthly period.
func (h *PeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	period, err := h.Service.CreatePeriod(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusCreated, period)
}

// Update rewrites a period's label, dates and total.
func (h *PeriodHandler) Update(w http.ResponseWriter, r *http.Request) {
	periodID, err := strconv.Atoi(mux.Vars(r)["period_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid period ID")
		return
	}

	var req models.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	period, err := h.Service.UpdatePeriod(r.Context(), periodID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusOK, period)
}

// Delete removes a period that has no payments.
func (h *PeriodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	periodID, err := strconv.Atoi(mux.Vars(r)["period_id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid period ID")
		return
	}

	if err := h.Service.DeletePeriod(r.Context(), periodID); err != nil {
		writeError(w, err)
		return
	}
	cache.InvalidateLedgerCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Period deleted"})
}
