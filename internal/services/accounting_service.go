package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"avalom-backend/internal/ledger"
	"avalom-backend/internal/models"
	"avalom-backend/internal/timeutil"
)

// AccountingService is the entry point route handlers call. It converts
// external date strings to the operating timezone, delegates to the
// period scheduler, the status engine and the transaction processor, and
// does no money math of its own.
type AccountingService struct {
	store     Store
	processor *TransactionProcessor

	now func() time.Time
}

func NewAccountingService(store Store) *AccountingService {
	return &AccountingService{
		store:     store,
		processor: NewTransactionProcessor(store),
		now:       timeutil.Now,
	}
}

// parseDate converts an external "2006-01-02" string to a date in the
// operating timezone. Empty input falls back to the current date.
func (s *AccountingService) parseDate(value string) (time.Time, error) {
	if value == "" {
		return timeutil.StartOfDay(s.now()), nil
	}
	t, err := timeutil.ParseLocal(timeutil.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, ledger.ErrInvalidDate)
	}
	return t, nil
}

// ComputeNextPeriod returns the next contiguous billing interval for a
// rental, anchored on the contract's day-of-month.
func (s *AccountingService) ComputeNextPeriod(ctx context.Context, rentalID int) (*ledger.Period, error) {
	rental, err := s.store.GetRental(ctx, rentalID)
	if err != nil {
		return nil, fmt.Errorf("load rental %d: %w", rentalID, err)
	}
	periods, err := s.store.GetPeriodsByRental(ctx, rentalID)
	if err != nil {
		return nil, fmt.Errorf("load periods for rental %d: %w", rentalID, err)
	}

	next := ledger.NextPeriod(periods, rental.AnchorDay(timeutil.Location), s.now())
	return &next, nil
}

// ValidatePeriod reports whether a candidate interval is free of overlap
// with the rental's stored periods. An overlap is not an error here; the
// caller decides whether it is fatal.
func (s *AccountingService) ValidatePeriod(ctx context.Context, req models.ValidatePeriodRequest) (bool, error) {
	start, err := s.parseDate(req.StartDate)
	if err != nil {
		return false, err
	}
	end, err := s.parseDate(req.EndDate)
	if err != nil {
		return false, err
	}
	if _, err := s.store.GetRental(ctx, req.RentalID); err != nil {
		return false, fmt.Errorf("load rental %d: %w", req.RentalID, err)
	}
	periods, err := s.store.GetPeriodsByRental(ctx, req.RentalID)
	if err != nil {
		return false, fmt.Errorf("load periods for rental %d: %w", req.RentalID, err)
	}
	return !ledger.HasOverlap(start, end, periods, req.ExcludeID), nil
}

// BuildDraftPeriods splits a rental's term into monthly drafts. Pure; the
// drafts are a client-side buffer until SavePeriods persists them.
func (s *AccountingService) BuildDraftPeriods(ctx context.Context, rentalID int) ([]models.DraftPeriod, error) {
	rental, err := s.store.GetRental(ctx, rentalID)
	if err != nil {
		return nil, fmt.Errorf("load rental %d: %w", rentalID, err)
	}
	return ledger.MonthsBetween(rental.StartDate, rental.EndDate, rental.MonthlyAmount), nil
}

// SavePeriods persists a draft batch atomically.
func (s *AccountingService) SavePeriods(ctx context.Context, req models.SavePeriodsRequest) ([]models.MonthlyPeriod, error) {
	candidates := make([]models.MonthlyPeriod, 0, len(req.Periods))
	for _, p := range req.Periods {
		candidate, err := s.toCandidate(p)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *candidate)
	}
	return s.processor.SavePeriods(ctx, req.RentalID, candidates)
}

// CreatePeriod persists one period.
func (s *AccountingService) CreatePeriod(ctx context.Context, req models.CreatePeriodRequest) (*models.MonthlyPeriod, error) {
	candidate, err := s.toCandidate(req)
	if err != nil {
		return nil, err
	}
	candidate.RentalID = req.RentalID
	if err := s.processor.CreatePeriod(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// UpdatePeriod rewrites an existing period's label, dates and total.
func (s *AccountingService) UpdatePeriod(ctx context.Context, periodID int, req models.CreatePeriodRequest) (*models.MonthlyPeriod, error) {
	candidate, err := s.toCandidate(req)
	if err != nil {
		return nil, err
	}
	candidate.ID = periodID
	if err := s.processor.UpdatePeriod(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// DeletePeriod removes a period without payments.
func (s *AccountingService) DeletePeriod(ctx context.Context, periodID int) error {
	return s.processor.DeletePeriod(ctx, periodID)
}

func (s *AccountingService) toCandidate(req models.CreatePeriodRequest) (*models.MonthlyPeriod, error) {
	start, err := s.parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := s.parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	return &models.MonthlyPeriod{
		RentalID:  req.RentalID,
		Label:     req.Label,
		StartDate: start,
		EndDate:   end,
		TotalDue:  req.TotalDue,
		Status:    models.PeriodPending,
	}, nil
}

// RegisterPayment records a payment against a monthly period.
func (s *AccountingService) RegisterPayment(ctx context.Context, periodID int, req models.RegisterPaymentRequest) (*models.Payment, error) {
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	return s.processor.RegisterPayment(ctx, periodID, req, date)
}

// RegisterDepositPayment records a payment that funds a rental's deposit.
func (s *AccountingService) RegisterDepositPayment(ctx context.Context, rentalID int, req models.RegisterPaymentRequest) (*models.Payment, error) {
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	return s.processor.RegisterDepositPayment(ctx, rentalID, req, date)
}

// AnnulPayment reverses a payment and writes its audit record.
func (s *AccountingService) AnnulPayment(ctx context.Context, req models.AnnulPaymentRequest) (*models.PaymentAnnulment, error) {
	return s.processor.AnnulPayment(ctx, req)
}

// ToggleGift flags a period as gifted, or removes the flag.
func (s *AccountingService) ToggleGift(ctx context.Context, periodID int, gifted bool) (*models.MonthlyPeriod, error) {
	return s.processor.ToggleGift(ctx, periodID, gifted)
}

// CancelRental terminates a rental early against its deposit.
func (s *AccountingService) CancelRental(ctx context.Context, rentalID int, req models.CancelRentalRequest) (*models.RentalCancellation, error) {
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	return s.processor.CancelRental(ctx, rentalID, req, date)
}

// FinishRental closes a fully settled rental.
func (s *AccountingService) FinishRental(ctx context.Context, rentalID int) (*models.Rental, error) {
	return s.processor.FinishRental(ctx, rentalID)
}

// RentalHasPayments reports whether any period of the rental has
// registered payments. Rentals with payments cannot be deleted.
func (s *AccountingService) RentalHasPayments(ctx context.Context, rentalID int) (bool, error) {
	if _, err := s.store.GetRental(ctx, rentalID); err != nil {
		return false, fmt.Errorf("load rental %d: %w", rentalID, err)
	}
	return s.store.RentalHasPayments(ctx, rentalID)
}

// GetRentalLedger assembles the accounting view of one rental: periods
// with freshly derived statuses, the deposit, and a pending flag.
func (s *AccountingService) GetRentalLedger(ctx context.Context, rentalID int) (*models.RentalLedger, error) {
	rental, err := s.store.GetRental(ctx, rentalID)
	if err != nil {
		return nil, fmt.Errorf("load rental %d: %w", rentalID, err)
	}
	periods, err := s.store.GetPeriodsByRental(ctx, rentalID)
	if err != nil {
		return nil, fmt.Errorf("load periods for rental %d: %w", rentalID, err)
	}

	now := s.now()
	hasPending := false
	for i := range periods {
		periods[i].Status = ledger.DerivePeriodStatus(&periods[i], now)
		if !ledger.Settled(periods[i].Status) {
			hasPending = true
		}
	}

	view := &models.RentalLedger{
		Rental:     rental,
		Periods:    periods,
		HasPending: hasPending,
	}
	deposit, err := s.store.GetDepositByRental(ctx, rentalID)
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("load deposit for rental %d: %w", rentalID, err)
	}
	if err == nil {
		view.Deposit = deposit
	}
	return view, nil
}

// Overview lists every rental with aggregate paid/due figures for the
// accounting table.
func (s *AccountingService) Overview(ctx context.Context) ([]models.RentalSummary, error) {
	rentals, err := s.store.ListRentals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}

	now := s.now()
	summaries := make([]models.RentalSummary, 0, len(rentals))
	for _, rental := range rentals {
		periods, err := s.store.GetPeriodsByRental(ctx, rental.ID)
		if err != nil {
			return nil, fmt.Errorf("load periods for rental %d: %w", rental.ID, err)
		}
		summary := models.RentalSummary{Rental: rental, PeriodCount: len(periods)}
		for i := range periods {
			summary.TotalDue += periods[i].TotalDue
			summary.TotalPaid += periods[i].AmountPaid
			if !ledger.Settled(ledger.DerivePeriodStatus(&periods[i], now)) {
				summary.PendingCount++
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
