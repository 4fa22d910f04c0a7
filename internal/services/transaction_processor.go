package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"avalom-backend/internal/ledger"
	"avalom-backend/internal/metrics"
	"avalom-backend/internal/models"
	"avalom-backend/internal/timeutil"
)

// TransactionProcessor is the only writer of money-bearing records. Every
// operation runs as a single store transaction: all reads and writes
// commit together or not at all. A serialization conflict is retried once
// before being surfaced as ledger.ErrConflict.
type TransactionProcessor struct {
	store Store

	// now is the clock used for status derivation; overridable in tests.
	now func() time.Time
}

func NewTransactionProcessor(store Store) *TransactionProcessor {
	return &TransactionProcessor{store: store, now: timeutil.Now}
}

func (tp *TransactionProcessor) inTx(ctx context.Context, fn func(Store) error) error {
	err := tp.store.InTx(ctx, fn)
	if errors.Is(err, ledger.ErrConflict) {
		metrics.TxConflicts.Inc()
		err = tp.store.InTx(ctx, fn)
	}
	return err
}

// RegisterPayment inserts a payment against a monthly period, bumps the
// period's paid amount and recomputes its status. A payment that would
// push the paid amount past the total due is rejected, never capped.
func (tp *TransactionProcessor) RegisterPayment(ctx context.Context, periodID int, req models.RegisterPaymentRequest, date time.Time) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	var payment *models.Payment
	err := tp.inTx(ctx, func(s Store) error {
		period, err := s.GetPeriod(ctx, periodID)
		if err != nil {
			return fmt.Errorf("load period %d: %w", periodID, err)
		}

		if period.AmountPaid+req.Amount > period.TotalDue {
			return ledger.ErrOverPayment
		}

		payment = &models.Payment{
			PeriodID:    &period.ID,
			Amount:      req.Amount,
			Date:        date,
			Method:      req.Method,
			Bank:        req.Bank,
			Account:     req.Account,
			Reference:   req.Reference,
			Description: req.Description,
			Status:      models.PaymentActive,
		}
		if err := s.InsertPayment(ctx, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		period.AmountPaid += req.Amount
		period.Status = ledger.DerivePeriodStatus(period, tp.now())
		if period.Status == models.PeriodPaid {
			period.PaymentDate = &date
		}
		if err := s.UpdatePeriodBalance(ctx, period); err != nil {
			return fmt.Errorf("update period %d: %w", period.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRegistered.Inc()
	return payment, nil
}

// RegisterDepositPayment inserts a deposit-linked payment and increments
// the deposit balance by its amount.
func (tp *TransactionProcessor) RegisterDepositPayment(ctx context.Context, rentalID int, req models.RegisterPaymentRequest, date time.Time) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	var payment *models.Payment
	err := tp.inTx(ctx, func(s Store) error {
		deposit, err := s.GetDepositByRental(ctx, rentalID)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return ledger.ErrNoDeposit
			}
			return fmt.Errorf("load deposit for rental %d: %w", rentalID, err)
		}

		payment = &models.Payment{
			DepositID:   &deposit.ID,
			Amount:      req.Amount,
			Date:        date,
			Method:      req.Method,
			Bank:        req.Bank,
			Account:     req.Account,
			Reference:   req.Reference,
			Description: req.Description,
			Status:      models.PaymentActive,
		}
		if err := s.InsertPayment(ctx, payment); err != nil {
			return fmt.Errorf("insert deposit payment: %w", err)
		}
		if err := s.UpdateDepositBalance(ctx, deposit.ID, deposit.Balance+req.Amount); err != nil {
			return fmt.Errorf("update deposit %d: %w", deposit.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRegistered.Inc()
	return payment, nil
}

// AnnulPayment reverses a payment: the parent balance (deposit balance or
// period amount-paid) is decremented exactly once, the payment is flagged
// annulled, and an audit record with before/after snapshots is written,
// all in one transaction. Annulling twice fails with
// ledger.ErrAlreadyAnnulled and decrements nothing.
func (tp *TransactionProcessor) AnnulPayment(ctx context.Context, req models.AnnulPaymentRequest) (*models.PaymentAnnulment, error) {
	var annulment *models.PaymentAnnulment
	err := tp.inTx(ctx, func(s Store) error {
		payment, err := s.GetPayment(ctx, req.PaymentID)
		if err != nil {
			return fmt.Errorf("load payment %d: %w", req.PaymentID, err)
		}
		if payment.Status == models.PaymentAnnulled {
			return ledger.ErrAlreadyAnnulled
		}

		var original, resulting int64
		switch {
		case payment.DepositID != nil:
			deposit, err := s.GetDeposit(ctx, *payment.DepositID)
			if err != nil {
				return fmt.Errorf("load deposit %d: %w", *payment.DepositID, err)
			}
			original = deposit.Balance
			resulting = original - payment.Amount
			if resulting < 0 {
				// The deposit was already drawn down past this payment
				// (return or penalty applied at cancellation).
				return fmt.Errorf("deposit %d balance %d below payment amount %d: %w",
					deposit.ID, original, payment.Amount, ledger.ErrInsufficientDeposit)
			}
			if err := s.UpdateDepositBalance(ctx, deposit.ID, resulting); err != nil {
				return fmt.Errorf("update deposit %d: %w", deposit.ID, err)
			}

		case payment.PeriodID != nil:
			period, err := s.GetPeriod(ctx, *payment.PeriodID)
			if err != nil {
				return fmt.Errorf("load period %d: %w", *payment.PeriodID, err)
			}
			original = period.AmountPaid
			resulting = original - payment.Amount
			period.AmountPaid = resulting
			period.PaymentDate = nil
			period.Status = ledger.DerivePeriodStatus(period, tp.now())
			if err := s.UpdatePeriodBalance(ctx, period); err != nil {
				return fmt.Errorf("update period %d: %w", period.ID, err)
			}

		default:
			return fmt.Errorf("payment %d has no parent: %w", payment.ID, ledger.ErrNotFound)
		}

		if err := s.UpdatePaymentStatus(ctx, payment.ID, models.PaymentAnnulled); err != nil {
			return fmt.Errorf("annul payment %d: %w", payment.ID, err)
		}

		annulment = &models.PaymentAnnulment{
			PaymentID:        payment.ID,
			Reason:           req.Reason,
			Description:      req.Description,
			AnnulledAt:       tp.now(),
			UserID:           req.UserID,
			OriginalBalance:  original,
			ResultingBalance: resulting,
		}
		if err := s.InsertAnnulment(ctx, annulment); err != nil {
			return fmt.Errorf("insert annulment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsAnnulled.Inc()
	return annulment, nil
}

// CancelRental terminates a rental early against its deposit. The refund
// and penalty are drawn from the deposit balance; the rental flips to
// Cancelled and a cancellation record is persisted, atomically.
func (tp *TransactionProcessor) CancelRental(ctx context.Context, rentalID int, req models.CancelRentalRequest, date time.Time) (*models.RentalCancellation, error) {
	if req.RefundAmount < 0 || req.PenaltyAmount < 0 {
		return nil, ledger.ErrInvalidAmount
	}

	var cancellation *models.RentalCancellation
	err := tp.inTx(ctx, func(s Store) error {
		rental, err := s.GetRental(ctx, rentalID)
		if err != nil {
			return fmt.Errorf("load rental %d: %w", rentalID, err)
		}
		if rental.Status != models.RentalActive {
			return fmt.Errorf("rental %d is %s: %w", rental.ID, rental.Status, ledger.ErrInvalidTransition)
		}
		if date.Before(timeutil.StartOfDay(rental.StartDate)) {
			return ledger.ErrInvalidDate
		}

		deposit, err := s.GetDepositByRental(ctx, rentalID)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return ledger.ErrNoDeposit
			}
			return fmt.Errorf("load deposit for rental %d: %w", rentalID, err)
		}

		withdrawn := req.RefundAmount + req.PenaltyAmount
		if withdrawn > deposit.Balance {
			return ledger.ErrInsufficientDeposit
		}

		if err := s.UpdateDepositBalance(ctx, deposit.ID, deposit.Balance-withdrawn); err != nil {
			return fmt.Errorf("update deposit %d: %w", deposit.ID, err)
		}
		if err := s.UpdateRentalStatus(ctx, rental.ID, models.RentalCancelled); err != nil {
			return fmt.Errorf("update rental %d: %w", rental.ID, err)
		}

		cancellation = &models.RentalCancellation{
			RentalID:      rental.ID,
			Reason:        req.Reason,
			RefundAmount:  req.RefundAmount,
			PenaltyAmount: req.PenaltyAmount,
			Date:          date,
		}
		if err := s.InsertCancellation(ctx, cancellation); err != nil {
			return fmt.Errorf("insert cancellation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RentalsCancelled.Inc()
	return cancellation, nil
}

// ToggleGift marks a period gifted or re-derives its status when the gift
// is removed. Gifting an already paid period is rejected.
func (tp *TransactionProcessor) ToggleGift(ctx context.Context, periodID int, gifted bool) (*models.MonthlyPeriod, error) {
	var period *models.MonthlyPeriod
	err := tp.inTx(ctx, func(s Store) error {
		var err error
		period, err = s.GetPeriod(ctx, periodID)
		if err != nil {
			return fmt.Errorf("load period %d: %w", periodID, err)
		}

		status, err := ledger.GiftStatus(period, gifted, tp.now())
		if err != nil {
			return err
		}
		period.Status = status
		if err := s.UpdatePeriodBalance(ctx, period); err != nil {
			return fmt.Errorf("update period %d: %w", period.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// FinishRental closes a rental that ran to term. Every period must be
// settled (paid or gifted). Finishing and cancelling are terminal: a
// rental leaves Active exactly once.
func (tp *TransactionProcessor) FinishRental(ctx context.Context, rentalID int) (*models.Rental, error) {
	var rental *models.Rental
	err := tp.inTx(ctx, func(s Store) error {
		var err error
		rental, err = s.GetRental(ctx, rentalID)
		if err != nil {
			return fmt.Errorf("load rental %d: %w", rentalID, err)
		}
		if rental.Status != models.RentalActive {
			return fmt.Errorf("rental %d is %s: %w", rental.ID, rental.Status, ledger.ErrInvalidTransition)
		}

		periods, err := s.GetPeriodsByRental(ctx, rentalID)
		if err != nil {
			return fmt.Errorf("load periods for rental %d: %w", rentalID, err)
		}
		now := tp.now()
		for i := range periods {
			if !ledger.Settled(ledger.DerivePeriodStatus(&periods[i], now)) {
				return ledger.ErrPendingPeriods
			}
		}

		if err := s.UpdateRentalStatus(ctx, rental.ID, models.RentalFinished); err != nil {
			return fmt.Errorf("update rental %d: %w", rental.ID, err)
		}
		rental.Status = models.RentalFinished
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

// SavePeriods persists a batch of candidate periods for a rental in one
// transaction, re-validating overlap against stored periods and within the
// batch, and rejecting duplicate labels.
func (tp *TransactionProcessor) SavePeriods(ctx context.Context, rentalID int, candidates []models.MonthlyPeriod) ([]models.MonthlyPeriod, error) {
	var saved []models.MonthlyPeriod
	err := tp.inTx(ctx, func(s Store) error {
		saved = nil
		if _, err := s.GetRental(ctx, rentalID); err != nil {
			return fmt.Errorf("load rental %d: %w", rentalID, err)
		}
		existing, err := s.GetPeriodsByRental(ctx, rentalID)
		if err != nil {
			return fmt.Errorf("load periods for rental %d: %w", rentalID, err)
		}

		for _, c := range candidates {
			if err := validateCandidate(&c, existing); err != nil {
				return err
			}
			c.RentalID = rentalID
			if err := s.InsertPeriod(ctx, &c); err != nil {
				return fmt.Errorf("insert period %q: %w", c.Label, err)
			}
			existing = append(existing, c)
			saved = append(saved, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// CreatePeriod persists a single validated period.
func (tp *TransactionProcessor) CreatePeriod(ctx context.Context, period *models.MonthlyPeriod) error {
	return tp.inTx(ctx, func(s Store) error {
		if _, err := s.GetRental(ctx, period.RentalID); err != nil {
			return fmt.Errorf("load rental %d: %w", period.RentalID, err)
		}
		existing, err := s.GetPeriodsByRental(ctx, period.RentalID)
		if err != nil {
			return fmt.Errorf("load periods for rental %d: %w", period.RentalID, err)
		}
		if err := validateCandidate(period, existing); err != nil {
			return err
		}
		return s.InsertPeriod(ctx, period)
	})
}

// UpdatePeriod rewrites a period's dates, label and total, re-validating
// against its siblings (the period itself is excluded from the overlap
// check).
func (tp *TransactionProcessor) UpdatePeriod(ctx context.Context, period *models.MonthlyPeriod) error {
	return tp.inTx(ctx, func(s Store) error {
		current, err := s.GetPeriod(ctx, period.ID)
		if err != nil {
			return fmt.Errorf("load period %d: %w", period.ID, err)
		}
		period.RentalID = current.RentalID

		existing, err := s.GetPeriodsByRental(ctx, period.RentalID)
		if err != nil {
			return fmt.Errorf("load periods for rental %d: %w", period.RentalID, err)
		}
		if ledger.HasOverlap(period.StartDate, period.EndDate, existing, period.ID) {
			return ledger.ErrOverlap
		}
		for _, p := range existing {
			if p.ID != period.ID && p.Label == period.Label {
				return ledger.ErrDuplicateLabel
			}
		}
		if period.TotalDue < current.AmountPaid {
			return ledger.ErrInvalidAmount
		}
		return s.UpdatePeriod(ctx, period)
	})
}

// DeletePeriod removes a period that has no payments. Periods with
// registered payments are never destroyed.
func (tp *TransactionProcessor) DeletePeriod(ctx context.Context, periodID int) error {
	return tp.inTx(ctx, func(s Store) error {
		if _, err := s.GetPeriod(ctx, periodID); err != nil {
			return fmt.Errorf("load period %d: %w", periodID, err)
		}
		has, err := s.PeriodHasPayments(ctx, periodID)
		if err != nil {
			return fmt.Errorf("check payments for period %d: %w", periodID, err)
		}
		if has {
			return ledger.ErrHasPayments
		}
		return s.DeletePeriod(ctx, periodID)
	})
}

// validateCandidate rejects malformed, overlapping or duplicate-labelled
// candidate periods before insertion.
func validateCandidate(c *models.MonthlyPeriod, existing []models.MonthlyPeriod) error {
	if !c.StartDate.Before(c.EndDate) {
		return ledger.ErrInvalidDate
	}
	if c.TotalDue <= 0 {
		return ledger.ErrInvalidAmount
	}
	if ledger.HasOverlap(c.StartDate, c.EndDate, existing, 0) {
		return ledger.ErrOverlap
	}
	for _, p := range existing {
		if p.Label == c.Label {
			return ledger.ErrDuplicateLabel
		}
	}
	return nil
}
