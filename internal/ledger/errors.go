// Package ledger holds the pure core of the rental accounting system:
// the period scheduler, the status engine and the error taxonomy shared
// by services and handlers. Nothing in this package touches the store.
package ledger

import "errors"

// Sentinel errors. Handlers map these to HTTP status codes with errors.Is;
// services wrap them with context via fmt.Errorf("...: %w", err).
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrOverPayment         = errors.New("payment exceeds amount due")
	ErrAlreadyAnnulled     = errors.New("payment already annulled")
	ErrNoDeposit           = errors.New("rental has no deposit")
	ErrInsufficientDeposit = errors.New("refund plus penalty exceeds deposit balance")
	ErrOverlap             = errors.New("period overlaps an existing period")
	ErrDuplicateLabel      = errors.New("period label already in use")
	ErrPendingPeriods      = errors.New("rental has unsettled periods")
	ErrHasPayments         = errors.New("period has registered payments")
	ErrConflict            = errors.New("transaction conflict")
)
