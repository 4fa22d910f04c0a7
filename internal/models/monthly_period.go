package models

import "time"

// PeriodStatus is the billing state of a monthly period. The stored value
// only records Gifted explicitly; the rest is derived from amounts and
// dates by the status engine and written back for display.
type PeriodStatus string

const (
	PeriodPending    PeriodStatus = "PENDING"
	PeriodPaid       PeriodStatus = "PAID"
	PeriodOverdue    PeriodStatus = "OVERDUE"    // Past its end date and not fully paid
	PeriodIncomplete PeriodStatus = "INCOMPLETE" // Partially paid, still inside the period
	PeriodGifted     PeriodStatus = "GIFTED"     // Waived by the landlord
)

// MonthlyPeriod is one billing interval of a rental. The interval is
// half-open: [StartDate, EndDate).
type MonthlyPeriod struct {
	ID          int          `json:"id"`
	RentalID    int          `json:"rental_id"`
	Label       string       `json:"label"` // Human identifier, e.g. "Mes 3"; unique per rental
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	TotalDue    int64        `json:"total_due"`
	AmountPaid  int64        `json:"amount_paid"`
	PaymentDate *time.Time   `json:"payment_date,omitempty"` // Date of the payment that completed the period
	Status      PeriodStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DraftPeriod is a pre-persistence period built while a rental is being
// set up. Drafts live outside the store and are not invariant-checked
// until they are saved as a batch.
type DraftPeriod struct {
	Label     string    `json:"label"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	TotalDue  int64     `json:"total_due"`
}

// CreatePeriodRequest carries the monthly period form fields.
type CreatePeriodRequest struct {
	RentalID  int    `json:"rental_id"`
	Label     string `json:"label"`
	StartDate string `json:"start_date"` // "2006-01-02"
	EndDate   string `json:"end_date"`
	TotalDue  int64  `json:"total_due"`
}

// SavePeriodsRequest persists a batch of drafts for a rental in one shot.
type SavePeriodsRequest struct {
	RentalID int                  `json:"rental_id"`
	Periods  []CreatePeriodRequest `json:"periods"`
}

// ValidatePeriodRequest checks a candidate interval against stored periods.
type ValidatePeriodRequest struct {
	RentalID  int    `json:"rental_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	ExcludeID int    `json:"exclude_id,omitempty"` // Period being edited, skipped during the check
}
