package models

import "time"

// Deposit is the security deposit held for a rental. Balance is mutated
// only inside store transactions and never goes negative.
type Deposit struct {
	ID        int       `json:"id"`
	RentalID  int       `json:"rental_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// RentalLedger is the read model for a rental's accounting view: the
// contract, its periods with freshly derived statuses, the deposit, and
// whether any period is still unsettled.
type RentalLedger struct {
	Rental     *Rental         `json:"rental"`
	Periods    []MonthlyPeriod `json:"periods"`
	Deposit    *Deposit        `json:"deposit,omitempty"`
	HasPending bool            `json:"has_pending"`
}

// RentalSummary is one row of the accounting overview.
type RentalSummary struct {
	Rental       Rental `json:"rental"`
	PeriodCount  int    `json:"period_count"`
	PendingCount int    `json:"pending_count"`
	TotalDue     int64  `json:"total_due"`
	TotalPaid    int64  `json:"total_paid"`
}
