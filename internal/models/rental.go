package models

import "time"

// RentalStatus is the lifecycle state of a rental contract.
type RentalStatus string

const (
	RentalActive    RentalStatus = "ACTIVE"
	RentalFinished  RentalStatus = "FINISHED"  // Ran to term, all periods settled
	RentalCancelled RentalStatus = "CANCELLED" // Terminated early against the deposit
)

// Rental represents a lease contract on a property. Money amounts are
// integer minor units (cents) everywhere in the ledger.
type Rental struct {
	ID            int          `json:"id"`
	PropertyID    int          `json:"property_id"`
	MonthlyAmount int64        `json:"monthly_amount"`
	StartDate     time.Time    `json:"start_date"` // Billing anchor; day-of-month is preserved across periods
	EndDate       time.Time    `json:"end_date"`
	Status        RentalStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// AnchorDay returns the day-of-month the contract bills on, taken from the
// contract start date in the operating timezone.
func (r *Rental) AnchorDay(loc *time.Location) int {
	return r.StartDate.In(loc).Day()
}

// RentalCancellation is the terminal record for a cancelled rental.
type RentalCancellation struct {
	ID            int       `json:"id"`
	RentalID      int       `json:"rental_id"`
	Reason        string    `json:"reason"`
	RefundAmount  int64     `json:"refund_amount"`  // Returned to the tenant from the deposit
	PenaltyAmount int64     `json:"penalty_amount"` // Withheld from the deposit
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"created_at"`
}

// CancelRentalRequest carries the cancellation form fields.
type CancelRentalRequest struct {
	Reason        string `json:"reason"`
	RefundAmount  int64  `json:"refund_amount"`
	PenaltyAmount int64  `json:"penalty_amount"`
	Date          string `json:"date"` // "2006-01-02" in the operating timezone
}
