package models

import "time"

// PaymentStatus is the state of a registered payment. Annulment is one-way.
type PaymentStatus string

const (
	PaymentActive   PaymentStatus = "ACTIVE"
	PaymentAnnulled PaymentStatus = "ANNULLED"
)

// Payment is a money receipt. It belongs to exactly one monthly period OR
// one deposit, never both. Immutable after creation except for Status.
type Payment struct {
	ID          int           `json:"id"`
	PeriodID    *int          `json:"period_id,omitempty"`
	DepositID   *int          `json:"deposit_id,omitempty"`
	Amount      int64         `json:"amount"`
	Date        time.Time     `json:"date"`
	Method      string        `json:"method"` // e.g. "TRANSFER", "CASH", "CHEQUE"
	Bank        string        `json:"bank"`
	Account     string        `json:"account"`
	Reference   string        `json:"reference"`
	Description string        `json:"description"`
	Status      PaymentStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PaymentAnnulment is the audit record of a reversed payment. The two
// snapshots capture the parent balance (deposit balance or period
// amount-paid) immediately before and after the reversal.
type PaymentAnnulment struct {
	ID               int       `json:"id"`
	PaymentID        int       `json:"payment_id"`
	Reason           string    `json:"reason"`
	Description      string    `json:"description"`
	AnnulledAt       time.Time `json:"annulled_at"`
	UserID           int       `json:"user_id"`
	OriginalBalance  int64     `json:"original_balance"`
	ResultingBalance int64     `json:"resulting_balance"`
}

// RegisterPaymentRequest carries the payment form fields.
type RegisterPaymentRequest struct {
	Amount      int64  `json:"amount"`
	Date        string `json:"date"` // "2006-01-02"
	Method      string `json:"method"`
	Bank        string `json:"bank"`
	Account     string `json:"account"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
}

// AnnulPaymentRequest carries the annulment form fields.
type AnnulPaymentRequest struct {
	PaymentID   int    `json:"payment_id"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
	UserID      int    `json:"user_id"`
}
