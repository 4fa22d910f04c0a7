package services

import (
	"context"

	"avalom-backend/internal/models"
)

// Store is the transactional read/write contract the ledger runs on. The
// pgx implementation lives in internal/repositories; tests use an
// in-memory fake. Not-found conditions surface as ledger.ErrNotFound,
// serialization failures as ledger.ErrConflict.
type Store interface {
	// InTx runs fn against a store bound to a single database
	// transaction. The transaction commits when fn returns nil and rolls
	// back otherwise; partial writes never survive.
	InTx(ctx context.Context, fn func(Store) error) error

	GetRental(ctx context.Context, id int) (*models.Rental, error)
	UpdateRentalStatus(ctx context.Context, id int, status models.RentalStatus) error
	ListRentals(ctx context.Context) ([]models.Rental, error)

	GetPeriod(ctx context.Context, id int) (*models.MonthlyPeriod, error)
	GetPeriodsByRental(ctx context.Context, rentalID int) ([]models.MonthlyPeriod, error)
	InsertPeriod(ctx context.Context, p *models.MonthlyPeriod) error
	UpdatePeriod(ctx context.Context, p *models.MonthlyPeriod) error
	DeletePeriod(ctx context.Context, id int) error
	// UpdatePeriodBalance writes the money-bearing fields of a period:
	// amount paid, derived status and the completing payment date.
	UpdatePeriodBalance(ctx context.Context, p *models.MonthlyPeriod) error
	PeriodHasPayments(ctx context.Context, periodID int) (bool, error)
	RentalHasPayments(ctx context.Context, rentalID int) (bool, error)

	GetPayment(ctx context.Context, id int) (*models.Payment, error)
	InsertPayment(ctx context.Context, pay *models.Payment) error
	UpdatePaymentStatus(ctx context.Context, id int, status models.PaymentStatus) error

	GetDeposit(ctx context.Context, id int) (*models.Deposit, error)
	GetDepositByRental(ctx context.Context, rentalID int) (*models.Deposit, error)
	UpdateDepositBalance(ctx context.Context, id int, balance int64) error

	InsertAnnulment(ctx context.Context, a *models.PaymentAnnulment) error
	InsertCancellation(ctx context.Context, c *models.RentalCancellation) error
}
