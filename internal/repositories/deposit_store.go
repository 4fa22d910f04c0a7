package repositories

import (
	"context"
	"fmt"

	"avalom-backend/internal/models"
)

func (s *Store) GetDeposit(ctx context.Context, id int) (*models.Deposit, error) {
	query := `SELECT id, rental_id, balance, created_at FROM deposits WHERE id = $1`

	deposit := &models.Deposit{}
	err := s.q.QueryRow(ctx, query, id).Scan(
		&deposit.ID,
		&deposit.RentalID,
		&deposit.Balance,
		&deposit.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "deposit", id)
	}
	return deposit, nil
}

func (s *Store) GetDepositByRental(ctx context.Context, rentalID int) (*models.Deposit, error) {
	query := `SELECT id, rental_id, balance, created_at FROM deposits WHERE rental_id = $1`

	deposit := &models.Deposit{}
	err := s.q.QueryRow(ctx, query, rentalID).Scan(
		&deposit.ID,
		&deposit.RentalID,
		&deposit.Balance,
		&deposit.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "deposit for rental", rentalID)
	}
	return deposit, nil
}

func (s *Store) UpdateDepositBalance(ctx context.Context, id int, balance int64) error {
	tag, err := s.q.Exec(ctx, `UPDATE deposits SET balance = $1 WHERE id = $2`, balance, id)
	if err != nil {
		return fmt.Errorf("update deposit %d balance: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundTag("deposit", id)
	}
	return nil
}
