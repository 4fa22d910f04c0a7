package repositories

import (
	"context"
	"fmt"

	"avalom-backend/internal/models"
)

func (s *Store) GetRental(ctx context.Context, id int) (*models.Rental, error) {
	query := `
		SELECT id, property_id, monthly_amount, start_date, end_date, status, created_at
		FROM rentals
		WHERE id = $1
	`

	rental := &models.Rental{}
	err := s.q.QueryRow(ctx, query, id).Scan(
		&rental.ID,
		&rental.PropertyID,
		&rental.MonthlyAmount,
		&rental.StartDate,
		&rental.EndDate,
		&rental.Status,
		&rental.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "rental", id)
	}
	return rental, nil
}

func (s *Store) ListRentals(ctx context.Context) ([]models.Rental, error) {
	query := `
		SELECT id, property_id, monthly_amount, start_date, end_date, status, created_at
		FROM rentals
		ORDER BY start_date DESC, id DESC
	`

	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []models.Rental
	for rows.Next() {
		var r models.Rental
		err := rows.Scan(
			&r.ID,
			&r.PropertyID,
			&r.MonthlyAmount,
			&r.StartDate,
			&r.EndDate,
			&r.Status,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, r)
	}
	return rentals, rows.Err()
}

func (s *Store) UpdateRentalStatus(ctx context.Context, id int, status models.RentalStatus) error {
	tag, err := s.q.Exec(ctx, `UPDATE rentals SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update rental %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundTag("rental", id)
	}
	return nil
}

func (s *Store) RentalHasPayments(ctx context.Context, rentalID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM payments p
			JOIN monthly_periods mp ON p.period_id = mp.id
			WHERE mp.rental_id = $1
		)
	`

	var has bool
	if err := s.q.QueryRow(ctx, query, rentalID).Scan(&has); err != nil {
		return false, err
	}
	return has, nil
}

func (s *Store) InsertCancellation(ctx context.Context, c *models.RentalCancellation) error {
	query := `
		INSERT INTO rental_cancellations (rental_id, reason, refund_amount, penalty_amount, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.q.QueryRow(ctx, query,
		c.RentalID,
		c.Reason,
		c.RefundAmount,
		c.PenaltyAmount,
		c.Date,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cancellation for rental %d: %w", c.RentalID, err)
	}
	return nil
}
