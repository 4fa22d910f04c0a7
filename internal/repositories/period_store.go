package repositories

import (
	"context"
	"fmt"

	"avalom-backend/internal/models"
)

const periodColumns = `id, rental_id, label, start_date, end_date, total_due, amount_paid, payment_date, status, created_at`

func scanPeriod(row interface{ Scan(dest ...any) error }, p *models.MonthlyPeriod) error {
	return row.Scan(
		&p.ID,
		&p.RentalID,
		&p.Label,
		&p.StartDate,
		&p.EndDate,
		&p.TotalDue,
		&p.AmountPaid,
		&p.PaymentDate,
		&p.Status,
		&p.CreatedAt,
	)
}

func (s *Store) GetPeriod(ctx context.Context, id int) (*models.MonthlyPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM monthly_periods WHERE id = $1`

	period := &models.MonthlyPeriod{}
	if err := scanPeriod(s.q.QueryRow(ctx, query, id), period); err != nil {
		return nil, notFound(err, "period", id)
	}
	return period, nil
}

func (s *Store) GetPeriodsByRental(ctx context.Context, rentalID int) ([]models.MonthlyPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM monthly_periods
		WHERE rental_id = $1
		ORDER BY start_date ASC, id ASC
	`

	rows, err := s.q.Query(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []models.MonthlyPeriod
	for rows.Next() {
		var p models.MonthlyPeriod
		if err := scanPeriod(rows, &p); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (s *Store) InsertPeriod(ctx context.Context, p *models.MonthlyPeriod) error {
	query := `
		INSERT INTO monthly_periods (rental_id, label, start_date, end_date, total_due, amount_paid, payment_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := s.q.QueryRow(ctx, query,
		p.RentalID,
		p.Label,
		p.StartDate,
		p.EndDate,
		p.TotalDue,
		p.AmountPaid,
		p.PaymentDate,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert period %q for rental %d: %w", p.Label, p.RentalID, err)
	}
	return nil
}

func (s *Store) UpdatePeriod(ctx context.Context, p *models.MonthlyPeriod) error {
	query := `
		UPDATE monthly_periods
		SET label = $1, start_date = $2, end_date = $3, total_due = $4
		WHERE id = $5
	`

	tag, err := s.q.Exec(ctx, query, p.Label, p.StartDate, p.EndDate, p.TotalDue, p.ID)
	if err != nil {
		return fmt.Errorf("update period %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundTag("period", p.ID)
	}
	return nil
}

func (s *Store) UpdatePeriodBalance(ctx context.Context, p *models.MonthlyPeriod) error {
	query := `
		UPDATE monthly_periods
		SET amount_paid = $1, payment_date = $2, status = $3
		WHERE id = $4
	`

	tag, err := s.q.Exec(ctx, query, p.AmountPaid, p.PaymentDate, p.Status, p.ID)
	if err != nil {
		return fmt.Errorf("update period %d balance: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundTag("period", p.ID)
	}
	return nil
}

func (s *Store) DeletePeriod(ctx context.Context, id int) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM monthly_periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete period %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundTag("period", id)
	}
	return nil
}

func (s *Store) PeriodHasPayments(ctx context.Context, periodID int) (bool, error) {
	var has bool
	err := s.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE period_id = $1)`,
		periodID,
	).Scan(&has)
	if err != nil {
		return false, err
	}
	return has, nil
}
