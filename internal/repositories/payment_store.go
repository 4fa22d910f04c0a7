package repositories

import (
	"context"
	"fmt"

	"avalom-backend/internal/models"
)

func (s *Store) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	query := `
		SELECT id, period_id, deposit_id, amount, date, method,
		       COALESCE(bank, ''), COALESCE(account, ''), COALESCE(reference, ''),
		       COALESCE(description, ''), status, created_at
		FROM payments
		WHERE id = $1
	`

	payment := &models.Payment{}
	err := s.q.QueryRow(ctx, query, id).Scan(
		&payment.ID,
		&payment.PeriodID,
		&payment.DepositID,
		&payment.Amount,
		&payment.Date,
		&payment.Method,
		&payment.Bank,
		&payment.Account,
		&payment.Reference,
		&payment.Description,
		&payment.Status,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "payment", id)
	}
	return payment, nil
}

func (s *Store) InsertPayment(ctx context.Context, pay *models.Payment) error {
	query := `
		INSERT INTO payments (period_id, deposit_id, amount, date, method, bank, account, reference, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := s.q.QueryRow(ctx, query,
		pay.PeriodID,
		pay.DepositID,
		pay.Amount,
		pay.Date,
		pay.Method,
		pay.Bank,
		pay.Account,
		pay.Reference,
		pay.Description,
		pay.Status,
	).Scan(&pay.ID, &pay.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	tag, err := s.q.Exec(ctx, `UPDATE payments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update payment %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundTag("payment", id)
	}
	return nil
}

func (s *Store) InsertAnnulment(ctx context.Context, a *models.PaymentAnnulment) error {
	query := `
		INSERT INTO payment_annulments (payment_id, reason, description, annulled_at, user_id, original_balance, resulting_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := s.q.QueryRow(ctx, query,
		a.PaymentID,
		a.Reason,
		a.Description,
		a.AnnulledAt,
		a.UserID,
		a.OriginalBalance,
		a.ResultingBalance,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert annulment for payment %d: %w", a.PaymentID, err)
	}
	return nil
}
