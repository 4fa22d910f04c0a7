package repositories

import (
	"context"
	"errors"
	"fmt"

	"avalom-backend/internal/ledger"
	"avalom-backend/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every query
// method works identically inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL implementation of the ledger store contract.
type Store struct {
	pool *pgxpool.Pool
	q    querier
}

var _ services.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// InTx runs fn against a store bound to one serializable transaction.
// Serialization failures surface as ledger.ErrConflict so the processor
// can retry; every other failure rolls the transaction back unchanged.
func (s *Store) InTx(ctx context.Context, fn func(services.Store) error) error {
	if s.pool == nil {
		// Already bound to a transaction; run in the same one.
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{q: tx}); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// mapError translates driver-level failures into the ledger taxonomy.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure / deadlock_detected
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return fmt.Errorf("%v: %w", err, ledger.ErrConflict)
		}
	}
	return err
}

// notFound converts pgx.ErrNoRows into the ledger's ErrNotFound.
func notFound(err error, entity string, id int) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundTag(entity, id)
	}
	return err
}

// notFoundTag reports an absent row by entity name and id.
func notFoundTag(entity string, id int) error {
	return fmt.Errorf("%s %d: %w", entity, id, ledger.ErrNotFound)
}
