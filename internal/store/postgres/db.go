// Package postgres implements the store interfaces on PostgreSQL via pgx/v5.
package postgres

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/internal/store"
	"github.com/hearthledger/budget-backend/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool is the subset of *pgxpool.Pool the stores use. pgxmock pools satisfy
// it as well.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFn is a function that runs inside a transaction.
type TxFn func(tx pgx.Tx) error

// WithTx runs fn in a transaction, committing on success and rolling back
// when fn returns an error.
func WithTx(ctx context.Context, db DBPool, fn TxFn) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.GetLogger().Errorw("Failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

func notFound(entity string, id any) error {
	err := apperrors.NotFound(entity, id)
	err.Raw = store.ErrNotFound
	return err
}

func conflict(message, detail string) error {
	err := apperrors.NewConflictError(message, detail)
	err.Raw = store.ErrConflict
	return err
}
