package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/avoronova/bankledger/internal/logger"
	"github.com/avoronova/bankledger/internal/services"
)

// UnitOfWork binds the three repositories to a single database transaction
// per scope. One call to Do is one physical transaction; the handle is
// released exactly once on every exit path, including panics.
type UnitOfWork struct {
	db *sqlx.DB
}

// NewUnitOfWork creates a UnitOfWork over the shared connection pool.
func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do begins a transaction, hands transaction-bound repositories to fn, and
// commits when fn returns nil. An error or panic from fn rolls back; the
// panic is re-raised after the transaction is released.
func (u *UnitOfWork) Do(ctx context.Context, fn func(r services.Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		// fn panicked, release before re-raising
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.Errorw("rollback after panic failed", "error", rbErr)
		}
	}()

	repos := services.Repositories{
		Clients:      NewClientRepository(tx),
		Accounts:     NewAccountRepository(tx),
		Transactions: NewTransactionRepository(tx),
	}

	if err := fn(repos); err != nil {
		done = true
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.Errorw("rollback failed", "error", rbErr)
		}
		return err
	}

	done = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
