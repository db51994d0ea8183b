package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/avoronova/bankledger/internal/logger"
	"github.com/avoronova/bankledger/internal/models"
)

// TransactionRepository stores the append-only transaction log in Postgres.
// Rows are never updated or deleted.
type TransactionRepository struct {
	db sqlx.ExtContext
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db sqlx.ExtContext) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Add appends a transaction, assigning its id and, when zero, its timestamp.
func (r *TransactionRepository) Add(ctx context.Context, txn *models.Transaction) error {
	const query = `
		INSERT INTO transactions (account_id, amount, type, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now().UTC()
	}

	err := sqlx.GetContext(ctx, r.db, &txn.ID, query, txn.AccountID, txn.Amount, txn.Type, txn.Timestamp)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{txn.AccountID, txn.Amount, txn.Type},
		"result", txn.ID,
		"error", err,
	)

	return err
}

// GetByAccountID returns the account's transactions ordered by timestamp
// ascending, id as a tiebreak for entries sharing a timestamp.
func (r *TransactionRepository) GetByAccountID(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	const query = `
		SELECT id, account_id, amount, type, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at, id
	`

	txns := []models.Transaction{}
	err := sqlx.SelectContext(ctx, r.db, &txns, query, accountID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{accountID},
		"result", len(txns),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return txns, nil
}
