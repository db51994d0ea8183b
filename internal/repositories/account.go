package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/avoronova/bankledger/internal/logger"
	"github.com/avoronova/bankledger/internal/models"
)

// AccountRepository stores accounts in Postgres.
type AccountRepository struct {
	db sqlx.ExtContext
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db sqlx.ExtContext) *AccountRepository {
	return &AccountRepository{db: db}
}

// Add stores a new account and sets its store-assigned id.
func (r *AccountRepository) Add(ctx context.Context, account *models.Account) error {
	const query = `
		INSERT INTO accounts (client_id, balance)
		VALUES ($1, $2)
		RETURNING id
	`

	err := sqlx.GetContext(ctx, r.db, &account.ID, query, account.ClientID, account.Balance)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{account.ClientID, account.Balance},
		"result", account.ID,
		"error", err,
	)

	return err
}

// GetByID returns the account with the given id, or (nil, nil) when absent.
// Inside a transaction the row is locked, so concurrent mutations of the
// same account serialize between the balance read and the balance write.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `
		SELECT id, client_id, balance
		FROM accounts
		WHERE id = $1
	`
	if _, inTx := r.db.(*sqlx.Tx); inTx {
		query += ` FOR UPDATE`
	}

	var account models.Account
	err := sqlx.GetContext(ctx, r.db, &account, query, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByClientID returns the client's accounts ordered by id.
func (r *AccountRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) ([]models.Account, error) {
	const query = `
		SELECT id, client_id, balance
		FROM accounts
		WHERE client_id = $1
		ORDER BY id
	`

	accounts := []models.Account{}
	err := sqlx.SelectContext(ctx, r.db, &accounts, query, clientID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{clientID},
		"result", len(accounts),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Update overwrites the account balance.
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	const query = `
		UPDATE accounts
		SET balance = $2
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, account.ID, account.Balance)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{account.ID, account.Balance},
		"result", rowsAffected,
		"error", err,
	)

	return err
}
