package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/avoronova/bankledger/internal/models"
)

// ClientRepository defines storage operations for clients.
type ClientRepository interface {
	// Add stores a new client, assigning an id if absent.
	// A duplicate login surfaces as models.ErrLoginTaken.
	Add(ctx context.Context, client *models.Client) error
	// GetByID returns the client or (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	// GetByLogin returns the client or (nil, nil) when absent.
	GetByLogin(ctx context.Context, login string) (*models.Client, error)
	// Update overwrites the client's login and password digest.
	Update(ctx context.Context, client *models.Client) error
}

// AccountRepository defines storage operations for accounts.
type AccountRepository interface {
	// Add stores a new account and sets its store-assigned id.
	Add(ctx context.Context, account *models.Account) error
	// GetByID returns the account or (nil, nil) when absent.
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	// GetByClientID returns the client's accounts ordered by id.
	GetByClientID(ctx context.Context, clientID uuid.UUID) ([]models.Account, error)
	// Update overwrites the account balance, last writer wins within the transaction.
	Update(ctx context.Context, account *models.Account) error
}

// TransactionRepository defines storage operations for the append-only transaction log.
type TransactionRepository interface {
	// Add stores a new transaction, assigning its id and, when zero, its timestamp.
	Add(ctx context.Context, txn *models.Transaction) error
	// GetByAccountID returns the account's transactions ordered by timestamp ascending.
	GetByAccountID(ctx context.Context, accountID int64) ([]models.Transaction, error)
}

// Repositories bundles repository handles bound to one open transaction.
type Repositories struct {
	Clients      ClientRepository
	Accounts     AccountRepository
	Transactions TransactionRepository
}

// UnitOfWork runs a closure within a single atomic transaction. The closure
// receives repository handles bound to that transaction; returning nil
// commits, returning an error or panicking rolls back. The transaction
// handle never escapes the closure, so scopes cannot nest or be reused.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repositories) error) error
}
