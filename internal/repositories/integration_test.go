package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/avoronova/bankledger/internal/models"
	"github.com/avoronova/bankledger/internal/services"
)

func setupPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "secret", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/testdb?sslmode=disable", host, port.Port())
	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestPostgres_DepositWithdrawRoundTrip(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	clients := NewClientRepository(db)
	accounts := NewAccountRepository(db)
	transactions := NewTransactionRepository(db)
	uow := NewUnitOfWork(db)

	client := &models.Client{Login: "alice1", PasswordHash: []byte("digest")}
	require.NoError(t, clients.Add(ctx, client))

	account := &models.Account{ClientID: client.ID, Balance: decimal.Zero}
	require.NoError(t, accounts.Add(ctx, account))
	require.NotZero(t, account.ID)

	mutate := func(amount decimal.Decimal, txnType models.TransactionType) error {
		return uow.Do(ctx, func(r services.Repositories) error {
			got, err := r.Accounts.GetByID(ctx, account.ID)
			if err != nil {
				return err
			}
			if txnType == models.TransactionDeposit {
				got.Balance = got.Balance.Add(amount)
			} else {
				got.Balance = got.Balance.Sub(amount)
			}
			if err := r.Accounts.Update(ctx, got); err != nil {
				return err
			}
			return r.Transactions.Add(ctx, &models.Transaction{
				AccountID: account.ID,
				Amount:    amount,
				Type:      txnType,
			})
		})
	}

	require.NoError(t, mutate(decimal.RequireFromString("100.00"), models.TransactionDeposit))
	require.NoError(t, mutate(decimal.RequireFromString("40.00"), models.TransactionWithdraw))

	got, err := accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("60.00")))

	txns, err := transactions.GetByAccountID(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, models.TransactionDeposit, txns[0].Type)
	assert.Equal(t, models.TransactionWithdraw, txns[1].Type)
}

func TestPostgres_LoginUniqueConstraint(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	clients := NewClientRepository(db)
	require.NoError(t, clients.Add(ctx, &models.Client{Login: "alice1", PasswordHash: []byte("digest")}))

	err := clients.Add(ctx, &models.Client{Login: "alice1", PasswordHash: []byte("other")})
	assert.ErrorIs(t, err, models.ErrLoginTaken)
}

func TestPostgres_RollbackDiscardsWrites(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	clients := NewClientRepository(db)
	accounts := NewAccountRepository(db)
	transactions := NewTransactionRepository(db)
	uow := NewUnitOfWork(db)

	client := &models.Client{Login: "bobby1", PasswordHash: []byte("digest")}
	require.NoError(t, clients.Add(ctx, client))

	account := &models.Account{ClientID: client.ID, Balance: decimal.RequireFromString("50.00")}
	require.NoError(t, accounts.Add(ctx, account))

	boom := fmt.Errorf("boom")
	err := uow.Do(ctx, func(r services.Repositories) error {
		got, err := r.Accounts.GetByID(ctx, account.ID)
		if err != nil {
			return err
		}
		got.Balance = decimal.Zero
		if err := r.Accounts.Update(ctx, got); err != nil {
			return err
		}
		if err := r.Transactions.Add(ctx, &models.Transaction{
			AccountID: account.ID,
			Amount:    decimal.RequireFromString("50.00"),
			Type:      models.TransactionWithdraw,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("50.00")))

	txns, err := transactions.GetByAccountID(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)
}
