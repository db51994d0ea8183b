package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/avoronova/bankledger/internal/logger"
	"github.com/avoronova/bankledger/internal/models"
)

// KafkaWriter defines a Kafka writer abstraction for transaction events.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AccountService performs balance mutations and queries. Every write runs in
// one Unit-of-Work scope so the balance and the transaction log change
// together or not at all.
type AccountService struct {
	uow          UnitOfWork
	accounts     AccountRepository     // connection-bound, for reads outside a scope
	transactions TransactionRepository // connection-bound, for reads outside a scope
	kafkaWriter  KafkaWriter
}

// NewAccountService creates a new AccountService. kafkaWriter may be nil,
// in which case transaction events are not published.
func NewAccountService(
	uow UnitOfWork,
	accounts AccountRepository,
	transactions TransactionRepository,
	kafkaWriter KafkaWriter,
) *AccountService {
	return &AccountService{
		uow:          uow,
		accounts:     accounts,
		transactions: transactions,
		kafkaWriter:  kafkaWriter,
	}
}

// Deposit adds amount to the account balance and appends a deposit entry to
// the transaction log, atomically.
func (s *AccountService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	var txn *models.Transaction
	err := s.uow.Do(ctx, func(r Repositories) error {
		account, err := r.Accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return models.ErrAccountNotFound
		}

		account.Balance = account.Balance.Add(amount)
		if err := r.Accounts.Update(ctx, account); err != nil {
			return err
		}

		txn = &models.Transaction{
			AccountID: accountID,
			Amount:    amount,
			Type:      models.TransactionDeposit,
		}
		return r.Transactions.Add(ctx, txn)
	})
	if err != nil {
		logger.Log.Errorw("deposit failed", "account_id", accountID, "amount", amount, "error", err)
		return nil, err
	}

	s.publishTransaction(ctx, *txn)
	return txn, nil
}

// Withdraw subtracts amount from the account balance and appends a withdraw
// entry to the transaction log, atomically. The balance never goes negative.
func (s *AccountService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	var txn *models.Transaction
	err := s.uow.Do(ctx, func(r Repositories) error {
		account, err := r.Accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return models.ErrAccountNotFound
		}
		if account.Balance.LessThan(amount) {
			return models.ErrInsufficientFunds
		}

		account.Balance = account.Balance.Sub(amount)
		if err := r.Accounts.Update(ctx, account); err != nil {
			return err
		}

		txn = &models.Transaction{
			AccountID: accountID,
			Amount:    amount,
			Type:      models.TransactionWithdraw,
		}
		return r.Transactions.Add(ctx, txn)
	})
	if err != nil {
		logger.Log.Errorw("withdraw failed", "account_id", accountID, "amount", amount, "error", err)
		return nil, err
	}

	s.publishTransaction(ctx, *txn)
	return txn, nil
}

// GetBalance returns the current account balance from a single consistent read.
func (s *AccountService) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		logger.Log.Errorw("failed to get account", "account_id", accountID, "error", err)
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, models.ErrAccountNotFound
	}
	return account.Balance, nil
}

// GetTransactionHistory returns the account's transactions ordered by
// timestamp ascending. An account with no transactions yields an empty slice.
func (s *AccountService) GetTransactionHistory(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	txns, err := s.transactions.GetByAccountID(ctx, accountID)
	if err != nil {
		logger.Log.Errorw("failed to get transaction history", "account_id", accountID, "error", err)
		return nil, err
	}
	return txns, nil
}

// GetClientAccounts returns all accounts owned by the client, ordered by id.
func (s *AccountService) GetClientAccounts(ctx context.Context, clientID uuid.UUID) ([]models.Account, error) {
	accounts, err := s.accounts.GetByClientID(ctx, clientID)
	if err != nil {
		logger.Log.Errorw("failed to get client accounts", "client_id", clientID, "error", err)
		return nil, err
	}
	return accounts, nil
}

// publishTransaction publishes a committed transaction to Kafka.
// Publishing is fire-and-forget: the ledger row is the source of truth and
// publish failures are only logged.
func (s *AccountService) publishTransaction(ctx context.Context, txn models.Transaction) {
	if s.kafkaWriter == nil {
		return
	}

	data, err := json.Marshal(txn)
	if err != nil {
		logger.Log.Errorw("failed to marshal transaction event", "transaction_id", txn.ID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(txn.ID, 10)),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish transaction event", "transaction_id", txn.ID, "error", err)
		return
	}
	logger.Log.Infow("transaction event published", "transaction_id", txn.ID, "type", txn.Type, "amount", txn.Amount)
}
