package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of balance mutation a transaction records.
type TransactionType string

// Supported transaction types
const (
	TransactionDeposit  TransactionType = "deposit"
	TransactionWithdraw TransactionType = "withdraw"
)

// Transaction represents one append-only ledger entry. Every committed
// balance change has exactly one matching transaction row, and the converse.
type Transaction struct {
	ID        int64           `json:"id" db:"id"`                 // Store-assigned
	AccountID int64           `json:"account_id" db:"account_id"` // Owning account
	Amount    decimal.Decimal `json:"amount" db:"amount"`         // Always positive
	Type      TransactionType `json:"type" db:"type"`             // deposit or withdraw
	Timestamp time.Time       `json:"timestamp" db:"created_at"`  // Assigned at creation
}
