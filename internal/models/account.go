package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a client's account row.
// Balance is an exact decimal and changes only through logged transactions.
type Account struct {
	ID       int64           `json:"id" db:"id"`               // Store-assigned, monotonic
	ClientID uuid.UUID       `json:"client_id" db:"client_id"` // Owning client
	Balance  decimal.Decimal `json:"balance" db:"balance"`     // Never negative at rest
}
