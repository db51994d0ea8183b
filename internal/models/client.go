package models

import (
	"github.com/google/uuid"
)

// Client represents a registered client of the bank.
type Client struct {
	ID           uuid.UUID `json:"id" db:"id"`            // Primary key, assigned at creation
	Login        string    `json:"login" db:"login"`      // Unique login, case-sensitive
	PasswordHash []byte    `json:"-" db:"password_hash"`  // bcrypt digest, never serialized
}
