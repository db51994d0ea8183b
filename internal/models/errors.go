package models

import "errors"

// Domain errors. Validation errors are raised before any store access;
// the rest map one-to-one to business rule violations. Storage faults are
// wrapped and propagated unchanged, never replaced by a sentinel.
var (
	// ErrInvalidLogin is returned when a login is shorter than 6 characters.
	ErrInvalidLogin = errors.New("login must be at least 6 characters")
	// ErrInvalidPassword is returned when a password is shorter than 8 characters or contains whitespace.
	ErrInvalidPassword = errors.New("password must be at least 8 characters and contain no whitespace")
	// ErrInvalidAmount is returned when a deposit or withdrawal amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrClientNotFound is returned when the referenced client does not exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrAccountNotFound is returned when the referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrLoginTaken is returned when registering with a login that already exists.
	ErrLoginTaken = errors.New("login already taken")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidCredentials is returned when password verification fails.
	ErrInvalidCredentials = errors.New("invalid login or password")
)
