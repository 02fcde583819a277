package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStatusConflict is returned when a status-guarded update finds the row in another status.
	ErrStatusConflict = errors.New("entity status changed concurrently")

	// ErrInsufficientFunds is returned when a guarded wallet debit would overdraw the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
