// Package service holds the catalog/inventory manager and the account and
// order ledger. Every mutation runs inside one Update cycle of the record
// store, so it sees a fresh snapshot and persists the whole result.
package service

import (
	"context"
	"errors"

	"swag-shop/internal/domain"
)

// Sentinel errors; the HTTP layer maps them to status codes.
var (
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrDuplicateUsername      = errors.New("username already taken")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrWrongPassword          = errors.New("current password is wrong")
	ErrWrongTemporaryPassword = errors.New("temporary password is wrong")
	ErrExpired                = errors.New("temporary password expired")
	ErrUserNotFound           = errors.New("user not found")
	ErrValidation             = errors.New("validation failed")
	ErrInsufficientStock      = errors.New("insufficient stock")
)

// SnapshotTx is the mutation-lock discipline the services rely on.
// repo.Locked implements it.
type SnapshotTx interface {
	View(ctx context.Context, fn func(s *domain.Snapshot) error) error
	Update(ctx context.Context, fn func(s *domain.Snapshot) error) error
}
