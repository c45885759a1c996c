// Package service holds the booking engine: the Auth Manager, the doctor
// catalog, the booking lifecycle and invoice lookup. Services never log;
// every failure is returned to the caller, with store failures reachable as
// *kvstore.StoreError through errors.As.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/doctor-booking/internal/repository"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = repository.ErrNotFound
	ErrSlotUnavailable    = errors.New("slot no longer available")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrSignOut            = errors.New("sign out failed")
	ErrNoSession          = errors.New("no active session")
)

// ValidationError reports caller input that was rejected before any state
// was touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

