package services

import (
	"errors"
	"fmt"

	"github.com/ray-remotestate/restro-pos/models"
	"github.com/ray-remotestate/restro-pos/policy"
	"github.com/ray-remotestate/restro-pos/store"
)

var (
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("invalid credentials")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// fromStore translates store sentinels into service sentinels.
func fromStore(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func authorize(actor models.Actor, perm policy.Permission) error {
	if !policy.Allowed(actor.Role, perm) {
		return fmt.Errorf("%w: %s lacks %s", ErrForbidden, actor.Role, perm)
	}
	return nil
}
