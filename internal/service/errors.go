package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/clothing_shop/internal/repo"
)

var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// notFound maps a missing row to ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if repo.IsNotFound(err) {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	return err
}
