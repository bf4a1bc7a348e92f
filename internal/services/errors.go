package services

import (
	"errors"
	"fmt"

	"github.com/sjperalta/salesdesk-api/internal/models"
	"github.com/sjperalta/salesdesk-api/internal/repository"
)

// Common service errors. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrNotFound           = errors.New("record not found")
	ErrValidation         = errors.New("validation failed")
	ErrForeignKeyNotFound = errors.New("related record not found")
	ErrDuplicate          = errors.New("duplicate record")
)

// classify rewraps repository and payload errors as service errors.
// Anything unrecognised is returned unchanged and surfaces as a 500.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return fmt.Errorf("%w: %v", ErrForeignKeyNotFound, err)
	case errors.Is(err, repository.ErrDuplicateKey):
		return ErrDuplicate
	case errors.Is(err, models.ErrInvalidPayload), errors.Is(err, repository.ErrUnsupportedFilter),
		errors.Is(err, repository.ErrInvalidValue):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}
