package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/plata-app/plata-core/internal/apperrors"
)

// validate is a shared, threadsafe validator instance for all request DTOs.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request DTO against its struct tags and wraps failures in
// apperrors.ErrValidation so callers can branch on the error kind.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
