package service

import (
	"errors"
	"fmt"
	"strings"

	"blogapi/internal/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// presence returns the rule for a required field: PUT and create need the
// field, PATCH only rejects it when supplied empty.
func presence(partial bool) validation.Rule {
	if partial {
		return validation.NilOrNotEmpty
	}
	return validation.Required
}

// toValidationError converts ozzo field errors into the domain taxonomy.
// Internal validator failures are returned wrapped, not as client errors.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		out := &domain.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
		for field, fe := range fieldErrs {
			out.Fields[field] = fe.Error()
		}
		return out
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return fmt.Errorf("validate request: %w", internal.InternalError())
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// trimmed trims a supplied string in place
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// invalidPK is the field message for a reference to a missing record.
func invalidPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}
