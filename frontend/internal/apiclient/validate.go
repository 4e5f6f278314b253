package apiclient

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	internal_errors "github.com/eduportal/portal/shared/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest rejects a payload locally, before any request is sent.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &internal_errors.ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: "failed " + fe.Tag() + " check",
		}
	}
	return &internal_errors.ValidationError{Message: err.Error()}
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return &internal_errors.ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}
