package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

const codeInvalidInput = "INVALID_INPUT"

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("crmphone", func(fl validator.FieldLevel) bool {
		return model.ValidPhone(fl.Field().String())
	})
	return v
}

// validationError turns the first validator failure into a domain error.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return model.NewValidationError(codeInvalidInput, "%s is required", fe.Field())
	case "email":
		return model.NewValidationError(codeInvalidInput, "Enter a valid email address")
	case "max":
		return model.NewValidationError(codeInvalidInput, "%s must be at most %s characters", fe.Field(), fe.Param())
	case "crmphone":
		return model.ErrInvalidPhone
	case "gte":
		if fe.Field() == "Stock" {
			return model.ErrInvalidStock
		}
	}
	return model.NewValidationError(codeInvalidInput, "%s is invalid", fe.Field())
}
