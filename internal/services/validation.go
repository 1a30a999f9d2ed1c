package services

import (
	"errors"
	"fmt"

	"athlete-connect-backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest holds the registration form fields
type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,contains=@"`
	Password        string `json:"password" validate:"min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

// ValidateRegister checks the registration constraints and reports the first failure
func ValidateRegister(req RegisterRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", models.ErrValidationFailed, err)
	}
	return fmt.Errorf("%w: %s", models.ErrValidationFailed, registerReason(verrs[0]))
}

func registerReason(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "name is required"
	case "Email":
		if fe.Tag() == "required" {
			return "email is required"
		}
		return "invalid email address"
	case "Password":
		return "password must be at least 6 characters"
	case "ConfirmPassword":
		return "passwords do not match"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
