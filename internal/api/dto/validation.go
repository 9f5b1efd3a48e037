package dto

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/account-service/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("containsdigit", func(fl validator.FieldLevel) bool {
		return strings.ContainsFunc(fl.Field().String(), unicode.IsDigit)
	})
	return v
}

// Validate checks the signup payload and surfaces the first failing rule's
// message.
func (r SignupRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apperrors.NewValidationError("invalid payload")
	}
	return apperrors.NewValidationError(signupMessage(errs[0]))
}

func signupMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "FullName":
		return "Full name is required"
	case "Email":
		return "Please enter a valid email"
	case "Password":
		if fe.Tag() == "containsdigit" {
			return "Password must contain a number"
		}
		return "Password must be at least 6 characters"
	}
	return "invalid payload"
}
