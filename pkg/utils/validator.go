package utils

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("user_role", validateUserRole); err != nil {
		return
	}
	if err := validate.RegisterValidation("future_date", validateFutureDate); err != nil {
		return
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateUserRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	validRoles := []string{"user", "employer", "admin"}

	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

func validateFutureDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return date.After(time.Now())
}

func IsValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	return re.MatchString(email)
}
