package internal

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var categoryPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return categoryPattern.MatchString(fl.Field().String())
	})

	return v
}

func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err != nil {
		return err
	}
	return nil
}
