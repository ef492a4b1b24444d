package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range errs {
		errors[err.Namespace()] = err.Tag()
	}
	return errors
}

// IsClock reports whether s is a wall-clock time of day in HH:MM form.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}
