// Package validator wraps go-playground struct validation for request payloads.
package validator

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Struct validates a request struct against its `validate` tags.
func (v *Validator) Struct(i interface{}) error {
	return v.validate.Struct(i)
}
