package config

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Labels and relationship types end up inside Cypher statements and CSV headers
var graphIdentifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("graphidentifier", func(fl validator.FieldLevel) bool {
		return IsGraphIdentifier(fl.Field().String())
	})

	return v
}

func IsGraphIdentifier(value string) bool {
	return graphIdentifierRegex.MatchString(value)
}
