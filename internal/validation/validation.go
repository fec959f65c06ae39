// Package validation builds the struct validator shared by the rule file
// and settings loaders.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator that names fields by their mapstructure key, so
// errors mention "rules.file" or "filePattern" rather than Go field names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(KeyName)
	return v
}

// KeyName returns the mapstructure key of f, or its Go name when it has
// none.
func KeyName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
