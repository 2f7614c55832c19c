// Package validate wraps go-playground/validator and converts its failures
// into the application's validation error, phrased so the user knows which
// field broke which rule.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"boozetrack/apperr"
)

var v = validator.New()

// Struct validates s against its `validate` tags and returns a single
// validation error describing every failed field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation("invalid input: %v", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", strings.ToLower(fe.Field()), tagMessage(fe)))
	}
	return apperr.Validation("%s", strings.Join(msgs, "; "))
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return "is invalid"
	}
}
