package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingMessage turns a gin binding error into the first violated rule,
// phrased for the client.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("missing required field %s", field)
		case "email":
			return fmt.Sprintf("%s must be a valid email", field)
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("invalid field %s", field)
	}
	return "Invalid JSON"
}
