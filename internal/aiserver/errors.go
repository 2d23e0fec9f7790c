package aiserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// LLMError indicates the model call behind an endpoint failed
type LLMError struct {
	Op    string
	Cause error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("%s: LLM request failed: %v", e.Op, e.Cause)
}

func (e *LLMError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var llmErr *LLMError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &llmErr):
		return http.StatusBadGateway
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// extractValidationErrors returns the first validation failure as a message.
func extractValidationErrors(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		ve := validationErrs[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
