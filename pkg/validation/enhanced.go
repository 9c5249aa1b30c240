package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// maxIDLength bounds node and connection identifiers
const maxIDLength = 128

var (
	// Validate is the main validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	Validate.RegisterValidation("node_id", validateIdentifier)
	Validate.RegisterValidation("conn_id", validateIdentifier)
	Validate.RegisterValidation("handle_role", validateHandleRole)

	// Report fields by their JSON names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateWithPlayground validates using go-playground/validator
func ValidateWithPlayground(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}
	return formatValidationErrors(err)
}

// formatValidationErrors converts validator errors to our custom format
func formatValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			out = append(out, ValidationError{
				Field:   fieldPath(fe),
				Value:   fe.Value(),
				Message: getErrorMessage(fe),
			})
		}
	}
	return out
}

// fieldPath drops the root struct name: "Document.nodes[0].id" -> "nodes[0].id"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

// getErrorMessage returns a human-readable error message
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "hostname_port":
		return "must be a host:port address"
	case "node_id":
		return "must be a valid node identifier (no whitespace, at most 128 characters)"
	case "conn_id":
		return "must be a valid connection identifier (no whitespace, at most 128 characters)"
	case "handle_role":
		return "must be input or output"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

// validateIdentifier accepts the ids the editor mints (node-<uuid>) and any
// other opaque token an imported file may carry
func validateIdentifier(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if id == "" || len(id) > maxIDLength {
		return false
	}
	return strings.IndexFunc(id, unicode.IsSpace) < 0
}

func validateHandleRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "input", "output":
		return true
	}
	return false
}

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	MaxErrors int `json:"max_errors"`
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxErrors: 10,
	}
}

// ValidateWithConfig validates with specific configuration
func ValidateWithConfig(s interface{}, config *ValidationConfig) error {
	if config == nil {
		config = DefaultValidationConfig()
	}

	err := ValidateWithPlayground(s)
	var fieldErrors ValidationErrors
	if errors.As(err, &fieldErrors) && config.MaxErrors > 0 && len(fieldErrors) > config.MaxErrors {
		return fieldErrors[:config.MaxErrors]
	}
	return err
}

type errorResponse struct {
	Errors []ValidationError `json:"errors"`
	Count  int               `json:"count"`
}

// MarshalValidationErrors marshals validation errors to JSON
func MarshalValidationErrors(errs ValidationErrors) ([]byte, error) {
	return json.Marshal(errorResponse{Errors: errs, Count: len(errs)})
}

// UnmarshalValidationErrors unmarshals validation errors from JSON
func UnmarshalValidationErrors(data []byte) (ValidationErrors, error) {
	var response errorResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	return ValidationErrors(response.Errors), nil
}
