package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
)

// maxBodyBytes caps request bodies decoded by the middleware
const maxBodyBytes = 4 << 20

type payloadKey struct{}

// Middleware provides validation middleware for HTTP handlers
type Middleware struct {
	config *ValidationConfig
}

// NewMiddleware creates a new validation middleware
func NewMiddleware(config *ValidationConfig) *Middleware {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &Middleware{config: config}
}

// ValidateJSON decodes the request body into a new value of structType's
// type, validates it and hands a pointer to it to next through the request
// context. See Payload.
func (m *Middleware) ValidateJSON(structType interface{}) func(http.Handler) http.Handler {
	typ := reflect.TypeOf(structType)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			val := reflect.New(typ).Interface()

			decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err := decoder.Decode(val); err != nil {
				m.writeErrorResponse(w, http.StatusBadRequest,
					ValidationErrors{{
						Field:   "request_body",
						Message: fmt.Sprintf("invalid JSON: %v", err),
					}})
				return
			}

			if err := ValidateWithConfig(val, m.config); err != nil {
				if validationErrors, ok := err.(ValidationErrors); ok {
					m.writeErrorResponse(w, http.StatusBadRequest, validationErrors)
					return
				}
				m.writeErrorResponse(w, http.StatusInternalServerError,
					ValidationErrors{{
						Field:   "validation",
						Message: "validation failed",
					}})
				return
			}

			ctx := context.WithValue(r.Context(), payloadKey{}, val)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Payload returns the value ValidateJSON decoded for this request, a pointer
// to the registered struct type, or nil
func Payload(r *http.Request) interface{} {
	return r.Context().Value(payloadKey{})
}

// writeErrorResponse writes validation errors as JSON response
func (m *Middleware) writeErrorResponse(w http.ResponseWriter, statusCode int, errs ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	data, err := MarshalValidationErrors(errs)
	if err != nil {
		w.Write([]byte(`{"error":"validation failed","message":"internal validation error"}`))
		return
	}
	w.Write(data)
}
