package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	sessionrepo "github.com/aasedek/Analytica-AI-Product-1/internal/adapters/repository/session"
	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
	"github.com/aasedek/Analytica-AI-Product-1/internal/app/editor"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/serialization"
)

// errorBody is the JSON shape of every failed request
type errorBody struct {
	Error        string               `json:"error"`
	Notification *editor.Notification `json:"notification,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeErr maps err to a status code and attaches the toast the editor
// would show for it
func writeErr(w http.ResponseWriter, err error) {
	n := editor.NotificationFor(err)
	writeJSON(w, statusFor(err), errorBody{Error: err.Error(), Notification: &n})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sessionrepo.ErrSessionNotFound),
		errors.Is(err, graph.ErrNodeNotFound),
		errors.Is(err, graph.ErrConnectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrMissingConfigName),
		errors.Is(err, editor.ErrUnknownEvent),
		errors.Is(err, dto.ErrInvalidInput),
		errors.Is(err, serialization.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, dto.ErrImportFormatInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dto.ErrMissingBackendURL),
		errors.Is(err, editor.ErrOptimizerUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, dto.ErrMissingPlan),
		errors.Is(err, dto.ErrRemoteCallFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
