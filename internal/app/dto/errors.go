package dto

import (
	"errors"
	"fmt"
)

// Remote call errors
var (
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrMissingBackendURL   = errors.New("pipeline backend URL is not configured")
	ErrMissingPlan         = errors.New("backend returned a response without an execution plan")
	ErrRemoteCallFailed    = errors.New("remote call failed")
	ErrImportFormatInvalid = errors.New("not a valid pipeline configuration")
)

// RemoteError describes a failed call to the execute or optimize service
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: request failed with status %d: %s", e.Op, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": " + ErrRemoteCallFailed.Error()
	}
}

// Unwrap exposes the transport cause
func (e *RemoteError) Unwrap() error { return e.Err }

// Is makes every RemoteError match ErrRemoteCallFailed
func (e *RemoteError) Is(target error) bool { return target == ErrRemoteCallFailed }
