package editor

import "errors"

// Session errors
var (
	ErrUnknownEvent         = errors.New("unknown editor event")
	ErrOptimizerUnavailable = errors.New("pipeline optimizer is not configured")
)
