// Package gesture defines gesture resolution errors
package gesture

import "errors"

var (
	ErrNoGesture          = errors.New("no gesture in progress")
	ErrIncompatibleHandle = errors.New("handles have the same role")
	ErrDroppedOutside     = errors.New("dropped outside the canvas")
	ErrCancelled          = errors.New("gesture cancelled")
)
