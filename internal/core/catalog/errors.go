// Package catalog defines domain-specific errors
package catalog

import "errors"

// Catalog errors
var (
	ErrInvalidEntryName = errors.New("invalid component name")
	ErrDuplicateEntry   = errors.New("duplicate component name")
	ErrUnknownCategory  = errors.New("unknown component category")
	ErrUnknownIcon      = errors.New("unknown component icon")
	ErrUnknownKind      = errors.New("unknown component kind")
	ErrInvalidHandleID  = errors.New("invalid handle ID")
	ErrDuplicateHandle  = errors.New("duplicate handle ID")
	ErrMissingName      = errors.New("default config must contain a string name")
	ErrEmptyCatalog     = errors.New("catalog has no components")
)
