// Package graph defines domain-specific errors
package graph

import "errors"

// Domain errors - defined once, used everywhere
var (
	// Node errors
	ErrUnknownComponentType = errors.New("unknown component type")
	ErrNodeNotFound         = errors.New("node not found")
	ErrDuplicateNode        = errors.New("duplicate node ID")
	ErrMissingConfigName    = errors.New("node config must contain a string name")

	// Connection errors
	ErrConnectionNotFound    = errors.New("connection not found")
	ErrDuplicateConnection   = errors.New("duplicate connection ID")
	ErrInvalidHandle         = errors.New("invalid handle")
	ErrSelfConnection        = errors.New("a node cannot connect to itself")
	ErrInputAlreadyConnected = errors.New("input already connected")
	ErrDanglingConnection    = errors.New("connection references a missing node")
)
