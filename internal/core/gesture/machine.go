// Package gesture implements the drag-and-drop state machine of the editor
// canvas. A gesture begins on drag start, follows the pointer and resolves on
// drop into at most one graph mutation.
package gesture

import (
	"errors"

	"go.uber.org/zap"

	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
)

// State identifies the active gesture
type State string

const (
	StateIdle              State = "idle"
	StatePlacingNewNode    State = "placingNewNode"
	StateMovingNode        State = "movingNode"
	StateDrawingConnection State = "drawingConnection"
)

// Resolution tells what a drop did to the graph
type Resolution string

const (
	// Nothing was in flight
	ResolutionNone Resolution = "none"
	// The graph was mutated
	ResolutionApplied Resolution = "applied"
	// The gesture was discarded by the user
	ResolutionCancelled Resolution = "cancelled"
	// The graph refused the mutation; the gesture was discarded
	ResolutionRejected Resolution = "rejected"
)

// Mutator is the part of the graph model a gesture can change
type Mutator interface {
	AddNode(name string, position graph.Position) (string, error)
	MoveNode(id string, position graph.Position) error
	AddConnection(sourceID, sourceHandle, targetID, targetHandle string) (string, error)
}

// Anchor is one end of a connection being drawn
type Anchor struct {
	NodeID   string       `json:"nodeId"`
	HandleID string       `json:"handleId"`
	Role     catalog.Role `json:"role"`
}

// Pending describes the gesture in flight
type Pending struct {
	State     State          `json:"state"`
	Component string         `json:"component,omitempty"`
	NodeID    string         `json:"nodeId,omitempty"`
	Offset    graph.Position `json:"offset"`
	Origin    Anchor         `json:"origin"`
	Cursor    graph.Position `json:"cursor"`
}

// Outcome reports how a gesture ended
type Outcome struct {
	Gesture      State      `json:"gesture"`
	Resolution   Resolution `json:"resolution"`
	NodeID       string     `json:"nodeId,omitempty"`
	ConnectionID string     `json:"connectionId,omitempty"`
	Err          error      `json:"-"`
}

// Mutated reports whether the graph changed
func (o Outcome) Mutated() bool {
	return o.Resolution == ResolutionApplied
}

// Option configures a Machine
type Option func(*Machine)

// WithLogger sets the logger used for absorbed graph errors
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// Machine tracks the single active gesture of one editor session
// PRINCIPLES:
// - One gesture at a time: beginning a gesture replaces any other
// - Graph errors never escape a drop; they end up in Outcome.Err
// - Not safe for concurrent use
type Machine struct {
	model   Mutator
	logger  *zap.Logger
	pending Pending
}

// NewMachine creates an idle machine driving model
func NewMachine(model Mutator, opts ...Option) *Machine {
	m := &Machine{
		model:   model,
		logger:  zap.NewNop(),
		pending: Pending{State: StateIdle},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the active gesture
func (m *Machine) State() State {
	return m.pending.State
}

// Pending returns the in-flight gesture payload
func (m *Machine) Pending() Pending {
	return m.pending
}

// Connecting returns the origin and cursor of a connection being drawn
func (m *Machine) Connecting() (Anchor, graph.Position, bool) {
	if m.pending.State != StateDrawingConnection {
		return Anchor{}, graph.Position{}, false
	}
	return m.pending.Origin, m.pending.Cursor, true
}

// BeginPlacement starts dragging catalog component name onto the canvas
func (m *Machine) BeginPlacement(name string) {
	m.pending = Pending{State: StatePlacingNewNode, Component: name}
}

// BeginMove starts dragging an existing node whose top-left corner is at
// origin. The pointer offset from the corner is kept for the drop.
func (m *Machine) BeginMove(nodeID string, pointer, origin graph.Position) {
	m.pending = Pending{
		State:  StateMovingNode,
		NodeID: nodeID,
		Offset: pointer.Sub(origin),
	}
}

// BeginConnection starts drawing a connection from a handle
func (m *Machine) BeginConnection(nodeID, handleID string, role catalog.Role, pointer graph.Position) {
	m.pending = Pending{
		State:  StateDrawingConnection,
		Origin: Anchor{NodeID: nodeID, HandleID: handleID, Role: role},
		Cursor: pointer,
	}
}

// PointerMove follows the pointer while a connection is drawn.
// It reports whether the preview changed.
func (m *Machine) PointerMove(p graph.Position) bool {
	if m.pending.State != StateDrawingConnection {
		return false
	}
	m.pending.Cursor = p
	return true
}

// DropOnCanvas resolves the gesture at canvas position p
func (m *Machine) DropOnCanvas(p graph.Position) Outcome {
	pending := m.reset()
	out := Outcome{Gesture: pending.State}

	switch pending.State {
	case StatePlacingNewNode:
		id, err := m.model.AddNode(pending.Component, p)
		if err != nil {
			return m.reject(out, err)
		}
		out.Resolution = ResolutionApplied
		out.NodeID = id
	case StateMovingNode:
		if err := m.model.MoveNode(pending.NodeID, p.Sub(pending.Offset)); err != nil {
			out.NodeID = pending.NodeID
			return m.reject(out, err)
		}
		out.Resolution = ResolutionApplied
		out.NodeID = pending.NodeID
	case StateDrawingConnection:
		out.Resolution = ResolutionCancelled
		out.Err = ErrCancelled
	default:
		out.Resolution = ResolutionNone
		out.Err = ErrNoGesture
	}
	return out
}

// DropOnHandle resolves the gesture over a node handle at canvas position p.
// A connection is attempted only between opposite roles; the output end
// always becomes the source. Placement and move gestures treat the handle
// as plain canvas.
func (m *Machine) DropOnHandle(nodeID, handleID string, role catalog.Role, p graph.Position) Outcome {
	if m.pending.State != StateDrawingConnection {
		return m.DropOnCanvas(p)
	}

	pending := m.reset()
	out := Outcome{Gesture: pending.State}
	target := Anchor{NodeID: nodeID, HandleID: handleID, Role: role}
	origin := pending.Origin

	if target.Role != origin.Role.Opposite() {
		out.Resolution = ResolutionCancelled
		out.Err = ErrIncompatibleHandle
		return out
	}

	source, sink := origin, target
	if origin.Role == catalog.RoleInput {
		source, sink = target, origin
	}

	id, err := m.model.AddConnection(source.NodeID, source.HandleID, sink.NodeID, sink.HandleID)
	if err != nil {
		return m.reject(out, err)
	}
	out.Resolution = ResolutionApplied
	out.ConnectionID = id
	return out
}

// DropOutside discards the gesture when the pointer is released off canvas
func (m *Machine) DropOutside() Outcome {
	return m.cancel(ErrDroppedOutside)
}

// Cancel discards the gesture without touching the graph
func (m *Machine) Cancel() Outcome {
	return m.cancel(ErrCancelled)
}

func (m *Machine) cancel(cause error) Outcome {
	pending := m.reset()
	if pending.State == StateIdle {
		return Outcome{Gesture: StateIdle, Resolution: ResolutionNone, Err: ErrNoGesture}
	}
	return Outcome{Gesture: pending.State, Resolution: ResolutionCancelled, Err: cause}
}

func (m *Machine) reset() Pending {
	pending := m.pending
	m.pending = Pending{State: StateIdle}
	return pending
}

// reject absorbs a graph error. Self connections and occupied inputs are
// ordinary user outcomes; anything else means the canvas showed an
// affordance the model does not have.
func (m *Machine) reject(out Outcome, err error) Outcome {
	out.Resolution = ResolutionRejected
	out.Err = err

	fields := []zap.Field{zap.String("gesture", string(out.Gesture)), zap.Error(err)}
	switch {
	case errors.Is(err, graph.ErrSelfConnection), errors.Is(err, graph.ErrInputAlreadyConnected):
		m.logger.Debug("gesture rejected", fields...)
	default:
		m.logger.Warn("gesture out of sync with graph", fields...)
	}
	return out
}
