package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/gesture"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
	"github.com/aasedek/Analytica-AI-Product-1/internal/infrastructure/metrics"
)

// EventType names a pointer event sent by the canvas
type EventType string

const (
	EventPlacementBegin  EventType = "placement.begin"
	EventMoveBegin       EventType = "move.begin"
	EventConnectionBegin EventType = "connection.begin"
	EventPointerMove     EventType = "pointer.move"
	EventDropCanvas      EventType = "drop.canvas"
	EventDropHandle      EventType = "drop.handle"
	EventDropOutside     EventType = "drop.outside"
	EventPointerUp       EventType = "pointer.up"
	EventCancel          EventType = "cancel"
	EventClickNode       EventType = "click.node"
	EventClickCanvas     EventType = "click.canvas"
)

// Event is one pointer interaction in canvas coordinates
type Event struct {
	Type      EventType      `json:"type" validate:"required"`
	Component string         `json:"component,omitempty"`
	NodeID    string         `json:"nodeId,omitempty"`
	HandleID  string         `json:"handleId,omitempty"`
	Role      catalog.Role   `json:"role,omitempty"`
	Pointer   graph.Position `json:"pointer"`
}

// Dispatch routes an event to the matching session call. The outcome is
// meaningful for drop and cancel events; the error reports malformed events
// and clicks on nodes that do not exist.
func (s *Session) Dispatch(ev Event) (gesture.Outcome, error) {
	idle := gesture.Outcome{Gesture: s.gestures.State(), Resolution: gesture.ResolutionNone}

	switch ev.Type {
	case EventPlacementBegin:
		if ev.Component == "" {
			return idle, fmt.Errorf("%w: %s needs a component", ErrUnknownEvent, ev.Type)
		}
		s.BeginPlacement(ev.Component)
	case EventMoveBegin:
		if err := s.BeginMove(ev.NodeID, ev.Pointer); err != nil {
			return idle, err
		}
	case EventConnectionBegin:
		if ev.NodeID == "" || ev.HandleID == "" || !ev.Role.Valid() {
			return idle, fmt.Errorf("%w: %s needs nodeId, handleId and role", ErrUnknownEvent, ev.Type)
		}
		s.BeginConnection(ev.NodeID, ev.HandleID, ev.Role, ev.Pointer)
	case EventPointerMove:
		s.PointerMove(ev.Pointer)
	case EventDropCanvas:
		return s.DropOnCanvas(ev.Pointer), nil
	case EventDropHandle:
		return s.DropOnHandle(ev.NodeID, ev.HandleID, ev.Role, ev.Pointer), nil
	case EventDropOutside:
		return s.DropOutside(), nil
	case EventPointerUp:
		return s.PointerUp(), nil
	case EventCancel:
		return s.Cancel(), nil
	case EventClickNode:
		if err := s.ClickNode(ev.NodeID); err != nil {
			return idle, err
		}
	case EventClickCanvas:
		s.ClickCanvas()
	default:
		return idle, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}

	idle.Gesture = s.gestures.State()
	return idle, nil
}

// BeginPlacement starts dragging a catalog component onto the canvas
func (s *Session) BeginPlacement(component string) {
	s.gestures.BeginPlacement(component)
}

// BeginMove starts dragging node id, grabbed at pointer
func (s *Session) BeginMove(id string, pointer graph.Position) error {
	n, ok := s.model.Node(id)
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	s.gestures.BeginMove(id, pointer, n.Position)
	return nil
}

// BeginConnection starts drawing a connection from a handle
func (s *Session) BeginConnection(nodeID, handleID string, role catalog.Role, pointer graph.Position) {
	s.gestures.BeginConnection(nodeID, handleID, role, pointer)
}

// PointerMove updates the preview line of a connection being drawn
func (s *Session) PointerMove(p graph.Position) bool {
	return s.gestures.PointerMove(p)
}

// DropOnCanvas resolves the active gesture on empty canvas
func (s *Session) DropOnCanvas(p graph.Position) gesture.Outcome {
	return s.record(s.gestures.DropOnCanvas(p))
}

// DropOnHandle resolves the active gesture over a handle. With nothing in
// flight the release is a click on the handle's node and selects it.
func (s *Session) DropOnHandle(nodeID, handleID string, role catalog.Role, p graph.Position) gesture.Outcome {
	if s.gestures.State() == gesture.StateIdle {
		if _, ok := s.model.Node(nodeID); ok {
			s.selected = nodeID
		}
	}
	return s.record(s.gestures.DropOnHandle(nodeID, handleID, role, p))
}

// DropOutside discards the active gesture
func (s *Session) DropOutside() gesture.Outcome {
	return s.record(s.gestures.DropOutside())
}

// PointerUp ends a connection drawn with the mouse button released over
// nothing. Drag-and-drop gestures end with a drop event instead and are left
// alone.
func (s *Session) PointerUp() gesture.Outcome {
	if s.gestures.State() != gesture.StateDrawingConnection {
		return gesture.Outcome{Gesture: s.gestures.State(), Resolution: gesture.ResolutionNone}
	}
	return s.record(s.gestures.Cancel())
}

// Cancel discards the active gesture
func (s *Session) Cancel() gesture.Outcome {
	return s.record(s.gestures.Cancel())
}

var mutationOps = map[gesture.State]string{
	gesture.StatePlacingNewNode:    "add_node",
	gesture.StateMovingNode:        "move_node",
	gesture.StateDrawingConnection: "add_connection",
}

func (s *Session) record(out gesture.Outcome) gesture.Outcome {
	if out.Resolution == gesture.ResolutionNone {
		return out
	}
	metrics.Gesture(string(out.Gesture), string(out.Resolution))
	if out.Mutated() {
		metrics.Mutation(mutationOps[out.Gesture])
		s.logger.Debug("gesture applied",
			zap.String("gesture", string(out.Gesture)),
			zap.String("node", out.NodeID),
			zap.String("connection", out.ConnectionID))
	}
	return out
}
