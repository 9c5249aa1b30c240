// Package editor hosts one editing session: the graph model, the gesture
// machine routing pointer input into it, the current selection and the
// glue to export, import and the remote collaborators.
package editor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/gesture"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
	"github.com/aasedek/Analytica-AI-Product-1/internal/infrastructure/metrics"
)

// Executor hands a pipeline snapshot to the execution backend
type Executor interface {
	Execute(ctx context.Context, req dto.ExecuteRequest) (dto.ExecuteResponse, error)
}

// Optimizer asks the assistant for optimization suggestions
type Optimizer interface {
	Optimize(ctx context.Context, req dto.OptimizeRequest) (dto.OptimizeResponse, error)
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExecutor sets the execute collaborator
func WithExecutor(e Executor) Option {
	return func(s *Session) { s.executor = e }
}

// WithOptimizer sets the optimize collaborator
func WithOptimizer(o Optimizer) Option {
	return func(s *Session) { s.optimizer = o }
}

// WithIDGenerator overrides node and connection id minting
func WithIDGenerator(g graph.IDGenerator) Option {
	return func(s *Session) { s.ids = g }
}

// WithSessionID fixes the session identifier
func WithSessionID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// Session is one open editor
// PRINCIPLES:
// - Owns exactly one graph model and one gesture machine
// - Selection lives here, outside the gesture machine
// - Not safe for concurrent use; transports serialize access per session
type Session struct {
	id        string
	catalog   *catalog.Catalog
	ids       graph.IDGenerator
	model     *graph.Model
	gestures  *gesture.Machine
	selected  string
	executor  Executor
	optimizer Optimizer
	logger    *zap.Logger
}

// NewSession opens an empty editor over catalog c
func NewSession(c *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		catalog: c,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var modelOpts []graph.Option
	if s.ids != nil {
		modelOpts = append(modelOpts, graph.WithIDGenerator(s.ids))
	}
	s.logger = s.logger.With(zap.String("session", s.id))
	s.model = graph.New(c, modelOpts...)
	s.gestures = gesture.NewMachine(s.model, gesture.WithLogger(s.logger))
	return s
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Catalog returns the catalog the session edits against
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Executor returns the configured execute collaborator, possibly nil
func (s *Session) Executor() Executor { return s.executor }

// Optimizer returns the configured optimize collaborator, possibly nil
func (s *Session) Optimizer() Optimizer { return s.optimizer }

// Snapshot returns a detached copy of the pipeline
func (s *Session) Snapshot() graph.Document { return s.model.Snapshot() }

// Node returns a copy of one node
func (s *Session) Node(id string) (graph.Node, bool) { return s.model.Node(id) }

// Validate checks the pipeline against the catalog
func (s *Session) Validate() error { return s.model.Validate() }

// GestureState returns the active gesture
func (s *Session) GestureState() gesture.State { return s.gestures.State() }

// SelectedNodeID returns the selected node, or "" when nothing is selected
func (s *Session) SelectedNodeID() string { return s.selected }

// SelectedNode returns the node shown in the config sidebar
func (s *Session) SelectedNode() (graph.Node, bool) {
	if s.selected == "" {
		return graph.Node{}, false
	}
	return s.model.Node(s.selected)
}

// ClickNode selects a node
func (s *Session) ClickNode(id string) error {
	if _, ok := s.model.Node(id); !ok {
		return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	s.selected = id
	return nil
}

// ClickCanvas clears the selection. A connection still being drawn is
// dropped as well.
func (s *Session) ClickCanvas() {
	s.selected = ""
	if s.gestures.State() == gesture.StateDrawingConnection {
		s.record(s.gestures.Cancel())
	}
}

// UpdateNodeConfig replaces a node's configuration
func (s *Session) UpdateNodeConfig(id string, config map[string]interface{}) error {
	if err := s.model.UpdateNodeConfig(id, config); err != nil {
		return err
	}
	metrics.Mutation("update_config")
	return nil
}

// DeleteNode removes a node and its connections, clearing the selection if
// it pointed at the node
func (s *Session) DeleteNode(id string) error {
	if err := s.model.DeleteNode(id); err != nil {
		return err
	}
	if s.selected == id {
		s.selected = ""
	}
	metrics.Mutation("delete_node")
	s.logger.Debug("node deleted", zap.String("node", id))
	return nil
}

// DeleteConnection removes one connection
func (s *Session) DeleteConnection(id string) error {
	if err := s.model.DeleteConnection(id); err != nil {
		return err
	}
	metrics.Mutation("delete_connection")
	return nil
}
