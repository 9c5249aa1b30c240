package pipelinepilot

import (
	"context"
	"io"

	sessionrepo "github.com/aasedek/Analytica-AI-Product-1/internal/adapters/repository/session"
	"github.com/aasedek/Analytica-AI-Product-1/internal/app/editor"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/gesture"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
)

// Re-export core types for convenience
type Catalog = catalog.Catalog
type Entry = catalog.Entry
type Role = catalog.Role
type Position = graph.Position
type Node = graph.Node
type Connection = graph.Connection
type Document = graph.Document
type Session = editor.Session
type Event = editor.Event
type View = editor.View
type Outcome = gesture.Outcome
type Executor = editor.Executor
type Optimizer = editor.Optimizer

const (
	RoleInput  = catalog.RoleInput
	RoleOutput = catalog.RoleOutput
)

// DefaultCatalog returns the built-in component catalog
func DefaultCatalog() *Catalog { return catalog.Default() }

// NewEditor opens a standalone session on the built-in catalog
func NewEditor(opts ...editor.Option) *Session {
	return editor.NewSession(catalog.Default(), opts...)
}

// Runtime is a simple façade that keeps several editor sessions in memory.
// It is suitable for embedding and tests.
type Runtime struct {
	catalog  *Catalog
	sessions *sessionrepo.InMemorySessionRepository
	opts     []editor.Option
}

// NewRuntime constructs a runtime on c, or the built-in catalog when c is
// nil. opts are applied to every session it opens.
func NewRuntime(c *Catalog, opts ...editor.Option) *Runtime {
	if c == nil {
		c = catalog.Default()
	}
	return &Runtime{catalog: c, sessions: sessionrepo.NewInMemorySessionRepository(), opts: opts}
}

// Open starts a session and returns its id
func (rt *Runtime) Open(ctx context.Context) (string, error) {
	s := editor.NewSession(rt.catalog, rt.opts...)
	if err := rt.sessions.Save(ctx, s); err != nil {
		return "", err
	}
	return s.ID(), nil
}

// With runs fn with exclusive access to the session
func (rt *Runtime) With(ctx context.Context, id string, fn func(*Session) error) error {
	return rt.sessions.Do(ctx, id, fn)
}

// Close ends a session
func (rt *Runtime) Close(ctx context.Context, id string) error {
	return rt.sessions.Delete(ctx, id)
}

// Load opens a session holding the pipeline read from r as JSON
func (rt *Runtime) Load(ctx context.Context, r io.Reader) (string, error) {
	s := editor.NewSession(rt.catalog, rt.opts...)
	if err := s.Import(r, nil); err != nil {
		return "", err
	}
	if err := rt.sessions.Save(ctx, s); err != nil {
		return "", err
	}
	return s.ID(), nil
}
