// Package graph provides the pipeline graph model: the node and connection
// collections of one editor session and the operations that mutate them.
// It has no rendering, transport or clock dependencies.
package graph

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
)

// IDGenerator mints identifiers for new nodes and connections
type IDGenerator interface {
	NodeID() string
	ConnectionID() string
}

// UUIDGenerator produces "node-<uuid>" and "conn-<uuid>" identifiers
type UUIDGenerator struct{}

// NodeID returns a fresh node identifier
func (UUIDGenerator) NodeID() string { return "node-" + uuid.NewString() }

// ConnectionID returns a fresh connection identifier
func (UUIDGenerator) ConnectionID() string { return "conn-" + uuid.NewString() }

// Option configures a Model
type Option func(*Model)

// WithIDGenerator overrides the identifier source
func WithIDGenerator(g IDGenerator) Option {
	return func(m *Model) {
		if g != nil {
			m.ids = g
		}
	}
}

// Model holds the nodes and connections of one pipeline
// PRINCIPLES:
// - Every mutation is total: the collections are rebuilt and swapped in one
//   assignment, so no caller ever observes a half-applied change
// - Single-threaded: callers serialize access
type Model struct {
	catalog     *catalog.Catalog
	ids         IDGenerator
	nodes       []Node
	connections []Connection
}

// New creates an empty model bound to a catalog
func New(c *catalog.Catalog, opts ...Option) *Model {
	m := &Model{
		catalog: c,
		ids:     UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the catalog the model validates against
func (m *Model) Catalog() *catalog.Catalog {
	return m.catalog
}

// AddNode instantiates catalog component name at position.
// The config is a copy of the component defaults with an auto-numbered name.
func (m *Model) AddNode(name string, position Position) (string, error) {
	entry, ok := m.catalog.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownComponentType, name)
	}

	cfg := entry.NewConfig()
	if cfg == nil {
		cfg = make(map[string]interface{}, 1)
	}
	cfg["name"] = fmt.Sprintf("%s %d", entry.Name, len(m.nodes)+1)

	node := Node{
		ID:       m.ids.NodeID(),
		Type:     entry.Name,
		Position: position,
		Config:   cfg,
	}

	nodes := make([]Node, len(m.nodes), len(m.nodes)+1)
	copy(nodes, m.nodes)
	m.nodes = append(nodes, node)
	return node.ID, nil
}

// MoveNode replaces a node's position. Positions are not clamped.
func (m *Model) MoveNode(id string, position Position) error {
	i := m.indexOfNode(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	nodes := m.copyNodes()
	nodes[i].Position = position
	m.nodes = nodes
	return nil
}

// UpdateNodeConfig replaces a node's config wholesale; it does not merge
func (m *Model) UpdateNodeConfig(id string, config map[string]interface{}) error {
	i := m.indexOfNode(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if err := validateConfig(config); err != nil {
		return err
	}
	nodes := m.copyNodes()
	nodes[i].Config = catalog.CloneConfig(config)
	m.nodes = nodes
	return nil
}

// DeleteNode removes a node together with every connection that touches it
func (m *Model) DeleteNode(id string) error {
	i := m.indexOfNode(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	nodes := make([]Node, 0, len(m.nodes)-1)
	nodes = append(nodes, m.nodes[:i]...)
	nodes = append(nodes, m.nodes[i+1:]...)

	connections := make([]Connection, 0, len(m.connections))
	for _, c := range m.connections {
		if !c.Touches(id) {
			connections = append(connections, c)
		}
	}

	m.nodes, m.connections = nodes, connections
	return nil
}

// AddConnection links sourceHandle (an output of sourceID) to targetHandle
// (an input of targetID). Checks run in order: both nodes exist, the nodes
// differ, both handles are declared with the right role, and the input is
// free.
func (m *Model) AddConnection(sourceID, sourceHandle, targetID, targetHandle string) (string, error) {
	si := m.indexOfNode(sourceID)
	if si < 0 {
		return "", fmt.Errorf("%w: %s", ErrNodeNotFound, sourceID)
	}
	ti := m.indexOfNode(targetID)
	if ti < 0 {
		return "", fmt.Errorf("%w: %s", ErrNodeNotFound, targetID)
	}
	if sourceID == targetID {
		return "", ErrSelfConnection
	}
	if !m.catalog.HasHandle(m.nodes[si].Type, catalog.RoleOutput, sourceHandle) {
		return "", fmt.Errorf("%w: %q is not an output of %s", ErrInvalidHandle, sourceHandle, sourceID)
	}
	if !m.catalog.HasHandle(m.nodes[ti].Type, catalog.RoleInput, targetHandle) {
		return "", fmt.Errorf("%w: %q is not an input of %s", ErrInvalidHandle, targetHandle, targetID)
	}
	for _, c := range m.connections {
		if c.Occupies(targetID, targetHandle) {
			return "", fmt.Errorf("%w: %s.%s", ErrInputAlreadyConnected, targetID, targetHandle)
		}
	}

	conn := Connection{
		ID:           m.ids.ConnectionID(),
		SourceID:     sourceID,
		SourceHandle: sourceHandle,
		TargetID:     targetID,
		TargetHandle: targetHandle,
	}
	connections := make([]Connection, len(m.connections), len(m.connections)+1)
	copy(connections, m.connections)
	m.connections = append(connections, conn)
	return conn.ID, nil
}

// DeleteConnection removes a single connection
func (m *Model) DeleteConnection(id string) error {
	for i, c := range m.connections {
		if c.ID != id {
			continue
		}
		connections := make([]Connection, 0, len(m.connections)-1)
		connections = append(connections, m.connections[:i]...)
		connections = append(connections, m.connections[i+1:]...)
		m.connections = connections
		return nil
	}
	return fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
}

// Node returns a copy of the node with the given ID
func (m *Model) Node(id string) (Node, bool) {
	i := m.indexOfNode(id)
	if i < 0 {
		return Node{}, false
	}
	return m.nodes[i].Clone(), true
}

// Nodes returns copies of all nodes in insertion order
func (m *Model) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Connections returns a copy of all connections in insertion order
func (m *Model) Connections() []Connection {
	out := make([]Connection, len(m.connections))
	copy(out, m.connections)
	return out
}

// Snapshot returns a detached copy of the whole pipeline
func (m *Model) Snapshot() Document {
	return Document{Nodes: m.Nodes(), Connections: m.Connections()}
}

// Replace swaps in a whole document, as import does. The document is copied;
// it is not checked against the catalog, so nodes of unknown components are
// kept and skipped by consumers that render them.
func (m *Model) Replace(doc Document) {
	clone := doc.Clone()
	m.nodes, m.connections = clone.Nodes, clone.Connections
}

func (m *Model) indexOfNode(id string) int {
	for i := range m.nodes {
		if m.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) copyNodes() []Node {
	nodes := make([]Node, len(m.nodes))
	copy(nodes, m.nodes)
	return nodes
}
