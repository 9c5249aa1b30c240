package graph

import (
	"fmt"

	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
)

// Check verifies the invariants a model maintains on its own but a document
// loaded from outside may break. It returns the first violation found.
// Nodes whose type is unknown to c are reported as ErrUnknownComponentType.
func (d Document) Check(c *catalog.Catalog) error {
	nodes := make(map[string]*Node, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		if !c.Has(n.Type) {
			return fmt.Errorf("%w: node %s has type %q", ErrUnknownComponentType, n.ID, n.Type)
		}
		if err := validateConfig(n.Config); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
		nodes[n.ID] = n
	}

	type input struct{ node, handle string }
	conns := make(map[string]struct{}, len(d.Connections))
	occupied := make(map[input]string, len(d.Connections))
	for _, conn := range d.Connections {
		if _, dup := conns[conn.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateConnection, conn.ID)
		}
		conns[conn.ID] = struct{}{}

		src, ok := nodes[conn.SourceID]
		if !ok {
			return fmt.Errorf("%w: %s source %s", ErrDanglingConnection, conn.ID, conn.SourceID)
		}
		dst, ok := nodes[conn.TargetID]
		if !ok {
			return fmt.Errorf("%w: %s target %s", ErrDanglingConnection, conn.ID, conn.TargetID)
		}
		if src.ID == dst.ID {
			return fmt.Errorf("%w: %s", ErrSelfConnection, conn.ID)
		}
		if !c.HasHandle(src.Type, catalog.RoleOutput, conn.SourceHandle) {
			return fmt.Errorf("%w: %s source handle %q", ErrInvalidHandle, conn.ID, conn.SourceHandle)
		}
		if !c.HasHandle(dst.Type, catalog.RoleInput, conn.TargetHandle) {
			return fmt.Errorf("%w: %s target handle %q", ErrInvalidHandle, conn.ID, conn.TargetHandle)
		}
		key := input{conn.TargetID, conn.TargetHandle}
		if other, taken := occupied[key]; taken {
			return fmt.Errorf("%w: %s and %s feed %s.%s", ErrInputAlreadyConnected, other, conn.ID, conn.TargetID, conn.TargetHandle)
		}
		occupied[key] = conn.ID
	}
	return nil
}

// Validate checks the model's current state against its catalog
func (m *Model) Validate() error {
	doc := Document{Nodes: m.nodes, Connections: m.connections}
	return doc.Check(m.catalog)
}
