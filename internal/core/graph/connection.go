// Package graph provides connection definitions
package graph

// Connection links an output handle of one node to an input handle of
// another. The output side is always the source.
type Connection struct {
	ID           string `json:"id" validate:"required,conn_id"`
	SourceID     string `json:"sourceId" validate:"required"`
	SourceHandle string `json:"sourceHandle" validate:"required"`
	TargetID     string `json:"targetId" validate:"required"`
	TargetHandle string `json:"targetHandle" validate:"required"`
}

// Touches reports whether the connection has nodeID at either end
func (c *Connection) Touches(nodeID string) bool {
	return c.SourceID == nodeID || c.TargetID == nodeID
}

// Occupies reports whether the connection feeds input handle of targetID
func (c *Connection) Occupies(targetID, handle string) bool {
	return c.TargetID == targetID && c.TargetHandle == handle
}

// Document is the exported form of a pipeline: the full node and
// connection collections.
type Document struct {
	Nodes       []Node       `json:"nodes" validate:"dive"`
	Connections []Connection `json:"connections" validate:"dive"`
}

// Clone returns a deep copy of d
func (d Document) Clone() Document {
	out := Document{
		Nodes:       make([]Node, len(d.Nodes)),
		Connections: make([]Connection, len(d.Connections)),
	}
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Clone()
	}
	copy(out.Connections, d.Connections)
	return out
}
