// Package graph provides node definitions
package graph

import "github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"

// Position is a canvas coordinate in pixels, origin at the top-left corner
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the offset from q to p
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

// Node is a placed instance of a catalog component
// PRINCIPLES:
// - KISS: Plain data, owned by the Model
// - Type references a catalog entry by name
type Node struct {
	ID       string                 `json:"id" validate:"required,node_id"`
	Type     string                 `json:"type" validate:"required"`
	Position Position               `json:"position"`
	Config   map[string]interface{} `json:"config" validate:"required"`
}

// Name returns the user-facing label stored in the config
func (n *Node) Name() string {
	name, _ := n.Config["name"].(string)
	return name
}

// Clone returns a copy that shares no mutable state with n
func (n Node) Clone() Node {
	n.Config = catalog.CloneConfig(n.Config)
	return n
}

// validateConfig checks the only key the editor relies on
func validateConfig(cfg map[string]interface{}) error {
	if _, ok := cfg["name"].(string); !ok {
		return ErrMissingConfigName
	}
	return nil
}
