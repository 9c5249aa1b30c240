package editor

import (
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/geometry"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/gesture"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
)

// HandleView is one connection point on a card
type HandleView struct {
	ID            string         `json:"id"`
	Label         string         `json:"label"`
	Role          catalog.Role   `json:"role"`
	Position      geometry.Point `json:"position"`
	OffsetPercent float64        `json:"offsetPercent"`
}

// NodeView is a rendered node card
type NodeView struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Name     string                 `json:"name"`
	Position graph.Position         `json:"position"`
	Category catalog.Category       `json:"category"`
	Glyph    string                 `json:"glyph"`
	Style    catalog.Style          `json:"style"`
	Selected bool                   `json:"selected"`
	Inputs   []HandleView           `json:"inputs"`
	Outputs  []HandleView           `json:"outputs"`
	Config   map[string]interface{} `json:"config"`
}

// ConnectionView is a rendered connection
type ConnectionView struct {
	graph.Connection
	Path string `json:"path"`
}

// PreviewView is the dashed line following the pointer while a connection
// is drawn
type PreviewView struct {
	Origin gesture.Anchor `json:"origin"`
	From   geometry.Point `json:"from"`
	To     geometry.Point `json:"to"`
	Path   string         `json:"path"`
}

// View is everything a canvas needs to draw the session
type View struct {
	Nodes          []NodeView       `json:"nodes"`
	Connections    []ConnectionView `json:"connections"`
	Preview        *PreviewView     `json:"preview,omitempty"`
	SelectedNodeID string           `json:"selectedNodeId,omitempty"`
	Gesture        gesture.State    `json:"gesture"`
}

// View derives the render model from the current graph. Geometry is
// recomputed on every call. Nodes whose component is not in the catalog are
// skipped, and so are connections touching them.
func (s *Session) View() View {
	nodes := s.model.Nodes()
	v := View{
		Nodes:          make([]NodeView, 0, len(nodes)),
		Connections:    []ConnectionView{},
		SelectedNodeID: s.selected,
		Gesture:        s.gestures.State(),
	}

	rendered := make([]graph.Node, 0, len(nodes))
	for _, n := range nodes {
		entry, ok := s.catalog.Lookup(n.Type)
		if !ok {
			continue
		}
		rendered = append(rendered, n)
		v.Nodes = append(v.Nodes, NodeView{
			ID:       n.ID,
			Type:     n.Type,
			Name:     n.Name(),
			Position: n.Position,
			Category: entry.Category,
			Glyph:    entry.Icon.Glyph(),
			Style:    entry.Category.Style(),
			Selected: n.ID == s.selected,
			Inputs:   handleViews(s.catalog, n, entry.Inputs, catalog.RoleInput),
			Outputs:  handleViews(s.catalog, n, entry.Outputs, catalog.RoleOutput),
			Config:   n.Config,
		})
	}

	for _, c := range s.model.Connections() {
		src, dst, ok := geometry.ConnectionEndpoints(s.catalog, rendered, c)
		if !ok {
			continue
		}
		v.Connections = append(v.Connections, ConnectionView{
			Connection: c,
			Path:       geometry.ConnectionPath(src, dst),
		})
	}

	if origin, cursor, ok := s.gestures.Connecting(); ok {
		if n, found := s.model.Node(origin.NodeID); found {
			from := geometry.HandlePosition(s.catalog, n, origin.HandleID, origin.Role)
			v.Preview = &PreviewView{
				Origin: origin,
				From:   from,
				To:     cursor,
				Path:   geometry.PreviewPath(from, cursor),
			}
		}
	}
	return v
}

func handleViews(c *catalog.Catalog, n graph.Node, handles []catalog.Handle, role catalog.Role) []HandleView {
	out := make([]HandleView, len(handles))
	for i, h := range handles {
		out[i] = HandleView{
			ID:            h.ID,
			Label:         h.Label,
			Role:          role,
			Position:      geometry.HandlePosition(c, n, h.ID, role),
			OffsetPercent: geometry.HandleOffsetPercent(i, len(handles)),
		}
	}
	return out
}
