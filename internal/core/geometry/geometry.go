// Package geometry computes where node handles sit on the canvas and the
// SVG paths drawn between them. Everything here is a pure function of the
// catalog and node positions.
package geometry

import (
	"strconv"
	"strings"

	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
)

// Card dimensions in canvas pixels. Inputs sit on the left edge, outputs on
// the right edge.
const (
	CardWidth  = 224.0
	CardHeight = 56.0

	// curveBend is the horizontal pull of the bezier control points
	curveBend = 50.0
)

// Point is a canvas coordinate
type Point = graph.Position

// HandleOffsetY returns the vertical offset of handle index i out of count
// handles, measured from the top of the card. Handles are spaced evenly so a
// lone handle lands in the middle.
func HandleOffsetY(index, count int) float64 {
	if count <= 1 {
		return CardHeight / 2
	}
	return CardHeight / float64(count+1) * float64(index+1)
}

// HandleOffsetPercent is HandleOffsetY expressed as a percentage of the card
// height, for renderers that lay handles out relatively
func HandleOffsetPercent(index, count int) float64 {
	if count <= 1 {
		return 50
	}
	return float64(index+1) * 100 / float64(count+1)
}

// HandlePoint returns the absolute position of a node's handle. ok is false
// when the node's component or the handle is unknown.
func HandlePoint(c *catalog.Catalog, node graph.Node, handleID string, role catalog.Role) (Point, bool) {
	index, count, ok := c.HandleSlot(node.Type, role, handleID)
	if !ok {
		return Point{}, false
	}
	x := node.Position.X
	if role == catalog.RoleOutput {
		x += CardWidth
	}
	return Point{X: x, Y: node.Position.Y + HandleOffsetY(index, count)}, true
}

// HandlePosition is HandlePoint falling back to the node's own position
func HandlePosition(c *catalog.Catalog, node graph.Node, handleID string, role catalog.Role) Point {
	if p, ok := HandlePoint(c, node, handleID, role); ok {
		return p
	}
	return node.Position
}

// ConnectionEndpoints resolves both ends of a connection. ok is false when
// either node is missing from nodes.
func ConnectionEndpoints(c *catalog.Catalog, nodes []graph.Node, conn graph.Connection) (source, target Point, ok bool) {
	var src, dst *graph.Node
	for i := range nodes {
		switch nodes[i].ID {
		case conn.SourceID:
			src = &nodes[i]
		case conn.TargetID:
			dst = &nodes[i]
		}
	}
	if src == nil || dst == nil {
		return Point{}, Point{}, false
	}
	return HandlePosition(c, *src, conn.SourceHandle, catalog.RoleOutput),
		HandlePosition(c, *dst, conn.TargetHandle, catalog.RoleInput),
		true
}

// ConnectionPath returns the cubic bezier drawn for a committed connection:
// M sx,sy C sx+50,sy tx-50,ty tx,ty
func ConnectionPath(source, target Point) string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, source.X, source.Y)
	b.WriteString(" C ")
	writePoint(&b, source.X+curveBend, source.Y)
	b.WriteByte(' ')
	writePoint(&b, target.X-curveBend, target.Y)
	b.WriteByte(' ')
	writePoint(&b, target.X, target.Y)
	return b.String()
}

// PreviewPath returns the straight segment drawn while a connection is being
// dragged from origin to the pointer
func PreviewPath(origin, cursor Point) string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, origin.X, origin.Y)
	b.WriteString(" L ")
	writePoint(&b, cursor.X, cursor.Y)
	return b.String()
}

func writePoint(b *strings.Builder, x, y float64) {
	b.WriteString(formatFloat(x))
	b.WriteByte(',')
	b.WriteString(formatFloat(y))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
