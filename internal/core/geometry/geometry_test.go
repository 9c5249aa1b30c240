package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
)

func TestHandleOffsetY(t *testing.T) {
	tests := []struct {
		name         string
		index, count int
		want         float64
	}{
		{"single handle", 0, 1, 28},
		{"first of two", 0, 2, 56.0 / 3},
		{"second of two", 1, 2, 56.0 / 3 * 2},
		{"second of three", 1, 3, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HandleOffsetY(tt.index, tt.count), 1e-9)
		})
	}
}

func TestHandleOffsetPercent(t *testing.T) {
	assert.Equal(t, 50.0, HandleOffsetPercent(0, 1))
	assert.InDelta(t, 33.333, HandleOffsetPercent(0, 2), 1e-3)
	assert.InDelta(t, 66.666, HandleOffsetPercent(1, 2), 1e-3)
}

func TestHandlePosition(t *testing.T) {
	cat := catalog.Default()
	filter := graph.Node{ID: "f", Type: "Filter", Position: graph.Position{X: 100, Y: 100}}
	join := graph.Node{ID: "j", Type: "Join", Position: graph.Position{X: 0, Y: 0}}
	ghost := graph.Node{ID: "g", Type: "Legacy Widget", Position: graph.Position{X: 7, Y: 9}}

	tests := []struct {
		name   string
		node   graph.Node
		handle string
		role   catalog.Role
		want   Point
	}{
		{"single input on the left edge", filter, "in", catalog.RoleInput, Point{X: 100, Y: 128}},
		{"single output on the right edge", filter, "out", catalog.RoleOutput, Point{X: 324, Y: 128}},
		{"first of two inputs", join, "in1", catalog.RoleInput, Point{X: 0, Y: 56.0 / 3}},
		{"second of two inputs", join, "in2", catalog.RoleInput, Point{X: 0, Y: 56.0 / 3 * 2}},
		{"unknown handle falls back", filter, "nope", catalog.RoleInput, Point{X: 100, Y: 100}},
		{"wrong role falls back", filter, "out", catalog.RoleInput, Point{X: 100, Y: 100}},
		{"unknown component falls back", ghost, "in", catalog.RoleInput, Point{X: 7, Y: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandlePosition(cat, tt.node, tt.handle, tt.role)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestHandlePosition_TranslatesWithNode(t *testing.T) {
	cat := catalog.Default()
	deltas := []Point{{X: 10, Y: -5}, {X: -300, Y: 1200}, {X: 0.5, Y: 0.25}}

	for _, entry := range cat.Entries() {
		for _, role := range []catalog.Role{catalog.RoleInput, catalog.RoleOutput} {
			for _, h := range entry.Handles(role) {
				node := graph.Node{Type: entry.Name, Position: graph.Position{X: 40, Y: 60}}
				before := HandlePosition(cat, node, h.ID, role)
				for _, d := range deltas {
					moved := node
					moved.Position = node.Position.Add(d)
					after := HandlePosition(cat, moved, h.ID, role)
					assert.InDelta(t, d.X, after.X-before.X, 1e-9, "%s/%s", entry.Name, h.ID)
					assert.InDelta(t, d.Y, after.Y-before.Y, 1e-9, "%s/%s", entry.Name, h.ID)
				}
			}
		}
	}
}

func TestConnectionEndpoints(t *testing.T) {
	cat := catalog.Default()
	nodes := []graph.Node{
		{ID: "a", Type: "Database", Position: graph.Position{X: 0, Y: 0}},
		{ID: "b", Type: "Filter", Position: graph.Position{X: 300, Y: 100}},
	}

	src, dst, ok := ConnectionEndpoints(cat, nodes, graph.Connection{SourceID: "a", SourceHandle: "out", TargetID: "b", TargetHandle: "in"})
	assert.True(t, ok)
	assert.Equal(t, Point{X: 224, Y: 28}, src)
	assert.Equal(t, Point{X: 300, Y: 128}, dst)

	_, _, ok = ConnectionEndpoints(cat, nodes, graph.Connection{SourceID: "a", SourceHandle: "out", TargetID: "zzz", TargetHandle: "in"})
	assert.False(t, ok)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "M 224,28 C 274,28 250,128 300,128",
		ConnectionPath(Point{X: 224, Y: 28}, Point{X: 300, Y: 128}))
	assert.Equal(t, "M 0.5,-3 C 50.5,-3 -49.75,2 0.25,2",
		ConnectionPath(Point{X: 0.5, Y: -3}, Point{X: 0.25, Y: 2}))
	assert.Equal(t, "M 224,28 L 400,410",
		PreviewPath(Point{X: 224, Y: 28}, Point{X: 400, Y: 410}))
}
