package validation

import (
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
)

// PipelineValidationOptions controls optional validation checks.
type PipelineValidationOptions struct {
	// CheckCycles enables detection of directed cycles. The editor itself
	// allows loops; execution backends may not.
	CheckCycles bool
}

// ValidatePipeline performs structural validation on a pipeline document.
// It is intended for documents loaded from files, where the checks the
// model runs on every mutation were bypassed.
func ValidatePipeline(doc *graph.Document, c *catalog.Catalog, opts ...PipelineValidationOptions) error {
	if err := ValidateWithPlayground(doc); err != nil {
		return err
	}
	if err := doc.Check(c); err != nil {
		return err
	}

	var cfg PipelineValidationOptions
	if len(opts) > 0 {
		cfg = opts[0]
	}
	if cfg.CheckCycles && hasCycle(doc) {
		return ErrCyclicPipeline
	}
	return nil
}

// hasCycle detects any cycle in a directed graph using DFS with coloring.
func hasCycle(doc *graph.Document) bool {
	const (
		white = 0 // unvisited
		gray  = 1 // visiting
		black = 2 // visited
	)
	color := make(map[string]int, len(doc.Nodes))
	adj := make(map[string][]string, len(doc.Nodes))
	for _, c := range doc.Connections {
		adj[c.SourceID] = append(adj[c.SourceID], c.TargetID)
	}
	var dfs func(string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range adj[u] {
			if color[v] == gray {
				return true
			}
			if color[v] == white && dfs(v) {
				return true
			}
		}
		color[u] = black
		return false
	}
	for _, n := range doc.Nodes {
		if color[n.ID] == white && dfs(n.ID) {
			return true
		}
	}
	return false
}
