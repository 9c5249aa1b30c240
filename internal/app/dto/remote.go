package dto

import "github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"

// OptimizeRequest is what the optimize service receives: the pretty-printed
// pipeline document and the user's free-text goals
type OptimizeRequest struct {
	PipelineConfiguration string `json:"pipelineConfiguration" validate:"required"`
	OptimizationGoals     string `json:"optimizationGoals" validate:"required"`
}

// OptimizeResponse is the suggestions/rationale pair shown in the dialog
type OptimizeResponse struct {
	Suggestions string `json:"suggestions"`
	Rationale   string `json:"rationale"`
}

// ExecuteRequest carries the pipeline snapshot handed to the backend
type ExecuteRequest struct {
	Pipeline graph.Document `json:"pipeline"`
}

// ExecuteResponse is the opaque plan returned by the backend
type ExecuteResponse struct {
	ExecutionPlan string `json:"executionPlan"`
}
