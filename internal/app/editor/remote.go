package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
	"github.com/aasedek/Analytica-AI-Product-1/internal/infrastructure/metrics"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/validation"
)

// ExecuteRequest captures the pipeline for the execution backend
func (s *Session) ExecuteRequest() dto.ExecuteRequest {
	return dto.ExecuteRequest{Pipeline: s.model.Snapshot()}
}

// OptimizeRequest captures the pipeline, pretty-printed, together with the
// user's goals
func (s *Session) OptimizeRequest(goals string) (dto.OptimizeRequest, error) {
	config, err := json.MarshalIndent(s.model.Snapshot(), "", "  ")
	if err != nil {
		return dto.OptimizeRequest{}, fmt.Errorf("encode pipeline: %w", err)
	}
	req := dto.OptimizeRequest{
		PipelineConfiguration: string(config),
		OptimizationGoals:     strings.TrimSpace(goals),
	}
	if err := validation.ValidateWithPlayground(&req); err != nil {
		return dto.OptimizeRequest{}, fmt.Errorf("%w: %v", dto.ErrInvalidInput, err)
	}
	return req, nil
}

// Execute sends a snapshot of the pipeline to the session's executor
func (s *Session) Execute(ctx context.Context) (dto.ExecuteResponse, error) {
	return Execute(ctx, s.executor, s.ExecuteRequest())
}

// Optimize asks the session's optimizer about a snapshot of the pipeline
func (s *Session) Optimize(ctx context.Context, goals string) (dto.OptimizeResponse, error) {
	req, err := s.OptimizeRequest(goals)
	if err != nil {
		return dto.OptimizeResponse{}, err
	}
	return Optimize(ctx, s.optimizer, req)
}

// Execute runs req against ex. It never sees the live session, so callers
// may release their session lock before calling it.
func Execute(ctx context.Context, ex Executor, req dto.ExecuteRequest) (dto.ExecuteResponse, error) {
	if ex == nil {
		return dto.ExecuteResponse{}, dto.ErrMissingBackendURL
	}
	start := time.Now()
	resp, err := ex.Execute(ctx, req)
	metrics.RemoteCall("execute", start, err)
	return resp, err
}

// Optimize runs req against opt, outside any session
func Optimize(ctx context.Context, opt Optimizer, req dto.OptimizeRequest) (dto.OptimizeResponse, error) {
	if opt == nil {
		return dto.OptimizeResponse{}, ErrOptimizerUnavailable
	}
	start := time.Now()
	resp, err := opt.Optimize(ctx, req)
	metrics.RemoteCall("optimize", start, err)
	return resp, err
}

// ExecuteFailure is the plan text the execute dialog shows for err
func ExecuteFailure(err error) dto.ExecuteResponse {
	switch {
	case errors.Is(err, dto.ErrInvalidInput):
		return dto.ExecuteResponse{ExecutionPlan: "Invalid input provided."}
	case errors.Is(err, dto.ErrMissingPlan):
		return dto.ExecuteResponse{ExecutionPlan: "Backend returned a response without an execution plan."}
	case errors.Is(err, dto.ErrMissingBackendURL):
		return dto.ExecuteResponse{ExecutionPlan: "Error: PIPELINE_BACKEND_URL environment variable is not set. Please configure the backend URL in the .env file."}
	default:
		return dto.ExecuteResponse{ExecutionPlan: "An error occurred while communicating with the pipeline backend: " + err.Error()}
	}
}

// OptimizeFailure is the suggestions/rationale pair the optimize dialog
// shows for err
func OptimizeFailure(err error) dto.OptimizeResponse {
	if errors.Is(err, dto.ErrInvalidInput) {
		return dto.OptimizeResponse{Suggestions: "Invalid input provided.", Rationale: err.Error()}
	}
	return dto.OptimizeResponse{
		Suggestions: "An error occurred while generating suggestions.",
		Rationale:   err.Error(),
	}
}
