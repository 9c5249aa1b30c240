// Package openai talks to an OpenAI-compatible chat completion API. It backs
// the optimize dialog and can stand in for the execution backend by asking
// the model for a plan.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-4o-mini"

// Config holds the client settings
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	RPS         float64
	Burst       int
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client wraps go-openai for the two editor prompts
type Client struct {
	api     *goopenai.Client
	cfg     Config
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New creates a client from cfg
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	c := &Client{
		api:     goopenai.NewClientWithConfig(apiCfg),
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Inf, 0),
		logger:  zap.NewNop(),
	}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Optimize asks the model for suggestions against the user's goals
func (c *Client) Optimize(ctx context.Context, req dto.OptimizeRequest) (dto.OptimizeResponse, error) {
	if strings.TrimSpace(req.PipelineConfiguration) == "" || strings.TrimSpace(req.OptimizationGoals) == "" {
		return dto.OptimizeResponse{}, dto.ErrInvalidInput
	}

	content, err := c.complete(ctx, "optimize", optimizePrompt(req), true)
	if err != nil {
		return dto.OptimizeResponse{}, err
	}

	var out dto.OptimizeResponse
	if err := json.Unmarshal([]byte(stripFence(content)), &out); err != nil || out.Suggestions == "" {
		c.logger.Warn("optimizer reply is not the expected JSON object", zap.Error(err))
		return dto.OptimizeResponse{Suggestions: content}, nil
	}
	return out, nil
}

// Execute asks the model for a step-by-step plan of the pipeline. It
// satisfies the same contract as the HTTP backend.
func (c *Client) Execute(ctx context.Context, req dto.ExecuteRequest) (dto.ExecuteResponse, error) {
	pipeline, err := json.MarshalIndent(req.Pipeline, "", "  ")
	if err != nil {
		return dto.ExecuteResponse{}, fmt.Errorf("encode pipeline: %w", err)
	}

	content, err := c.complete(ctx, "execute", planPrompt(string(pipeline)), false)
	if err != nil {
		return dto.ExecuteResponse{}, err
	}
	if strings.TrimSpace(content) == "" {
		return dto.ExecuteResponse{}, dto.ErrMissingPlan
	}
	return dto.ExecuteResponse{ExecutionPlan: content}, nil
}

func (c *Client) complete(ctx context.Context, op, prompt string, jsonReply bool) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &dto.RemoteError{Op: op, Err: err}
	}

	req := goopenai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	if jsonReply {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject}
	}

	c.logger.Debug("chat completion", zap.String("op", op), zap.String("model", c.cfg.Model))
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("chat completion failed", zap.String("op", op), zap.Error(err))
		return "", remoteError(op, err)
	}
	if len(resp.Choices) == 0 {
		return "", &dto.RemoteError{Op: op, Err: errors.New("model returned no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

func remoteError(op string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &dto.RemoteError{Op: op, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &dto.RemoteError{Op: op, StatusCode: reqErr.HTTPStatusCode, Body: string(reqErr.Body), Err: err}
	}
	return &dto.RemoteError{Op: op, Err: err}
}

// stripFence removes a ```json fence some models wrap replies in
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
