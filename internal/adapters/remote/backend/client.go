// Package backend is the HTTP client of the pipeline execution backend. The
// backend receives the exported pipeline document and answers with an
// execution plan.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aasedek/Analytica-AI-Product-1/internal/app/dto"
)

const (
	op = "execute"

	// maxErrorBody bounds how much of a failed response is kept
	maxErrorBody = 8 << 10
)

// Config holds the client settings
type Config struct {
	URL     string
	Timeout time.Duration
	// RPS and Burst rate-limit outgoing calls; RPS <= 0 disables limiting
	RPS   float64
	Burst int
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

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// Client posts pipeline snapshots to the backend
type Client struct {
	url     string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New creates a client. An empty URL yields dto.ErrMissingBackendURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, dto.ErrMissingBackendURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	c := &Client{
		url:     url,
		http:    &http.Client{Timeout: timeout},
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

// Execute sends the pipeline and returns the backend's plan
func (c *Client) Execute(ctx context.Context, req dto.ExecuteRequest) (dto.ExecuteResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return dto.ExecuteResponse{}, &dto.RemoteError{Op: op, Err: err}
	}

	body, err := json.Marshal(req.Pipeline)
	if err != nil {
		return dto.ExecuteResponse{}, fmt.Errorf("encode pipeline: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return dto.ExecuteResponse{}, &dto.RemoteError{Op: op, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Info("sending pipeline to backend",
		zap.String("url", c.url),
		zap.Int("nodes", len(req.Pipeline.Nodes)),
		zap.Int("connections", len(req.Pipeline.Connections)))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("backend request failed", zap.Error(err))
		return dto.ExecuteResponse{}, &dto.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("backend rejected pipeline", zap.Int("status", resp.StatusCode))
		return dto.ExecuteResponse{}, &dto.RemoteError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	var out dto.ExecuteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return dto.ExecuteResponse{}, &dto.RemoteError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.ExecutionPlan == "" {
		return dto.ExecuteResponse{}, dto.ErrMissingPlan
	}
	return out, nil
}
