// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Package chat relays shopper questions to a configured upstream
// chat-completions API. The relay holds the API key server-side and
// shields the process from upstream outages with a circuit breaker.
package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/carmatch/carmatch/internal/logging"
	"github.com/carmatch/carmatch/internal/metrics"
)

var (
	// ErrDisabled indicates the relay is not configured.
	ErrDisabled = errors.New("chat relay disabled")

	// ErrUpstreamUnavailable indicates the circuit is open or the
	// upstream rejected the request.
	ErrUpstreamUnavailable = errors.New("chat upstream unavailable")
)

// Message is a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a relay request from the frontend.
type Request struct {
	Messages []Message `json:"messages"`
}

// Response is the assistant reply returned to the frontend.
type Response struct {
	Reply string `json:"reply"`
	Model string `json:"model,omitempty"`
}

// upstream wire format (OpenAI-compatible chat completions).
type upstreamRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type upstreamResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Config holds the relay settings.
type Config struct {
	Enabled     bool
	UpstreamURL string
	APIKey      string
	Model       string
	Timeout     time.Duration
}

// Client relays chat requests to the configured upstream. It is safe
// for concurrent use.
//
// The circuit breaker uses real time for its interval and timeout
// calculations, which is what production resilience needs.
type Client struct {
	config     Config
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[*Response]
	logger     zerolog.Logger
}

const breakerName = "chat-upstream"

// NewClient creates the relay. Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 1 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 5 requests
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger := logging.WithComponent("chat")
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Chat upstream circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
		logger:     logger,
	}
}

// Enabled reports whether the relay is configured for use.
func (c *Client) Enabled() bool {
	return c.config.Enabled && c.config.UpstreamURL != ""
}

// Send relays the conversation to the upstream and returns the
// assistant reply.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("no messages")
	}

	resp, err := c.cb.Execute(func() (*Response, error) {
		return c.call(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn().Msg("Chat request rejected, circuit open")
			return nil, fmt.Errorf("%w: circuit open", ErrUpstreamUnavailable)
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) call(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(upstreamRequest{
		Model:    c.config.Model,
		Messages: req.Messages,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding upstream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.UpstreamURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Int("status", httpResp.StatusCode).
			Msg("Chat upstream returned non-OK status")
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, httpResp.StatusCode)
	}

	var up upstreamResponse
	if err := json.Unmarshal(raw, &up); err != nil {
		return nil, fmt.Errorf("decoding upstream response: %w", err)
	}
	if up.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, up.Error.Message)
	}
	if len(up.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrUpstreamUnavailable)
	}

	return &Response{
		Reply: up.Choices[0].Message.Content,
		Model: up.Model,
	}, nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
