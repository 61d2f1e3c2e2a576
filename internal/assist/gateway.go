// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds one backend call.
const DefaultTimeout = 90 * time.Second

// =============================================================================
// REQUEST / RESULT
// =============================================================================

// Request is one submission. An empty Mode means ModeFull.
type Request struct {
	Text string `json:"text"`
	Mode Mode   `json:"mode"`
}

// Result is a successful rewrite.
type Result struct {
	RequestID    string        `json:"request_id"`
	Mode         Mode          `json:"mode"`
	Original     string        `json:"-"`
	AssistedText string        `json:"assisted_text"`
	Provider     string        `json:"provider"`
	Model        string        `json:"model"`
	PromptTokens int           `json:"prompt_tokens"`
	Duration     time.Duration `json:"-"`
}

// Validate checks the request and fills in the default mode.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ValidationError{Field: "text", Message: ErrEmptyText}
	}
	if r.Mode == "" {
		r.Mode = ModeFull
	}
	if !r.Mode.Valid() {
		return &ValidationError{Field: "mode", Message: `mode must be "full" or "grammar"`}
	}
	return nil
}

// =============================================================================
// GATEWAY
// =============================================================================

// Gateway turns a Request into one backend call and classifies the outcome.
//
// The backend can be swapped at runtime with SetBackend; calls already in
// flight keep the backend they started with.
type Gateway struct {
	mu      sync.RWMutex
	backend Backend
	timeout time.Duration
	logger  *log.Logger
}

// NewGateway creates a gateway over backend with the default timeout.
func NewGateway(backend Backend) *Gateway {
	return &Gateway{
		backend: backend,
		timeout: DefaultTimeout,
		logger:  log.Default(),
	}
}

// WithTimeout sets the per-call deadline. Non-positive values are ignored.
func (g *Gateway) WithTimeout(d time.Duration) *Gateway {
	if d > 0 {
		g.timeout = d
	}
	return g
}

// WithLogger sets the logger.
func (g *Gateway) WithLogger(l *log.Logger) *Gateway {
	if l != nil {
		g.logger = l
	}
	return g
}

// SetBackend replaces the backend for subsequent calls.
func (g *Gateway) SetBackend(b Backend) {
	g.mu.Lock()
	g.backend = b
	g.mu.Unlock()
	g.logger.Printf("ASSIST_BACKEND | provider=%s model=%s", b.Provider(), b.Model())
}

// Backend returns the current backend.
func (g *Gateway) Backend() Backend {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.backend
}

// Timeout returns the per-call deadline.
func (g *Gateway) Timeout() time.Duration {
	return g.timeout
}

// Assist validates req, sends the prompt for its mode and returns the trimmed
// model output.
//
// Errors are always one of *ValidationError (no backend call was made),
// *UpstreamError or *MalformedResponseError. There are no retries.
func (g *Gateway) Assist(ctx context.Context, req Request) (*Result, error) {
	requestID := uuid.New().String()

	if err := req.Validate(); err != nil {
		g.logger.Printf("ASSIST_REJECTED | id=%s error=%q", requestID, err.Error())
		return nil, err
	}

	backend := g.Backend()
	prompt := BuildPrompt(req.Mode, req.Text)
	promptTokens := EstimateTokens(prompt)

	g.logger.Printf("ASSIST_REQUEST | id=%s provider=%s model=%s mode=%s chars=%d prompt_tokens=%d",
		requestID, backend.Provider(), backend.Model(), req.Mode, len(req.Text), promptTokens)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	out, err := backend.Generate(callCtx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		err = asGatewayError(backend.Provider(), err)
		g.logger.Printf("ASSIST_ERROR | id=%s kind=%s latency=%s error=%q",
			requestID, KindOf(err), elapsed.Round(time.Millisecond), err.Error())
		return nil, err
	}

	result := &Result{
		RequestID:    requestID,
		Mode:         req.Mode,
		Original:     req.Text,
		AssistedText: strings.TrimSpace(out),
		Provider:     backend.Provider(),
		Model:        backend.Model(),
		PromptTokens: promptTokens,
		Duration:     elapsed,
	}

	g.logger.Printf("ASSIST_OK | id=%s latency=%s chars_out=%d",
		requestID, elapsed.Round(time.Millisecond), len(result.AssistedText))
	return result, nil
}

// asGatewayError makes sure a backend failure carries an assist error type.
func asGatewayError(provider string, err error) error {
	switch KindOf(err) {
	case KindUpstream, KindMalformed:
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Provider: provider, Message: "backend timed out", Cause: err}
	}
	return &UpstreamError{Provider: provider, Cause: err}
}
