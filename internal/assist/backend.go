// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/cloud"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ollama"
)

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend generates text for a prompt with one non-streaming call.
//
// Generate must return an *UpstreamError or *MalformedResponseError on
// failure; the gateway wraps anything else as an UpstreamError.
type Backend interface {
	Provider() string
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelLister is implemented by backends that can list their models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// HealthChecker is implemented by backends that can report reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Provider names accepted in configuration.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// =============================================================================
// OLLAMA
// =============================================================================

// OllamaBackend sends prompts to Ollama's /api/generate.
type OllamaBackend struct {
	client *ollama.Client
	model  string
}

// NewOllamaBackend wraps client; an empty model uses the client default.
func NewOllamaBackend(client *ollama.Client, model string) *OllamaBackend {
	if model == "" {
		model = client.GetDefaultModel()
	}
	return &OllamaBackend{client: client, model: model}
}

func (b *OllamaBackend) Provider() string { return ProviderOllama }
func (b *OllamaBackend) Model() string    { return b.model }

// Generate returns the raw "response" field of the generate call.
func (b *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Generate(ctx, b.model, prompt)
	if err != nil {
		return "", ollamaError(err, b.model)
	}
	return resp.Response, nil
}

// ListModels returns the names of the locally pulled models.
func (b *OllamaBackend) ListModels(ctx context.Context) ([]string, error) {
	models, err := b.client.ListModels(ctx)
	if err != nil {
		return nil, ollamaError(err, b.model)
	}
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	return names, nil
}

// Ping checks that the Ollama server answers.
func (b *OllamaBackend) Ping(ctx context.Context) error {
	if err := b.client.CheckRunning(ctx); err != nil {
		return ollamaError(err, b.model)
	}
	return nil
}

func ollamaError(err error, model string) error {
	if ollama.IsInvalidResponse(err) {
		return &MalformedResponseError{Provider: ProviderOllama, Message: "malformed response from Ollama", Cause: err}
	}

	upstream := &UpstreamError{Provider: ProviderOllama, Cause: err}
	if ollama.IsModelNotFound(err) {
		upstream.Message = fmt.Sprintf("model %s is not available (try: ollama pull %s)", model, model)
	}
	var clientErr *ollama.ClientError
	if errors.As(err, &clientErr) {
		upstream.StatusCode = clientErr.StatusCode
	}
	return upstream
}

// =============================================================================
// OPENAI-COMPATIBLE
// =============================================================================

// OpenAIBackend sends prompts to an OpenAI-compatible chat completions endpoint.
type OpenAIBackend struct {
	client *cloud.Client
}

// NewOpenAIBackend wraps client.
func NewOpenAIBackend(client *cloud.Client) *OpenAIBackend {
	return &OpenAIBackend{client: client}
}

func (b *OpenAIBackend) Provider() string { return ProviderOpenAI }
func (b *OpenAIBackend) Model() string    { return b.client.GetModel() }

// Endpoint returns the base URL requests go to.
func (b *OpenAIBackend) Endpoint() string { return b.client.BaseURL() }

// MaskedKey describes the API key for logs without exposing it.
func (b *OpenAIBackend) MaskedKey() string { return b.client.APIKeyMasked() }

// Generate returns the content of the first completion choice.
func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := b.client.Complete(ctx, "", prompt)
	if err != nil {
		return "", openAIError(err)
	}
	return text, nil
}

// ListModels returns the model IDs the endpoint serves.
func (b *OpenAIBackend) ListModels(ctx context.Context) ([]string, error) {
	ids, err := b.client.ListModels(ctx)
	if err != nil {
		return nil, openAIError(err)
	}
	return ids, nil
}

// Ping lists models, the cheapest authenticated call the protocol offers.
func (b *OpenAIBackend) Ping(ctx context.Context) error {
	_, err := b.ListModels(ctx)
	return err
}

func openAIError(err error) error {
	if errors.Is(err, cloud.ErrEmptyChoices) {
		return &MalformedResponseError{Provider: ProviderOpenAI, Message: "malformed response from endpoint", Cause: err}
	}

	upstream := &UpstreamError{Provider: ProviderOpenAI, Cause: err}
	var apiErr *cloud.APIError
	if errors.As(err, &apiErr) {
		upstream.StatusCode = apiErr.Status
	}
	return upstream
}

// =============================================================================
// ASSISTER
// =============================================================================

// Assister is anything that can serve a Request: the in-process Gateway or
// a client for a remote one.
type Assister interface {
	Assist(ctx context.Context, req Request) (*Result, error)
}

var _ Assister = (*Gateway)(nil)
