// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"log"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/cloud"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ollama"
)

// =============================================================================
// BACKEND CONSTRUCTION
// =============================================================================

// NewBackend builds the backend named by backend.provider. The config is
// expected to have passed Validate; an unknown provider falls back to Ollama.
func (c *Config) NewBackend() assist.Backend {
	switch c.Backend.Provider {
	case ProviderOpenAI:
		return assist.NewOpenAIBackend(cloud.NewClient(cloud.Config{
			BaseURL: c.Backend.URL,
			APIKey:  c.Backend.APIKey,
			Model:   c.Backend.Model,
			Timeout: c.Timeout(),
		}))
	default:
		client := ollama.NewClientWithConfig(&ollama.ClientConfig{
			BaseURL:      c.Backend.URL,
			Timeout:      c.Timeout(),
			DefaultModel: c.Backend.Model,
		})
		return assist.NewOllamaBackend(client, c.Backend.Model)
	}
}

// NewGateway returns a gateway over NewBackend with the configured timeout.
// A nil logger keeps the standard logger.
func (c *Config) NewGateway(logger *log.Logger) *assist.Gateway {
	if logger == nil {
		logger = log.Default()
	}
	backend := c.NewBackend()
	if ob, ok := backend.(*assist.OpenAIBackend); ok {
		logger.Printf("BACKEND_OPENAI | url=%s model=%s key=%s", ob.Endpoint(), ob.Model(), ob.MaskedKey())
	}
	return assist.NewGateway(backend).
		WithTimeout(c.Timeout()).
		WithLogger(logger)
}
