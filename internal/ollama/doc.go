// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// The writing assistant only needs one round trip per submission, so this
// client speaks the non-streaming /api/generate endpoint, plus /api/tags for
// model listing and the root endpoint for health checks.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - GenerateRequest: Request body for /api/generate
//   - GenerateResponse: Generated text with timing metrics
//   - ClientError: Typed error (not running, timeout, status, invalid response)
//
// # Usage
//
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
//	    BaseURL: "http://localhost:11434",
//	    Timeout: 90 * time.Second,
//	})
//	resp, err := client.Generate(ctx, "llama3", prompt)
//	switch {
//	case ollama.IsTimeout(err):
//	    // model too slow
//	case ollama.IsInvalidResponse(err):
//	    // 2xx without a usable body
//	}
package ollama
