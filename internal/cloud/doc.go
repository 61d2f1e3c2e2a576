// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides an OpenAI-compatible chat completion backend.
//
// Any server speaking the OpenAI chat completions protocol works: the OpenAI
// API itself, OpenRouter, or a local llama.cpp / vLLM server. Requests go
// through the official openai-go SDK with retries disabled.
//
// # Key Types
//
//   - Client: single-turn completion client
//   - Config: endpoint, API key, default model and timeout
//   - APIError: non-2xx answer, matching ErrAuthFailed, ErrRateLimited and
//     ErrModelNotFound through errors.Is
//
// # Usage
//
//	client := cloud.NewClient(cloud.Config{
//	    BaseURL: "http://localhost:8080/v1",
//	    Model:   "llama3",
//	})
//	text, err := client.Complete(ctx, "", prompt)
//	if errors.Is(err, cloud.ErrEmptyChoices) {
//	    // 2xx without a completion
//	}
//
// # Security
//
// API keys are never logged. Use APIKeyMasked or KeyFingerprint for display.
package cloud
