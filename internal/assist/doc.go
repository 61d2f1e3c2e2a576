// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assist turns a user's text and a mode into one LLM rewrite.
//
// The gateway validates the request, builds the prompt for the mode, makes a
// single non-streaming call to the configured backend under a deadline and
// classifies every failure as a validation, upstream or malformed-response
// error.
//
// # Key Types
//
//   - Gateway: validates, prompts, calls the backend, logs the outcome
//   - Backend: one-call text generator (OllamaBackend, OpenAIBackend)
//   - Request / Result: typed submission and rewrite
//   - ValidationError, UpstreamError, MalformedResponseError: error kinds
//
// # Usage
//
//	backend := assist.NewOllamaBackend(ollama.NewClient(), "llama3")
//	gw := assist.NewGateway(backend).WithTimeout(90 * time.Second)
//
//	res, err := gw.Assist(ctx, assist.Request{Text: text, Mode: assist.ModeGrammar})
//	switch assist.KindOf(err) {
//	case assist.KindValidation:
//	    // show a form warning
//	case assist.KindUpstream, assist.KindMalformed:
//	    // show an error banner
//	}
package assist
