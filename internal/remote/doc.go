// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remote is an HTTP client for a running `scribe serve`.
//
// Client.Assist has the same contract as assist.Gateway.Assist, with the
// gateway's status codes mapped back onto the assist error kinds:
//
//	422       -> *assist.ValidationError
//	500, 5xx  -> *assist.UpstreamError (the "LLM error: " prefix is dropped)
//	bad 200   -> *assist.MalformedResponseError
//
// The TUI and REPL use it when ui.gateway_url is set.
package remote
