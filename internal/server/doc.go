// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the assist gateway over HTTP.
//
// The /assist contract matches the browser frontend's: a JSON body of
// {"text", "mode"} in, {"assisted_text"} out, 422 for bad input and 500
// with an "LLM error: " detail for any backend failure.
//
// # Endpoints
//
//   - POST /assist - rewrite text in "full" or "grammar" mode
//   - POST /diff   - word-level comparison of two texts, no backend call
//   - GET  /health - server status and backend reachability
//   - GET  /models - models offered by the backend
//
// # Middleware
//
// Recovery, request IDs, request logging, security headers, CORS, a per-IP
// token bucket rate limiter (golang.org/x/time/rate) and a body size cap,
// composed with Chain.
//
// # Key Types
//
//   - Server: routes plus lifecycle (Start, Serve, Shutdown)
//   - RateLimiter: per-client limiter set
//   - FieldError, ValidationResponse, DetailResponse: error bodies
//
// # Usage
//
//	cfg, _ := config.Load()
//	srv := server.NewServer(cfg, cfg.NewGateway(nil)).WithVersion(version)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
package server
