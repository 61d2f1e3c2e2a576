// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for scribe.
//
// Configuration is TOML (or JSON, by file extension) with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: server, backend and ui sections
//   - ValidationError / ValidateErrors: every problem found by Validate
//   - Watcher: fsnotify-based reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SCRIBE_*)
//   - ~/.scribe/config.toml, or the file named by SCRIBE_CONFIG / --config
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	addr := cfg.Addr()
//
// Follow edits while serving:
//
//	w, err := config.NewWatcher(path, func(c *config.Config) {
//	    gateway.SetBackend(newBackend(c))
//	})
//	go w.Run(ctx)
package config
