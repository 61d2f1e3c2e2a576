// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app implements the Scribe terminal UI: a single Bubble Tea view with
the draft on top and the revised text and its side-by-side word diff below.

A submission claims the session.Store slot, shows the spinner and runs the
assist call in a tea.Cmd. The word diff is computed in that same goroutine by
Store.Complete, so Update only swaps in the finished submission.

Failures are routed by assist.KindOf:

  - validation errors become a warning on the status line
  - upstream and malformed-response errors open a dismissible banner
  - anything else is reported on the status line

# Key Types

  - Model: the Bubble Tea model
  - Options: backend, store, theme and export settings for New
  - KeyMap: the key bindings, see DefaultKeyMap

# Usage

	cfg, _ := config.Load()
	err := app.Run(app.Options{
		Theme:    styles.NewTheme(cfg.UI.Theme),
		Assister: cfg.NewGateway(logger),
		Mode:     cfg.Mode(),
	})
*/
package app
