// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the result of the last submission.
//
// Store replaces per-render UI state with one explicitly owned slot: it starts
// empty, a completed submission replaces whatever was there, and at most one
// submission can be in flight at a time.
//
// # Key Types
//
//   - Store: single-slot last-result store with an in-flight guard
//   - Ticket: handle for the in-flight submission
//   - Submission: original, revised text and their word diff
//
// # Usage
//
//	ticket, err := store.Begin(text, assist.ModeGrammar)
//	if errors.Is(err, session.ErrBusy) {
//	    return // already waiting for the model
//	}
//	res, err := gateway.Assist(ctx, assist.Request{Text: text, Mode: ticket.Mode})
//	if err != nil {
//	    store.Fail(ticket)
//	    return
//	}
//	sub, _ := store.Complete(ticket, res)
//	render(sub.Diff)
package session
