// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
)

// submissionDoneMsg carries the outcome of one assist call. sub is set on
// success, err otherwise.
type submissionDoneMsg struct {
	ticketID string
	sub      *session.Submission
	err      error
}

// exportDoneMsg reports a file export.
type exportDoneMsg struct {
	label string
	path  string
	err   error
}

// clipboardMsg reports a clipboard copy.
type clipboardMsg struct {
	err error
}

// statusClearMsg clears the status line if it still shows message id.
type statusClearMsg struct {
	id int
}
