// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrEmptyText is the message returned for blank input.
const ErrEmptyText = "Empty text input."

// ValidationError is a malformed request, detected before any backend call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UpstreamError is a backend failure: unreachable, timed out, or a non-2xx
// answer.
type UpstreamError struct {
	Provider   string
	StatusCode int // zero when no response was received
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError is a 2xx answer the gateway could not use.
type MalformedResponseError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// ERROR KINDS
// =============================================================================

// Kind groups errors by how callers should react to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUpstream
	KindMalformed
)

// String returns the kind name used in logs and JSON.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// KindOf classifies err by the first assist error type in its chain.
func KindOf(err error) Kind {
	var (
		validationErr *ValidationError
		upstreamErr   *UpstreamError
		malformedErr  *MalformedResponseError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &malformedErr):
		return KindMalformed
	case errors.As(err, &upstreamErr):
		return KindUpstream
	default:
		return KindUnknown
	}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	return KindOf(err) == KindUpstream
}

// IsMalformed reports whether err is a MalformedResponseError.
func IsMalformed(err error) bool {
	return KindOf(err) == KindMalformed
}
