// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import "fmt"

// =============================================================================
// CLASSIFICATION TYPES
// =============================================================================

// Status is the classification of a token in one side of the diff.
type Status int

const (
	// StatusUnchanged marks tokens covered by an equal opcode
	StatusUnchanged Status = iota
	// StatusDeleted marks original tokens covered by a delete opcode
	StatusDeleted
	// StatusAdded marks revised tokens covered by an insert opcode
	StatusAdded
	// StatusModified marks tokens on either side of a replace opcode
	StatusModified
)

// String returns the string representation of a status.
func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusDeleted:
		return "deleted"
	case StatusAdded:
		return "added"
	case StatusModified:
		return "modified"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name so JSON output reads "added"
// rather than 2.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status written by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unchanged":
		*s = StatusUnchanged
	case "deleted":
		*s = StatusDeleted
	case "added":
		*s = StatusAdded
	case "modified":
		*s = StatusModified
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// ClassifiedToken pairs a token with its status.
type ClassifiedToken struct {
	Token
	Status Status `json:"status"`
}

// Counts aggregates change counts over a diff. Whitespace tokens count the
// same as words.
type Counts struct {
	Added    int `json:"added"`
	Modified int `json:"modified"`
	Deleted  int `json:"deleted"`
}

// Total returns the sum of all change counts.
func (c Counts) Total() int {
	return c.Added + c.Modified + c.Deleted
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classify maps opcodes to per-token statuses for both sides.
//
//   - equal   -> unchanged on both sides
//   - delete  -> deleted on the original side only
//   - insert  -> added on the revised side only
//   - replace -> modified on both sides
//
// ops must come from Align(a, b).
func Classify(a, b []Token, ops []Opcode) (original, revised []ClassifiedToken) {
	original = make([]ClassifiedToken, 0, len(a))
	revised = make([]ClassifiedToken, 0, len(b))

	for _, op := range ops {
		switch op.Tag {
		case OpEqual:
			original = appendClassified(original, a[op.I1:op.I2], StatusUnchanged)
			revised = appendClassified(revised, b[op.J1:op.J2], StatusUnchanged)
		case OpDelete:
			original = appendClassified(original, a[op.I1:op.I2], StatusDeleted)
		case OpInsert:
			revised = appendClassified(revised, b[op.J1:op.J2], StatusAdded)
		case OpReplace:
			original = appendClassified(original, a[op.I1:op.I2], StatusModified)
			revised = appendClassified(revised, b[op.J1:op.J2], StatusModified)
		}
	}

	return original, revised
}

func appendClassified(dst []ClassifiedToken, tokens []Token, status Status) []ClassifiedToken {
	for _, t := range tokens {
		dst = append(dst, ClassifiedToken{Token: t, Status: status})
	}
	return dst
}

// Count aggregates the statuses of a classified pair. Added and modified
// tokens are counted on the revised side, deleted tokens on the original side.
func Count(original, revised []ClassifiedToken) Counts {
	var c Counts
	for _, ct := range revised {
		switch ct.Status {
		case StatusAdded:
			c.Added++
		case StatusModified:
			c.Modified++
		}
	}
	for _, ct := range original {
		if ct.Status == StatusDeleted {
			c.Deleted++
		}
	}
	return c
}
