// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"
)

// =============================================================================
// WORD DIFF
// =============================================================================

// WordDiff is the complete word-level comparison of two strings.
type WordDiff struct {
	Original       string            `json:"-"`
	Revised        string            `json:"-"`
	OriginalTokens []Token           `json:"-"`
	RevisedTokens  []Token           `json:"-"`
	Opcodes        []Opcode          `json:"-"`
	OriginalDiff   []ClassifiedToken `json:"original_diff"`
	RevisedDiff    []ClassifiedToken `json:"revised_diff"`
	Counts         Counts            `json:"counts"`
}

// Compute runs the full pipeline: tokenize both strings, align them,
// classify the tokens and count the changes.
func Compute(original, revised string) *WordDiff {
	a := Tokenize(original)
	b := Tokenize(revised)
	ops := Align(a, b)
	origDiff, revDiff := Classify(a, b, ops)

	return &WordDiff{
		Original:       original,
		Revised:        revised,
		OriginalTokens: a,
		RevisedTokens:  b,
		Opcodes:        ops,
		OriginalDiff:   origDiff,
		RevisedDiff:    revDiff,
		Counts:         Count(origDiff, revDiff),
	}
}

// HasChanges reports whether the two texts differ at all. Callers use it to
// show a "no changes" state instead of rendering an all-unchanged diff.
func (d *WordDiff) HasChanges() bool {
	return d.Original != d.Revised
}

// Summary returns a human-readable summary of the diff.
func (d *WordDiff) Summary() string {
	if !d.HasChanges() {
		return "No changes"
	}
	return fmt.Sprintf("%d added, %d modified, %d deleted",
		d.Counts.Added, d.Counts.Modified, d.Counts.Deleted)
}

// =============================================================================
// INLINE FORMAT
// =============================================================================

// FormatInline renders the diff as a single text in wdiff style: deleted
// original tokens as [-text-], added revised tokens as {+text+}, and a
// replace as [-old-]{+new+}. It is meant for output that cannot carry colour.
func FormatInline(d *WordDiff) string {
	var sb strings.Builder

	for _, op := range d.Opcodes {
		switch op.Tag {
		case OpEqual:
			sb.WriteString(Join(d.OriginalTokens[op.I1:op.I2]))
		case OpDelete:
			sb.WriteString("[-" + Join(d.OriginalTokens[op.I1:op.I2]) + "-]")
		case OpInsert:
			sb.WriteString("{+" + Join(d.RevisedTokens[op.J1:op.J2]) + "+}")
		case OpReplace:
			sb.WriteString("[-" + Join(d.OriginalTokens[op.I1:op.I2]) + "-]")
			sb.WriteString("{+" + Join(d.RevisedTokens[op.J1:op.J2]) + "+}")
		}
	}

	return sb.String()
}
