// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff provides word-level diff computation between an original text
// and a revised text.
//
// The pipeline has three pure stages:
//
//  1. Tokenize splits a string into alternating runs of whitespace and
//     non-whitespace characters. Joining the tokens gives back the input.
//  2. Align computes an LCS alignment between two token sequences and returns
//     contiguous equal/insert/delete/replace opcodes.
//  3. Classify tags every token of both sides as unchanged, added, deleted or
//     modified, and Count aggregates the tags.
//
// # Key Types
//
//   - Token: a whitespace or word run of the source string
//   - Opcode: one alignment operation over half-open index ranges
//   - ClassifiedToken: a token with its Status
//   - WordDiff: the complete result for a pair of strings
//
// # Usage
//
//	wd := diff.Compute(original, revised)
//	if !wd.HasChanges() {
//		fmt.Println("No changes detected")
//	}
//	fmt.Println(wd.Summary())
//	fmt.Println(diff.FormatInline(wd))
//
// None of the functions keep state, so they can be called from any goroutine.
package diff
