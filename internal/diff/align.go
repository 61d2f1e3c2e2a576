// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"errors"
	"fmt"
)

// =============================================================================
// OPCODE TYPES
// =============================================================================

// OpTag is the kind of an alignment operation.
type OpTag int

const (
	// OpEqual covers tokens present unchanged on both sides
	OpEqual OpTag = iota
	// OpInsert covers tokens only present in the revised sequence
	OpInsert
	// OpDelete covers tokens only present in the original sequence
	OpDelete
	// OpReplace covers original tokens replaced by revised tokens
	OpReplace
)

// String returns the string representation of an opcode tag.
func (t OpTag) String() string {
	switch t {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Opcode is one alignment operation. [I1,I2) indexes the original sequence
// and [J1,J2) the revised sequence.
type Opcode struct {
	Tag OpTag
	I1  int
	I2  int
	J1  int
	J2  int
}

// String formats the opcode like "replace a[2:3] b[2:3]".
func (o Opcode) String() string {
	return fmt.Sprintf("%s a[%d:%d] b[%d:%d]", o.Tag, o.I1, o.I2, o.J1, o.J2)
}

// OriginalLen returns the number of original tokens the opcode covers.
func (o Opcode) OriginalLen() int {
	return o.I2 - o.I1
}

// RevisedLen returns the number of revised tokens the opcode covers.
func (o Opcode) RevisedLen() int {
	return o.J2 - o.J1
}

// =============================================================================
// ALIGNMENT
// =============================================================================

// step is a single unit move of the alignment walk.
type step byte

const (
	stepMatch step = iota
	stepDelete
	stepInsert
)

// Align computes the opcodes turning a into b.
//
// The alignment is a longest common subsequence over exact token text. The
// walk goes forward over a suffix LCS table: equal tokens are matched as soon
// as they meet, and on a mismatch the original token is dropped first when
// that keeps the LCS length, otherwise the revised token is taken. The first
// common tokens are therefore always preferred and the output is fully
// deterministic.
//
// Opcodes are contiguous and cover both sequences exactly once. Every run of
// changes between two equal runs becomes a single replace when it touches
// both sides. Identical sequences produce one equal opcode; two empty
// sequences produce none. When the changed middle section needs more than
// MaxCells table cells it is emitted as a single replace instead.
func Align(a, b []Token) []Opcode {
	m, n := len(a), len(b)
	prefix, suffix := trimCommon(a, b)

	steps := make([]step, 0, m+n)
	for i := 0; i < prefix; i++ {
		steps = append(steps, stepMatch)
	}
	steps = appendLCSSteps(steps, a[prefix:m-suffix], b[prefix:n-suffix])
	for i := 0; i < suffix; i++ {
		steps = append(steps, stepMatch)
	}

	return groupSteps(steps)
}

// trimCommon returns the lengths of the common prefix and suffix of a and b.
// The two never overlap.
func trimCommon(a, b []Token) (prefix, suffix int) {
	m, n := len(a), len(b)
	for prefix < m && prefix < n && a[prefix].Text == b[prefix].Text {
		prefix++
	}
	for suffix < m-prefix && suffix < n-prefix && a[m-1-suffix].Text == b[n-1-suffix].Text {
		suffix++
	}
	return prefix, suffix
}

// =============================================================================
// SIZE LIMIT
// =============================================================================

// MaxCells bounds the LCS table of a single alignment, counted after the
// common prefix and suffix are trimmed. 1<<24 int32 cells is 64 MiB.
const MaxCells = 1 << 24

// ErrTooLarge is returned by CheckSize when two texts differ over too many
// tokens to align exactly.
var ErrTooLarge = errors.New("texts too large to compare")

// CheckSize reports whether Compute(original, revised) can align the texts
// exactly. It returns an error wrapping ErrTooLarge when the changed middle
// section would need more than MaxCells table cells. Compute never fails on
// such input: Align falls back to one replace over the whole middle section.
func CheckSize(original, revised string) error {
	a, b := Tokenize(original), Tokenize(revised)
	if cells := tableCells(a, b); cells > MaxCells {
		m, n := len(a), len(b)
		return fmt.Errorf("%w: %d and %d tokens (limit %d table cells)", ErrTooLarge, m, n, MaxCells)
	}
	return nil
}

// tableCells is the number of LCS cells Align would need for a and b.
func tableCells(a, b []Token) int {
	prefix, suffix := trimCommon(a, b)
	m := len(a) - prefix - suffix
	n := len(b) - prefix - suffix
	return m * n
}

// appendLCSSteps walks the LCS table of a and b and appends one step per move.
func appendLCSSteps(steps []step, a, b []Token) []step {
	m, n := len(a), len(b)

	if m == 0 || n == 0 {
		for i := 0; i < m; i++ {
			steps = append(steps, stepDelete)
		}
		for j := 0; j < n; j++ {
			steps = append(steps, stepInsert)
		}
		return steps
	}

	// Too large for an exact table: the whole section becomes one replace.
	if m*n > MaxCells {
		for i := 0; i < m; i++ {
			steps = append(steps, stepDelete)
		}
		for j := 0; j < n; j++ {
			steps = append(steps, stepInsert)
		}
		return steps
	}

	// lcs[i*(n+1)+j] is the LCS length of a[i:] and b[j:].
	// int32 halves the table for long documents.
	width := n + 1
	lcs := make([]int32, (m+1)*width)
	for i := m - 1; i >= 0; i-- {
		row := i * width
		next := (i + 1) * width
		for j := n - 1; j >= 0; j-- {
			if a[i].Text == b[j].Text {
				lcs[row+j] = lcs[next+j+1] + 1
			} else if lcs[next+j] >= lcs[row+j+1] {
				lcs[row+j] = lcs[next+j]
			} else {
				lcs[row+j] = lcs[row+j+1]
			}
		}
	}

	i, j := 0, 0
	for i < m && j < n {
		switch {
		case a[i].Text == b[j].Text:
			steps = append(steps, stepMatch)
			i++
			j++
		case lcs[(i+1)*width+j] >= lcs[i*width+j+1]:
			steps = append(steps, stepDelete)
			i++
		default:
			steps = append(steps, stepInsert)
			j++
		}
	}
	for ; i < m; i++ {
		steps = append(steps, stepDelete)
	}
	for ; j < n; j++ {
		steps = append(steps, stepInsert)
	}

	return steps
}

// groupSteps folds unit steps into opcodes. Consecutive matches form one
// equal opcode; a maximal run of deletes and inserts forms a replace when it
// has both, otherwise a delete or an insert.
func groupSteps(steps []step) []Opcode {
	var ops []Opcode
	i, j := 0, 0

	for k := 0; k < len(steps); {
		i1, j1 := i, j

		if steps[k] == stepMatch {
			for k < len(steps) && steps[k] == stepMatch {
				i++
				j++
				k++
			}
			ops = append(ops, Opcode{Tag: OpEqual, I1: i1, I2: i, J1: j1, J2: j})
			continue
		}

		for k < len(steps) && steps[k] != stepMatch {
			if steps[k] == stepDelete {
				i++
			} else {
				j++
			}
			k++
		}

		tag := OpReplace
		switch {
		case i == i1:
			tag = OpInsert
		case j == j1:
			tag = OpDelete
		}
		ops = append(ops, Opcode{Tag: tag, I1: i1, I2: i, J1: j1, J2: j})
	}

	return ops
}
