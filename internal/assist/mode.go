// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects the rewriting instruction sent to the model.
type Mode string

const (
	// ModeFull improves clarity, style and academic tone.
	ModeFull Mode = "full"
	// ModeGrammar fixes grammar, spelling and punctuation only.
	ModeGrammar Mode = "grammar"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeFull, ModeGrammar}

var titleCaser = cases.Title(language.English)

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	return m == ModeFull || m == ModeGrammar
}

// String returns the wire name of the mode.
func (m Mode) String() string {
	return string(m)
}

// Label returns the display name, e.g. "Grammar".
func (m Mode) Label() string {
	return titleCaser.String(string(m))
}

// Description is a one-line summary of what the mode does.
func (m Mode) Description() string {
	switch m {
	case ModeFull:
		return "Improve clarity, style and academic tone"
	case ModeGrammar:
		return "Fix grammar, spelling and punctuation only"
	default:
		return "Unknown mode"
	}
}

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	if m == ModeFull {
		return ModeGrammar
	}
	return ModeFull
}

// ParseMode accepts a mode name in any case, with surrounding whitespace.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", &ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("unknown mode %q (expected %q or %q)", s, ModeFull, ModeGrammar),
		}
	}
	return m, nil
}
