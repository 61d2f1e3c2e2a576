// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import "strings"

// Instructions sent before the user's text. Both ask for the rewritten text
// alone so the answer can be diffed against the input as-is.
const (
	grammarInstruction = "Correct the grammar, spelling, and punctuation in the following text. " +
		"Do **not** change the style, tone, vocabulary, structure, or meaning. " +
		"Respond with **only** the corrected text."

	fullInstruction = "Improve the clarity, style and academic tone of the following text. " +
		"Do **not** change the meaning and the language. " +
		"Respond with the corrected text **only**."
)

// Instruction returns the fixed instruction for a mode.
func Instruction(m Mode) string {
	if m == ModeGrammar {
		return grammarInstruction
	}
	return fullInstruction
}

// BuildPrompt joins the mode instruction and the trimmed text with a blank line.
func BuildPrompt(m Mode, text string) string {
	return Instruction(m) + "\n\n" + strings.TrimSpace(text)
}
