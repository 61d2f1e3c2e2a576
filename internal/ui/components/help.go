// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// HelpMarkdown is the "How to use this tool" guide shown by the help overlay
// and by `scribe help`.
const HelpMarkdown = `# How to use this tool

1. Type or paste your text into the input box.
2. Pick a mode with **tab**: *Full* improves content and style, *Grammar* only fixes grammar errors.
3. Press **ctrl+s** to submit and wait while your text is processed.
4. Read the revised text, then compare both versions side by side.
5. Copy the revised text with **ctrl+y**, or export it with **ctrl+e** (text) and **ctrl+r** (comparison report).

## Colour legend

| Colour | Meaning |
|--------|---------|
| Green  | Added in the revised text |
| Orange | Modified from the original |
| Red, struck through | Deleted from the original |

## Keys

| Key | Action |
|-----|--------|
| tab | Switch mode |
| ctrl+s | Submit |
| ctrl+y | Copy revised text |
| ctrl+e | Export revised text |
| ctrl+r | Export comparison report |
| ctrl+l | Load sample text |
| pgup / pgdown | Scroll results |
| f1 | Toggle this help |
| esc | Dismiss banner or help |
| ctrl+c | Quit |
`

// ModeHelp returns one line per mode with its description.
func ModeHelp() string {
	var b strings.Builder
	for _, m := range assist.Modes {
		b.WriteString(m.Label())
		b.WriteString(": ")
		b.WriteString(m.Description())
		b.WriteString("\n")
	}
	return b.String()
}

// RenderMarkdown renders md for the terminal using the theme's glamour
// style. On renderer failure the raw markdown is returned.
func RenderMarkdown(theme *styles.Theme, md string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// HelpView renders the help overlay.
func HelpView(theme *styles.Theme, width int) string {
	return RenderMarkdown(theme, HelpMarkdown, width-4) + "\n\n" +
		theme.Muted.Render("Modes\n"+ModeHelp()) +
		theme.BannerHint.Render(DismissHint)
}
