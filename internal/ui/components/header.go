// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/util"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: app name, tagline, mode badge and backend.
type Header struct {
	Title    string
	Subtitle string
	Mode     assist.Mode
	Provider string
	Model    string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header in full mode.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "Scribe",
		Subtitle: "LLM writing assistant",
		Mode:     assist.ModeFull,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetMode updates the mode badge.
func (h *Header) SetMode(mode assist.Mode) {
	h.Mode = mode
}

// SetBackend updates the provider and model shown on the right.
func (h *Header) SetBackend(provider, model string) {
	h.Provider = provider
	h.Model = model
}

// ModeBadge renders the badge for the current mode.
func (h *Header) ModeBadge() string {
	style := h.theme.ModeFull
	if h.Mode == assist.ModeGrammar {
		style = h.theme.ModeGrammar
	}
	return style.Render(strings.ToUpper(h.Mode.Label()))
}

func (h *Header) backend() string {
	switch {
	case h.Provider != "" && h.Model != "":
		return h.Provider + "/" + h.Model
	case h.Model != "":
		return h.Model
	default:
		return h.Provider
	}
}

// View renders the header as one full-width line, falling back to the
// compact form on narrow terminals.
func (h *Header) View() string {
	if h.Width < 60 {
		return h.ViewCompact()
	}

	left := h.theme.HeaderTitle.Render(h.Title) + "  " +
		h.theme.HeaderSubtitle.Render(h.Subtitle)
	badge := h.ModeBadge()
	right := badge
	if b := h.backend(); b != "" {
		// Padding, one gap cell and the separator take four cells.
		room := h.Width - 4 - lipgloss.Width(left) - lipgloss.Width(badge)
		if room > 0 {
			right = h.theme.Muted.Render(util.TruncateWidth(b, room)) + " " + badge
		}
	}

	// Header padding takes two cells.
	gap := h.Width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return h.theme.Header.Width(h.Width).Render(left + strings.Repeat(" ", gap) + right)
}

// ViewCompact renders title and mode badge only.
func (h *Header) ViewCompact() string {
	return h.theme.Header.Render(h.theme.HeaderTitle.Render(h.Title) + " " + h.ModeBadge())
}
