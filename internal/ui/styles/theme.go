// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/diff"
)

// Theme preference names accepted in ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	ModeFull       lipgloss.Style
	ModeGrammar    lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputBox        lipgloss.Style
	InputBoxFocused lipgloss.Style
	InputLabel      lipgloss.Style
	CharCount       lipgloss.Style

	// ==========================================================================
	// RESULTS
	// ==========================================================================

	SectionTitle lipgloss.Style
	Panel        lipgloss.Style
	PanelTitle   lipgloss.Style
	RevisedText  lipgloss.Style

	DiffUnchanged lipgloss.Style
	DiffAdded     lipgloss.Style
	DiffModified  lipgloss.Style
	DiffDeleted   lipgloss.Style

	SummaryLabel lipgloss.Style
	SummaryValue lipgloss.Style

	// ==========================================================================
	// FEEDBACK
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	Banner       lipgloss.Style
	BannerTitle  lipgloss.Style
	BannerHint   lipgloss.Style

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme detects the terminal and builds the styles. pref is "dark",
// "light" or "auto"; anything other than dark or light is auto.
func NewTheme(pref string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(pref) {
	case ThemeDark:
		isDark = true
	case ThemeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	// Adaptive colors resolve against the default renderer.
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Width:        80,
		Height:       24,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.ModeFull = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Cyan).
		Padding(0, 1)

	t.ModeGrammar = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Amber).
		Padding(0, 1)

	// Input
	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.InputBoxFocused = t.InputBox.
		BorderForeground(Purple)

	t.InputLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Results
	t.SectionTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginTop(1)

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.RevisedText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.DiffUnchanged = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.DiffAdded = lipgloss.NewStyle().
		Foreground(DiffAddedFg).
		Background(DiffAddedBg)

	t.DiffModified = lipgloss.NewStyle().
		Foreground(DiffModifiedFg).
		Background(DiffModifiedBg)

	t.DiffDeleted = lipgloss.NewStyle().
		Foreground(DiffDeletedFg).
		Background(DiffDeletedBg).
		Strikethrough(true)

	t.SummaryLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SummaryValue = lipgloss.NewStyle().
		Bold(true)

	// Feedback
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Banner = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Background(RoseDeep).
		Padding(0, 1)

	t.BannerTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.BannerHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(Cyan)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// DiffStyle returns the style for a token status.
func (t *Theme) DiffStyle(s diff.Status) lipgloss.Style {
	switch s {
	case diff.StatusAdded:
		return t.DiffAdded
	case diff.StatusModified:
		return t.DiffModified
	case diff.StatusDeleted:
		return t.DiffDeleted
	default:
		return t.DiffUnchanged
	}
}

// GlamourStyle names the glamour standard style matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return ThemeDark
	}
	return ThemeLight
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, diff columns stacked
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
