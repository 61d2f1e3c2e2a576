// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// =============================================================================
// STATUS LEVEL
// =============================================================================

// Level is the severity of a status bar message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Icon returns the ASCII indicator for the level.
func (l Level) Icon() string {
	switch l {
	case LevelSuccess:
		return styles.StatusIndicators.Success
	case LevelWarning:
		return styles.StatusIndicators.Warning
	case LevelError:
		return styles.StatusIndicators.Error
	default:
		return styles.StatusIndicators.Info
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is a key hint shown on the right of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are shown when the terminal is wide enough.
var DefaultShortcuts = []Shortcut{
	{"ctrl+s", "submit"},
	{"tab", "mode"},
	{"ctrl+y", "copy"},
	{"ctrl+e", "export"},
	{"f1", "help"},
	{"ctrl+c", "quit"},
}

// StatusBar is the bottom line: a transient message on the left and key
// hints on the right.
type StatusBar struct {
	theme     *styles.Theme
	width     int
	message   string
	level     Level
	shortcuts []Shortcut
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		theme:     theme,
		width:     80,
		shortcuts: DefaultShortcuts,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetMessage shows msg at the given level.
func (s *StatusBar) SetMessage(msg string, level Level) {
	s.message = msg
	s.level = level
}

// Clear removes the message.
func (s *StatusBar) Clear() {
	s.message = ""
	s.level = LevelInfo
}

// Message returns the current message and its level.
func (s *StatusBar) Message() (string, Level) {
	return s.message, s.level
}

func (s *StatusBar) levelStyle() lipgloss.Style {
	switch s.level {
	case LevelSuccess:
		return s.theme.SuccessStyle
	case LevelWarning:
		return s.theme.WarningStyle
	case LevelError:
		return s.theme.ErrorStyle
	default:
		return s.theme.InfoStyle
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := ""
	if s.message != "" {
		left = s.levelStyle().Render(s.level.Icon() + " " + s.message)
	}

	inner := s.width - 2
	right := ""
	for i := len(s.shortcuts); i > 0; i-- {
		right = s.renderShortcuts(s.shortcuts[:i])
		if lipgloss.Width(left)+lipgloss.Width(right)+2 <= inner {
			break
		}
		right = ""
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) renderShortcuts(list []Shortcut) string {
	parts := make([]string, len(list))
	for i, sc := range list {
		parts[i] = s.theme.ShortcutKey.Render(sc.Key) + " " + s.theme.ShortcutDesc.Render(sc.Desc)
	}
	return strings.Join(parts, "  ")
}
