// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// DismissHint is the key hint shown under every banner.
const DismissHint = "esc to dismiss"

// =============================================================================
// ERROR PATTERNS
// =============================================================================

// errorPattern attaches suggestions to backend errors containing a keyword.
type errorPattern struct {
	keywords    []string
	suggestions []string
}

var errorPatterns = []errorPattern{
	{
		keywords:    []string{"connection refused", "unreachable", "no such host"},
		suggestions: []string{"Start Ollama with: ollama serve", "Check backend.url in the config file"},
	},
	{
		keywords:    []string{"not found", "pull"},
		suggestions: []string{"Download the model with: ollama pull <model>", "List installed models with: scribe models"},
	},
	{
		keywords:    []string{"timed out", "timeout", "deadline"},
		suggestions: []string{"Try a shorter text", "Raise backend.timeout_secs in the config file"},
	},
	{
		keywords:    []string{"401", "403", "api key", "unauthorized"},
		suggestions: []string{"Set backend.api_key or SCRIBE_API_KEY"},
	},
	{
		keywords:    []string{"429", "rate limit"},
		suggestions: []string{"Wait a minute and submit again"},
	},
}

// suggestionsFor returns the suggestions of the first matching pattern.
func suggestionsFor(msg string) []string {
	lower := strings.ToLower(msg)
	for _, p := range errorPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				return p.suggestions
			}
		}
	}
	return nil
}

// =============================================================================
// ERROR BANNER
// =============================================================================

// ErrorBanner is a dismissible box describing a failed submission.
type ErrorBanner struct {
	kind        assist.Kind
	title       string
	message     string
	suggestions []string
	width       int
}

// NewErrorBanner builds a banner for err, titled by its kind.
func NewErrorBanner(err error) ErrorBanner {
	kind := assist.KindOf(err)
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return ErrorBanner{
		kind:        kind,
		title:       BannerTitle(kind),
		message:     msg,
		suggestions: suggestionsFor(msg),
		width:       60,
	}
}

// BannerTitle returns the banner heading for an error kind.
func BannerTitle(kind assist.Kind) string {
	switch kind {
	case assist.KindValidation:
		return "Request rejected"
	case assist.KindUpstream:
		return "Backend error"
	case assist.KindMalformed:
		return "Unexpected response"
	default:
		return "Error"
	}
}

// SetWidth sets the outer width of the banner.
func (b *ErrorBanner) SetWidth(width int) {
	b.width = width
}

func (b ErrorBanner) Kind() assist.Kind     { return b.kind }
func (b ErrorBanner) Title() string         { return b.title }
func (b ErrorBanner) Message() string       { return b.message }
func (b ErrorBanner) Suggestions() []string { return b.suggestions }

// View renders the banner.
func (b ErrorBanner) View(theme *styles.Theme) string {
	inner := max(b.width-4, 10)

	parts := []string{
		theme.BannerTitle.Render(styles.StatusIndicators.Error + " " + b.title),
		lipgloss.NewStyle().Foreground(styles.TextPrimary).Width(inner).Render(b.message),
	}
	for _, s := range b.suggestions {
		parts = append(parts, theme.Muted.Render("  * ")+lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(s))
	}
	parts = append(parts, theme.BannerHint.Render(DismissHint))

	return theme.Banner.Width(inner + 2).Render(strings.Join(parts, "\n"))
}
