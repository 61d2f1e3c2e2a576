// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/diff"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/components"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders help text on terminals; nil falls back to raw text.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for the terminal, or returns it unchanged
// when rendering is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func helpGuide() string {
	return components.HelpMarkdown + "\n## Modes\n\n" + components.ModeHelp() + "\n"
}

// =============================================================================
// SUBMISSION OUTPUT
// =============================================================================

// printer writes submissions and diffs either styled or as plain text.
type printer struct {
	w     io.Writer
	color bool
	width int
	theme *styles.Theme
}

func newPrinter(w io.Writer, color bool) *printer {
	p := &printer{w: w, color: color, width: GetTerminalWidth()}
	if color {
		p.theme = styles.NewTheme(styles.ThemeAuto)
	}
	return p
}

// submission prints the revised text followed by the comparison and the
// change summary. Plain mode prints only the revised text so it pipes well.
func (p *printer) submission(sub *session.Submission) {
	if !p.color {
		fmt.Fprintln(p.w, strings.TrimRight(sub.Revised, "\n"))
		return
	}

	fmt.Fprintln(p.w, sectionStyle.Render("Revised Text"))
	fmt.Fprintln(p.w, sub.Revised)
	fmt.Fprintln(p.w)
	p.diff(sub.Diff)
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf("Mode: %s | Model: %s | Time: %s",
		sub.Mode.Label(), sub.Model, sub.Elapsed())))
}

// diff prints a side-by-side comparison and the counts, or the wdiff-style
// inline form and a summary line without colour.
func (p *printer) diff(d *diff.WordDiff) {
	if !p.color {
		if !d.HasChanges() {
			fmt.Fprintln(p.w, components.NoChangesText)
			return
		}
		fmt.Fprintln(p.w, strings.TrimRight(diff.FormatInline(d), "\n"))
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, d.Summary())
		return
	}

	dv := components.NewDiffView(p.theme)
	dv.SetWidth(p.width)
	dv.SetDiff(d)

	fmt.Fprintln(p.w, sectionStyle.Render("Comparison"))
	fmt.Fprintln(p.w, components.RenderLegend(p.theme))
	fmt.Fprintln(p.w, dv.View())
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, sectionStyle.Render("Changes Summary"))
	fmt.Fprintln(p.w, components.RenderSummary(p.theme, d.Counts))
}
