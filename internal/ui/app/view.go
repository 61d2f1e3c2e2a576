// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/components"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

// layout resizes every component after a window or banner change.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.diffView.SetWidth(m.width - 2)

	inputHeight := 8
	if m.height < 28 {
		inputHeight = 4
	}
	// Input box border and padding take four cells.
	m.input.SetWidth(max(m.width-4, 10))
	m.input.SetHeight(inputHeight)

	// header + label + boxed input + spinner line + status bar
	reserved := 1 + 1 + inputHeight + 2 + 1 + 1
	if m.banner != nil {
		m.banner.SetWidth(m.width)
		reserved += lipgloss.Height(m.banner.View(m.theme))
	}
	m.results.Width = m.width
	m.results.Height = max(m.height-reserved, 3)

	m.refreshResults()
}

// refreshResults rebuilds the scrollable results pane from the store.
func (m *Model) refreshResults() {
	sub := m.store.Current()
	if sub == nil {
		m.diffView.SetDiff(nil)
		m.results.SetContent(m.theme.Muted.Render("The revised text and its comparison appear here after you submit."))
		return
	}
	m.diffView.SetDiff(sub.Diff)

	var b strings.Builder
	b.WriteString(m.theme.SectionTitle.Render("Revised Text"))
	b.WriteString("\n")
	b.WriteString(m.theme.RevisedText.Width(max(m.width-2, 10)).Render(sub.Revised))
	b.WriteString("\n")

	b.WriteString(m.theme.SectionTitle.Render("Comparison"))
	b.WriteString("\n")
	if sub.Diff.HasChanges() {
		b.WriteString(components.RenderLegend(m.theme))
		b.WriteString("\n")
	}
	b.WriteString(m.diffView.View())
	b.WriteString("\n")

	if sub.Diff.HasChanges() {
		b.WriteString(m.theme.SectionTitle.Render("Changes Summary"))
		b.WriteString("\n")
		b.WriteString(components.RenderSummary(m.theme, sub.Counts()))
		b.WriteString("\n")
	}

	meta := fmt.Sprintf("Mode: %s | Model: %s | Time: %s", sub.Mode.Label(), sub.Model, sub.Elapsed())
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(meta))

	m.results.SetContent(b.String())
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the writing view.
func (m Model) View() string {
	text := m.input.Value()
	count := fmt.Sprintf("%s, %s",
		util.Plural(util.RuneLen(text), "char", "chars"),
		util.Plural(len(strings.Fields(text)), "word", "words"))

	label := m.theme.InputLabel.Render(InputLabel) + "  " + m.theme.CharCount.Render(count)

	box := m.theme.InputBox
	if m.state == StateInput {
		box = m.theme.InputBoxFocused
	}

	sections := []string{
		m.header.View(),
		label,
		box.Render(m.input.View()),
		m.spinner.View(),
	}

	if m.banner != nil {
		sections = append(sections, m.banner.View(m.theme))
	}

	if m.showHelp {
		sections = append(sections, components.HelpView(m.theme, m.width))
	} else {
		sections = append(sections, m.results.View())
	}

	sections = append(sections, m.statusBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
