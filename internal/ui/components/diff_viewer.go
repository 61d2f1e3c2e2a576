// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/diff"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// NoChangesText is shown instead of the diff when both texts are equal.
const NoChangesText = "No changes detected between original and revised text."

// narrowWidth is the width below which the columns are stacked.
const narrowWidth = 60

// tabWidth is the number of cells a tab expands to.
const tabWidth = 4

// =============================================================================
// TOKEN WRAPPING
// =============================================================================

// Segment is a run of text sharing one diff status.
type Segment struct {
	Text   string
	Status diff.Status
}

// Line is one display line of a wrapped token sequence.
type Line []Segment

// Width returns the display width of the line.
func (l Line) Width() int {
	w := 0
	for _, s := range l {
		w += runewidth.StringWidth(s.Text)
	}
	return w
}

// String returns the line's plain text.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// WrapTokens lays classified tokens out in lines no wider than width display
// cells. Words move whole to the next line when they do not fit and are cut
// only when longer than a line. Newlines in whitespace tokens break lines;
// unchanged whitespace at a wrap point is dropped.
func WrapTokens(tokens []diff.ClassifiedToken, width int) []Line {
	if width < 1 {
		width = 1
	}

	w := &wrapper{width: width}
	for _, tok := range tokens {
		if tok.IsSpace() {
			w.space(tok.Text, tok.Status)
		} else {
			w.word(tok.Text, tok.Status)
		}
	}
	if len(w.cur) > 0 || len(w.lines) == 0 {
		w.flush()
	}
	return w.lines
}

type wrapper struct {
	width    int
	lines    []Line
	cur      Line
	curWidth int
}

func (w *wrapper) flush() {
	w.lines = append(w.lines, w.cur)
	w.cur = nil
	w.curWidth = 0
}

func (w *wrapper) add(text string, status diff.Status) {
	if n := len(w.cur); n > 0 && w.cur[n-1].Status == status {
		w.cur[n-1].Text += text
	} else {
		w.cur = append(w.cur, Segment{Text: text, Status: status})
	}
	w.curWidth += runewidth.StringWidth(text)
}

func (w *wrapper) space(text string, status diff.Status) {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))

	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			w.flush()
		}
		if part == "" {
			continue
		}
		if w.curWidth+runewidth.StringWidth(part) <= w.width {
			w.add(part, status)
			continue
		}
		if w.curWidth > 0 {
			w.flush()
		}
		if status != diff.StatusUnchanged {
			w.add(runewidth.Truncate(part, w.width, ""), status)
		}
	}
}

func (w *wrapper) word(text string, status diff.Status) {
	if w.curWidth > 0 && w.curWidth+runewidth.StringWidth(text) > w.width {
		w.flush()
	}

	for runewidth.StringWidth(text) > w.width-w.curWidth {
		head := runewidth.Truncate(text, w.width-w.curWidth, "")
		if head == "" {
			if w.curWidth > 0 {
				w.flush()
				continue
			}
			// A single rune wider than the line.
			_, size := utf8.DecodeRuneInString(text)
			head = text[:size]
		}
		w.add(head, status)
		text = text[len(head):]
		w.flush()
	}
	if text != "" {
		w.add(text, status)
	}
}

// RenderLines styles each segment by status and pads every line to width.
func RenderLines(theme *styles.Theme, lines []Line, width int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		var b strings.Builder
		for _, seg := range line {
			b.WriteString(theme.DiffStyle(seg.Status).Render(seg.Text))
		}
		if pad := width - line.Width(); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		out[i] = b.String()
	}
	return strings.Join(out, "\n")
}

// =============================================================================
// DIFF VIEW
// =============================================================================

// DiffView renders a word diff as two colour-coded columns, original on the
// left and revised on the right. Below narrowWidth the columns are stacked.
type DiffView struct {
	theme *styles.Theme
	diff  *diff.WordDiff
	width int
}

// NewDiffView creates an empty diff view.
func NewDiffView(theme *styles.Theme) *DiffView {
	return &DiffView{theme: theme, width: 80}
}

// SetDiff sets the diff to render; nil clears the view.
func (dv *DiffView) SetDiff(d *diff.WordDiff) {
	dv.diff = d
}

// SetWidth sets the total width available to the view.
func (dv *DiffView) SetWidth(width int) {
	dv.width = width
}

// View renders the diff.
func (dv *DiffView) View() string {
	if dv.diff == nil {
		return ""
	}
	if !dv.diff.HasChanges() {
		return dv.theme.InfoStyle.Render(styles.StatusIndicators.Info + " " + NoChangesText)
	}

	// Panel border and padding take four cells per column.
	if dv.width < narrowWidth {
		inner := max(dv.width-4, 1)
		return lipgloss.JoinVertical(lipgloss.Left,
			dv.column("Original Text", dv.diff.OriginalDiff, inner),
			dv.column("Revised Text", dv.diff.RevisedDiff, inner),
		)
	}

	inner := max((dv.width-1-8)/2, 1)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		dv.column("Original Text", dv.diff.OriginalDiff, inner),
		" ",
		dv.column("Revised Text", dv.diff.RevisedDiff, inner),
	)
}

func (dv *DiffView) column(title string, tokens []diff.ClassifiedToken, inner int) string {
	body := RenderLines(dv.theme, WrapTokens(tokens, inner), inner)
	content := dv.theme.PanelTitle.Render(title) + "\n" + body
	return dv.theme.Panel.Width(inner + 2).Render(content)
}

// =============================================================================
// SUMMARY AND LEGEND
// =============================================================================

// RenderSummary renders the change counts as one line.
func RenderSummary(theme *styles.Theme, c diff.Counts) string {
	item := func(label string, n int, st diff.Status) string {
		return theme.SummaryLabel.Render(label+": ") +
			theme.SummaryValue.Inherit(theme.DiffStyle(st)).Render(fmt.Sprintf(" %d ", n))
	}
	return strings.Join([]string{
		item("Added", c.Added, diff.StatusAdded),
		item("Modified", c.Modified, diff.StatusModified),
		item("Deleted", c.Deleted, diff.StatusDeleted),
	}, "   ")
}

// RenderLegend renders the colour legend.
func RenderLegend(theme *styles.Theme) string {
	return strings.Join([]string{
		theme.DiffAdded.Render(" Added "),
		theme.DiffModified.Render(" Modified "),
		theme.DiffDeleted.Render(" Deleted "),
	}, " ")
}
