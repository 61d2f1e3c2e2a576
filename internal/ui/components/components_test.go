// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/diff"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

func lineStrings(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func plainTokens(s string) []diff.ClassifiedToken {
	toks := diff.Tokenize(s)
	out := make([]diff.ClassifiedToken, len(toks))
	for i, t := range toks {
		out[i] = diff.ClassifiedToken{Token: t}
	}
	return out
}

// =============================================================================
// WRAP TESTS
// =============================================================================

func TestWrapTokens(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		width int
		want  []string
	}{
		{"fits", "hello world", 20, []string{"hello world"}},
		{"wraps at space", "hello world foo", 11, []string{"hello world", "foo"}},
		{"long word cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"newlines kept", "a\n\nb", 10, []string{"a", "", "b"}},
		{"crlf", "a\r\nb", 10, []string{"a", "b"}},
		{"tab expands", "a\tb", 10, []string{"a    b"}},
		{"wide runes", "日本語テキスト", 6, []string{"日本語", "テキス", "ト"}},
		{"empty", "", 10, []string{""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := lineStrings(WrapTokens(plainTokens(tc.input), tc.width))
			if fmt.Sprint(got) != fmt.Sprint(tc.want) {
				t.Errorf("WrapTokens(%q, %d) = %q, want %q", tc.input, tc.width, got, tc.want)
			}
		})
	}
}

func TestWrapTokens_NeverExceedsWidth(t *testing.T) {
	text := "Globalization has transformed how businesses operate, and its effects " +
		"reach well beyond trade into culture, language and education."
	for _, width := range []int{1, 5, 13, 30} {
		for _, l := range WrapTokens(plainTokens(text), width) {
			if l.Width() > width {
				t.Errorf("width %d: line %q is %d cells", width, l.String(), l.Width())
			}
		}
	}
}

func TestWrapTokens_KeepsStatuses(t *testing.T) {
	d := diff.Compute("I has a pen.", "I have a pen.")
	lines := WrapTokens(d.RevisedDiff, 80)

	if len(lines) != 1 || lines[0].String() != "I have a pen." {
		t.Fatalf("lines = %q", lineStrings(lines))
	}

	found := false
	for _, seg := range lines[0] {
		if seg.Text == "have" {
			found = true
			if seg.Status != diff.StatusModified {
				t.Errorf("\"have\" status = %s, want modified", seg.Status)
			}
		}
	}
	if !found {
		t.Errorf("no segment for \"have\" in %+v", lines[0])
	}
}

func TestWrapTokens_ChangedSpaceSurvivesWrap(t *testing.T) {
	tokens := []diff.ClassifiedToken{
		{Token: diff.Token{Text: "abc", Kind: diff.TokenWord}, Status: diff.StatusAdded},
		{Token: diff.Token{Text: "   ", Kind: diff.TokenSpace}, Status: diff.StatusAdded},
	}
	got := lineStrings(WrapTokens(tokens, 3))
	if fmt.Sprint(got) != fmt.Sprint([]string{"abc", "   "}) {
		t.Errorf("lines = %q", got)
	}
}

// =============================================================================
// DIFF VIEW TESTS
// =============================================================================

func TestDiffView_Empty(t *testing.T) {
	dv := NewDiffView(styles.NewTheme(styles.ThemeDark))
	if dv.View() != "" {
		t.Error("view without a diff should be empty")
	}
}

func TestDiffView_NoChanges(t *testing.T) {
	dv := NewDiffView(styles.NewTheme(styles.ThemeDark))
	dv.SetDiff(diff.Compute("Same text.", "Same text."))

	if !strings.Contains(ansi.Strip(dv.View()), NoChangesText) {
		t.Errorf("expected %q in view", NoChangesText)
	}
}

func TestDiffView_Layout(t *testing.T) {
	d := diff.Compute("The cat sat on the mat.", "The big cat sat on a mat.")

	sideBySide := func(view string) bool {
		for _, line := range strings.Split(ansi.Strip(view), "\n") {
			if strings.Contains(line, "Original Text") && strings.Contains(line, "Revised Text") {
				return true
			}
		}
		return false
	}

	dv := NewDiffView(styles.NewTheme(styles.ThemeDark))
	dv.SetDiff(d)

	dv.SetWidth(100)
	wide := dv.View()
	if !sideBySide(wide) {
		t.Errorf("wide view should put the panels side by side:\n%s", ansi.Strip(wide))
	}
	for _, line := range strings.Split(wide, "\n") {
		if w := ansi.StringWidth(line); w > 100 {
			t.Errorf("line is %d cells wide, want <= 100", w)
		}
	}

	dv.SetWidth(50)
	narrow := dv.View()
	if sideBySide(narrow) {
		t.Error("narrow view should stack the panels")
	}
	if !strings.Contains(ansi.Strip(narrow), "big") {
		t.Error("narrow view lost the added word")
	}
}

func TestRenderSummary(t *testing.T) {
	theme := styles.NewTheme(styles.ThemeDark)
	got := ansi.Strip(RenderSummary(theme, diff.Counts{Added: 2, Modified: 1, Deleted: 0}))

	for _, want := range []string{"Added:  2", "Modified:  1", "Deleted:  0"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestRenderLegend(t *testing.T) {
	got := ansi.Strip(RenderLegend(styles.NewTheme(styles.ThemeLight)))
	for _, want := range []string{"Added", "Modified", "Deleted"} {
		if !strings.Contains(got, want) {
			t.Errorf("legend %q missing %q", got, want)
		}
	}
}

// =============================================================================
// ERROR BANNER TESTS
// =============================================================================

func TestNewErrorBanner_Titles(t *testing.T) {
	testCases := []struct {
		err  error
		want string
	}{
		{&assist.ValidationError{Field: "text", Message: assist.ErrEmptyText}, "Request rejected"},
		{&assist.UpstreamError{Provider: "ollama", Message: "ollama unreachable"}, "Backend error"},
		{&assist.MalformedResponseError{Provider: "ollama", Message: "missing response"}, "Unexpected response"},
		{errors.New("boom"), "Error"},
	}

	for _, tc := range testCases {
		b := NewErrorBanner(tc.err)
		if b.Title() != tc.want {
			t.Errorf("NewErrorBanner(%T).Title() = %q, want %q", tc.err, b.Title(), tc.want)
		}
		if b.Message() != tc.err.Error() {
			t.Errorf("Message() = %q", b.Message())
		}
	}
}

func TestNewErrorBanner_Suggestions(t *testing.T) {
	b := NewErrorBanner(&assist.UpstreamError{Provider: "ollama", Message: "dial tcp: connection refused"})
	if len(b.Suggestions()) == 0 || !strings.Contains(b.Suggestions()[0], "ollama serve") {
		t.Errorf("suggestions = %q", b.Suggestions())
	}

	if s := NewErrorBanner(errors.New("something odd")).Suggestions(); len(s) != 0 {
		t.Errorf("unexpected suggestions %q", s)
	}
}

func TestErrorBanner_View(t *testing.T) {
	b := NewErrorBanner(&assist.UpstreamError{Provider: "ollama", StatusCode: 500, Message: "model crashed"})
	b.SetWidth(50)
	view := ansi.Strip(b.View(styles.NewTheme(styles.ThemeDark)))

	for _, want := range []string{"Backend error", "model crashed", DismissHint} {
		if !strings.Contains(view, want) {
			t.Errorf("banner missing %q:\n%s", want, view)
		}
	}
}

// =============================================================================
// HEADER / STATUS BAR / SPINNER TESTS
// =============================================================================

func TestHeader_View(t *testing.T) {
	h := NewHeader(styles.NewTheme(styles.ThemeDark))
	h.SetWidth(100)
	h.SetMode(assist.ModeGrammar)
	h.SetBackend("ollama", "llama3")

	view := ansi.Strip(h.View())
	for _, want := range []string{"Scribe", "GRAMMAR", "ollama/llama3"} {
		if !strings.Contains(view, want) {
			t.Errorf("header %q missing %q", view, want)
		}
	}

	h.SetWidth(40)
	if strings.Contains(ansi.Strip(h.View()), "ollama/llama3") {
		t.Error("compact header should omit the backend")
	}
}

func TestHeader_LongModelTruncated(t *testing.T) {
	h := NewHeader(styles.NewTheme(styles.ThemeDark))
	h.SetWidth(60)
	h.SetBackend("openai", "some-really-long-model-name-v2")

	view := h.View()
	plain := ansi.Strip(view)
	if !strings.Contains(plain, "...") || strings.Contains(plain, "model-name-v2") {
		t.Errorf("backend label not truncated: %q", plain)
	}
	if !strings.Contains(plain, "FULL") {
		t.Errorf("mode badge dropped: %q", plain)
	}
	if w := ansi.StringWidth(view); w > 60 {
		t.Errorf("header width = %d, want <= 60", w)
	}
}

func TestStatusBar_View(t *testing.T) {
	sb := NewStatusBar(styles.NewTheme(styles.ThemeDark))
	sb.SetWidth(120)
	sb.SetMessage("Text copied to clipboard!", LevelSuccess)

	view := ansi.Strip(sb.View())
	if !strings.Contains(view, "[OK] Text copied to clipboard!") {
		t.Errorf("status bar = %q", view)
	}
	if !strings.Contains(view, "quit") {
		t.Errorf("wide status bar should show every shortcut: %q", view)
	}

	sb.Clear()
	sb.SetWidth(30)
	view = ansi.Strip(sb.View())
	if !strings.Contains(view, "submit") || strings.Contains(view, "quit") {
		t.Errorf("narrow status bar = %q", view)
	}
}

func TestLevel(t *testing.T) {
	if LevelWarning.String() != "warning" || LevelWarning.Icon() != styles.StatusIndicators.Warning {
		t.Error("warning level")
	}
	if LevelInfo.String() != "info" {
		t.Error("info level")
	}
}

func TestSpinner_Lifecycle(t *testing.T) {
	s := NewSpinner(styles.NewTheme(styles.ThemeDark))
	if s.IsActive() || s.View() != "" {
		t.Fatal("new spinner should be idle")
	}

	if cmd := s.Start(); cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !strings.Contains(ansi.Strip(s.View()), ProcessingText) {
		t.Errorf("view = %q", s.View())
	}

	s.Stop()
	if s.View() != "" {
		t.Error("stopped spinner should render nothing")
	}
}

// =============================================================================
// HELP TESTS
// =============================================================================

func TestHelp(t *testing.T) {
	theme := styles.NewTheme(styles.ThemeDark)
	view := ansi.Strip(HelpView(theme, 80))

	for _, want := range []string{"How to use this tool", "Green", "ctrl+s", DismissHint} {
		if !strings.Contains(view, want) {
			t.Errorf("help missing %q", want)
		}
	}

	if !strings.Contains(ModeHelp(), "Grammar: Fix grammar") {
		t.Errorf("ModeHelp = %q", ModeHelp())
	}
}
