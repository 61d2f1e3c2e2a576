// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/export"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/components"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// =============================================================================
// FIXTURES
// =============================================================================

type fakeAssister struct {
	mu      sync.Mutex
	answer  string
	err     error
	block   bool
	calls   int
	lastReq assist.Request
}

func (f *fakeAssister) Assist(ctx context.Context, req assist.Request) (*assist.Result, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	answer, err, block := f.answer, f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, &assist.UpstreamError{Provider: "fake", Message: "request cancelled", Cause: ctx.Err()}
	}
	if err != nil {
		return nil, err
	}
	return &assist.Result{
		RequestID:    "req-1",
		Mode:         req.Mode,
		Original:     req.Text,
		AssistedText: answer,
		Provider:     "fake",
		Model:        "fake-1",
	}, nil
}

func (f *fakeAssister) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestModel(t *testing.T, a assist.Assister) Model {
	t.Helper()
	m := New(Options{
		Theme:         styles.NewTheme(styles.ThemeDark),
		Assister:      a,
		Logger:        log.New(io.Discard, "", 0),
		ExportOptions: &export.Options{OutputDir: t.TempDir()},
		Provider:      "fake",
		Model:         "fake-1",
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

var (
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyF1    = tea.KeyMsg{Type: tea.KeyF1}
	keyCtrlY = tea.KeyMsg{Type: tea.KeyCtrlY}
	keyCtrlE = tea.KeyMsg{Type: tea.KeyCtrlE}
	keyCtrlR = tea.KeyMsg{Type: tea.KeyCtrlR}
	keyCtrlL = tea.KeyMsg{Type: tea.KeyCtrlL}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyQuery = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}
)

// collect runs cmd and any batched commands, dropping those that do not
// return quickly (status timers, cursor blink).
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(500 * time.Millisecond):
		return nil
	}
}

// settle feeds the results of cmd back into the model.
func settle(m Model, cmd tea.Cmd) Model {
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case submissionDoneMsg, clipboardMsg, exportDoneMsg:
			updated, _ := m.Update(msg)
			m = updated.(Model)
		}
	}
	return m
}

func submitText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.SetInput(text)
	m, cmd := press(m, keyCtrlS)
	require.Equal(t, StateProcessing, m.State())
	return settle(m, cmd)
}

// =============================================================================
// SUBMISSION TESTS
// =============================================================================

func TestSubmit_EmptyInputWarns(t *testing.T) {
	fake := &fakeAssister{answer: "x"}
	m := newTestModel(t, fake)

	m.SetInput("   \n\t")
	m, _ = press(m, keyCtrlS)

	msg, level := m.Status()
	assert.Equal(t, MsgEmptyInput, msg)
	assert.Equal(t, components.LevelWarning, level)
	assert.Equal(t, StateInput, m.State())
	assert.Zero(t, fake.Calls())
}

func TestSubmit_Success(t *testing.T) {
	fake := &fakeAssister{answer: "I have a pen."}
	m := newTestModel(t, fake)

	m = submitText(t, m, "I has a pen.")

	require.Equal(t, StateInput, m.State())
	sub := m.Submission()
	require.NotNil(t, sub)
	assert.Equal(t, "I have a pen.", sub.Revised)
	assert.Equal(t, assist.ModeFull, sub.Mode)
	assert.Equal(t, 1, sub.Counts().Modified)

	msg, level := m.Status()
	assert.Equal(t, components.LevelSuccess, level)
	assert.Contains(t, msg, "0 added, 1 modified, 0 deleted")

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Revised Text")
	assert.Contains(t, view, "Changes Summary")
	assert.Contains(t, view, "Original Text")
}

func TestSubmit_NoChanges(t *testing.T) {
	m := newTestModel(t, &fakeAssister{answer: "Fine as it is."})
	m = submitText(t, m, "Fine as it is.")

	assert.Contains(t, ansi.Strip(m.View()), components.NoChangesText)
}

func TestSubmit_UsesSelectedMode(t *testing.T) {
	fake := &fakeAssister{answer: "ok"}
	m := newTestModel(t, fake)

	m, _ = press(m, keyTab)
	assert.Equal(t, assist.ModeGrammar, m.Mode())
	msg, _ := m.Status()
	assert.Contains(t, msg, "Grammar")

	submitText(t, m, "text")
	assert.Equal(t, assist.ModeGrammar, fake.lastReq.Mode)

	m, _ = press(m, keyTab)
	assert.Equal(t, assist.ModeFull, m.Mode())
}

func TestSubmit_BusyWhileInFlight(t *testing.T) {
	m := newTestModel(t, &fakeAssister{answer: "ok"})

	m.SetInput("first")
	m, _ = press(m, keyCtrlS)
	require.Equal(t, StateProcessing, m.State())

	m, _ = press(m, keyCtrlS)
	msg, _ := m.Status()
	assert.Equal(t, MsgBusy, msg)
}

func TestSubmit_ErrorRouting(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantBanner string
		wantStatus string
		wantLevel  components.Level
	}{
		{
			name:       "validation is a warning",
			err:        &assist.ValidationError{Field: "text", Message: assist.ErrEmptyText},
			wantStatus: assist.ErrEmptyText,
			wantLevel:  components.LevelWarning,
		},
		{
			name:       "upstream opens banner",
			err:        &assist.UpstreamError{Provider: "ollama", Message: "ollama unreachable"},
			wantBanner: "Backend error",
		},
		{
			name:       "malformed opens banner",
			err:        &assist.MalformedResponseError{Provider: "ollama", Message: "missing response field"},
			wantBanner: "Unexpected response",
		},
		{
			name:       "unknown goes to status line",
			err:        errors.New("boom"),
			wantStatus: "Request failed: boom",
			wantLevel:  components.LevelError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestModel(t, &fakeAssister{err: tc.err})
			m = submitText(t, m, "some text")

			assert.Equal(t, StateInput, m.State())
			assert.Nil(t, m.Submission())

			if tc.wantBanner != "" {
				require.NotNil(t, m.Banner())
				assert.Equal(t, tc.wantBanner, m.Banner().Title())
				assert.Contains(t, ansi.Strip(m.View()), tc.err.Error())

				m, _ = press(m, keyEsc)
				assert.Nil(t, m.Banner(), "esc should dismiss the banner")
				return
			}

			assert.Nil(t, m.Banner())
			msg, level := m.Status()
			assert.Equal(t, tc.wantStatus, msg)
			assert.Equal(t, tc.wantLevel, level)
		})
	}
}

func TestSubmit_CancelWithEsc(t *testing.T) {
	m := newTestModel(t, &fakeAssister{block: true})

	m.SetInput("a long essay")
	m, cmd := press(m, keyCtrlS)
	m, _ = press(m, keyEsc)
	m = settle(m, cmd)

	assert.Equal(t, StateInput, m.State())
	assert.Nil(t, m.Banner())
	msg, _ := m.Status()
	assert.Equal(t, MsgCancelled, msg)

	// The store slot is free again.
	m.SetInput("again")
	m, _ = press(m, keyCtrlS)
	assert.Equal(t, StateProcessing, m.State())
}

func TestSubmit_PreviousResultKeptOnFailure(t *testing.T) {
	fake := &fakeAssister{answer: "Better text."}
	m := newTestModel(t, fake)
	m = submitText(t, m, "Good text.")
	require.NotNil(t, m.Submission())

	fake.mu.Lock()
	fake.err = &assist.UpstreamError{Provider: "ollama", Message: "down"}
	fake.mu.Unlock()

	m = submitText(t, m, "Other text.")
	require.NotNil(t, m.Submission())
	assert.Equal(t, "Better text.", m.Submission().Revised)
}

// =============================================================================
// COPY / EXPORT TESTS
// =============================================================================

func TestAssistCmd_StaleTicketLogged(t *testing.T) {
	store := session.NewStore()
	ticket, err := store.Begin("I has a pen.", assist.ModeFull)
	require.NoError(t, err)
	store.Clear()

	var logs bytes.Buffer
	boom := &assist.UpstreamError{Provider: "fake", Message: "backend down"}
	cmd := assistCmd(context.Background(), &fakeAssister{err: boom}, store, ticket, log.New(&logs, "", 0))

	msg, ok := cmd().(submissionDoneMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.err, boom)
	assert.Contains(t, logs.String(), "TUI_STALE_TICKET | id="+ticket.ID)
}

func TestCopy(t *testing.T) {
	var copied string
	copyErr := error(nil)
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = s
		return copyErr
	}
	t.Cleanup(func() { copyToClipboard = orig })

	m := newTestModel(t, &fakeAssister{answer: "Revised."})

	m, _ = press(m, keyCtrlY)
	msg, _ := m.Status()
	assert.Equal(t, MsgNoSubmission, msg)

	m = submitText(t, m, "Original.")
	m, cmd := press(m, keyCtrlY)
	m = settle(m, cmd)
	assert.Equal(t, "Revised.", copied)
	msg, level := m.Status()
	assert.Equal(t, MsgCopied, msg)
	assert.Equal(t, components.LevelSuccess, level)

	copyErr = export.ErrClipboardUnavailable
	m, cmd = press(m, keyCtrlY)
	m = settle(m, cmd)
	msg, level = m.Status()
	assert.True(t, strings.HasPrefix(msg, MsgCopyFailed))
	assert.Contains(t, msg, MsgCopyHint)
	assert.Equal(t, components.LevelError, level)
}

func TestExport(t *testing.T) {
	m := newTestModel(t, &fakeAssister{answer: "I have a pen."})
	dir := m.exportOpts.OutputDir

	m, _ = press(m, keyCtrlE)
	msg, _ := m.Status()
	assert.Equal(t, MsgNoSubmission, msg)

	m = submitText(t, m, "I has a pen.")

	m, cmd := press(m, keyCtrlE)
	m = settle(m, cmd)
	data, err := os.ReadFile(filepath.Join(dir, "revised_text.txt"))
	require.NoError(t, err)
	assert.Equal(t, "I have a pen.", string(data))
	msg, level := m.Status()
	assert.Contains(t, msg, "Saved revised text")
	assert.Equal(t, components.LevelSuccess, level)

	m, cmd = press(m, keyCtrlR)
	settle(m, cmd)
	data, err = os.ReadFile(filepath.Join(dir, "comparison_report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "CHANGES SUMMARY:")
	assert.Contains(t, string(data), "- Modified words: 1")
}

// =============================================================================
// KEY HANDLING TESTS
// =============================================================================

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, &fakeAssister{})

	m, _ = press(m, keyF1)
	require.True(t, m.ShowingHelp())
	assert.Contains(t, ansi.Strip(m.View()), "How to use this tool")

	m, _ = press(m, keyEsc)
	assert.False(t, m.ShowingHelp())

	m, _ = press(m, keyQuery)
	assert.True(t, m.ShowingHelp(), "? on empty input opens help")
	m, _ = press(m, keyQuery)
	assert.False(t, m.ShowingHelp())

	m.SetInput("Why")
	m, _ = press(m, keyQuery)
	assert.False(t, m.ShowingHelp(), "? with text is typed")
	assert.Equal(t, "Why?", m.Input())
}

func TestSampleText(t *testing.T) {
	m := newTestModel(t, &fakeAssister{})
	m, _ = press(m, keyCtrlL)
	assert.Equal(t, SampleText, m.Input())
}

func TestStatusClear(t *testing.T) {
	m := newTestModel(t, &fakeAssister{})
	m, _ = press(m, keyCtrlS)

	updated, _ := m.Update(statusClearMsg{id: m.statusID - 1})
	m = updated.(Model)
	msg, _ := m.Status()
	assert.Equal(t, MsgEmptyInput, msg, "stale clear is ignored")

	updated, _ = m.Update(statusClearMsg{id: m.statusID})
	m = updated.(Model)
	msg, _ = m.Status()
	assert.Empty(t, msg)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, &fakeAssister{})
	_, cmd := press(m, keyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNew_Defaults(t *testing.T) {
	m := New(Options{Theme: styles.NewTheme(styles.ThemeLight), Mode: "bogus"})
	assert.Equal(t, assist.ModeFull, m.Mode())
	assert.Equal(t, StateInput, m.State())
	assert.Nil(t, m.Submission())
	assert.Equal(t, "processing", StateProcessing.String())
}
