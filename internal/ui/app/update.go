// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/export"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submissionDoneMsg:
		return m.handleSubmissionDone(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.logger.Printf("TUI_COPY_FAILED | error=%v", msg.err)
			cmd := m.setStatus(MsgCopyFailed+msg.err.Error()+". "+MsgCopyHint, components.LevelError)
			return m, cmd
		}
		cmd := m.setStatus(MsgCopied, components.LevelSuccess)
		return m, cmd

	case exportDoneMsg:
		if msg.err != nil {
			m.logger.Printf("TUI_EXPORT_FAILED | what=%s error=%v", msg.label, msg.err)
			cmd := m.setStatus("Export failed: "+msg.err.Error(), components.LevelError)
			return m, cmd
		}
		m.logger.Printf("TUI_EXPORT | what=%s path=%s", msg.label, msg.path)
		cmd := m.setStatus(fmt.Sprintf("Saved %s to %s", msg.label, msg.path), components.LevelSuccess)
		return m, cmd

	case statusClearMsg:
		if msg.id == m.statusID {
			m.statusBar.Clear()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes key presses. Bindings win over the textarea; everything
// else is typed into the input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case m.showHelp:
		if key.Matches(msg, m.keys.Dismiss, m.keys.Help) {
			m.showHelp = false
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		return m.dismiss()

	case key.Matches(msg, m.keys.Help) && (msg.String() != "?" || strings.TrimSpace(m.input.Value()) == ""):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.ToggleMode):
		m.mode = m.mode.Next()
		m.header.SetMode(m.mode)
		cmd := m.setStatus(fmt.Sprintf("Mode: %s. %s.", m.mode.Label(), m.mode.Description()), components.LevelInfo)
		return m, cmd

	case key.Matches(msg, m.keys.Copy):
		return m.copyRevised()

	case key.Matches(msg, m.keys.ExportText):
		return m.exportWith("revised text", export.ExportRevisedText)

	case key.Matches(msg, m.keys.ExportReport):
		return m.exportWith("comparison report", export.ExportReport)

	case key.Matches(msg, m.keys.Sample):
		m.input.SetValue(SampleText)
		cmd := m.setStatus("Sample text loaded.", components.LevelInfo)
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.results.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.results.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// dismiss cancels a running request, or closes the banner, or clears the
// status line, whichever applies first.
func (m Model) dismiss() (tea.Model, tea.Cmd) {
	switch {
	case m.state == StateProcessing && m.cancel != nil:
		m.cancelled = true
		m.cancel()
		m.spinner.SetMessage("Cancelling...")
	case m.banner != nil:
		m.banner = nil
		m.layout()
	default:
		m.statusBar.Clear()
	}
	return m, nil
}

// =============================================================================
// SUBMISSION
// =============================================================================

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		cmd := m.setStatus(MsgEmptyInput, components.LevelWarning)
		return m, cmd
	}
	if m.assister == nil {
		cmd := m.setStatus("No backend configured.", components.LevelError)
		return m, cmd
	}

	ticket, err := m.store.Begin(text, m.mode)
	if errors.Is(err, session.ErrBusy) {
		cmd := m.setStatus(MsgBusy, components.LevelWarning)
		return m, cmd
	}
	if err != nil {
		cmd := m.setStatus(err.Error(), components.LevelError)
		return m, cmd
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.cancelled = false
	m.ticketID = ticket.ID
	m.state = StateProcessing
	m.showHelp = false
	if m.banner != nil {
		m.banner = nil
		m.layout()
	}
	m.statusBar.Clear()
	m.spinner.SetMessage(components.ProcessingText)

	m.logger.Printf("TUI_SUBMIT | id=%s mode=%s chars=%d", ticket.ID, ticket.Mode, len(text))
	return m, tea.Batch(m.spinner.Start(), assistCmd(ctx, m.assister, m.store, ticket, m.logger))
}

// assistCmd calls the assister and settles the ticket. The diff is computed
// by Store.Complete inside the command goroutine.
func assistCmd(ctx context.Context, a assist.Assister, store *session.Store, t *session.Ticket, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		res, err := a.Assist(ctx, assist.Request{Text: t.Original, Mode: t.Mode})
		if err != nil {
			if failErr := store.Fail(t); failErr != nil {
				logger.Printf("TUI_STALE_TICKET | id=%s err=%v", t.ID, failErr)
			}
			return submissionDoneMsg{ticketID: t.ID, err: err}
		}
		sub, err := store.Complete(t, res)
		return submissionDoneMsg{ticketID: t.ID, sub: sub, err: err}
	}
}

func (m Model) handleSubmissionDone(msg submissionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.ticketID != m.ticketID {
		return m, nil
	}

	m.spinner.Stop()
	m.state = StateInput
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.err != nil {
		if m.cancelled {
			m.cancelled = false
			cmd := m.setStatus(MsgCancelled, components.LevelInfo)
			return m, cmd
		}
		return m.showError(msg.err)
	}

	m.cancelled = false
	m.refreshResults()
	m.results.GotoTop()

	sub := msg.sub
	m.logger.Printf("TUI_DONE | id=%s model=%s duration=%s changes=%d", sub.ID, sub.Model, sub.Elapsed(), sub.Counts().Total())
	cmd := m.setStatus(fmt.Sprintf("Done in %s: %s", sub.Elapsed(), sub.Diff.Summary()), components.LevelSuccess)
	return m, cmd
}

// showError routes err by kind: validation problems are a form warning,
// backend problems get a banner, anything else goes to the status line.
func (m Model) showError(err error) (tea.Model, tea.Cmd) {
	kind := assist.KindOf(err)
	m.logger.Printf("TUI_ERROR | kind=%s error=%q", kind, err.Error())

	switch kind {
	case assist.KindValidation:
		var ve *assist.ValidationError
		msg := err.Error()
		if errors.As(err, &ve) {
			msg = ve.Message
		}
		cmd := m.setStatus(msg, components.LevelWarning)
		return m, cmd

	case assist.KindUpstream, assist.KindMalformed:
		b := components.NewErrorBanner(err)
		m.banner = &b
		m.layout()
		return m, nil

	default:
		cmd := m.setStatus("Request failed: "+err.Error(), components.LevelError)
		return m, cmd
	}
}

// =============================================================================
// COPY AND EXPORT
// =============================================================================

func (m Model) copyRevised() (tea.Model, tea.Cmd) {
	sub := m.store.Current()
	if sub == nil {
		cmd := m.setStatus(MsgNoSubmission, components.LevelWarning)
		return m, cmd
	}
	text := export.RevisedText(sub)
	return m, func() tea.Msg {
		return clipboardMsg{err: copyToClipboard(text)}
	}
}

func (m Model) exportWith(label string, write func(*session.Submission, *export.Options) (string, error)) (tea.Model, tea.Cmd) {
	sub := m.store.Current()
	if sub == nil {
		cmd := m.setStatus(MsgNoSubmission, components.LevelWarning)
		return m, cmd
	}
	opts := m.exportOpts
	return m, func() tea.Msg {
		path, err := write(sub, opts)
		return exportDoneMsg{label: label, path: path, err: err}
	}
}

// setStatus shows text on the status line and schedules its removal.
func (m *Model) setStatus(text string, level components.Level) tea.Cmd {
	m.statusID++
	id := m.statusID
	m.statusBar.SetMessage(text, level)
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusClearMsg{id: id}
	})
}
