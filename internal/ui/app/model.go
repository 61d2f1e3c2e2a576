// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/export"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/components"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// User-facing messages.
const (
	InputLabel      = "Enter your report draft here:"
	MsgEmptyInput   = "Please enter some text first."
	MsgCopied       = "Text copied to clipboard!"
	MsgCopyFailed   = "Copy failed: "
	MsgCopyHint     = "Try selecting the text manually and using Ctrl+C"
	MsgNoSubmission = "Nothing to export yet. Submit some text first."
	MsgCancelled    = "Request cancelled."
	MsgBusy         = "Still processing the previous submission."
)

// SampleText is loaded by the sample key.
const SampleText = "Globalization have changed the way companys do business. " +
	"In the last decades, many firms has moved there production to countries where labor is more cheap. " +
	"This essay discuss the advantages and the disadvantages of this trend for workers in developed countrys."

// statusTTL is how long a status message stays before it clears.
const statusTTL = 4 * time.Second

// copyToClipboard is swapped out in tests.
var copyToClipboard = export.CopyToClipboard

// =============================================================================
// APP STATE
// =============================================================================

// State is the coarse state of the writing view.
type State int

const (
	StateInput      State = iota // Editing, ready to submit
	StateProcessing              // A submission is in flight
)

// String returns the state name.
func (s State) String() string {
	if s == StateProcessing {
		return "processing"
	}
	return "input"
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures New.
type Options struct {
	Theme    *styles.Theme
	Assister assist.Assister
	Store    *session.Store
	Mode     assist.Mode

	// Provider and Model are shown in the header.
	Provider string
	Model    string

	// ExportOptions controls where ctrl+e and ctrl+r write.
	ExportOptions *export.Options

	Logger *log.Logger
}

// =============================================================================
// APP MODEL
// =============================================================================

// Model is the Bubble Tea model of the writing view: an input box on top and
// the revised text with its word diff below.
type Model struct {
	state State
	theme *styles.Theme
	keys  KeyMap

	assister   assist.Assister
	store      *session.Store
	exportOpts *export.Options
	logger     *log.Logger

	mode assist.Mode

	input     textarea.Model
	results   viewport.Model
	spinner   components.Spinner
	header    *components.Header
	statusBar *components.StatusBar
	diffView  *components.DiffView
	banner    *components.ErrorBanner

	showHelp bool
	statusID int

	// Cancels the in-flight request.
	cancel    context.CancelFunc
	ticketID  string
	cancelled bool

	width  int
	height int
}

// New creates the writing view.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ThemeAuto)
	}
	store := opts.Store
	if store == nil {
		store = session.NewStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	exportOpts := opts.ExportOptions
	if exportOpts == nil {
		exportOpts = export.DefaultOptions()
	}
	mode := opts.Mode
	if !mode.Valid() {
		mode = assist.ModeFull
	}

	ta := textarea.New()
	ta.Placeholder = "Paste or type the text to improve..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.SetHeight(8)
	ta.Focus()

	vp := viewport.New(80, 10)

	header := components.NewHeader(theme)
	header.SetMode(mode)
	header.SetBackend(opts.Provider, opts.Model)

	m := Model{
		state:      StateInput,
		theme:      theme,
		keys:       DefaultKeyMap(),
		assister:   opts.Assister,
		store:      store,
		exportOpts: exportOpts,
		logger:     logger,
		mode:       mode,
		input:      ta,
		results:    vp,
		spinner:    components.NewSpinner(theme),
		header:     header,
		statusBar:  components.NewStatusBar(theme),
		diffView:   components.NewDiffView(theme),
		width:      80,
		height:     24,
	}
	m.layout()
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current state.
func (m Model) State() State { return m.state }

// Mode returns the selected mode.
func (m Model) Mode() assist.Mode { return m.mode }

// Input returns the input text.
func (m Model) Input() string { return m.input.Value() }

// SetInput replaces the input text.
func (m *Model) SetInput(s string) { m.input.SetValue(s) }

// Status returns the status line message and its level.
func (m Model) Status() (string, components.Level) { return m.statusBar.Message() }

// Banner returns the visible error banner, or nil.
func (m Model) Banner() *components.ErrorBanner { return m.banner }

// ShowingHelp reports whether the help overlay is open.
func (m Model) ShowingHelp() bool { return m.showHelp }

// Submission returns the last completed submission, or nil.
func (m Model) Submission() *session.Submission { return m.store.Current() }
