// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/config"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/export"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/components"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// historyFileName lives in the config directory.
const historyFileName = "repl_history"

// =============================================================================
// REPL
// =============================================================================

// Repl is the line-oriented front end. Each line is either a slash command
// or a draft to revise.
//
//	/mode [full|grammar]  Show, set or toggle the assistance mode
//	/diff                 Show the last comparison again
//	/report               Print the comparison report
//	/copy                 Copy the revised text to the clipboard
//	/save FORMAT          Write text, report, markdown, html or json
//	/clear                Forget the last submission
//	/help                 Show commands
//	/quit, /exit, /q      Leave
type Repl struct {
	out        io.Writer
	assister   assist.Assister
	store      *session.Store
	mode       assist.Mode
	exportOpts *export.Options
	color      bool
	copy       func(string) error
}

// NewRepl creates a REPL writing to out.
func NewRepl(out io.Writer, a assist.Assister, mode assist.Mode) *Repl {
	return &Repl{
		out:        out,
		assister:   a,
		store:      session.NewStore(),
		mode:       mode,
		exportOpts: export.DefaultOptions(),
		copy:       export.CopyToClipboard,
	}
}

// WithExportOptions sets where /save writes.
func (r *Repl) WithExportOptions(opts *export.Options) *Repl {
	r.exportOpts = opts
	return r
}

// WithColor enables styled output.
func (r *Repl) WithColor(color bool) *Repl {
	r.color = color
	return r
}

// Mode returns the current assistance mode.
func (r *Repl) Mode() assist.Mode {
	return r.mode
}

// Store returns the submission store.
func (r *Repl) Store() *session.Store {
	return r.store
}

// Execute handles one input line. quit is true when the user asked to leave.
func (r *Repl) Execute(ctx context.Context, input string) (quit bool, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return false, nil
	}
	if !strings.HasPrefix(input, "/") {
		return false, r.submit(ctx, input)
	}

	fields := strings.Fields(input)
	cmd, rest := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return true, nil
	case "/help", "/h", "/?":
		r.printHelp()
		return false, nil
	case "/mode", "/m":
		return false, r.setMode(rest)
	case "/diff":
		return false, r.withSubmission(func(sub *session.Submission) error {
			newPrinter(r.out, r.color).diff(sub.Diff)
			return nil
		})
	case "/report":
		return false, r.withSubmission(func(sub *session.Submission) error {
			fmt.Fprint(r.out, export.ComparisonReport(sub))
			return nil
		})
	case "/copy":
		return false, r.withSubmission(func(sub *session.Submission) error {
			if err := r.copy(export.RevisedText(sub)); err != nil {
				return fmt.Errorf("copy failed: %w", err)
			}
			r.say(styles.RenderSuccess, "Text copied to clipboard!")
			return nil
		})
	case "/save":
		if len(rest) != 1 {
			return false, &UsageError{Message: "usage: /save " + strings.Join(export.Formats, "|")}
		}
		return false, r.save(rest[0])
	case "/clear":
		r.store.Clear()
		r.say(styles.RenderInfo, "Cleared.")
		return false, nil
	default:
		return false, &UsageError{Message: fmt.Sprintf("unknown command %s (try /help)", cmd)}
	}
}

func (r *Repl) submit(ctx context.Context, text string) error {
	sub, err := submit(ctx, r.assister, r.store, text, r.mode)
	if err != nil {
		return err
	}
	p := newPrinter(r.out, r.color)
	p.submission(sub)
	if !r.color {
		fmt.Fprintln(r.out, sub.Diff.Summary())
	}
	return nil
}

func (r *Repl) setMode(rest []string) error {
	switch len(rest) {
	case 0:
		r.mode = r.mode.Next()
	case 1:
		m, err := assist.ParseMode(rest[0])
		if err != nil {
			return &UsageError{Message: err.Error()}
		}
		r.mode = m
	default:
		return &UsageError{Message: "usage: /mode [full|grammar]"}
	}
	r.say(styles.RenderInfo, fmt.Sprintf("Mode: %s. %s.", r.mode.Label(), r.mode.Description()))
	return nil
}

func (r *Repl) save(format string) error {
	return r.withSubmission(func(sub *session.Submission) error {
		exporter, err := export.ForFormat(format, r.exportOpts)
		if err != nil {
			return &UsageError{Message: err.Error()}
		}
		path, err := export.ExportToFile(sub, exporter, r.exportOpts)
		if err != nil {
			return err
		}
		r.say(styles.RenderSuccess, "Saved "+path)
		return nil
	})
}

func (r *Repl) withSubmission(fn func(*session.Submission) error) error {
	sub := r.store.Current()
	if sub == nil {
		return export.ErrNoSubmission
	}
	return fn(sub)
}

func (r *Repl) printHelp() {
	help := `Type or paste a draft and press Enter to revise it.

  /mode [full|grammar]  Show, set or toggle the assistance mode
  /diff                 Show the last comparison again
  /report               Print the comparison report
  /copy                 Copy the revised text to the clipboard
  /save FORMAT          Write ` + strings.Join(export.Formats, ", ") + `
  /clear                Forget the last submission
  /quit                 Leave
`
	fmt.Fprint(r.out, help)
}

// say prints msg, styled by render when colour is on.
func (r *Repl) say(render func(string) string, msg string) {
	if r.color {
		msg = render(msg)
	}
	fmt.Fprintln(r.out, msg)
}

// =============================================================================
// LINE EDITING
// =============================================================================

// HandleRepl runs the REPL on the terminal with liner history.
func HandleRepl(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return wrapErr("repl", "load config", err)
	}
	mode, err := resolveMode(args.Mode, cfg)
	if err != nil {
		return err
	}

	assister, info := newAssister(cfg, newLogger(args.Verbose))
	color := IsStdoutTTY() && ColorsEnabled()
	repl := NewRepl(os.Stdout, assister, mode).
		WithExportOptions(exportOptions(cfg, "")).
		WithColor(color)

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	historyFile := replHistoryPath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		saveHistory(line, historyFile)
		line.Close()
	}()

	fmt.Printf("%s %s\n", titleStyle.Render("scribe"), mutedStyle.Render(fmt.Sprintf("%s/%s, /help for commands", info.Provider, info.Model)))
	if hc, ok := pinger(assister); ok {
		ctx, cancel := context.WithTimeout(context.Background(), startupPingTimeout)
		if err := hc.Ping(ctx); err != nil {
			fmt.Println(styles.RenderWarning("Backend not reachable yet: " + err.Error()))
		}
		cancel()
	}

	for {
		prompt := fmt.Sprintf("scribe [%s]> ", repl.Mode())
		if color {
			prompt = promptStyle.Render(prompt)
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			// Ctrl+C, Ctrl+D or a closed terminal all end the session.
			fmt.Println()
			return nil
		}
		trimmed := strings.TrimSpace(input)
		if trimmed != "" {
			line.AppendHistory(input)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		if color && trimmed != "" && !strings.HasPrefix(trimmed, "/") {
			fmt.Println(mutedStyle.Render(components.ProcessingText))
		}
		quit, err := repl.Execute(ctx, input)
		stop()
		if err != nil {
			fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		}
		if quit {
			return nil
		}
	}
}

func replHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, historyFileName)
}

// saveHistory writes the history owner-only.
func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
