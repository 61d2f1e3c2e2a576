// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/export"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// AssistData is the JSON shape of `scribe assist --json`.
type AssistData struct {
	Submission *session.Submission `json:"submission"`
	Summary    string              `json:"summary"`
	SavedTo    string              `json:"saved_to,omitempty"`
}

// HandleAssist revises one draft and prints the result.
func HandleAssist(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return wrapErr("assist", "load config", err)
	}
	mode, err := resolveMode(args.Mode, cfg)
	if err != nil {
		return err
	}

	var exporter export.Exporter
	opts := exportOptions(cfg, args.OutputDir)
	if args.Save != "" {
		exporter, err = export.ForFormat(args.Save, opts)
		if err != nil {
			return &UsageError{Message: err.Error()}
		}
	}

	text, err := readText(args, os.Stdin, IsTTY())
	if err != nil {
		return err
	}

	logger := newLogger(args.Verbose)
	assister, _ := newAssister(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore()
	sub, err := submit(ctx, assister, store, text, mode)
	if err != nil {
		return err
	}

	var savedTo string
	if exporter != nil {
		savedTo, err = export.ExportToFile(sub, exporter, opts)
		if err != nil {
			return wrapErr("assist", "save", err)
		}
	}

	switch {
	case args.JSON:
		return NewJSONResponse("assist", AssistData{
			Submission: sub,
			Summary:    sub.Diff.Summary(),
			SavedTo:    savedTo,
		}).Print()
	case args.Report:
		fmt.Print(export.ComparisonReport(sub))
	default:
		newPrinter(os.Stdout, IsStdoutTTY() && ColorsEnabled()).submission(sub)
	}

	if savedTo != "" {
		StderrPrint("%s\n", styles.RenderSuccess("Saved "+savedTo))
	}
	return nil
}

// submit runs one request through the store so the diff is computed the
// same way as in the TUI.
func submit(ctx context.Context, a assist.Assister, store *session.Store, text string, mode assist.Mode) (*session.Submission, error) {
	ticket, err := store.Begin(text, mode)
	if err != nil {
		return nil, err
	}

	res, err := a.Assist(ctx, assist.Request{Text: text, Mode: mode})
	if err != nil {
		_ = store.Fail(ticket)
		return nil, err
	}
	return store.Complete(ticket, res)
}
