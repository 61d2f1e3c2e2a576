// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/config"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/app"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

const (
	logFileName = "scribe.log"

	// startupPingTimeout bounds the reachability check logged at start.
	startupPingTimeout = 2 * time.Second
)

// RunTUI starts the full-screen writing view.
func RunTUI(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return wrapErr("tui", "load config", err)
	}
	mode, err := resolveMode(args.Mode, cfg)
	if err != nil {
		return err
	}

	// The alternate screen owns stdout, so logs go to a file.
	logger, closeLog := openLogFile(args.Verbose)
	defer closeLog()

	assister, info := newAssister(cfg, logger)
	if hc, ok := pinger(assister); ok {
		ctx, cancel := context.WithTimeout(context.Background(), startupPingTimeout)
		if err := hc.Ping(ctx); err != nil {
			logger.Printf("BACKEND_UNREACHABLE | provider=%s error=%v", info.Provider, err)
		}
		cancel()
	}

	exportOpts := exportOptions(cfg, "")
	exportOpts.IncludeMetadata = true

	return app.Run(app.Options{
		Theme:         styles.NewTheme(cfg.UI.Theme),
		Assister:      assister,
		Store:         session.NewStore(),
		Mode:          mode,
		Provider:      info.Provider,
		Model:         info.Model,
		ExportOptions: exportOpts,
		Logger:        logger,
	})
}

// openLogFile logs to ~/.scribe/scribe.log with --verbose and discards
// otherwise.
func openLogFile(verbose bool) (*log.Logger, func()) {
	discard := log.New(io.Discard, "", 0)
	if !verbose {
		return discard, func() {}
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return discard, func() {}
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return discard, func() {}
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }
}
