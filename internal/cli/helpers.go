// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/config"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/export"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/remote"
)

// MaxInputSize bounds drafts read from files or stdin.
const MaxInputSize = 1 << 20

// remoteTimeoutMargin lets the gateway's own deadline fire first.
const remoteTimeoutMargin = 10 * time.Second

// =============================================================================
// CONFIG AND LOGGING
// =============================================================================

// loadConfig loads --config or the default file, applies --model and
// installs the result as the global config.
func loadConfig(args Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if args.Model != "" {
		cfg.Backend.Model = args.Model
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// configPath returns --config or the default path.
func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPath()
}

// newLogger logs to stderr with --verbose and nowhere otherwise.
func newLogger(verbose bool) *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// resolveMode picks --mode, falling back to ui.default_mode.
func resolveMode(flag string, cfg *config.Config) (assist.Mode, error) {
	if flag == "" {
		return cfg.Mode(), nil
	}
	m, err := assist.ParseMode(flag)
	if err != nil {
		return "", &UsageError{Message: err.Error()}
	}
	return m, nil
}

// =============================================================================
// BACKEND SELECTION
// =============================================================================

// backendInfo names what an assister talks to, for headers and listings.
type backendInfo struct {
	Provider string
	Model    string
}

// newAssister returns a remote client when ui.gateway_url is set, and an
// in-process gateway otherwise.
func newAssister(cfg *config.Config, logger *log.Logger) (assist.Assister, backendInfo) {
	if cfg.UI.GatewayURL != "" {
		c := remote.NewClient(cfg.UI.GatewayURL).WithTimeout(cfg.Timeout() + remoteTimeoutMargin)
		return c, backendInfo{Provider: remote.Provider, Model: cfg.Backend.Model}
	}
	gw := cfg.NewGateway(logger)
	b := gw.Backend()
	return gw, backendInfo{Provider: b.Provider(), Model: b.Model()}
}

// modelLister returns what can list models for a, if anything.
func modelLister(a assist.Assister) (assist.ModelLister, bool) {
	if gw, ok := a.(*assist.Gateway); ok {
		ml, ok := gw.Backend().(assist.ModelLister)
		return ml, ok
	}
	ml, ok := a.(assist.ModelLister)
	return ml, ok
}

// pinger returns what can health-check a, if anything.
func pinger(a assist.Assister) (assist.HealthChecker, bool) {
	if gw, ok := a.(*assist.Gateway); ok {
		hc, ok := gw.Backend().(assist.HealthChecker)
		return hc, ok
	}
	hc, ok := a.(assist.HealthChecker)
	return hc, ok
}

// exportOptions builds export settings from config and --out.
func exportOptions(cfg *config.Config, outDir string) *export.Options {
	opts := export.DefaultOptions()
	if cfg.UI.ExportDir != "" {
		opts.OutputDir = cfg.UI.ExportDir
	}
	if outDir != "" {
		opts.OutputDir = outDir
	}
	if cfg.UI.Theme == "light" {
		opts.Theme = "light"
	}
	return opts
}

// =============================================================================
// INPUT
// =============================================================================

// readText returns the draft from --file, the positional text, or piped
// stdin, in that order.
func readText(args Args, stdin io.Reader, stdinIsTTY bool) (string, error) {
	switch {
	case args.File == "-":
		return readLimited(stdin, "stdin")
	case args.File != "":
		f, err := os.Open(args.File)
		if err != nil {
			return "", fmt.Errorf("open draft: %w", err)
		}
		defer f.Close()
		return readLimited(f, args.File)
	case args.Text != "":
		return args.Text, nil
	case !stdinIsTTY:
		return readLimited(stdin, "stdin")
	default:
		return "", &UsageError{Message: "no text given: pass TEXT, --file PATH or pipe a draft on stdin"}
	}
}

func readLimited(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxInputSize {
		return "", &UsageError{Message: fmt.Sprintf("%s is larger than %d bytes", name, MaxInputSize)}
	}
	return string(data), nil
}

// readFile reads a whole file for the diff command.
func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return readLimited(f, path)
}
