// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/config"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/server"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/ui/styles"
)

// ShutdownTimeout bounds the wait for in-flight requests on exit.
const ShutdownTimeout = 10 * time.Second

// HandleServe runs the HTTP gateway until SIGINT or SIGTERM.
func HandleServe(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return wrapErr("serve", "load config", err)
	}
	if args.Host != "" {
		cfg.Server.Host = args.Host
	}
	if args.Port != 0 {
		cfg.Server.Port = args.Port
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	srv := server.NewServer(cfg, cfg.NewGateway(logger)).
		WithLogger(logger).
		WithVersion(Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if path, err := configPath(args); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			w, err := config.NewWatcher(path, srv.ApplyConfig)
			if err != nil {
				logger.Printf("CONFIG_WATCH_DISABLED | path=%s error=%v", path, err)
			} else {
				go w.WithLogger(logger).Run(ctx)
			}
		}
	}

	if !args.JSON {
		StderrPrint("%s\n", styles.RenderInfo(fmt.Sprintf("scribe listening on http://%s (Ctrl+C to stop)", srv.Addr())))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return wrapErr("serve", "start", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return wrapErr("serve", "shutdown", err)
	}
	return nil
}
