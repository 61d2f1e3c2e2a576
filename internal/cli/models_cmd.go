// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// modelsTimeout bounds the listing call.
const modelsTimeout = 15 * time.Second

// ModelsData is the JSON shape of `scribe models --json`.
type ModelsData struct {
	Provider string   `json:"provider"`
	Current  string   `json:"current"`
	Models   []string `json:"models"`
}

// HandleModels lists the models the configured backend offers.
func HandleModels(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return wrapErr("models", "load config", err)
	}
	assister, info := newAssister(cfg, newLogger(args.Verbose))

	ml, ok := modelLister(assister)
	if !ok {
		return wrapErr("models", "list", errors.New("backend cannot list models"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), modelsTimeout)
	defer cancel()

	models, err := ml.ListModels(ctx)
	if err != nil {
		return err
	}
	return printModels(os.Stdout, args.JSON, ModelsData{Provider: info.Provider, Current: info.Model, Models: models})
}

func printModels(w io.Writer, jsonMode bool, data ModelsData) error {
	if jsonMode {
		return NewJSONResponse("models", data).Write(w)
	}
	if len(data.Models) == 0 {
		fmt.Fprintf(w, "No models available from %s.\n", data.Provider)
		return nil
	}
	fmt.Fprintf(w, "Models (%s):\n", data.Provider)
	for _, m := range data.Models {
		marker := "  "
		if m == data.Current {
			marker = "* "
		}
		fmt.Fprintf(w, "%s%s\n", marker, m)
	}
	return nil
}
