// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/config"
)

// ConfigValue is the JSON shape of `scribe config get --json`.
type ConfigValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// HandleConfig runs a config subcommand.
func HandleConfig(args Args) error {
	return runConfig(os.Stdout, args)
}

func runConfig(w io.Writer, args Args) error {
	path, err := configPath(args)
	if err != nil {
		return wrapErr("config", "locate config", err)
	}

	switch args.Subcommand {
	case "show":
		cfg, err := loadConfig(args)
		if err != nil {
			return wrapErr("config", "load", err)
		}
		if args.JSON {
			return NewJSONResponse("config", cfg).Write(w)
		}
		fmt.Fprintln(w, cfg.String())
		return nil

	case "path":
		if args.JSON {
			return NewJSONResponse("config", map[string]string{"path": path}).Write(w)
		}
		fmt.Fprintln(w, path)
		return nil

	case "init":
		if _, err := os.Stat(path); err == nil && !args.Force {
			return &UsageError{Message: fmt.Sprintf("%s already exists (use --force to overwrite)", path)}
		}
		if err := config.SaveTOML(config.Default(), path); err != nil {
			return wrapErr("config", "init", err)
		}
		fmt.Fprintf(w, "Wrote default config to %s\n", path)
		return nil

	case "get":
		if args.ConfigKey == "" {
			return &UsageError{Message: "usage: scribe config get KEY"}
		}
		cfg, err := loadConfig(args)
		if err != nil {
			return wrapErr("config", "load", err)
		}
		v, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return &UsageError{Message: err.Error()}
		}
		if strings.EqualFold(args.ConfigKey, "backend.api_key") && v != "" {
			v = "[REDACTED]"
		}
		if args.JSON {
			return NewJSONResponse("config", ConfigValue{Key: args.ConfigKey, Value: v}).Write(w)
		}
		fmt.Fprintln(w, formatValue(v))
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return &UsageError{Message: "usage: scribe config set KEY VALUE"}
		}
		cfg, err := fileConfig(path)
		if err != nil {
			return wrapErr("config", "load", err)
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return &UsageError{Message: err.Error()}
		}
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveTOML(cfg, path); err != nil {
			return wrapErr("config", "save", err)
		}
		fmt.Fprintf(w, "%s = %s\n", args.ConfigKey, args.ConfigVal)
		return nil

	case "keys":
		keys := config.GetAllKeys()
		if args.JSON {
			return NewJSONResponse("config", keys).Write(w)
		}
		for _, k := range keys {
			fmt.Fprintln(w, k)
		}
		return nil

	default:
		return &UsageError{Message: fmt.Sprintf("unknown config command %q (show, path, init, get, set, keys)", args.Subcommand)}
	}
}

// fileConfig loads the file at path, or the defaults when it does not
// exist yet.
func fileConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.LoadFromPath(path)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}
