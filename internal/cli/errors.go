// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2 // bad flags or arguments, or rejected input
	ExitConfigError  = 3
	ExitBackendError = 5 // backend unreachable or failing
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError is a malformed command line.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// CommandError wraps a failure with the command and action that hit it.
type CommandError struct {
	Command string
	Action  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// wrapErr returns nil for a nil err.
func wrapErr(command, action string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Action: action, Err: err}
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode maps an error to the process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		usageErr    *UsageError
		cfgErr      config.ValidationError
		cfgErrs     config.ValidateErrors
		upstreamErr *assist.UpstreamError
	)
	switch {
	case errors.As(err, &usageErr):
		return ExitUsageError
	case errors.As(err, &cfgErr), errors.As(err, &cfgErrs):
		return ExitConfigError
	case assist.IsValidation(err):
		return ExitUsageError
	case errors.As(err, &upstreamErr):
		if strings.Contains(strings.ToLower(upstreamErr.Error()), "timed out") {
			return ExitTimeoutError
		}
		return ExitBackendError
	case assist.IsMalformed(err):
		return ExitBackendError
	default:
		return ExitGeneralError
	}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err to stderr, as JSON when jsonMode is set.
func DisplayError(command string, err error, jsonMode bool) {
	if jsonMode {
		_ = NewJSONErrorResponse(command, err).Print()
		return
	}

	fmt.Fprintln(os.Stderr, errorStyle.Render("Error:")+" "+err.Error())
	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(os.Stderr, mutedStyle.Render("  "+hint))
	}
}

func errorHint(err error) string {
	var usageErr *UsageError
	switch {
	case errors.As(err, &usageErr):
		return "Run 'scribe help' for usage."
	case assist.IsUpstream(err):
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "unreachable") || strings.Contains(msg, "refused") {
			return "Is the backend running? For Ollama: ollama serve"
		}
		if strings.Contains(msg, "not found") {
			return "Pull the model first, e.g.: ollama pull llama3"
		}
	}
	return ""
}

// HandleErrorAndExit displays err and exits with its code. A nil err is a
// no-op.
func HandleErrorAndExit(command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	DisplayError(command, err, jsonMode)
	os.Exit(GetExitCode(err))
}

// errorKind names the error class for JSON output.
func errorKind(err error) string {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return "usage"
	}
	return assist.KindOf(err).String()
}
