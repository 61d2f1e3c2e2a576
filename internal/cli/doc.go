// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the scribe command line: argument parsing, the
// one-shot assist and diff commands, the HTTP gateway launcher, the REPL,
// config management and the TUI launcher.
//
// # Commands
//
//   - scribe / scribe tui: full-screen writing view
//   - scribe serve: HTTP gateway with POST /assist
//   - scribe assist [TEXT]: revise a draft once
//   - scribe diff A B: compare two files offline
//   - scribe repl: line-oriented session with history
//   - scribe models, scribe config, scribe version, scribe help
//
// # Output
//
// Styled output is used only when stdout is a terminal and NO_COLOR is
// unset. With --json every command prints a JSONResponse envelope, and
// errors carry a "kind" of validation, upstream, malformed or usage.
//
// # Exit Codes
//
//	0  success
//	1  general error
//	2  usage or validation error
//	3  config error
//	5  backend error or malformed backend response
//	8  backend timeout
//
// # Usage
//
//	cmd, args := cli.Parse()
//	if err := cli.HandleAssist(args); err != nil {
//	    cli.HandleErrorAndExit(cmd.String(), err, args.JSON)
//	}
package cli
