// scribe - an LLM writing assistant with a word-level comparison view.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"github.com/cyprienti/LLM-Writing-Assistant/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = cli.RunTUI(args)
	case cli.CmdServe:
		err = cli.HandleServe(args)
	case cli.CmdAssist:
		err = cli.HandleAssist(args)
	case cli.CmdDiff:
		err = cli.HandleDiff(args)
	case cli.CmdRepl:
		err = cli.HandleRepl(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdModels:
		err = cli.HandleModels(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	default:
		err = cli.HandleHelp()
	}

	if err != nil {
		cli.HandleErrorAndExit(cmd.String(), err, args.JSON)
	}
}
