// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (overridden at build time with -ldflags).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdServe
	CmdAssist
	CmdDiff
	CmdRepl
	CmdConfig
	CmdModels
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdServe:
		return "serve"
	case CmdAssist:
		return "assist"
	case CmdDiff:
		return "diff"
	case CmdRepl:
		return "repl"
	case CmdConfig:
		return "config"
	case CmdModels:
		return "models"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose    bool
	JSON       bool
	ConfigPath string
	Model      string

	// assist / repl
	Mode      string
	File      string
	Text      string
	Report    bool
	Save      string
	OutputDir string

	// serve
	Host string
	Port int

	// config
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Force      bool

	// Positional arguments after the command name.
	Raw []string
}

// boolFlags never take a value.
var boolFlags = []string{"verbose", "v", "json", "report", "help", "h", "version", "force"}

const usageText = `scribe - LLM writing assistant

Improves a draft with a local or OpenAI-compatible model and shows a
word-level, colour-coded comparison of the original and revised text.

Usage:
  scribe                         Start the TUI (default)
  scribe tui                     Start the TUI
  scribe serve                   Run the HTTP gateway (POST /assist)
  scribe assist [TEXT]           Revise TEXT, a file or stdin once
  scribe diff ORIGINAL REVISED   Compare two files offline
  scribe repl                    Line-oriented interactive mode
  scribe models                  List the backend's models
  scribe config [show|path|init|get|set|keys]
  scribe version                 Show version information
  scribe help                    Show this help

Assist flags:
  -m, --mode MODE      full (default) or grammar
  -f, --file PATH      Read the draft from PATH ("-" for stdin)
  --report             Print the comparison report instead of the text
  --save FORMAT        Also write text, report, markdown, html or json
  -o, --out DIR        Directory for --save (default: ui.export_dir)

Serve flags:
  --host HOST          Listen address (default: server.host)
  --port PORT          Listen port (default: server.port)

Global flags:
  --config PATH        Config file (default: ~/.scribe/config.toml)
  --model NAME         Override backend.model
  --json               Machine-readable output
  -v, --verbose        Log to stderr

Examples:
  scribe assist --mode grammar "Their going to the libary tomorow."
  cat draft.txt | scribe assist --report > comparison_report.txt
  scribe assist -f essay.md --save html -o ./reports
  scribe diff draft_v1.txt draft_v2.txt
  scribe config set backend.model mistral
`

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args. Usage errors print the message and exit with
// ExitUsageError.
func Parse() (Command, Args) {
	cmd, args, err := ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\nRun 'scribe help' for usage.\n", err)
		os.Exit(ExitUsageError)
	}
	if cmd != CmdTUI {
		applyColorProfile()
	}
	return cmd, args
}

// ParseArgs parses argv (without the program name).
func ParseArgs(argv []string) (Command, Args, error) {
	p := NewArgParser(argv, boolFlags...)

	args := Args{
		Verbose:    p.Bool("verbose", "v"),
		JSON:       p.Bool("json"),
		ConfigPath: p.Flag("config"),
		Model:      p.Flag("model"),
	}

	if p.Bool("help", "h") {
		return CmdHelp, args, nil
	}
	if p.Bool("version") {
		return CmdVersion, args, nil
	}

	name := strings.ToLower(p.Positional(0))
	rest := p.PositionalFrom(1)
	args.Raw = rest

	switch name {
	case "", "tui":
		args.Mode = p.Flag("mode", "m")
		return CmdTUI, args, nil

	case "serve", "server":
		port, err := p.FlagInt(0, "port")
		if err != nil {
			return CmdServe, args, err
		}
		if port < 0 || port > 65535 {
			return CmdServe, args, &UsageError{Message: fmt.Sprintf("--port out of range: %d", port)}
		}
		args.Host = p.Flag("host")
		args.Port = port
		return CmdServe, args, nil

	case "assist", "a":
		args.Mode = p.Flag("mode", "m")
		args.File = p.Flag("file", "f")
		args.Report = p.Bool("report")
		args.Save = p.Flag("save")
		args.OutputDir = p.Flag("out", "o")
		args.Text = strings.Join(rest, " ")
		if args.File != "" && args.Text != "" {
			return CmdAssist, args, &UsageError{Message: "pass either TEXT or --file, not both"}
		}
		return CmdAssist, args, nil

	case "diff":
		if len(rest) != 2 {
			return CmdDiff, args, &UsageError{Message: "diff needs exactly two files: scribe diff ORIGINAL REVISED"}
		}
		return CmdDiff, args, nil

	case "repl":
		args.Mode = p.Flag("mode", "m")
		return CmdRepl, args, nil

	case "config":
		args.Subcommand = "show"
		args.Force = p.Bool("force")
		if len(rest) > 0 {
			args.Subcommand = strings.ToLower(rest[0])
		}
		if len(rest) > 1 {
			args.ConfigKey = rest[1]
		}
		if len(rest) > 2 {
			args.ConfigVal = strings.Join(rest[2:], " ")
		}
		return CmdConfig, args, nil

	case "models":
		return CmdModels, args, nil

	case "version":
		return CmdVersion, args, nil

	case "help":
		return CmdHelp, args, nil

	default:
		return CmdHelp, args, &UsageError{Message: fmt.Sprintf("unknown command %q", name)}
	}
}

// =============================================================================
// VERSION AND HELP
// =============================================================================

// VersionData is the JSON shape of `scribe version --json`.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func versionData() VersionData {
	return VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// HandleVersion prints version information.
func HandleVersion(args Args) error {
	v := versionData()
	if args.JSON {
		return NewJSONResponse("version", v).Print()
	}
	fmt.Printf("%s %s\n", titleStyle.Render("scribe"), v.Version)
	fmt.Printf("  %s %s\n", labelStyle.Render("commit:  "), v.GitCommit)
	fmt.Printf("  %s %s\n", labelStyle.Render("built:   "), v.BuildDate)
	fmt.Printf("  %s %s\n", labelStyle.Render("go:      "), v.GoVersion)
	fmt.Printf("  %s %s\n", labelStyle.Render("platform:"), v.Platform)
	return nil
}

// PrintUsage prints the command summary.
func PrintUsage() {
	fmt.Print(usageText)
}

// HandleHelp prints the command summary and, on a terminal, the rendered
// usage guide of the TUI.
func HandleHelp() error {
	PrintUsage()
	if IsStdoutTTY() {
		fmt.Println()
		fmt.Println(renderMarkdown(helpGuide()))
	}
	return nil
}
