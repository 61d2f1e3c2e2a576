// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/util"
)

// ErrNoSubmission is returned when there is nothing to export yet.
var ErrNoSubmission = errors.New("no submission to export")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for submission exporters.
type Exporter interface {
	// Export renders the submission in the target format.
	Export(sub *session.Submission) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".html").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string

	// DefaultFilename is the base file name used when none is configured.
	DefaultFilename() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// Filename overrides the exporter's default base name (no extension).
	Filename string

	// Timestamped appends _YYYYMMDD_HHMMSS so earlier exports are kept.
	Timestamped bool

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeMetadata adds model, provider and timing to Markdown and HTML.
	IncludeMetadata bool

	// Theme for HTML export ("light" or "dark").
	// Default: "dark"
	Theme string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
		Theme:           "dark",
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders sub with exporter and writes it atomically into
// opts.OutputDir. Returns the output file path.
//
// An existing file with the same name is replaced, the same way a browser
// download of revised_text.txt overwrites the previous one.
func ExportToFile(sub *session.Submission, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if sub == nil {
		return "", ErrNoSubmission
	}

	content, err := exporter.Export(sub)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, outputName(exporter, opts, time.Now()))
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal - file was still created successfully
			return outputPath, fmt.Errorf("exported to %s but could not open it: %w", outputPath, err)
		}
	}

	return outputPath, nil
}

// ExportRevisedText writes revised_text.txt.
func ExportRevisedText(sub *session.Submission, opts *Options) (string, error) {
	return ExportToFile(sub, NewTextExporter(), opts)
}

// ExportReport writes comparison_report.txt.
func ExportReport(sub *session.Submission, opts *Options) (string, error) {
	return ExportToFile(sub, NewReportExporter(), opts)
}

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "txt", "revised":
		return NewTextExporter(), nil
	case "report":
		return NewReportExporter(), nil
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "html", "htm":
		return NewHTMLExporter(opts), nil
	case "json":
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// Formats lists the names ForFormat accepts, one per exporter.
var Formats = []string{"text", "report", "markdown", "html", "json"}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// outputName builds the file name from options and the exporter defaults.
func outputName(exporter Exporter, opts *Options, now time.Time) string {
	base := exporter.DefaultFilename()
	if opts.Filename != "" {
		base = sanitizeFilename(opts.Filename)
	}
	if opts.Timestamped {
		base += "_" + now.Format("20060102_150405")
	}
	return base + exporter.FileExtension()
}

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	// Limit length
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	// Replace problematic characters (Windows and Unix)
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			// Replace control characters
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "export"
	}

	return string(result)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
