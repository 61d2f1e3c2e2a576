// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export saves a submission's results for use outside scribe.
//
// The two downloads of the web frontend are kept byte for byte: the revised
// text (revised_text.txt) and the plain comparison report
// (comparison_report.txt). Markdown, HTML and JSON renditions carry the same
// content plus the word diff.
//
// # Key Types
//
//   - Exporter: renders a session.Submission in one format
//   - Options: output directory, file naming and HTML theme
//
// # Supported Formats
//
//   - text: the revised text verbatim
//   - report: ORIGINAL TEXT / REVISED TEXT / CHANGES SUMMARY
//   - markdown: report with fenced texts, counts table and inline diff
//   - html: goldmark-rendered report plus a colour-coded side-by-side diff
//   - json: the whole submission including classified tokens
//
// # Usage
//
//	path, err := export.ExportReport(sub, export.DefaultOptions())
//
//	exporter, _ := export.ForFormat("html", opts)
//	path, err = export.ExportToFile(sub, exporter, opts)
//
//	if err := export.CopyToClipboard(sub.Revised); errors.Is(err, export.ErrClipboardUnavailable) {
//	    // fall back to saving a file
//	}
package export
