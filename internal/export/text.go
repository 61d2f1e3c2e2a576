// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
)

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// TextExporter writes the revised text exactly as returned.
type TextExporter struct{}

// NewTextExporter creates a revised-text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export returns the revised text verbatim.
func (e *TextExporter) Export(sub *session.Submission) ([]byte, error) {
	if sub == nil {
		return nil, ErrNoSubmission
	}
	return []byte(RevisedText(sub)), nil
}

func (e *TextExporter) FileExtension() string   { return ".txt" }
func (e *TextExporter) MimeType() string        { return "text/plain" }
func (e *TextExporter) DefaultFilename() string { return "revised_text" }

// RevisedText returns the text saved as revised_text.txt.
func RevisedText(sub *session.Submission) string {
	return sub.Revised
}

// =============================================================================
// REPORT EXPORTER
// =============================================================================

// ReportExporter writes the plain-text comparison report.
type ReportExporter struct{}

// NewReportExporter creates a comparison report exporter.
func NewReportExporter() *ReportExporter {
	return &ReportExporter{}
}

// Export renders the report.
func (e *ReportExporter) Export(sub *session.Submission) ([]byte, error) {
	if sub == nil {
		return nil, ErrNoSubmission
	}
	return []byte(ComparisonReport(sub)), nil
}

func (e *ReportExporter) FileExtension() string   { return ".txt" }
func (e *ReportExporter) MimeType() string        { return "text/plain" }
func (e *ReportExporter) DefaultFilename() string { return "comparison_report" }

// ComparisonReport formats the comparison report:
//
//	ORIGINAL TEXT:
//	<original>
//
//	REVISED TEXT:
//	<revised>
//
//	CHANGES SUMMARY:
//	- Mode used: <mode>
//	- Added words: <n>
//	- Modified words: <n>
//	- Deleted words: <n>
func ComparisonReport(sub *session.Submission) string {
	counts := sub.Counts()

	var sb strings.Builder
	sb.WriteString("ORIGINAL TEXT:\n")
	sb.WriteString(sub.Original)
	sb.WriteString("\n\nREVISED TEXT:\n")
	sb.WriteString(sub.Revised)
	sb.WriteString("\n\nCHANGES SUMMARY:\n")
	fmt.Fprintf(&sb, "- Mode used: %s\n", sub.Mode)
	fmt.Fprintf(&sb, "- Added words: %d\n", counts.Added)
	fmt.Fprintf(&sb, "- Modified words: %d\n", counts.Modified)
	fmt.Fprintf(&sb, "- Deleted words: %d\n", counts.Deleted)
	return sb.String()
}
