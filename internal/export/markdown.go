// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/diff"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports a submission as a Markdown report.
type MarkdownExporter struct {
	options *Options
	now     func() time.Time
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts, now: time.Now}
}

// Export converts a submission to Markdown.
func (e *MarkdownExporter) Export(sub *session.Submission) ([]byte, error) {
	if sub == nil {
		return nil, ErrNoSubmission
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString(e.frontmatter(sub))
	}
	sb.WriteString(e.body(sub))

	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) FileExtension() string   { return ".md" }
func (e *MarkdownExporter) MimeType() string        { return "text/markdown" }
func (e *MarkdownExporter) DefaultFilename() string { return "comparison_report" }

// frontmatter renders the YAML header block.
func (e *MarkdownExporter) frontmatter(sub *session.Submission) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("id: %s\n", sub.ID))
	sb.WriteString(fmt.Sprintf("mode: %s\n", sub.Mode))
	sb.WriteString(fmt.Sprintf("provider: %s\n", escapeYAML(sub.Provider)))
	sb.WriteString(fmt.Sprintf("model: %s\n", escapeYAML(sub.Model)))
	if !sub.SubmittedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("date: %s\n", sub.SubmittedAt.Format(time.RFC3339)))
	}
	sb.WriteString(fmt.Sprintf("exported: %s\n", e.now().Format(time.RFC3339)))
	sb.WriteString("generator: scribe\n")
	sb.WriteString("---\n\n")
	return sb.String()
}

// body renders the report itself; the HTML exporter reuses it.
func (e *MarkdownExporter) body(sub *session.Submission) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Writing Report (%s)\n\n", sub.Mode.Label()))

	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("- **Mode**: %s\n", sub.Mode.Description()))
		if sub.Model != "" {
			sb.WriteString(fmt.Sprintf("- **Model**: %s (%s)\n", escapeMarkdown(sub.Model), sub.Provider))
		}
		if !sub.SubmittedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("- **Submitted**: %s\n", formatTimestamp(sub.SubmittedAt)))
		}
		if sub.Duration > 0 {
			sb.WriteString(fmt.Sprintf("- **Response time**: %s\n", sub.Elapsed()))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Original Text\n\n")
	sb.WriteString(fenced(sub.Original, "text"))

	sb.WriteString("## Revised Text\n\n")
	sb.WriteString(fenced(sub.Revised, "text"))

	counts := sub.Counts()
	sb.WriteString("## Changes Summary\n\n")
	sb.WriteString("| Change | Words |\n")
	sb.WriteString("| --- | ---: |\n")
	sb.WriteString(fmt.Sprintf("| Added | %d |\n", counts.Added))
	sb.WriteString(fmt.Sprintf("| Modified | %d |\n", counts.Modified))
	sb.WriteString(fmt.Sprintf("| Deleted | %d |\n\n", counts.Deleted))

	if sub.Diff != nil && sub.Diff.HasChanges() {
		sb.WriteString("## Inline Diff\n\n")
		sb.WriteString("Deleted text is shown as `[-text-]`, added text as `{+text+}`.\n\n")
		sb.WriteString(fenced(diff.FormatInline(sub.Diff), "diff"))
	} else {
		sb.WriteString("_No changes detected._\n")
	}

	return sb.String()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// fenced wraps body in a code fence longer than any backtick run inside it,
// so user text can never close the block early.
func fenced(body, lang string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	fence := strings.Repeat("`", max(3, longest+1))
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return fence + lang + "\n" + body + fence + "\n\n"
}

// escapeMarkdown escapes special Markdown characters in text.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"`", "\\`",
		"*", "\\*",
		"_", "\\_",
		"[", "\\[",
		"]", "\\]",
		"#", "\\#",
		"|", "\\|",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}

// escapeYAML quotes a value when it contains YAML-significant characters.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#\"'\n[]{}&*!|>%@`") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
