// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/diff"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports a submission as a standalone HTML page: the Markdown
// report rendered by goldmark followed by a colour-coded side-by-side diff.
type HTMLExporter struct {
	options  *Options
	markdown *MarkdownExporter
	md       goldmark.Markdown
	now      func() time.Time
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Theme != "light" {
		opts.Theme = "dark"
	}
	return &HTMLExporter{
		options:  opts,
		markdown: NewMarkdownExporter(opts),
		// Raw HTML in user text stays escaped: goldmark's renderer is not
		// switched to unsafe mode.
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		now: time.Now,
	}
}

// Export converts a submission to HTML.
func (e *HTMLExporter) Export(sub *session.Submission) ([]byte, error) {
	if sub == nil {
		return nil, ErrNoSubmission
	}

	var report bytes.Buffer
	if err := e.md.Convert([]byte(e.markdown.body(sub)), &report); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>Writing Report (%s)</title>\n", html.EscapeString(sub.Mode.Label())))
	sb.WriteString("    <meta name=\"generator\" content=\"scribe\">\n")
	if !sub.SubmittedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", sub.SubmittedAt.Format(time.RFC3339)))
	}
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.Theme))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <main class=\"report\">\n")
	sb.Write(report.Bytes())
	sb.WriteString("        </main>\n")

	if sub.Diff != nil {
		sb.WriteString(e.renderDiff(sub.Diff))
	}

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>scribe</strong> on %s</p>\n",
		e.now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

func (e *HTMLExporter) FileExtension() string   { return ".html" }
func (e *HTMLExporter) MimeType() string        { return "text/html" }
func (e *HTMLExporter) DefaultFilename() string { return "comparison_report" }

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

// renderDiff renders both classified sequences side by side.
func (e *HTMLExporter) renderDiff(d *diff.WordDiff) string {
	var sb strings.Builder

	sb.WriteString("        <section class=\"diff\">\n")
	sb.WriteString("            <div class=\"diff-column\">\n")
	sb.WriteString("                <h3>Original</h3>\n")
	sb.WriteString("                <div class=\"diff-text\">")
	sb.WriteString(renderTokens(d.OriginalDiff))
	sb.WriteString("</div>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("            <div class=\"diff-column\">\n")
	sb.WriteString("                <h3>Revised</h3>\n")
	sb.WriteString("                <div class=\"diff-text\">")
	sb.WriteString(renderTokens(d.RevisedDiff))
	sb.WriteString("</div>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </section>\n")

	return sb.String()
}

// renderTokens escapes each token and wraps changed ones in a status span.
// Adjacent tokens with the same status share one span.
func renderTokens(tokens []diff.ClassifiedToken) string {
	var sb strings.Builder

	for i := 0; i < len(tokens); {
		status := tokens[i].Status
		j := i
		var run strings.Builder
		for j < len(tokens) && tokens[j].Status == status {
			run.WriteString(tokens[j].Text)
			j++
		}

		text := html.EscapeString(run.String())
		if class := statusClass(status); class != "" {
			sb.WriteString(fmt.Sprintf("<span class=\"%s\">%s</span>", class, text))
		} else {
			sb.WriteString(text)
		}
		i = j
	}

	return sb.String()
}

// statusClass maps a token status to its CSS class.
func statusClass(s diff.Status) string {
	switch s {
	case diff.StatusAdded:
		return "added"
	case diff.StatusModified:
		return "modified"
	case diff.StatusDeleted:
		return "deleted"
	default:
		return ""
	}
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// getCSS returns the embedded CSS for the HTML export. The diff colours are
// the same in both themes.
func (e *HTMLExporter) getCSS() string {
	return `    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Fira Code", "Source Code Pro", monospace;
        }

        .dark-theme {
            --bg-primary: #1e1e1e;
            --bg-secondary: #2d2d2d;
            --text-primary: #e0e0e0;
            --text-muted: #9e9e9e;
            --border-color: #3d3d3d;
            --accent: #4dabf7;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --accent: #0366d6;
        }

        body {
            font-family: var(--font-sans);
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 1100px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
        }

        .report, .diff, .footer {
            padding: 24px 32px;
        }

        .report h1, .report h2 {
            margin: 16px 0 8px;
            color: var(--accent);
        }

        .report ul, .report p {
            margin: 8px 0 8px 20px;
        }

        .report pre {
            margin: 8px 0 16px;
            padding: 16px;
            overflow-x: auto;
            background: var(--bg-primary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            font-family: var(--font-mono);
            white-space: pre-wrap;
        }

        .report table {
            border-collapse: collapse;
            margin: 8px 0 16px;
        }

        .report th, .report td {
            padding: 4px 12px;
            border: 1px solid var(--border-color);
        }

        .diff {
            display: flex;
            gap: 16px;
            border-top: 1px solid var(--border-color);
        }

        .diff-column {
            flex: 1;
            min-width: 0;
        }

        .diff-text {
            padding: 12px;
            background: var(--bg-primary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            white-space: pre-wrap;
            word-wrap: break-word;
        }

        .added {
            color: #51cf66;
            background: #1a4a1a;
        }

        .modified {
            color: #ffd43b;
            background: #4a3a1a;
        }

        .deleted {
            color: #ff6b6b;
            background: #4a1a1a;
            text-decoration: line-through;
        }

        .footer {
            text-align: center;
            font-size: 14px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
        }

        @media (max-width: 768px) {
            .diff {
                flex-direction: column;
            }
        }
    </style>
`
}
