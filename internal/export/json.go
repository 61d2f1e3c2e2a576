// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/session"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports the complete submission, including both classified
// token sequences, so the diff can be re-rendered elsewhere.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a submission to indented JSON.
func (e *JSONExporter) Export(sub *session.Submission) ([]byte, error) {
	if sub == nil {
		return nil, ErrNoSubmission
	}
	return json.MarshalIndent(sub, "", "  ")
}

func (e *JSONExporter) FileExtension() string   { return ".json" }
func (e *JSONExporter) MimeType() string        { return "application/json" }
func (e *JSONExporter) DefaultFilename() string { return "submission" }
