// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"full", ModeFull, false},
		{"grammar", ModeGrammar, false},
		{" Grammar ", ModeGrammar, false},
		{"FULL", ModeFull, false},
		{"", "", true},
		{"poetry", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if err != nil && !IsValidation(err) {
			t.Errorf("ParseMode(%q) error kind = %s, want validation", tt.input, KindOf(err))
		}
	}
}

func TestMode_LabelAndNext(t *testing.T) {
	if got := ModeGrammar.Label(); got != "Grammar" {
		t.Errorf("Label() = %q, want Grammar", got)
	}
	if got := ModeFull.Label(); got != "Full" {
		t.Errorf("Label() = %q, want Full", got)
	}
	if ModeFull.Next() != ModeGrammar || ModeGrammar.Next() != ModeFull {
		t.Error("Next() does not toggle between the two modes")
	}
}

func TestBuildPrompt(t *testing.T) {
	grammar := BuildPrompt(ModeGrammar, "  I has a pen.\n")
	if !strings.HasPrefix(grammar, "Correct the grammar, spelling, and punctuation") {
		t.Errorf("grammar prompt starts with %q", grammar[:40])
	}
	if !strings.HasSuffix(grammar, "Respond with **only** the corrected text.\n\nI has a pen.") {
		t.Errorf("grammar prompt = %q", grammar)
	}

	full := BuildPrompt(ModeFull, "Text")
	want := "Improve the clarity, style and academic tone of the following text. " +
		"Do **not** change the meaning and the language. " +
		"Respond with the corrected text **only**.\n\nText"
	if full != want {
		t.Errorf("full prompt = %q, want %q", full, want)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("plain"), KindUnknown},
		{&ValidationError{Field: "text", Message: ErrEmptyText}, KindValidation},
		{&UpstreamError{Message: "down"}, KindUpstream},
		{&MalformedResponseError{Message: "bad"}, KindMalformed},
		{fmt.Errorf("wrapped: %w", &UpstreamError{Message: "down"}), KindUpstream},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	v := &ValidationError{Field: "text", Message: ErrEmptyText}
	if v.Error() != "text: Empty text input." {
		t.Errorf("ValidationError = %q", v.Error())
	}

	u := &UpstreamError{Message: "backend timed out", Cause: errors.New("deadline")}
	if u.Error() != "backend timed out: deadline" {
		t.Errorf("UpstreamError = %q", u.Error())
	}

	m := &MalformedResponseError{Message: "malformed response from Ollama"}
	if m.Error() != "malformed response from Ollama" {
		t.Errorf("MalformedResponseError = %q", m.Error())
	}
}

func TestEstimateTokens(t *testing.T) {
	if n := EstimateTokens(""); n != 0 {
		t.Errorf("EstimateTokens(\"\") = %d, want 0", n)
	}
	short := EstimateTokens("hello")
	long := EstimateTokens(strings.Repeat("hello world ", 50))
	if short <= 0 || long <= short {
		t.Errorf("EstimateTokens not monotonic: short=%d long=%d", short, long)
	}
}
