// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// TOKEN TYPES
// =============================================================================

// TokenKind distinguishes word runs from whitespace runs.
type TokenKind int

const (
	// TokenWord is a maximal run of non-whitespace characters
	TokenWord TokenKind = iota
	// TokenSpace is a maximal run of whitespace characters
	TokenSpace
)

// String returns the string representation of a token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "word"
	case TokenSpace:
		return "space"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText.
func (k *TokenKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "word":
		*k = TokenWord
	case "space":
		*k = TokenSpace
	default:
		return fmt.Errorf("unknown token kind %q", text)
	}
	return nil
}

// Token is an immutable fragment of the tokenized string.
type Token struct {
	Text string    `json:"text"` // Exact bytes of the fragment
	Kind TokenKind `json:"kind"` // Word or whitespace
}

// IsSpace reports whether the token is a whitespace run.
func (t Token) IsSpace() bool {
	return t.Kind == TokenSpace
}

// =============================================================================
// TOKENIZATION
// =============================================================================

// Tokenize splits s into maximal runs of whitespace and non-whitespace
// characters, left to right. Join(Tokenize(s)) == s for every s, including
// strings with repeated spaces, newlines and invalid UTF-8. An empty string
// yields a nil slice. No case or Unicode normalization is performed.
func Tokenize(s string) []Token {
	if s == "" {
		return nil
	}

	var tokens []Token
	start := 0
	kind := kindOf(s)

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		k := TokenWord
		if unicode.IsSpace(r) {
			k = TokenSpace
		}
		if k != kind {
			tokens = append(tokens, Token{Text: s[start:i], Kind: kind})
			start = i
			kind = k
		}
		i += size
	}
	tokens = append(tokens, Token{Text: s[start:], Kind: kind})

	return tokens
}

// kindOf classifies the first rune of a non-empty string.
// Invalid UTF-8 bytes decode to RuneError and count as word characters.
func kindOf(s string) TokenKind {
	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsSpace(r) {
		return TokenSpace
	}
	return TokenWord
}

// Join concatenates token texts back into a string.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Words returns only the word tokens of a sequence.
func Words(tokens []Token) []Token {
	words := make([]Token, 0, len(tokens)/2+1)
	for _, t := range tokens {
		if t.Kind == TokenWord {
			words = append(words, t)
		}
	}
	return words
}
