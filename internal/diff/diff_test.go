// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"unicode"
)

// =============================================================================
// HELPERS
// =============================================================================

// words builds a token sequence of word tokens without whitespace.
func words(texts ...string) []Token {
	tokens := make([]Token, len(texts))
	for i, t := range texts {
		tokens[i] = Token{Text: t, Kind: TokenWord}
	}
	return tokens
}

// randomText builds a string from a small alphabet so that runs repeat often.
func randomText(r *rand.Rand, maxLen int) string {
	alphabet := []string{"a", "b", "c", "the", " ", "  ", "\n", "\t", "é", ".", "\xff"}
	n := r.Intn(maxLen + 1)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(alphabet[r.Intn(len(alphabet))])
	}
	return sb.String()
}

// lcsLength is a reference LCS length used to check that Align is optimal.
func lcsLength(a, b []Token) int {
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1].Text == b[j-1].Text {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] > dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp[len(a)][len(b)]
}

func statuses(cts []ClassifiedToken) []Status {
	out := make([]Status, len(cts))
	for i, ct := range cts {
		out[i] = ct.Status
	}
	return out
}

// =============================================================================
// TOKENIZER TESTS
// =============================================================================

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single word", "word", []string{"word"}},
		{"sentence", "The cat sat.", []string{"The", " ", "cat", " ", "sat."}},
		{"leading space", "  lead", []string{"  ", "lead"}},
		{"trailing space", "trail ", []string{"trail", " "}},
		{"newlines", "a\n\nb  c", []string{"a", "\n\n", "b", "  ", "c"}},
		{"mixed whitespace", "a \t\n b", []string{"a", " \t\n ", "b"}},
		{"unicode", "héllo wörld", []string{"héllo", " ", "wörld"}},
		{"no-break space", "a\u00a0b", []string{"a", "\u00a0", "b"}},
		{"only whitespace", " \n ", []string{" \n "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			if len(tokens) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %d tokens, want %d", tt.input, len(tokens), len(tt.want))
			}
			for i, tok := range tokens {
				if tok.Text != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, tok.Text, tt.want[i])
				}
			}
		})
	}
}

func TestTokenize_Kinds(t *testing.T) {
	tokens := Tokenize(" a b")
	want := []TokenKind{TokenSpace, TokenWord, TokenSpace, TokenWord}

	for i, tok := range tokens {
		if tok.Kind != want[i] {
			t.Errorf("token %d kind = %s, want %s", i, tok.Kind, want[i])
		}
	}
	if !tokens[0].IsSpace() || tokens[1].IsSpace() {
		t.Error("IsSpace does not match Kind")
	}
}

func TestTokenize_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		s := randomText(r, 40)
		if got := Join(Tokenize(s)); got != s {
			t.Fatalf("Join(Tokenize(%q)) = %q", s, got)
		}
	}
}

func TestTokenize_Partition(t *testing.T) {
	r := rand.New(rand.NewSource(2))

	for i := 0; i < 500; i++ {
		s := randomText(r, 40)
		tokens := Tokenize(s)

		for k, tok := range tokens {
			if tok.Text == "" {
				t.Fatalf("empty token in %q", s)
			}
			for _, ch := range tok.Text {
				if unicode.IsSpace(ch) != tok.IsSpace() {
					t.Fatalf("token %q of %q mixes classes", tok.Text, s)
				}
			}
			if k > 0 && tokens[k-1].Kind == tok.Kind {
				t.Fatalf("adjacent tokens %q and %q share kind %s", tokens[k-1].Text, tok.Text, tok.Kind)
			}
		}
	}
}

func TestWords(t *testing.T) {
	got := Words(Tokenize(" one two  three "))
	if len(got) != 3 || got[0].Text != "one" || got[2].Text != "three" {
		t.Errorf("Words() = %v", got)
	}
}

// =============================================================================
// ALIGNER TESTS
// =============================================================================

// checkOpcodes verifies that ops partition both sequences contiguously and
// that equal opcodes really cover equal tokens.
func checkOpcodes(t *testing.T, a, b []Token, ops []Opcode) {
	t.Helper()

	i, j := 0, 0
	for k, op := range ops {
		if op.I1 != i || op.J1 != j {
			t.Fatalf("opcode %d (%s) starts at a[%d] b[%d], want a[%d] b[%d]", k, op, op.I1, op.J1, i, j)
		}
		if op.I2 < op.I1 || op.J2 < op.J1 {
			t.Fatalf("opcode %d (%s) has a negative range", k, op)
		}

		switch op.Tag {
		case OpEqual:
			if op.OriginalLen() != op.RevisedLen() || op.OriginalLen() == 0 {
				t.Fatalf("equal opcode %s has mismatched or empty ranges", op)
			}
			for x := 0; x < op.OriginalLen(); x++ {
				if a[op.I1+x].Text != b[op.J1+x].Text {
					t.Fatalf("equal opcode %s covers %q != %q", op, a[op.I1+x].Text, b[op.J1+x].Text)
				}
			}
		case OpInsert:
			if op.OriginalLen() != 0 || op.RevisedLen() == 0 {
				t.Fatalf("insert opcode %s has bad ranges", op)
			}
		case OpDelete:
			if op.RevisedLen() != 0 || op.OriginalLen() == 0 {
				t.Fatalf("delete opcode %s has bad ranges", op)
			}
		case OpReplace:
			if op.OriginalLen() == 0 || op.RevisedLen() == 0 {
				t.Fatalf("replace opcode %s has an empty side", op)
			}
		}

		if k > 0 && op.Tag != OpEqual && ops[k-1].Tag != OpEqual {
			t.Fatalf("change opcodes %s and %s are adjacent", ops[k-1], op)
		}
		if k > 0 && op.Tag == OpEqual && ops[k-1].Tag == OpEqual {
			t.Fatalf("equal opcodes %s and %s are adjacent", ops[k-1], op)
		}

		i, j = op.I2, op.J2
	}

	if i != len(a) || j != len(b) {
		t.Fatalf("opcodes end at a[%d] b[%d], want a[%d] b[%d]", i, j, len(a), len(b))
	}
}

func TestAlign_Empty(t *testing.T) {
	if ops := Align(nil, nil); len(ops) != 0 {
		t.Errorf("Align(nil, nil) = %v, want no opcodes", ops)
	}

	b := words("x", "y")
	ops := Align(nil, b)
	want := []Opcode{{Tag: OpInsert, I1: 0, I2: 0, J1: 0, J2: 2}}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align(nil, b) = %v, want %v", ops, want)
	}

	ops = Align(b, nil)
	want = []Opcode{{Tag: OpDelete, I1: 0, I2: 2, J1: 0, J2: 0}}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align(b, nil) = %v, want %v", ops, want)
	}
}

func TestAlign_Identity(t *testing.T) {
	a := Tokenize("The quick brown fox\njumps over the lazy dog.")
	b := Tokenize("The quick brown fox\njumps over the lazy dog.")

	ops := Align(a, b)
	want := []Opcode{{Tag: OpEqual, I1: 0, I2: len(a), J1: 0, J2: len(b)}}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align(a, a) = %v, want %v", ops, want)
	}
}

func TestAlign_Replace(t *testing.T) {
	a := Tokenize("The cat sat.")
	b := Tokenize("The dog sat.")

	ops := Align(a, b)
	want := []Opcode{
		{Tag: OpEqual, I1: 0, I2: 2, J1: 0, J2: 2},
		{Tag: OpReplace, I1: 2, I2: 3, J1: 2, J2: 3},
		{Tag: OpEqual, I1: 3, I2: 5, J1: 3, J2: 5},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align() = %v, want %v", ops, want)
	}
}

func TestAlign_UnequalReplace(t *testing.T) {
	// One word becomes three: the whole change run is a single replace.
	a := words("a", "x", "b")
	b := words("a", "y", "z", "w", "b")

	ops := Align(a, b)
	want := []Opcode{
		{Tag: OpEqual, I1: 0, I2: 1, J1: 0, J2: 1},
		{Tag: OpReplace, I1: 1, I2: 2, J1: 1, J2: 4},
		{Tag: OpEqual, I1: 2, I2: 3, J1: 4, J2: 5},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align() = %v, want %v", ops, want)
	}
}

func TestAlign_Insert(t *testing.T) {
	a := Tokenize("Quick fix.")
	b := Tokenize("Quick and fast fix.")

	ops := Align(a, b)
	want := []Opcode{
		{Tag: OpEqual, I1: 0, I2: 2, J1: 0, J2: 2},
		{Tag: OpInsert, I1: 2, I2: 2, J1: 2, J2: 6},
		{Tag: OpEqual, I1: 2, I2: 3, J1: 6, J2: 7},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align() = %v, want %v", ops, want)
	}
}

func TestAlign_Delete(t *testing.T) {
	a := Tokenize("a b c")
	b := Tokenize("a c")

	ops := Align(a, b)
	want := []Opcode{
		{Tag: OpEqual, I1: 0, I2: 2, J1: 0, J2: 2},
		{Tag: OpDelete, I1: 2, I2: 4, J1: 2, J2: 2},
		{Tag: OpEqual, I1: 4, I2: 5, J1: 2, J2: 3},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align() = %v, want %v", ops, want)
	}
}

func TestAlign_TieBreak(t *testing.T) {
	// Two minimal alignments exist (keep x or keep y). Deleting from the
	// original first keeps y.
	ops := Align(words("x", "y"), words("y", "x"))
	want := []Opcode{
		{Tag: OpDelete, I1: 0, I2: 1, J1: 0, J2: 0},
		{Tag: OpEqual, I1: 1, I2: 2, J1: 0, J2: 1},
		{Tag: OpInsert, I1: 2, I2: 2, J1: 1, J2: 2},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align() = %v, want %v", ops, want)
	}
}

func TestAlign_EarliestMatch(t *testing.T) {
	// "a" can match either occurrence in b; the first one wins.
	ops := Align(words("a"), words("a", "b", "a"))
	want := []Opcode{
		{Tag: OpEqual, I1: 0, I2: 1, J1: 0, J2: 1},
		{Tag: OpInsert, I1: 1, I2: 1, J1: 1, J2: 3},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align() = %v, want %v", ops, want)
	}
}

func TestAlign_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	for i := 0; i < 300; i++ {
		a := Tokenize(randomText(r, 30))
		b := Tokenize(randomText(r, 30))

		ops := Align(a, b)
		checkOpcodes(t, a, b, ops)

		matched := 0
		for _, op := range ops {
			if op.Tag == OpEqual {
				matched += op.OriginalLen()
			}
		}
		if want := lcsLength(a, b); matched != want {
			t.Fatalf("Align matched %d tokens, LCS is %d (a=%q b=%q)", matched, want, Join(a), Join(b))
		}
	}
}

func TestAlign_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(4))

	for i := 0; i < 100; i++ {
		a := Tokenize(randomText(r, 30))
		b := Tokenize(randomText(r, 30))

		first := Align(a, b)
		second := Align(a, b)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Align is not deterministic: %v vs %v", first, second)
		}
	}
}

func TestOpTag_String(t *testing.T) {
	tests := []struct {
		tag      OpTag
		expected string
	}{
		{OpEqual, "equal"},
		{OpInsert, "insert"},
		{OpDelete, "delete"},
		{OpReplace, "replace"},
		{OpTag(99), "unknown"},
	}

	for _, tt := range tests {
		if result := tt.tag.String(); result != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, result)
		}
	}
}

// =============================================================================
// CLASSIFIER TESTS
// =============================================================================

func TestClassify_Unchanged(t *testing.T) {
	d := Compute("The cat sat.", "The cat sat.")

	if d.Counts != (Counts{}) {
		t.Errorf("Counts = %+v, want zero", d.Counts)
	}
	for _, ct := range append(d.OriginalDiff, d.RevisedDiff...) {
		if ct.Status != StatusUnchanged {
			t.Errorf("token %q = %s, want unchanged", ct.Text, ct.Status)
		}
	}
	if d.HasChanges() {
		t.Error("HasChanges() = true for identical text")
	}
}

func TestClassify_Modified(t *testing.T) {
	d := Compute("The cat sat.", "The dog sat.")

	wantOrig := []Status{StatusUnchanged, StatusUnchanged, StatusModified, StatusUnchanged, StatusUnchanged}
	if got := statuses(d.OriginalDiff); !reflect.DeepEqual(got, wantOrig) {
		t.Errorf("original statuses = %v, want %v", got, wantOrig)
	}
	if got := statuses(d.RevisedDiff); !reflect.DeepEqual(got, wantOrig) {
		t.Errorf("revised statuses = %v, want %v", got, wantOrig)
	}
	if d.OriginalDiff[2].Text != "cat" || d.RevisedDiff[2].Text != "dog" {
		t.Errorf("modified tokens = %q/%q, want cat/dog", d.OriginalDiff[2].Text, d.RevisedDiff[2].Text)
	}
	if want := (Counts{Modified: 1}); d.Counts != want {
		t.Errorf("Counts = %+v, want %+v", d.Counts, want)
	}
}

func TestClassify_Added(t *testing.T) {
	d := Compute("Quick fix.", "Quick and fast fix.")

	for _, ct := range d.OriginalDiff {
		if ct.Status != StatusUnchanged {
			t.Errorf("original token %q = %s, want unchanged", ct.Text, ct.Status)
		}
	}

	added := map[string]bool{}
	for _, ct := range d.RevisedDiff {
		if ct.Status == StatusAdded && ct.Kind == TokenWord {
			added[ct.Text] = true
		}
	}
	if !added["and"] || !added["fast"] || len(added) != 2 {
		t.Errorf("added words = %v, want and, fast", added)
	}
	if d.RevisedDiff[0].Status != StatusUnchanged || d.RevisedDiff[len(d.RevisedDiff)-1].Status != StatusUnchanged {
		t.Error("Quick and fix. should stay unchanged")
	}
	if want := (Counts{Added: 4}); d.Counts != want {
		t.Errorf("Counts = %+v, want %+v", d.Counts, want)
	}
}

func TestClassify_Deleted(t *testing.T) {
	d := Compute("a b c", "a c")

	wantOrig := []Status{StatusUnchanged, StatusUnchanged, StatusDeleted, StatusDeleted, StatusUnchanged}
	if got := statuses(d.OriginalDiff); !reflect.DeepEqual(got, wantOrig) {
		t.Errorf("original statuses = %v, want %v", got, wantOrig)
	}
	if len(d.RevisedDiff) != 3 {
		t.Errorf("revised diff has %d tokens, want 3", len(d.RevisedDiff))
	}
	if want := (Counts{Deleted: 2}); d.Counts != want {
		t.Errorf("Counts = %+v, want %+v", d.Counts, want)
	}
}

func TestClassify_Conservation(t *testing.T) {
	r := rand.New(rand.NewSource(5))

	for i := 0; i < 300; i++ {
		original := randomText(r, 30)
		revised := randomText(r, 30)
		d := Compute(original, revised)

		if len(d.OriginalDiff) != len(d.OriginalTokens) {
			t.Fatalf("original diff has %d tokens, want %d", len(d.OriginalDiff), len(d.OriginalTokens))
		}
		if len(d.RevisedDiff) != len(d.RevisedTokens) {
			t.Fatalf("revised diff has %d tokens, want %d", len(d.RevisedDiff), len(d.RevisedTokens))
		}

		var origText, revText strings.Builder
		for _, ct := range d.OriginalDiff {
			origText.WriteString(ct.Text)
		}
		for _, ct := range d.RevisedDiff {
			revText.WriteString(ct.Text)
		}
		if origText.String() != original || revText.String() != revised {
			t.Fatalf("classified tokens do not rebuild the inputs")
		}
	}
}

func TestClassify_CountsMatchOpcodes(t *testing.T) {
	r := rand.New(rand.NewSource(6))

	for i := 0; i < 300; i++ {
		d := Compute(randomText(r, 30), randomText(r, 30))

		var want Counts
		for _, op := range d.Opcodes {
			switch op.Tag {
			case OpInsert:
				want.Added += op.RevisedLen()
			case OpReplace:
				want.Modified += op.RevisedLen()
			case OpDelete:
				want.Deleted += op.OriginalLen()
			}
		}
		if d.Counts != want {
			t.Fatalf("Counts = %+v, opcodes imply %+v", d.Counts, want)
		}
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusUnchanged, "unchanged"},
		{StatusDeleted, "deleted"},
		{StatusAdded, "added"},
		{StatusModified, "modified"},
		{Status(42), "unknown"},
	}

	for _, tt := range tests {
		if result := tt.status.String(); result != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, result)
		}
	}
}

// =============================================================================
// WORD DIFF TESTS
// =============================================================================

func TestWordDiff_Summary(t *testing.T) {
	tests := []struct {
		name     string
		original string
		revised  string
		expected string
	}{
		{"no changes", "same text", "same text", "No changes"},
		{"modified", "The cat sat.", "The dog sat.", "0 added, 1 modified, 0 deleted"},
		{"added", "Quick fix.", "Quick and fast fix.", "4 added, 0 modified, 0 deleted"},
		{"deleted", "a b c", "a c", "0 added, 0 modified, 2 deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.original, tt.revised).Summary(); got != tt.expected {
				t.Errorf("Summary() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWordDiff_WhitespaceOnlyChange(t *testing.T) {
	d := Compute("a b", "a  b")

	if !d.HasChanges() {
		t.Fatal("HasChanges() = false for a whitespace change")
	}
	if want := (Counts{Modified: 1}); d.Counts != want {
		t.Errorf("Counts = %+v, want %+v", d.Counts, want)
	}
}

func TestFormatInline(t *testing.T) {
	tests := []struct {
		original string
		revised  string
		expected string
	}{
		{"The cat sat.", "The dog sat.", "The [-cat-]{+dog+} sat."},
		{"Quick fix.", "Quick and fast fix.", "Quick {+and fast +}fix."},
		{"a b c", "a c", "a [-b -]c"},
		{"same", "same", "same"},
		{"", "new", "{+new+}"},
	}

	for _, tt := range tests {
		if got := FormatInline(Compute(tt.original, tt.revised)); got != tt.expected {
			t.Errorf("FormatInline(%q, %q) = %q, want %q", tt.original, tt.revised, got, tt.expected)
		}
	}
}

func TestWordDiff_JSONRoundTrip(t *testing.T) {
	d := Compute("The cat sat.", "The dog sat.")

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got WordDiff
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got.OriginalDiff, d.OriginalDiff) {
		t.Errorf("OriginalDiff = %+v, want %+v", got.OriginalDiff, d.OriginalDiff)
	}
	if !reflect.DeepEqual(got.RevisedDiff, d.RevisedDiff) {
		t.Errorf("RevisedDiff = %+v, want %+v", got.RevisedDiff, d.RevisedDiff)
	}
	if got.Counts != d.Counts {
		t.Errorf("Counts = %+v, want %+v", got.Counts, d.Counts)
	}
}

func TestUnmarshalText_Unknown(t *testing.T) {
	var k TokenKind
	if err := k.UnmarshalText([]byte("punct")); err == nil {
		t.Error("TokenKind.UnmarshalText(punct) = nil, want error")
	}
	var s Status
	if err := s.UnmarshalText([]byte("moved")); err == nil {
		t.Error("Status.UnmarshalText(moved) = nil, want error")
	}
}

// =============================================================================
// SIZE LIMIT TESTS
// =============================================================================

// distinctWords builds n space-separated words that share nothing with
// another prefix.
func distinctWords(prefix string, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s%d", prefix, i)
	}
	return sb.String()
}

func TestCheckSize(t *testing.T) {
	small := distinctWords("x", 100)
	large := distinctWords("x", 3000)
	other := distinctWords("y", 3000)

	if err := CheckSize(small, distinctWords("y", 100)); err != nil {
		t.Errorf("CheckSize(small) = %v, want nil", err)
	}
	// Identical texts are trimmed away entirely.
	if err := CheckSize(large, large); err != nil {
		t.Errorf("CheckSize(identical) = %v, want nil", err)
	}
	// Shared prefix and suffix do not count against the limit.
	if err := CheckSize(large+" tail", large+" end"); err != nil {
		t.Errorf("CheckSize(one word changed) = %v, want nil", err)
	}
	if err := CheckSize(large, other); !errors.Is(err, ErrTooLarge) {
		t.Errorf("CheckSize(distinct) = %v, want ErrTooLarge", err)
	}
}

func TestAlign_OverLimitFallsBackToReplace(t *testing.T) {
	original := "Intro. " + distinctWords("x", 3000) + " Outro."
	revised := "Intro. " + distinctWords("y", 3000) + " Outro."
	a, b := Tokenize(original), Tokenize(revised)

	ops := Align(a, b)
	if len(ops) != 3 {
		t.Fatalf("Align over limit = %d opcodes, want 3: %v", len(ops), ops)
	}
	if ops[0].Tag != OpEqual || ops[1].Tag != OpReplace || ops[2].Tag != OpEqual {
		t.Errorf("Align over limit = %v, want equal, replace, equal", ops)
	}

	d := Compute(original, revised)
	if got := Join(tokensOf(d.RevisedDiff)); got != revised {
		t.Error("revised side does not round-trip after fallback")
	}
	if d.Counts.Added != 0 || d.Counts.Deleted != 0 || d.Counts.Modified != len(b)-4 {
		t.Errorf("Counts = %+v, want %d modified", d.Counts, len(b)-4)
	}
}

func tokensOf(cts []ClassifiedToken) []Token {
	tokens := make([]Token, len(cts))
	for i, ct := range cts {
		tokens[i] = ct.Token
	}
	return tokens
}

func BenchmarkCompute(b *testing.B) {
	r := rand.New(rand.NewSource(7))
	original := randomText(r, 2000)
	revised := randomText(r, 2000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Compute(original, revised)
	}
}
