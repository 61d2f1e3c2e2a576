// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/assist"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/diff"
	"github.com/cyprienti/LLM-Writing-Assistant/internal/util"
)

// Errors returned by Store.
var (
	// ErrBusy means another submission already holds the in-flight slot.
	ErrBusy = errors.New("a submission is already in progress")

	// ErrStaleTicket means the ticket does not match the in-flight submission.
	ErrStaleTicket = errors.New("ticket does not match the submission in progress")
)

// =============================================================================
// SUBMISSION
// =============================================================================

// Ticket identifies an in-flight submission between Begin and Complete/Fail.
type Ticket struct {
	ID        string
	Mode      assist.Mode
	Original  string
	StartedAt time.Time
}

// Submission is a completed rewrite together with its word diff.
type Submission struct {
	ID          string         `json:"id"`
	Mode        assist.Mode    `json:"mode"`
	Original    string         `json:"original"`
	Revised     string         `json:"revised"`
	Provider    string         `json:"provider"`
	Model       string         `json:"model"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Duration    time.Duration  `json:"duration"`
	Diff        *diff.WordDiff `json:"diff"`
}

// Counts returns the change counts of the submission's diff.
func (s *Submission) Counts() diff.Counts {
	if s == nil || s.Diff == nil {
		return diff.Counts{}
	}
	return s.Diff.Counts
}

// Elapsed formats the backend latency for status lines.
func (s *Submission) Elapsed() string {
	return FormatDuration(s.Duration)
}

// =============================================================================
// STORE
// =============================================================================

// Store is a single-slot holder for the last completed submission plus at
// most one in-flight submission. It starts empty.
//
// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	current *Submission
	pending *Ticket
	now     func() time.Time
	compute func(original, revised string) *diff.WordDiff
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{now: time.Now, compute: diff.Compute}
}

// Begin claims the in-flight slot. It fails with ErrBusy while another
// submission is pending. The stored result is untouched.
func (s *Store) Begin(original string, mode assist.Mode) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return nil, ErrBusy
	}

	t := &Ticket{
		ID:        uuid.New().String(),
		Mode:      mode,
		Original:  original,
		StartedAt: s.now(),
	}
	s.pending = t
	return t, nil
}

// Complete replaces the stored submission with res, diffed against the
// ticket's original text, and releases the slot. The diff is computed
// outside the lock so Current never waits on an alignment.
func (s *Store) Complete(t *Ticket, res *assist.Result) (*Submission, error) {
	if t == nil {
		return nil, ErrStaleTicket
	}
	d := s.compute(t.Original, res.AssistedText)
	finished := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != t {
		return nil, ErrStaleTicket
	}

	sub := &Submission{
		ID:          t.ID,
		Mode:        t.Mode,
		Original:    t.Original,
		Revised:     res.AssistedText,
		Provider:    res.Provider,
		Model:       res.Model,
		SubmittedAt: t.StartedAt,
		Duration:    finished.Sub(t.StartedAt),
		Diff:        d,
	}
	if res.Mode != "" {
		sub.Mode = res.Mode
	}

	s.current = sub
	s.pending = nil
	return sub, nil
}

// Fail releases the slot. The previous submission stays.
func (s *Store) Fail(t *Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == nil || s.pending != t {
		return ErrStaleTicket
	}
	s.pending = nil
	return nil
}

// Current returns the last completed submission, or nil.
func (s *Store) Current() *Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Busy reports whether a submission is in flight.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Clear resets the store to empty. An in-flight ticket becomes stale.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.pending = nil
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return util.IntToString(int(d.Milliseconds())) + "ms"
	}
	if d < time.Minute {
		return util.FloatToStringPrec(d.Seconds(), 1) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToString(mins) + "m"
	}
	return util.IntToString(mins) + "m " + util.IntToString(secs) + "s"
}
