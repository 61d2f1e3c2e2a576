// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"

	"github.com/cyprienti/LLM-Writing-Assistant/internal/diff"
)

// DiffData is the JSON shape of `scribe diff --json`.
type DiffData struct {
	Original     string                 `json:"original"`
	Revised      string                 `json:"revised"`
	Counts       diff.Counts            `json:"counts"`
	Summary      string                 `json:"summary"`
	OriginalDiff []diff.ClassifiedToken `json:"original_diff"`
	RevisedDiff  []diff.ClassifiedToken `json:"revised_diff"`
}

// HandleDiff compares two files without contacting a backend.
func HandleDiff(args Args) error {
	return runDiff(os.Stdout, args, IsStdoutTTY() && ColorsEnabled())
}

func runDiff(w io.Writer, args Args, color bool) error {
	origPath, revPath := args.Raw[0], args.Raw[1]

	original, err := readFile(origPath)
	if err != nil {
		return wrapErr("diff", "read original", err)
	}
	revised, err := readFile(revPath)
	if err != nil {
		return wrapErr("diff", "read revised", err)
	}

	if err := diff.CheckSize(original, revised); err != nil {
		return &UsageError{Message: err.Error()}
	}

	d := diff.Compute(original, revised)

	if args.JSON {
		return NewJSONResponse("diff", DiffData{
			Original:     origPath,
			Revised:      revPath,
			Counts:       d.Counts,
			Summary:      d.Summary(),
			OriginalDiff: d.OriginalDiff,
			RevisedDiff:  d.RevisedDiff,
		}).Write(w)
	}

	newPrinter(w, color).diff(d)
	return nil
}
