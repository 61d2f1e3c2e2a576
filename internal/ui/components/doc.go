// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the styled building blocks of the Scribe TUI.

Components are plain values rendered against a *styles.Theme; the ones that
animate (Spinner) follow the Bubble Tea Update/View pattern.

# Components

Header (header.go) - Title bar with the mode badge and the active backend.
StatusBar (statusbar.go) - Transient message plus key hints.
Spinner (spinner.go) - "Processing your text..." indicator with elapsed time.
DiffView (diff_viewer.go) - Side-by-side, colour-coded word diff.
ErrorBanner (error.go) - Dismissible box for failed submissions, titled by error kind.
HelpView (help.go) - Glamour-rendered usage guide.

# Key Types

  - DiffView: renders a *diff.WordDiff in two panels, stacked below 60 columns
  - Line / Segment: output of WrapTokens, one status per segment
  - ErrorBanner: built from any error with NewErrorBanner

# Usage

	theme := styles.NewTheme(styles.ThemeAuto)
	dv := components.NewDiffView(theme)
	dv.SetWidth(100)
	d := diff.Compute("I has a pen.", "I have a pen.")
	dv.SetDiff(d)
	fmt.Println(dv.View())
	fmt.Println(components.RenderSummary(theme, d.Counts))
*/
package components
