// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the scribe TUI.

All colors are Lip Gloss AdaptiveColor values. NewTheme resolves them for
the terminal background, or for a forced "dark"/"light" preference from
ui.theme.

# Diff Palette

	Added     green on dark green
	Modified  yellow on dark amber
	Deleted   red on dark red, struck through

Theme.DiffStyle maps a diff.Status onto the matching style.

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
	if theme.GetLayoutMode() == styles.LayoutNarrow {
		// stack the diff columns
	}
*/
package styles
