// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the scribe packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: terminal column aware truncation (go-runewidth)
//   - RuneLen: character count
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	err := util.AtomicWriteFile("revised_text.txt", data, 0644)
//	label := util.TruncateWidth(provider+"/"+model, room)
package util
