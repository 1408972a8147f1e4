// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across companion.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, PadWidth, StringWidth: display-width aware helpers (Hangul is 2 columns)
//
// Text Matching:
//   - Fold: NFC normalization plus Unicode case folding
//   - ContainsFold: case-insensitive substring test
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	name := util.TruncateWidth(character.Name, 12)
//	if util.ContainsFold(haystack, keyword) { ... }
//	err := util.AtomicWriteFile(path, data, 0600)
package util
