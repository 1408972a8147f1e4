// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s NFC-normalized and case folded, suitable for
// case-insensitive comparison. Decomposed Hangul (as produced by some
// input methods) compares equal to its precomposed form.
func Fold(s string) string {
	// cases.Caser is stateful; a fresh one per call keeps Fold goroutine safe.
	return cases.Fold().String(norm.NFC.String(s))
}

// ContainsFold reports whether needle occurs in haystack, ignoring case.
// An empty needle always matches.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}
