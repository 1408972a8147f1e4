// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// wordWrap wraps text to width display columns, breaking at spaces when
// possible and inside words otherwise. Hangul counts two columns per rune.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, width int) string {
	if runewidth.StringWidth(line) <= width {
		return line
	}

	var out []string
	var cur strings.Builder
	curWidth := 0
	flush := func() {
		out = append(out, strings.TrimRight(cur.String(), " "))
		cur.Reset()
		curWidth = 0
	}

	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)
		sep := 0
		if curWidth > 0 {
			sep = 1
		}
		if curWidth+sep+w <= width {
			if sep == 1 {
				cur.WriteByte(' ')
			}
			cur.WriteString(word)
			curWidth += sep + w
			continue
		}
		if curWidth > 0 {
			flush()
		}
		// Words wider than the line are split by rune.
		for _, r := range word {
			rw := runewidth.RuneWidth(r)
			if curWidth+rw > width && curWidth > 0 {
				flush()
			}
			cur.WriteRune(r)
			curWidth += rw
		}
	}
	if curWidth > 0 {
		flush()
	}
	return strings.Join(out, "\n")
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > widest {
			widest = w
		}
	}
	return widest
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
