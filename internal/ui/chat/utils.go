// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/companion-tui/internal/ui/components"
)

// copyToClipboard copies text to the system clipboard. Replaced in tests.
var copyToClipboard = clipboard.WriteAll

// sizeInfo describes copied text length for the status line.
func sizeInfo(s string) string {
	n := len([]rune(s))
	if n < 1000 {
		return fmt.Sprintf("%d자", n)
	}
	return fmt.Sprintf("%.1fK자", float64(n)/1000)
}

// shortcuts converts key bindings into status bar hints.
func shortcuts(bindings []key.Binding) []components.Shortcut {
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}

// subtitle builds "여성 · 24세 · 대화 #12".
func subtitle(gender, age string, convID int64, hasConv bool) string {
	var parts []string
	if gender != "" {
		parts = append(parts, gender)
	}
	if age != "" {
		parts = append(parts, age)
	}
	if hasConv {
		parts = append(parts, fmt.Sprintf("대화 #%d", convID))
	} else {
		parts = append(parts, "새 대화")
	}
	return strings.Join(parts, " · ")
}
