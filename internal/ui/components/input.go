// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion-tui/internal/util"
)

// InputView renders ti, drawing hint after the cursor while ti is empty.
// textinput cuts its Placeholder by rune index using cell widths, which
// overruns on Hangul, so screens keep Placeholder empty and pass the hint
// here instead. The hint is padded or truncated to ti.Width columns.
func InputView(ti textinput.Model, hint string, style lipgloss.Style) string {
	if hint == "" || ti.Value() != "" {
		return ti.View()
	}
	width := ti.Width
	ti.Width = 0
	ti.Placeholder = ""
	v := ti.View()
	if width <= 0 {
		return v + style.Render(hint)
	}
	return v + style.Render(util.PadWidth(hint, width))
}
