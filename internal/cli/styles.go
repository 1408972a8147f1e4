// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/companion-tui/internal/util"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	// LabelStyle is used for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// DimStyle is used for hints and secondary columns.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// ActionStyle renders narrated actions.
	ActionStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("183"))
)

// =============================================================================
// HELPERS
// =============================================================================

// RenderSeparator renders a horizontal rule of width cells.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 60
	}
	return SeparatorStyle.Render(strings.Repeat("─", width))
}

// RenderStatus renders an OK or FAIL badge.
func RenderStatus(ok bool) string {
	if ok {
		return SuccessStyle.Render("[OK]")
	}
	return ErrorStyle.Render("[FAIL]")
}

// RenderLabel pads label to width display cells, counting wide Hangul as two.
func RenderLabel(label string, width int) string {
	return LabelStyle.Render(runewidth.FillRight(label, width))
}

// =============================================================================
// TABLES
// =============================================================================

// table lays out rows in columns measured in display cells. The last column
// is never padded or truncated.
type table struct {
	header []string
	rows   [][]string
	max    []int
}

func newTable(header ...string) *table {
	return &table{header: header}
}

// limit caps column i at width cells; longer values are truncated.
func (t *table) limit(i, width int) *table {
	for len(t.max) <= i {
		t.max = append(t.max, 0)
	}
	t.max[i] = width
	return t
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) String() string {
	widths := make([]int, len(t.header))
	cell := func(i int, s string) string {
		if i < len(t.max) && t.max[i] > 0 {
			return util.TruncateWidth(s, t.max[i])
		}
		return s
	}
	for _, row := range append([][]string{t.header}, t.rows...) {
		for i := range widths {
			if i < len(row) {
				if w := runewidth.StringWidth(cell(i, row[i])); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var b strings.Builder
	line := func(row []string, style *lipgloss.Style) {
		parts := make([]string, len(widths))
		for i := range widths {
			s := ""
			if i < len(row) {
				s = cell(i, row[i])
			}
			if i < len(widths)-1 {
				s = runewidth.FillRight(s, widths[i])
			}
			parts[i] = s
		}
		text := strings.TrimRight(strings.Join(parts, "  "), " ")
		if style != nil {
			text = style.Render(text)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	line(t.header, &LabelStyle)
	for _, row := range t.rows {
		line(row, nil)
	}
	return b.String()
}
