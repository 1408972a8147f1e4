// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/ui/styles"
	"github.com/jeranaias/companion-tui/internal/util"
)

// =============================================================================
// CHARACTER CARD COMPONENT
// =============================================================================

// CharacterCard is one roster entry.
type CharacterCard struct {
	Character model.Character
	Selected  bool
	Width     int
	theme     *styles.Theme
}

// NewCharacterCard creates a card for c.
func NewCharacterCard(c model.Character, theme *styles.Theme) *CharacterCard {
	return &CharacterCard{Character: c, Width: 40, theme: theme}
}

// Meta returns the "여성 · 24세" line.
func (c *CharacterCard) Meta() string {
	var parts []string
	if c.Character.Gender != "" {
		parts = append(parts, c.Character.Gender)
	}
	if label := c.Character.AgeLabel(); label != "" {
		parts = append(parts, label)
	}
	return strings.Join(parts, " · ")
}

// View renders the card.
func (c *CharacterCard) View() string {
	inner := maxInt(c.Width-4, 10)

	name := c.theme.CardName.Render(util.TruncateWidth(c.Character.Name, inner))
	lines := []string{name}
	if meta := c.Meta(); meta != "" {
		lines = append(lines, c.theme.CardMeta.Render(meta))
	}
	if c.Character.Bio != "" {
		lines = append(lines, util.TruncateWidth(util.FirstLine(c.Character.Bio), inner))
	}
	if len(c.Character.Hashtags) > 0 {
		tags := util.TruncateWidth(strings.Join(c.Character.Hashtags, " "), inner)
		lines = append(lines, c.theme.Hashtag.Render(tags))
	}

	style := c.theme.Card
	if c.Selected {
		style = c.theme.CardSelected
	}
	return style.Width(c.Width - 2).Render(strings.Join(lines, "\n"))
}
