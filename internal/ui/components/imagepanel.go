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
// IMAGE PANEL COMPONENT
// =============================================================================

// ImagePanel shows which image the conversation currently displays. The
// terminal cannot draw the bitmap, so the panel shows the emotion and the
// image reference.
type ImagePanel struct {
	Name     string
	Emotion  model.Emotion
	ImageRef string
	Width    int
	theme    *styles.Theme
}

// NewImagePanel creates an empty panel.
func NewImagePanel(theme *styles.Theme) *ImagePanel {
	return &ImagePanel{Width: 28, ImageRef: model.PlaceholderImage, theme: theme}
}

// IsPlaceholder reports whether no character image is available.
func (p *ImagePanel) IsPlaceholder() bool {
	return p.ImageRef == "" || p.ImageRef == model.PlaceholderImage
}

// View renders the panel.
func (p *ImagePanel) View() string {
	inner := maxInt(p.Width-4, 8)

	emotion := "기본"
	if p.Emotion.IsKnown() {
		emotion = p.theme.EmotionBadge(p.Emotion.DisplayName(), styles.EmotionColor(p.Emotion))
	}

	ref := p.ImageRef
	if p.IsPlaceholder() {
		ref = "(기본 프로필 이미지)"
	}

	lines := []string{
		p.theme.PanelTitle.Render(util.TruncateWidth(p.Name, inner)),
		"",
		"표정  " + emotion,
		"",
		p.theme.PanelValue.Render(wordWrap(ref, inner)),
	}
	return p.theme.Panel.Width(p.Width - 2).Render(strings.Join(lines, "\n"))
}
