// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the companion TUI.

All colors use Lip Gloss AdaptiveColor so one palette serves light and dark
terminals. The ui.theme config key can pin the background to "dark" or
"light"; "auto" asks the terminal through termenv.

# Colors (colors.go)

	Pink    - brand, character names, selection
	Purple  - hashtags, panels
	Emerald - success, safe mode on
	Amber   - warnings, safe mode off
	Rose    - errors

Each emotion has its own accent (EmotionColor) used for the badge next to
character replies.

# Theme (theme.go)

	theme := styles.NewThemeNamed(cfg.UI.Theme)
	bubble := theme.AssistantBubble.Render(reply)

# Spinners (animations.go)

TypingSpinner and LoadingSpinner plug straight into bubbles/spinner.
*/
package styles
