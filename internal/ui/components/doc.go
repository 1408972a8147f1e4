// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks shared by the
companion screens.

	MessageBubble - one chat line; actions render as italic narration
	ChatViewport  - scrollable conversation built on bubbles/viewport
	Header        - title bar with the safe-mode badge
	StatusBar     - status text plus key hints
	CharacterCard - roster card used by the directory
	ImagePanel    - the emotion-selected image reference
	ErrorBox      - inline error display

Components are plain structs with a View method. They hold no network state;
screens own them and push data in before rendering.
*/
package components
