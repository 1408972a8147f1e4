// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by every companion screen.
//
// # Key Types
//
//   - Character: a companion persona as served by the backend
//   - Message: a single chat line with role, content, action flag and emotion
//   - MessageID: tagged identifier, local (optimistic) or remote (backend assigned)
//   - Emotion: closed set of emotion tags used to pick character images
//   - Role: message sender (user, assistant)
//
// # Usage
//
// Pick the image to display for a conversation:
//
//	ref := model.SelectImage(character, messages)
//
// Build an optimistic user message:
//
//	msg := model.NewUserMessage("*waves*")
//	msg.IsAction // true
package model
