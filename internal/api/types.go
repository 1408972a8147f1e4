// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/jeranaias/companion-tui/internal/model"

// CharacterCreate is the body of POST /characters.
type CharacterCreate struct {
	Name           string                   `json:"name"`
	Gender         string                   `json:"gender,omitempty"`
	Age            *int                     `json:"age,omitempty"`
	Bio            string                   `json:"bio,omitempty"`
	Description    string                   `json:"description,omitempty"`
	Tone           string                   `json:"tone,omitempty"`
	Hashtags       []string                 `json:"hashtags"`
	Boundaries     []string                 `json:"boundaries"`
	ImageDefault   string                   `json:"image_default,omitempty"`
	ImageByEmotion map[model.Emotion]string `json:"image_by_emotion,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	CharacterID    int64             `json:"character_id"`
	ConversationID *int64            `json:"conversation_id,omitempty"`
	UserProfile    map[string]string `json:"user_profile,omitempty"`
	SafeMode       bool              `json:"safe_mode"`
	Message        string            `json:"message"`
}

// ChatResponse is the reply to POST /chat. Emotion and Action may be empty.
type ChatResponse struct {
	ConversationID int64         `json:"conversation_id"`
	Reply          string        `json:"reply"`
	Emotion        model.Emotion `json:"emotion,omitempty"`
	Action         string        `json:"action,omitempty"`
}

// UploadResult is the reply to POST /upload/image.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ConversationSummary is one row of GET /conversations.
type ConversationSummary struct {
	ID           int64            `json:"id"`
	CharacterID  int64            `json:"character_id"`
	LastSafeMode bool             `json:"last_safe_mode"`
	UpdatedAt    *model.Timestamp `json:"updated_at,omitempty"`
}

// ModelHealth is the reply to GET /health/ollama.
type ModelHealth struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	OllamaHost   string `json:"ollama_host,omitempty"`
	Model        string `json:"model,omitempty"`
	TestResponse string `json:"test_response,omitempty"`
}

// OK reports whether the backend's model answered.
func (h ModelHealth) OK() bool {
	return h.Status == "ok"
}

// ProfileKeyNickname is the user_profile key carrying the user's nickname.
const ProfileKeyNickname = "nickname"
