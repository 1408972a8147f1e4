// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the companion backend.
//
// Every method takes a context, returns typed results, and normalizes
// failures into *Error values carrying a user-facing message. A backend
// {"detail": "..."} body becomes the message; anything else falls back to a
// fixed per-endpoint message. Transport failures become KindNetwork.
//
// # Endpoints
//
//   - GET  /characters                   ListCharacters
//   - GET  /characters/{id}              GetCharacter (404 -> ErrNotFound)
//   - POST /characters                   CreateCharacter
//   - POST /chat                         SendMessage
//   - GET  /conversations                ListConversations
//   - GET  /conversations/{id}/messages  GetMessages (404 -> empty list)
//   - POST /upload/image                 UploadImage (multipart "file")
//   - GET  /health                       Health
//   - GET  /health/ollama                ModelHealth
//
// # Usage
//
//	client := api.NewClient(api.DefaultConfig())
//	chars, err := client.ListCharacters(ctx)
//	if errors.Is(err, api.ErrNetwork) {
//	    // backend not running
//	}
package api
