// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backendtest runs an in-process fake of the companion backend for
// tests. It implements the REST surface the client consumes, stores state in
// memory, records requests, and can inject failures or hold chat replies.
package backendtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeranaias/companion-tui/internal/model"
)

// ChatRequest mirrors the POST /chat body as the backend sees it.
type ChatRequest struct {
	CharacterID    int64             `json:"character_id"`
	ConversationID *int64            `json:"conversation_id"`
	UserProfile    map[string]string `json:"user_profile"`
	SafeMode       bool              `json:"safe_mode"`
	Message        string            `json:"message"`
}

// Reply is a canned chat response.
type Reply struct {
	Text    string
	Emotion model.Emotion
	Action  string
}

// Upload records one received image upload.
type Upload struct {
	Filename    string
	ContentType string
	Size        int
}

type conversation struct {
	id           int64
	characterID  int64
	lastSafeMode bool
	updatedAt    time.Time
	messages     []storedMessage
}

type storedMessage struct {
	ID             int64         `json:"id"`
	ConversationID int64         `json:"conversation_id"`
	Role           model.Role    `json:"role"`
	Content        string        `json:"content"`
	IsAction       bool          `json:"is_action"`
	Emotion        model.Emotion `json:"emotion"`
	CreatedAt      string        `json:"created_at"`
}

type failure struct {
	status int
	body   string
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	characters    []model.Character
	conversations map[int64]*conversation
	nextCharID    int64
	nextConvID    int64
	nextMsgID     int64
	replies       []Reply
	failures      map[string]failure
	hold          chan struct{}
	chatRequests  []ChatRequest
	uploads       []Upload
	modelStatus   string
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		conversations: make(map[int64]*conversation),
		failures:      make(map[string]failure),
		nextCharID:    1,
		nextConvID:    1,
		nextMsgID:     1,
		modelStatus:   "ok",
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(func() {
		s.Release()
		s.Server.Close()
	})
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.injectFailures)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ollama", s.handleModelHealth)
	r.GET("/characters", s.handleListCharacters)
	r.POST("/characters", s.handleCreateCharacter)
	r.GET("/characters/:id", s.handleGetCharacter)
	r.POST("/chat", s.handleChat)
	r.GET("/conversations", s.handleListConversations)
	r.GET("/conversations/:id/messages", s.handleGetMessages)
	r.POST("/upload/image", s.handleUpload)
	return r
}

// =============================================================================
// SEEDING AND CONTROL
// =============================================================================

// AddCharacter stores c, assigning an id when c.ID is zero.
func (s *Server) AddCharacter(c model.Character) model.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.nextCharID
	}
	if c.ID >= s.nextCharID {
		s.nextCharID = c.ID + 1
	}
	s.characters = append(s.characters, c)
	return c
}

// AddConversation stores a conversation with the given messages and returns
// its id. Message ids are assigned by the server.
func (s *Server) AddConversation(characterID int64, safeMode bool, updatedAt time.Time, msgs ...model.Message) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := &conversation{
		id:           s.nextConvID,
		characterID:  characterID,
		lastSafeMode: safeMode,
		updatedAt:    updatedAt,
	}
	s.nextConvID++
	for _, m := range msgs {
		conv.messages = append(conv.messages, s.storeLocked(conv.id, m.Role, m.Content, m.IsAction, m.Emotion))
	}
	s.conversations[conv.id] = conv
	return conv.id
}

// QueueReply makes the next chat request answer with r. Without queued
// replies the server echoes the message with a neutral emotion.
func (s *Server) QueueReply(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, r)
}

// Fail makes every request to route ("POST /chat", "GET /characters/:id")
// answer with status and a raw body until ClearFailures.
func (s *Server) Fail(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, body: body}
}

// ClearFailures removes all injected failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// Hold makes chat requests block until Release is called.
func (s *Server) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hold == nil {
		s.hold = make(chan struct{})
	}
}

// Release unblocks held chat requests.
func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hold != nil {
		close(s.hold)
		s.hold = nil
	}
}

// SetModelStatus sets the status reported by /health/ollama.
func (s *Server) SetModelStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelStatus = status
}

// ChatRequests returns a copy of every chat request received.
func (s *Server) ChatRequests() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatRequest(nil), s.chatRequests...)
}

// Uploads returns a copy of every upload received.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Characters returns a copy of the stored characters.
func (s *Server) Characters() []model.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Character(nil), s.characters...)
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) injectFailures(c *gin.Context) {
	s.mu.Lock()
	f, ok := s.failures[c.Request.Method+" "+c.FullPath()]
	s.mu.Unlock()
	if !ok {
		c.Next()
		return
	}
	c.Data(f.status, "application/json", []byte(f.body))
	c.Abort()
}

func (s *Server) handleModelHealth(c *gin.Context) {
	s.mu.Lock()
	status := s.modelStatus
	s.mu.Unlock()

	resp := gin.H{"status": status, "ollama_host": "http://127.0.0.1:11434", "model": "fake-model"}
	if status == "ok" {
		resp["test_response"] = "안녕하세요"
	} else {
		resp["message"] = "model unavailable"
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListCharacters(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.characters
	if out == nil {
		out = []model.Character{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetCharacter(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.findCharacterLocked(id); ok {
		c.JSON(http.StatusOK, ch)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Character not found"})
}

func (s *Server) handleCreateCharacter(c *gin.Context) {
	var ch model.Character
	if err := c.ShouldBindJSON(&ch); err != nil || strings.TrimSpace(ch.Name) == "" {
		// FastAPI reports validation errors as a list, not a string.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"loc": []string{"body", "name"}, "msg": "field required"}}})
		return
	}
	ch.ID = 0
	c.JSON(http.StatusOK, s.AddCharacter(ch))
}

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	s.chatRequests = append(s.chatRequests, req)
	hold := s.hold
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-c.Request.Context().Done():
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findCharacterLocked(req.CharacterID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Character not found"})
		return
	}

	var conv *conversation
	if req.ConversationID != nil {
		conv = s.conversations[*req.ConversationID]
		if conv == nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Conversation not found"})
			return
		}
	} else {
		conv = &conversation{id: s.nextConvID, characterID: req.CharacterID}
		s.nextConvID++
		s.conversations[conv.id] = conv
	}

	reply := Reply{Text: req.Message, Emotion: model.EmotionNeutral}
	if len(s.replies) > 0 {
		reply = s.replies[0]
		s.replies = s.replies[1:]
	}

	trimmed := strings.TrimSpace(req.Message)
	conv.messages = append(conv.messages,
		s.storeLocked(conv.id, model.RoleUser, req.Message, model.IsActionText(trimmed), model.EmotionNone),
		s.storeLocked(conv.id, model.RoleAssistant, reply.Text, reply.Action != "", reply.Emotion),
	)
	conv.lastSafeMode = req.SafeMode
	conv.updatedAt = time.Now().UTC()

	resp := gin.H{"conversation_id": conv.id, "reply": reply.Text, "emotion": nil, "action": nil}
	if reply.Emotion != model.EmotionNone {
		resp["emotion"] = reply.Emotion
	}
	if reply.Action != "" {
		resp["action"] = reply.Action
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListConversations(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]gin.H, 0, len(s.conversations))
	for id := int64(1); id < s.nextConvID; id++ {
		conv, ok := s.conversations[id]
		if !ok {
			continue
		}
		out = append(out, gin.H{
			"id":             conv.id,
			"character_id":   conv.characterID,
			"last_safe_mode": conv.lastSafeMode,
			"updated_at":     conv.updatedAt.UTC().Format("2006-01-02T15:04:05.999999"),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetMessages(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Conversation not found"})
		return
	}
	out := conv.messages
	if out == nil {
		out = []storedMessage{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	name := filepath.Base(fh.Filename)
	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{
		Filename:    name,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        len(data),
	})
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"url": "/uploads/" + name, "filename": name})
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) findCharacterLocked(id int64) (model.Character, bool) {
	for _, ch := range s.characters {
		if ch.ID == id {
			return ch, true
		}
	}
	return model.Character{}, false
}

func (s *Server) storeLocked(convID int64, role model.Role, content string, isAction bool, emotion model.Emotion) storedMessage {
	m := storedMessage{
		ID:             s.nextMsgID,
		ConversationID: convID,
		Role:           role,
		Content:        content,
		IsAction:       isAction,
		Emotion:        emotion,
		CreatedAt:      time.Now().UTC().Format("2006-01-02T15:04:05.999999"),
	}
	s.nextMsgID++
	return m
}
