// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/model"
)

// Backend is the part of the API client a session needs.
type Backend interface {
	GetCharacter(ctx context.Context, id int64) (*model.Character, error)
	GetMessages(ctx context.Context, conversationID int64) ([]model.Message, error)
	SendMessage(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// Reasons a send is rejected. A rejected send changes nothing.
var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrSendInFlight = errors.New("a message is already being sent")
	ErrNotLoaded    = errors.New("character is not loaded")
)

// Options describe how a session starts.
type Options struct {
	// ConversationID resumes an existing conversation. 0 starts a new one.
	ConversationID int64

	// SafeMode seeds the per-session safe-mode flag.
	SafeMode bool

	// Nickname is sent to the backend as the user's profile. Empty omits it.
	Nickname string
}

// DefaultOptions returns options for a fresh conversation with safe mode on.
func DefaultOptions() Options {
	return Options{SafeMode: true}
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the chat room state for one character. Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	backend   Backend
	character *model.Character
	nickname  string

	messages       []model.Message
	conversationID int64
	safeMode       bool
	loading        bool

	historyErr error
}

// PendingSend is an accepted send whose backend call has not completed.
type PendingSend struct {
	Request     api.ChatRequest
	UserMessage model.Message
}

// Outcome reports how a completed send ended.
type Outcome struct {
	// Reply is the appended assistant message: the backend's reply, or the
	// fallback apology when Err is set.
	Reply model.Message

	// Err is the backend failure that produced the fallback, if any.
	Err error
}

// Failed reports whether the backend call failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Load fetches the character and, when opts.ConversationID is set, the prior
// messages. A missing character is fatal and returned as is (errors.Is
// api.ErrNotFound). History failures degrade to an empty list; the
// conversation id is adopted either way.
func Load(ctx context.Context, backend Backend, characterID int64, opts Options) (*Session, error) {
	log := logging.L().WithFields(logrus.Fields{
		"character_id":    characterID,
		"conversation_id": opts.ConversationID,
	})

	character, err := backend.GetCharacter(ctx, characterID)
	if err != nil {
		log.WithError(err).Warn("character load failed")
		return nil, err
	}

	s := newSession(backend, character, opts)

	if opts.ConversationID != 0 {
		history, err := backend.GetMessages(ctx, opts.ConversationID)
		if err != nil {
			log.WithError(err).Warn("conversation history unavailable, starting empty")
			s.historyErr = err
		} else {
			s.messages = append(s.messages, history...)
		}
	}

	log.WithField("messages", len(s.messages)).Info("session loaded")
	return s, nil
}

// New creates a session for an already loaded character.
func New(backend Backend, character *model.Character, opts Options) *Session {
	return newSession(backend, character, opts)
}

func newSession(backend Backend, character *model.Character, opts Options) *Session {
	return &Session{
		backend:        backend,
		character:      character,
		nickname:       strings.TrimSpace(opts.Nickname),
		conversationID: opts.ConversationID,
		safeMode:       opts.SafeMode,
	}
}

// =============================================================================
// SENDING
// =============================================================================

// BeginSend validates text, appends the optimistic user message, marks the
// session loading and returns the request to deliver. Rejections return one
// of ErrEmptyMessage, ErrSendInFlight or ErrNotLoaded and change nothing.
func (s *Session) BeginSend(text string) (*PendingSend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return nil, ErrEmptyMessage
	case s.loading:
		return nil, ErrSendInFlight
	case s.character == nil:
		return nil, ErrNotLoaded
	}

	userMsg := model.NewUserMessage(trimmed)
	s.messages = append(s.messages, userMsg)
	s.loading = true

	req := api.ChatRequest{
		CharacterID: s.character.ID,
		SafeMode:    s.safeMode,
		Message:     trimmed,
	}
	if s.conversationID != 0 {
		id := s.conversationID
		req.ConversationID = &id
	}
	if s.nickname != "" {
		req.UserProfile = map[string]string{api.ProfileKeyNickname: s.nickname}
	}

	return &PendingSend{Request: req, UserMessage: userMsg}, nil
}

// Deliver performs the backend call for p. It touches no session state.
func (s *Session) Deliver(ctx context.Context, p *PendingSend) (*api.ChatResponse, error) {
	return s.backend.SendMessage(ctx, p.Request)
}

// CompleteSend applies the result of delivering p and always clears the
// loading flag. On failure the optimistic message stays and the fallback
// apology is appended; there is no retry.
func (s *Session) CompleteSend(p *PendingSend, resp *api.ChatResponse, err error) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	log := logging.L().WithField("character_id", s.characterIDLocked())

	if err == nil && resp == nil {
		err = errors.New("empty chat response")
	}
	if err != nil {
		log.WithError(err).Warn("chat send failed")
		reply := model.NewFallbackMessage()
		s.messages = append(s.messages, reply)
		return Outcome{Reply: reply, Err: err}
	}

	switch {
	case s.conversationID == 0:
		s.conversationID = resp.ConversationID
		log.WithField("conversation_id", resp.ConversationID).Info("conversation started")
	case resp.ConversationID != s.conversationID:
		log.WithFields(logrus.Fields{
			"conversation_id": s.conversationID,
			"returned_id":     resp.ConversationID,
		}).Warn("backend returned a different conversation id, adopting it")
		s.conversationID = resp.ConversationID
	}

	reply := model.NewAssistantMessage(resp.Reply, resp.Emotion, resp.Action != "")
	s.messages = append(s.messages, reply)
	return Outcome{Reply: reply}
}

// Send runs BeginSend, Deliver and CompleteSend in sequence. The returned
// error is only set for rejected sends; backend failures are reported in
// Outcome.Err after the fallback message has been appended.
func (s *Session) Send(ctx context.Context, text string) (Outcome, error) {
	p, err := s.BeginSend(text)
	if err != nil {
		return Outcome{}, err
	}

	completed := false
	defer func() {
		if !completed {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		}
	}()

	resp, sendErr := s.Deliver(ctx, p)
	out := s.CompleteSend(p, resp, sendErr)
	completed = true
	return out, nil
}

func (s *Session) characterIDLocked() int64 {
	if s.character == nil {
		return 0
	}
	return s.character.ID
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// Character returns the loaded character, or nil.
func (s *Session) Character() *model.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.character
}

// Messages returns a copy of the message list in display order.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.messages...)
}

// ConversationID returns the conversation id; ok is false until one is known.
func (s *Session) ConversationID() (id int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID, s.conversationID != 0
}

// CurrentImage returns the image reference to display, derived from the
// current messages on every call.
func (s *Session) CurrentImage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SelectImage(s.character, s.messages)
}

// CurrentEmotion returns the emotion of the last assistant message.
func (s *Session) CurrentEmotion() model.Emotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == model.RoleAssistant {
			return s.messages[i].Emotion
		}
	}
	return model.EmotionNone
}

// LastReply returns the most recent assistant message.
func (s *Session) LastReply() (model.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == model.RoleAssistant {
			return s.messages[i], true
		}
	}
	return model.Message{}, false
}

// SafeMode reports the safe-mode flag used for the next send.
func (s *Session) SafeMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.safeMode
}

// SetSafeMode sets the flag for subsequent sends.
func (s *Session) SetSafeMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.safeMode = on
}

// ToggleSafeMode flips the flag and returns the new value.
func (s *Session) ToggleSafeMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.safeMode = !s.safeMode
	return s.safeMode
}

// IsLoading reports whether a send is in flight.
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Nickname returns the nickname sent with each message.
func (s *Session) Nickname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nickname
}

// HistoryError returns why resumed history could not be loaded, if it failed.
func (s *Session) HistoryError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyErr
}
