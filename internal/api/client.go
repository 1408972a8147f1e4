// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jeranaias/companion-tui/internal/config"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/model"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 10 * 1024 * 1024

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend root (default: http://127.0.0.1:8000).
	BaseURL string

	// Timeout bounds each request. Zero means no timeout; callers still
	// cancel through the context.
	Timeout time.Duration

	// MaxRequestsPerSecond throttles outgoing requests. Zero disables the limit.
	MaxRequestsPerSecond float64

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: config.DefaultBaseURL,
	}
}

// ConfigFrom builds a client configuration from the loaded app config.
func ConfigFrom(cfg *config.Config) *ClientConfig {
	return &ClientConfig{
		BaseURL:              cfg.API.BaseURL,
		Timeout:              time.Duration(cfg.API.TimeoutSecs) * time.Second,
		MaxRequestsPerSecond: cfg.API.MaxRequestsPerSecond,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the companion backend. It is safe for concurrent use.
//
// Example:
//
//	client := api.NewClient(api.DefaultConfig())
//	resp, err := client.SendMessage(ctx, api.ChatRequest{CharacterID: 1, Message: "안녕", SafeMode: true})
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client. A nil config means DefaultConfig.
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
	if cfg.MaxRequestsPerSecond > 0 {
		burst := int(cfg.MaxRequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.MaxRequestsPerSecond), burst)
	}
	return c
}

// BaseURL returns the backend root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// CHARACTERS
// =============================================================================

// ListCharacters returns every character.
func (c *Client) ListCharacters(ctx context.Context) ([]model.Character, error) {
	var out []model.Character
	if err := c.doJSON(ctx, http.MethodGet, "/characters", nil, MsgListCharacters, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCharacter returns one character. A missing character yields an error
// matching ErrNotFound with a fixed explanatory message.
func (c *Client) GetCharacter(ctx context.Context, id int64) (*model.Character, error) {
	var out model.Character
	err := c.doJSON(ctx, http.MethodGet, "/characters/"+strconv.FormatInt(id, 10), nil, MsgGetCharacter, &out)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Kind == KindNotFound {
			apiErr.Message = MsgCharacterNotFound
		}
		return nil, err
	}
	return &out, nil
}

// CreateCharacter creates a character and returns it with its new id.
func (c *Client) CreateCharacter(ctx context.Context, req CharacterCreate) (*model.Character, error) {
	if req.Hashtags == nil {
		req.Hashtags = []string{}
	}
	if req.Boundaries == nil {
		req.Boundaries = []string{}
	}
	var out model.Character
	if err := c.doJSON(ctx, http.MethodPost, "/characters", req, MsgCreateCharacter, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// CHAT
// =============================================================================

// SendMessage posts a user message and returns the character's reply.
func (c *Client) SendMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, MsgSendMessage, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMessages returns a conversation's messages in backend order. An unknown
// conversation yields an empty list, not an error.
func (c *Client) GetMessages(ctx context.Context, conversationID int64) ([]model.Message, error) {
	var out []model.Message
	path := "/conversations/" + strconv.FormatInt(conversationID, 10) + "/messages"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, MsgGetMessages, &out); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Message{}, nil
		}
		return nil, err
	}
	if out == nil {
		out = []model.Message{}
	}
	return out, nil
}

// ListConversations returns every stored conversation.
func (c *Client) ListConversations(ctx context.Context) ([]ConversationSummary, error) {
	var out []ConversationSummary
	if err := c.doJSON(ctx, http.MethodGet, "/conversations", nil, MsgListConversations, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// UPLOADS
// =============================================================================

// UploadImage sends r as multipart field "file" and returns the hosted url.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filepath.Base(filename))))
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: MsgUploadImage, Cause: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: MsgUploadImage, Cause: err}
	}
	if err := w.Close(); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: MsgUploadImage, Cause: err}
	}

	resp, err := c.send(ctx, http.MethodPost, "/upload/image", &body, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out UploadResult
	if err := c.decode(resp, MsgUploadImage, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health reports whether GET /health answers with a 2xx status.
func (c *Client) Health(ctx context.Context) bool {
	resp, err := c.send(ctx, http.MethodGet, "/health", nil, "")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ModelHealth asks the backend to exercise its language model.
func (c *Client) ModelHealth(ctx context.Context) (*ModelHealth, error) {
	var out ModelHealth
	if err := c.doJSON(ctx, http.MethodGet, "/health/ollama", nil, MsgModelHealth, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// doJSON sends an optional JSON body and decodes a JSON reply into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in interface{}, fallback string, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindUnknown, Message: fallback, Cause: err}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(resp, fallback, out)
}

// send performs the request and maps transport failures. The caller closes
// the body.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	log := logging.L().WithFields(logrus.Fields{"method": method, "path": path})

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, transportError(ctx, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := transportError(ctx, err)
		log.WithError(err).WithField("kind", apiErr.Kind).Warn("backend request failed")
		return nil, apiErr
	}
	log.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("backend request")
	return resp, nil
}

func transportError(ctx context.Context, err error) *Error {
	if ctx.Err() != nil {
		return &Error{Kind: KindCanceled, Message: MsgCanceled, Cause: ctx.Err()}
	}
	return &Error{Kind: KindNetwork, Message: MsgNetwork, Cause: err}
}

// decode reads the body; non-2xx statuses become *Error using the backend's
// detail when present and fallback otherwise.
func (c *Client) decode(resp *http.Response, fallback string, out interface{}) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: MsgNetwork, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := KindUpstream
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		return &Error{
			Kind:    kind,
			Status:  resp.StatusCode,
			Message: detailOr(data, fallback),
			Cause:   fmt.Errorf("%s %s: %s", resp.Request.Method, resp.Request.URL.Path, resp.Status),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Status: resp.StatusCode, Message: fallback, Cause: err}
	}
	return nil
}

// detailOr extracts a non-empty string "detail" field, or returns fallback.
func detailOr(body []byte, fallback string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return fallback
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return fallback
	}
	if strings.TrimSpace(detail) == "" {
		return fallback
	}
	return detail
}
