// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/backendtest"
	"github.com/jeranaias/companion-tui/internal/model"
)

func TestChat_Conversation(t *testing.T) {
	e := newTestEnv(t)
	luna, _, _ := e.seed()
	e.srv.QueueReply(backendtest.Reply{Text: "반가워요!", Emotion: model.EmotionHappy})
	e.srv.QueueReply(backendtest.Reply{Text: "*손을 흔든다*", Emotion: model.EmotionShy, Action: "wave"})
	e.In = strings.NewReader("안녕\n\n/safe\n/image\n또 만나\n/quit\n이건 보내지 않아요\n")

	require.NoError(t, RunChat(context.Background(), e.Env, []string{"1", "--nickname", "별", "--plain"}))

	out := e.out.String()
	assert.Contains(t, out, "[세이프 ON]")
	assert.Contains(t, out, "반가워요!")
	assert.Contains(t, out, "루나 (기쁨)")
	assert.Contains(t, out, "/img/luna-happy.png", "/image shows the emotion image")
	assert.Contains(t, out, "세이프 모드 [세이프 OFF]")
	assert.Contains(t, out, "* 손을 흔든다 *")
	assert.Contains(t, out, "대화 #1")

	reqs := e.srv.ChatRequests()
	require.Len(t, reqs, 2)
	assert.Equal(t, luna.ID, reqs[0].CharacterID)
	assert.True(t, reqs[0].SafeMode)
	assert.Nil(t, reqs[0].ConversationID)
	assert.Equal(t, "별", reqs[0].UserProfile[api.ProfileKeyNickname])
	assert.False(t, reqs[1].SafeMode)
	require.NotNil(t, reqs[1].ConversationID)
	assert.Equal(t, int64(1), *reqs[1].ConversationID)
}

func TestChat_ResumeAndUnsafe(t *testing.T) {
	e := newTestEnv(t)
	luna, _, _ := e.seed()
	convID := e.srv.AddConversation(luna.ID, true, time.Now(),
		model.Message{Role: model.RoleUser, Content: "지난번 이야기"},
		model.Message{Role: model.RoleAssistant, Content: "기억하고 있어요", Emotion: model.EmotionHappy},
	)
	e.In = strings.NewReader("다시 왔어\n")

	require.NoError(t, RunChat(context.Background(), e.Env, []string{"1", "--unsafe", "--conversation", "1", "--plain"}))

	out := e.out.String()
	assert.Contains(t, out, "지난번 이야기")
	assert.Contains(t, out, "기억하고 있어요")
	assert.Contains(t, out, "[세이프 OFF]")

	reqs := e.srv.ChatRequests()
	require.Len(t, reqs, 1)
	require.NotNil(t, reqs[0].ConversationID)
	assert.Equal(t, convID, *reqs[0].ConversationID)
	assert.False(t, reqs[0].SafeMode)
}

func TestChat_SendFailureShowsFallback(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	e.srv.Fail("POST /chat", 500, `{"detail":"model crashed"}`)
	e.In = strings.NewReader("안녕\n")

	require.NoError(t, RunChat(context.Background(), e.Env, []string{"1", "--plain"}))

	assert.Contains(t, e.out.String(), model.FallbackReply)
	assert.Contains(t, e.err.String(), "model crashed")
	assert.NotContains(t, e.out.String(), "대화 #", "no conversation was started")
}

func TestChat_UnknownSlashCommand(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	e.In = strings.NewReader("/dance\n")

	require.NoError(t, RunChat(context.Background(), e.Env, []string{"1", "--plain"}))
	assert.Contains(t, e.err.String(), "알 수 없는 명령어: /dance")
	assert.Empty(t, e.srv.ChatRequests())
}

func TestChat_Errors(t *testing.T) {
	e := newTestEnv(t)
	e.seed()

	err := RunChat(context.Background(), e.Env, []string{"99"})
	assert.True(t, errors.Is(err, api.ErrNotFound))
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))

	err = RunChat(context.Background(), e.Env, nil)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = RunChat(context.Background(), e.Env, []string{"1", "--conversation", "x"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestChat_CanceledContextStops(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	e.In = strings.NewReader("안녕\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunChat(ctx, e.Env, []string{"1", "--plain"})

	// Load itself fails on a canceled context.
	assert.True(t, errors.Is(err, api.ErrCanceled))
	assert.Empty(t, e.srv.ChatRequests())
}
