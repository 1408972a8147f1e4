// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ACTION DETECTION TESTS
// =============================================================================

func TestIsActionText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"*waves*", true},
		{"  *손을 잡으며*  ", true},
		{"**", true},
		{"*", false},
		{"hello", false},
		{"*half", false},
		{"half*", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActionText(tt.in))
		})
	}
}

func TestRendersAsAction_FlagOrTextShape(t *testing.T) {
	flagged := Message{Role: RoleAssistant, Content: "고개를 끄덕인다", IsAction: true}
	assert.True(t, flagged.RendersAsAction(), "backend action flag is honoured")

	unflagged := Message{Role: RoleAssistant, Content: "*smiles*", IsAction: false}
	assert.True(t, unflagged.RendersAsAction(), "text shape is checked even without the flag")

	plain := Message{Role: RoleAssistant, Content: "plain reply"}
	assert.False(t, plain.RendersAsAction())
}

func TestActionBody(t *testing.T) {
	assert.Equal(t, "waves", ActionBody(" * waves * "))
	assert.Equal(t, "hello", ActionBody("hello"))
}

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("*nods*")
	assert.Equal(t, RoleUser, msg.Role)
	assert.True(t, msg.IsAction)
	assert.True(t, msg.ID.IsLocal())
	assert.NotNil(t, msg.CreatedAt)
}

func TestNewFallbackMessage(t *testing.T) {
	msg := NewFallbackMessage()
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, FallbackReply, msg.Content)
	assert.Equal(t, EmotionSad, msg.Emotion)
}

// =============================================================================
// MESSAGE ID TESTS
// =============================================================================

func TestMessageID_LocalAndRemoteAreDistinct(t *testing.T) {
	a, b := NewLocalID(), NewLocalID()
	assert.NotEqual(t, a, b)
	assert.True(t, a.IsLocal())

	r := RemoteID(42)
	assert.False(t, r.IsLocal())
	n, ok := r.Remote()
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = a.Remote()
	assert.False(t, ok)
	assert.True(t, MessageID{}.IsZero())
}

func TestMessage_DecodeBackendJSON(t *testing.T) {
	raw := `[
		{"id": 7, "conversation_id": 3, "role": "user", "content": "안녕", "is_action": false, "emotion": null, "created_at": "2024-05-01T10:00:00"},
		{"id": 8, "conversation_id": 3, "role": "assistant", "content": "*웃는다*", "is_action": true, "emotion": "happy", "created_at": "2024-05-01T10:00:02Z"}
	]`
	var msgs []Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msgs))
	require.Len(t, msgs, 2)

	assert.Equal(t, RemoteID(7), msgs[0].ID)
	assert.Equal(t, EmotionNone, msgs[0].Emotion)
	assert.Equal(t, EmotionHappy, msgs[1].Emotion)
	assert.True(t, msgs[1].IsAction)
	require.NotNil(t, msgs[1].CreatedAt)
}

func TestMessageID_JSONRoundTripLocal(t *testing.T) {
	id := NewLocalID()
	data, err := json.Marshal(id)
	require.NoError(t, err)

	var back MessageID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, id, back)
}

func TestMessageID_RejectsGarbage(t *testing.T) {
	var id MessageID
	assert.Error(t, json.Unmarshal([]byte(`"banana"`), &id))
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &id))
}

// =============================================================================
// IMAGE SELECTION TESTS
// =============================================================================

func testCharacter() *Character {
	return &Character{
		ID:           1,
		Name:         "루나",
		ImageDefault: "/img/default.png",
		ImageByEmotion: map[Emotion]string{
			EmotionHappy: "/img/happy.png",
			EmotionSad:   "/img/sad.png",
		},
	}
}

func TestSelectImage(t *testing.T) {
	c := testCharacter()

	tests := []struct {
		name     string
		char     *Character
		messages []Message
		want     string
	}{
		{"no character", nil, nil, PlaceholderImage},
		{"no messages", c, nil, "/img/default.png"},
		{"user only", c, []Message{{Role: RoleUser, Emotion: EmotionHappy}}, "/img/default.png"},
		{"mapped emotion", c, []Message{{Role: RoleAssistant, Emotion: EmotionHappy}}, "/img/happy.png"},
		{"unmapped emotion", c, []Message{{Role: RoleAssistant, Emotion: EmotionShy}}, "/img/default.png"},
		{"unknown emotion", c, []Message{{Role: RoleAssistant, Emotion: "ecstatic"}}, "/img/default.png"},
		{
			"last assistant wins",
			c,
			[]Message{
				{Role: RoleAssistant, Emotion: EmotionHappy},
				{Role: RoleAssistant, Emotion: EmotionSad},
				{Role: RoleUser},
			},
			"/img/sad.png",
		},
		{
			"last assistant without emotion resets",
			c,
			[]Message{
				{Role: RoleAssistant, Emotion: EmotionHappy},
				{Role: RoleAssistant},
			},
			"/img/default.png",
		},
		{"no default image", &Character{ID: 2}, nil, PlaceholderImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectImage(tt.char, tt.messages))
		})
	}
}

func TestCharacter_Helpers(t *testing.T) {
	age := 24
	c := Character{Name: "루나", Bio: "카페", Hashtags: []string{"#따뜻함"}, Age: &age}
	assert.Equal(t, 24, c.AgeOrZero())
	assert.Equal(t, "24세", c.AgeLabel())
	assert.Contains(t, c.SearchText(), "#따뜻함")

	var noAge Character
	assert.Equal(t, 0, noAge.AgeOrZero())
	assert.Equal(t, "", noAge.AgeLabel())
}

func TestEmotion(t *testing.T) {
	assert.Len(t, Emotions, 7)
	for _, e := range Emotions {
		assert.True(t, e.IsKnown(), e)
		assert.NotEmpty(t, e.DisplayName(), e)
	}
	e, ok := ParseEmotion("ecstatic")
	assert.False(t, ok)
	assert.Equal(t, Emotion("ecstatic"), e)
}

func TestTimestamp_NaiveIsUTC(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01T10:00:00.123456"`), &ts))
	assert.Equal(t, 10, ts.Hour())
	_, offset := ts.Zone()
	assert.Equal(t, 0, offset)

	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01T10:00:00+09:00"`), &ts))
	assert.Equal(t, 1, ts.UTC().Hour())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
