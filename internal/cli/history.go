// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jeranaias/companion-tui/internal/history"
)

// now is replaced in tests.
var now = time.Now

// HistoryRow is the JSON shape of one history row.
type HistoryRow struct {
	ConversationID int64      `json:"conversation_id"`
	CharacterID    int64      `json:"character_id"`
	CharacterName  string     `json:"character_name"`
	SafeMode       bool       `json:"safe_mode"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// RunHistory lists past conversations, newest first.
func RunHistory(ctx context.Context, env *Env, argv []string) error {
	return OutputJSON(env.Out, env.JSON, "history", func() (interface{}, error) {
		entries, err := history.Fetch(ctx, env.Client)
		if err != nil {
			return nil, err
		}

		rows := make([]HistoryRow, 0, len(entries))
		for _, e := range entries {
			row := HistoryRow{
				ConversationID: e.ConversationID,
				CharacterID:    e.CharacterID,
				CharacterName:  e.CharacterName,
				SafeMode:       e.SafeMode,
			}
			if !e.UpdatedAt.IsZero() {
				t := e.UpdatedAt
				row.UpdatedAt = &t
			}
			rows = append(rows, row)
		}
		if env.JSON {
			return rows, nil
		}

		if len(entries) == 0 {
			fmt.Fprintln(env.Out, "아직 대화 기록이 없어요")
			return rows, nil
		}
		t := newTable("대화", "캐릭터", "세이프", "마지막 대화")
		at := now()
		for _, e := range entries {
			t.add("#"+strconv.FormatInt(e.ConversationID, 10), e.CharacterName, e.SafeLabel(), history.RelativeTime(e.UpdatedAt, at))
		}
		fmt.Fprint(env.Out, t.String())
		if !env.Quiet {
			fmt.Fprintln(env.Out, DimStyle.Render(fmt.Sprintf("대화 %d개 · 이어서 대화하려면 companion chat <캐릭터 ID> --conversation <대화 번호>", len(entries))))
		}
		return rows, nil
	})
}
