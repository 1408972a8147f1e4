// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "fmt"

// =============================================================================
// ERROR TYPES
// =============================================================================

// Kind categorizes client errors for handling.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound is a 404 from the backend.
	KindNotFound
	// KindNetwork means the backend could not be reached.
	KindNetwork
	// KindUpstream is any other non-2xx response.
	KindUpstream
	// KindDecode means a 2xx response body could not be decoded.
	KindDecode
	// KindCanceled means the caller's context ended first.
	KindCanceled
)

// String returns the kind name used in logs and JSON output.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	case KindUpstream:
		return "upstream"
	case KindDecode:
		return "decode"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method. Message is always suitable for
// display to the user.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by kind, so errors.Is(err, ErrNotFound) holds for
// every 404 regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Verbose includes status and cause, for logs.
func (e *Error) Verbose() string {
	s := fmt.Sprintf("%s (%s", e.Message, e.Kind)
	if e.Status != 0 {
		s += fmt.Sprintf(", status %d", e.Status)
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s + ")"
}

// Sentinel errors for errors.Is checks.
var (
	ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}
	ErrNetwork  = &Error{Kind: KindNetwork, Message: MsgNetwork}
	ErrCanceled = &Error{Kind: KindCanceled, Message: MsgCanceled}
)

// =============================================================================
// USER-FACING MESSAGES
// =============================================================================

const (
	MsgListCharacters    = "캐릭터 목록을 불러올 수 없습니다"
	MsgGetCharacter      = "캐릭터를 불러올 수 없습니다"
	MsgCharacterNotFound = "캐릭터를 찾을 수 없습니다. 캐릭터가 삭제되었거나 존재하지 않습니다."
	MsgCreateCharacter   = "캐릭터 생성 실패"
	MsgSendMessage       = "메시지 전송 실패"
	MsgGetMessages       = "메시지를 불러올 수 없습니다"
	MsgListConversations = "대화 목록을 불러올 수 없습니다"
	MsgUploadImage       = "이미지 업로드 실패"
	MsgModelHealth       = "모델 상태를 확인할 수 없습니다"
	MsgNetwork           = "네트워크 오류가 발생했습니다. 백엔드 서버가 실행 중인지 확인해주세요."
	MsgCanceled          = "요청이 취소되었습니다"
)
