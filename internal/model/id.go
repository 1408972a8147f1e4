// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// =============================================================================
// MESSAGE ID
// =============================================================================

// MessageID identifies a message within a session. A message is either local,
// created on this side before (or instead of) a backend round trip, or remote,
// carrying the integer id the backend assigned. The two kinds never collide.
type MessageID struct {
	local  uuid.UUID
	remote int64
}

// NewLocalID returns a fresh local identifier.
func NewLocalID() MessageID {
	return MessageID{local: uuid.New()}
}

// RemoteID wraps a backend-assigned identifier.
func RemoteID(id int64) MessageID {
	return MessageID{remote: id}
}

// IsLocal reports whether the id was generated locally.
func (id MessageID) IsLocal() bool {
	return id.local != uuid.Nil
}

// IsZero reports whether the id is unset.
func (id MessageID) IsZero() bool {
	return id.local == uuid.Nil && id.remote == 0
}

// Remote returns the backend id. ok is false for local ids.
func (id MessageID) Remote() (n int64, ok bool) {
	if id.IsLocal() {
		return 0, false
	}
	return id.remote, true
}

// String returns "local:<uuid>" or the decimal backend id.
func (id MessageID) String() string {
	if id.IsLocal() {
		return "local:" + id.local.String()
	}
	return strconv.FormatInt(id.remote, 10)
}

// MarshalJSON encodes remote ids as numbers and local ids as strings.
func (id MessageID) MarshalJSON() ([]byte, error) {
	if id.IsLocal() {
		return json.Marshal(id.String())
	}
	return []byte(strconv.FormatInt(id.remote, 10)), nil
}

// UnmarshalJSON accepts a backend number, a numeric string, or a
// "local:<uuid>" string produced by MarshalJSON.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = MessageID{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return id.parse(s)
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid message id %s: %w", data, err)
	}
	*id = RemoteID(n)
	return nil
}

func (id *MessageID) parse(s string) error {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*id = RemoteID(n)
		return nil
	}
	const prefix = "local:"
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		u, err := uuid.Parse(s[len(prefix):])
		if err != nil {
			return fmt.Errorf("invalid local message id %q: %w", s, err)
		}
		*id = MessageID{local: u}
		return nil
	}
	return fmt.Errorf("invalid message id %q", s)
}
