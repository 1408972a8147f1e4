// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings holds the process-lifetime preferences that seed new chat
// sessions, plus the backend connectivity probe.
package settings

import (
	"context"
	"strings"
	"time"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/config"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/session"
)

// ProbeResetAfter is how long an ok/fail probe result stays visible.
const ProbeResetAfter = 3 * time.Second

// ProbeState is the connectivity probe status.
type ProbeState int

const (
	ProbeIdle ProbeState = iota
	ProbeTesting
	ProbeOK
	ProbeFail
)

// String returns the Korean label shown next to the probe button.
func (p ProbeState) String() string {
	switch p {
	case ProbeTesting:
		return "확인 중..."
	case ProbeOK:
		return "연결됨"
	case ProbeFail:
		return "연결 실패"
	default:
		return "연결 테스트"
	}
}

// Prober is the part of the API client the probe needs.
type Prober interface {
	Health(ctx context.Context) bool
	ModelHealth(ctx context.Context) (*api.ModelHealth, error)
}

// Settings is local-only state. Nothing is persisted.
type Settings struct {
	nickname string
	safeMode bool

	probe    ProbeState
	probeGen int
	model    *api.ModelHealth
	modelErr error
}

// New returns settings with the built-in defaults.
func New() *Settings {
	return &Settings{nickname: config.DefaultNickname, safeMode: true}
}

// FromConfig seeds settings from the [defaults] config section.
func FromConfig(cfg *config.Config) *Settings {
	s := New()
	if cfg == nil {
		return s
	}
	s.SetNickname(cfg.Defaults.Nickname)
	s.safeMode = cfg.Defaults.SafeMode
	return s
}

// Nickname returns the nickname sent as the user profile.
func (s *Settings) Nickname() string { return s.nickname }

// SetNickname sets the nickname; blank input restores the default.
func (s *Settings) SetNickname(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = config.DefaultNickname
	}
	s.nickname = name
}

// SafeModeDefault is the safe-mode seed for new sessions.
func (s *Settings) SafeModeDefault() bool { return s.safeMode }

// SetSafeModeDefault sets the safe-mode seed.
func (s *Settings) SetSafeModeDefault(on bool) { s.safeMode = on }

// ToggleSafeModeDefault flips the safe-mode seed.
func (s *Settings) ToggleSafeModeDefault() bool {
	s.safeMode = !s.safeMode
	return s.safeMode
}

// SessionOptions returns options for a new chat session. conversationID of 0
// starts a new conversation.
func (s *Settings) SessionOptions(conversationID int64) session.Options {
	return session.Options{
		ConversationID: conversationID,
		SafeMode:       s.safeMode,
		Nickname:       s.nickname,
	}
}

// =============================================================================
// CONNECTIVITY PROBE
// =============================================================================

// Probe returns the probe state.
func (s *Settings) Probe() ProbeState { return s.probe }

// BeginProbe moves to testing and returns a generation token for the
// matching Complete and Reset calls.
func (s *Settings) BeginProbe() int {
	s.probeGen++
	s.probe = ProbeTesting
	return s.probeGen
}

// CompleteProbe records the result of probe gen. Stale results are ignored.
func (s *Settings) CompleteProbe(gen int, ok bool) {
	if gen != s.probeGen {
		return
	}
	if ok {
		s.probe = ProbeOK
	} else {
		s.probe = ProbeFail
	}
	logging.L().WithField("ok", ok).Info("backend probe finished")
}

// ResetProbe returns an ok/fail result to idle if no newer probe started.
func (s *Settings) ResetProbe(gen int) {
	if gen != s.probeGen || s.probe == ProbeTesting {
		return
	}
	s.probe = ProbeIdle
}

// RunProbe performs a blocking probe; the caller schedules ResetProbe.
func (s *Settings) RunProbe(ctx context.Context, p Prober) (int, bool) {
	gen := s.BeginProbe()
	ok := p.Health(ctx)
	s.CompleteProbe(gen, ok)
	return gen, ok
}

// =============================================================================
// MODEL HEALTH
// =============================================================================

// SetModelHealth records the deep probe result.
func (s *Settings) SetModelHealth(h *api.ModelHealth, err error) {
	s.model, s.modelErr = h, err
	if err != nil {
		logging.L().WithError(err).Warn("model health check failed")
	}
}

// ModelHealth returns the last deep probe result.
func (s *Settings) ModelHealth() (*api.ModelHealth, error) {
	return s.model, s.modelErr
}

// ModelSummary is a one-line description of the deep probe result.
func (s *Settings) ModelSummary() string {
	switch {
	case s.modelErr != nil:
		return s.modelErr.Error()
	case s.model == nil:
		return "모델 상태 미확인"
	case s.model.OK():
		return "모델 정상: " + joinNonEmpty(s.model.Model, s.model.OllamaHost)
	default:
		msg := s.model.Message
		if msg == "" {
			msg = s.model.Status
		}
		return "모델 오류: " + msg
	}
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, " @ ")
}
