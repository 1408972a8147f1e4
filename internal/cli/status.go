// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/settings"
)

// errUnhealthy marks a status run where the backend did not answer.
var errUnhealthy = &api.Error{Kind: api.KindNetwork, Message: api.MsgNetwork}

// StatusData is the JSON shape of the status command.
type StatusData struct {
	BaseURL      string           `json:"base_url"`
	Reachable    bool             `json:"reachable"`
	Model        *api.ModelHealth `json:"model,omitempty"`
	ModelError   string           `json:"model_error,omitempty"`
	ModelSummary string           `json:"model_summary"`
}

// RunStatus runs the connectivity probe and the model health check. An
// unreachable backend is a network error; an unhealthy model is reported
// but does not fail the command.
func RunStatus(ctx context.Context, env *Env, argv []string) error {
	prefs := settings.FromConfig(env.Config)

	data, err := collectStatus(ctx, env, prefs)
	if env.JSON {
		if perr := NewJSONResponse("status", data).Print(env.Out); perr != nil {
			return perr
		}
		return err
	}

	fmt.Fprintln(env.Out, TitleStyle.Render("컴패니언 상태"))
	fmt.Fprintln(env.Out, RenderSeparator(40))
	fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("서버", 12), data.BaseURL)
	fmt.Fprintf(env.Out, "%s %s %s\n", RenderLabel("백엔드 연결", 12), RenderStatus(data.Reachable), prefs.Probe().String())
	if data.Reachable {
		fmt.Fprintf(env.Out, "%s %s %s\n", RenderLabel("모델 상태", 12), RenderStatus(data.Model != nil && data.Model.OK()), data.ModelSummary)
	}
	if !env.Quiet {
		fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("닉네임", 12), prefs.Nickname())
		fmt.Fprintf(env.Out, "%s %t\n", RenderLabel("세이프 모드", 12), prefs.SafeModeDefault())
	}
	return err
}

func collectStatus(ctx context.Context, env *Env, prefs *settings.Settings) (StatusData, error) {
	data := StatusData{BaseURL: env.Client.BaseURL()}

	_, ok := prefs.RunProbe(ctx, env.Client)
	data.Reachable = ok
	if !ok {
		data.ModelSummary = prefs.ModelSummary()
		if ctx.Err() != nil {
			return data, ctx.Err()
		}
		return data, errUnhealthy
	}

	health, err := env.Client.ModelHealth(ctx)
	prefs.SetModelHealth(health, err)
	data.Model = health
	if err != nil {
		data.ModelError = err.Error()
		if errors.Is(err, api.ErrCanceled) {
			return data, err
		}
	}
	data.ModelSummary = prefs.ModelSummary()
	return data, nil
}
