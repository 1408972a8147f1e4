// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/backendtest"
	"github.com/jeranaias/companion-tui/internal/config"
	"github.com/jeranaias/companion-tui/internal/model"
)

func intPtr(n int) *int { return &n }

type testEnv struct {
	*Env
	out *bytes.Buffer
	err *bytes.Buffer
	srv *backendtest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := backendtest.New(t)
	env := EnvFor(config.Default(), Args{APIURL: srv.URL})
	out, errb := &bytes.Buffer{}, &bytes.Buffer{}
	env.Out, env.Err, env.In = out, errb, strings.NewReader("")
	env.ConfigPath = filepath.Join(t.TempDir(), "config.toml")
	return &testEnv{Env: env, out: out, err: errb, srv: srv}
}

func (e *testEnv) seed() (luna, haeon, elder model.Character) {
	luna = e.srv.AddCharacter(model.Character{Name: "루나", Gender: "여성", Age: intPtr(24), Bio: "별을 좋아하는 대학생", Tone: "친근",
		ImageDefault: "/img/luna.png", ImageByEmotion: map[model.Emotion]string{model.EmotionHappy: "/img/luna-happy.png"}})
	haeon = e.srv.AddCharacter(model.Character{Name: "해온", Gender: "남성", Age: intPtr(29), Bio: "바리스타"})
	elder = e.srv.AddCharacter(model.Character{Name: "노인", Gender: "남성", Age: intPtr(70)})
	return
}

func decodeResponse(t *testing.T, data []byte) (JSONResponse, json.RawMessage) {
	t.Helper()
	var raw struct {
		JSONResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	return raw.JSONResponse, raw.Data
}

// =============================================================================
// CHARACTERS
// =============================================================================

func TestCharactersList_AllByDefault(t *testing.T) {
	e := newTestEnv(t)
	e.seed()

	require.NoError(t, RunCharacters(context.Background(), e.Env, nil))

	out := e.out.String()
	assert.Contains(t, out, "루나")
	assert.Contains(t, out, "해온")
	assert.Contains(t, out, "노인")
	assert.Contains(t, out, "3 / 3명")
}

func TestCharactersList_Filters(t *testing.T) {
	e := newTestEnv(t)
	e.seed()

	require.NoError(t, RunCharacters(context.Background(), e.Env, []string{"list", "--gender", "남성", "--max-age", "40"}))
	out := e.out.String()
	assert.Contains(t, out, "해온")
	assert.NotContains(t, out, "루나")
	assert.NotContains(t, out, "노인")

	e.out.Reset()
	require.NoError(t, RunCharacters(context.Background(), e.Env, []string{"list", "--q", "바리"}))
	assert.Contains(t, e.out.String(), "해온")
	assert.Contains(t, e.out.String(), "1 / 3명")

	e.out.Reset()
	require.NoError(t, RunCharacters(context.Background(), e.Env, []string{"list", "--min-age", "30", "--max-age", "60"}))
	assert.Contains(t, e.out.String(), "조건에 맞는 캐릭터가 없어요")
}

func TestCharactersList_BadRange(t *testing.T) {
	e := newTestEnv(t)
	err := RunCharacters(context.Background(), e.Env, []string{"list", "--min-age", "40", "--max-age", "20"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = RunCharacters(context.Background(), e.Env, []string{"list", "--max-age", "200"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestCharactersList_Empty(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, RunCharacters(context.Background(), e.Env, []string{"list"}))
	assert.Contains(t, e.out.String(), "아직 캐릭터가 없어요")
}

func TestCharactersList_JSON(t *testing.T) {
	e := newTestEnv(t)
	e.seed()
	e.JSON = true

	require.NoError(t, RunCharacters(context.Background(), e.Env, []string{"list", "--gender", "여성"}))

	resp, data := decodeResponse(t, e.out.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "characters", resp.Command)
	var chars []model.Character
	require.NoError(t, json.Unmarshal(data, &chars))
	require.Len(t, chars, 1)
	assert.Equal(t, "루나", chars[0].Name)
}

func TestCharactersList_BackendFailure(t *testing.T) {
	e := newTestEnv(t)
	e.srv.Fail("GET /characters", 500, `{"detail":"db down"}`)

	err := RunCharacters(context.Background(), e.Env, []string{"list"})
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.KindUpstream, apiErr.Kind)
	assert.Equal(t, ExitGeneralError, GetExitCode(err))
}

func TestCharactersShow(t *testing.T) {
	e := newTestEnv(t)
	luna, _, _ := e.seed()

	require.NoError(t, RunCharacters(context.Background(), e.Env, []string{"show", "1"}))
	out := e.out.String()
	assert.Contains(t, out, luna.Name)
	assert.Contains(t, out, "24세")
	assert.Contains(t, out, "별을 좋아하는 대학생")
	assert.Contains(t, out, "/img/luna-happy.png")

	err := RunCharacters(context.Background(), e.Env, []string{"show", "99"})
	assert.True(t, errors.Is(err, api.ErrNotFound))
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))

	err = RunCharacters(context.Background(), e.Env, []string{"show"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestCharactersCreate(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "luna.png")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{1}, 2048), 0600))

	err := RunCharacters(context.Background(), e.Env, []string{
		"create", "--name", " 루나 ", "--age", "24", "--hashtags", "따뜻함, #카페",
		"--image-sad", "/img/sad.png", "--upload-happy", path,
	})
	require.NoError(t, err)
	assert.Contains(t, e.out.String(), "캐릭터를 만들었어요: #1 루나")
	assert.Contains(t, e.err.String(), "luna.png (2.0 kB)")

	chars := e.srv.Characters()
	require.Len(t, chars, 1)
	c := chars[0]
	assert.Equal(t, "루나", c.Name)
	require.NotNil(t, c.Age)
	assert.Equal(t, 24, *c.Age)
	assert.Equal(t, "여성", c.Gender)
	assert.Equal(t, []string{"#따뜻함", "#카페"}, c.Hashtags)
	assert.Equal(t, "/img/sad.png", c.ImageByEmotion[model.EmotionSad])
	assert.Equal(t, "/uploads/luna.png", c.ImageByEmotion[model.EmotionHappy])
	require.Len(t, e.srv.Uploads(), 1)
}

func TestCharactersCreate_Rejections(t *testing.T) {
	e := newTestEnv(t)

	err := RunCharacters(context.Background(), e.Env, []string{"create", "--age", "24"})
	assert.Equal(t, ExitUsageError, GetExitCode(err), "blank name")

	err = RunCharacters(context.Background(), e.Env, []string{"create", "--name", "루나", "--age", "200"})
	assert.Equal(t, ExitUsageError, GetExitCode(err), "age out of range")

	err = RunCharacters(context.Background(), e.Env, []string{"create", "--name", "루나", "--image-grumpy", "/x.png"})
	assert.Equal(t, ExitUsageError, GetExitCode(err), "unknown slot")

	err = RunCharacters(context.Background(), e.Env, []string{"create", "--name", "루나", "--upload-grumpy", "/x.png"})
	assert.Equal(t, ExitUsageError, GetExitCode(err), "unknown upload slot")

	assert.Empty(t, e.srv.Characters())
	assert.Empty(t, e.srv.Uploads())
}

func TestCharactersCreate_BlankAgeOmitted(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, RunCharacters(context.Background(), e.Env, []string{"create", "--name", "해온", "--age", ""}))
	chars := e.srv.Characters()
	require.Len(t, chars, 1)
	assert.Nil(t, chars[0].Age)
}

func TestCharactersCreate_MissingUploadFile(t *testing.T) {
	e := newTestEnv(t)
	err := RunCharacters(context.Background(), e.Env, []string{"create", "--name", "루나", "--upload", filepath.Join(t.TempDir(), "nope.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "기본 이미지 업로드 실패")
	assert.Empty(t, e.srv.Characters())
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestUpload(t *testing.T) {
	e := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "haeon.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0600))

	require.NoError(t, RunUpload(context.Background(), e.Env, []string{path}))
	assert.Contains(t, e.out.String(), "/uploads/haeon.jpg")

	e.out.Reset()
	e.Quiet = true
	require.NoError(t, RunUpload(context.Background(), e.Env, []string{path}))
	assert.Equal(t, "/uploads/haeon.jpg\n", e.out.String())

	uploads := e.srv.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, "image/jpeg", uploads[0].ContentType)

	err := RunUpload(context.Background(), e.Env, nil)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistory(t *testing.T) {
	e := newTestEnv(t)
	luna, haeon, _ := e.seed()

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })

	e.srv.AddConversation(luna.ID, true, fixed.Add(-5*time.Minute))
	e.srv.AddConversation(haeon.ID, false, fixed.Add(-2*time.Hour))

	require.NoError(t, RunHistory(context.Background(), e.Env, nil))
	out := e.out.String()
	assert.Contains(t, out, "5분 전")
	assert.Contains(t, out, "2시간 전")
	assert.Contains(t, out, "세이프 OFF")
	assert.Contains(t, out, "대화 2개")
	assert.Less(t, strings.Index(out, "루나"), strings.Index(out, "해온"), "newest first")
}

func TestHistory_EmptyAndJSON(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, RunHistory(context.Background(), e.Env, nil))
	assert.Contains(t, e.out.String(), "아직 대화 기록이 없어요")

	luna, _, _ := e.seed()
	e.srv.AddConversation(luna.ID, true, time.Now().Add(-time.Minute))
	e.out.Reset()
	e.JSON = true
	require.NoError(t, RunHistory(context.Background(), e.Env, nil))

	_, data := decodeResponse(t, e.out.Bytes())
	var rows []HistoryRow
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "루나", rows[0].CharacterName)
	assert.True(t, rows[0].SafeMode)
	assert.NotNil(t, rows[0].UpdatedAt)
}

// =============================================================================
// STATUS
// =============================================================================

func TestStatus_Healthy(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, RunStatus(context.Background(), e.Env, nil))
	out := e.out.String()
	assert.Contains(t, out, "연결됨")
	assert.Contains(t, out, "모델 정상")
	assert.Contains(t, out, e.srv.URL)
}

func TestStatus_ModelDown(t *testing.T) {
	e := newTestEnv(t)
	e.srv.SetModelStatus("error")
	require.NoError(t, RunStatus(context.Background(), e.Env, nil))
	assert.Contains(t, e.out.String(), "모델 오류")
}

func TestStatus_Unreachable(t *testing.T) {
	e := newTestEnv(t)
	cfg := config.Default()
	env := EnvFor(cfg, Args{APIURL: "http://127.0.0.1:1", JSON: true})
	env.Out, env.Err = e.out, e.err

	err := RunStatus(context.Background(), env, nil)
	assert.True(t, errors.Is(err, api.ErrNetwork))
	assert.Equal(t, ExitNetworkError, GetExitCode(err))

	_, data := decodeResponse(t, e.out.Bytes())
	var status StatusData
	require.NoError(t, json.Unmarshal(data, &status))
	assert.False(t, status.Reachable)
	assert.Equal(t, "http://127.0.0.1:1", status.BaseURL)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_SetWritesFile(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, RunConfig(e.Env, []string{"set", "defaults.nickname", "별"}))
	assert.Contains(t, e.out.String(), "defaults.nickname = 별")

	loaded, err := config.LoadFromPath(e.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "별", loaded.Defaults.Nickname)

	e.out.Reset()
	require.NoError(t, RunConfig(e.Env, []string{"get", "defaults.nickname"}))
	assert.Equal(t, "별\n", e.out.String())
}

func TestConfig_SetRejections(t *testing.T) {
	e := newTestEnv(t)

	err := RunConfig(e.Env, []string{"set", "defaults.colour", "red"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = RunConfig(e.Env, []string{"set", "defaults.min_age", "200"})
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	err = RunConfig(e.Env, []string{"set", "ui.theme", "neon"})
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	_, statErr := os.Stat(e.ConfigPath)
	assert.True(t, os.IsNotExist(statErr), "nothing written")
}

func TestConfig_ShowKeysPath(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, RunConfig(e.Env, []string{"keys"}))
	assert.Contains(t, e.out.String(), "api.base_url\n")
	assert.Contains(t, e.out.String(), "defaults.safe_mode\n")

	e.out.Reset()
	require.NoError(t, RunConfig(e.Env, nil))
	assert.Contains(t, e.out.String(), e.srv.URL)

	e.out.Reset()
	require.NoError(t, RunConfig(e.Env, []string{"path"}))
	assert.Contains(t, e.out.String(), e.ConfigPath)

	err := RunConfig(e.Env, []string{"explode"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// VERSION AND HELP
// =============================================================================

func TestVersionJSON(t *testing.T) {
	e := newTestEnv(t)
	e.JSON = true
	require.NoError(t, RunVersion(e.Env))

	_, data := decodeResponse(t, e.out.Bytes())
	var v VersionData
	require.NoError(t, json.Unmarshal(data, &v))
	assert.Equal(t, Version, v.Version)
	assert.NotEmpty(t, v.GoVersion)
}

func TestPrintUsage(t *testing.T) {
	var b bytes.Buffer
	PrintUsage(&b, "chat")
	assert.Contains(t, b.String(), "--conversation")

	b.Reset()
	PrintUsage(&b, "")
	assert.Contains(t, b.String(), "Commands:")
}
