// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information, set at build time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies a top-level command.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdCharacters
	CmdUpload
	CmdHistory
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[string]Command{
	"tui":        CmdTUI,
	"chat":       CmdChat,
	"characters": CmdCharacters,
	"chars":      CmdCharacters,
	"upload":     CmdUpload,
	"history":    CmdHistory,
	"status":     CmdStatus,
	"config":     CmdConfig,
	"version":    CmdVersion,
	"help":       CmdHelp,
}

// String returns the canonical command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdCharacters:
		return "characters"
	case CmdUpload:
		return "upload"
	case CmdHistory:
		return "history"
	case CmdStatus:
		return "status"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// =============================================================================
// ARGS
// =============================================================================

// Args holds the parsed command line.
type Args struct {
	Command Command

	// Global flags, accepted anywhere on the line.
	Quiet   bool
	Verbose bool
	JSON    bool
	APIURL  string

	// Rest holds the command's own arguments.
	Rest []string
}

// ParseArgs splits global flags from the command and its arguments. With no
// command the full-screen client runs; a leading flag the global set does
// not know is passed to it.
func ParseArgs(argv []string) (Args, error) {
	var args Args
	rest := make([]string, 0, len(argv))
	help := false

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--json":
			args.JSON = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "-h" || arg == "--help":
			help = true
		case arg == "--version":
			args.Command = CmdVersion
			return args, nil
		case arg == "--api-url":
			if i+1 >= len(argv) {
				return args, ErrMissingArgument("api-url", "--api-url http://127.0.0.1:8000")
			}
			i++
			args.APIURL = argv[i]
		case strings.HasPrefix(arg, "--api-url="):
			args.APIURL = strings.TrimPrefix(arg, "--api-url=")
		default:
			rest = append(rest, arg)
		}
	}

	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		cmd, ok := commandNames[rest[0]]
		if !ok {
			return args, &ValidationError{
				Field:   "command",
				Value:   rest[0],
				Reason:  "unknown command",
				Example: "companion help",
			}
		}
		args.Command = cmd
		rest = rest[1:]
	}
	args.Rest = rest

	if help {
		// "chat --help" asks for help on chat.
		if args.Command != CmdHelp && args.Command != CmdTUI {
			args.Rest = []string{args.Command.String()}
		} else {
			args.Rest = nil
		}
		args.Command = CmdHelp
	}
	return args, nil
}

// =============================================================================
// HELP AND VERSION
// =============================================================================

const usageText = `companion - 터미널 컴패니언 채팅

Usage:
  companion [global flags] [command] [args]

Commands:
  tui [--character ID] [--conversation ID]   전체 화면 클라이언트 (기본)
  chat <character-id> [flags]                줄 단위 채팅
  characters [list|show|create] [flags]      캐릭터 목록, 상세, 생성
  upload <file>                              이미지 업로드
  history                                    지난 대화 목록
  status                                     백엔드와 모델 상태
  config [show|get|set|path|keys]            설정 관리
  version                                    버전 정보
  help [command]                             도움말

Global flags:
  --api-url URL    백엔드 주소 (config api.base_url 대신 사용)
  --json           JSON 출력
  -q, --quiet      최소 출력
  -v, --verbose    디버그 로그
  -h, --help       도움말
  --version        버전 정보
`

var commandUsage = map[string]string{
	"tui": `companion tui [--character ID] [--conversation ID]

  --character ID      바로 대화를 열 캐릭터
  --conversation ID   이어갈 대화 (--character 와 함께)
`,
	"chat": `companion chat <character-id> [flags]

  --conversation ID   이어갈 대화
  --unsafe            세이프 모드 끄고 시작
  --nickname NAME     이번 대화에서 쓸 닉네임

  대화 중 명령: /safe  /image  /help  /quit
`,
	"characters": `companion characters [list|show|create]

  list   [--gender 여성|남성] [--min-age N] [--max-age N] [--q 검색어]
  show   <id>
  create --name NAME [--gender G] [--age N] [--bio T] [--description T]
         [--tone T] [--hashtags a,b] [--boundaries a,b]
         [--image REF] [--image-<emotion> REF]
         [--upload FILE] [--upload-<emotion> FILE]
`,
	"upload": `companion upload <file>
`,
	"history": `companion history
`,
	"status": `companion status
`,
	"config": `companion config [show|get KEY|set KEY VALUE|path|keys]
`,
}

// PrintUsage writes the help text for topic, or the general help.
func PrintUsage(w io.Writer, topic string) {
	if text, ok := commandUsage[topic]; ok {
		fmt.Fprint(w, text)
		return
	}
	fmt.Fprint(w, usageText)
}

// VersionData is the JSON shape of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// RunVersion prints version information.
func RunVersion(env *Env) error {
	data := VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if env.JSON {
		return NewJSONResponse("version", data).Print(env.Out)
	}
	fmt.Fprintf(env.Out, "companion %s\n", data.Version)
	if !env.Quiet {
		fmt.Fprintf(env.Out, "  commit:   %s\n", data.GitCommit)
		fmt.Fprintf(env.Out, "  built:    %s\n", data.BuildDate)
		fmt.Fprintf(env.Out, "  go:       %s\n", data.GoVersion)
		fmt.Fprintf(env.Out, "  platform: %s\n", data.Platform)
	}
	return nil
}
