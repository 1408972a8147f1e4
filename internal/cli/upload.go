// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/companion-tui/internal/creation"
)

// UploadData is the JSON shape of the upload command.
type UploadData struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// RunUpload uploads one image and prints the reference to use in
// "characters create --image".
func RunUpload(ctx context.Context, env *Env, argv []string) error {
	args := NewArgParser(argv)
	path := expandHome(strings.TrimSpace(args.Positional(0)))
	if path == "" {
		return ErrMissingArgument("file", "companion upload ./luna.png")
	}

	return OutputJSON(env.Out, env.JSON, "upload", func() (interface{}, error) {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()

		var size int64
		if info, err := fh.Stat(); err == nil {
			size = info.Size()
		}
		res, err := env.Client.UploadImage(ctx, path, fh)
		if err != nil {
			return nil, err
		}

		data := UploadData{URL: res.URL, Filename: res.Filename, Size: size}
		if !env.JSON {
			if env.Quiet {
				fmt.Fprintln(env.Out, res.URL)
			} else {
				fmt.Fprintf(env.Out, "%s %s\n", SuccessStyle.Render("[OK]"), creation.PreviewText(filepath.Base(path), size))
				fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("URL", 6), res.URL)
			}
		}
		return data, nil
	})
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
