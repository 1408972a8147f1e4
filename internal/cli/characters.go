// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/companion-tui/internal/config"
	"github.com/jeranaias/companion-tui/internal/creation"
	"github.com/jeranaias/companion-tui/internal/directory"
	"github.com/jeranaias/companion-tui/internal/model"
	"github.com/jeranaias/companion-tui/internal/util"
)

// RunCharacters dispatches "characters list|show|create". No subcommand
// means list.
func RunCharacters(ctx context.Context, env *Env, argv []string) error {
	args := NewArgParser(argv)
	switch args.Subcommand() {
	case "", "list", "ls":
		return listCharacters(ctx, env, args)
	case "show":
		return showCharacter(ctx, env, args)
	case "create", "new":
		return createCharacter(ctx, env, args)
	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand(),
			Reason:  "unknown characters subcommand",
			Example: "companion characters list --gender 여성",
		}
	}
}

// =============================================================================
// LIST
// =============================================================================

// filterFromFlags builds a directory filter. Without flags every character
// is listed, unlike the full-screen directory which starts at 18 to 35.
func filterFromFlags(args *ArgParser) (directory.Filter, error) {
	f := directory.Filter{Gender: directory.GenderAll, MaxAge: config.MaxAge}

	switch g := strings.TrimSpace(args.Flag("gender")); g {
	case "", "all", "전체":
	default:
		f.Gender = g
	}

	var err error
	if f.MinAge, err = args.FlagInt("min-age", 0); err != nil {
		return f, err
	}
	if f.MaxAge, err = args.FlagInt("max-age", config.MaxAge); err != nil {
		return f, err
	}
	if f.MinAge < 0 || f.MaxAge > config.MaxAge || f.MinAge > f.MaxAge {
		return f, &ValidationError{
			Field:   "age range",
			Value:   fmt.Sprintf("%d~%d", f.MinAge, f.MaxAge),
			Reason:  fmt.Sprintf("must satisfy 0 <= min <= max <= %d", config.MaxAge),
			Example: "--min-age 20 --max-age 30",
		}
	}
	f.Keyword = strings.TrimSpace(args.FlagOrDefault("q", args.Flag("search")))
	return f, nil
}

func listCharacters(ctx context.Context, env *Env, args *ArgParser) error {
	return OutputJSON(env.Out, env.JSON, "characters", func() (interface{}, error) {
		f, err := filterFromFlags(args)
		if err != nil {
			return nil, err
		}
		dir := directory.New(f)
		if err := dir.Load(ctx, env.Client); err != nil {
			return nil, err
		}
		visible := dir.Visible()
		if env.JSON {
			return visible, nil
		}

		if len(visible) == 0 {
			if dir.Total() == 0 {
				fmt.Fprintln(env.Out, "아직 캐릭터가 없어요. companion characters create 로 만들어보세요")
			} else {
				fmt.Fprintln(env.Out, "조건에 맞는 캐릭터가 없어요")
			}
			return visible, nil
		}

		t := newTable("ID", "이름", "성별", "나이", "소개").limit(1, 16)
		for _, c := range visible {
			t.add(strconv.FormatInt(c.ID, 10), c.Name, c.Gender, c.AgeLabel(), util.FirstLine(c.Bio))
		}
		fmt.Fprint(env.Out, t.String())
		if !env.Quiet {
			fmt.Fprintln(env.Out, DimStyle.Render(fmt.Sprintf("%d / %d명 · %s", len(visible), dir.Total(), f.String())))
		}
		return visible, nil
	})
}

// =============================================================================
// SHOW
// =============================================================================

func showCharacter(ctx context.Context, env *Env, args *ArgParser) error {
	id, err := ParseID(args.Positional(1), "character-id")
	if err != nil {
		return err
	}
	return OutputJSON(env.Out, env.JSON, "characters show", func() (interface{}, error) {
		c, err := env.Client.GetCharacter(ctx, id)
		if err != nil {
			return nil, err
		}
		if env.JSON {
			return c, nil
		}
		fmt.Fprint(env.Out, directory.Preview(*c))
		if !env.Quiet {
			fmt.Fprintln(env.Out)
			fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("기본 이미지", 12), c.DefaultImage())
			for _, e := range model.Emotions {
				if ref := c.ImageByEmotion[e]; ref != "" {
					fmt.Fprintf(env.Out, "%s %s\n", RenderLabel(e.DisplayName(), 12), ref)
				}
			}
		}
		return c, nil
	})
}

// =============================================================================
// CREATE
// =============================================================================

// formFromFlags fills a creation form. Flags that are absent keep the form
// defaults; an empty --age omits the age.
func formFromFlags(args *ArgParser) (*creation.Form, error) {
	form := creation.NewForm()
	form.Name = args.Flag("name")
	form.Gender = args.FlagOrDefault("gender", form.Gender)
	form.Bio = args.Flag("bio")
	form.Description = args.Flag("description")
	form.Tone = args.FlagOrDefault("tone", form.Tone)
	form.HashtagsText = args.Flag("hashtags")
	form.BoundariesText = args.Flag("boundaries")

	if args.HasFlag("age") {
		age, err := args.FlagInt("age", 0)
		if err != nil {
			return nil, err
		}
		if age < 0 || age > config.MaxAge {
			return nil, NewValidationError("age", strconv.Itoa(age), fmt.Sprintf("must be between 0 and %d", config.MaxAge))
		}
		form.Age = age
	}

	for name, value := range args.Flags() {
		if !strings.HasPrefix(name, "image") {
			continue
		}
		slot, err := slotFromFlag(name, "image")
		if err != nil {
			return nil, err
		}
		form.SetSlotValue(slot, value)
	}
	return form, nil
}

// slotFromFlag maps "image" to the default slot and "image-happy" to the
// happy slot.
func slotFromFlag(name, prefix string) (creation.Slot, error) {
	rest := strings.TrimPrefix(name, prefix)
	if rest == "" {
		return creation.SlotDefault, nil
	}
	slot := creation.Slot(strings.TrimPrefix(rest, "-"))
	if !strings.HasPrefix(rest, "-") || !slot.IsValid() {
		return "", &ValidationError{
			Field:   "--" + name,
			Reason:  "unknown image slot",
			Example: "--" + prefix + "-happy FILE",
		}
	}
	return slot, nil
}

func createCharacter(ctx context.Context, env *Env, args *ArgParser) error {
	form, err := formFromFlags(args)
	if err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}

	return OutputJSON(env.Out, env.JSON, "characters create", func() (interface{}, error) {
		flags := args.Flags()
		for name := range flags {
			if strings.HasPrefix(name, "upload") {
				if _, err := slotFromFlag(name, "upload"); err != nil {
					return nil, err
				}
			}
		}

		// Uploads run in slot order so failures report deterministically.
		for _, slot := range creation.Slots() {
			name := "upload"
			if slot != creation.SlotDefault {
				name += "-" + string(slot)
			}
			path := flags[name]
			if path == "" {
				continue
			}
			if err := form.Upload(ctx, env.Client, slot, expandHome(path)); err != nil {
				return nil, fmt.Errorf("%s 이미지 업로드 실패: %w", slot.Label(), err)
			}
			if !env.JSON && !env.Quiet {
				fmt.Fprintf(env.Err, "%s 이미지 업로드 완료: %s\n", slot.Label(), form.Preview(slot))
			}
		}
		c, err := form.Submit(ctx, env.Client)
		if err != nil {
			return nil, err
		}
		if !env.JSON {
			fmt.Fprintf(env.Out, "%s 캐릭터를 만들었어요: #%d %s\n", SuccessStyle.Render("[OK]"), c.ID, c.Name)
		}
		return c, nil
	})
}
