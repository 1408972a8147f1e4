// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package creation

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/companion-tui/internal/api"
	"github.com/jeranaias/companion-tui/internal/logging"
	"github.com/jeranaias/companion-tui/internal/model"
)

// Slot names an image field: the default image or one emotion.
type Slot string

// SlotDefault is the character's default image.
const SlotDefault Slot = "default"

// EmotionSlot returns the slot for emotion e.
func EmotionSlot(e model.Emotion) Slot {
	return Slot(e)
}

// Slots lists every image slot in display order.
func Slots() []Slot {
	out := []Slot{SlotDefault}
	for _, e := range model.Emotions {
		out = append(out, EmotionSlot(e))
	}
	return out
}

// Label returns the Korean label for the slot.
func (s Slot) Label() string {
	if s == SlotDefault {
		return "기본"
	}
	return model.Emotion(s).DisplayName()
}

// IsValid reports whether s is a known slot.
func (s Slot) IsValid() bool {
	return s == SlotDefault || model.Emotion(s).IsKnown()
}

// Uploader is the part of the API client uploads need.
type Uploader interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (*api.UploadResult, error)
}

// File describes a local file chosen for upload.
type File struct {
	Name string
	Size int64
}

// uploadState tracks uploads per slot. Uploads to different slots proceed
// independently; a second upload to the same slot is not blocked and the
// last completion wins.
type uploadState struct {
	pending  map[Slot]bool
	previews map[Slot]string
	errs     map[Slot]error
}

func newUploadState() uploadState {
	return uploadState{
		pending:  make(map[Slot]bool),
		previews: make(map[Slot]string),
		errs:     make(map[Slot]error),
	}
}

// BeginUpload marks slot as uploading and clears its previous error.
func (f *Form) BeginUpload(slot Slot) error {
	if !slot.IsValid() {
		return fmt.Errorf("unknown image slot %q", slot)
	}
	f.uploads.pending[slot] = true
	delete(f.uploads.errs, slot)
	return nil
}

// CompleteUpload applies an upload result. On success the returned url fills
// the slot and a preview is recorded; on failure the error is kept for the
// slot and the typed value is left alone so manual entry still works.
func (f *Form) CompleteUpload(slot Slot, file File, res *api.UploadResult, err error) {
	delete(f.uploads.pending, slot)

	log := logging.L().WithFields(logrus.Fields{"slot": slot, "file": file.Name})
	if err == nil && res == nil {
		err = &api.Error{Kind: api.KindDecode, Message: api.MsgUploadImage}
	}
	if err != nil {
		log.WithError(err).Warn("image upload failed")
		f.uploads.errs[slot] = err
		return
	}

	f.slots[slot] = res.URL
	name := res.Filename
	if name == "" {
		name = filepath.Base(file.Name)
	}
	f.uploads.previews[slot] = PreviewText(name, file.Size)
	delete(f.uploads.errs, slot)
	log.WithField("url", res.URL).Info("image uploaded")
}

// Upload reads path and uploads it into slot, running Begin and Complete
// around the call.
func (f *Form) Upload(ctx context.Context, u Uploader, slot Slot, path string) error {
	if err := f.BeginUpload(slot); err != nil {
		return err
	}

	file := File{Name: filepath.Base(path)}
	fh, err := os.Open(path)
	if err != nil {
		f.CompleteUpload(slot, file, nil, err)
		return err
	}
	defer fh.Close()
	if info, err := fh.Stat(); err == nil {
		file.Size = info.Size()
	}

	res, err := u.UploadImage(ctx, path, fh)
	f.CompleteUpload(slot, file, res, err)
	return err
}

// IsUploading reports whether slot has an upload in flight.
func (f *Form) IsUploading(slot Slot) bool {
	return f.uploads.pending[slot]
}

// Uploading returns the slots with uploads in flight, in display order.
func (f *Form) Uploading() []Slot {
	var out []Slot
	for _, s := range Slots() {
		if f.uploads.pending[s] {
			out = append(out, s)
		}
	}
	return out
}

// UploadError returns the last upload error for slot.
func (f *Form) UploadError(slot Slot) error {
	return f.uploads.errs[slot]
}

// Preview returns the preview text for slot's last successful upload.
func (f *Form) Preview(slot Slot) string {
	return f.uploads.previews[slot]
}

// PreviewText formats "name (size)" with a human-readable size.
func PreviewText(name string, size int64) string {
	if size <= 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, humanize.Bytes(uint64(size)))
}
