// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fileop

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Flush truncates path to zero bytes
func Flush(ctx context.Context, ops Operations, path string) error {
	h, err := ops.Open(ctx, path, ModeWrite)
	if err != nil {
		return errors.Errorf("flushing %s: %w", path, err)
	}
	return ops.Close(h)
}

// Create makes an empty file at path if none exists. It reports whether a file was created.
func Create(ctx context.Context, ops Operations, path string) (bool, error) {
	ok, err := Exists(path)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}

	h, err := ops.Open(ctx, path, ModeCreate)
	if err != nil {
		return false, errors.Errorf("creating %s: %w", path, err)
	}
	if err := ops.Close(h); err != nil {
		return false, err
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("created file")
	return true, nil
}

// Delete removes the file at path
func Delete(ctx context.Context, path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return pathError("delete", path, err, ErrFileError)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("deleted file")
	return nil
}

// Copy copies src to dst through ops, replacing dst
func Copy(ctx context.Context, ops Operations, src, dst string) (err error) {
	in, err := ops.Open(ctx, src, ModeRead)
	if err != nil {
		return errors.Errorf("copying %s: %w", src, err)
	}
	defer func() {
		if cerr := ops.Close(in); cerr != nil && err == nil {
			err = cerr
		}
	}()

	out, err := ops.Open(ctx, dst, ModeWrite)
	if err != nil {
		return errors.Errorf("copying to %s: %w", dst, err)
	}
	defer func() {
		if cerr := ops.Close(out); cerr != nil && err == nil {
			err = cerr
		}
	}()

	n, err := io.Copy(out, in)
	if err != nil {
		return errors.Errorf("copying %s to %s: %w", src, dst, err)
	}

	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Int64("bytes", n).Msg("copied file")
	return nil
}

// Move renames src to dst, creating dst's parent directory when needed
func Move(ctx context.Context, src, dst string) error {
	if err := ValidatePath(dst); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return pathError("move", dst, err, ErrFileError)
	}
	return Rename(ctx, src, dst)
}

// Rename renames src to dst in place
func Rename(ctx context.Context, src, dst string) error {
	if err := ValidatePath(src); err != nil {
		return err
	}
	if err := ValidatePath(dst); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return pathError("rename", src, err, ErrFileError)
	}
	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Msg("renamed file")
	return nil
}
