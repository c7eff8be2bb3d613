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

// Package fileop opens, closes and inspects the files the csv manager works on.
package fileop

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrFileNotFound         = errors.Base("file not found")
	ErrFileError            = errors.Base("file error")
	ErrUnsupportedExtension = errors.Base("unsupported extension")
	ErrNotAResource         = errors.Base("not a resource")
	ErrNotReadable          = errors.Base("file not readable")
	ErrNotWritable          = errors.Base("file not writable")
)

// PathError records the path and operation that failed. It matches every
// sentinel in Kinds as well as the underlying cause.
type PathError struct {
	Op    string
	Path  string
	Kinds []error
	Err   error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kinds[0])
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kinds[0], e.Err)
}

func (e *PathError) Unwrap() []error {
	out := make([]error, 0, len(e.Kinds)+1)
	out = append(out, e.Kinds...)
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func pathError(op, path string, err error, kinds ...error) error {
	if os.IsNotExist(err) {
		kinds = append(kinds, ErrFileNotFound)
	}
	return &PathError{Op: op, Path: path, Kinds: kinds, Err: err}
}

// 📂 Handle is an open file
type Handle interface {
	io.ReadWriter
	Path() string
	Mode() Mode
}

// 🔌 Operations opens and closes handles
type Operations interface {
	Open(ctx context.Context, path string, mode Mode) (Handle, error)
	Close(h Handle) error
}

// OS opens handles on the local filesystem
type OS struct{}

var _ Operations = OS{}

type osHandle struct {
	file *os.File
	path string
	mode Mode

	mu     sync.Mutex
	closed bool
}

func (h *osHandle) Read(p []byte) (int, error)  { return h.file.Read(p) }
func (h *osHandle) Write(p []byte) (int, error) { return h.file.Write(p) }
func (h *osHandle) Path() string                { return h.path }
func (h *osHandle) Mode() Mode                  { return h.mode }

// ValidatePath rejects paths that can never be opened
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &PathError{Op: "validate", Path: path, Kinds: []error{ErrFileError}, Err: errors.New("empty path")}
	}
	if strings.ContainsRune(path, 0) {
		return &PathError{Op: "validate", Path: path, Kinds: []error{ErrFileError}, Err: errors.New("path contains NUL byte")}
	}
	return nil
}

// Open opens path with the given mode
func (OS) Open(ctx context.Context, path string, mode Mode) (Handle, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	if !mode.Valid() {
		return nil, &PathError{Op: "open", Path: path, Kinds: []error{ErrFileError}, Err: errors.Errorf("unknown mode %q", mode)}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}

	f, err := os.OpenFile(path, mode.flags(), 0o644)
	if err != nil {
		return nil, pathError("open", path, err, ErrFileError)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("mode", string(mode)).Msg("opened file")

	return &osHandle{file: f, path: path, mode: mode}, nil
}

// Close releases h. Handles not produced by OS, or already closed, are rejected.
func (OS) Close(h Handle) error {
	oh, ok := h.(*osHandle)
	if !ok || oh == nil {
		return errors.Errorf("%w: %T", ErrNotAResource, h)
	}

	oh.mu.Lock()
	defer oh.mu.Unlock()

	if oh.closed {
		return errors.Errorf("%w: %s already closed", ErrNotAResource, oh.path)
	}
	oh.closed = true

	if err := oh.file.Close(); err != nil {
		return pathError("close", oh.path, err, ErrFileError)
	}
	return nil
}
