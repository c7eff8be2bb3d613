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

package text

import (
	"bufio"
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/csvrc/pkg/fileop"
	"gitlab.com/tozd/go/errors"
)

// ErrCantRead is returned when a file could not be read to the end
var ErrCantRead = errors.Base("cant read file")

// 📄 Source is the file a Manager works on
type Source interface {
	Path() string
	Check() error
}

// 📝 Manager reads and writes one plain-text file line by line
type Manager struct {
	file     Source
	settings Settings
	ops      fileop.Operations
}

// 🏭 NewManager checks file eagerly and returns a Manager for it. A nil ops
// means fileop.OS.
func NewManager(ctx context.Context, file Source, settings Settings, ops fileop.Operations) (*Manager, error) {
	if file == nil {
		return nil, errors.Errorf("file is required")
	}
	if err := file.Check(); err != nil {
		return nil, errors.Errorf("checking %s: %w", file.Path(), err)
	}
	if ops == nil {
		ops = fileop.OS{}
	}

	zerolog.Ctx(ctx).Debug().Str("path", file.Path()).Bool("skip_empty_lines", settings.SkipEmptyLines).Msg("created text manager")

	return &Manager{file: file, settings: settings, ops: ops}, nil
}

// Path returns the managed file path
func (m *Manager) Path() string {
	return m.file.Path()
}

func (m *Manager) withHandle(ctx context.Context, mode fileop.Mode, fn func(h fileop.Handle) error) (err error) {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("before opening %s: %w", m.file.Path(), err)
	}

	h, err := m.ops.Open(ctx, m.file.Path(), mode)
	if err != nil {
		return errors.Errorf("opening %s: %w", m.file.Path(), err)
	}
	defer func() {
		if cerr := m.ops.Close(h); cerr != nil && err == nil {
			err = errors.Errorf("closing %s: %w", m.file.Path(), cerr)
		}
	}()

	return fn(h)
}

// readChunk returns the next line including its "\n", cut after length
// bytes when length is positive. io.EOF means nothing was left.
func readChunk(br *bufio.Reader, length int) (string, error) {
	var buf []byte
	for length <= 0 || len(buf) < length {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return string(buf), err
		}
		buf = append(buf, b)
		if b == '\n' {
			break
		}
	}
	return string(buf), nil
}

// 📖 ReadLines returns the file as lines, each keeping its trailing "\n".
// A positive length caps every returned chunk, so longer lines come back in
// pieces. A positive limit stops after that many lines. Any read failure
// other than reaching the end of the file is ErrCantRead.
func (m *Manager) ReadLines(ctx context.Context, length, limit int) ([]string, error) {
	var lines []string
	err := m.withHandle(ctx, fileop.ModeReadBinary, func(h fileop.Handle) error {
		br := bufio.NewReader(h)
		for {
			line, err := readChunk(br, length)
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return errors.Errorf("%w: %v", ErrCantRead, err)
			}
			if m.settings.SkipEmptyLines && line == "\n" {
				continue
			}
			lines = append(lines, line)
			if limit > 0 && len(lines) == limit {
				zerolog.Ctx(ctx).Debug().Int("limit", limit).Msg("stopped reading at limit")
				return nil
			}
		}
	})
	if err != nil {
		return nil, errors.Errorf("reading lines of %s: %w", m.file.Path(), err)
	}
	return lines, nil
}

// 📖 ReadString returns the file content starting at byte offset. A positive
// length keeps at most that many bytes. An offset past the end gives "".
func (m *Manager) ReadString(ctx context.Context, offset, length int) (string, error) {
	var content []byte
	err := m.withHandle(ctx, fileop.ModeReadBinary, func(h fileop.Handle) error {
		var err error
		content, err = io.ReadAll(h)
		if err != nil {
			return errors.Errorf("%w: %v", ErrCantRead, err)
		}
		return nil
	})
	if err != nil {
		return "", errors.Errorf("reading %s: %w", m.file.Path(), err)
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(content) {
		return "", nil
	}
	content = content[offset:]
	if length > 0 && length < len(content) {
		content = content[:length]
	}
	return string(content), nil
}

func (m *Manager) write(ctx context.Context, mode fileop.Mode, data string) (bool, error) {
	err := m.withHandle(ctx, mode, func(h fileop.Handle) error {
		if _, err := io.WriteString(h, data); err != nil {
			return errors.Errorf("writing: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, errors.Errorf("writing %s: %w", m.file.Path(), err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", m.file.Path()).Str("mode", string(mode)).Int("bytes", len(data)).Msg("wrote text")
	return true, nil
}

// ✏️ Write appends data to the end of the file
func (m *Manager) Write(ctx context.Context, data string) (bool, error) {
	return m.write(ctx, fileop.ModeAppend, data)
}

// ✏️ OverWrite replaces the file content with data
func (m *Manager) OverWrite(ctx context.Context, data string) (bool, error) {
	return m.write(ctx, fileop.ModeWrite, data)
}

// ⏮️ Prepend writes data in front of the current content
func (m *Manager) Prepend(ctx context.Context, data string) (bool, error) {
	current, err := m.ReadString(ctx, 0, 0)
	if err != nil {
		return false, err
	}
	return m.OverWrite(ctx, data+current)
}

// WriteValue appends v serialized with Settings.TextToString
func (m *Manager) WriteValue(ctx context.Context, v any) (bool, error) {
	data, err := m.settings.TextToString(v)
	if err != nil {
		return false, err
	}
	return m.Write(ctx, data)
}

// OverWriteValue replaces the file content with v serialized with Settings.TextToString
func (m *Manager) OverWriteValue(ctx context.Context, v any) (bool, error) {
	data, err := m.settings.TextToString(v)
	if err != nil {
		return false, err
	}
	return m.OverWrite(ctx, data)
}

// PrependValue writes v serialized with Settings.TextToString in front of the current content
func (m *Manager) PrependValue(ctx context.Context, v any) (bool, error) {
	data, err := m.settings.TextToString(v)
	if err != nil {
		return false, err
	}
	return m.Prepend(ctx, data)
}
