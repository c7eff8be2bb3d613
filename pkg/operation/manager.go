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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/csvrc/pkg/codec"
	"github.com/walteh/csvrc/pkg/dialect"
	"github.com/walteh/csvrc/pkg/fileop"
	"github.com/walteh/csvrc/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// ErrEmptyTable is returned when a header is requested from a file with no rows
var ErrEmptyTable = errors.Base("empty table")

// 📄 Source is the file a Manager works on
type Source interface {
	Path() string
	Check() error
}

// 🎯 Manager reads, writes and reshapes one delimited file.
//
// Every call opens the file once, runs its pass and closes it again; nothing
// is cached between calls. Structural edits read the whole table, build a new
// one and overwrite the file with it.
type Manager struct {
	file    Source
	dialect *dialect.Dialect
	ops     fileop.Operations
}

// 🏭 NewManager checks file eagerly and returns a Manager for it.
// A nil dialect means dialect.Default and nil ops means fileop.OS.
func NewManager(ctx context.Context, file Source, d *dialect.Dialect, ops fileop.Operations) (*Manager, error) {
	if file == nil {
		return nil, errors.Errorf("file is required")
	}
	if err := file.Check(); err != nil {
		return nil, errors.Errorf("checking %s: %w", file.Path(), err)
	}
	if d == nil {
		d = dialect.Default()
	}
	if ops == nil {
		ops = fileop.OS{}
	}

	zerolog.Ctx(ctx).Debug().Str("path", file.Path()).Str("dialect", d.String()).Msg("created csv manager")

	return &Manager{file: file, dialect: d, ops: ops}, nil
}

// Path returns the managed file path
func (m *Manager) Path() string {
	return m.file.Path()
}

// Dialect returns the dialect the manager decodes and encodes with
func (m *Manager) Dialect() *dialect.Dialect {
	return m.dialect
}

// withHandle opens the file, runs fn and always closes the handle. A close
// failure is returned only when fn succeeded.
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

func (m *Manager) decode(ctx context.Context, opts codec.DecodeOptions) ([]table.Entry, error) {
	var entries []table.Entry
	err := m.withHandle(ctx, fileop.ModeReadBinary, func(h fileop.Handle) error {
		var err error
		entries, err = codec.NewDecoder(h, m.dialect).Decode(ctx, opts)
		return err
	})
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", m.file.Path(), err)
	}
	return entries, nil
}

func (m *Manager) encode(ctx context.Context, mode fileop.Mode, fields table.Fields) (bool, error) {
	rows := fields.Rows()
	written := 0
	err := m.withHandle(ctx, mode, func(h fileop.Handle) error {
		var err error
		written, err = codec.NewEncoder(h, m.dialect).Encode(rows)
		return err
	})

	zerolog.Ctx(ctx).Debug().
		Str("path", m.file.Path()).
		Str("mode", string(mode)).
		Int("rows", len(rows)).
		Int("written", written).
		Msg("encoded rows")

	if err != nil {
		return false, errors.Errorf("writing %s: %w", m.file.Path(), err)
	}
	return true, nil
}

// ✍️ Write appends fields to the file. Fields may be one row or a list of rows.
// A failed row leaves the rows before it in the file.
func (m *Manager) Write(ctx context.Context, fields table.Fields) (bool, error) {
	return m.encode(ctx, fileop.ModeAppend, fields)
}

// OverWrite replaces the file content with fields
func (m *Manager) OverWrite(ctx context.Context, fields table.Fields) (bool, error) {
	return m.encode(ctx, fileop.ModeWrite, fields)
}

// 📖 Read decodes the whole file without association renames. length caps
// the bytes read per record, 0 for no cap. line is accepted for callers that
// pass it but has no effect.
func (m *Manager) Read(ctx context.Context, length int, line *int) (table.Table, error) {
	if line != nil {
		zerolog.Ctx(ctx).Debug().Int("line", *line).Msg("line selection is not applied to read")
	}

	entries, err := m.decode(ctx, codec.DecodeOptions{LengthLimit: length})
	if err != nil {
		return nil, err
	}
	return table.Rows(entries), nil
}

// 🔁 Apply reads the table, runs t over it and overwrites the file with the
// result. An empty file is left alone and reported as false.
func (m *Manager) Apply(ctx context.Context, t Transform) (bool, error) {
	current, err := m.Read(ctx, 0, nil)
	if err != nil {
		return false, err
	}
	if len(current) == 0 {
		zerolog.Ctx(ctx).Debug().Str("path", m.file.Path()).Msg("table is empty, nothing to rewrite")
		return false, nil
	}

	next := t(current)

	return m.OverWrite(ctx, table.FromTable(next))
}

// DeleteColumn removes the given positions from every row
func (m *Manager) DeleteColumn(ctx context.Context, columns []int) (bool, error) {
	if len(columns) == 0 {
		return false, nil
	}
	return m.Apply(ctx, DeleteColumns(columns...))
}

// DeleteLine removes the rows at the given positions. Missing positions are ignored.
func (m *Manager) DeleteLine(ctx context.Context, lines []int) (bool, error) {
	if len(lines) == 0 {
		return false, nil
	}
	return m.Apply(ctx, DeleteLines(lines...))
}

// UpdateHeaders renames header cells by position
func (m *Manager) UpdateHeaders(ctx context.Context, headers map[int]string) (bool, error) {
	if len(headers) == 0 {
		return false, nil
	}
	return m.Apply(ctx, RenameHeaders(headers))
}

// GetHeadersColumn returns the first row
func (m *Manager) GetHeadersColumn(ctx context.Context) (table.Row, error) {
	tbl, err := m.Read(ctx, 0, nil)
	if err != nil {
		return nil, err
	}
	if len(tbl) == 0 {
		return nil, errors.Errorf("reading headers of %s: %w", m.file.Path(), ErrEmptyTable)
	}
	return tbl[0], nil
}

// 🔍 GetColumns projects every row onto columns, renaming through the
// dialect associations
func (m *Manager) GetColumns(ctx context.Context, columns []int) (table.Table, error) {
	if len(columns) == 0 {
		return table.Table{}, nil
	}

	entries, err := m.decode(ctx, codec.DecodeOptions{Columns: columns, ApplyAssociations: true})
	if err != nil {
		return nil, err
	}
	return table.Rows(entries), nil
}

// 🔍 GetLines returns the requested rows keyed by their decoder counter,
// renamed through the dialect associations. Decoding stops once every
// requested row was seen.
func (m *Manager) GetLines(ctx context.Context, lines []int) ([]table.Entry, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	entries, err := m.decode(ctx, codec.DecodeOptions{Lines: lines, ApplyAssociations: true})
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]struct{}, len(lines))
	for _, l := range lines {
		wanted[l] = struct{}{}
	}

	out := make([]table.Entry, 0, len(wanted))
	for _, e := range entries {
		if _, ok := wanted[e.Line]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
