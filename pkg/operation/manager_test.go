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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/csvrc/pkg/codec"
	"github.com/walteh/csvrc/pkg/dialect"
	"github.com/walteh/csvrc/pkg/fileop"
	"github.com/walteh/csvrc/pkg/table"
	"gitlab.com/tozd/go/errors"
)

const peopleCSV = "id,name,age\n1,John,30\n2,Jane,25"

// 🔧 MockOperations is a mock implementation of the fileop.Operations interface
type MockOperations struct {
	mock.Mock
}

func (m *MockOperations) Open(ctx context.Context, path string, mode fileop.Mode) (fileop.Handle, error) {
	result := m.Called(ctx, path, mode)
	h, _ := result.Get(0).(fileop.Handle)
	return h, result.Error(1)
}

func (m *MockOperations) Close(h fileop.Handle) error {
	return m.Called(h).Error(0)
}

// memHandle is an in-memory handle whose writes fail after okWrites calls
type memHandle struct {
	r        *strings.Reader
	w        bytes.Buffer
	okWrites int
	writes   int
	path     string
	mode     fileop.Mode
}

func (h *memHandle) Read(p []byte) (int, error) { return h.r.Read(p) }

func (h *memHandle) Write(p []byte) (int, error) {
	h.writes++
	if h.okWrites >= 0 && h.writes > h.okWrites {
		return 0, errors.New("no space left on device")
	}
	return h.w.Write(p)
}

func (h *memHandle) Path() string      { return h.path }
func (h *memHandle) Mode() fileop.Mode { return h.mode }

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readCSV(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func newManager(t *testing.T, ctx context.Context, path string, opts ...dialect.Option) *Manager {
	t.Helper()
	d, err := dialect.New(opts...)
	require.NoError(t, err)
	mgr, err := NewManager(ctx, fileop.NewCSVFile(path), d, fileop.OS{})
	require.NoError(t, err)
	return mgr
}

func TestManager_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		run     func(ctx context.Context, mgr *Manager) (bool, error)
		want    string
	}{
		{
			name:    "delete_column",
			initial: peopleCSV,
			run: func(ctx context.Context, mgr *Manager) (bool, error) {
				return mgr.DeleteColumn(ctx, []int{1})
			},
			want: "id,age\n1,30\n2,25\n",
		},
		{
			name:    "delete_line",
			initial: peopleCSV,
			run: func(ctx context.Context, mgr *Manager) (bool, error) {
				return mgr.DeleteLine(ctx, []int{1})
			},
			want: "id,name,age\n2,Jane,25\n",
		},
		{
			name:    "update_headers",
			initial: peopleCSV,
			run: func(ctx context.Context, mgr *Manager) (bool, error) {
				return mgr.UpdateHeaders(ctx, map[int]string{0: "ID gg", 1: "Full Name", 2: "Age"})
			},
			want: "ID gg,Full Name,Age\n1,John,30\n2,Jane,25\n",
		},
		{
			name:    "write_rows_to_empty_file",
			initial: "",
			run: func(ctx context.Context, mgr *Manager) (bool, error) {
				return mgr.Write(ctx, table.Fields{
					table.List(table.Int(1), table.String("John"), table.Int(30)),
					table.List(table.Int(2), table.String("Jane"), table.Int(25)),
				})
			},
			want: "1,John,30\n2,Jane,25\n",
		},
		{
			name:    "write_single_row_appends",
			initial: "id,name\n",
			run: func(ctx context.Context, mgr *Manager) (bool, error) {
				return mgr.Write(ctx, table.Fields{table.Int(3), table.String("Bob")})
			},
			want: "id,name\n3,Bob\n",
		},
		{
			name:    "overwrite_replaces_content",
			initial: peopleCSV,
			run: func(ctx context.Context, mgr *Manager) (bool, error) {
				return mgr.OverWrite(ctx, table.Fields{table.String("x"), table.Bool(true), table.Null()})
			},
			want: "x,true,\n",
		},
		{
			name:    "delete_missing_line_rewrites_unchanged",
			initial: peopleCSV,
			run: func(ctx context.Context, mgr *Manager) (bool, error) {
				return mgr.DeleteLine(ctx, []int{42})
			},
			want: peopleCSV + "\n",
		},
		{
			name:    "rename_only_existing_positions",
			initial: "a,b\n1,2\na,b\n",
			run: func(ctx context.Context, mgr *Manager) (bool, error) {
				return mgr.UpdateHeaders(ctx, map[int]string{1: "B", 5: "ignored"})
			},
			want: "a,B\n1,2\na,B\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			path := writeCSV(t, tt.initial)
			mgr := newManager(t, ctx, path)

			ok, err := tt.run(ctx, mgr)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, readCSV(t, path))
		})
	}
}

func TestManager_GetHeadersColumn(t *testing.T) {
	ctx := testContext(t)

	mgr := newManager(t, ctx, writeCSV(t, peopleCSV+"\n"))
	header, err := mgr.GetHeadersColumn(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "age"}, header.Values())

	empty := newManager(t, ctx, writeCSV(t, ""))
	_, err = empty.GetHeadersColumn(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyTable))
}

func TestManager_RoundTrip(t *testing.T) {
	ctx := testContext(t)
	path := writeCSV(t, "")
	mgr := newManager(t, ctx, path)

	fields := table.Fields{
		table.List(table.String("id"), table.String("price"), table.String("active")),
		table.List(table.Int(1), table.Float(9.99), table.Bool(true)),
		table.List(table.Int(2), table.Float(10), table.Bool(false)),
	}

	ok, err := mgr.OverWrite(ctx, fields)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := mgr.Read(ctx, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, table.Table{
		table.Strings("id", "price", "active"),
		table.Strings("1", "9.99", "true"),
		table.Strings("2", "10", "false"),
	}, got)

	again, err := mgr.Read(ctx, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, got, again, "reading twice returns the same table")
}

func TestManager_ReadIgnoresLineAndAssociations(t *testing.T) {
	ctx := testContext(t)
	mgr := newManager(t, ctx, writeCSV(t, peopleCSV), dialect.WithAssociations(map[int]string{1: "name"}))

	line := 1
	got, err := mgr.Read(ctx, 0, &line)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, table.Strings("id", "name", "age"), got[0])
}

func TestManager_GetColumns(t *testing.T) {
	ctx := testContext(t)

	t.Run("projection_width", func(t *testing.T) {
		mgr := newManager(t, ctx, writeCSV(t, peopleCSV))
		got, err := mgr.GetColumns(ctx, []int{2, 0})
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, row := range got {
			assert.Len(t, row, 2)
		}
		assert.Equal(t, []string{"30", "1"}, got[1].Values())
	})

	t.Run("associations_rename", func(t *testing.T) {
		mgr := newManager(t, ctx, writeCSV(t, peopleCSV), dialect.WithAssociations(map[int]string{0: "first"}))
		got, err := mgr.GetColumns(ctx, []int{1, 2})
		require.NoError(t, err)

		v, ok := got[1].Lookup("first")
		require.True(t, ok, "projected position 0 is renamed")
		assert.Equal(t, "John", v)
	})

	t.Run("out_of_range", func(t *testing.T) {
		mgr := newManager(t, ctx, writeCSV(t, peopleCSV))
		_, err := mgr.GetColumns(ctx, []int{7})
		require.Error(t, err)
		assert.True(t, errors.Is(err, codec.ErrFieldIndexOutOfRange))
	})

	t.Run("empty_selection", func(t *testing.T) {
		mgr := newManager(t, ctx, writeCSV(t, peopleCSV))
		got, err := mgr.GetColumns(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestManager_GetLines(t *testing.T) {
	ctx := testContext(t)
	content := "id,name,age\n1,John,30\n2,Jane,25\n3,Bob,40\n"

	tests := []struct {
		name  string
		lines []int
		opts  []dialect.Option
		want  []table.Entry
	}{
		{
			name:  "contiguous_from_zero",
			lines: []int{0, 1},
			want: []table.Entry{
				{Line: 0, Row: table.Strings("id", "name", "age")},
				{Line: 1, Row: table.Strings("1", "John", "30")},
			},
		},
		{
			name:  "sparse",
			lines: []int{3, 1},
			want: []table.Entry{
				{Line: 1, Row: table.Strings("1", "John", "30")},
				{Line: 3, Row: table.Strings("3", "Bob", "40")},
			},
		},
		{
			name:  "missing_line",
			lines: []int{2, 99},
			want: []table.Entry{
				{Line: 2, Row: table.Strings("2", "Jane", "25")},
			},
		},
		{
			name:  "skip_first_line_shifts_counter",
			lines: []int{0},
			opts:  []dialect.Option{dialect.WithSkipFirstLine(true)},
			want: []table.Entry{
				{Line: 0, Row: table.Strings("1", "John", "30")},
			},
		},
		{
			name:  "associations",
			lines: []int{2},
			opts:  []dialect.Option{dialect.WithAssociations(map[int]string{1: "name"})},
			want: []table.Entry{
				{Line: 2, Row: table.Row{
					{Key: table.At(0), Value: "2"},
					{Key: table.At(2), Value: "25"},
					{Key: table.Named("name"), Value: "Jane"},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := newManager(t, ctx, writeCSV(t, content), tt.opts...)
			got, err := mgr.GetLines(ctx, tt.lines)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManager_DeleteColumnShape(t *testing.T) {
	ctx := testContext(t)
	path := writeCSV(t, "a,b,c,d\n1,2,3,4\n5,6,7,8\n")
	mgr := newManager(t, ctx, path)

	ok, err := mgr.DeleteColumn(ctx, []int{2})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := mgr.Read(ctx, 0, nil)
	require.NoError(t, err)
	for _, row := range got {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, []string{"a", "b", "d"}, got[0].Values())
	assert.Equal(t, []string{"5", "6", "8"}, got[2].Values())
}

func TestManager_EmptyInputsDoNoIO(t *testing.T) {
	ctx := testContext(t)
	path := writeCSV(t, peopleCSV)

	ops := &MockOperations{}
	mgr, err := NewManager(ctx, fileop.NewCSVFile(path), nil, ops)
	require.NoError(t, err)

	ok, err := mgr.DeleteColumn(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = mgr.DeleteLine(ctx, []int{})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = mgr.UpdateHeaders(ctx, map[int]string{})
	require.NoError(t, err)
	assert.False(t, ok)

	lines, err := mgr.GetLines(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, lines)

	assert.Empty(t, ops.Calls, "no handle should be opened")
	assert.Equal(t, peopleCSV, readCSV(t, path))
}

func TestManager_EmptyTableIsNotRewritten(t *testing.T) {
	ctx := testContext(t)
	path := writeCSV(t, "")

	ops := &MockOperations{}
	h := &memHandle{r: strings.NewReader(""), okWrites: -1, path: path, mode: fileop.ModeReadBinary}
	ops.On("Open", mock.Anything, path, fileop.ModeReadBinary).Return(h, nil).Once()
	ops.On("Close", h).Return(nil).Once()

	mgr, err := NewManager(ctx, fileop.NewCSVFile(path), nil, ops)
	require.NoError(t, err)

	ok, err := mgr.DeleteColumn(ctx, []int{0})
	require.NoError(t, err)
	assert.False(t, ok)

	ops.AssertExpectations(t)
	ops.AssertNotCalled(t, "Open", mock.Anything, path, fileop.ModeWrite)
}

func TestManager_WriteFailureIsReported(t *testing.T) {
	ctx := testContext(t)
	path := writeCSV(t, "")

	ops := &MockOperations{}
	h := &memHandle{r: strings.NewReader(""), okWrites: 1, path: path, mode: fileop.ModeAppend}
	ops.On("Open", mock.Anything, path, fileop.ModeAppend).Return(h, nil).Once()
	ops.On("Close", h).Return(nil).Once()

	mgr, err := NewManager(ctx, fileop.NewCSVFile(path), nil, ops)
	require.NoError(t, err)

	ok, err := mgr.Write(ctx, table.Fields{
		table.List(table.String("a")),
		table.List(table.String("b")),
		table.List(table.String("c")),
	})
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, codec.ErrWriteFailure))
	assert.Equal(t, "a\n", h.w.String(), "rows before the failure stay written")

	ops.AssertExpectations(t)
}

func TestManager_CloseFailureIsReported(t *testing.T) {
	ctx := testContext(t)
	path := writeCSV(t, "")

	ops := &MockOperations{}
	h := &memHandle{r: strings.NewReader("a,b\n"), okWrites: -1, path: path, mode: fileop.ModeReadBinary}
	ops.On("Open", mock.Anything, path, fileop.ModeReadBinary).Return(h, nil).Once()
	ops.On("Close", h).Return(fileop.ErrNotAResource).Once()

	mgr, err := NewManager(ctx, fileop.NewCSVFile(path), nil, ops)
	require.NoError(t, err)

	_, err = mgr.Read(ctx, 0, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fileop.ErrNotAResource))
	ops.AssertExpectations(t)
}

func TestManager_OpenFailureIsReported(t *testing.T) {
	ctx := testContext(t)
	path := writeCSV(t, peopleCSV)

	ops := &MockOperations{}
	ops.On("Open", mock.Anything, path, fileop.ModeReadBinary).Return(nil, fileop.ErrFileError).Once()

	mgr, err := NewManager(ctx, fileop.NewCSVFile(path), nil, ops)
	require.NoError(t, err)

	_, err = mgr.GetHeadersColumn(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fileop.ErrFileError))
	ops.AssertNotCalled(t, "Close", mock.Anything)
}

func TestManager_CancelledContext(t *testing.T) {
	path := writeCSV(t, peopleCSV)
	ops := &MockOperations{}

	mgr, err := NewManager(context.Background(), fileop.NewCSVFile(path), nil, ops)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err = mgr.Read(ctx, 0, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, ops.Calls)
}

func TestNewManager_ChecksFile(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing", path: filepath.Join(dir, "missing.csv"), wantErr: fileop.ErrFileNotFound},
		{name: "wrong_extension", path: txt, wantErr: fileop.ErrUnsupportedExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(ctx, fileop.NewCSVFile(tt.path), nil, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	t.Run("plain_file_source", func(t *testing.T) {
		mgr, err := NewManager(ctx, fileop.NewFile(txt), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, txt, mgr.Path())
		assert.NotNil(t, mgr.Dialect())
	})
}
