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

package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/csvrc/pkg/table"
	"gitlab.com/tozd/go/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		wantError string
		check     func(t *testing.T, d *Dialect)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, d *Dialect) {
				assert.Equal(t, byte(','), d.Separator())
				assert.Equal(t, byte('"'), d.Enclosure())
				assert.Equal(t, byte('\\'), d.Escape())
				assert.Equal(t, "UTF-8", d.Encoding())
				assert.False(t, d.SkipFirstLine())
				assert.False(t, d.UseHeaderAssociation())
				assert.False(t, d.HasAssociations())
			},
		},
		{
			name: "custom",
			opts: []Option{
				WithSeparator(";"),
				WithEnclosure("'"),
				WithoutEscape(),
				WithSkipFirstLine(true),
				WithHeaderAssociation(true),
				WithEncoding("ISO-8859-1"),
				WithAssociations(map[int]string{1: "name"}),
			},
			check: func(t *testing.T, d *Dialect) {
				assert.Equal(t, byte(';'), d.Separator())
				assert.Equal(t, byte('\''), d.Enclosure())
				assert.Equal(t, byte(0), d.Escape())
				assert.True(t, d.SkipFirstLine())
				assert.True(t, d.UseHeaderAssociation())
				assert.Equal(t, "ISO-8859-1", d.Encoding())
				assert.Equal(t, map[int]string{1: "name"}, d.Associations())
			},
		},
		{
			name:      "multi_char_separator",
			opts:      []Option{WithSeparator("::")},
			wantError: "separator must be a single character",
		},
		{
			name:      "empty_enclosure",
			opts:      []Option{WithEnclosure("")},
			wantError: "enclosure must be a single character",
		},
		{
			name:      "separator_equals_enclosure",
			opts:      []Option{WithSeparator(`"`)},
			wantError: "separator and enclosure",
		},
		{
			name:      "negative_association",
			opts:      []Option{WithAssociations(map[int]string{-1: "x"})},
			wantError: "is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.opts...)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDialect))
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			tt.check(t, d)
		})
	}
}

func TestDialect_SetAssociationsReplacesTable(t *testing.T) {
	d := Default()

	input := map[int]string{0: "id", 2: "age"}
	got, err := d.SetAssociations(input)
	require.NoError(t, err)
	assert.Same(t, d, got)

	input[5] = "mutated"
	assert.Equal(t, map[int]string{0: "id", 2: "age"}, d.Associations())

	_, err = d.SetAssociations(map[int]string{1: "name"})
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "name"}, d.Associations())

	_, err = d.SetAssociations(map[int]string{-3: "bad"})
	require.Error(t, err)
	assert.Equal(t, map[int]string{1: "name"}, d.Associations())
}

func TestDialect_FormatLine(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		fields []table.Field
		want   string
	}{
		{
			name:   "mixed_scalars",
			fields: []table.Field{table.Int(1), table.String("John"), table.Float(30.5), table.Bool(true), table.Bool(false), table.Null()},
			want:   "1,John,30.5,true,false,",
		},
		{
			name:   "quotes_are_doubled_not_enclosed",
			fields: []table.Field{table.String(`say "hi"`), table.String("x")},
			want:   `say ""hi"",x`,
		},
		{
			name:   "separator_inside_value_is_not_protected",
			fields: []table.Field{table.String("a,b"), table.String("c")},
			want:   "a,b,c",
		},
		{
			name:   "nested_list_is_flattened",
			fields: []table.Field{table.String("x"), table.List(table.String("a"), table.Int(2), table.Bool(false))},
			want:   "x,a,2,false",
		},
		{
			name:   "custom_separator",
			opts:   []Option{WithSeparator(";")},
			fields: []table.Field{table.String("a"), table.List(table.String("b"), table.String("c"))},
			want:   "a;b;c",
		},
		{
			name:   "empty_row",
			fields: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.FormatLine(tt.fields))
		})
	}
}

func TestDialect_ReplaceAssociations(t *testing.T) {
	t.Run("empty_table_is_noop", func(t *testing.T) {
		row := table.Strings("1", "John", "30")
		assert.Equal(t, row, Default().ReplaceAssociations(row))
	})

	t.Run("renamed_cells_move_to_end", func(t *testing.T) {
		d, err := New(WithAssociations(map[int]string{1: "name", 7: "missing"}))
		require.NoError(t, err)

		got := d.ReplaceAssociations(table.Strings("1", "John", "30"))
		want := table.Row{
			{Key: table.At(0), Value: "1"},
			{Key: table.At(2), Value: "30"},
			{Key: table.Named("name"), Value: "John"},
		}
		assert.Equal(t, want, got)
	})

	t.Run("named_cells_are_left_alone", func(t *testing.T) {
		d, err := New(WithAssociations(map[int]string{0: "id"}))
		require.NoError(t, err)

		row := table.Row{{Key: table.Named("x"), Value: "v"}}
		assert.Equal(t, row, d.ReplaceAssociations(row))
	})
}
