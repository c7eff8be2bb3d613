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

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Scalar(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
		kind  Kind
	}{
		{name: "zero_value", field: Field{}, want: "", kind: KindNull},
		{name: "null", field: Null(), want: "", kind: KindNull},
		{name: "string", field: String("John"), want: "John", kind: KindString},
		{name: "int", field: Int(30), want: "30", kind: KindInt},
		{name: "negative_int", field: Int(-7), want: "-7", kind: KindInt},
		{name: "float", field: Float(2.5), want: "2.5", kind: KindFloat},
		{name: "whole_float", field: Float(30), want: "30", kind: KindFloat},
		{name: "true", field: Bool(true), want: "true", kind: KindBool},
		{name: "false", field: Bool(false), want: "false", kind: KindBool},
		{name: "list", field: List(String("a")), want: "", kind: KindList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Scalar())
			assert.Equal(t, tt.kind, tt.field.Kind())
		})
	}
}

func TestFields_Rows(t *testing.T) {
	t.Run("flat_input_is_one_row", func(t *testing.T) {
		rows := Fields{Int(1), String("John")}.Rows()
		require.Len(t, rows, 1)
		assert.Len(t, rows[0], 2)
	})

	t.Run("nested_input_is_many_rows", func(t *testing.T) {
		rows := Fields{
			List(Int(1), String("John"), Int(30)),
			List(Int(2), String("Jane"), Int(25)),
		}.Rows()
		require.Len(t, rows, 2)
		assert.Equal(t, "Jane", rows[1][1].Scalar())
	})

	t.Run("scalar_beside_list_becomes_single_field_row", func(t *testing.T) {
		rows := Fields{List(String("a"), String("b")), String("c")}.Rows()
		require.Len(t, rows, 2)
		assert.Len(t, rows[1], 1)
		assert.Equal(t, "c", rows[1][0].Scalar())
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, Fields{}.Rows())
	})
}

func TestRow_Lookup(t *testing.T) {
	row := Row{
		{Key: At(0), Value: "1"},
		{Key: At(2), Value: "30"},
		{Key: Named("name"), Value: "John"},
	}

	v, ok := row.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "John", v)

	v, ok = row.Index(2)
	require.True(t, ok)
	assert.Equal(t, "30", v)

	_, ok = row.Index(1)
	assert.False(t, ok)

	assert.Equal(t, []string{"1", "30", "John"}, row.Values())
	assert.Equal(t, "name", row[2].Key.String())
	assert.Equal(t, "2", row[1].Key.String())
}

func TestTable_CloneIsIndependent(t *testing.T) {
	orig := Table{Strings("id", "name"), Strings("1", "John")}
	cp := orig.Clone()
	cp[1][1].Value = "Jane"

	assert.Equal(t, "John", orig[1][1].Value)
	assert.True(t, orig[0].Equal(cp[0]))
	assert.False(t, orig[1].Equal(cp[1]))
}

func TestFromTable(t *testing.T) {
	fields := FromTable(Table{Strings("id", "name"), Strings("1", "John")})
	rows := fields.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "John", rows[1][1].Scalar())
}
