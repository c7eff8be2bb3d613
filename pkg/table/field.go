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
	"strconv"
)

// 🏷️ Kind identifies which variant a Field holds
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// 📦 Field is one value handed to the encoder.
// The zero value is a null field.
type Field struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	bit  bool
	list []Field
}

// Null returns a field that encodes as an empty string
func Null() Field { return Field{kind: KindNull} }

// String returns a string field
func String(s string) Field { return Field{kind: KindString, str: s} }

// Int returns an integer field
func Int(i int64) Field { return Field{kind: KindInt, num: i} }

// Float returns a floating point field
func Float(f float64) Field { return Field{kind: KindFloat, flt: f} }

// Bool returns a boolean field
func Bool(b bool) Field { return Field{kind: KindBool, bit: b} }

// List returns a nested sequence of fields
func List(fields ...Field) Field {
	return Field{kind: KindList, list: append([]Field(nil), fields...)}
}

// Kind reports the variant held by f
func (f Field) Kind() Kind { return f.kind }

// IsList reports whether f is a nested sequence
func (f Field) IsList() bool { return f.kind == KindList }

// Items returns the nested fields of a list field, nil otherwise
func (f Field) Items() []Field {
	if f.kind != KindList {
		return nil
	}
	return f.list
}

// Scalar returns the textual form of a non-list field.
// Booleans become "true"/"false", null becomes "", numbers use their shortest decimal form.
// List fields return "" here; joining them needs a separator and is done by the dialect.
func (f Field) Scalar() string {
	switch f.kind {
	case KindString:
		return f.str
	case KindInt:
		return strconv.FormatInt(f.num, 10)
	case KindFloat:
		return strconv.FormatFloat(f.flt, 'f', -1, 64)
	case KindBool:
		if f.bit {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// 🧺 Fields is the input accepted by write operations. It is either a single
// row of scalars or a sequence of rows, each row being a List field.
type Fields []Field

// Rows normalizes fs into a sequence of rows.
// A slice with no List element is a single row. Otherwise each List element is
// a row and each scalar element becomes a one-field row.
func (fs Fields) Rows() [][]Field {
	if len(fs) == 0 {
		return nil
	}

	nested := false
	for _, f := range fs {
		if f.IsList() {
			nested = true
			break
		}
	}
	if !nested {
		return [][]Field{fs}
	}

	rows := make([][]Field, 0, len(fs))
	for _, f := range fs {
		if f.IsList() {
			rows = append(rows, f.Items())
			continue
		}
		rows = append(rows, []Field{f})
	}
	return rows
}

// StringFields builds a single row of string fields
func StringFields(values ...string) []Field {
	out := make([]Field, len(values))
	for i, v := range values {
		out[i] = String(v)
	}
	return out
}

// FromTable converts decoded rows back into write input, one List per row
func FromTable(t Table) Fields {
	out := make(Fields, 0, len(t))
	for _, row := range t {
		out = append(out, List(StringFields(row.Values()...)...))
	}
	return out
}
