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

// 🔑 Key addresses a cell either by position or by an association name
type Key struct {
	Index int    // Positional index, meaningful when Name is empty
	Name  string // Association name, empty for positional keys
}

// At returns a positional key
func At(i int) Key { return Key{Index: i} }

// Named returns a named key
func Named(name string) Key { return Key{Index: -1, Name: name} }

// IsNamed reports whether k was produced by an association rename
func (k Key) IsNamed() bool { return k.Name != "" }

// String returns a string representation of Key
func (k Key) String() string {
	if k.IsNamed() {
		return k.Name
	}
	return strconv.Itoa(k.Index)
}

// 🧱 Cell is one decoded value with its key
type Cell struct {
	Key   Key
	Value string
}

// 📄 Row is one decoded record, an ordered sequence of cells
type Row []Cell

// Strings builds a row with positional keys 0..n-1
func Strings(values ...string) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = Cell{Key: At(i), Value: v}
	}
	return row
}

// Values returns the cell values in order
func (r Row) Values() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Value
	}
	return out
}

// Get looks a value up by key
func (r Row) Get(k Key) (string, bool) {
	for _, c := range r {
		if c.Key == k {
			return c.Value, true
		}
	}
	return "", false
}

// Index looks a value up by positional index
func (r Row) Index(i int) (string, bool) {
	return r.Get(At(i))
}

// Lookup looks a value up by association name
func (r Row) Lookup(name string) (string, bool) {
	return r.Get(Named(name))
}

// Equal reports whether two rows hold the same keys and values in the same order
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of r that shares no storage with it
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	return append(Row(nil), r...)
}

// 📚 Table is an ordered sequence of rows held in memory for one operation
type Table []Row

// Clone returns a deep copy of t
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = row.Clone()
	}
	return out
}

// 🔢 Entry is a decoded row paired with the decoder counter it was stored under
type Entry struct {
	Line int
	Row  Row
}

// Rows drops the line keys, keeping order
func Rows(entries []Entry) Table {
	if entries == nil {
		return nil
	}
	out := make(Table, len(entries))
	for i, e := range entries {
		out[i] = e.Row
	}
	return out
}
