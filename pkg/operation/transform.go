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
	"github.com/walteh/csvrc/pkg/table"
)

// 🔄 Transform builds a new table from the one read. It must not modify its input.
type Transform func(table.Table) table.Table

// Then runs next on the result of t
func (t Transform) Then(next Transform) Transform {
	return func(in table.Table) table.Table {
		return next(t(in))
	}
}

func intSet(values []int) map[int]struct{} {
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// DeleteColumns drops the cells at the given positions from every row
func DeleteColumns(columns ...int) Transform {
	drop := intSet(columns)
	return func(in table.Table) table.Table {
		out := make(table.Table, 0, len(in))
		for _, row := range in {
			kept := make(table.Row, 0, len(row))
			for _, c := range row {
				if !c.Key.IsNamed() {
					if _, ok := drop[c.Key.Index]; ok {
						continue
					}
				}
				kept = append(kept, c)
			}
			out = append(out, kept)
		}
		return out
	}
}

// DeleteLines drops the rows at the given positions
func DeleteLines(lines ...int) Transform {
	drop := intSet(lines)
	return func(in table.Table) table.Table {
		out := make(table.Table, 0, len(in))
		for i, row := range in {
			if _, ok := drop[i]; ok {
				continue
			}
			out = append(out, row.Clone())
		}
		return out
	}
}

// RenameHeaders replaces values by position in every row equal to the first
// row. Positions the header does not have are skipped.
func RenameHeaders(headers map[int]string) Transform {
	names := make(map[int]string, len(headers))
	for k, v := range headers {
		names[k] = v
	}
	return func(in table.Table) table.Table {
		if len(in) == 0 {
			return table.Table{}
		}
		header := in[0]
		out := make(table.Table, 0, len(in))
		for _, row := range in {
			next := row.Clone()
			if row.Equal(header) {
				for i, c := range next {
					if c.Key.IsNamed() {
						continue
					}
					if name, ok := names[c.Key.Index]; ok {
						next[i].Value = name
					}
				}
			}
			out = append(out, next)
		}
		return out
	}
}
