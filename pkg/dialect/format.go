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
	"strings"

	"github.com/walteh/csvrc/pkg/table"
)

// 📝 FormatLine joins fields into one line without a terminator.
//
// Literal double quotes are doubled but values are never wrapped in the
// enclosure, so a value holding the separator or a newline does not survive
// a decode.
func (d *Dialect) FormatLine(fields []table.Field) string {
	sep := string(d.separator)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = strings.ReplaceAll(d.stringify(f), `"`, `""`)
	}
	return strings.Join(parts, sep)
}

func (d *Dialect) stringify(f table.Field) string {
	if !f.IsList() {
		return f.Scalar()
	}
	items := f.Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = d.stringify(item)
	}
	return strings.Join(parts, string(d.separator))
}

// 🔀 ReplaceAssociations renames positional cells that have an association.
// Renamed cells move to the end of the row; the rest keep their order.
// An empty association table returns row as is.
func (d *Dialect) ReplaceAssociations(row table.Row) table.Row {
	if len(d.associations) == 0 {
		return row
	}

	kept := make(table.Row, 0, len(row))
	var renamed table.Row
	for _, c := range row {
		if !c.Key.IsNamed() {
			if name, ok := d.associations[c.Key.Index]; ok {
				renamed = append(renamed, table.Cell{Key: table.Named(name), Value: c.Value})
				continue
			}
		}
		kept = append(kept, c)
	}
	return append(kept, renamed...)
}
