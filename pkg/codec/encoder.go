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

package codec

import (
	"io"

	"github.com/walteh/csvrc/pkg/dialect"
	"github.com/walteh/csvrc/pkg/table"
)

// ✍️ Encoder writes rows as dialect lines, one write per row
type Encoder struct {
	dst     io.Writer
	dialect *dialect.Dialect
}

// NewEncoder creates an Encoder writing to w
func NewEncoder(w io.Writer, d *dialect.Dialect) *Encoder {
	if w == nil {
		panic("codec: encoder destination cannot be nil")
	}
	if d == nil {
		d = dialect.Default()
	}
	return &Encoder{dst: w, dialect: d}
}

// Encode writes every row followed by \n. It stops at the first row that is
// not written in full and returns how many rows made it out plus a
// *WriteError for the failing row.
func (e *Encoder) Encode(rows [][]table.Field) (int, error) {
	for i, row := range rows {
		line := e.dialect.FormatLine(row) + "\n"
		n, err := io.WriteString(e.dst, line)
		if err == nil && n != len(line) {
			err = io.ErrShortWrite
		}
		if err != nil {
			return i, &WriteError{Row: i, Err: err}
		}
	}
	return len(rows), nil
}

// EncodeLines formats rows in the encoder dialect without writing them
func (e *Encoder) EncodeLines(rows [][]table.Field) []string {
	return Lines(e.dialect, rows)
}

// Lines formats rows without writing them
func Lines(d *dialect.Dialect, rows [][]table.Field) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = d.FormatLine(row)
	}
	return out
}
