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
	"bufio"
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/csvrc/pkg/dialect"
	"github.com/walteh/csvrc/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// DefaultBufferSize is the read-ahead used by NewDecoder
const DefaultBufferSize = 1 << 10 // 1024 bytes

// 🔍 DecodeOptions selects what Decode returns
type DecodeOptions struct {
	// LengthLimit caps the bytes consumed for one record outside an enclosure. Zero means no cap.
	LengthLimit int
	// Lines selects records by decoder counter. Decoding stops once all of them were seen.
	Lines []int
	// Columns projects every record onto these positions, in this order.
	Columns []int
	// ApplyAssociations renames selected cells through the dialect association table.
	ApplyAssociations bool
}

// 📖 Decoder turns a byte stream into records under a dialect
type Decoder struct {
	src     *bufio.Reader
	dialect *dialect.Dialect

	line     int // physical line, 1-based
	finished bool
}

// NewDecoder creates a Decoder reading from r with DefaultBufferSize read-ahead
func NewDecoder(r io.Reader, d *dialect.Dialect) *Decoder {
	return NewDecoderSize(r, d, DefaultBufferSize)
}

// NewDecoderSize creates a Decoder reading from r with the given read-ahead
func NewDecoderSize(r io.Reader, d *dialect.Dialect, size int) *Decoder {
	if r == nil {
		panic("codec: decoder source cannot be nil")
	}
	if d == nil {
		d = dialect.Default()
	}
	return &Decoder{
		src:     bufio.NewReaderSize(r, size),
		dialect: d,
		line:    1,
	}
}

// Line reports the physical line the decoder is positioned on
func (dec *Decoder) Line() int {
	return dec.line
}

// Decode reads records until EOF, or until every selected line was emitted.
//
// Lines and Columns follow the row-selection rules of the mutation layer:
// a selected record is stored under the counter it was read at; records that
// are not selected still go through the column projection or are stored raw.
// Only the selection paths honour ApplyAssociations.
func (dec *Decoder) Decode(ctx context.Context, opts DecodeOptions) ([]table.Entry, error) {
	logger := zerolog.Ctx(ctx)

	wanted := make(map[int]struct{}, len(opts.Lines))
	for _, l := range opts.Lines {
		wanted[l] = struct{}{}
	}
	emitted := make(map[int]struct{}, len(wanted))

	skippedHeader := false
	counter := 0
	var out []table.Entry

	for {
		record, err := dec.ReadRecord(opts.LengthLimit)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading record %d: %w", counter, err)
		}

		if !skippedHeader && dec.dialect.SkipFirstLine() {
			skippedHeader = true
			continue
		}

		row := table.Strings(record...)

		if len(wanted) > 0 {
			_, selected := wanted[counter]
			_, done := emitted[counter]
			if selected && !done {
				out = append(out, table.Entry{Line: counter, Row: dec.remap(row, opts)})
				emitted[counter] = struct{}{}
				counter++

				if len(emitted) == len(wanted) {
					logger.Debug().Int("lines", len(wanted)).Int("physical_line", dec.line).Msg("all selected lines found, stopping early")
					break
				}
				continue
			}
		}

		if len(opts.Columns) > 0 {
			projected, err := project(record, opts.Columns, counter)
			if err != nil {
				return nil, err
			}
			out = append(out, table.Entry{Line: counter, Row: dec.remap(projected, opts)})
			counter++
			continue
		}

		out = append(out, table.Entry{Line: counter, Row: row})
		counter++
	}

	logger.Debug().Int("records", counter).Int("returned", len(out)).Msg("decoded records")

	return out, nil
}

func (dec *Decoder) remap(row table.Row, opts DecodeOptions) table.Row {
	if !opts.ApplyAssociations {
		return row
	}
	return dec.dialect.ReplaceAssociations(row)
}

func project(record []string, columns []int, line int) (table.Row, error) {
	values := make([]string, len(columns))
	for i, c := range columns {
		if c < 0 || c >= len(record) {
			return nil, &FieldIndexError{Line: line, Column: c, Width: len(record)}
		}
		values[i] = record[c]
	}
	return table.Strings(values...), nil
}

// ReadRecord parses the next record. io.EOF signals that no more records remain.
//
// A record ends at \n, \r\n or a lone \r outside an enclosure. Inside an
// enclosure a doubled enclosure yields one enclosure character, and the escape
// character is kept together with the byte that follows it. Bytes after a
// closing enclosure are appended to the field as they are. When limit is
// positive the record is cut after limit bytes read outside an enclosure.
func (dec *Decoder) ReadRecord(limit int) ([]string, error) {
	if dec.finished {
		return nil, io.EOF
	}

	sep := dec.dialect.Separator()
	enc := dec.dialect.Enclosure()
	esc := dec.dialect.Escape()
	if esc == enc {
		esc = 0
	}

	var (
		record   []string
		field    []byte
		consumed int
		started  bool

		inQuotes    bool
		wasQuoted   bool // current field opened with an enclosure
		onlyBlank   bool // current field holds nothing but leading spaces or tabs
		fieldOpened bool
	)

	resetField := func() {
		field = field[:0]
		wasQuoted = false
		onlyBlank = true
		fieldOpened = false
	}
	endField := func() {
		record = append(record, string(field))
		resetField()
	}
	resetField()

	for {
		b, err := dec.src.ReadByte()
		if err == io.EOF {
			dec.finished = true
			if !started {
				return nil, io.EOF
			}
			endField()
			return record, nil
		}
		if err != nil {
			return nil, err
		}
		started = true

		if inQuotes {
			switch {
			case esc != 0 && b == esc:
				field = append(field, b)
				next, err := dec.src.ReadByte()
				if err == io.EOF {
					continue
				}
				if err != nil {
					return nil, err
				}
				if next == '\n' {
					dec.line++
				}
				field = append(field, next)
			case b == enc:
				next, err := dec.src.ReadByte()
				if err == nil && next == enc {
					field = append(field, enc)
					continue
				}
				if err == nil {
					if uerr := dec.src.UnreadByte(); uerr != nil {
						return nil, uerr
					}
				} else if err != io.EOF {
					return nil, err
				}
				inQuotes = false
			case b == '\n':
				dec.line++
				field = append(field, b)
			default:
				field = append(field, b)
			}
			continue
		}

		consumed++

		switch b {
		case sep:
			endField()
		case '\n':
			dec.line++
			endField()
			return record, nil
		case '\r':
			next, err := dec.src.ReadByte()
			if err == nil && next != '\n' {
				if uerr := dec.src.UnreadByte(); uerr != nil {
					return nil, uerr
				}
			} else if err != nil && err != io.EOF {
				return nil, err
			}
			dec.line++
			endField()
			return record, nil
		case enc:
			if !wasQuoted && (!fieldOpened || onlyBlank) {
				field = field[:0]
				inQuotes = true
				wasQuoted = true
				fieldOpened = true
				onlyBlank = false
				continue
			}
			field = append(field, b)
			onlyBlank = false
		default:
			if b != ' ' && b != '\t' {
				onlyBlank = false
			}
			fieldOpened = true
			field = append(field, b)
		}

		if limit > 0 && consumed >= limit {
			endField()
			return record, nil
		}
	}
}
