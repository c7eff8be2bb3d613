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

// Package dialect describes how a line of text is split into fields and how
// fields are joined back into a line.
package dialect

import (
	"sort"
	"strings"

	"github.com/walteh/csvrc/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidDialect is returned when a dialect setting breaks an invariant
var ErrInvalidDialect = errors.Base("invalid dialect")

// 🎛️ Defaults
const (
	DefaultSeparator = ','
	DefaultEnclosure = '"'
	DefaultEscape    = '\\'
	DefaultEncoding  = "UTF-8"
)

// 📐 Dialect holds the separator, enclosure and escape characters plus the
// read-side flags. Escape 0 disables escaping.
type Dialect struct {
	separator            byte
	enclosure            byte
	escape               byte
	skipFirstLine        bool
	useHeaderAssociation bool
	encoding             string
	associations         map[int]string
}

// 🔧 Option configures a Dialect at construction time
type Option func(*Dialect) error

// WithSeparator sets the field separator. It must be exactly one byte.
func WithSeparator(sep string) Option {
	return func(d *Dialect) error {
		b, err := singleByte("separator", sep)
		if err != nil {
			return err
		}
		d.separator = b
		return nil
	}
}

// WithEnclosure sets the enclosure (quote) character. It must be exactly one byte.
func WithEnclosure(enc string) Option {
	return func(d *Dialect) error {
		b, err := singleByte("enclosure", enc)
		if err != nil {
			return err
		}
		d.enclosure = b
		return nil
	}
}

// WithEscape sets the escape character. An empty string disables escaping.
func WithEscape(esc string) Option {
	return func(d *Dialect) error {
		if esc == "" {
			d.escape = 0
			return nil
		}
		b, err := singleByte("escape", esc)
		if err != nil {
			return err
		}
		d.escape = b
		return nil
	}
}

// WithoutEscape disables the escape character
func WithoutEscape() Option {
	return WithEscape("")
}

// WithSkipFirstLine makes the decoder discard the first record
func WithSkipFirstLine(skip bool) Option {
	return func(d *Dialect) error {
		d.skipFirstLine = skip
		return nil
	}
}

// WithHeaderAssociation records the header-association flag
func WithHeaderAssociation(use bool) Option {
	return func(d *Dialect) error {
		d.useHeaderAssociation = use
		return nil
	}
}

// WithEncoding sets the encoding label. The label is informational only.
func WithEncoding(label string) Option {
	return func(d *Dialect) error {
		d.encoding = label
		return nil
	}
}

// WithAssociations sets the index to name association table
func WithAssociations(assoc map[int]string) Option {
	return func(d *Dialect) error {
		m, err := copyAssociations(assoc)
		if err != nil {
			return err
		}
		d.associations = m
		return nil
	}
}

// 🏭 New creates a dialect from the defaults and the given options
func New(opts ...Option) (*Dialect, error) {
	d := Default()
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.separator == d.enclosure {
		return nil, errors.Errorf("%w: separator and enclosure are both %q", ErrInvalidDialect, string(d.separator))
	}
	return d, nil
}

// Default returns the comma separated dialect with double quote enclosure and backslash escape
func Default() *Dialect {
	return &Dialect{
		separator:    DefaultSeparator,
		enclosure:    DefaultEnclosure,
		escape:       DefaultEscape,
		encoding:     DefaultEncoding,
		associations: map[int]string{},
	}
}

// SetAssociations replaces the whole association table and returns d.
// Invalid tables leave the current one untouched.
func (d *Dialect) SetAssociations(assoc map[int]string) (*Dialect, error) {
	m, err := copyAssociations(assoc)
	if err != nil {
		return d, err
	}
	d.associations = m
	return d, nil
}

func (d *Dialect) Separator() byte            { return d.separator }
func (d *Dialect) Enclosure() byte            { return d.enclosure }
func (d *Dialect) Escape() byte               { return d.escape }
func (d *Dialect) SkipFirstLine() bool        { return d.skipFirstLine }
func (d *Dialect) UseHeaderAssociation() bool { return d.useHeaderAssociation }
func (d *Dialect) Encoding() string           { return d.encoding }

// Associations returns a copy of the association table
func (d *Dialect) Associations() map[int]string {
	out := make(map[int]string, len(d.associations))
	for k, v := range d.associations {
		out[k] = v
	}
	return out
}

// HasAssociations reports whether any association is configured
func (d *Dialect) HasAssociations() bool {
	return len(d.associations) > 0
}

// String returns a short description of the dialect
func (d *Dialect) String() string {
	var sb strings.Builder
	sb.WriteString("sep=")
	sb.WriteByte(d.separator)
	sb.WriteString(" enc=")
	sb.WriteByte(d.enclosure)
	sb.WriteString(" esc=")
	if d.escape != 0 {
		sb.WriteByte(d.escape)
	}
	if len(d.associations) > 0 {
		keys := make([]int, 0, len(d.associations))
		for k := range d.associations {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		sb.WriteString(" assoc=")
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(table.At(k).String())
			sb.WriteByte(':')
			sb.WriteString(d.associations[k])
		}
	}
	return sb.String()
}

func singleByte(name, s string) (byte, error) {
	if len(s) != 1 {
		return 0, errors.Errorf("%w: %s must be a single character, got %q", ErrInvalidDialect, name, s)
	}
	return s[0], nil
}

func copyAssociations(assoc map[int]string) (map[int]string, error) {
	m := make(map[int]string, len(assoc))
	for k, v := range assoc {
		if k < 0 {
			return nil, errors.Errorf("%w: association index %d is negative", ErrInvalidDialect, k)
		}
		if v == "" {
			return nil, errors.Errorf("%w: association name for index %d is empty", ErrInvalidDialect, k)
		}
		m[k] = v
	}
	return m, nil
}
