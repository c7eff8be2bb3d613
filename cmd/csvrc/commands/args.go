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

package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/walteh/csvrc/pkg/codec"
	"github.com/walteh/csvrc/pkg/config"
	"github.com/walteh/csvrc/pkg/dialect"
	"github.com/walteh/csvrc/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// parseIndices reads zero-based positions from command arguments
func parseIndices(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 {
				return nil, errors.Errorf("invalid index %q", part)
			}
			out = append(out, i)
		}
	}
	return out, nil
}

// ParseAssignments reads "index=name" pairs
func ParseAssignments(pairs []string) (map[int]string, error) {
	raw := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.Errorf("expected index=name, got %q", pair)
		}
		raw[k] = v
	}
	return config.ParseAssociations(raw)
}

// parseRows decodes each argument as one record in the dialect
func parseRows(d *dialect.Dialect, args []string) (table.Fields, error) {
	fields := make(table.Fields, 0, len(args))
	for _, arg := range args {
		record, err := codec.NewDecoder(strings.NewReader(arg), d).ReadRecord(0)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Errorf("parsing row %q: %w", arg, err)
		}
		fields = append(fields, table.List(table.StringFields(record...)...))
	}
	return fields, nil
}

// renderTable prints rows as a pterm table. A header of keys is added when
// any cell was renamed through an association.
func renderTable(w io.Writer, rows table.Table) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(empty)")
		return nil
	}

	named := false
	for _, cell := range rows[0] {
		if cell.Key.IsNamed() {
			named = true
			break
		}
	}

	data := pterm.TableData{}
	if named {
		header := make([]string, len(rows[0]))
		for i, cell := range rows[0] {
			header[i] = cell.Key.String()
		}
		data = append(data, header)
	}
	for _, row := range rows {
		data = append(data, row.Values())
	}

	out, err := pterm.DefaultTable.WithHasHeader(named).WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	fmt.Fprintln(w, out)
	return nil
}

// renderEntries prints entries with their line numbers in the first column
func renderEntries(w io.Writer, entries []table.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "(empty)")
		return nil
	}

	data := pterm.TableData{}
	header := []string{"line"}
	for _, cell := range entries[0].Row {
		header = append(header, cell.Key.String())
	}
	data = append(data, header)
	for _, e := range entries {
		data = append(data, append([]string{strconv.Itoa(e.Line)}, e.Row.Values()...))
	}

	out, err := pterm.DefaultTable.WithHasHeader(true).WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	fmt.Fprintln(w, out)
	return nil
}
