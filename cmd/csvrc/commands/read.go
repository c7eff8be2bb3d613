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
	"github.com/spf13/cobra"
	"github.com/walteh/csvrc/cmd/csvrc/opts"
	"github.com/walteh/csvrc/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// NewReadCmd creates the read command
func NewReadCmd(o *opts.RootOpts) *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print every row of a csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := o.Manager(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rows, err := mgr.Read(cmd.Context(), length, nil)
			if err != nil {
				return errors.Errorf("reading: %w", err)
			}
			return renderTable(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().IntVar(&length, "length", 0, "maximum bytes per record, 0 for no limit")

	return cmd
}

// NewHeadersCmd creates the headers command
func NewHeadersCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "headers <file>",
		Short: "Print the first row of a csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := o.Manager(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			header, err := mgr.GetHeadersColumn(cmd.Context())
			if err != nil {
				return errors.Errorf("reading headers: %w", err)
			}
			return renderTable(cmd.OutOrStdout(), table.Table{header})
		},
	}
}

// NewColumnsCmd creates the columns command
func NewColumnsCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <file> <index>...",
		Short: "Print the given columns of every row",
		Long: `Columns projects every row onto the given zero-based positions,
in the order given. Configured associations rename the projected cells.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			columns, err := parseIndices(args[1:])
			if err != nil {
				return err
			}

			mgr, err := o.Manager(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rows, err := mgr.GetColumns(cmd.Context(), columns)
			if err != nil {
				return errors.Errorf("reading columns: %w", err)
			}
			return renderTable(cmd.OutOrStdout(), rows)
		},
	}
}

// NewLinesCmd creates the lines command
func NewLinesCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "lines <file> <index>...",
		Short: "Print the given rows with their line numbers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := parseIndices(args[1:])
			if err != nil {
				return err
			}

			mgr, err := o.Manager(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			entries, err := mgr.GetLines(cmd.Context(), lines)
			if err != nil {
				return errors.Errorf("reading lines: %w", err)
			}
			return renderEntries(cmd.OutOrStdout(), entries)
		},
	}
}
