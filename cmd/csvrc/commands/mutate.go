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
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/csvrc/cmd/csvrc/opts"
	"github.com/walteh/csvrc/pkg/fileop"
	"github.com/walteh/csvrc/pkg/log"
	"github.com/walteh/csvrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// mutation runs fn against the manager for path and prints its outcome
func mutation(ctx context.Context, o *opts.RootOpts, kind, path string, fn func(m *operation.Manager) (bool, error)) error {
	mgr, err := o.Manager(ctx, path)
	if err != nil {
		return err
	}

	changed, err := fn(mgr)
	if err != nil {
		o.Console.LogMutation(ctx, log.Mutation{Path: path, Kind: kind, Failed: true})
		return errors.Errorf("%s: %w", kind, err)
	}

	rows := 0
	if t, err := mgr.Read(ctx, 0, nil); err == nil {
		rows = len(t)
	}
	o.Console.LogMutation(ctx, log.Mutation{Path: path, Kind: kind, Rows: rows, Changed: changed})
	return nil
}

// NewWriteCmd creates the write command
func NewWriteCmd(o *opts.RootOpts) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "write <file> <row>...",
		Short: "Append rows to a csv file",
		Long: `Write appends rows to the end of a csv file. Every row argument is
parsed with the active dialect, so "1,John,30" is three cells.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fields, err := parseRows(o.Dialect, args[1:])
			if err != nil {
				return err
			}

			if create {
				if _, err := fileop.Create(ctx, o.Ops, args[0]); err != nil {
					return errors.Errorf("creating %s: %w", args[0], err)
				}
			}

			return mutation(ctx, o, "write", args[0], func(m *operation.Manager) (bool, error) {
				return m.Write(ctx, fields)
			})
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "create the file when it does not exist")

	return cmd
}

// NewOverWriteCmd creates the overwrite command
func NewOverWriteCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "overwrite <file> [row]...",
		Short: "Replace the content of a csv file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fields, err := parseRows(o.Dialect, args[1:])
			if err != nil {
				return err
			}

			return mutation(ctx, o, "overwrite", args[0], func(m *operation.Manager) (bool, error) {
				return m.OverWrite(ctx, fields)
			})
		},
	}
}

// NewDeleteColumnsCmd creates the delete-columns command
func NewDeleteColumnsCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-columns <file> <index>...",
		Short: "Remove columns from every row",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			columns, err := parseIndices(args[1:])
			if err != nil {
				return err
			}

			return mutation(ctx, o, "delete-columns", args[0], func(m *operation.Manager) (bool, error) {
				return m.DeleteColumn(ctx, columns)
			})
		},
	}
}

// NewDeleteLinesCmd creates the delete-lines command
func NewDeleteLinesCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-lines <file> <index>...",
		Short: "Remove rows by position",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			lines, err := parseIndices(args[1:])
			if err != nil {
				return err
			}

			return mutation(ctx, o, "delete-lines", args[0], func(m *operation.Manager) (bool, error) {
				return m.DeleteLine(ctx, lines)
			})
		},
	}
}

// NewUpdateHeadersCmd creates the update-headers command
func NewUpdateHeadersCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "update-headers <file> <index=name>...",
		Short: "Rename header cells by position",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			headers, err := ParseAssignments(args[1:])
			if err != nil {
				return err
			}

			return mutation(ctx, o, "update-headers", args[0], func(m *operation.Manager) (bool, error) {
				return m.UpdateHeaders(ctx, headers)
			})
		},
	}
}
