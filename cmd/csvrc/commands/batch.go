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
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/csvrc/cmd/csvrc/opts"
	"github.com/walteh/csvrc/pkg/log"
	"github.com/walteh/csvrc/pkg/operation"
	"github.com/walteh/csvrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewBatchCmd creates the batch command
func NewBatchCmd(o *opts.RootOpts) *cobra.Command {
	var (
		deleteColumns []int
		deleteLines   []int
		rename        []string
		backup        bool
		concurrency   int
	)

	cmd := &cobra.Command{
		Use:   "batch [pattern]...",
		Short: "Apply one edit to every matching csv file",
		Long: `Batch expands glob patterns (doublestar syntax, ** included) and applies
the same edit to every matching file. Without patterns the files listed in
the profile are used.

Edits run in this order:
1. --delete-lines
2. --delete-columns
3. --rename

With --backup every file is copied before it is rewritten and restored when
the rewrite fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			patterns := args
			if len(patterns) == 0 && o.Config != nil {
				patterns = o.Config.Files
			}
			if len(patterns) == 0 {
				return errors.Errorf("no file patterns given and none in the profile")
			}

			var t operation.Transform
			add := func(next operation.Transform) {
				if t == nil {
					t = next
					return
				}
				t = t.Then(next)
			}
			if len(deleteLines) > 0 {
				add(operation.DeleteLines(deleteLines...))
			}
			if len(deleteColumns) > 0 {
				add(operation.DeleteColumns(deleteColumns...))
			}
			if len(rename) > 0 {
				headers, err := ParseAssignments(rename)
				if err != nil {
					return err
				}
				add(operation.RenameHeaders(headers))
			}
			if t == nil {
				return errors.Errorf("nothing to do: pass --delete-lines, --delete-columns or --rename")
			}

			if !cmd.Flags().Changed("backup") && o.Config != nil {
				backup = o.Config.Backup
			}
			if !cmd.Flags().Changed("concurrency") && o.Config != nil {
				concurrency = o.Config.Concurrency
			}

			cwd, err := os.Getwd()
			if err != nil {
				return errors.Errorf("getting working directory: %w", err)
			}
			tracker := status.New(cwd, zerolog.Ctx(ctx))

			runOpts := operation.RunnerOptions{
				Dialect:     o.Dialect,
				Ops:         o.Ops,
				Concurrency: concurrency,
				Reporter:    tracker,
			}
			if backup {
				runOpts.Backups = tracker
			}

			o.Console.StartBatch(ctx, log.Batch{Patterns: patterns, Dialect: o.Dialect.String(), Backup: backup})

			results, runErr := operation.NewRunner(runOpts).Run(ctx, patterns, t)
			for _, res := range results {
				o.Console.LogMutation(ctx, log.Mutation{
					Path:    res.Path,
					Kind:    "batch",
					Rows:    res.Rows,
					Changed: res.Changed,
					Failed:  res.Err != nil,
				})
			}
			o.Console.EndBatch(ctx)

			files, err := tracker.ListFiles(ctx)
			if err != nil {
				return errors.Errorf("listing results: %w", err)
			}
			status.NewUserLogger(ctx).LogSummary(files)

			if runErr != nil {
				return errors.Errorf("running batch: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&deleteColumns, "delete-columns", nil, "column positions to remove")
	cmd.Flags().IntSliceVar(&deleteLines, "delete-lines", nil, "row positions to remove")
	cmd.Flags().StringArrayVar(&rename, "rename", nil, "header rename as index=name, repeatable")
	cmd.Flags().BoolVar(&backup, "backup", false, "back up files and restore them when a rewrite fails")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "files processed at once")

	return cmd
}
