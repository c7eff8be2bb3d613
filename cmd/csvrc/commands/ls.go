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
	"path/filepath"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/csvrc/pkg/directory"
	"github.com/walteh/csvrc/pkg/fileop"
	"gitlab.com/tozd/go/errors"
)

// NewLsCmd creates the ls command
func NewLsCmd() *cobra.Command {
	var desc bool

	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List the csv files of a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			order := directory.SortAsc
			if desc {
				order = directory.SortDesc
			}

			names, err := directory.New().Scan(cmd.Context(), dir, order)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"name", "size", "modified"}}
			for _, name := range names {
				path := filepath.Join(dir, name)
				if ok, err := fileop.IsFile(path); err != nil || !ok {
					continue
				}
				if ext, err := fileop.Extension(path); err != nil || ext != fileop.CSVExtension {
					continue
				}
				size, err := fileop.Size(path)
				if err != nil {
					return err
				}
				mod, err := fileop.ModTime(path)
				if err != nil {
					return err
				}
				data = append(data, []string{name, strconv.FormatInt(size, 10), mod.Format(time.RFC3339)})
			}

			if len(data) == 1 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no csv files)")
				return nil
			}

			out, err := pterm.DefaultTable.WithHasHeader(true).WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&desc, "desc", false, "sort names in descending order")

	return cmd
}
