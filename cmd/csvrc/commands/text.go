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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/csvrc/cmd/csvrc/opts"
	"github.com/walteh/csvrc/pkg/fileop"
	"github.com/walteh/csvrc/pkg/log"
	"github.com/walteh/csvrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// NewTextCmd creates the text command group for raw line access
func NewTextCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Work with any file as plain text lines",
	}

	cmd.AddCommand(
		newTextReadCmd(o),
		newTextWriteCmd(o, "append", "Append text to the end of a file"),
		newTextWriteCmd(o, "prepend", "Write text in front of the current content"),
	)

	return cmd
}

func newTextReadCmd(o *opts.RootOpts) *cobra.Command {
	var (
		length    int
		limit     int
		skipEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print the lines of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			mgr, err := text.NewManager(ctx, fileop.NewFile(args[0]), text.Settings{SkipEmptyLines: skipEmpty}, o.Ops)
			if err != nil {
				return err
			}

			lines, err := mgr.ReadLines(ctx, length, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), strings.Join(lines, ""))
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", 0, "maximum bytes per returned chunk, 0 for no limit")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of lines, 0 for all")
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "drop empty lines")

	return cmd
}

func newTextWriteCmd(o *opts.RootOpts, use, short string) *cobra.Command {
	var newline bool

	cmd := &cobra.Command{
		Use:   use + " <file> <text>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			mgr, err := text.NewManager(ctx, fileop.NewFile(args[0]), text.Settings{}, o.Ops)
			if err != nil {
				return err
			}

			data := args[1]
			if newline && !strings.HasSuffix(data, "\n") {
				data += "\n"
			}

			var ok bool
			if use == "prepend" {
				ok, err = mgr.Prepend(ctx, data)
			} else {
				ok, err = mgr.Write(ctx, data)
			}
			if err != nil {
				o.Console.LogMutation(ctx, log.Mutation{Path: args[0], Kind: use, Failed: true})
				return errors.Errorf("%s: %w", use, err)
			}

			o.Console.LogMutation(ctx, log.Mutation{Path: args[0], Kind: use, Changed: ok})
			return nil
		},
	}

	cmd.Flags().BoolVar(&newline, "newline", true, "end the text with a newline")

	return cmd
}
