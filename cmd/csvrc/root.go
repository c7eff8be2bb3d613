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

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/csvrc/cmd/csvrc/commands"
	"github.com/walteh/csvrc/cmd/csvrc/opts"
	"github.com/walteh/csvrc/pkg/config"
	"github.com/walteh/csvrc/pkg/dialect"
	"github.com/walteh/csvrc/pkg/fileop"
	"github.com/walteh/csvrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags are the flags shared by every command
type rootFlags struct {
	configFile        string
	debug             bool
	separator         string
	enclosure         string
	escape            string
	skipFirstLine     bool
	headerAssociation bool
	assoc             []string
}

// newRootCmd builds the command tree. The returned options are filled in
// right before a subcommand runs.
func newRootCmd() (*cobra.Command, *opts.RootOpts) {
	flags := &rootFlags{}
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "csvrc",
		Short: "Read, write and reshape delimited text files",
		Long: `csvrc reads and edits csv files through a configurable dialect
(separator, enclosure, escape). A .csvrc profile in the working directory
sets the dialect for every command; flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(flags.debug)
			return flags.resolve(cmd, o)
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewReadCmd(o),
		commands.NewWriteCmd(o),
		commands.NewOverWriteCmd(o),
		commands.NewDeleteColumnsCmd(o),
		commands.NewDeleteLinesCmd(o),
		commands.NewUpdateHeadersCmd(o),
		commands.NewHeadersCmd(o),
		commands.NewColumnsCmd(o),
		commands.NewLinesCmd(o),
		commands.NewBatchCmd(o),
		commands.NewTextCmd(o),
		commands.NewLsCmd(),
		newVersionCmd(),
	)

	return rootCmd, o
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	cmd.PersistentFlags().StringVarP(&f.configFile, "config", "c", "", "profile path, .csvrc.* in the working directory when empty")
	cmd.PersistentFlags().BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&f.separator, "separator", "", "field separator")
	cmd.PersistentFlags().StringVar(&f.enclosure, "enclosure", "", "enclosure character")
	cmd.PersistentFlags().StringVar(&f.escape, "escape", "", "escape character, empty to disable")
	cmd.PersistentFlags().BoolVar(&f.skipFirstLine, "skip-first-line", false, "skip the first record when reading")
	cmd.PersistentFlags().BoolVar(&f.headerAssociation, "header-association", false, "record the header association flag")
	cmd.PersistentFlags().StringArrayVar(&f.assoc, "assoc", nil, "column association as index=name, repeatable")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadProfile loads the configured profile, or the one found in the working
// directory. No profile at all gives the defaults.
func (f *rootFlags) loadProfile(cmd *cobra.Command) (*config.Config, error) {
	ctx := cmd.Context()

	path := f.configFile
	if path == "" {
		found, err := config.Find(".")
		if errors.Is(err, config.ErrNoConfig) {
			cfg := &config.Config{}
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolve merges the profile with the dialect flags that were set
func (f *rootFlags) resolve(cmd *cobra.Command, o *opts.RootOpts) error {
	cfg, err := f.loadProfile(cmd)
	if err != nil {
		return err
	}

	dopts, err := cfg.Dialect.Options()
	if err != nil {
		return errors.Errorf("reading profile dialect: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("separator") {
		dopts = append(dopts, dialect.WithSeparator(f.separator))
	}
	if changed("enclosure") {
		dopts = append(dopts, dialect.WithEnclosure(f.enclosure))
	}
	if changed("escape") {
		dopts = append(dopts, dialect.WithEscape(f.escape))
	}
	if changed("skip-first-line") {
		dopts = append(dopts, dialect.WithSkipFirstLine(f.skipFirstLine))
	}
	if changed("header-association") {
		dopts = append(dopts, dialect.WithHeaderAssociation(f.headerAssociation))
	}
	if changed("assoc") {
		assoc, err := commands.ParseAssignments(f.assoc)
		if err != nil {
			return errors.Errorf("parsing --assoc: %w", err)
		}
		dopts = append(dopts, dialect.WithAssociations(assoc))
	}

	d, err := dialect.New(dopts...)
	if err != nil {
		return errors.Errorf("building dialect: %w", err)
	}

	level := zerolog.InfoLevel
	if f.debug {
		level = zerolog.DebugLevel
	}

	o.Config = cfg
	o.Dialect = d
	o.Ops = fileop.OS{}
	o.Console = log.New(cmd.OutOrStdout(), level).WithZerolog(*zerolog.Ctx(cmd.Context()))

	zerolog.Ctx(cmd.Context()).Debug().Str("dialect", d.String()).Str("profile", cfg.Location()).Msg("resolved options")

	return nil
}
