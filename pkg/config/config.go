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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/csvrc/pkg/dialect"
	"gitlab.com/tozd/go/errors"
)

// ErrNoConfig is returned by Find when a directory has no profile file
var ErrNoConfig = errors.Base("no csvrc profile found")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// FileNames are the profile names Find looks for, in order
var FileNames = []string{
	".csvrc.yaml",
	".csvrc.yml",
	".csvrc.hcl",
	".csvrc.json",
	".csvrc.toml",
}

// 📐 DialectConfig is the dialect section of a profile. Escape is a pointer
// so an explicit "" (no escaping) differs from an unset value.
type DialectConfig struct {
	Separator            string            `json:"separator,omitempty" yaml:"separator,omitempty" toml:"separator,omitempty" hcl:"separator,optional"`
	Enclosure            string            `json:"enclosure,omitempty" yaml:"enclosure,omitempty" toml:"enclosure,omitempty" hcl:"enclosure,optional"`
	Escape               *string           `json:"escape,omitempty" yaml:"escape,omitempty" toml:"escape,omitempty" hcl:"escape,optional"`
	SkipFirstLine        bool              `json:"skip_first_line,omitempty" yaml:"skip_first_line,omitempty" toml:"skip_first_line,omitempty" hcl:"skip_first_line,optional"`
	UseHeaderAssociation bool              `json:"use_header_association,omitempty" yaml:"use_header_association,omitempty" toml:"use_header_association,omitempty" hcl:"use_header_association,optional"`
	Encoding             string            `json:"encoding,omitempty" yaml:"encoding,omitempty" toml:"encoding,omitempty" hcl:"encoding,optional"`
	Associations         map[string]string `json:"associations,omitempty" yaml:"associations,omitempty" toml:"associations,omitempty" hcl:"associations,optional"`
}

// 📚 Config represents a complete csvrc profile
type Config struct {
	Dialect     *DialectConfig `json:"dialect,omitempty" yaml:"dialect,omitempty" toml:"dialect,omitempty" hcl:"dialect,block"`
	Files       []string       `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty" hcl:"files,optional"`
	Concurrency int            `json:"concurrency,omitempty" yaml:"concurrency,omitempty" toml:"concurrency,omitempty" hcl:"concurrency,optional"`
	Backup      bool           `json:"backup,omitempty" yaml:"backup,omitempty" toml:"backup,omitempty" hcl:"backup,optional"`

	location string
	dialect  *dialect.Dialect
}

// 🎯 Load loads and validates the profile at path
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// relative patterns resolve against the profile directory
	for i, pattern := range cfg.Files {
		if !filepath.IsAbs(pattern) {
			cfg.Files[i] = filepath.Join(filepath.Dir(path), pattern)
		}
	}

	logger.Debug().Str("path", path).Str("dialect", cfg.CSVDialect().String()).Int("files", len(cfg.Files)).Msg("loaded configuration")

	return cfg, nil
}

// 🔍 Find returns the first profile file found in dir
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", errors.Errorf("%w in %s", ErrNoConfig, dir)
}

// 🔍 Validate applies defaults, checks the file patterns and builds the dialect
func (cfg *Config) Validate() error {
	if cfg.Dialect == nil {
		cfg.Dialect = &DialectConfig{}
	}
	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 1
	}

	for i, pattern := range cfg.Files {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return errors.Errorf("files[%d]: invalid pattern %q", i, pattern)
		}
	}

	opts, err := cfg.Dialect.Options()
	if err != nil {
		return err
	}
	d, err := dialect.New(opts...)
	if err != nil {
		return errors.Errorf("building dialect: %w", err)
	}
	cfg.dialect = d

	return nil
}

// Options converts the section into dialect options. Unset values keep the
// dialect defaults.
func (dc *DialectConfig) Options() ([]dialect.Option, error) {
	var opts []dialect.Option
	if dc.Separator != "" {
		opts = append(opts, dialect.WithSeparator(dc.Separator))
	}
	if dc.Enclosure != "" {
		opts = append(opts, dialect.WithEnclosure(dc.Enclosure))
	}
	if dc.Escape != nil {
		opts = append(opts, dialect.WithEscape(*dc.Escape))
	}
	if dc.Encoding != "" {
		opts = append(opts, dialect.WithEncoding(dc.Encoding))
	}
	opts = append(opts,
		dialect.WithSkipFirstLine(dc.SkipFirstLine),
		dialect.WithHeaderAssociation(dc.UseHeaderAssociation),
	)

	if len(dc.Associations) > 0 {
		assoc, err := ParseAssociations(dc.Associations)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dialect.WithAssociations(assoc))
	}
	return opts, nil
}

// ParseAssociations converts string keyed associations into column indices
func ParseAssociations(raw map[string]string) (map[int]string, error) {
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		idx, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, errors.Errorf("association key %q is not a column index", k)
		}
		out[idx] = v
	}
	return out, nil
}

// CSVDialect returns the dialect built by Validate, dialect.Default before it ran
func (cfg *Config) CSVDialect() *dialect.Dialect {
	if cfg.dialect == nil {
		return dialect.Default()
	}
	return cfg.dialect
}

// Location returns the path the profile was loaded from, empty for parsed bytes
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	files := append([]string(nil), cfg.Files...)
	sort.Strings(files)
	return fmt.Sprintf("%s files=[%s] concurrency=%d backup=%t", cfg.CSVDialect(), strings.Join(files, ","), cfg.Concurrency, cfg.Backup)
}
