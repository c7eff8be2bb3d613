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

// Package directory scans, creates and removes directories and expands glob
// patterns into file lists.
package directory

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var ErrDirectory = errors.Base("directory error")

// 🔀 Sort controls the order of Scan results
type Sort int

const (
	SortAsc Sort = iota
	SortDesc
	SortNone
)

// 🗂️ RealpathCache memoizes absolute, symlink-free paths.
// Entries are never invalidated; a path that moves keeps resolving to its
// old location until Reset is called.
type RealpathCache struct {
	mu      sync.RWMutex
	entries map[string]realpath
}

type realpath struct {
	path string
	err  error
}

// NewRealpathCache creates an empty cache
func NewRealpathCache() *RealpathCache {
	return &RealpathCache{entries: make(map[string]realpath)}
}

// Resolve returns the real path of path, from the cache when possible.
// Failures are cached too.
func (c *RealpathCache) Resolve(path string) (string, error) {
	c.mu.RLock()
	hit, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return hit.path, hit.err
	}

	resolved, err := filepath.Abs(path)
	if err == nil {
		resolved, err = filepath.EvalSymlinks(resolved)
	}
	if err != nil {
		err = errors.Errorf("%w: resolving %q: %v", ErrDirectory, path, err)
		resolved = ""
	}

	c.mu.Lock()
	c.entries[path] = realpath{path: resolved, err: err}
	c.mu.Unlock()

	return resolved, err
}

// Len reports how many paths are cached
func (c *RealpathCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every cached entry
func (c *RealpathCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]realpath)
}

// 📁 Directory groups the helpers around one realpath cache
type Directory struct {
	cache *RealpathCache
}

// New creates a Directory with its own cache
func New() *Directory {
	return &Directory{cache: NewRealpathCache()}
}

// Cache exposes the realpath cache
func (d *Directory) Cache() *RealpathCache {
	return d.cache
}

// Scan lists the entry names of path, including "." and "..".
func (d *Directory) Scan(ctx context.Context, path string, order Sort) ([]string, error) {
	resolved, err := d.cache.Resolve(path)
	if err != nil {
		return nil, errors.Errorf("scanning: %w", err)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, errors.Errorf("%w: opening %q: %v", ErrDirectory, path, err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, errors.Errorf("%w: reading %q: %v", ErrDirectory, path, err)
	}
	names = append(names, ".", "..")

	switch order {
	case SortAsc:
		sort.Strings(names)
	case SortDesc:
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	zerolog.Ctx(ctx).Debug().Str("path", resolved).Int("entries", len(names)).Msg("scanned directory")

	return names, nil
}

// Exists reports whether path resolves to a directory
func (d *Directory) Exists(path string) bool {
	resolved, err := d.cache.Resolve(path)
	if err != nil {
		return false
	}
	fi, err := os.Stat(resolved)
	return err == nil && fi.IsDir()
}

// Create makes path, and its parents when recursive is set. An existing directory is fine.
func Create(ctx context.Context, path string, recursive bool) error {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil
	}

	var err error
	if recursive {
		err = os.MkdirAll(path, 0o777)
	} else {
		err = os.Mkdir(path, 0o777)
	}
	if err != nil && !os.IsExist(err) {
		return errors.Errorf("%w: creating %q: %v", ErrDirectory, path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Bool("recursive", recursive).Msg("created directory")
	return nil
}

// Delete removes path and everything below it
func Delete(ctx context.Context, path string) error {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return errors.Errorf("%w: %q does not exist", ErrDirectory, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return errors.Errorf("%w: reading %q: %v", ErrDirectory, path, err)
	}

	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if err := Delete(ctx, child); err != nil {
				return err
			}
			continue
		}
		if err := os.Remove(child); err != nil {
			return errors.Errorf("%w: removing %q: %v", ErrDirectory, child, err)
		}
	}

	if err := os.Remove(path); err != nil {
		return errors.Errorf("%w: removing %q: %v", ErrDirectory, path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("deleted directory")
	return nil
}

// Glob expands doublestar patterns into a sorted, de-duplicated list of regular files
func Glob(ctx context.Context, patterns ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, errors.Errorf("%w: invalid pattern %q", ErrDirectory, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("%w: expanding %q: %v", ErrDirectory, pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}

	sort.Strings(out)

	zerolog.Ctx(ctx).Debug().Strs("patterns", patterns).Int("matches", len(out)).Msg("expanded patterns")

	return out, nil
}
