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

package operation

import (
	"context"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/csvrc/pkg/dialect"
	"github.com/walteh/csvrc/pkg/directory"
	"github.com/walteh/csvrc/pkg/fileop"
	"github.com/walteh/csvrc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 RunnerOptions configures a Runner
type RunnerOptions struct {
	// Dialect used for every file, dialect.Default when nil
	Dialect *dialect.Dialect
	// Ops opens the files, fileop.OS when nil
	Ops fileop.Operations
	// Concurrency bounds how many files are processed at once, 1 when not positive
	Concurrency int
	// Reporter receives per-file outcomes and progress, optional
	Reporter status.StatusReporter
	// Backups saves each file before it is rewritten and restores it on failure, optional
	Backups status.BackupManager
}

// 🏃 Runner applies one Transform to many files. Distinct files may be
// processed in parallel; a single file is only ever touched by one goroutine.
type Runner struct {
	opts RunnerOptions
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Dialect == nil {
		opts.Dialect = dialect.Default()
	}
	if opts.Ops == nil {
		opts.Ops = fileop.OS{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Runner{opts: opts}
}

// Result is the outcome for one file
type Result struct {
	Path    string
	Changed bool
	Rows    int
	Err     error
}

// Run expands patterns and applies t to every matching file. Per-file
// failures do not stop the batch; they are returned joined, next to the
// results sorted by path.
func (r *Runner) Run(ctx context.Context, patterns []string, t Transform) ([]Result, error) {
	runID := uuid.New()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID.String()).Logger()
	ctx = logger.WithContext(ctx)

	files, err := directory.Glob(ctx, patterns...)
	if err != nil {
		return nil, errors.Errorf("expanding patterns: %w", err)
	}

	logger.Debug().Int("files", len(files)).Int("concurrency", r.opts.Concurrency).Msg("starting batch")

	if r.opts.Reporter != nil {
		r.opts.Reporter.StartOperation(ctx, len(files))
		defer r.opts.Reporter.FinishOperation(ctx)
	}

	var (
		mu        sync.Mutex
		results   = make([]Result, 0, len(files))
		processed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for _, path := range files {
		path := path
		g.Go(func() error {
			res := r.runFile(gctx, path, t)

			mu.Lock()
			results = append(results, res)
			processed++
			done := processed
			mu.Unlock()

			if r.opts.Reporter != nil {
				r.opts.Reporter.UpdateProgress(ctx, done)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("running batch: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, errors.Errorf("%s: %w", res.Path, res.Err))
		}
	}

	return results, errors.Join(errs...)
}

func (r *Runner) runFile(ctx context.Context, path string, t Transform) Result {
	res := Result{Path: path}

	mgr, err := NewManager(ctx, fileop.NewCSVFile(path), r.opts.Dialect, r.opts.Ops)
	if err != nil {
		res.Err = err
		r.track(ctx, res, status.StatusFailed)
		return res
	}

	if r.opts.Backups != nil {
		if err := r.opts.Backups.BackupFile(ctx, path); err != nil {
			res.Err = errors.Errorf("backing up: %w", err)
			r.track(ctx, res, status.StatusFailed)
			return res
		}
	}

	res.Changed, res.Err = mgr.Apply(ctx, t)

	if res.Err != nil {
		if r.opts.Backups != nil {
			if rerr := r.opts.Backups.RestoreFile(ctx, path); rerr != nil {
				zerolog.Ctx(ctx).Error().Err(rerr).Str("path", path).Msg("restoring backup failed")
				r.track(ctx, res, status.StatusFailed)
				return res
			}
			r.track(ctx, res, status.StatusRestored)
			return res
		}
		r.track(ctx, res, status.StatusFailed)
		return res
	}

	if r.opts.Backups != nil {
		if err := r.opts.Backups.RemoveBackup(ctx, path); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("removing backup failed")
		}
	}

	if tbl, err := mgr.Read(ctx, 0, nil); err == nil {
		res.Rows = len(tbl)
	}

	if res.Changed {
		r.track(ctx, res, status.StatusModified)
	} else {
		r.track(ctx, res, status.StatusUnchanged)
	}
	return res
}

func (r *Runner) track(ctx context.Context, res Result, st status.FileStatus) {
	if r.opts.Reporter == nil {
		return
	}
	info := status.FileInfo{Path: res.Path, Status: st, Rows: res.Rows, Error: res.Err}
	if fi, err := os.Stat(res.Path); err == nil {
		info.Size = fi.Size()
		if sum, err := status.Checksum(res.Path); err == nil {
			info.Checksum = sum
		}
	}
	r.opts.Reporter.TrackFile(ctx, res.Path, info)
}
