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

package opts

import (
	"context"

	"github.com/walteh/csvrc/pkg/config"
	"github.com/walteh/csvrc/pkg/dialect"
	"github.com/walteh/csvrc/pkg/fileop"
	"github.com/walteh/csvrc/pkg/log"
	"github.com/walteh/csvrc/pkg/operation"
)

// RootOpts contains shared options used by all commands. It is filled in by
// the root command before any subcommand runs.
type RootOpts struct {
	Config  *config.Config
	Dialect *dialect.Dialect
	Ops     fileop.Operations
	Console *log.Logger
}

// Manager builds a csv manager for path with the resolved dialect
func (o *RootOpts) Manager(ctx context.Context, path string) (*operation.Manager, error) {
	return operation.NewManager(ctx, fileop.NewCSVFile(path), o.Dialect, o.Ops)
}
