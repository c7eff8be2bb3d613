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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, console io.Writer) *Logger {
	return New(console, zerolog.InfoLevel).WithZerolog(zerolog.New(zerolog.NewTestWriter(t)))
}

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_mutation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogMutation(context.Background(), Mutation{
					Path:    "people.csv",
					Kind:    "delete-columns",
					Rows:    3,
					Changed: true,
				})
			},
			wantLogs: []string{
				"⟳ people.csv" + strings.Repeat(" ", 25) + " delete-columns  UPDATED",
			},
		},
		{
			name: "log_batch",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBatch(context.Background(), Batch{
					Patterns: []string{"data/**/*.csv", "extra.csv"},
					Dialect:  "sep=;",
					Backup:   true,
				})
			},
			wantLogs: []string{
				"[rewriting data/**/*.csv extra.csv]",
				"◆ sep=; • backup",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("rewriting csv files")
			},
			wantLogs: []string{
				"csvrc • rewriting csv files",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := newTestLogger(t, buf)

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.InfoLevel)

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestMutationFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	pad := func(s string, width int) string {
		return s + strings.Repeat(" ", width-len(s))
	}

	tests := []struct {
		name string
		m    Mutation
		want string
	}{
		{
			name: "changed",
			m:    Mutation{Path: "a.csv", Kind: "update-headers", Changed: true},
			want: "    ⟳ " + pad("a.csv", 35) + " " + pad("update-headers", 15) + " " + pad("UPDATED", 15),
		},
		{
			name: "unchanged",
			m:    Mutation{Path: "a.csv", Kind: "delete-lines"},
			want: "    - " + pad("a.csv", 35) + " " + pad("delete-lines", 15) + " " + pad("no change", 15),
		},
		{
			name: "failed",
			m:    Mutation{Path: "a.csv", Kind: "overwrite", Failed: true, Changed: true},
			want: "    ✗ " + pad("a.csv", 35) + " " + pad("overwrite", 15) + " " + pad("FAILED", 15),
		},
		{
			name: "read_only",
			m:    Mutation{Path: "a.csv", Kind: "read", Rows: 12, ReadOnly: true},
			want: "    • " + pad("a.csv", 35) + " " + pad("read", 15) + " " + pad("12 rows", 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newTestLogger(t, buf)

			logger.LogMutation(context.Background(), tt.m)

			assert.Equal(t, tt.want+"\n", buf.String(), "formatted output should match")
		})
	}
}

func TestEndBatch(t *testing.T) {
	logger := newTestLogger(t, io.Discard)
	ctx := context.Background()

	assert.Nil(t, logger.EndBatch(ctx), "no batch in progress")

	logger.StartBatch(ctx, Batch{Patterns: []string{"*.csv"}})
	logger.LogMutation(ctx, Mutation{Path: "a.csv", Kind: "delete-lines", Changed: true})
	logger.LogMutation(ctx, Mutation{Path: "b.csv", Kind: "delete-lines", Failed: true})

	done := logger.EndBatch(ctx)
	require.Len(t, done, 2)
	assert.Equal(t, "a.csv", done[0].Path)
	assert.Nil(t, logger.EndBatch(ctx), "batch already ended")
}
