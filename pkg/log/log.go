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
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	kindWidth   = 15 // Width for the mutation kind
	statusWidth = 15 // Width for status text
)

// 🎯 Mutation describes one csv operation on one file
type Mutation struct {
	Path     string // File path
	Kind     string // Operation name (delete-columns, update-headers, read, ...)
	Rows     int    // Rows in the file after the operation
	Changed  bool   // Whether the file was rewritten
	Failed   bool   // Whether the operation failed
	ReadOnly bool   // Whether the operation only read the file
}

// Status returns the short status text printed for m
func (m Mutation) Status() string {
	switch {
	case m.Failed:
		return "FAILED"
	case m.ReadOnly:
		return fmt.Sprintf("%d rows", m.Rows)
	case m.Changed:
		return "UPDATED"
	default:
		return "no change"
	}
}

// 📦 Batch describes a multi-file run
type Batch struct {
	Patterns []string // Glob patterns that were expanded
	Dialect  string   // Dialect description
	Backup   bool     // Whether backups are kept while rewriting
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	current   *Batch
	mutations []Mutation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// WithZerolog replaces the structured mirror and returns l
func (l *Logger) WithZerolog(zlog zerolog.Logger) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog = zlog
	return l
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatMutation formats a mutation for display
func (l *Logger) formatMutation(m Mutation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case m.Failed:
		symbol = '✗'
		symbolColor = color.FgRed
	case m.ReadOnly:
		symbol = '•'
		symbolColor = color.FgCyan
	case m.Changed:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, m.Path),
		color.New(color.FgMagenta).Sprint(fmt.Sprintf("%-*s", kindWidth, m.Kind)),
		fmt.Sprintf("%-*s", statusWidth, m.Status()))
}

// 📝 LogMutation prints a one-line summary of m and mirrors it to zerolog
func (l *Logger) LogMutation(ctx context.Context, m Mutation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to mutations list
	l.mutations = append(l.mutations, m)

	// Format and print
	fmt.Fprintln(l.console, l.formatMutation(m))

	// Log to zerolog
	l.zlog.Info().
		Str("file", m.Path).
		Str("kind", m.Kind).
		Str("status", m.Status()).
		Int("rows", m.Rows).
		Bool("changed", m.Changed).
		Bool("failed", m.Failed).
		Msg("csv operation")
}

// 📝 StartBatch prints the batch header and resets the collected mutations
func (l *Logger) StartBatch(ctx context.Context, b Batch) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &b
	l.mutations = nil

	// Print batch header
	fmt.Fprintf(l.console, "[rewriting %s]\n",
		color.New(color.FgCyan).Sprint(strings.Join(b.Patterns, " ")))

	backup := "no backup"
	if b.Backup {
		backup = "backup"
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(b.Dialect),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(backup))

	// Log to zerolog
	l.zlog.Info().
		Strs("patterns", b.Patterns).
		Str("dialect", b.Dialect).
		Bool("backup", b.Backup).
		Msg("starting batch")
}

// 📝 EndBatch logs a summary of the current batch and returns its mutations
func (l *Logger) EndBatch(ctx context.Context) []Mutation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil
	}

	changed, failed := 0, 0
	for _, m := range l.mutations {
		if m.Failed {
			failed++
		} else if m.Changed {
			changed++
		}
	}

	// Log summary
	l.zlog.Info().
		Int("files", len(l.mutations)).
		Int("changed", changed).
		Int("failed", failed).
		Msg("batch complete")

	done := l.mutations
	l.current = nil
	l.mutations = nil
	return done
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	nameText := color.New(color.Bold, color.FgCyan).Sprint("csvrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", nameText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
