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

package status

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	rowsWidth   = 10 // Width for the row count
	statusWidth = 12 // Width for status text
)

// 🎯 FormatFileLine formats one file outcome as a padded, colored line
func FormatFileLine(info FileInfo) string {
	var prefix string
	switch info.Status {
	case StatusModified:
		prefix = color.YellowString("⟳")
	case StatusRestored:
		prefix = color.CyanString("↺")
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, info.Path)
	rowsPart := fmt.Sprintf("%-*s", rowsWidth, strconv.Itoa(info.Rows)+" rows")
	statusPart := fmt.Sprintf("%-*s", statusWidth, info.Status.String())

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		rowsPart,
		statusPart,
	)
}

// 📢 UserLogger prints file outcomes for people and mirrors them to zerolog
type UserLogger struct {
	log zerolog.Logger
}

// NewUserLogger creates a user logger bound to the context logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{log: *zerolog.Ctx(ctx)}
}

// LogFileChange prints one outcome with a prefix matching its status
func (u *UserLogger) LogFileChange(info FileInfo) {
	name := filepath.Base(info.Path)

	var printer *pterm.PrefixPrinter
	var action string
	switch info.Status {
	case StatusModified:
		action = "Rewrote"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "📝"})
	case StatusRestored:
		action = "Restored"
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "⏪"})
	case StatusFailed:
		action = "Failed"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	default:
		action = "Unchanged"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "⏭️"})
	}

	msg := fmt.Sprintf("%s %s (%d rows)", action, name, info.Rows)

	printer.Println(msg)
	if info.Error != nil {
		pterm.Error.Println(info.Error)
		u.log.Error().Err(info.Error).Msg(msg)
		return
	}
	u.log.Info().Msg(msg)
}

// LogSummary prints the totals of a batch run
func (u *UserLogger) LogSummary(files []FileInfo) {
	counts := map[FileStatus]int{}
	for _, f := range files {
		counts[f.Status]++
	}
	msg := fmt.Sprintf("%d files: %d modified, %d unchanged, %d failed, %d restored",
		len(files), counts[StatusModified], counts[StatusUnchanged], counts[StatusFailed], counts[StatusRestored])

	if counts[StatusFailed]+counts[StatusRestored] > 0 {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(msg)
		u.log.Warn().Msg(msg)
		return
	}
	pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(msg)
	u.log.Info().Msg(msg)
}
