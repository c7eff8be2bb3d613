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

package codec

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFieldIndexOutOfRange is returned when a column selection names a position a record does not have.
	ErrFieldIndexOutOfRange = errors.Base("field index out of range")
	// ErrWriteFailure is returned when a row could not be written in full.
	ErrWriteFailure = errors.Base("write failure")
)

// FieldIndexError locates a column selection that fell outside a record.
type FieldIndexError struct {
	Line   int // decoder counter of the record
	Column int // requested column
	Width  int // number of fields the record actually has
}

// Error formats the field index error with the stored line, column and width values.
func (e *FieldIndexError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: record %d has %d fields, column %d requested", ErrFieldIndexOutOfRange, e.Line, e.Width, e.Column)
}

// Unwrap returns ErrFieldIndexOutOfRange so the error matches with errors.Is.
func (e *FieldIndexError) Unwrap() error {
	return ErrFieldIndexOutOfRange
}

// WriteError reports the row at which encoding stopped and the cause.
type WriteError struct {
	Row int
	Err error
}

// Error formats the write error message with the failing row and cause.
func (e *WriteError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: row %d: %v", ErrWriteFailure, e.Row, e.Err)
}

// Unwrap exposes both ErrWriteFailure and the underlying cause.
func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailure, e.Err}
}
