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

package fileop

import (
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🚪 Mode is an fopen style access mode
type Mode string

const (
	ModeRead             Mode = "r"
	ModeReadBinary       Mode = "rb"
	ModeReadWrite        Mode = "r+"
	ModeReadWriteBinary  Mode = "rb+"
	ModeWrite            Mode = "w"
	ModeWriteRead        Mode = "w+"
	ModeWriteBinary      Mode = "wb"
	ModeWriteReadBinary  Mode = "wb+"
	ModeAppend           Mode = "a"
	ModeAppendRead       Mode = "a+"
	ModeAppendBinary     Mode = "ab"
	ModeAppendReadBinary Mode = "ab+"
	ModeExclusive        Mode = "x"
	ModeExclusiveRead    Mode = "x+"
	ModeExclusiveBinary  Mode = "xb"
	ModeExclusiveReadBin Mode = "xb+"
	ModeCreate           Mode = "c"
	ModeCreateRead       Mode = "c+"
	ModeCreateBinary     Mode = "cb"
	ModeCreateReadBinary Mode = "cb+"
)

var modeFlags = map[Mode]int{
	ModeRead:             os.O_RDONLY,
	ModeReadBinary:       os.O_RDONLY,
	ModeReadWrite:        os.O_RDWR,
	ModeReadWriteBinary:  os.O_RDWR,
	ModeWrite:            os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	ModeWriteRead:        os.O_RDWR | os.O_CREATE | os.O_TRUNC,
	ModeWriteBinary:      os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	ModeWriteReadBinary:  os.O_RDWR | os.O_CREATE | os.O_TRUNC,
	ModeAppend:           os.O_WRONLY | os.O_CREATE | os.O_APPEND,
	ModeAppendRead:       os.O_RDWR | os.O_CREATE | os.O_APPEND,
	ModeAppendBinary:     os.O_WRONLY | os.O_CREATE | os.O_APPEND,
	ModeAppendReadBinary: os.O_RDWR | os.O_CREATE | os.O_APPEND,
	ModeExclusive:        os.O_WRONLY | os.O_CREATE | os.O_EXCL,
	ModeExclusiveRead:    os.O_RDWR | os.O_CREATE | os.O_EXCL,
	ModeExclusiveBinary:  os.O_WRONLY | os.O_CREATE | os.O_EXCL,
	ModeExclusiveReadBin: os.O_RDWR | os.O_CREATE | os.O_EXCL,
	ModeCreate:           os.O_WRONLY | os.O_CREATE,
	ModeCreateRead:       os.O_RDWR | os.O_CREATE,
	ModeCreateBinary:     os.O_WRONLY | os.O_CREATE,
	ModeCreateReadBinary: os.O_RDWR | os.O_CREATE,
}

// ParseMode accepts an fopen mode string. "r+b" and "rb+" are the same mode.
func ParseMode(s string) (Mode, error) {
	norm := strings.TrimSpace(s)
	if len(norm) == 3 && norm[1] == '+' && norm[2] == 'b' {
		norm = norm[:1] + "b+"
	}
	m := Mode(norm)
	if !m.Valid() {
		return "", errors.Errorf("%w: unknown mode %q", ErrFileError, s)
	}
	return m, nil
}

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	_, ok := modeFlags[m]
	return ok
}

// Readable reports whether a handle opened with m can be read
func (m Mode) Readable() bool {
	return m.flags()&(os.O_WRONLY|os.O_RDWR) != os.O_WRONLY
}

// Writable reports whether a handle opened with m can be written
func (m Mode) Writable() bool {
	return m.flags()&(os.O_WRONLY|os.O_RDWR) != 0
}

// Truncates reports whether opening with m discards the current content
func (m Mode) Truncates() bool {
	return m.flags()&os.O_TRUNC != 0
}

func (m Mode) flags() int {
	return modeFlags[m]
}
