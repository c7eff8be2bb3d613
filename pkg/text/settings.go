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

package text

import (
	"encoding/json"
	"reflect"

	"gitlab.com/tozd/go/errors"
)

// ⚙️ Settings controls how a Manager reads and serializes text
type Settings struct {
	// SkipEmptyLines drops lines that are exactly "\n" from ReadLines
	SkipEmptyLines bool `json:"skip_empty_lines" yaml:"skip_empty_lines"`
}

// TextToString serializes a structured payload as JSON. Nil values and
// empty maps, slices or arrays become the empty string.
func (s Settings) TextToString(v any) (string, error) {
	if isEmpty(v) {
		return "", nil
	}

	out, err := json.Marshal(v)
	if err != nil {
		return "", errors.Errorf("encoding text payload: %w", err)
	}
	return string(out), nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
