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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/csvrc/pkg/table"
)

func people() table.Table {
	return table.Table{
		table.Strings("id", "name", "age"),
		table.Strings("1", "John", "30"),
		table.Strings("2", "Jane", "25"),
	}
}

func values(t table.Table) [][]string {
	out := make([][]string, len(t))
	for i, row := range t {
		out[i] = row.Values()
	}
	return out
}

func TestTransforms(t *testing.T) {
	tests := []struct {
		name      string
		transform Transform
		want      [][]string
	}{
		{
			name:      "delete_columns",
			transform: DeleteColumns(0, 2),
			want:      [][]string{{"name"}, {"John"}, {"Jane"}},
		},
		{
			name:      "delete_columns_out_of_range",
			transform: DeleteColumns(9),
			want:      [][]string{{"id", "name", "age"}, {"1", "John", "30"}, {"2", "Jane", "25"}},
		},
		{
			name:      "delete_lines",
			transform: DeleteLines(0, 2, 5),
			want:      [][]string{{"1", "John", "30"}},
		},
		{
			name:      "rename_headers",
			transform: RenameHeaders(map[int]string{1: "Full Name"}),
			want:      [][]string{{"id", "Full Name", "age"}, {"1", "John", "30"}, {"2", "Jane", "25"}},
		},
		{
			name:      "composed",
			transform: DeleteLines(0).Then(DeleteColumns(1)),
			want:      [][]string{{"1", "30"}, {"2", "25"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := people()
			got := tt.transform(in)
			assert.Equal(t, tt.want, values(got))
			assert.Equal(t, people(), in, "input table must not change")
		})
	}
}

func TestRenameHeaders_EmptyTable(t *testing.T) {
	assert.Empty(t, RenameHeaders(map[int]string{0: "x"})(nil))
}

func TestRenameHeaders_CopiesMap(t *testing.T) {
	headers := map[int]string{0: "ID"}
	tr := RenameHeaders(headers)
	headers[0] = "changed"

	got := tr(people())
	assert.Equal(t, "ID", got[0][0].Value)
}
