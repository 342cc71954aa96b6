// Copyright 2024 The Cockroach Authors
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

package fastutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// layout builds a table of size 8 holding key k at slot at[k].
func layout(at map[int]int) ([]int, []string) {
	keys := make([]int, 9)
	values := make([]string, 9)
	for k, slot := range at {
		keys[slot] = k
		values[slot] = string(rune('a' + k - 1))
	}
	return keys, values
}

func TestShiftKeys(t *testing.T) {
	testCases := []struct {
		name string
		// natural slot per key
		natural map[int]int
		// current slot per key
		at           map[int]int
		vacate       int
		expectedKeys []int
		wrapped      []int
	}{
		{
			name:         "end of run",
			natural:      map[int]int{1: 2, 2: 2},
			at:           map[int]int{1: 2, 2: 3},
			vacate:       3,
			expectedKeys: []int{0, 0, 1, 0, 0, 0, 0, 0, 0},
		},
		{
			name:         "skip entry at home",
			natural:      map[int]int{1: 2, 2: 2, 3: 4, 4: 3},
			at:           map[int]int{1: 2, 2: 3, 3: 4, 4: 5},
			vacate:       2,
			expectedKeys: []int{0, 0, 2, 4, 3, 0, 0, 0, 0},
		},
		{
			name:         "cannot move before natural slot across the end",
			natural:      map[int]int{1: 6, 2: 7, 3: 7},
			at:           map[int]int{1: 6, 2: 7, 3: 0},
			vacate:       6,
			expectedKeys: []int{3, 0, 0, 0, 0, 0, 0, 2, 0},
		},
		{
			name:         "wrap",
			natural:      map[int]int{1: 6, 2: 6, 3: 6},
			at:           map[int]int{1: 6, 2: 7, 3: 0},
			vacate:       7,
			expectedKeys: []int{0, 0, 0, 0, 0, 0, 1, 3, 0},
			wrapped:      []int{3},
		},
		{
			name:         "wrap then continue",
			natural:      map[int]int{1: 6, 2: 6, 3: 6, 4: 0},
			at:           map[int]int{1: 6, 2: 7, 3: 0, 4: 1},
			vacate:       6,
			expectedKeys: []int{4, 0, 0, 0, 0, 0, 2, 3, 0},
			wrapped:      []int{3},
		},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			s := slotStrategy{mask: 7, slots: c.natural}
			keys, values := layout(c.at)
			var wrapped []int
			shiftKeys(keys, values, 7, c.vacate, s, func(k int, _ string) {
				wrapped = append(wrapped, k)
			})
			require.Equal(t, c.expectedKeys, keys)
			require.Equal(t, c.wrapped, wrapped)
			for i, k := range keys {
				if k == 0 {
					require.Equal(t, "", values[i])
				} else {
					require.Equal(t, string(rune('a'+k-1)), values[i])
				}
			}
		})
	}
}
