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
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestNextPowerOfTwo(t *testing.T) {
	testCases := []struct{ x, expected int }{
		{-1, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {1000, 1024}, {1 << 20, 1 << 20},
	}
	for _, c := range testCases {
		require.Equal(t, c.expected, nextPowerOfTwo(c.x), "%d", c.x)
	}
}

func TestMaxFill(t *testing.T) {
	testCases := []struct {
		n        int
		f        float32
		expected int
	}{
		{2, 0.75, 1},
		{4, 0.75, 3},
		{8, 0.75, 6},
		{16, 0.75, 12},
		{8, 0.5, 4},
		{8, 0.99, 7},
		{2, 0.1, 1},
		{1024, 0.9, 922},
	}
	for _, c := range testCases {
		t.Run(fmt.Sprintf("%d/%v", c.n, c.f), func(t *testing.T) {
			require.Equal(t, c.expected, maxFill(c.n, c.f))
		})
	}
}

func TestArraySize(t *testing.T) {
	for _, f := range []float32{0.1, 0.5, 0.75, 0.9, 0.99} {
		for expected := 0; expected < 2000; expected++ {
			n, err := arraySize(expected, f)
			require.NoError(t, err)
			require.Equal(t, n, nextPowerOfTwo(n))
			require.GreaterOrEqual(t, n, 2)
			require.GreaterOrEqual(t, maxFill(n, f), min(expected, n-1))
			// The next smaller table would be too small.
			if n > 2 {
				require.Less(t, float64(n/2)*float64(f), float64(expected))
			}
		}
	}

	_, err := arraySize(1<<30, 0.75)
	require.True(t, errors.Is(err, ErrInvalidArgument), err)
}

func TestMixSpreadsSequentialKeys(t *testing.T) {
	// Sequential keys used as their own hash should spread over the whole
	// table, not cluster.
	const n = 1024
	used := make(map[int]bool)
	for k := 0; k < n; k++ {
		used[slotOf[int](IntegerStrategy[int]{}, k, n-1)] = true
	}
	require.Greater(t, len(used), n/2)
}
