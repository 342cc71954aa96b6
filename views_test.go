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

func TestKeySetView(t *testing.T) {
	m := newMap[int, string](t, 0)
	m.Put(1, "a")
	m.Put(2, "b")
	m.Put(0, "z")

	ks := m.KeySet()
	require.EqualValues(t, 3, ks.Len())
	require.True(t, ks.Contains(0))
	require.False(t, ks.Contains(3))

	var keys []int
	for k := range ks.All() {
		keys = append(keys, k)
	}
	require.ElementsMatch(t, []int{0, 1, 2}, keys)

	// The view is live.
	require.True(t, ks.Remove(1))
	require.False(t, ks.Remove(1))
	require.False(t, m.ContainsKey(1))
	m.Put(5, "e")
	require.True(t, ks.Contains(5))

	it := ks.Iterator()
	for it.Next() {
		if it.Key() == 5 {
			require.NoError(t, it.Remove())
		}
	}
	require.False(t, m.ContainsKey(5))

	ks.Clear()
	require.True(t, m.IsEmpty())
}

func TestValuesView(t *testing.T) {
	m := newMap[int, string](t, 0)
	m.Put(1, "a")
	m.Put(2, "a")
	m.Put(3, "b")

	vs := m.ValueCollection()
	require.EqualValues(t, 3, vs.Len())
	require.True(t, vs.ContainsFunc(func(v string) bool { return v == "a" }))
	require.False(t, vs.ContainsFunc(func(v string) bool { return v == "c" }))

	var values []string
	for v := range vs.All() {
		values = append(values, v)
	}
	require.ElementsMatch(t, []string{"a", "a", "b"}, values)

	it := vs.Iterator()
	for it.Next() {
		if it.Value() == "a" {
			require.NoError(t, it.Remove())
		}
	}
	require.Equal(t, map[int]string{3: "b"}, m.toBuiltinMap())

	vs.Clear()
	require.EqualValues(t, 0, vs.Len())
}

func TestEntrySetView(t *testing.T) {
	m := newMap[int, string](t, 0)
	m.Put(1, "a")
	m.Put(2, "b")

	es := m.EntrySet()
	require.EqualValues(t, 2, es.Len())
	is := func(want string) func(string) bool {
		return func(v string) bool { return v == want }
	}
	require.True(t, es.ContainsFunc(1, is("a")))
	require.False(t, es.ContainsFunc(1, is("b")))
	require.False(t, es.ContainsFunc(3, is("a")))

	require.False(t, es.RemoveFunc(1, is("b")))
	require.True(t, es.RemoveFunc(1, is("a")))
	require.False(t, m.ContainsKey(1))

	it := es.Iterator()
	for it.HasNext() {
		e, err := it.NextEntry()
		require.NoError(t, err)
		e.SetValue(e.Value() + "!")
	}
	got := make(map[int]string)
	for k, v := range es.All() {
		got[k] = v
	}
	require.Equal(t, map[int]string{2: "b!"}, got)

	es.Clear()
	require.True(t, m.IsEmpty())
}
