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

// shiftKeys closes the gap left by vacating slot pos of a linear probing
// table, without leaving a tombstone.
//
// Scanning forward from the gap, an entry can fill it only if its natural
// slot does not lie cyclically in (last, pos], where last is the gap and pos
// the entry's current slot: otherwise moving it would put it before the
// start of its own probe sequence. The first entry that can move is copied
// into the gap, its old slot becomes the new gap, and the scan continues.
// The scan stops at an empty slot, and the final gap is cleared.
//
// Whenever an entry is moved from a lower index to a higher one, i.e. across
// the end of the table, onWrap (if not nil) is called with the entry.
// Iterators, which scan from the end of the table, use this to find entries
// carried into the part of the table they have already visited.
//
// keys[mask+1] and values[mask+1], the zero key slot, are never touched.
func shiftKeys[K comparable, V any](
	keys []K, values []V, mask, pos int, s Strategy[K], onWrap func(key K, value V),
) {
	var zeroK K
	var zeroV V
	for {
		last := pos
		pos = (pos + 1) & mask
		var curr K
		for {
			curr = keys[pos]
			if s.Equal(curr, zeroK) {
				keys[last], values[last] = zeroK, zeroV
				return
			}
			slot := slotOf(s, curr, mask)
			if last <= pos {
				if last >= slot || slot > pos {
					break
				}
			} else if last >= slot && slot > pos {
				break
			}
			pos = (pos + 1) & mask
		}
		if pos < last && onWrap != nil {
			onWrap(curr, values[pos])
		}
		keys[last], values[last] = curr, values[pos]
	}
}
