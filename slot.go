// Copyright 2025 The Frozen Authors
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

package frozen

// slotState is the lifecycle tag of a Slot. The zero value is slotEmpty so
// that zero-filled slot memory reads as an empty table.
//
// State transitions are Empty -> Occupied on insert and Occupied ->
// Tombstone on delete. A frozen Map only ever performs the first one;
// tombstones exist for mutable structures built on the same slot layout,
// where a vacated slot must remain probe-passable so that lookups for keys
// placed beyond it still succeed.
type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

// Slot holds a key, a value, and the slot's lifecycle state. The key and
// value are meaningful only when the state is slotOccupied.
//
// The layout is fixed and sequential, which lets a raw allocation be aliased
// as a []Slot without copying. For that reason K and V should be blittable:
// fixed-size, copyable, no interior references.
type Slot[K Key, V any] struct {
	key   K
	value V
	state slotState
}
