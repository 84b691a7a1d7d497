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

// Package frozen provides manually-managed unmanaged-memory collections: raw
// fixed-capacity buffers with allocate/realloc/shift/copy/clone/fill/scan/
// swap primitives, restartable cursors over those buffers, and a
// construct-once, read-only open-addressing hash table built on top of them.
//
// # Frozen maps
//
// A Map is built exactly once from a finite key->value association and is
// immutable afterwards: there is no Put, no Delete, and no resize. Giving up
// mutation buys a simpler and faster table. Collisions are handled with
// plain linear probing over a single flat slot array, which keeps all data
// contiguous and cache-friendly compared to a chained table. The capacity is
// a power of two so the modulo in the probe sequence reduces to a bitwise
// AND, and it is at least twice the entry count, so at least half of the
// slots are always empty. The bounded load factor keeps expected probe
// length O(1) without any tombstone bookkeeping, and since nothing is ever
// deleted, an empty slot is a true probe-chain boundary: lookups stop the
// moment they reach one.
//
// Keys are integers and the home slot of a key is its raw two's-complement
// bit pattern masked into range. There is deliberately no secondary mixing
// step: for the dense, small integer keys frozen tables are typically built
// from, the identity hash gives perfect or near-perfect slot distribution
// and saves the mixing work on every lookup. Keys with poor low-bit
// distribution will cluster; such callers can supply their own hash with
// WithKeyHash.
//
// Because construction strictly precedes every read and no post-construction
// mutation exists, a fully constructed Map may be read from any number of
// goroutines without locking. Construction itself, like every other
// operation in this package, is single-threaded.
//
// # Manual memory
//
// The slot array lives in a Buffer obtained from an Allocator. With the
// default heap allocator the GC reclaims everything and Close is optional.
// With a manually-managed allocator such as OffHeapAllocator, Close must be
// called to release the slot memory, and the keys and values must be
// blittable (fixed-size, copyable, no interior pointers) since the GC does
// not scan off-heap memory.
package frozen

import (
	"fmt"
	"strings"
)

const debug = false

// Key is the constraint for Map keys: any integer kind. The key's bit
// pattern doubles as its hash.
type Key interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Entry is a single key/value pair of a source association.
type Entry[K Key, V any] struct {
	Key   K
	Value V
}

// minCapacity is the smallest slot count a Map allocates. Tiny tables are
// all padded up to this size; it keeps the probe arithmetic uniform and the
// load factor low for trivial inputs.
const minCapacity = 16

// Map is a read-only open-addressing hash table from integer keys to values.
// Construct one with New or FromMap; afterwards it supports Get, TryGet,
// All, Cursor, Len, Cap, and Close, and nothing else.
//
// A Map is safe for concurrent readers once constructed. It is NOT
// goroutine-safe during construction or Close.
type Map[K Key, V any] struct {
	hash  func(K) uint64
	alloc Allocator[Slot[K, V]]
	slots Buffer[Slot[K, V]]
	// capacity is always a power of two >= minCapacity. mask = capacity-1
	// folds probe offsets into range with a bitwise AND.
	capacity uint64
	mask     uint64
	used     int
}

// New constructs a Map from the supplied entries. The entries are placed in
// slice order, though the resulting table does not depend on that order
// beyond which of two equal keys is reported by a *DuplicateKeyError.
//
// New fails with ErrInvalidArgument if entries is nil, and with a
// *DuplicateKeyError if two entries carry an equal key. No partially-built
// Map is ever returned: on failure the slot memory has already been released
// back to the allocator.
func New[K Key, V any](entries []Entry[K, V], options ...Option[K, V]) (*Map[K, V], error) {
	if entries == nil {
		return nil, ErrInvalidArgument
	}

	m := &Map[K, V]{
		hash:  rawKeyHash[K],
		alloc: HeapAllocator[Slot[K, V]](),
	}
	for _, op := range options {
		op.apply(m)
	}

	m.capacity = tableCapacity(len(entries))
	m.mask = m.capacity - 1
	m.slots = NewBufferIn(m.alloc, int(m.capacity))
	// Allocators hand back uninitialized memory; the zero slotState is
	// slotEmpty so a zero-fill empties the table.
	m.slots.Clear(int(m.capacity))

	for _, e := range entries {
		if err := m.place(e.Key, e.Value); err != nil {
			m.slots.Free()
			return nil, err
		}
	}

	m.checkInvariants()
	return m, nil
}

// FromMap constructs a Map from a builtin map. The keys of a builtin map are
// distinct so construction cannot fail with a duplicate key. FromMap fails
// with ErrInvalidArgument if src is nil.
func FromMap[K Key, V any](src map[K]V, options ...Option[K, V]) (*Map[K, V], error) {
	if src == nil {
		return nil, ErrInvalidArgument
	}
	entries := make([]Entry[K, V], 0, len(src))
	for k, v := range src {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	return New(entries, options...)
}

// tableCapacity returns max(minCapacity, nextPowerOfTwo(2*n)). The result
// holds n entries at a load factor of at most one half.
func tableCapacity(n int) uint64 {
	capacity := uint64(minCapacity)
	for capacity < 2*uint64(n) {
		capacity <<= 1
	}
	return capacity
}

// rawKeyHash is the default key hash: the key's two's-complement bit
// pattern, unmixed. Negative keys sign-extend, which is exactly the unsigned
// reinterpretation the probe mask folds into range.
func rawKeyHash[K Key](k K) uint64 {
	return uint64(k)
}

// place linear-probes from the key's home slot and fills the first empty
// slot found. Encountering an equal key fails the construction.
func (m *Map[K, V]) place(key K, value V) error {
	home := m.hash(key)
	if debug {
		fmt.Printf("place(%v): home=%d\n", key, home&m.mask)
	}

	for i := uint64(0); i < m.capacity; i++ {
		s := m.slots.At(int((home + i) & m.mask))
		switch {
		case s.state == slotEmpty:
			s.key = key
			s.value = value
			s.state = slotOccupied
			m.used++
			if debug {
				fmt.Printf("place(%v): index=%d probes=%d\n", key, (home+i)&m.mask, i+1)
			}
			return nil
		case s.key == key:
			return &DuplicateKeyError{Key: key}
		}
	}
	// The load factor guarantees an empty slot within capacity probes;
	// getting here means that invariant was violated.
	return ErrOverflow
}

// TryGet retrieves the value for key, returning ok=false if the key is not
// present.
func (m *Map[K, V]) TryGet(key K) (value V, ok bool) {
	home := m.hash(key)
	for i := uint64(0); i < m.capacity; i++ {
		s := m.slots.At(int((home + i) & m.mask))
		if s.state == slotEmpty {
			// This table never tombstones, so an empty slot is a true
			// probe-chain boundary.
			return value, false
		}
		if s.key == key {
			return s.value, true
		}
	}
	return value, false
}

// Get retrieves the value for key, failing with a *NotFoundError if the key
// is not present.
func (m *Map[K, V]) Get(key K) (V, error) {
	v, ok := m.TryGet(key)
	if !ok {
		return v, &NotFoundError{Key: key}
	}
	return v, nil
}

// All calls yield for each key and value in the map, in physical slot order.
// If yield returns false, iteration stops. Each entry is yielded exactly
// once.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	c := m.Cursor()
	for k, v, ok := c.Next(); ok; k, v, ok = c.Next() {
		if !yield(k, v) {
			return
		}
	}
}

// Cursor returns a restartable cursor over the map's occupied slots. The
// cursor is valid as long as the map has not been closed.
func (m *Map[K, V]) Cursor() *MapCursor[K, V] {
	return &MapCursor[K, V]{slots: m.slots.s, capacity: int(m.capacity)}
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.used
}

// Cap returns the map's slot capacity.
func (m *Map[K, V]) Cap() int {
	return int(m.capacity)
}

// Close releases the slot memory back to the map's allocator. It is
// unnecessary to close a map using the heap allocator. It is invalid to use
// a Map after it has been closed, though Close itself is idempotent.
func (m *Map[K, V]) Close() {
	m.slots.Free()
	m.capacity = 0
	m.mask = 0
	m.used = 0
}

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		if m.capacity < minCapacity || m.capacity&m.mask != 0 {
			panic(fmt.Sprintf("invariant failed: capacity %d is not a power of two >= %d\n%s",
				m.capacity, minCapacity, m.debugString()))
		}
		if 2*uint64(m.used) > m.capacity {
			panic(fmt.Sprintf("invariant failed: %d entries in %d slots exceeds half load\n%s",
				m.used, m.capacity, m.debugString()))
		}

		// Every occupied slot must be reachable through TryGet and no slot
		// may be tombstoned.
		var used int
		for i := 0; i < int(m.capacity); i++ {
			s := m.slots.At(i)
			switch s.state {
			case slotEmpty:
			case slotTombstone:
				panic(fmt.Sprintf("invariant failed: slot(%d) is tombstoned\n%s", i, m.debugString()))
			default:
				if _, ok := m.TryGet(s.key); !ok {
					panic(fmt.Sprintf("invariant failed: slot(%d): %v not found [home=%d]\n%s",
						i, s.key, m.hash(s.key)&m.mask, m.debugString()))
				}
				used++
			}
		}
		if used != m.used {
			panic(fmt.Sprintf("invariant failed: found %d occupied slots, but used count is %d\n%s",
				used, m.used, m.debugString()))
		}
	}
}

func (m *Map[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  used=%d\n", m.capacity, m.used)
	for i := 0; i < int(m.capacity); i++ {
		switch s := m.slots.At(i); s.state {
		case slotEmpty:
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
		case slotTombstone:
			fmt.Fprintf(&buf, "  %4d: tombstone\n", i)
		default:
			fmt.Fprintf(&buf, "  %4d: %v [home=%d]\n", i, s.key, m.hash(s.key)&m.mask)
		}
	}
	return buf.String()
}
