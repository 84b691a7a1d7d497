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

// Cursor is a single-pass forward iterator over the first length elements of
// a Buffer. It performs no filtering. Reset restarts the cursor from the
// first element.
//
// A cursor holds a raw position into the buffer: structurally mutating the
// buffer (Realloc, ShiftLeft, ShiftRight) while a cursor is live invalidates
// the cursor.
type Cursor[T any] struct {
	s      unsafeSlice[T]
	length int
	i      int
}

// NewCursor returns a cursor over the first length elements of b.
func NewCursor[T any](b *Buffer[T], length int) *Cursor[T] {
	return &Cursor[T]{s: b.s, length: length}
}

// Next returns the next element. ok is false once the cursor is exhausted.
func (c *Cursor[T]) Next() (v T, ok bool) {
	if c.i >= c.length {
		return v, false
	}
	v = *c.s.At(uintptr(c.i))
	c.i++
	return v, true
}

// Reset restarts the cursor at the first element.
func (c *Cursor[T]) Reset() { c.i = 0 }

// MapCursor is a single-pass, restartable cursor over the slots of a Map. It
// walks the table's full physical capacity and yields only the (key, value)
// pairs of occupied slots, silently skipping empty and tombstoned ones. The
// yield order is physical slot order, a function of hashing and probing, not
// insertion order.
type MapCursor[K Key, V any] struct {
	slots    unsafeSlice[Slot[K, V]]
	capacity int
	i        int
}

// Next returns the next occupied (key, value) pair. ok is false once every
// occupied slot has been yielded.
func (c *MapCursor[K, V]) Next() (key K, value V, ok bool) {
	for c.i < c.capacity {
		s := c.slots.At(uintptr(c.i))
		c.i++
		if s.state == slotOccupied {
			return s.key, s.value, true
		}
	}
	return key, value, false
}

// Reset restarts the cursor at the first physical slot.
func (c *MapCursor[K, V]) Reset() { c.i = 0 }
