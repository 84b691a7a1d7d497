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

// Buffer is a contiguous fixed-capacity region of memory interpreted as an
// array of T. A Buffer is exclusively owned by its creator: it is created by
// NewBuffer or NewBufferIn, mutated only through the operations below, and
// destroyed by an explicit Free. Whichever component allocates a Buffer is
// responsible for the matching Free, including on error paths.
//
// None of the operations validate indices or counts. An index or count
// outside the buffer's real extent is a contract violation by the caller and
// the behavior is undefined, not a recoverable error. Bounds enforcement is
// the responsibility of the layer above, which is how Map uses this type.
//
// A Buffer is not goroutine-safe. Element pointers returned by At are
// invalidated by Realloc.
type Buffer[T any] struct {
	alloc Allocator[T]
	// mem retains the allocation so the GC keeps heap-backed memory alive
	// and so Free can hand the original slice back to the allocator.
	mem []T
	s   unsafeSlice[T]
	cap int
}

// NewBuffer allocates a Buffer of n elements on the Go heap. The contents
// are unspecified; initialize elements before reading them.
func NewBuffer[T any](n int) Buffer[T] {
	return NewBufferIn[T](HeapAllocator[T](), n)
}

// NewBufferIn allocates a Buffer of n elements using the supplied Allocator.
func NewBufferIn[T any](a Allocator[T], n int) Buffer[T] {
	mem := a.Alloc(n)
	return Buffer[T]{alloc: a, mem: mem, s: makeUnsafeSlice(mem), cap: n}
}

// Cap returns the buffer's capacity in elements.
func (b *Buffer[T]) Cap() int { return b.cap }

// At returns a pointer to the element at index i. The pointer is valid until
// the next Realloc or Free.
func (b *Buffer[T]) At(i int) *T {
	return b.s.At(uintptr(i))
}

// Set stores v at index i.
func (b *Buffer[T]) Set(i int, v T) {
	*b.s.At(uintptr(i)) = v
}

// Realloc resizes the buffer to n elements, preserving the first
// min(old, new) elements. The backing memory may be relocated: any element
// pointer previously obtained from At is invalid afterwards and must be
// refreshed. Elements beyond the preserved prefix are unspecified.
func (b *Buffer[T]) Realloc(n int) {
	mem := b.alloc.Alloc(n)
	keep := b.cap
	if n < keep {
		keep = n
	}
	copy(mem[:keep], b.mem[:keep])
	b.alloc.Free(b.mem)
	b.mem = mem
	b.s = makeUnsafeSlice(mem)
	b.cap = n
}

// Free releases the buffer's memory back to its allocator. Free is
// idempotent; any further use of the buffer's contents is invalid.
func (b *Buffer[T]) Free() {
	if b.mem == nil {
		return
	}
	b.alloc.Free(b.mem)
	b.mem = nil
	b.s = unsafeSlice[T]{}
	b.cap = 0
}

// Clear zero-fills the first n elements.
func (b *Buffer[T]) Clear(n int) {
	var zero T
	for i := uintptr(0); i < uintptr(n); i++ {
		*b.s.At(i) = zero
	}
}

// Fill sets each of the first n elements to v.
func (b *Buffer[T]) Fill(v T, n int) {
	for i := uintptr(0); i < uintptr(n); i++ {
		*b.s.At(i) = v
	}
}

// ShiftRight opens a gap of count elements at index by moving the range
// [index, length) to [index+count, length+count). The move copies from the
// tail backward so overlapping source and destination are safe. ShiftRight
// is a no-op when count <= 0 or there is nothing to move. The caller must
// guarantee capacity >= length+count.
func (b *Buffer[T]) ShiftRight(index, count, length int) {
	if count <= 0 || index >= length {
		return
	}
	for i := length - 1; i >= index; i-- {
		*b.s.At(uintptr(i + count)) = *b.s.At(uintptr(i))
	}
}

// ShiftLeft closes a gap of count elements at index by moving the range
// [index+count, length) down to [index, ...). ShiftLeft is a no-op when
// count <= 0 or there is nothing to move.
func (b *Buffer[T]) ShiftLeft(index, count, length int) {
	if count <= 0 || index+count >= length {
		return
	}
	for i := index + count; i < length; i++ {
		*b.s.At(uintptr(i - count)) = *b.s.At(uintptr(i))
	}
}

// Swap exchanges the elements at indices i and j. Swap is a no-op when
// i == j.
func (b *Buffer[T]) Swap(i, j int) {
	if i == j {
		return
	}
	pi, pj := b.s.At(uintptr(i)), b.s.At(uintptr(j))
	*pi, *pj = *pj, *pi
}

// Clone allocates a new buffer of n elements from the same allocator and
// copies the first n elements of b into it.
func (b *Buffer[T]) Clone(n int) Buffer[T] {
	c := NewBufferIn[T](b.alloc, n)
	CopyBuffer(&c, b, n)
	return c
}

// CopyBuffer block-copies the first n elements of src into dst. The source
// and destination must not overlap; unlike ShiftRight/ShiftLeft the behavior
// for overlapping ranges is undefined.
func CopyBuffer[T any](dst, src *Buffer[T], n int) {
	copy(dst.s.Slice(0, uintptr(n)), src.s.Slice(0, uintptr(n)))
}

// IndexOf linearly scans the first length elements of b for the first
// element equal to v, returning its index or -1 if there is no match.
func IndexOf[T comparable](b *Buffer[T], v T, length int) int {
	for i := uintptr(0); i < uintptr(length); i++ {
		if *b.s.At(i) == v {
			return int(i)
		}
	}
	return -1
}
