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

// Allocator specifies an interface for allocating and releasing the memory
// backing a Buffer or a Map. The default allocator utilizes Go's builtin
// make() and allows the GC to reclaim memory.
//
// If the allocator is manually managing memory then every Alloc must be
// paired with a Free on every exit path: nothing reclaims the memory
// automatically. Buffer.Free and Map.Close exist to uphold that pairing.
type Allocator[T any] interface {
	// Alloc should return a slice equivalent to make([]T, n). The contents
	// of the returned memory are unspecified; callers must initialize
	// elements before reading them.
	Alloc(n int) []T

	// Free releases the memory associated with the supplied slice which is
	// guaranteed to have been returned by Alloc.
	Free(v []T)
}

type heapAllocator[T any] struct{}

func (heapAllocator[T]) Alloc(n int) []T {
	return make([]T, n)
}

func (heapAllocator[T]) Free(v []T) {
}

// HeapAllocator returns the default Allocator backed by the Go heap. Free is
// a no-op; the GC reclaims the memory once it is unreachable.
func HeapAllocator[T any]() Allocator[T] {
	return heapAllocator[T]{}
}
