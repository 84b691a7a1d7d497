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

//go:build unix

package frozen

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// offHeapAllocator allocates anonymous private mappings outside the Go heap.
type offHeapAllocator[T any] struct{}

// OffHeapAllocator returns an Allocator backed by anonymous mmap. The memory
// is invisible to the garbage collector, so T must not contain pointers into
// the Go heap; storing a pointer in off-heap memory hides it from the GC and
// the referenced object may be collected while still in use.
//
// Every Alloc must be paired with a Free or the mapping leaks for the life
// of the process.
func OffHeapAllocator[T any]() Allocator[T] {
	return offHeapAllocator[T]{}
}

func (offHeapAllocator[T]) Alloc(n int) []T {
	if n == 0 {
		return nil
	}
	var t T
	size := int(unsafe.Sizeof(t)) * n
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		panic(fmt.Sprintf("frozen: mmap of %d bytes failed: %v", size, err))
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), n)
}

func (offHeapAllocator[T]) Free(v []T) {
	if len(v) == 0 {
		return
	}
	var t T
	size := int(unsafe.Sizeof(t)) * len(v)
	// Reconstruct the byte slice handed out by Mmap. The data pointer and
	// capacity match the original mapping, which is what Munmap keys on.
	data := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v))), size)
	if err := unix.Munmap(data); err != nil {
		panic(fmt.Sprintf("frozen: munmap failed: %v", err))
	}
}
