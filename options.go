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

// Option does work on a Map while it is being constructed.
type Option[K Key, V any] interface {
	apply(m *Map[K, V])
}

type keyHashOption[K Key, V any] struct {
	hash func(K) uint64
}

func (op keyHashOption[K, V]) apply(m *Map[K, V]) {
	m.hash = op.hash
}

// WithKeyHash is an option to replace the default raw-bit-pattern key hash.
// The hash value is used unmixed: only the low bits select the home slot, so
// the supplied function is responsible for its own bit distribution.
func WithKeyHash[K Key, V any](hash func(K) uint64) Option[K, V] {
	return keyHashOption[K, V]{hash}
}

type allocatorOption[K Key, V any] struct {
	allocator Allocator[Slot[K, V]]
}

func (op allocatorOption[K, V]) apply(m *Map[K, V]) {
	m.alloc = op.allocator
}

// WithAllocator is an option to specify the Allocator backing the map's slot
// buffer. If the allocator manages memory manually, Map.Close must be called
// to release it.
func WithAllocator[K Key, V any](allocator Allocator[Slot[K, V]]) Option[K, V] {
	return allocatorOption[K, V]{allocator}
}
