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

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// toBuiltinMap returns the elements as a map[K]V. Useful for testing.
func (m *Map[K, V]) toBuiltinMap() map[K]V {
	r := make(map[K]V)
	m.All(func(k K, v V) bool {
		r[k] = v
		return true
	})
	return r
}

func sequentialEntries(count int) []Entry[int64, int64] {
	entries := make([]Entry[int64, int64], count)
	for i := range entries {
		entries[i] = Entry[int64, int64]{Key: int64(i), Value: int64(i + count)}
	}
	return entries
}

func TestBasic(t *testing.T) {
	const count = 100

	entries := sequentialEntries(count)
	m, err := New(entries)
	require.NoError(t, err)
	require.EqualValues(t, count, m.Len())

	for _, e := range entries {
		v, ok := m.TryGet(e.Key)
		require.True(t, ok)
		require.EqualValues(t, e.Value, v)

		v, err := m.Get(e.Key)
		require.NoError(t, err)
		require.EqualValues(t, e.Value, v)
	}

	// Non-existent.
	for i := 0; i < count; i++ {
		k := int64(count + i)
		_, ok := m.TryGet(k)
		require.False(t, ok)

		_, err := m.Get(k)
		require.ErrorIs(t, err, ErrNotFound)
	}

	e := make(map[int64]int64, count)
	for _, en := range entries {
		e[en.Key] = en.Value
	}
	require.Equal(t, e, m.toBuiltinMap())
}

func TestCapacity(t *testing.T) {
	testCases := []struct {
		count            int
		expectedCapacity int
	}{
		{0, 16},
		{1, 16},
		{3, 16},
		{7, 16},
		{8, 16},
		{9, 32},
		{16, 32},
		{100, 256},
		{897, 2048},
	}
	for _, c := range testCases {
		t.Run("", func(t *testing.T) {
			m, err := New(sequentialEntries(c.count))
			require.NoError(t, err)
			require.EqualValues(t, c.expectedCapacity, m.Cap())

			// Power of two, >= 16, and at least half empty.
			require.Zero(t, m.Cap()&(m.Cap()-1))
			require.GreaterOrEqual(t, m.Cap(), 16)
			require.GreaterOrEqual(t, m.Cap(), 2*c.count)
		})
	}
}

func TestDuplicateKey(t *testing.T) {
	_, err := New([]Entry[int64, string]{
		{Key: 1, Value: "x"},
		{Key: 1, Value: "y"},
	})
	require.ErrorIs(t, err, ErrDuplicateKey)

	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	require.EqualValues(t, int64(1), dup.Key)

	// The colliding keys need not be adjacent in the source.
	_, err = New([]Entry[int64, string]{
		{Key: 7, Value: "a"},
		{Key: 8, Value: "b"},
		{Key: 7, Value: "c"},
	})
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestNilSource(t *testing.T) {
	_, err := New[int64, int64](nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = FromMap[int64, int64](nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// An empty source is valid and yields an empty table of the minimum
	// capacity.
	m, err := New([]Entry[int64, int64]{})
	require.NoError(t, err)
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, 16, m.Cap())
	_, ok := m.TryGet(42)
	require.False(t, ok)
}

func TestNotFoundError(t *testing.T) {
	m, err := New([]Entry[int64, string]{
		{Key: 1, Value: "a"},
		{Key: 2, Value: "b"},
		{Key: 3, Value: "c"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 16, m.Cap())

	v, err := m.Get(2)
	require.NoError(t, err)
	require.Equal(t, "b", v)

	_, err = m.Get(99)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.EqualValues(t, int64(99), nf.Key)
}

func TestNegativeKeys(t *testing.T) {
	// Negative keys exercise the unsigned reinterpretation of the raw hash:
	// the sign-extended bit pattern is folded into range purely by the mask.
	entries := []Entry[int64, int64]{
		{Key: -1, Value: 10},
		{Key: -2, Value: 20},
		{Key: -9223372036854775808, Value: 30},
		{Key: 9223372036854775807, Value: 40},
		{Key: 0, Value: 50},
	}
	m, err := New(entries)
	require.NoError(t, err)
	for _, e := range entries {
		v, ok := m.TryGet(e.Key)
		require.True(t, ok)
		require.EqualValues(t, e.Value, v)
	}
}

func TestDegenerateHash(t *testing.T) {
	// A constant hash collapses every key onto one home slot. Linear probing
	// must still place and find everything; only speed degrades.
	for _, h := range []uint64{0, ^uint64(0), 1 << 63} {
		entries := sequentialEntries(100)
		m, err := New(entries,
			WithKeyHash[int64, int64](func(int64) uint64 { return h }))
		require.NoError(t, err)

		for _, e := range entries {
			v, ok := m.TryGet(e.Key)
			require.True(t, ok)
			require.EqualValues(t, e.Value, v)
		}
		_, ok := m.TryGet(int64(len(entries)))
		require.False(t, ok)

		// Duplicates are still detected when every probe chain is shared.
		entries[50].Key = entries[10].Key
		_, err = New(entries,
			WithKeyHash[int64, int64](func(int64) uint64 { return h }))
		require.ErrorIs(t, err, ErrDuplicateKey)
	}
}

func TestEnumerationOrderIndependence(t *testing.T) {
	// The set of enumerated pairs must not depend on source iteration order.
	const count = 500
	entries := sequentialEntries(count)

	collect := func(m *Map[int64, int64]) []Entry[int64, int64] {
		var got []Entry[int64, int64]
		m.All(func(k, v int64) bool {
			got = append(got, Entry[int64, int64]{Key: k, Value: v})
			return true
		})
		return got
	}

	m, err := New(entries)
	require.NoError(t, err)
	base := collect(m)
	require.Len(t, base, count)

	seen := make(map[int64]bool)
	for _, e := range base {
		require.False(t, seen[e.Key], "duplicate key %d enumerated", e.Key)
		seen[e.Key] = true
	}

	sortEntries := func(s []Entry[int64, int64]) {
		sort.Slice(s, func(i, j int) bool { return s[i].Key < s[j].Key })
	}
	sortEntries(base)

	for trial := 0; trial < 5; trial++ {
		shuffled := append([]Entry[int64, int64](nil), entries...)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		m2, err := New(shuffled)
		require.NoError(t, err)
		got := collect(m2)
		sortEntries(got)
		if diff := cmp.Diff(base, got); diff != "" {
			t.Fatalf("enumeration mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestAllEarlyStop(t *testing.T) {
	m, err := New(sequentialEntries(100))
	require.NoError(t, err)

	var n int
	m.All(func(k, v int64) bool {
		n++
		return n < 10
	})
	require.Equal(t, 10, n)
}

func TestFromMap(t *testing.T) {
	e := make(map[int64]int64)
	for i := 0; i < 1000; i++ {
		e[rand.Int63()] = rand.Int63()
	}

	m, err := FromMap(e)
	require.NoError(t, err)
	require.EqualValues(t, len(e), m.Len())
	require.Equal(t, e, m.toBuiltinMap())

	for k, v := range e {
		got, ok := m.TryGet(k)
		require.True(t, ok)
		require.EqualValues(t, v, got)
	}
}

func TestRandom(t *testing.T) {
	for trial := 0; trial < 10; trial++ {
		n := rand.Intn(2000)
		e := make(map[uint32]uint64, n)
		for len(e) < n {
			e[rand.Uint32()] = rand.Uint64()
		}

		m, err := FromMap(e)
		require.NoError(t, err)
		require.EqualValues(t, n, m.Len())

		for k, v := range e {
			got, ok := m.TryGet(k)
			require.True(t, ok)
			require.EqualValues(t, v, got)
		}
		for i := 0; i < 1000; i++ {
			k := rand.Uint32()
			if _, present := e[k]; present {
				continue
			}
			_, ok := m.TryGet(k)
			require.False(t, ok)
		}
	}
}

type countingAllocator[T any] struct {
	alloc int
	free  int
}

func (a *countingAllocator[T]) Alloc(n int) []T {
	a.alloc++
	return make([]T, n)
}

func (a *countingAllocator[T]) Free(_ []T) {
	a.free++
}

func TestAllocator(t *testing.T) {
	a := &countingAllocator[Slot[int64, int64]]{}
	m, err := New(sequentialEntries(100), WithAllocator[int64, int64](a))
	require.NoError(t, err)
	require.Equal(t, 1, a.alloc)
	require.Equal(t, 0, a.free)

	m.Close()
	require.Equal(t, 1, a.free)

	// Close is idempotent.
	m.Close()
	require.Equal(t, 1, a.free)
}

func TestAllocatorReleasedOnFailure(t *testing.T) {
	// A failed construction must not leak the slot buffer.
	a := &countingAllocator[Slot[int64, string]]{}
	_, err := New([]Entry[int64, string]{
		{Key: 1, Value: "x"},
		{Key: 1, Value: "y"},
	}, WithAllocator[int64, string](a))
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, 1, a.alloc)
	require.Equal(t, 1, a.free)
}
