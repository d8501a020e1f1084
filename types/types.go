// Copyright 2026 The ops-generator Authors. SPDX-License-Identifier: Apache-2.0

// Package types holds the small container types shared across the
// ops-generator packages. The domain types live elsewhere: `shapes` models
// shape descriptors, `opspec` models operator specifications.
package types

import (
	"cmp"
	"maps"
	"slices"
)

// Set is an unordered set of comparable keys.
type Set[T comparable] map[T]struct{}

// MakeSet returns an empty Set. A size hint may be given to reserve space.
func MakeSet[T comparable](size ...int) Set[T] {
	if len(size) > 0 {
		return make(Set[T], size[0])
	}
	return make(Set[T])
}

// SetWith returns a Set holding the given elements.
func SetWith[T comparable](elements ...T) Set[T] {
	s := MakeSet[T](len(elements))
	s.Insert(elements...)
	return s
}

// Has reports whether key is in the set.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert adds keys to the set.
func (s Set[T]) Insert(keys ...T) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}

// Sub returns the elements of s that are not in s2.
func (s Set[T]) Sub(s2 Set[T]) Set[T] {
	sub := MakeSet[T]()
	for k := range s {
		if !s2.Has(k) {
			sub.Insert(k)
		}
	}
	return sub
}

// Sorted returns the elements of s in increasing order. Iterating a Set
// directly follows map order, so anything user-visible goes through here.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}
