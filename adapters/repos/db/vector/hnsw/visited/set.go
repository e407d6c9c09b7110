//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//
// Package visited tracks which graph nodes a search has already expanded.
package visited

// goldenRatio64 is 2^64 divided by phi. Multiplying by it spreads dense
// doc ids across the table.
const goldenRatio64 = 11400714819323198485

// Set is an open addressing hash set of doc ids with linear probing. Slots
// belong to the current generation when their marker equals the set marker,
// so Reset only bumps the marker.
type Set struct {
	ids     []uint64
	markers []uint8
	marker  uint8
	size    int
	mask    uint64
}

func NewSet(capacity int) *Set {
	if capacity < 16 {
		capacity = 16
	}
	capacity = roundUpPow2(capacity)
	return &Set{
		ids:     make([]uint64, capacity),
		markers: make([]uint8, capacity),
		marker:  1,
		mask:    uint64(capacity - 1),
	}
}

func roundUpPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (s *Set) slot(id uint64) uint64 {
	return (id * goldenRatio64) & s.mask
}

// Visit marks id and reports whether it was new.
func (s *Set) Visit(id uint64) bool {
	markers, ids, marker := s.markers, s.ids, s.marker
	for i := s.slot(id); ; i = (i + 1) & s.mask {
		if markers[i] != marker {
			ids[i] = id
			markers[i] = marker
			s.size++
			if s.size*4 > len(ids)*3 {
				s.grow()
			}
			return true
		}
		if ids[i] == id {
			return false
		}
	}
}

func (s *Set) Visited(id uint64) bool {
	markers, ids, marker := s.markers, s.ids, s.marker
	for i := s.slot(id); ; i = (i + 1) & s.mask {
		if markers[i] != marker {
			return false
		}
		if ids[i] == id {
			return true
		}
	}
}

func (s *Set) Reset() {
	s.size = 0
	s.marker++
	if s.marker == 0 {
		clear(s.markers)
		s.marker = 1
	}
}

func (s *Set) grow() {
	oldIDs, oldMarkers, live := s.ids, s.markers, s.marker

	capacity := len(oldIDs) * 2
	s.ids = make([]uint64, capacity)
	s.markers = make([]uint8, capacity)
	s.marker = 1
	s.mask = uint64(capacity - 1)
	s.size = 0
	for i, m := range oldMarkers {
		if m == live {
			s.Visit(oldIDs[i])
		}
	}
}

func (s *Set) Len() int {
	return s.size
}

func (s *Set) Cap() int {
	return len(s.ids)
}
