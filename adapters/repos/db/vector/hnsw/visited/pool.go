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
package visited

import (
	"math"
	"sync"
)

// Pool hands out reset sets. At most maxStored sets are retained between
// searches, the rest are left to the GC.
type Pool struct {
	sync.Mutex
	setCapacity int
	maxStored   int
	sets        []*Set
}

func NewPool(preallocate, setCapacity, maxStored int) *Pool {
	if preallocate < 0 {
		preallocate = 0
	}
	if maxStored < 1 {
		maxStored = math.MaxInt
	}
	if preallocate > maxStored {
		maxStored = preallocate
	}

	p := &Pool{setCapacity: setCapacity, maxStored: maxStored}
	for i := 0; i < preallocate; i++ {
		p.sets = append(p.sets, NewSet(setCapacity))
	}
	return p
}

func (p *Pool) Borrow() *Set {
	p.Lock()
	defer p.Unlock()

	n := len(p.sets)
	if n == 0 {
		return NewSet(p.setCapacity)
	}
	s := p.sets[n-1]
	p.sets = p.sets[:n-1]
	return s
}

func (p *Pool) Return(s *Set) {
	s.Reset()

	p.Lock()
	defer p.Unlock()
	if len(p.sets) < p.maxStored {
		p.sets = append(p.sets, s)
	}
}

func (p *Pool) Len() int {
	p.Lock()
	defer p.Unlock()
	return len(p.sets)
}
