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
// Package priorityqueue provides the binary heaps used for beam search,
// bounded top-k selection and neighbor pruning.
package priorityqueue

// Item is one entry of a queue. Value carries optional payload.
type Item[T any] struct {
	ID    uint64
	Dist  float32
	Value T
}

// ItemWithIndex remembers the position an item had in a slice built next to
// the queue.
type ItemWithIndex struct {
	ID    uint64
	Index uint64
	Dist  float32
}

// Queue is a min or max heap over Dist. Equal distances are ordered by ID so
// that results are deterministic: a min queue pops the smaller ID first, a
// max queue keeps the larger ID on top so it is evicted first.
type Queue[T any] struct {
	items []Item[T]
	max   bool
}

func NewMin[T any](capacity int) *Queue[T] {
	return &Queue[T]{items: make([]Item[T], 0, capacity)}
}

func NewMax[T any](capacity int) *Queue[T] {
	return &Queue[T]{items: make([]Item[T], 0, capacity), max: true}
}

// higher reports whether item i belongs closer to the top than item j.
func (q *Queue[T]) higher(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.Dist != b.Dist {
		if q.max {
			return a.Dist > b.Dist
		}
		return a.Dist < b.Dist
	}
	if q.max {
		return a.ID > b.ID
	}
	return a.ID < b.ID
}

// Pop removes the top item and returns it. It panics on an empty queue.
func (q *Queue[T]) Pop() Item[T] {
	if len(q.items) == 0 {
		panic("priority queue is empty")
	}
	out := q.items[0]
	last := len(q.items) - 1
	q.items[0] = q.items[last]
	q.items = q.items[:last]
	q.heapify(0)
	return out
}

// Top peeks at the next item in the queue.
func (q *Queue[T]) Top() Item[T] {
	return q.items[0]
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

func (q *Queue[T]) Cap() int {
	return cap(q.items)
}

// Reset clears the queue and keeps its memory.
func (q *Queue[T]) Reset() {
	q.items = q.items[:0]
}

// Insert adds an item without payload.
func (q *Queue[T]) Insert(id uint64, dist float32) int {
	var zero T
	return q.InsertWithValue(id, dist, zero)
}

func (q *Queue[T]) InsertWithValue(id uint64, dist float32, value T) int {
	q.items = append(q.items, Item[T]{ID: id, Dist: dist, Value: value})
	i := len(q.items) - 1
	for i != 0 && q.higher(i, parent(i)) {
		q.swap(i, parent(i))
		i = parent(i)
	}
	return i
}

// InsertBounded keeps at most k items. On a max queue this retains the k
// smallest distances, which is what top-k selection needs.
func (q *Queue[T]) InsertBounded(id uint64, dist float32, value T, k int) {
	if k <= 0 {
		return
	}
	if q.Len() < k {
		q.InsertWithValue(id, dist, value)
		return
	}
	top := q.items[0]
	if q.max {
		if dist > top.Dist || (dist == top.Dist && id >= top.ID) {
			return
		}
	} else if dist < top.Dist || (dist == top.Dist && id <= top.ID) {
		return
	}
	q.items[0] = Item[T]{ID: id, Dist: dist, Value: value}
	q.heapify(0)
}

// Items returns the heap storage. The order is not sorted.
func (q *Queue[T]) Items() []Item[T] {
	return q.items
}

// Drain pops every item. A max queue yields the results farthest first, so
// callers wanting closest first use DrainReversed.
func (q *Queue[T]) Drain() []Item[T] {
	out := make([]Item[T], 0, q.Len())
	for q.Len() > 0 {
		out = append(out, q.Pop())
	}
	return out
}

func (q *Queue[T]) DrainReversed() []Item[T] {
	out := make([]Item[T], q.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = q.Pop()
	}
	return out
}

func left(i int) int { return 2*i + 1 }

func right(i int) int { return 2*i + 2 }

func parent(i int) int { return (i - 1) / 2 }

func (q *Queue[T]) swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

// heapify restores the heap property below i.
func (q *Queue[T]) heapify(i int) {
	for {
		l, r := left(i), right(i)
		top := i
		if l < len(q.items) && q.higher(l, top) {
			top = l
		}
		if r < len(q.items) && q.higher(r, top) {
			top = r
		}
		if top == i {
			return
		}
		q.swap(i, top)
		i = top
	}
}
