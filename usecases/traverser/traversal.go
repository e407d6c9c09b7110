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
// Package traverser composes lazy graph traversals. A Traversal is bound to
// one storage handle, one transaction and one arena; its steps only touch
// storage when items are pulled. Item level failures travel through the
// chain as error items, terminal steps stop at the first one.
package traverser

import (
	"time"

	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/storage"
	"github.com/weaviate/weavegraph/entities/arena"
)

var ErrReadOnly = errors.New("mutating step on a read-only traversal")

// Item is one result of a step: a value or the error that replaced it.
type Item struct {
	Value TraversalValue
	Err   error
}

type Iterator interface {
	// Next returns the next item, ok is false once the iterator is
	// exhausted.
	Next() (item Item, ok bool)
}

// IteratorFunc adapts a function to the Iterator interface.
type IteratorFunc func() (Item, bool)

func (f IteratorFunc) Next() (Item, bool) {
	return f()
}

// Traversal is a chain of steps. Every step returns a new Traversal wrapping
// the previous one, so a Traversal must only be consumed once.
type Traversal struct {
	storage  *storage.Storage
	txn      kv.Txn
	arena    *arena.Arena
	writable bool
	metrics  *Metrics
	started  time.Time
	iter     Iterator
}

// NewRo starts a read traversal. a may be nil, decoded values are then
// allocated on the heap.
func NewRo(s *storage.Storage, txn kv.Txn, a *arena.Arena) *Traversal {
	return &Traversal{
		storage: s,
		txn:     txn,
		arena:   a,
		metrics: NewMetrics(s.Logger(), s.Config().PrometheusMetrics),
		started: time.Now(),
	}
}

// NewRw starts a traversal that may add, update and drop elements. txn must
// be a write transaction.
func NewRw(s *storage.Storage, txn kv.Txn, a *arena.Arena) (*Traversal, error) {
	if !txn.Writable() {
		return nil, kv.ErrTxNotWritable
	}
	t := NewRo(s, txn, a)
	t.writable = true
	return t, nil
}

func (t *Traversal) Storage() *storage.Storage {
	return t.storage
}

func (t *Traversal) Txn() kv.Txn {
	return t.txn
}

func (t *Traversal) Arena() *arena.Arena {
	return t.arena
}

func (t *Traversal) Writable() bool {
	return t.writable
}

// Next pulls the next item of the last step.
func (t *Traversal) Next() (Item, bool) {
	if t.iter == nil {
		return Item{}, false
	}
	return t.iter.Next()
}

// Sub returns an empty traversal sharing the storage, transaction and arena
// of t. Sub-traversals of Intersect start from it.
func (t *Traversal) Sub() *Traversal {
	out := *t
	out.iter = nil
	out.started = time.Now()
	return &out
}

// upstream is the iterator of the last step, empty for a traversal without
// a source.
func (t *Traversal) upstream() Iterator {
	if t.iter == nil {
		return emptyIter()
	}
	return t.iter
}

func (t *Traversal) with(it Iterator) *Traversal {
	out := *t
	out.iter = it
	return &out
}

// requireWritable is the iterator a mutating step yields on a read
// traversal.
func (t *Traversal) requireWritable() Iterator {
	if t.writable {
		return nil
	}
	return errIter(ErrReadOnly)
}

func emptyIter() Iterator {
	return IteratorFunc(func() (Item, bool) { return Item{}, false })
}

func sliceIter(items []Item) Iterator {
	i := 0
	return IteratorFunc(func() (Item, bool) {
		if i >= len(items) {
			return Item{}, false
		}
		i++
		return items[i-1], true
	})
}

func valuesIter(vals []TraversalValue) Iterator {
	i := 0
	return IteratorFunc(func() (Item, bool) {
		if i >= len(vals) {
			return Item{}, false
		}
		i++
		return Item{Value: vals[i-1]}, true
	})
}

func errIter(err error) Iterator {
	return sliceIter([]Item{{Err: err}})
}

// once defers fn until the first pull and yields its items.
func once(fn func() Iterator) Iterator {
	var it Iterator
	return IteratorFunc(func() (Item, bool) {
		if it == nil {
			it = fn()
		}
		return it.Next()
	})
}

// flatMap expands every value of upstream into the items of fn. Upstream
// errors are passed on unchanged.
func flatMap(upstream Iterator, fn func(TraversalValue) Iterator) Iterator {
	var current Iterator
	return IteratorFunc(func() (Item, bool) {
		for {
			if current != nil {
				if item, ok := current.Next(); ok {
					return item, true
				}
				current = nil
			}
			item, ok := upstream.Next()
			if !ok {
				return Item{}, false
			}
			if item.Err != nil {
				return item, true
			}
			current = fn(item.Value)
		}
	})
}

// drain materializes it, stopping at the first error.
func drain(it Iterator) ([]TraversalValue, error) {
	var out []TraversalValue
	if it == nil {
		return out, nil
	}
	for {
		item, ok := it.Next()
		if !ok {
			return out, nil
		}
		if item.Err != nil {
			return nil, item.Err
		}
		out = append(out, item.Value)
	}
}
