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
package traverser

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	pkgerrors "github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

var ErrNotUpdatable = pkgerrors.New("value cannot be updated")

// FilterRef keeps the values for which pred returns true. An error of pred
// replaces the value with an error item.
func (t *Traversal) FilterRef(pred func(TraversalValue) (bool, error)) *Traversal {
	upstream := t.upstream()
	return t.with(IteratorFunc(func() (Item, bool) {
		for {
			item, ok := upstream.Next()
			if !ok || item.Err != nil {
				return item, ok
			}
			keep, err := pred(item.Value)
			if err != nil {
				return Item{Err: err}, true
			}
			if keep {
				return item, true
			}
		}
	}))
}

// Map replaces every value with the result of fn.
func (t *Traversal) Map(fn func(TraversalValue) (TraversalValue, error)) *Traversal {
	upstream := t.upstream()
	return t.with(IteratorFunc(func() (Item, bool) {
		item, ok := upstream.Next()
		if !ok || item.Err != nil {
			return item, ok
		}
		out, err := fn(item.Value)
		if err != nil {
			return Item{Err: err}, true
		}
		return Item{Value: out}, true
	}))
}

// Dedup drops graph elements whose id was seen before. Counts, scalars and
// errors always pass.
func (t *Traversal) Dedup() *Traversal {
	upstream := t.upstream()
	seen := map[uuid.UUID]struct{}{}
	return t.with(IteratorFunc(func() (Item, bool) {
		for {
			item, ok := upstream.Next()
			if !ok || item.Err != nil || !item.Value.HasID() {
				return item, ok
			}
			id := item.Value.ID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			return item, true
		}
	}))
}

// Range yields the items at positions start (inclusive) to end (exclusive).
// Error items take up a position like any other item. A negative end means
// no upper bound.
func (t *Traversal) Range(start, end int) *Traversal {
	upstream := t.upstream()
	pos := 0
	return t.with(IteratorFunc(func() (Item, bool) {
		for {
			if end >= 0 && pos >= end {
				return Item{}, false
			}
			item, ok := upstream.Next()
			if !ok {
				return Item{}, false
			}
			pos++
			if pos > start {
				return item, true
			}
		}
	}))
}

// OrderBy sorts the values by property. Values without the property come
// last in both directions, equal values keep their upstream order. The
// first upstream error replaces the whole result.
func (t *Traversal) OrderBy(property string, desc bool) *Traversal {
	upstream := t.upstream()
	return t.with(once(func() Iterator {
		vals, err := drain(upstream)
		if err != nil {
			return errIter(err)
		}
		sort.SliceStable(vals, func(i, j int) bool {
			a, aok := vals[i].Get(property)
			b, bok := vals[j].Get(property)
			if !aok || !bok {
				return aok && !bok
			}
			c := values.Compare(a, b)
			if desc {
				return c > 0
			}
			return c < 0
		})
		return valuesIter(vals)
	}))
}

// Update merges props into every node and edge and yields the updated
// values. All upstream values are read before the first write. Failures are
// collected into one error item that follows the updated values, writes
// that succeeded are kept.
func (t *Traversal) Update(props values.Properties) *Traversal {
	if it := t.requireWritable(); it != nil {
		return t.with(it)
	}
	upstream := t.upstream()
	return t.with(once(func() Iterator {
		var (
			errs  *multierror.Error
			items []Item
		)
		for {
			item, ok := upstream.Next()
			if !ok {
				break
			}
			if item.Err != nil {
				errs = multierror.Append(errs, item.Err)
				continue
			}
			updated, err := t.update(item.Value, props)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			items = append(items, Item{Value: updated})
		}
		if err := errs.ErrorOrNil(); err != nil {
			items = append(items, Item{Err: err})
		}
		return sliceIter(items)
	}))
}

func (t *Traversal) update(v TraversalValue, props values.Properties) (TraversalValue, error) {
	switch v.Kind {
	case KindNode:
		n, err := t.storage.UpdateNode(t.txn, v.Node.ID, props)
		if err != nil {
			return v, err
		}
		return NodeValue(n), nil
	case KindEdge:
		e, err := t.storage.UpdateEdge(t.txn, v.Edge.ID, props)
		if err != nil {
			return v, err
		}
		return EdgeValue(e), nil
	default:
		return v, pkgerrors.Wrapf(ErrNotUpdatable, "%s %s", v.Kind, v.ID())
	}
}

// Drop deletes every node, edge and vector of the traversal together with
// everything attached to it. Elements already removed by an earlier cascade
// in the same step are skipped. All failures are returned together, writes
// that succeeded are kept.
func (t *Traversal) Drop() error {
	if !t.writable {
		return ErrReadOnly
	}

	var (
		errs    *multierror.Error
		dropped int
	)
	var targets []TraversalValue
	for {
		item, ok := t.Next()
		if !ok {
			break
		}
		if item.Err != nil {
			errs = multierror.Append(errs, item.Err)
			continue
		}
		targets = append(targets, item.Value)
	}

	for _, v := range targets {
		var err error
		switch v.Kind {
		case KindNode:
			err = t.storage.DropNode(t.txn, v.ID())
		case KindEdge:
			err = t.storage.DropEdge(t.txn, v.ID())
		case KindVector:
			err = t.storage.DropVector(t.txn, v.ID())
		default:
			continue
		}
		if isNotFound(err) {
			continue
		}
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		dropped++
	}

	err := errs.ErrorOrNil()
	t.metrics.Terminal("drop", t.started, dropped, err)
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, storobj.ErrNodeNotFound) ||
		errors.Is(err, storobj.ErrEdgeNotFound) ||
		errors.Is(err, storobj.ErrVectorNotFound) ||
		errors.Is(err, hnsw.ErrVectorAlreadyDeleted)
}

