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
	"sort"

	"github.com/google/uuid"
)

// SubTraversal computes the values reachable from one upstream value. sub
// is an empty traversal on the same transaction.
type SubTraversal func(v TraversalValue, sub *Traversal) ([]TraversalValue, error)

// Intersect runs fn for every upstream value and yields the values present
// in every result, by id. The output keeps the order of the smallest result.
// Any error, upstream or from fn, becomes the only item.
func (t *Traversal) Intersect(fn SubTraversal) *Traversal {
	upstream := t.upstream()
	return t.with(once(func() Iterator {
		inputs, err := drain(upstream)
		if err != nil {
			return errIter(err)
		}
		if len(inputs) == 0 {
			return emptyIter()
		}

		results := make([][]TraversalValue, 0, len(inputs))
		for _, in := range inputs {
			res, err := fn(in, t.Sub())
			if err != nil {
				return errIter(err)
			}
			results = append(results, res)
		}
		sort.SliceStable(results, func(i, j int) bool {
			return len(results[i]) < len(results[j])
		})

		seed := results[0]
		keep := make(map[uuid.UUID]struct{}, len(seed))
		for _, v := range seed {
			keep[v.ID()] = struct{}{}
		}
		for _, res := range results[1:] {
			if len(keep) == 0 {
				return emptyIter()
			}
			present := make(map[uuid.UUID]struct{}, len(res))
			for _, v := range res {
				present[v.ID()] = struct{}{}
			}
			for id := range keep {
				if _, ok := present[id]; !ok {
					delete(keep, id)
				}
			}
		}

		out := make([]TraversalValue, 0, len(keep))
		for _, v := range seed {
			if _, ok := keep[v.ID()]; ok {
				out = append(out, v)
			}
		}
		return valuesIter(out)
	}))
}
