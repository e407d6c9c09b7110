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
package priorityqueue

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	dists := []float32{0.5, 0.1, 0.9, 0.3, 0.7}

	t.Run("min queue pops closest first", func(t *testing.T) {
		q := NewMin[any](0)
		for i, d := range dists {
			q.Insert(uint64(i), d)
		}
		var got []float32
		for q.Len() > 0 {
			got = append(got, q.Pop().Dist)
		}
		assert.Equal(t, []float32{0.1, 0.3, 0.5, 0.7, 0.9}, got)
	})

	t.Run("max queue pops farthest first", func(t *testing.T) {
		q := NewMax[string](len(dists))
		for i, d := range dists {
			q.InsertWithValue(uint64(i), d, "v")
		}
		assert.Equal(t, float32(0.9), q.Top().Dist)
		assert.Equal(t, "v", q.Top().Value)
		drained := q.DrainReversed()
		require.Len(t, drained, 5)
		assert.Equal(t, float32(0.1), drained[0].Dist)
		assert.Equal(t, float32(0.9), drained[4].Dist)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("ties are ordered by id", func(t *testing.T) {
		q := NewMin[any](0)
		for _, id := range []uint64{5, 2, 9} {
			q.Insert(id, 1)
		}
		assert.Equal(t, uint64(2), q.Pop().ID)
		assert.Equal(t, uint64(5), q.Pop().ID)
	})

	t.Run("pop on empty queue panics", func(t *testing.T) {
		assert.Panics(t, func() { NewMin[any](0).Pop() })
	})
}

func TestInsertBounded(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	all := make([]float32, 500)
	q := NewMax[any](10)
	for i := range all {
		all[i] = r.Float32()
		q.InsertBounded(uint64(i), all[i], nil, 10)
	}
	require.Equal(t, 10, q.Len())

	sort.Slice(all, func(a, b int) bool { return all[a] < all[b] })
	got := q.DrainReversed()
	for i := range got {
		assert.Equal(t, all[i], got[i].Dist)
	}

	t.Run("equal distance keeps the smaller id", func(t *testing.T) {
		q := NewMax[any](1)
		q.InsertBounded(4, 1, nil, 1)
		q.InsertBounded(2, 1, nil, 1)
		q.InsertBounded(3, 1, nil, 1)
		assert.Equal(t, uint64(2), q.Top().ID)
	})
}
