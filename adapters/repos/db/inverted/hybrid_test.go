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
package inverted

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHybridCombine(t *testing.T) {
	id := ids(3)
	bm25 := []Result{{ID: id[0], Score: 4}, {ID: id[1], Score: 2}}
	vector := []VectorHit{{ID: id[2], Distance: 0}, {ID: id[1], Distance: 1}}

	t.Run("keyword only", func(t *testing.T) {
		res := HybridCombine(bm25, vector, 1, 10)
		require.Len(t, res, 3)
		assert.Equal(t, id[0], res[0].ID)
		assert.InDelta(t, 1.0, res[0].Score, 1e-6)
		assert.Equal(t, id[1], res[1].ID)
		assert.InDelta(t, 0.5, res[1].Score, 1e-6)
		assert.InDelta(t, 0.0, res[2].Score, 1e-6)
	})

	t.Run("vector only", func(t *testing.T) {
		res := HybridCombine(bm25, vector, 0, 1)
		require.Len(t, res, 1)
		assert.Equal(t, id[2], res[0].ID)
		assert.InDelta(t, 1.0, res[0].Score, 1e-6)
	})

	t.Run("balanced", func(t *testing.T) {
		res := HybridCombine(bm25, vector, 0.5, 10)
		require.Len(t, res, 3)
		// id[1]: 0.5*0.5 + 0.5*0.5, id[0]: 0.5*1, id[2]: 0.5*1
		for _, r := range res {
			assert.InDelta(t, 0.5, r.Score, 1e-6)
		}
		assert.Equal(t, []Result{
			{ID: id[0], Score: res[0].Score},
			{ID: id[1], Score: res[1].Score},
			{ID: id[2], Score: res[2].Score},
		}, res)
	})

	t.Run("no results", func(t *testing.T) {
		assert.Empty(t, HybridCombine(nil, nil, 0.5, 10))
		assert.Nil(t, HybridCombine(bm25, vector, 0.5, 0))
	})
}
