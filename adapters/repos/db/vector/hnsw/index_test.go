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
package hnsw

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

func TestSearchOnEmptyIndex(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{})

	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		_, err := h.Search(txn, nil, []float32{1, 2}, 3, "", nil)
		assert.ErrorIs(t, err, ErrEntryPointNotFound)
		return nil
	}))
}

func TestInvalidVectors(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{})
	insertAll(t, store, h, "doc", [][]float32{{1, 2, 3}})

	tests := []struct {
		name string
		vec  []float32
		err  error
	}{
		{name: "empty", vec: nil, err: ErrInvalidVectorData},
		{name: "nan", vec: []float32{1, float32(math.NaN()), 3}, err: ErrInvalidVectorData},
		{name: "inf", vec: []float32{1, float32(math.Inf(-1)), 3}, err: ErrInvalidVectorData},
		{name: "zero vector under cosine", vec: []float32{0, 0, 0}, err: ErrInvalidVectorData},
		{name: "wrong length", vec: []float32{1, 2}, err: ErrInvalidVectorLength},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := kv.Update(store, func(txn kv.Txn) error {
				_, err := h.Insert(txn, "doc", test.vec, nil)
				return err
			})
			assert.ErrorIs(t, err, test.err)

			require.Nil(t, kv.View(store, func(txn kv.Txn) error {
				_, err := h.Search(txn, nil, test.vec, 1, "", nil)
				assert.ErrorIs(t, err, test.err)
				return nil
			}))
		})
	}

	t.Run("read transaction", func(t *testing.T) {
		require.Nil(t, kv.View(store, func(txn kv.Txn) error {
			_, err := h.Insert(txn, "doc", []float32{1, 2, 3}, nil)
			assert.ErrorIs(t, err, kv.ErrTxNotWritable)
			return nil
		}))
	})
}

func TestInsertAndGet(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{})
	vecs := insertAll(t, store, h, "doc", [][]float32{{1, 0}, {0, 1}, {1, 1}})

	for i, v := range vecs {
		assert.Equal(t, uint64(i), v.DocID)
	}

	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		a := arena.New(0)

		got, err := h.GetVector(txn, a, vecs[2].ID, false)
		require.Nil(t, err)
		assert.Nil(t, got.Embedding)
		assert.Equal(t, "doc", got.Label)
		i, _ := got.Get("i")
		assert.Equal(t, values.Int(2), i)

		got, err = h.GetVector(txn, a, vecs[2].ID, true)
		require.Nil(t, err)
		assert.Equal(t, []float32{1, 1}, got.Embedding)
		assert.InDelta(t, math.Sqrt2, got.Norm, 1e-6)

		_, err = h.GetVector(txn, a, storobj.NewID(), false)
		assert.ErrorIs(t, err, storobj.ErrVectorNotFound)

		all, err := h.GetAllVectors(txn, a, "doc", true)
		require.Nil(t, err)
		require.Len(t, all, 3)
		for i := range all {
			assert.Equal(t, vecs[i].ID, all[i].ID)
			assert.Equal(t, vecs[i].Embedding, all[i].Embedding)
		}

		n, err := h.NumInserted(txn)
		require.Nil(t, err)
		assert.Equal(t, uint64(3), n)

		dims, err := h.Dimensions(txn)
		require.Nil(t, err)
		assert.Equal(t, 2, dims)
		return nil
	}))
}

func TestSearchSmallLabelIsExact(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{})
	insertAll(t, store, h, "doc", [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
		{0, 0, 1},
		{-1, 0, 0},
	})

	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		res, err := h.Search(txn, arena.New(0), []float32{1, 0, 0}, 3, "doc", nil)
		require.Nil(t, err)
		assert.Equal(t, []uint64{0, 1, 2}, resultDocIDs(res))
		assert.InDelta(t, 0, res[0].Distance, 1e-6)
		assert.True(t, res[1].Distance <= res[2].Distance)

		res, err = h.Search(txn, nil, []float32{1, 0, 0}, 3, "other", nil)
		require.Nil(t, err)
		assert.Empty(t, res)
		return nil
	}))
}

func TestRecallAgainstFlatSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("builds a graph of 1000 vectors")
	}
	store := newTestStore(t)
	// force the graph path for every search
	h := newTestIndex(t, Config{LinearSearchThreshold: 1})

	r := rand.New(rand.NewSource(7))
	insertAll(t, store, h, "doc", randomVectors(r, 1000, 32))
	queries := randomVectors(r, 20, 32)

	k := 10
	var hits, total int
	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		for _, q := range queries {
			a := arena.New(0)
			approx, err := h.Search(txn, a, q, k, "", nil)
			require.Nil(t, err)
			exact, err := h.FlatSearch(context.Background(), txn, a, q, k, "", nil)
			require.Nil(t, err)
			require.Len(t, exact, k)

			want := map[uint64]struct{}{}
			for _, id := range resultDocIDs(exact) {
				want[id] = struct{}{}
			}
			for _, id := range resultDocIDs(approx) {
				if _, ok := want[id]; ok {
					hits++
				}
			}
			total += k
		}
		return nil
	}))

	recall := float64(hits) / float64(total)
	assert.GreaterOrEqual(t, recall, 0.9)
}

func TestLabelsAndFilters(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{LinearSearchThreshold: 1})

	r := rand.New(rand.NewSource(3))
	insertAll(t, store, h, "a", randomVectors(r, 100, 8))
	insertAll(t, store, h, "b", randomVectors(r, 100, 8))

	even := func(v *storobj.Vector) bool {
		i, ok := v.Get("i")
		if !ok {
			return false
		}
		n, _ := i.AsInt()
		return n%2 == 0
	}

	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		q := randomVectors(r, 1, 8)[0]
		for _, search := range []func(Filter) ([]Result, error){
			func(f Filter) ([]Result, error) {
				return h.Search(txn, arena.New(0), q, 10, "b", f)
			},
			func(f Filter) ([]Result, error) {
				return h.FlatSearch(context.Background(), txn, arena.New(0), q, 10, "b", f)
			},
		} {
			res, err := search(even)
			require.Nil(t, err)
			require.Len(t, res, 10)
			for i, r := range res {
				assert.Equal(t, "b", r.Vector.Label)
				assert.True(t, even(r.Vector))
				if i > 0 {
					assert.True(t, res[i-1].Distance <= r.Distance)
				}
			}
		}
		return nil
	}))
}

func TestSoftDelete(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{LinearSearchThreshold: 1})

	r := rand.New(rand.NewSource(11))
	vecs := insertAll(t, store, h, "doc", randomVectors(r, 200, 16))
	victim := vecs[42]

	require.Nil(t, kv.Update(store, func(txn kv.Txn) error {
		return h.Delete(txn, victim.ID)
	}))

	err := kv.Update(store, func(txn kv.Txn) error {
		return h.Delete(txn, victim.ID)
	})
	assert.ErrorIs(t, err, ErrVectorAlreadyDeleted)

	err = kv.Update(store, func(txn kv.Txn) error {
		return h.Delete(txn, storobj.NewID())
	})
	assert.ErrorIs(t, err, storobj.ErrVectorNotFound)

	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		res, err := h.Search(txn, arena.New(0), victim.Embedding, 5, "", nil)
		require.Nil(t, err)
		require.Len(t, res, 5)
		assert.NotContains(t, resultDocIDs(res), victim.DocID)

		got, err := h.GetVector(txn, nil, victim.ID, false)
		require.Nil(t, err)
		assert.True(t, got.Deleted)

		// still part of the graph
		snap, err := h.NewSnapshot(txn)
		require.Nil(t, err)
		assert.True(t, snap.IsDeleted(victim.DocID))
		assert.False(t, snap.IsDeleted(vecs[0].DocID))
		assert.Equal(t, []uint64{victim.DocID}, snap.Tombstones().Slice())
		assert.Equal(t, 199, snap.Len())
		linkedFrom := 0
		for _, v := range vecs {
			links, err := snap.Links(v.DocID, 0)
			require.Nil(t, err)
			for _, id := range links {
				if id == victim.DocID {
					linkedFrom++
				}
			}
		}
		assert.Greater(t, linkedFrom, 0)

		ratio, err := h.TombstoneRatio(txn)
		require.Nil(t, err)
		assert.InDelta(t, 1.0/200, ratio, 1e-9)
		return nil
	}))
}

func TestRebuild(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{LinearSearchThreshold: 1})

	r := rand.New(rand.NewSource(5))
	vecs := insertAll(t, store, h, "doc", randomVectors(r, 150, 16))

	require.Nil(t, kv.Update(store, func(txn kv.Txn) error {
		for _, v := range vecs[:50] {
			if err := h.Delete(txn, v.ID); err != nil {
				return err
			}
		}
		return h.Rebuild(txn)
	}))

	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		ratio, err := h.TombstoneRatio(txn)
		require.Nil(t, err)
		assert.Equal(t, 0.0, ratio)

		snap, err := h.NewSnapshot(txn)
		require.Nil(t, err)
		for _, v := range vecs[:50] {
			links, err := snap.Links(v.DocID, 0)
			require.Nil(t, err)
			assert.Empty(t, links)
		}
		for _, v := range vecs {
			links, err := snap.Links(v.DocID, 0)
			require.Nil(t, err)
			for _, id := range links {
				assert.False(t, snap.IsDeleted(id), "link to deleted %d", id)
			}
		}

		// live vectors find themselves
		found := 0
		for _, v := range vecs[50:] {
			res, err := h.Search(txn, arena.New(0), v.Embedding, 1, "", nil)
			require.Nil(t, err)
			require.Len(t, res, 1)
			if res[0].Vector.ID == v.ID {
				found++
			}
		}
		assert.GreaterOrEqual(t, found, 95)
		return nil
	}))
}

func TestAutoRebuild(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{LinearSearchThreshold: 1, AutoRebuildThreshold: 0.1})

	r := rand.New(rand.NewSource(9))
	vecs := insertAll(t, store, h, "doc", randomVectors(r, 20, 4))

	require.Nil(t, kv.Update(store, func(txn kv.Txn) error {
		for _, v := range vecs[:2] {
			if err := h.Delete(txn, v.ID); err != nil {
				return err
			}
		}
		ratio, err := h.TombstoneRatio(txn)
		require.Nil(t, err)
		assert.InDelta(t, 0.1, ratio, 1e-9)

		// the third delete crosses the threshold
		require.Nil(t, h.Delete(txn, vecs[2].ID))
		ratio, err = h.TombstoneRatio(txn)
		require.Nil(t, err)
		assert.Equal(t, 0.0, ratio)
		return nil
	}))
}

func TestSnapshot(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{LinearSearchThreshold: 1})

	r := rand.New(rand.NewSource(13))
	insertAll(t, store, h, "doc", randomVectors(r, 300, 16))
	queries := randomVectors(r, 8, 16)

	txn, err := store.Begin(false)
	require.Nil(t, err)

	snap, err := h.NewSnapshot(txn)
	require.Nil(t, err)

	want := make([][]uint64, len(queries))
	for i, q := range queries {
		res, err := h.Search(txn, arena.New(0), q, 5, "", nil)
		require.Nil(t, err)
		want[i] = resultDocIDs(res)
	}

	got := make([][]uint64, len(queries))
	errs := make([]error, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q []float32) {
			defer wg.Done()
			res, err := snap.Search(arena.New(0), q, 5, "", nil)
			errs[i] = err
			got[i] = resultDocIDs(res)
		}(i, q)
	}
	wg.Wait()
	for i := range queries {
		require.Nil(t, errs[i])
		assert.Equal(t, want[i], got[i])
	}

	require.Nil(t, txn.Rollback())
	_, err = snap.Search(arena.New(0), queries[0], 5, "", nil)
	assert.ErrorIs(t, err, kv.ErrTxClosed)
	_, err = snap.Links(0, 0)
	assert.ErrorIs(t, err, kv.ErrTxClosed)
	_, err = h.NewSnapshot(txn)
	assert.ErrorIs(t, err, kv.ErrTxClosed)
}

func TestSnapshotClosedWhileInUse(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{})

	r := rand.New(rand.NewSource(21))
	vecs := insertAll(t, store, h, "doc", randomVectors(r, 20, 4))

	txn, err := store.Begin(false)
	require.Nil(t, err)
	snap, err := h.NewSnapshot(txn)
	require.Nil(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for {
				if _, err := snap.Vector(vecs[i].DocID); err != nil {
					errs[i] = err
					return
				}
			}
		}(i)
	}
	require.Nil(t, txn.Rollback())
	wg.Wait()
	for _, err := range errs {
		assert.ErrorIs(t, err, kv.ErrTxClosed)
	}
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	h := newTestIndex(t, Config{M: 8})

	r := rand.New(rand.NewSource(17))
	insertAll(t, store, h, "doc", randomVectors(r, 100, 8))

	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		s, err := h.Stats(txn)
		require.Nil(t, err)
		assert.Equal(t, uint64(100), s.Vectors)
		assert.Equal(t, 8, s.Dimensions)
		assert.True(t, s.HasEntryPoint)
		assert.Equal(t, map[string]uint64{"doc": 100}, s.Labels)

		require.NotEmpty(t, s.Layers)
		assert.Equal(t, 0, s.Layers[0].Layer)
		assert.Equal(t, 100, s.Layers[0].Nodes)
		assert.Greater(t, s.Layers[0].MeanDegree, 1.0)
		assert.LessOrEqual(t, s.Layers[0].MaxDegree, 16)
		for _, l := range s.Layers[1:] {
			assert.LessOrEqual(t, l.MaxDegree, 8)
		}
		return nil
	}))
}
