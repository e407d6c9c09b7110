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
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/storage"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

func scanIter[T any](scan *storage.Scan[T], wrap func(T) TraversalValue) Iterator {
	return IteratorFunc(func() (Item, bool) {
		v, ok, err := scan.Next()
		if !ok {
			scan.Close()
			return Item{}, false
		}
		if err != nil {
			return Item{Err: err}, true
		}
		return Item{Value: wrap(v)}, true
	})
}

// NFromType yields every node of label in id order.
func (t *Traversal) NFromType(label string) *Traversal {
	return t.with(once(func() Iterator {
		return scanIter(t.storage.NodesOfLabel(t.txn, t.arena, label), NodeValue)
	}))
}

// NFromID yields the node id. A missing node is an error item.
func (t *Traversal) NFromID(id uuid.UUID) *Traversal {
	return t.with(once(func() Iterator {
		n, err := t.storage.GetNode(t.txn, t.arena, id)
		if err != nil {
			return errIter(err)
		}
		return valuesIter([]TraversalValue{NodeValue(n)})
	}))
}

// NFromIndex yields the nodes whose property covered by the secondary index
// equals value.
func (t *Traversal) NFromIndex(index string, value values.Value) *Traversal {
	return t.with(once(func() Iterator {
		ids, err := t.storage.LookupIndex(t.txn, index, value)
		if err != nil {
			return errIter(err)
		}
		return t.nodesByID(ids)
	}))
}

func (t *Traversal) nodesByID(ids []uuid.UUID) Iterator {
	i := 0
	return IteratorFunc(func() (Item, bool) {
		if i >= len(ids) {
			return Item{}, false
		}
		i++
		n, err := t.storage.GetNode(t.txn, t.arena, ids[i-1])
		if err != nil {
			return Item{Err: err}, true
		}
		return Item{Value: NodeValue(n)}, true
	})
}

// EFromType yields every edge of label in id order.
func (t *Traversal) EFromType(label string) *Traversal {
	return t.with(once(func() Iterator {
		return scanIter(t.storage.EdgesOfLabel(t.txn, t.arena, label), EdgeValue)
	}))
}

func (t *Traversal) EFromID(id uuid.UUID) *Traversal {
	return t.with(once(func() Iterator {
		e, err := t.storage.GetEdge(t.txn, t.arena, id)
		if err != nil {
			return errIter(err)
		}
		return valuesIter([]TraversalValue{EdgeValue(e)})
	}))
}

// VFromType yields the live vectors of label. The embeddings are only read
// when withEmbedding is set.
func (t *Traversal) VFromType(label string, withEmbedding bool) *Traversal {
	return t.with(once(func() Iterator {
		vecs, err := t.storage.VectorsOfLabel(t.txn, t.arena, label, withEmbedding)
		if err != nil {
			return errIter(err)
		}
		out := make([]TraversalValue, len(vecs))
		for i := range vecs {
			out[i] = VectorValue(vecs[i])
		}
		return valuesIter(out)
	}))
}

// VFromID yields one vector. A deleted vector is reported as not found.
func (t *Traversal) VFromID(id uuid.UUID, withEmbedding bool) *Traversal {
	return t.with(once(func() Iterator {
		v, err := t.loadVector(id, withEmbedding)
		if err != nil {
			return errIter(err)
		}
		return valuesIter([]TraversalValue{VectorValue(v)})
	}))
}

func (t *Traversal) loadVector(id uuid.UUID, withEmbedding bool) (*storobj.Vector, error) {
	v, err := t.storage.GetVector(t.txn, t.arena, id, withEmbedding)
	if err != nil {
		return nil, err
	}
	if v.Deleted {
		return nil, storobj.NewErrNotFound(storobj.ErrVectorNotFound, id)
	}
	return v, nil
}

// SearchV yields the k vectors of label nearest to query, nearest first.
// Score holds the distance. An index without vectors yields nothing.
func (t *Traversal) SearchV(query []float32, k int, label string, filter hnsw.Filter) *Traversal {
	return t.with(once(func() Iterator {
		res, err := t.storage.SearchVectors(t.txn, t.arena, query, k, label, filter)
		if errors.Is(err, hnsw.ErrEntryPointNotFound) {
			return emptyIter()
		}
		if err != nil {
			return errIter(err)
		}
		out := make([]TraversalValue, len(res))
		for i := range res {
			out[i] = VectorValue(res[i].Vector)
			out[i].Score = res[i].Distance
		}
		return valuesIter(out)
	}))
}

// SearchBM25 yields the k nodes of label ranked highest for query. The
// keyword index spans all labels, so hits of other labels are dropped after
// ranking and fewer than k nodes may be returned. Score holds the BM25
// score.
func (t *Traversal) SearchBM25(label, query string, k int) *Traversal {
	return t.with(once(func() Iterator {
		res, err := t.storage.SearchBM25(t.txn, query, k)
		if err != nil {
			return errIter(err)
		}
		items := make([]Item, 0, len(res))
		for _, r := range res {
			n, err := t.storage.GetNode(t.txn, t.arena, r.ID)
			if err != nil {
				items = append(items, Item{Err: errors.Wrapf(err, "resolve keyword hit %s", r.ID)})
				continue
			}
			if label != "" && n.Label != label {
				continue
			}
			v := NodeValue(n)
			v.Score = r.Score
			items = append(items, Item{Value: v})
		}
		return sliceIter(items)
	}))
}

// SearchHybrid yields the nodes matching query and the vectors near vector,
// ranked by a blend of keyword relevance and vector distance. A non-empty
// label keeps only nodes and vectors of that label. alpha weighs the keyword
// side, Score holds the blended score.
func (t *Traversal) SearchHybrid(label, query string, vector []float32, alpha float32, k int) *Traversal {
	return t.with(once(func() Iterator {
		res, err := t.storage.HybridSearch(t.txn, t.arena, query, vector, alpha, k, label)
		if err != nil {
			return errIter(err)
		}
		items := make([]Item, 0, len(res))
		for _, r := range res {
			v, err := t.resolve(r.ID)
			if err != nil {
				items = append(items, Item{Err: err})
				continue
			}
			v.Score = r.Score
			items = append(items, Item{Value: v})
		}
		return sliceIter(items)
	}))
}

// AddN stores a node right away and yields it. indexes names the secondary
// indexes to write, nil selects all indexes covering label.
func (t *Traversal) AddN(label string, props values.Properties, indexes []string) *Traversal {
	if it := t.requireWritable(); it != nil {
		return t.with(it)
	}
	n, err := t.storage.AddNode(t.txn, label, props, indexes)
	if err != nil {
		return t.with(errIter(err))
	}
	return t.with(valuesIter([]TraversalValue{NodeValue(n)}))
}

// AddE connects from and to and yields the new edge.
func (t *Traversal) AddE(label string, props values.Properties, from, to uuid.UUID) *Traversal {
	if it := t.requireWritable(); it != nil {
		return t.with(it)
	}
	e, err := t.storage.AddEdge(t.txn, label, props, from, to)
	if err != nil {
		return t.with(errIter(err))
	}
	return t.with(valuesIter([]TraversalValue{EdgeValue(e)}))
}

// AddV inserts an embedding into the vector index and yields the vector.
func (t *Traversal) AddV(embedding []float32, label string, props values.Properties) *Traversal {
	if it := t.requireWritable(); it != nil {
		return t.with(it)
	}
	v, err := t.storage.AddVector(t.txn, label, embedding, props)
	if err != nil {
		return t.with(errIter(err))
	}
	return t.with(valuesIter([]TraversalValue{VectorValue(v)}))
}

// Inject starts a traversal from values obtained elsewhere, for example the
// detached results of an earlier transaction.
func (t *Traversal) Inject(vals ...TraversalValue) *Traversal {
	return t.with(valuesIter(vals))
}
