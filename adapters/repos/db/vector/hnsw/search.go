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
	"time"

	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/priorityqueue"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw/distancer"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
)

type candidate = priorityqueue.Item[struct{}]

// Search returns up to k vectors closest to query, closest first. label and
// filter restrict the results, the walk itself passes through every node.
// Labels with fewer live vectors than the linear search threshold are
// scanned exhaustively.
func (h *Index) Search(txn kv.Txn, a *arena.Arena, query []float32, k int,
	label string, filter Filter,
) ([]Result, error) {
	m, err := loadMeta(txn)
	if err != nil {
		return nil, err
	}
	return h.search(newTxnGraph(txn, a), m, query, k, label, filter)
}

func (h *Index) search(g graph, m *meta, query []float32, k int, label string,
	filter Filter,
) ([]Result, error) {
	if m.Vectors == 0 {
		return nil, ErrEntryPointNotFound
	}
	if err := h.validateVector(query, m.Dimensions); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	start := time.Now()
	if !m.HasEntryPoint || m.live(label) < uint64(h.config.LinearSearchThreshold) {
		defer h.metrics.TrackSearch(true, start)
		return h.flatSearch(context.Background(), g, query, k, label, filter)
	}
	defer h.metrics.TrackSearch(false, start)

	dist := h.provider.New(query)
	entry, err := h.entryCandidate(g, m, dist)
	if err != nil {
		return nil, err
	}
	for layer := m.EntryLevel; layer >= 1; layer-- {
		entry, err = h.greedy(g, dist, entry, layer)
		if err != nil {
			return nil, errors.Wrapf(err, "descend layer %d", layer)
		}
	}

	// Deleted, filtered and foreign label nodes take up room in the beam.
	// Widen it until k results survive or the beam covers the whole graph.
	ef := max(h.config.EF, k)
	for {
		results, err := h.searchLayer(g, dist, []candidate{entry}, ef, 0)
		if err != nil {
			return nil, errors.Wrap(err, "search layer 0")
		}
		out, err := h.collect(g, results.DrainReversed(), k, label, filter)
		if err != nil {
			return nil, err
		}
		if len(out) >= k || uint64(ef) >= m.Vectors {
			return out, nil
		}
		ef *= 2
	}
}

func (h *Index) entryCandidate(g graph, m *meta, dist distancer.Distancer) (candidate, error) {
	ep, err := g.node(m.EntryPoint)
	if err != nil {
		return candidate{}, errors.Wrap(err, "load entry point")
	}
	d, err := dist.DistanceWithNorm(ep.Embedding, ep.Norm)
	if err != nil {
		return candidate{}, err
	}
	return candidate{ID: m.EntryPoint, Dist: d}, nil
}

// greedy follows the single closest neighbor on layer until no neighbor
// improves on the current node.
func (h *Index) greedy(g graph, dist distancer.Distancer, entry candidate,
	layer int,
) (candidate, error) {
	res, err := h.searchLayer(g, dist, []candidate{entry}, 1, layer)
	if err != nil {
		return candidate{}, err
	}
	return res.Pop(), nil
}

// searchLayer is a beam search of width ef on one layer. The returned max
// queue holds the ef closest nodes seen.
func (h *Index) searchLayer(g graph, dist distancer.Distancer, entries []candidate,
	ef, layer int,
) (*priorityqueue.Queue[struct{}], error) {
	seen := h.visitedPool.Borrow()
	defer h.visitedPool.Return(seen)

	candidates := priorityqueue.NewMin[struct{}](ef)
	results := priorityqueue.NewMax[struct{}](ef + 1)
	for _, e := range entries {
		if !seen.Visit(e.ID) {
			continue
		}
		candidates.Insert(e.ID, e.Dist)
		results.Insert(e.ID, e.Dist)
		if results.Len() > ef {
			results.Pop()
		}
	}

	for candidates.Len() > 0 {
		curr := candidates.Pop()
		if results.Len() >= ef && curr.Dist > results.Top().Dist {
			break
		}

		neighbors, err := g.links(curr.ID, layer)
		if err != nil {
			return nil, err
		}
		for _, id := range neighbors {
			if !seen.Visit(id) {
				continue
			}
			n, err := g.node(id)
			if err != nil {
				return nil, err
			}
			d, err := dist.DistanceWithNorm(n.Embedding, n.Norm)
			if err != nil {
				return nil, errors.Wrapf(err, "distance to %d", id)
			}
			if results.Len() < ef || d < results.Top().Dist {
				candidates.Insert(id, d)
				results.Insert(id, d)
				if results.Len() > ef {
					results.Pop()
				}
			}
		}
	}

	return results, nil
}

// collect turns the closest first beam into results, dropping deleted
// nodes, other labels and filtered vectors.
func (h *Index) collect(g graph, beam []candidate, k int, label string,
	filter Filter,
) ([]Result, error) {
	out := make([]Result, 0, k)
	for _, c := range beam {
		if len(out) == k {
			break
		}
		v, err := g.node(c.ID)
		if err != nil {
			return nil, err
		}
		if g.deleted(v) || (label != "" && v.Label != label) {
			continue
		}
		full, err := g.data(v)
		if err != nil {
			return nil, err
		}
		if filter != nil && !filter(full) {
			continue
		}
		out = append(out, Result{Vector: full, Distance: c.Dist})
	}
	return out, nil
}

func resultsFromQueue(q *priorityqueue.Queue[*storobj.Vector]) []Result {
	items := q.DrainReversed()
	out := make([]Result, len(items))
	for i, it := range items {
		out[i] = Result{Vector: it.Value, Distance: it.Dist}
	}
	return out
}
