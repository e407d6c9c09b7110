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
	"runtime"
	"sync"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/priorityqueue"
	"github.com/weaviate/weavegraph/entities/arena"
	enterrors "github.com/weaviate/weavegraph/entities/errors"
	"github.com/weaviate/weavegraph/entities/storobj"
)

// flatParallelThreshold is the candidate count from which distances are
// computed by several workers.
const flatParallelThreshold = 4096

// FlatSearch compares query with every live vector of label and returns the
// exact top k. It is what Search falls back to for small labels and what
// recall is measured against.
func (h *Index) FlatSearch(ctx context.Context, txn kv.Txn, a *arena.Arena,
	query []float32, k int, label string, filter Filter,
) ([]Result, error) {
	m, err := loadMeta(txn)
	if err != nil {
		return nil, err
	}
	if m.Vectors == 0 {
		return nil, ErrEntryPointNotFound
	}
	if err := h.validateVector(query, m.Dimensions); err != nil {
		return nil, err
	}
	return h.flatSearch(ctx, newTxnGraph(txn, a), query, k, label, filter)
}

func (h *Index) flatSearch(ctx context.Context, g graph, query []float32, k int,
	label string, filter Filter,
) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}

	// The graph is only read from this goroutine, workers get decoded
	// candidates.
	var candidates []*storobj.Vector
	err := g.scan(label, func(v *storobj.Vector) error {
		if g.deleted(v) {
			return nil
		}
		if filter != nil {
			full, err := g.data(v)
			if err != nil {
				return err
			}
			if !filter(full) {
				return nil
			}
			v = full
		}
		candidates = append(candidates, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	if len(candidates) < flatParallelThreshold {
		workers = 1
	}

	var mu sync.Mutex
	results := priorityqueue.NewMax[*storobj.Vector](k)

	eg := enterrors.NewErrorGroupWrapper(h.logger, "flat_search", label)
	for worker := 0; worker < workers; worker++ {
		worker := worker
		eg.Go(func() error {
			dist := h.provider.New(query)
			local := priorityqueue.NewMax[*storobj.Vector](k)
			for i := worker; i < len(candidates); i += workers {
				if i%1024 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				c := candidates[i]
				d, err := dist.DistanceWithNorm(c.Embedding, c.Norm)
				if err != nil {
					return err
				}
				local.InsertBounded(c.DocID, d, c, k)
			}

			mu.Lock()
			defer mu.Unlock()
			for local.Len() > 0 {
				it := local.Pop()
				results.InsertBounded(it.ID, it.Dist, it.Value, k)
			}
			return nil
		}, worker)
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := resultsFromQueue(results)
	if filter != nil {
		return out, nil
	}
	for i := range out {
		full, err := g.data(out[i].Vector)
		if err != nil {
			return nil, err
		}
		out[i].Vector = full
	}
	return out, nil
}
