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
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/inverted"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

func (s *Storage) AddVector(txn kv.Txn, label string, embedding []float32,
	props values.Properties,
) (*storobj.Vector, error) {
	start := time.Now()
	v, err := s.vectors.Insert(txn, label, embedding, props)
	if err != nil {
		return nil, err
	}
	s.metrics.Operation("vector", "add", start)
	return v, nil
}

// GetVector loads a vector, deleted ones included.
func (s *Storage) GetVector(txn kv.Txn, a *arena.Arena, id uuid.UUID,
	withEmbedding bool,
) (*storobj.Vector, error) {
	return s.vectors.GetVector(txn, a, id, withEmbedding)
}

// VectorsOfLabel returns the live vectors of label, all labels if empty.
func (s *Storage) VectorsOfLabel(txn kv.Txn, a *arena.Arena, label string,
	withEmbedding bool,
) ([]*storobj.Vector, error) {
	return s.vectors.GetAllVectors(txn, a, label, withEmbedding)
}

// DropVector soft deletes a vector from the index and removes the edges
// attached to it.
func (s *Storage) DropVector(txn kv.Txn, id uuid.UUID) error {
	start := time.Now()
	if !txn.Writable() {
		return kv.ErrTxNotWritable
	}

	if err := s.vectors.Delete(txn, id); err != nil {
		return err
	}
	if err := s.dropIncidentEdges(txn, id); err != nil {
		return errors.Wrapf(err, "drop edges of vector %s", id)
	}
	s.metrics.Operation("vector", "drop", start)
	return nil
}

// SearchVectors returns the k vectors of label closest to query.
func (s *Storage) SearchVectors(txn kv.Txn, a *arena.Arena, query []float32, k int,
	label string, filter hnsw.Filter,
) ([]hnsw.Result, error) {
	return s.vectors.Search(txn, a, query, k, label, filter)
}

// RebuildVectors relinks every live vector from scratch.
func (s *Storage) RebuildVectors(txn kv.Txn) error {
	start := time.Now()
	if err := s.vectors.Rebuild(txn); err != nil {
		return err
	}
	s.metrics.Operation("vector", "rebuild", start)
	return nil
}

// SearchBM25 returns the k nodes that best match query.
func (s *Storage) SearchBM25(txn kv.Txn, query string, k int) ([]inverted.Result, error) {
	if s.bm25 == nil {
		return nil, ErrBM25Disabled
	}
	return s.bm25.Search(txn, query, k)
}

// HybridSearch blends the keyword ranking of query with the vector ranking
// of vector. Both sides fetch 2k candidates before they are combined, alpha
// weighs the keyword side. A non-empty label restricts both sides.
func (s *Storage) HybridSearch(txn kv.Txn, a *arena.Arena, query string, vector []float32,
	alpha float32, k int, label string,
) ([]inverted.Result, error) {
	if s.bm25 == nil {
		return nil, ErrBM25Disabled
	}
	if k <= 0 {
		return nil, nil
	}

	keyword, err := s.bm25.Search(txn, query, 2*k)
	if err != nil {
		return nil, errors.Wrap(err, "keyword search")
	}
	if label != "" {
		if keyword, err = s.keepLabel(txn, keyword, label); err != nil {
			return nil, errors.Wrap(err, "keyword search")
		}
	}

	var hits []inverted.VectorHit
	results, err := s.vectors.Search(txn, a, vector, 2*k, label, nil)
	switch {
	case errors.Is(err, hnsw.ErrEntryPointNotFound):
	case err != nil:
		return nil, errors.Wrap(err, "vector search")
	default:
		hits = make([]inverted.VectorHit, len(results))
		for i, r := range results {
			hits[i] = inverted.VectorHit{ID: r.Vector.ID, Distance: r.Distance}
		}
	}

	return inverted.HybridCombine(keyword, hits, alpha, k), nil
}

// keepLabel drops keyword hits whose node does not carry label.
func (s *Storage) keepLabel(txn kv.Txn, results []inverted.Result, label string,
) ([]inverted.Result, error) {
	kept := results[:0]
	for _, r := range results {
		node, err := s.GetNode(txn, nil, r.ID)
		if errors.Is(err, storobj.ErrNodeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if node.Label == label {
			kept = append(kept, r)
		}
	}
	return kept, nil
}
