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
package hybrid

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/weavegraph/usecases/traverser"
)

const DefaultLimit = 100

// Params of a hybrid search. Alpha weighs the keyword side: 1 runs only the
// keyword search, 0 only the vector search.
type Params struct {
	// Label restricts the keyword hits to nodes of one label.
	Label string
	// VectorLabel restricts the vector hits to vectors of one label.
	VectorLabel string
	Query       string
	Vector      []float32
	Alpha       float64
	Limit       int
}

// Searcher runs the keyword and the vector side of a hybrid search as
// traversals and fuses them with a Reranker, reciprocal rank fusion unless
// set otherwise.
type Searcher struct {
	params   Params
	logger   logrus.FieldLogger
	reranker Reranker
}

func NewSearcher(params Params, logger logrus.FieldLogger, reranker Reranker) *Searcher {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	return &Searcher{
		params:   params,
		logger:   logger,
		reranker: reranker,
	}
}

// Search fetches Limit candidates per side. g must return a fresh traversal
// on the caller's transaction for every call.
func (s *Searcher) Search(ctx context.Context, g func() *traverser.Traversal) ([]Result, error) {
	if s.params.Alpha < 0 || s.params.Alpha > 1 {
		return nil, errors.Errorf("alpha must be within [0, 1], got %v", s.params.Alpha)
	}

	var (
		found   [][]Result
		weights []float64
	)
	if s.params.Query != "" && s.params.Alpha > 0 {
		res, err := s.sparseSearch(g())
		if err != nil {
			return nil, err
		}
		found = append(found, res)
		weights = append(weights, s.params.Alpha)
	}
	if len(s.params.Vector) != 0 && s.params.Alpha < 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.denseSearch(g())
		if err != nil {
			return nil, err
		}
		found = append(found, res)
		weights = append(weights, 1-s.params.Alpha)
	}
	if len(found) == 0 {
		return nil, nil
	}

	reranker := s.reranker
	if reranker == nil {
		reranker = &RRF{K: DefaultRRFK, Weights: weights}
	}
	fused, err := reranker.Rerank(ctx, found...)
	if err != nil {
		return nil, errors.Wrap(err, "fuse hybrid results")
	}

	if len(fused) > s.params.Limit {
		s.logger.WithField("action", "hybrid_search").
			Debugf("found more hybrid search results than limit, limiting %v results to %v",
				len(fused), s.params.Limit)
		fused = fused[:s.params.Limit]
	}
	return fused, nil
}

func (s *Searcher) sparseSearch(g *traverser.Traversal) ([]Result, error) {
	vals, err := g.SearchBM25(s.params.Label, s.params.Query, s.params.Limit).Collect()
	if err != nil {
		return nil, errors.Wrap(err, "sparse search")
	}
	res := FromTraversal(vals, false)
	for i := range res {
		res[i].ExplainScore = fmt.Sprintf("(bm25) %v", res[i].Score)
	}
	return res, nil
}

func (s *Searcher) denseSearch(g *traverser.Traversal) ([]Result, error) {
	vals, err := g.SearchV(s.params.Vector, s.params.Limit, s.params.VectorLabel, nil).Collect()
	if err != nil {
		return nil, errors.Wrap(err, "dense search")
	}
	res := FromTraversal(vals, true)
	for i := range res {
		res[i].ExplainScore = fmt.Sprintf("(vector) %v distance %v",
			truncateVectorString(10, s.params.Vector), vals[i].Score)
	}
	return res, nil
}

func truncateVectorString(maxLength int, vector []float32) string {
	if len(vector) <= maxLength {
		return fmt.Sprintf("%v", vector)
	}
	return fmt.Sprintf("%v...", vector[:maxLength])
}
