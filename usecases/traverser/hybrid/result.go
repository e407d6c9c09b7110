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
// Package hybrid fuses ranked result lists, for example the keyword and the
// vector hits of one query, into a single ranking.
package hybrid

import (
	"context"

	"github.com/google/uuid"

	"github.com/weaviate/weavegraph/usecases/traverser"
)

// Result is one ranked element. Higher scores rank first in every list
// handed to a Reranker.
type Result struct {
	ID    uuid.UUID
	Score float32
	// Embedding is needed by rerankers that compare candidates with each
	// other.
	Embedding []float32
	// Value is the traversal value the result was built from, if any.
	Value traverser.TraversalValue
	// ExplainScore describes how the fused score came about.
	ExplainScore string
}

// Reranker merges one or more ranked lists into one list, best first.
type Reranker interface {
	Rerank(ctx context.Context, lists ...[]Result) ([]Result, error)
}

// FromTraversal turns the values of a search step into results. Vector
// searches score by distance, set distances so that closer values score
// higher.
func FromTraversal(vals []traverser.TraversalValue, distances bool) []Result {
	out := make([]Result, 0, len(vals))
	for _, v := range vals {
		if !v.HasID() {
			continue
		}
		r := Result{ID: v.ID(), Score: v.Score, Value: v}
		if distances {
			r.Score = 1 / (1 + v.Score)
		}
		if v.Kind == traverser.KindVector {
			r.Embedding = v.Vector.Embedding
		}
		out = append(out, r)
	}
	return out
}

// Values returns the traversal values of results in order.
func Values(results []Result) []traverser.TraversalValue {
	out := make([]traverser.TraversalValue, len(results))
	for i := range results {
		out[i] = results[i].Value
	}
	return out
}
