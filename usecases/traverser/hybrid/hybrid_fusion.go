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
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// DefaultRRFK dampens the weight of the top ranks in reciprocal rank fusion.
const DefaultRRFK = 60

// RRF is reciprocal rank fusion: every list contributes weight/(K+rank) to
// the score of each of its elements, rank starting at 1. Only positions
// count, the scores of the input lists are ignored.
type RRF struct {
	K int
	// Weights per list, all lists weigh 1 when empty.
	Weights []float64
}

func NewRRF() *RRF {
	return &RRF{K: DefaultRRFK}
}

func (r *RRF) Rerank(ctx context.Context, lists ...[]Result) ([]Result, error) {
	if err := checkWeights(r.Weights, len(lists)); err != nil {
		return nil, err
	}
	k := r.K
	if k <= 0 {
		k = DefaultRRFK
	}

	combined := map[uuid.UUID]*Result{}
	scores := map[uuid.UUID]float64{}
	for i, list := range lists {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w := weight(r.Weights, i)
		for rank, res := range list {
			contrib := w / float64(k+rank+1)
			prev, ok := combined[res.ID]
			if !ok {
				res := res
				prev = &res
				prev.ExplainScore = ""
				combined[res.ID] = prev
			}
			scores[res.ID] += contrib
			prev.ExplainScore += fmt.Sprintf("(result set %d) rank %d contributed %.6f; ",
				i, rank+1, contrib)
		}
	}

	out := make([]Result, 0, len(combined))
	for id, res := range combined {
		res.Score = float32(scores[id])
		out = append(out, *res)
	}
	sortResults(out)
	return out, nil
}

// RelativeScore normalizes the scores of every list to [0, 1], the best
// element of a list scoring 1 and the worst 0, and sums the weighted
// normalized scores. A list whose scores are all equal gives every element
// the full weight.
type RelativeScore struct {
	Weights []float64
}

func (r *RelativeScore) Rerank(ctx context.Context, lists ...[]Result) ([]Result, error) {
	if err := checkWeights(r.Weights, len(lists)); err != nil {
		return nil, err
	}

	combined := map[uuid.UUID]*Result{}
	for i, list := range lists {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(list) == 0 {
			continue
		}
		raw := make([]float64, len(list))
		for j := range list {
			raw[j] = float64(list[j].Score)
		}
		hi, lo := floats.Max(raw), floats.Min(raw)
		w := weight(r.Weights, i)

		for j, res := range list {
			score := w
			if hi != lo {
				score *= (raw[j] - lo) / (hi - lo)
			}
			explain := fmt.Sprintf("(result set %d) original score %v, normalized score %.6f; ",
				i, res.Score, score)
			if prev, ok := combined[res.ID]; ok {
				prev.Score += float32(score)
				prev.ExplainScore += explain
				continue
			}
			res := res
			res.Score = float32(score)
			res.ExplainScore = explain
			combined[res.ID] = &res
		}
	}

	out := make([]Result, 0, len(combined))
	for _, res := range combined {
		out = append(out, *res)
	}
	sortResults(out)
	return out, nil
}

func checkWeights(weights []float64, lists int) error {
	if len(weights) != 0 && len(weights) != lists {
		return errors.Errorf("got %d weights for %d result lists", len(weights), lists)
	}
	return nil
}

func weight(weights []float64, i int) float64 {
	if len(weights) == 0 {
		return 1
	}
	return weights[i]
}

// sortResults orders by score, equal scores by id so the output does not
// depend on map iteration.
func sortResults(res []Result) {
	sort.Slice(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return bytes.Compare(res[i].ID[:], res[j].ID[:]) < 0
	})
}
