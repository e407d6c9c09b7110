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

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw/distancer"
)

const DefaultMMRLambda = 0.7

var ErrMissingEmbedding = errors.New("maximal marginal relevance needs an embedding for every candidate")

// MMR is maximal marginal relevance. It picks candidates one at a time,
// each maximizing
//
//	Lambda*relevance - (1-Lambda)*max similarity to the already picked ones
//
// where relevance is the candidate score scaled to [0, 1] and similarity
// is 1/(1+distance) under Provider. Lambda 1 keeps the relevance order,
// lower values favour diverse results.
type MMR struct {
	Lambda   float64
	Provider distancer.Provider
	// Limit caps the number of picks, zero picks every candidate.
	Limit int
}

func NewMMR(lambda float64, provider distancer.Provider) *MMR {
	return &MMR{Lambda: lambda, Provider: provider}
}

// Rerank merges the lists, keeping the best score per id, and reorders the
// candidates.
func (m *MMR) Rerank(ctx context.Context, lists ...[]Result) ([]Result, error) {
	if m.Lambda < 0 || m.Lambda > 1 {
		return nil, errors.Errorf("mmr lambda must be within [0, 1], got %v", m.Lambda)
	}
	provider := m.Provider
	if provider == nil {
		provider = distancer.NewCosineDistanceProvider()
	}

	candidates := mergeBest(lists)
	if len(candidates) == 0 {
		return nil, nil
	}
	for _, c := range candidates {
		if len(c.Embedding) == 0 {
			return nil, errors.Wrapf(ErrMissingEmbedding, "candidate %s", c.ID)
		}
	}

	relevance := make([]float64, len(candidates))
	for i := range candidates {
		relevance[i] = float64(candidates[i].Score)
	}
	if hi, lo := floats.Max(relevance), floats.Min(relevance); hi != lo {
		floats.AddConst(-lo, relevance)
		floats.Scale(1/(hi-lo), relevance)
	} else {
		for i := range relevance {
			relevance[i] = 1
		}
	}

	limit := len(candidates)
	if m.Limit > 0 && m.Limit < limit {
		limit = m.Limit
	}

	// maxSim[i] is the highest similarity of candidate i to any pick.
	maxSim := make([]float64, len(candidates))
	picked := make([]bool, len(candidates))
	out := make([]Result, 0, limit)
	for len(out) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		best, bestScore := -1, 0.0
		for i := range candidates {
			if picked[i] {
				continue
			}
			score := m.Lambda*relevance[i] - (1-m.Lambda)*maxSim[i]
			if best < 0 || score > bestScore {
				best, bestScore = i, score
			}
		}

		picked[best] = true
		res := candidates[best]
		res.Score = float32(bestScore)
		out = append(out, res)

		for i := range candidates {
			if picked[i] {
				continue
			}
			d, err := provider.SingleDist(candidates[best].Embedding, candidates[i].Embedding)
			if err != nil {
				return nil, errors.Wrapf(err, "distance between %s and %s",
					candidates[best].ID, candidates[i].ID)
			}
			if sim := 1 / (1 + float64(d)); sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}
	return out, nil
}

// mergeBest flattens lists into one list ordered by score, keeping the
// highest score seen for an id.
func mergeBest(lists [][]Result) []Result {
	index := map[uuid.UUID]int{}
	var out []Result
	for _, list := range lists {
		for _, res := range list {
			if i, ok := index[res.ID]; ok {
				if res.Score > out[i].Score {
					emb := out[i].Embedding
					out[i] = res
					if len(res.Embedding) == 0 {
						out[i].Embedding = emb
					}
				}
				continue
			}
			index[res.ID] = len(out)
			out = append(out, res)
		}
	}
	sortResults(out)
	return out
}
