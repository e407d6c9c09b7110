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
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// VectorHit is a vector search result as seen by hybrid scoring.
type VectorHit struct {
	ID       uuid.UUID
	Distance float32
}

// HybridCombine merges keyword and vector results into one ranking. The
// keyword score is normalized by the best keyword score, the vector
// distance d contributes as 1/(1+d). alpha weighs the keyword side, so 1
// is keyword only and 0 is vector only. At most k results are returned,
// best first and equal scores ordered by id.
func HybridCombine(bm25 []Result, vector []VectorHit, alpha float32, k int) []Result {
	if k <= 0 {
		return nil
	}
	alpha = min(max(alpha, 0), 1)

	var best float32
	for _, r := range bm25 {
		best = max(best, r.Score)
	}

	combined := make(map[uuid.UUID]float32, len(bm25)+len(vector))
	for _, r := range bm25 {
		norm := float32(0)
		if best > 0 {
			norm = r.Score / best
		}
		combined[r.ID] += alpha * norm
	}
	for _, h := range vector {
		combined[h.ID] += (1 - alpha) * (1 / (1 + h.Distance))
	}

	out := make([]Result, 0, len(combined))
	for id, score := range combined {
		out = append(out, Result{ID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
