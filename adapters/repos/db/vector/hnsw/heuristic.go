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
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/entities/storobj"
)

// selectNeighborsHeuristic picks up to limit ids from candidates, which must
// be sorted closest first. A candidate is kept only if it is closer to the
// base node than to every candidate kept before it, which spreads the links
// over different directions.
func (h *Index) selectNeighborsHeuristic(g graph, candidates []candidate,
	limit int,
) ([]uint64, error) {
	if len(candidates) <= limit {
		ids := make([]uint64, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}
		return ids, nil
	}

	ids := make([]uint64, 0, limit)
	kept := make([]*storobj.Vector, 0, limit)
	for _, c := range candidates {
		if len(ids) == limit {
			break
		}
		v, err := g.node(c.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "heuristic candidate %d", c.ID)
		}

		good := true
		dist := h.provider.New(v.Embedding)
		for _, peer := range kept {
			d, err := dist.DistanceWithNorm(peer.Embedding, peer.Norm)
			if err != nil {
				return nil, err
			}
			if d < c.Dist {
				good = false
				break
			}
		}
		if good {
			ids = append(ids, c.ID)
			kept = append(kept, v)
		}
	}
	return ids, nil
}
