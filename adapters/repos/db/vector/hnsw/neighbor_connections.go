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
	"slices"

	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/priorityqueue"
	"github.com/weaviate/weavegraph/entities/storobj"
)

// connect links v into the graph. v must already be stored and cached in g.
// The entry point in m is updated when v reaches above the current top
// layer or the graph was empty.
func (h *Index) connect(g *txnGraph, m *meta, v *storobj.Vector) error {
	if !m.HasEntryPoint {
		m.setEntryPoint(v.DocID, v.Level)
		return nil
	}

	dist := h.provider.New(v.Embedding)
	entry, err := h.entryCandidate(g, m, dist)
	if err != nil {
		return err
	}
	for layer := m.EntryLevel; layer > v.Level; layer-- {
		if entry, err = h.greedy(g, dist, entry, layer); err != nil {
			return errors.Wrapf(err, "descend layer %d", layer)
		}
	}

	entries := []candidate{entry}
	for layer := min(v.Level, m.EntryLevel); layer >= 0; layer-- {
		results, err := h.searchLayer(g, dist, entries, h.config.EFConstruction, layer)
		if err != nil {
			return errors.Wrapf(err, "find neighbors at layer %d", layer)
		}
		entries = results.DrainReversed()

		neighbors, err := h.selectNeighborsHeuristic(g, entries,
			h.config.MaxConnections(layer))
		if err != nil {
			return err
		}
		if err := g.setLinks(v.DocID, layer, neighbors); err != nil {
			return err
		}
		for _, id := range neighbors {
			if err := h.connectNeighbor(g, id, v, layer); err != nil {
				return errors.Wrapf(err, "connect %d to %d at layer %d", id, v.DocID, layer)
			}
		}
	}

	if v.Level > m.EntryLevel {
		m.setEntryPoint(v.DocID, v.Level)
	}
	return nil
}

// connectNeighbor adds the back link from neighborID to v. When the
// neighbor is full its links plus v are pruned back to the cap with the
// heuristic.
func (h *Index) connectNeighbor(g *txnGraph, neighborID uint64, v *storobj.Vector,
	layer int,
) error {
	if neighborID == v.DocID {
		return nil
	}
	current, err := g.links(neighborID, layer)
	if err != nil {
		return err
	}
	if slices.Contains(current, v.DocID) {
		return nil
	}

	limit := h.config.MaxConnections(layer)
	if len(current) < limit {
		updated := make([]uint64, len(current), len(current)+1)
		copy(updated, current)
		return g.setLinks(neighborID, layer, append(updated, v.DocID))
	}

	neighbor, err := g.node(neighborID)
	if err != nil {
		return err
	}
	dist := h.provider.New(neighbor.Embedding)

	candidates := priorityqueue.NewMin[struct{}](len(current) + 1)
	d, err := dist.DistanceWithNorm(v.Embedding, v.Norm)
	if err != nil {
		return err
	}
	candidates.Insert(v.DocID, d)
	for _, id := range current {
		n, err := g.node(id)
		if err != nil {
			return err
		}
		d, err := dist.DistanceWithNorm(n.Embedding, n.Norm)
		if err != nil {
			return err
		}
		candidates.Insert(id, d)
	}

	kept, err := h.selectNeighborsHeuristic(g, candidates.Drain(), limit)
	if err != nil {
		return err
	}
	return g.setLinks(neighborID, layer, kept)
}
