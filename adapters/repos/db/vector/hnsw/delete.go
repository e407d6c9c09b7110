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
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/storobj"
)

// Delete marks the vector as deleted. Its node and links stay in the graph
// so that searches can still route through it, it is just never returned.
func (h *Index) Delete(txn kv.Txn, id uuid.UUID) error {
	if !txn.Writable() {
		return kv.ErrTxNotWritable
	}
	data, err := getData(txn, nil, id)
	if err != nil {
		return err
	}
	if data.Deleted {
		return errors.Wrapf(ErrVectorAlreadyDeleted, "vector %s", id)
	}

	raw, err := txn.Get(helpers.VectorsSpace, storobj.DocIDKey(data.DocID))
	if errors.Is(err, kv.ErrNotFound) {
		return storobj.NewErrCorruptedf(id, "data record points to missing doc %d", data.DocID)
	}
	if err != nil {
		return errors.Wrapf(err, "read vector %s", id)
	}
	v, err := storobj.VectorFromBinary(data.DocID, raw, true, nil)
	if err != nil {
		return err
	}
	v.Deleted = true
	v.Properties = data.Properties
	if err := putVector(txn, v); err != nil {
		return err
	}

	m, err := loadMeta(txn)
	if err != nil {
		return err
	}
	m.Deleted++
	m.Tombstones++
	if m.Labels[v.Label] > 0 {
		m.Labels[v.Label]--
	}
	if m.Labels[v.Label] == 0 {
		delete(m.Labels, v.Label)
	}
	if err := m.save(txn); err != nil {
		return err
	}
	h.metrics.Delete()
	h.metrics.SetSize(m.Vectors, m.Tombstones)

	if threshold := h.config.AutoRebuildThreshold; threshold > 0 &&
		m.tombstoneRatio() > threshold {
		h.logger.WithField("action", "hnsw_auto_rebuild").
			WithField("tombstones", m.Tombstones).
			WithField("vectors", m.Vectors).
			Info("tombstone ratio exceeded threshold, rebuilding graph")
		return h.Rebuild(txn)
	}
	return nil
}

// Rebuild drops every link and the entry point and inserts the live vectors
// again in doc id order, each at the level it was first assigned. Deleted
// vectors remain stored without links.
func (h *Index) Rebuild(txn kv.Txn) error {
	if !txn.Writable() {
		return kv.ErrTxNotWritable
	}
	m, err := loadMeta(txn)
	if err != nil {
		return err
	}
	if err := txn.DropSpace(helpers.HNSWLinksSpace); err != nil {
		return errors.Wrap(err, "drop links")
	}
	m.HasEntryPoint = false
	m.EntryPoint = 0
	m.EntryLevel = 0

	a := h.arenas.Get()
	defer h.arenas.Put(a)
	g := newTxnGraph(txn, a)

	linked := 0
	err = g.scan("", func(v *storobj.Vector) error {
		if v.Deleted {
			return nil
		}
		g.nodes[v.DocID] = v
		linked++
		return h.connect(g, m, v)
	})
	if err != nil {
		return errors.Wrap(err, "relink vectors")
	}

	m.Tombstones = 0
	if err := m.save(txn); err != nil {
		return err
	}

	h.metrics.Rebuild()
	h.metrics.SetSize(m.Vectors, m.Tombstones)
	h.logger.WithField("action", "hnsw_rebuild").
		WithField("linked", linked).
		WithField("deleted", m.Deleted).
		Debug("rebuilt graph")
	return nil
}

func (m *meta) tombstoneRatio() float64 {
	if m.Vectors == 0 {
		return 0
	}
	return float64(m.Tombstones) / float64(m.Vectors)
}
