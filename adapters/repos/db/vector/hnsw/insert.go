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

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

// Insert stores embedding as a new vector of label and links it into the
// graph. The first insert fixes the dimensionality of the index.
func (h *Index) Insert(txn kv.Txn, label string, embedding []float32,
	props values.Properties,
) (*storobj.Vector, error) {
	if !txn.Writable() {
		return nil, kv.ErrTxNotWritable
	}
	m, err := loadMeta(txn)
	if err != nil {
		return nil, err
	}
	if err := h.validateVector(embedding, m.Dimensions); err != nil {
		return nil, err
	}
	if m.Dimensions == 0 {
		m.Dimensions = len(embedding)
	}

	v := &storobj.Vector{
		ID:         storobj.NewID(),
		DocID:      m.NextDocID,
		Label:      label,
		Version:    storobj.DefaultVersion,
		Level:      h.randomLevel(),
		Properties: props,
		Embedding:  append([]float32(nil), embedding...),
	}
	v.Norm = storobj.Norm(v.Embedding)
	m.NextDocID++

	if err := putVector(txn, v); err != nil {
		return nil, err
	}

	a := h.arenas.Get()
	defer h.arenas.Put(a)
	g := newTxnGraph(txn, a)
	g.nodes[v.DocID] = v
	if err := h.connect(g, m, v); err != nil {
		return nil, errors.Wrapf(err, "link vector %s", v.ID)
	}

	m.Vectors++
	m.Labels[label]++
	if err := m.save(txn); err != nil {
		return nil, err
	}

	h.metrics.Insert()
	h.metrics.SetSize(m.Vectors, m.Tombstones)
	return v, nil
}
