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
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
)

// graph is what the search and connect routines need to walk the index.
// Nodes returned by node carry their embedding.
type graph interface {
	node(docID uint64) (*storobj.Vector, error)
	links(docID uint64, layer int) ([]uint64, error)
	// data returns a copy of v completed with the properties of its data
	// record.
	data(v *storobj.Vector) (*storobj.Vector, error)
	deleted(v *storobj.Vector) bool
	// scan calls fn for every stored vector of label, or of every label
	// when label is empty, in doc id order.
	scan(label string, fn func(v *storobj.Vector) error) error
}

type linkKey struct {
	docID uint64
	layer int
}

// txnGraph reads the graph lazily from a transaction. Decoded nodes and link
// lists are cached for the duration of one operation, link writes go
// through to the transaction.
type txnGraph struct {
	txn       kv.Txn
	a         *arena.Arena
	nodes     map[uint64]*storobj.Vector
	linkCache map[linkKey][]uint64
}

func newTxnGraph(txn kv.Txn, a *arena.Arena) *txnGraph {
	return &txnGraph{
		txn:       txn,
		a:         a,
		nodes:     map[uint64]*storobj.Vector{},
		linkCache: map[linkKey][]uint64{},
	}
}

func (g *txnGraph) node(docID uint64) (*storobj.Vector, error) {
	if v, ok := g.nodes[docID]; ok {
		return v, nil
	}
	raw, err := g.txn.Get(helpers.VectorsSpace, storobj.DocIDKey(docID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, vectorNotFound(docID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read vector %d", docID)
	}
	v, err := storobj.VectorFromBinary(docID, raw, true, g.a)
	if err != nil {
		return nil, err
	}
	g.nodes[docID] = v
	return v, nil
}

func (g *txnGraph) links(docID uint64, layer int) ([]uint64, error) {
	key := linkKey{docID, layer}
	if l, ok := g.linkCache[key]; ok {
		return l, nil
	}
	raw, err := g.txn.Get(helpers.HNSWLinksSpace, helpers.LinksKey(docID, layer))
	if errors.Is(err, kv.ErrNotFound) {
		g.linkCache[key] = nil
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read links of %d at layer %d", docID, layer)
	}
	l, err := helpers.UnpackDocIDs(nil, raw)
	if err != nil {
		return nil, storobj.NewErrCorruptedf(docRef(docID), "links at layer %d: %v", layer, err)
	}
	g.linkCache[key] = l
	return l, nil
}

func (g *txnGraph) setLinks(docID uint64, layer int, ids []uint64) error {
	if err := g.txn.Put(helpers.HNSWLinksSpace, helpers.LinksKey(docID, layer),
		helpers.PackDocIDs(ids)); err != nil {
		return errors.Wrapf(err, "write links of %d at layer %d", docID, layer)
	}
	g.linkCache[linkKey{docID, layer}] = ids
	return nil
}

func (g *txnGraph) data(v *storobj.Vector) (*storobj.Vector, error) {
	return readData(g.txn, g.a, v)
}

func (g *txnGraph) deleted(v *storobj.Vector) bool {
	return v.Deleted
}

func (g *txnGraph) scan(label string, fn func(v *storobj.Vector) error) error {
	c := g.txn.Cursor(helpers.VectorsSpace, nil)
	defer c.Close()
	for k, raw, ok := c.Next(); ok; k, raw, ok = c.Next() {
		if label != "" {
			match, err := storobj.HasLabel(raw, label)
			if err != nil {
				return err
			}
			if !match {
				continue
			}
		}
		v, err := storobj.VectorFromBinary(storobj.DocIDFromKey(k), raw, true, g.a)
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return c.Err()
}

// readData merges the data record of v into a copy of v.
func readData(txn kv.Txn, a *arena.Arena, v *storobj.Vector) (*storobj.Vector, error) {
	data, err := getData(txn, a, v.ID)
	if err != nil {
		return nil, err
	}
	data.Embedding = v.Embedding
	data.Norm = v.Norm
	return data, nil
}

func getData(txn kv.Txn, a *arena.Arena, id uuid.UUID) (*storobj.Vector, error) {
	raw, err := txn.Get(helpers.VectorDataSpace, id[:])
	if errors.Is(err, kv.ErrNotFound) {
		return nil, storobj.NewErrNotFound(storobj.ErrVectorNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read vector data %s", id)
	}
	return storobj.VectorFromData(id, raw, a)
}
