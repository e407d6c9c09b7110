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
	"sync"

	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
)

// Snapshot is an immutable decoded copy of the graph as seen by one read
// transaction. It may be searched from several goroutines at once while the
// transaction is open and fails with kv.ErrTxClosed afterwards.
type Snapshot struct {
	index *Index
	txn   kv.Txn
	meta  *meta

	// items and links are indexed by doc id, gaps are nil.
	items      []*storobj.Vector
	links      [][][]uint64
	tombstones *helpers.AllowList

	// txnMu serializes reads of vector data through the shared transaction.
	txnMu sync.Mutex
}

func (h *Index) NewSnapshot(txn kv.Txn) (*Snapshot, error) {
	if txn.Closed() {
		return nil, kv.ErrTxClosed
	}
	m, err := loadMeta(txn)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		index:      h,
		txn:        txn,
		meta:       m,
		items:      make([]*storobj.Vector, m.NextDocID),
		links:      make([][][]uint64, m.NextDocID),
	}

	var deleted []uint64
	vc := txn.Cursor(helpers.VectorsSpace, nil)
	defer vc.Close()
	for k, raw, ok := vc.Next(); ok; k, raw, ok = vc.Next() {
		docID := storobj.DocIDFromKey(k)
		if docID >= uint64(len(s.items)) {
			return nil, storobj.NewErrCorruptedf(docRef(docID),
				"doc id beyond counter %d", m.NextDocID)
		}
		v, err := storobj.VectorFromBinary(docID, raw, true, nil)
		if err != nil {
			return nil, err
		}
		s.items[docID] = v
		if v.Deleted {
			deleted = append(deleted, docID)
		}
	}
	if err := vc.Err(); err != nil {
		return nil, errors.Wrap(err, "load vectors")
	}
	s.tombstones = helpers.NewDenyList(deleted...)

	lc := txn.Cursor(helpers.HNSWLinksSpace, nil)
	defer lc.Close()
	for k, raw, ok := lc.Next(); ok; k, raw, ok = lc.Next() {
		if len(k) != 9 {
			continue
		}
		docID := storobj.DocIDFromKey(k[:8])
		layer := int(k[8])
		if docID >= uint64(len(s.links)) {
			return nil, storobj.NewErrCorruptedf(docRef(docID),
				"links of doc beyond counter %d", m.NextDocID)
		}
		ids, err := helpers.UnpackDocIDs(nil, raw)
		if err != nil {
			return nil, storobj.NewErrCorruptedf(docRef(docID), "links at layer %d: %v", layer, err)
		}
		for len(s.links[docID]) <= layer {
			s.links[docID] = append(s.links[docID], nil)
		}
		s.links[docID][layer] = ids
	}
	if err := lc.Err(); err != nil {
		return nil, errors.Wrap(err, "load links")
	}

	return s, nil
}

func (s *Snapshot) check() error {
	if s.txn.Closed() {
		return kv.ErrTxClosed
	}
	return nil
}

// Search is Index.Search over the snapshot. a must not be shared with
// another goroutine.
func (s *Snapshot) Search(a *arena.Arena, query []float32, k int, label string,
	filter Filter,
) ([]Result, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.index.search(&snapshotGraph{s: s, a: a}, s.meta, query, k, label, filter)
}

// Vector returns the decoded vector with doc id docID. It is shared and must
// not be modified.
func (s *Snapshot) Vector(docID uint64) (*storobj.Vector, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if docID >= uint64(len(s.items)) || s.items[docID] == nil {
		return nil, vectorNotFound(docID)
	}
	return s.items[docID], nil
}

// Links returns the raw neighbor list of docID on layer, including links
// to deleted vectors.
func (s *Snapshot) Links(docID uint64, layer int) ([]uint64, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if docID >= uint64(len(s.links)) || layer >= len(s.links[docID]) {
		return nil, nil
	}
	return s.links[docID][layer], nil
}

func (s *Snapshot) IsDeleted(docID uint64) bool {
	return !s.tombstones.Contains(docID)
}

// Tombstones returns a copy of the deny list of deleted doc ids.
func (s *Snapshot) Tombstones() *helpers.AllowList {
	return s.tombstones.DeepCopy()
}

// Len is the number of live vectors.
func (s *Snapshot) Len() int {
	return int(s.meta.live(""))
}

type snapshotGraph struct {
	s *Snapshot
	a *arena.Arena
}

func (g *snapshotGraph) node(docID uint64) (*storobj.Vector, error) {
	if docID >= uint64(len(g.s.items)) || g.s.items[docID] == nil {
		return nil, vectorNotFound(docID)
	}
	return g.s.items[docID], nil
}

func (g *snapshotGraph) links(docID uint64, layer int) ([]uint64, error) {
	if docID >= uint64(len(g.s.links)) || layer >= len(g.s.links[docID]) {
		return nil, nil
	}
	return g.s.links[docID][layer], nil
}

func (g *snapshotGraph) data(v *storobj.Vector) (*storobj.Vector, error) {
	g.s.txnMu.Lock()
	defer g.s.txnMu.Unlock()
	if err := g.s.check(); err != nil {
		return nil, err
	}
	return readData(g.s.txn, g.a, v)
}

func (g *snapshotGraph) deleted(v *storobj.Vector) bool {
	return !g.s.tombstones.Contains(v.DocID)
}

func (g *snapshotGraph) scan(label string, fn func(v *storobj.Vector) error) error {
	for _, v := range g.s.items {
		if v == nil || (label != "" && v.Label != label) {
			continue
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}
