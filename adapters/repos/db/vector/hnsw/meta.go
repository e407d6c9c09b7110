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
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
)

var (
	entryPointKey = []byte("entry_point")
	nextDocIDKey  = []byte("next_doc_id")
	countersKey   = []byte("counters")
)

// meta is the persisted state of the index that is not tied to a single
// vector. It is loaded at the start of every operation and written back by
// the mutating ones.
type meta struct {
	HasEntryPoint bool   `msgpack:"-"`
	EntryPoint    uint64 `msgpack:"-"`
	EntryLevel    int    `msgpack:"-"`
	NextDocID     uint64 `msgpack:"-"`

	Dimensions int `msgpack:"dimensions"`
	// Vectors counts every stored vector including deleted ones.
	Vectors uint64 `msgpack:"vectors"`
	// Deleted counts soft deleted vectors, Tombstones only those that are
	// still linked into the graph. Rebuild resets Tombstones.
	Deleted    uint64            `msgpack:"deleted"`
	Tombstones uint64            `msgpack:"tombstones"`
	Labels     map[string]uint64 `msgpack:"labels"`
}

func loadMeta(txn kv.Txn) (*meta, error) {
	m := &meta{Labels: map[string]uint64{}}

	ep, err := txn.Get(helpers.HNSWMetaSpace, entryPointKey)
	switch {
	case err == nil:
		if len(ep) != 16 {
			return nil, errors.Errorf("entry point record has %d bytes, want 16", len(ep))
		}
		m.HasEntryPoint = true
		m.EntryPoint = binary.BigEndian.Uint64(ep[:8])
		m.EntryLevel = int(binary.BigEndian.Uint64(ep[8:]))
	case !errors.Is(err, kv.ErrNotFound):
		return nil, errors.Wrap(err, "read entry point")
	}

	next, err := txn.Get(helpers.HNSWMetaSpace, nextDocIDKey)
	switch {
	case err == nil:
		if len(next) != 8 {
			return nil, errors.Errorf("doc id counter has %d bytes, want 8", len(next))
		}
		m.NextDocID = binary.BigEndian.Uint64(next)
	case !errors.Is(err, kv.ErrNotFound):
		return nil, errors.Wrap(err, "read doc id counter")
	}

	counters, err := txn.Get(helpers.HNSWMetaSpace, countersKey)
	switch {
	case err == nil:
		if err := msgpack.Unmarshal(counters, m); err != nil {
			return nil, errors.Wrap(err, "decode index counters")
		}
		if m.Labels == nil {
			m.Labels = map[string]uint64{}
		}
	case !errors.Is(err, kv.ErrNotFound):
		return nil, errors.Wrap(err, "read index counters")
	}

	return m, nil
}

func (m *meta) save(txn kv.Txn) error {
	if m.HasEntryPoint {
		ep := make([]byte, 16)
		binary.BigEndian.PutUint64(ep[:8], m.EntryPoint)
		binary.BigEndian.PutUint64(ep[8:], uint64(m.EntryLevel))
		if err := txn.Put(helpers.HNSWMetaSpace, entryPointKey, ep); err != nil {
			return errors.Wrap(err, "write entry point")
		}
	} else if err := txn.Delete(helpers.HNSWMetaSpace, entryPointKey); err != nil {
		return errors.Wrap(err, "clear entry point")
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, m.NextDocID)
	if err := txn.Put(helpers.HNSWMetaSpace, nextDocIDKey, next); err != nil {
		return errors.Wrap(err, "write doc id counter")
	}

	counters, err := msgpack.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encode index counters")
	}
	return errors.Wrap(txn.Put(helpers.HNSWMetaSpace, countersKey, counters),
		"write index counters")
}

// live is the number of vectors that are not deleted. The empty label
// counts all of them.
func (m *meta) live(label string) uint64 {
	if label == "" {
		return m.Vectors - m.Deleted
	}
	return m.Labels[label]
}

func (m *meta) setEntryPoint(docID uint64, level int) {
	m.HasEntryPoint = true
	m.EntryPoint = docID
	m.EntryLevel = level
}
