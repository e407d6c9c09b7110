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
package storage

import (
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/inverted"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw"
)

type Stats struct {
	Nodes            int                `json:"nodes"`
	Edges            int                `json:"edges"`
	SecondaryIndexes map[string]int     `json:"secondaryIndexes"`
	Vectors          *hnsw.Stats        `json:"vectors"`
	BM25             *inverted.Metadata `json:"bm25,omitempty"`
}

// Stats counts what the store holds. It reads every row, so it is meant for
// tooling and not for hot paths.
func (s *Storage) Stats(txn kv.Txn) (*Stats, error) {
	out := &Stats{SecondaryIndexes: map[string]int{}}

	var err error
	if out.Nodes, err = kv.Count(txn.Cursor(helpers.NodesSpace, nil)); err != nil {
		return nil, errors.Wrap(err, "count nodes")
	}
	if out.Edges, err = kv.Count(txn.Cursor(helpers.EdgesSpace, nil)); err != nil {
		return nil, errors.Wrap(err, "count edges")
	}
	for _, name := range s.IndexNames() {
		n, err := kv.Count(txn.PrefixDupCursor(helpers.IndexSpace(name), nil))
		if err != nil {
			return nil, errors.Wrapf(err, "count index %q", name)
		}
		out.SecondaryIndexes[name] = n
	}
	if out.Vectors, err = s.vectors.Stats(txn); err != nil {
		return nil, errors.Wrap(err, "vector stats")
	}
	if s.bm25 != nil {
		m, err := s.bm25.Metadata(txn)
		if err != nil {
			return nil, err
		}
		out.BM25 = &m
	}
	return out, nil
}
