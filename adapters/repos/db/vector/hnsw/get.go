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
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
)

// GetVector loads a vector by id. Deleted vectors are returned with Deleted
// set. The embedding is only read when withEmbedding is true.
func (h *Index) GetVector(txn kv.Txn, a *arena.Arena, id uuid.UUID,
	withEmbedding bool,
) (*storobj.Vector, error) {
	v, err := getData(txn, a, id)
	if err != nil {
		return nil, err
	}
	if !withEmbedding {
		return v, nil
	}
	if err := loadEmbedding(txn, a, v); err != nil {
		return nil, err
	}
	return v, nil
}

// GetAllVectors returns the live vectors of label in insertion order. An
// empty label returns the vectors of all labels.
func (h *Index) GetAllVectors(txn kv.Txn, a *arena.Arena, label string,
	withEmbedding bool,
) ([]*storobj.Vector, error) {
	c := txn.Cursor(helpers.VectorDataSpace, nil)
	defer c.Close()

	var out []*storobj.Vector
	for k, raw, ok := c.Next(); ok; k, raw, ok = c.Next() {
		if label != "" {
			match, err := storobj.HasLabel(raw, label)
			if err != nil {
				return nil, err
			}
			if !match {
				continue
			}
		}
		id, err := uuid.FromBytes(k)
		if err != nil {
			return nil, storobj.ErrCorrupted{Key: fmt.Sprintf("%x", k), Reason: err.Error()}
		}
		v, err := storobj.VectorFromData(id, raw, a)
		if err != nil {
			return nil, err
		}
		if v.Deleted {
			continue
		}
		if withEmbedding {
			if err := loadEmbedding(txn, a, v); err != nil {
				return nil, err
			}
		}
		out = append(out, v)
	}
	return out, c.Err()
}

func loadEmbedding(txn kv.Txn, a *arena.Arena, v *storobj.Vector) error {
	raw, err := txn.Get(helpers.VectorsSpace, storobj.DocIDKey(v.DocID))
	if errors.Is(err, kv.ErrNotFound) {
		return storobj.NewErrCorruptedf(v.ID, "data record points to missing doc %d", v.DocID)
	}
	if err != nil {
		return errors.Wrapf(err, "read vector %s", v.ID)
	}
	header, err := storobj.VectorFromBinary(v.DocID, raw, true, a)
	if err != nil {
		return err
	}
	v.Embedding = header.Embedding
	v.Norm = header.Norm
	return nil
}

// NumInserted is the number of vectors ever inserted and not purged,
// deleted ones included.
func (h *Index) NumInserted(txn kv.Txn) (uint64, error) {
	m, err := loadMeta(txn)
	if err != nil {
		return 0, err
	}
	return m.Vectors, nil
}

// TombstoneRatio is the share of stored vectors that are deleted but still
// linked into the graph.
func (h *Index) TombstoneRatio(txn kv.Txn) (float64, error) {
	m, err := loadMeta(txn)
	if err != nil {
		return 0, err
	}
	return m.tombstoneRatio(), nil
}

// Dimensions is the vector length fixed by the first insert, zero before.
func (h *Index) Dimensions(txn kv.Txn) (int, error) {
	m, err := loadMeta(txn)
	if err != nil {
		return 0, err
	}
	return m.Dimensions, nil
}
