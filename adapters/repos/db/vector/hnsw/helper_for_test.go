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
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv/boltkv"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

func newTestStore(t *testing.T) kv.Backend {
	logger, _ := test.NewNullLogger()
	s, err := boltkv.Open(boltkv.Options{
		Dir:             t.TempDir(),
		InitialMmapSize: 1 << 26,
		NoSync:          true,
	}, logger)
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestIndex(t *testing.T, cfg Config) *Index {
	logger, _ := test.NewNullLogger()
	cfg.Logger = logger
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	h, err := New(cfg)
	require.Nil(t, err)
	return h
}

func randomVectors(r *rand.Rand, n, dims int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		vec := make([]float32, dims)
		for j := range vec {
			vec[j] = r.Float32()*2 - 1
		}
		out[i] = vec
	}
	return out
}

func insertAll(t *testing.T, store kv.Backend, h *Index, label string,
	vecs [][]float32,
) []*storobj.Vector {
	out := make([]*storobj.Vector, len(vecs))
	require.Nil(t, kv.Update(store, func(txn kv.Txn) error {
		for i, vec := range vecs {
			v, err := h.Insert(txn, label, vec, values.Of("i", i))
			if err != nil {
				return err
			}
			out[i] = v
		}
		return nil
	}))
	return out
}

func resultDocIDs(res []Result) []uint64 {
	out := make([]uint64, len(res))
	for i, r := range res {
		out[i] = r.Vector.DocID
	}
	return out
}
