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
package traverser

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/storage"
	"github.com/weaviate/weavegraph/entities/arena"
)

func testConfig(t *testing.T, kind kv.Kind) storage.Config {
	logger, _ := test.NewNullLogger()
	return storage.Config{
		Path:            t.TempDir(),
		Backend:         kind,
		NoSync:          true,
		InitialMmapSize: 1 << 26,
		BM25Enabled:     true,
		Logger:          logger,
	}
}

func openStorage(t *testing.T, cfg storage.Config) *storage.Storage {
	s, err := storage.Open(cfg)
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s *storage.Storage)) {
	for _, kind := range []kv.Kind{kv.KindBolt, kv.KindBadger} {
		t.Run(string(kind), func(t *testing.T) {
			fn(t, openStorage(t, testConfig(t, kind)))
		})
	}
}

// update runs fn in a committed write transaction. g starts a new write
// traversal on every call.
func update(t *testing.T, s *storage.Storage, fn func(g func() *Traversal)) {
	require.Nil(t, s.Update(func(txn kv.Txn) error {
		a := arena.New(0)
		fn(func() *Traversal {
			g, err := NewRw(s, txn, a)
			require.Nil(t, err)
			return g
		})
		return nil
	}))
}

// view is update for read traversals.
func view(t *testing.T, s *storage.Storage, fn func(g func() *Traversal)) {
	require.Nil(t, s.View(func(txn kv.Txn) error {
		a := arena.New(0)
		fn(func() *Traversal { return NewRo(s, txn, a) })
		return nil
	}))
}

func mustCollect(t *testing.T, g *Traversal) []TraversalValue {
	vals, err := g.Collect()
	require.Nil(t, err)
	return vals
}

func ids(vals []TraversalValue) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.ID().String()
	}
	return out
}
