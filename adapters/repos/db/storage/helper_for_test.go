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
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
)

var backends = []kv.Kind{kv.KindBolt, kv.KindBadger}

func testConfig(t *testing.T, kind kv.Kind) Config {
	logger, _ := test.NewNullLogger()
	return Config{
		Path:            t.TempDir(),
		Backend:         kind,
		NoSync:          true,
		InitialMmapSize: 1 << 26,
		Logger:          logger,
	}
}

func openTestStorage(t *testing.T, cfg Config) *Storage {
	s, err := Open(cfg)
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachBackend runs fn once per backend with a fresh config.
func forEachBackend(t *testing.T, fn func(t *testing.T, cfg Config)) {
	for _, kind := range backends {
		t.Run(string(kind), func(t *testing.T) {
			fn(t, testConfig(t, kind))
		})
	}
}

func update(t *testing.T, s *Storage, fn func(txn kv.Txn) error) {
	require.Nil(t, s.Update(fn))
}

func view(t *testing.T, s *Storage, fn func(txn kv.Txn) error) {
	require.Nil(t, s.View(fn))
}
